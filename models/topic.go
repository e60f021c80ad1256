package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Topic represents a safety-briefing subject with its reference document.
// Talk records snapshot the name and PDF URL at submission time, so editing
// a topic never rewrites history.
type Topic struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Content      string      `json:"content"`
	PDFURL       string      `json:"pdfUrl"`
	Status       string      `json:"status"`
	DateAdded    time.Time   `json:"dateAdded"`
	LastModified time.Time   `json:"lastModified"`
	History      []ChangeLog `json:"history"`
}

// NewTopic creates an active topic with a CREATED history entry.
// Returns nil if the name is blank.
func NewTopic(name, content, pdfURL, actor string) *Topic {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	now := time.Now().UTC()
	return &Topic{
		ID:           uuid.NewString(),
		Name:         name,
		Content:      content,
		PDFURL:       pdfURL,
		Status:       StatusActive,
		DateAdded:    now,
		LastModified: now,
		History:      []ChangeLog{NewChangeLog(ActionCreated, "Topic added: "+name, actor)},
	}
}

// Active reports whether the topic is selectable for new talks.
func (t *Topic) Active() bool {
	return t.Status == StatusActive
}
