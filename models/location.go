package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location represents a site where talks are held.
type Location struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Status       string      `json:"status"`
	DateAdded    time.Time   `json:"dateAdded"`
	LastModified time.Time   `json:"lastModified"`
	History      []ChangeLog `json:"history"`
}

// NewLocation creates an active location with a CREATED history entry.
// Returns nil if the name is blank.
func NewLocation(name, actor string) *Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	now := time.Now().UTC()
	return &Location{
		ID:           uuid.NewString(),
		Name:         name,
		Status:       StatusActive,
		DateAdded:    now,
		LastModified: now,
		History:      []ChangeLog{NewChangeLog(ActionCreated, "Location added: "+name, actor)},
	}
}

// Active reports whether the location is selectable for new talks.
func (l *Location) Active() bool {
	return l.Status == StatusActive
}
