package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CrewMember represents a permanent roster member.
type CrewMember struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Status       string      `json:"status"`
	DateAdded    time.Time   `json:"dateAdded"`
	LastModified time.Time   `json:"lastModified"`
	History      []ChangeLog `json:"history"`
}

// NewCrewMember creates an active crew member with a CREATED history entry.
// Returns nil if the name is blank.
func NewCrewMember(name, actor string) *CrewMember {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	now := time.Now().UTC()
	return &CrewMember{
		ID:           uuid.NewString(),
		Name:         name,
		Status:       StatusActive,
		DateAdded:    now,
		LastModified: now,
		History:      []ChangeLog{NewChangeLog(ActionCreated, "Crew member added: "+name, actor)},
	}
}

// Active reports whether the member is on the active roster.
func (m *CrewMember) Active() bool {
	return m.Status == StatusActive
}

// PendingCrewMember is a provisional roster entry created when a foreman
// captures a guest attendee during a talk. Its ID is the normalized name,
// which is the dedup key; a second guest submission under the same
// normalized name is a no-op against the queue.
type PendingCrewMember struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Source GuestSource `json:"source"`
}

// GuestSource records where a provisional entry came from. It is a weak,
// informational reference only.
type GuestSource struct {
	TalkID       string    `json:"talkId"`
	ForemanEmail string    `json:"foremanEmail"`
	DateAdded    time.Time `json:"dateAdded"`
}

// NormalizeName trims and case-folds an attendee name for dedup comparisons.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewPendingCrewMember stages a guest for reviewer approval. Returns nil if
// the name normalizes to empty.
func NewPendingCrewMember(name, talkID, foremanEmail string) *PendingCrewMember {
	key := NormalizeName(name)
	if key == "" {
		return nil
	}
	return &PendingCrewMember{
		ID:   key,
		Name: strings.TrimSpace(name),
		Source: GuestSource{
			TalkID:       talkID,
			ForemanEmail: foremanEmail,
			DateAdded:    time.Now().UTC(),
		},
	}
}
