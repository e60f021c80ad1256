package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sync statuses. A record's placement in the pending or synced collection is
// the source of truth; the field mirrors it for readers.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
)

// Record statuses. An amended record returns to submitted; the AMENDED
// history entry is what distinguishes it from a never-flagged one.
const (
	RecordSubmitted = "submitted"
	RecordFlagged   = "flagged"
)

// CrewSignature is one attendee line on a talk record.
type CrewSignature struct {
	Name      string  `json:"name"`
	Signature *string `json:"signature"`
	IsGuest   bool    `json:"isGuest,omitempty"`
}

// Flag is a reviewer-initiated correction request. It is present if and
// only if the record status is flagged.
type Flag struct {
	FlaggedBy string    `json:"flaggedBy"`
	FlaggedAt time.Time `json:"flaggedAt"`
	Reason    string    `json:"reason"`
}

// TalkRecord is one logged safety briefing. The id is client-generated so
// it is usable offline and stable across the pending-to-synced move. The
// topic name and PDF URL are snapshots taken at submission time.
type TalkRecord struct {
	ID             string          `json:"id"`
	DateTime       time.Time       `json:"dateTime"`
	Location       string          `json:"location"`
	Topic          string          `json:"topic"`
	TopicID        string          `json:"topicId"`
	TopicPDFURL    string          `json:"topicPdfUrl"`
	ForemanName    string          `json:"foremanName"`
	CrewSignatures []CrewSignature `json:"crewSignatures"`
	SyncStatus     string          `json:"syncStatus"`
	RecordStatus   string          `json:"recordStatus"`
	Flag           *Flag           `json:"flag,omitempty"`
	QueuedAt       time.Time       `json:"queuedAt"`
	History        []ChangeLog     `json:"history"`
}

// Flagged reports whether the record has an open correction request.
func (r *TalkRecord) Flagged() bool {
	return r.RecordStatus == RecordFlagged
}

// Validate checks the flag invariant: a flag object exists exactly when the
// record status is flagged.
func (r *TalkRecord) Validate() error {
	if r.Flagged() && r.Flag == nil {
		return fmt.Errorf("talk record %s is flagged but has no flag details", r.ID)
	}
	if !r.Flagged() && r.Flag != nil {
		return fmt.Errorf("talk record %s is not flagged but carries flag details", r.ID)
	}
	return nil
}

// TalkForm represents submission data for a new talk record.
type TalkForm struct {
	DateTime       time.Time       `json:"dateTime"`
	Location       string          `json:"location"`
	TopicID        string          `json:"topicId"`
	ForemanName    string          `json:"foremanName"`
	CrewSignatures []CrewSignature `json:"crewSignatures"`
}

// Validate validates the talk submission form.
func (f *TalkForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Location) == "" {
		errors = append(errors, "Location is required")
	}
	if strings.TrimSpace(f.TopicID) == "" {
		errors = append(errors, "Topic is required")
	}
	if strings.TrimSpace(f.ForemanName) == "" {
		errors = append(errors, "Foreman name is required")
	}
	if len(f.CrewSignatures) == 0 {
		errors = append(errors, "At least one attendee is required")
	}
	for _, sig := range f.CrewSignatures {
		if strings.TrimSpace(sig.Name) == "" {
			errors = append(errors, "Attendee names must not be blank")
			break
		}
	}

	return errors
}

// NewTalkRecord builds a submitted, pending talk record from a validated
// form and the topic snapshot.
func NewTalkRecord(form *TalkForm, topic *Topic) *TalkRecord {
	now := time.Now().UTC()
	dateTime := form.DateTime
	if dateTime.IsZero() {
		dateTime = now
	}
	return &TalkRecord{
		ID:             uuid.NewString(),
		DateTime:       dateTime,
		Location:       strings.TrimSpace(form.Location),
		Topic:          topic.Name,
		TopicID:        topic.ID,
		TopicPDFURL:    topic.PDFURL,
		ForemanName:    strings.TrimSpace(form.ForemanName),
		CrewSignatures: form.CrewSignatures,
		SyncStatus:     SyncPending,
		RecordStatus:   RecordSubmitted,
		QueuedAt:       now,
		History: []ChangeLog{
			NewChangeLog(ActionCreated, "Talk recorded for "+FormatDateTime(dateTime), strings.TrimSpace(form.ForemanName)),
		},
	}
}
