package models

import (
	"testing"
	"time"
)

// Test TalkForm validation
func TestTalkFormValidation(t *testing.T) {
	sig := "data:image/png;base64,abc"

	// Test valid form
	validForm := TalkForm{
		Location:    "North Yard",
		TopicID:     "topic-1",
		ForemanName: "Miguel Alvarez",
		CrewSignatures: []CrewSignature{
			{Name: "Dana Whitfield", Signature: &sig},
		},
	}
	errors := validForm.Validate()
	if len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	// Test invalid form
	invalidForm := TalkForm{
		Location:    "  ", // Blank location
		TopicID:     "",
		ForemanName: "",
	}
	errors = invalidForm.Validate()
	if len(errors) != 4 {
		t.Errorf("Expected 4 errors for invalid form, got: %v", errors)
	}

	// Test blank attendee name
	blankAttendee := validForm
	blankAttendee.CrewSignatures = []CrewSignature{{Name: "   "}}
	errors = blankAttendee.Validate()
	if len(errors) != 1 {
		t.Errorf("Expected 1 error for blank attendee name, got: %v", errors)
	}
}

// Test the flag invariant on talk records
func TestTalkRecordFlagInvariant(t *testing.T) {
	record := TalkRecord{ID: "rec-1", RecordStatus: RecordSubmitted}
	if err := record.Validate(); err != nil {
		t.Errorf("Expected submitted record without flag to be valid, got: %v", err)
	}

	record.RecordStatus = RecordFlagged
	if err := record.Validate(); err == nil {
		t.Error("Expected flagged record without flag details to be invalid")
	}

	record.Flag = &Flag{FlaggedBy: "reviewer@example.com", FlaggedAt: time.Now().UTC(), Reason: "wrong location"}
	if err := record.Validate(); err != nil {
		t.Errorf("Expected flagged record with flag details to be valid, got: %v", err)
	}

	record.RecordStatus = RecordSubmitted
	if err := record.Validate(); err == nil {
		t.Error("Expected submitted record carrying flag details to be invalid")
	}
}

// Test NewTalkRecord initial state
func TestNewTalkRecord(t *testing.T) {
	topic := NewTopic("Ladder Safety", "Three points of contact.", "https://docs.example.com/ladder.pdf", SeedActor)
	form := &TalkForm{
		Location:       "North Yard",
		TopicID:        topic.ID,
		ForemanName:    "  Miguel Alvarez  ",
		CrewSignatures: []CrewSignature{{Name: "Dana Whitfield"}},
	}

	record := NewTalkRecord(form, topic)

	if record.SyncStatus != SyncPending {
		t.Errorf("Expected sync status %q, got %q", SyncPending, record.SyncStatus)
	}
	if record.RecordStatus != RecordSubmitted {
		t.Errorf("Expected record status %q, got %q", RecordSubmitted, record.RecordStatus)
	}
	if record.ForemanName != "Miguel Alvarez" {
		t.Errorf("Expected trimmed foreman name, got %q", record.ForemanName)
	}
	if record.Topic != topic.Name || record.TopicPDFURL != topic.PDFURL {
		t.Error("Expected topic name and PDF URL snapshot on the record")
	}
	if record.QueuedAt.IsZero() {
		t.Error("Expected QueuedAt to be stamped")
	}
	if len(record.History) != 1 || record.History[0].Action != ActionCreated {
		t.Errorf("Expected a single CREATED history entry, got: %v", record.History)
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Expected new record to satisfy the flag invariant, got: %v", err)
	}
}

// Test that AppendHistory never mutates the input slice
func TestAppendHistoryCopies(t *testing.T) {
	history := make([]ChangeLog, 1, 4)
	history[0] = NewChangeLog(ActionCreated, "created", "system")

	first := AppendHistory(history, NewChangeLog(ActionFlagged, "first", "a"))
	second := AppendHistory(history, NewChangeLog(ActionFlagResolved, "second", "b"))

	if len(history) != 1 {
		t.Errorf("Expected original history untouched, got length %d", len(history))
	}
	if first[1].Details != "first" {
		t.Errorf("Expected first append preserved, got %q", first[1].Details)
	}
	if second[1].Details != "second" {
		t.Errorf("Expected second append independent of first, got %q", second[1].Details)
	}
}

// Test name normalization for dedup keys
func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Bob  ":        "bob",
		"Bob":            "bob",
		"DANA WHITFIELD": "dana whitfield",
		"   ":            "",
	}
	for input, expected := range cases {
		if got := NormalizeName(input); got != expected {
			t.Errorf("NormalizeName(%q): expected %q, got %q", input, expected, got)
		}
	}
}

// Test crew member construction
func TestNewCrewMember(t *testing.T) {
	if member := NewCrewMember("   ", "admin"); member != nil {
		t.Error("Expected nil for blank name")
	}

	member := NewCrewMember("  Ray Delgado  ", "admin@example.com")
	if member == nil {
		t.Fatal("Expected member for non-blank name")
	}
	if member.Name != "Ray Delgado" {
		t.Errorf("Expected trimmed name, got %q", member.Name)
	}
	if member.Status != StatusActive {
		t.Errorf("Expected new member to be active, got %q", member.Status)
	}
	if len(member.History) != 1 || member.History[0].Actor != "admin@example.com" {
		t.Errorf("Expected one CREATED entry by the actor, got: %v", member.History)
	}
}

// Test provisional entry ids are normalized names
func TestNewPendingCrewMember(t *testing.T) {
	if entry := NewPendingCrewMember("   ", "talk-1", "foreman@example.com"); entry != nil {
		t.Error("Expected nil for blank guest name")
	}

	a := NewPendingCrewMember("  Bob Smith ", "talk-1", "foreman@example.com")
	b := NewPendingCrewMember("BOB SMITH", "talk-2", "other@example.com")
	if a.ID != b.ID {
		t.Errorf("Expected same dedup key for name variants, got %q and %q", a.ID, b.ID)
	}
	if a.Name != "Bob Smith" {
		t.Errorf("Expected trimmed display name, got %q", a.Name)
	}
	if a.Source.TalkID != "talk-1" {
		t.Errorf("Expected source talk id preserved, got %q", a.Source.TalkID)
	}
}
