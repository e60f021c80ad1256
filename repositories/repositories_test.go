package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/database"
	"github.com/fieldops/talktracker/models"
)

func setupTestStore(t *testing.T) *database.Store {
	// Create a temporary database for testing
	dbPath := "test_" + time.Now().Format("20060102150405.000000000") + ".db"

	// Clean up function
	t.Cleanup(func() {
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})

	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return database.NewStore(db)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestCrewRepositorySeedsOnFirstLoad(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewCrewRepository(store, testLogger())
	members, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load crew: %v", err)
	}
	if len(members) != len(models.SeedCrewNames) {
		t.Fatalf("Expected %d seeded members, got %d", len(models.SeedCrewNames), len(members))
	}
	for _, member := range members {
		if member.Status != models.StatusActive {
			t.Errorf("Expected seeded member %q to be active", member.Name)
		}
		if len(member.History) != 1 || member.History[0].Actor != models.SeedActor {
			t.Errorf("Expected one CREATED entry by %q for %q", models.SeedActor, member.Name)
		}
	}

	// A fresh repository over the same store must see the persisted seed,
	// not seed again.
	repo2 := NewCrewRepository(store, testLogger())
	members2, err := repo2.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to reload crew: %v", err)
	}
	if len(members2) != len(models.SeedCrewNames) {
		t.Errorf("Expected %d members after reload, got %d", len(models.SeedCrewNames), len(members2))
	}
}

func TestCrewRepositoryCreateRenameToggle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewCrewRepository(store, testLogger())
	if _, err := repo.Load(ctx); err != nil {
		t.Fatalf("Failed to load crew: %v", err)
	}

	// Test Create
	member, err := repo.Create(ctx, "Pat Nguyen", "admin@example.com")
	if err != nil {
		t.Fatalf("Failed to create crew member: %v", err)
	}
	if member == nil || member.ID == "" {
		t.Fatal("Expected created member with an id")
	}

	// Blank name is a silent no-op
	noop, err := repo.Create(ctx, "   ", "admin@example.com")
	if err != nil || noop != nil {
		t.Errorf("Expected nil, nil for blank name, got %v, %v", noop, err)
	}

	// Test FindByName is case-insensitive
	if found, ok := repo.FindByName("  pat NGUYEN "); !ok || found.ID != member.ID {
		t.Error("Expected case-insensitive name lookup to find the member")
	}

	// Rename to the same name must not write a history entry
	same, err := repo.Rename(ctx, member.ID, "Pat Nguyen", "admin@example.com")
	if err != nil {
		t.Fatalf("Failed no-op rename: %v", err)
	}
	if len(same.History) != 1 {
		t.Errorf("Expected no history entry for unchanged rename, got %d entries", len(same.History))
	}

	// A real rename appends UPDATED_NAME
	renamed, err := repo.Rename(ctx, member.ID, "Pat Tran", "admin@example.com")
	if err != nil {
		t.Fatalf("Failed to rename crew member: %v", err)
	}
	if len(renamed.History) != 2 || renamed.History[1].Action != models.ActionUpdatedName {
		t.Errorf("Expected UPDATED_NAME entry, got: %v", renamed.History)
	}

	// Toggle flips status and appends the matching entry
	if err := repo.ToggleStatus(ctx, member.ID, "admin@example.com"); err != nil {
		t.Fatalf("Failed to toggle status: %v", err)
	}
	toggled, ok := repo.GetByID(member.ID)
	if !ok {
		t.Fatal("Expected member after toggle")
	}
	if toggled.Status != models.StatusInactive {
		t.Errorf("Expected inactive after toggle, got %q", toggled.Status)
	}
	if toggled.History[len(toggled.History)-1].Action != models.ActionDeactivated {
		t.Error("Expected DEACTIVATED entry after toggle")
	}

	// Toggling an unknown id is a silent no-op
	if err := repo.ToggleStatus(ctx, "unknown-id", "admin@example.com"); err != nil {
		t.Errorf("Expected no-op toggle for unknown id, got: %v", err)
	}

	// The write must be durable: a fresh repository sees it
	repo2 := NewCrewRepository(store, testLogger())
	if _, err := repo2.Load(ctx); err != nil {
		t.Fatalf("Failed to reload crew: %v", err)
	}
	persisted, ok := repo2.GetByID(member.ID)
	if !ok {
		t.Fatal("Expected member to survive reload")
	}
	if persisted.Name != "Pat Tran" || persisted.Status != models.StatusInactive {
		t.Errorf("Expected persisted rename and toggle, got %q/%q", persisted.Name, persisted.Status)
	}
}

func TestCrewRepositoryBulkUpsert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewCrewRepository(store, testLogger())
	if _, err := repo.Load(ctx); err != nil {
		t.Fatalf("Failed to load crew: %v", err)
	}

	items := []BulkCrewItem{
		{Name: models.SeedCrewNames[0], Status: models.StatusInactive}, // existing, status change
		{Name: models.SeedCrewNames[1], Status: models.StatusActive},   // existing, unchanged
		{Name: "Newcomer One", Status: models.StatusActive},
		{Name: "Newcomer Two", Status: models.StatusInactive},
		{Name: "   ", Status: models.StatusActive}, // blank, skipped
	}

	result, err := repo.BulkUpsert(ctx, items, "admin@example.com")
	if err != nil {
		t.Fatalf("Failed bulk upsert: %v", err)
	}
	if result.Added != 2 {
		t.Errorf("Expected 2 added, got %d", result.Added)
	}
	if result.Updated != 1 {
		t.Errorf("Expected 1 updated, got %d", result.Updated)
	}

	deactivated, ok := repo.FindByName(models.SeedCrewNames[0])
	if !ok || deactivated.Status != models.StatusInactive {
		t.Error("Expected existing member deactivated by import")
	}
	if added, ok := repo.FindByName("Newcomer Two"); !ok || added.Status != models.StatusInactive {
		t.Error("Expected imported member created with requested status")
	}
}

func TestTopicRepositoryUpdate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewTopicRepository(store, testLogger())
	topics, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to load topics: %v", err)
	}
	if len(topics) != len(models.SeedTopics) {
		t.Fatalf("Expected %d seeded topics, got %d", len(models.SeedTopics), len(topics))
	}
	topic := topics[0]

	// No-op update writes nothing
	unchanged, err := repo.Update(ctx, topic.ID, TopicUpdate{Name: topic.Name, Content: topic.Content, PDFURL: topic.PDFURL}, "admin@example.com")
	if err != nil {
		t.Fatalf("Failed no-op update: %v", err)
	}
	if len(unchanged.History) != len(topic.History) {
		t.Errorf("Expected no history entries for no-op update, got %d extra", len(unchanged.History)-len(topic.History))
	}

	// Content and PDF changes each append their own entry
	updated, err := repo.Update(ctx, topic.ID, TopicUpdate{Name: topic.Name, Content: "Revised content.", PDFURL: "https://docs.example.com/revised.pdf"}, "admin@example.com")
	if err != nil {
		t.Fatalf("Failed to update topic: %v", err)
	}
	if len(updated.History) != len(topic.History)+2 {
		t.Fatalf("Expected 2 new history entries, got %d", len(updated.History)-len(topic.History))
	}
	actions := map[string]bool{}
	for _, entry := range updated.History[len(topic.History):] {
		actions[entry.Action] = true
	}
	if !actions[models.ActionUpdatedContent] || !actions[models.ActionUpdatedPDF] {
		t.Errorf("Expected UPDATED_CONTENT and UPDATED_PDF entries, got: %v", actions)
	}
}

func TestTalkRepositoryQueue(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewTalkRepository(store, testLogger())
	if _, err := repo.Load(ctx); err != nil {
		t.Fatalf("Failed to load talk records: %v", err)
	}

	base := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	records := []*models.TalkRecord{
		testTalkRecord("rec-a", base, base.Add(0)),
		testTalkRecord("rec-b", base.Add(time.Hour), base.Add(time.Second)),
		testTalkRecord("rec-c", base.Add(2*time.Hour), base.Add(2*time.Second)),
	}
	for _, rec := range records {
		if err := repo.Enqueue(ctx, rec); err != nil {
			t.Fatalf("Failed to enqueue %s: %v", rec.ID, err)
		}
	}

	// Pending listing is FIFO by submission time
	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("Failed to list pending: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("Expected 3 pending records, got %d", len(pending))
	}
	for i, expected := range []string{"rec-a", "rec-b", "rec-c"} {
		if pending[i].ID != expected {
			t.Errorf("Expected pending[%d] = %s, got %s", i, expected, pending[i].ID)
		}
	}

	// The visible list includes pending records immediately, newest first
	visible := repo.List()
	if len(visible) != 3 {
		t.Fatalf("Expected 3 visible records, got %d", len(visible))
	}
	if visible[0].ID != "rec-c" {
		t.Errorf("Expected newest record first, got %s", visible[0].ID)
	}

	// MarkSynced moves the record out of the queue without losing it
	if err := repo.MarkSynced(ctx, pending[0]); err != nil {
		t.Fatalf("Failed to mark synced: %v", err)
	}
	pending, err = repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("Failed to list pending after sync: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "rec-b" {
		t.Errorf("Expected rec-b first after syncing rec-a, got: %v", pendingIDs(pending))
	}
	synced, ok := repo.Get("rec-a")
	if !ok {
		t.Fatal("Expected synced record to stay visible")
	}
	if synced.SyncStatus != models.SyncSynced {
		t.Errorf("Expected sync status %q, got %q", models.SyncSynced, synced.SyncStatus)
	}

	// Re-running the move converges instead of duplicating
	if err := repo.MarkSynced(ctx, *synced); err != nil {
		t.Fatalf("Expected idempotent MarkSynced, got: %v", err)
	}

	// A fresh repository merges both collections into one list
	repo2 := NewTalkRepository(store, testLogger())
	reloaded, err := repo2.Load(ctx)
	if err != nil {
		t.Fatalf("Failed to reload talk records: %v", err)
	}
	if len(reloaded) != 3 {
		t.Errorf("Expected 3 records after reload, got %d", len(reloaded))
	}
}

func TestTalkRepositoryUpdateWithAudit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewTalkRepository(store, testLogger())
	if _, err := repo.Load(ctx); err != nil {
		t.Fatalf("Failed to load talk records: %v", err)
	}

	now := time.Now().UTC()
	rec := testTalkRecord("rec-1", now, now)
	if err := repo.Enqueue(ctx, rec); err != nil {
		t.Fatalf("Failed to enqueue: %v", err)
	}

	entry := models.NewChangeLog(models.ActionFlagged, "Flagged for correction: wrong site", "reviewer@example.com")
	updated, err := repo.UpdateWithAudit(ctx, "rec-1", func(r *models.TalkRecord) {
		r.RecordStatus = models.RecordFlagged
		r.Flag = &models.Flag{FlaggedBy: "reviewer@example.com", FlaggedAt: now, Reason: "wrong site"}
	}, []models.ChangeLog{entry})
	if err != nil {
		t.Fatalf("Failed to update with audit: %v", err)
	}
	if !updated.Flagged() || updated.Flag == nil {
		t.Error("Expected record flagged with flag details")
	}
	if len(updated.History) != 2 || updated.History[1].Action != models.ActionFlagged {
		t.Errorf("Expected CREATED then FLAGGED history, got: %v", updated.History)
	}

	// Updating a pending record must keep it in the sync queue
	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("Failed to list pending: %v", err)
	}
	if len(pending) != 1 || !pending[0].Flagged() {
		t.Error("Expected flagged record still pending sync")
	}

	if _, err := repo.UpdateWithAudit(ctx, "missing", nil, nil); err == nil {
		t.Error("Expected error updating a missing record")
	}
}

func TestPendingCrewRepositoryDedup(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	repo := NewPendingCrewRepository(store, testLogger())
	if _, err := repo.Load(ctx); err != nil {
		t.Fatalf("Failed to load pending crew: %v", err)
	}

	first := models.NewPendingCrewMember("Bob Smith", "talk-1", "foreman@example.com")
	added, err := repo.PutIfAbsent(ctx, first)
	if err != nil {
		t.Fatalf("Failed to stage guest: %v", err)
	}
	if !added {
		t.Error("Expected first staging to add an entry")
	}

	// Same normalized name from another talk is a no-op; first seen wins
	dup := models.NewPendingCrewMember("  BOB smith ", "talk-2", "other@example.com")
	added, err = repo.PutIfAbsent(ctx, dup)
	if err != nil {
		t.Fatalf("Failed duplicate staging: %v", err)
	}
	if added {
		t.Error("Expected duplicate staging to be a no-op")
	}

	entries := repo.List()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Source.TalkID != "talk-1" {
		t.Errorf("Expected first-seen source kept, got %q", entries[0].Source.TalkID)
	}

	// Delete clears the entry; deleting again is a no-op
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Errorf("Expected idempotent delete, got: %v", err)
	}
	if len(repo.List()) != 0 {
		t.Error("Expected empty queue after delete")
	}

	// Refresh picks up entries written by other repository instances
	other := NewPendingCrewRepository(store, testLogger())
	if _, err := other.Load(ctx); err != nil {
		t.Fatalf("Failed to load second repository: %v", err)
	}
	if _, err := other.PutIfAbsent(ctx, models.NewPendingCrewMember("Casey Lee", "talk-3", "foreman@example.com")); err != nil {
		t.Fatalf("Failed to stage from second repository: %v", err)
	}
	refreshed, err := repo.Refresh(ctx)
	if err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	if len(refreshed) != 1 || refreshed[0].Name != "Casey Lee" {
		t.Errorf("Expected refresh to pick up external entry, got: %v", refreshed)
	}
}

func TestRepositoriesDegradeWithoutStorage(t *testing.T) {
	ctx := context.Background()
	store := database.NewStore(nil)

	crew := NewCrewRepository(store, testLogger())
	members, err := crew.Load(ctx)
	if err != nil {
		t.Fatalf("Expected degraded load to succeed, got: %v", err)
	}
	if len(members) != len(models.SeedCrewNames) {
		t.Errorf("Expected seed fallback roster, got %d members", len(members))
	}
	if crew.Persistent() {
		t.Error("Expected repository to report non-persistent after degrade")
	}

	// Writes keep working in-memory for the rest of the session
	member, err := crew.Create(ctx, "Session Only", "admin@example.com")
	if err != nil {
		t.Fatalf("Expected in-memory create to succeed, got: %v", err)
	}
	if _, ok := crew.GetByID(member.ID); !ok {
		t.Error("Expected in-memory member visible after create")
	}

	talks := NewTalkRepository(store, testLogger())
	if _, err := talks.Load(ctx); err != nil {
		t.Fatalf("Expected degraded talk load to succeed, got: %v", err)
	}
	now := time.Now().UTC()
	if err := talks.Enqueue(ctx, testTalkRecord("rec-1", now, now)); err != nil {
		t.Fatalf("Expected degraded enqueue to succeed, got: %v", err)
	}
	pending, err := talks.ListPending(ctx)
	if err != nil {
		t.Fatalf("Expected degraded pending scan to succeed, got: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("Expected 1 pending record from cache fallback, got %d", len(pending))
	}
}

func testTalkRecord(id string, dateTime, queuedAt time.Time) *models.TalkRecord {
	sig := "data:image/png;base64,sig"
	return &models.TalkRecord{
		ID:          id,
		DateTime:    dateTime,
		Location:    "North Yard",
		Topic:       "Ladder Safety",
		TopicID:     "topic-1",
		ForemanName: "Miguel Alvarez",
		CrewSignatures: []models.CrewSignature{
			{Name: "Dana Whitfield", Signature: &sig},
		},
		SyncStatus:   models.SyncPending,
		RecordStatus: models.RecordSubmitted,
		QueuedAt:     queuedAt,
		History: []models.ChangeLog{
			models.NewChangeLog(models.ActionCreated, "Talk record submitted", "Miguel Alvarez"),
		},
	}
}

func pendingIDs(records []models.TalkRecord) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	return ids
}
