package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/database"
	"github.com/fieldops/talktracker/models"
)

// TalkRepository owns both talk record collections. A record lives in
// exactly one of pending_submissions or talk_records at any time; the
// pending collection is the sync queue, so listing it never filters.
type TalkRepository interface {
	Load(ctx context.Context) ([]models.TalkRecord, error)
	List() []models.TalkRecord
	Get(id string) (*models.TalkRecord, bool)
	Enqueue(ctx context.Context, record *models.TalkRecord) error
	ListPending(ctx context.Context) ([]models.TalkRecord, error)
	MarkSynced(ctx context.Context, record models.TalkRecord) error
	UpdateWithAudit(ctx context.Context, id string, updates func(*models.TalkRecord), entries []models.ChangeLog) (*models.TalkRecord, error)
	Persistent() bool
}

type talkRepository struct {
	store  *database.Store
	logger *logrus.Logger

	mu         sync.RWMutex
	records    []models.TalkRecord
	loaded     bool
	persistent bool
}

// NewTalkRepository creates a new talk record repository
func NewTalkRepository(store *database.Store, logger *logrus.Logger) TalkRepository {
	return &talkRepository{store: store, logger: logger, persistent: true}
}

// Load reads synced and pending records into one visible list. Talk records
// have no seed dataset; an empty result is a genuinely empty log.
func (r *talkRepository) Load(ctx context.Context) ([]models.TalkRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return copyTalks(r.records), nil
	}

	var records []models.TalkRecord
	for _, collection := range []database.Collection{database.CollectionTalkRecords, database.CollectionPendingSubmissions} {
		docs, err := r.store.GetAll(ctx, collection)
		if err != nil {
			if database.IsUnavailable(err) {
				r.degrade(err)
				r.loaded = true
				return copyTalks(r.records), nil
			}
			return nil, fmt.Errorf("failed to load talk records: %w", err)
		}
		decoded, err := database.DecodeAll[models.TalkRecord](docs)
		if err != nil {
			return nil, fmt.Errorf("failed to decode talk records: %w", err)
		}
		records = append(records, decoded...)
	}

	sortTalks(records)
	r.records = records
	r.loaded = true
	return copyTalks(r.records), nil
}

// List returns the in-memory record list, newest first.
func (r *talkRepository) List() []models.TalkRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyTalks(r.records)
}

// Get retrieves a talk record from the cache by id.
func (r *talkRepository) Get(id string) (*models.TalkRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := indexOfTalk(r.records, id); idx >= 0 {
		record := r.records[idx]
		return &record, true
	}
	return nil, false
}

// Enqueue writes a new record into the pending collection and merges it
// into the visible list immediately, before any sync happens. Submission
// always succeeds locally; storage loss degrades to in-memory.
func (r *talkRepository) Enqueue(ctx context.Context, record *models.TalkRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.persistent {
		if err := r.store.Put(ctx, database.CollectionPendingSubmissions, record.ID, record); err != nil {
			if !database.IsUnavailable(err) {
				return fmt.Errorf("failed to enqueue talk record: %w", err)
			}
			r.degrade(err)
		}
	}

	r.cachePut(*record)
	return nil
}

// ListPending scans the pending collection in submission (FIFO) order.
func (r *talkRepository) ListPending(ctx context.Context) ([]models.TalkRecord, error) {
	r.mu.RLock()
	persistent := r.persistent
	r.mu.RUnlock()

	var pending []models.TalkRecord
	if persistent {
		docs, err := r.store.GetAll(ctx, database.CollectionPendingSubmissions)
		if err != nil {
			if !database.IsUnavailable(err) {
				return nil, fmt.Errorf("failed to list pending submissions: %w", err)
			}
			r.mu.Lock()
			r.degrade(err)
			r.mu.Unlock()
			persistent = false
		} else {
			pending, err = database.DecodeAll[models.TalkRecord](docs)
			if err != nil {
				return nil, fmt.Errorf("failed to decode pending submissions: %w", err)
			}
		}
	}
	if !persistent {
		for _, record := range r.List() {
			if record.SyncStatus == models.SyncPending {
				pending = append(pending, record)
			}
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].QueuedAt.Equal(pending[j].QueuedAt) {
			return pending[i].QueuedAt.Before(pending[j].QueuedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	return pending, nil
}

// MarkSynced moves a record from the pending to the synced collection. The
// upsert into talk_records is idempotent, so re-running the move after a
// failed delete converges without duplicating the record.
func (r *talkRepository) MarkSynced(ctx context.Context, record models.TalkRecord) error {
	record.SyncStatus = models.SyncSynced

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.persistent {
		if err := r.store.Put(ctx, database.CollectionTalkRecords, record.ID, &record); err != nil {
			return fmt.Errorf("failed to store synced record %s: %w", record.ID, err)
		}
		if err := r.store.Delete(ctx, database.CollectionPendingSubmissions, record.ID); err != nil {
			return fmt.Errorf("failed to clear pending record %s: %w", record.ID, err)
		}
	}

	r.cachePut(record)
	return nil
}

// UpdateWithAudit applies a mutation plus the caller's exact audit wording
// as one persisted write. The record is updated in whichever collection it
// currently occupies, so the pending/synced split is preserved.
func (r *talkRepository) UpdateWithAudit(ctx context.Context, id string, updates func(*models.TalkRecord), entries []models.ChangeLog) (*models.TalkRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := indexOfTalk(r.records, id)
	if idx < 0 {
		return nil, fmt.Errorf("talk record %s not found", id)
	}

	record := r.records[idx]
	record.History = copyHistory(record.History)
	if updates != nil {
		updates(&record)
	}
	for _, entry := range entries {
		record.History = models.AppendHistory(record.History, entry)
	}

	collection := database.CollectionTalkRecords
	if record.SyncStatus == models.SyncPending {
		collection = database.CollectionPendingSubmissions
	}

	if r.persistent {
		if err := r.store.Put(ctx, collection, record.ID, &record); err != nil {
			if !database.IsUnavailable(err) {
				return nil, fmt.Errorf("failed to update talk record: %w", err)
			}
			r.degrade(err)
		}
	}

	r.records[idx] = record
	return &record, nil
}

// Persistent reports whether writes are reaching the durable store.
func (r *talkRepository) Persistent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.persistent
}

// cachePut must be called with the mutex held.
func (r *talkRepository) cachePut(record models.TalkRecord) {
	if idx := indexOfTalk(r.records, record.ID); idx >= 0 {
		r.records[idx] = record
	} else {
		r.records = append(r.records, record)
	}
	sortTalks(r.records)
}

func (r *talkRepository) degrade(err error) {
	if r.persistent {
		r.logger.WithError(err).WithField("collection", "talk_records").
			Warn("storage unavailable, continuing in-memory for this session")
	}
	r.persistent = false
}

func indexOfTalk(records []models.TalkRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func sortTalks(records []models.TalkRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].DateTime.Equal(records[j].DateTime) {
			return records[i].DateTime.After(records[j].DateTime)
		}
		return records[i].ID < records[j].ID
	})
}

func copyTalks(records []models.TalkRecord) []models.TalkRecord {
	out := make([]models.TalkRecord, len(records))
	copy(out, records)
	return out
}

func copyHistory(history []models.ChangeLog) []models.ChangeLog {
	out := make([]models.ChangeLog, len(history))
	copy(out, history)
	return out
}
