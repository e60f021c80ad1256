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

// PendingCrewRepository owns the provisional guest queue. Entry ids are
// normalized names, so the collection itself enforces at most one pending
// entry per normalized name.
type PendingCrewRepository interface {
	Load(ctx context.Context) ([]models.PendingCrewMember, error)
	List() []models.PendingCrewMember
	Get(id string) (*models.PendingCrewMember, bool)
	PutIfAbsent(ctx context.Context, entry *models.PendingCrewMember) (bool, error)
	Delete(ctx context.Context, id string) error
	Refresh(ctx context.Context) ([]models.PendingCrewMember, error)
	Persistent() bool
}

type pendingCrewRepository struct {
	store  *database.Store
	logger *logrus.Logger

	mu         sync.RWMutex
	entries    []models.PendingCrewMember
	loaded     bool
	persistent bool
}

// NewPendingCrewRepository creates a new provisional crew repository
func NewPendingCrewRepository(store *database.Store, logger *logrus.Logger) PendingCrewRepository {
	return &pendingCrewRepository{store: store, logger: logger, persistent: true}
}

// Load reads all provisional entries. The queue has no seed data.
func (r *pendingCrewRepository) Load(ctx context.Context) ([]models.PendingCrewMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return copyPending(r.entries), nil
	}
	return r.reload(ctx)
}

// Refresh re-reads the queue unconditionally. Other devices under the same
// account can add entries, so this runs whenever the application regains
// foreground visibility, not only at startup.
func (r *pendingCrewRepository) Refresh(ctx context.Context) ([]models.PendingCrewMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reload(ctx)
}

// reload must be called with the mutex held.
func (r *pendingCrewRepository) reload(ctx context.Context) ([]models.PendingCrewMember, error) {
	docs, err := r.store.GetAll(ctx, database.CollectionPendingCrew)
	if err != nil {
		if database.IsUnavailable(err) {
			r.degrade(err)
			r.loaded = true
			return copyPending(r.entries), nil
		}
		return nil, fmt.Errorf("failed to load pending crew: %w", err)
	}

	entries, err := database.DecodeAll[models.PendingCrewMember](docs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pending crew: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Source.DateAdded.Before(entries[j].Source.DateAdded) })
	r.entries = entries
	r.loaded = true
	return copyPending(r.entries), nil
}

// List returns the in-memory queue copy.
func (r *pendingCrewRepository) List() []models.PendingCrewMember {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyPending(r.entries)
}

// Get retrieves a provisional entry by its normalized-name id.
func (r *pendingCrewRepository) Get(id string) (*models.PendingCrewMember, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			entry := r.entries[i]
			return &entry, true
		}
	}
	return nil, false
}

// PutIfAbsent stages a guest unless an entry with the same normalized name
// already exists. First seen wins; the duplicate is a no-op.
func (r *pendingCrewRepository) PutIfAbsent(ctx context.Context, entry *models.PendingCrewMember) (bool, error) {
	if entry == nil {
		return false, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			return false, nil
		}
	}

	if r.persistent {
		if err := r.store.Put(ctx, database.CollectionPendingCrew, entry.ID, entry); err != nil {
			if !database.IsUnavailable(err) {
				return false, fmt.Errorf("failed to stage guest: %w", err)
			}
			r.degrade(err)
		}
	}

	r.entries = append(r.entries, *entry)
	return true, nil
}

// Delete removes a provisional entry. A missing id is a no-op.
func (r *pendingCrewRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.persistent {
		if err := r.store.Delete(ctx, database.CollectionPendingCrew, id); err != nil {
			if !database.IsUnavailable(err) {
				return fmt.Errorf("failed to delete pending crew entry: %w", err)
			}
			r.degrade(err)
		}
	}

	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	return nil
}

// Persistent reports whether writes are reaching the durable store.
func (r *pendingCrewRepository) Persistent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.persistent
}

func (r *pendingCrewRepository) degrade(err error) {
	if r.persistent {
		r.logger.WithError(err).WithField("collection", "pending_crew").
			Warn("storage unavailable, continuing in-memory for this session")
	}
	r.persistent = false
}

func copyPending(entries []models.PendingCrewMember) []models.PendingCrewMember {
	out := make([]models.PendingCrewMember, len(entries))
	copy(out, entries)
	return out
}
