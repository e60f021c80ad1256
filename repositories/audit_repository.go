package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fieldops/talktracker/database"
	"github.com/fieldops/talktracker/models"
)

// AuditRepository handles request-level audit log persistence
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
}

type storeAuditRepository struct {
	store *database.Store
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(store *database.Store) AuditRepository {
	return &storeAuditRepository{store: store}
}

// Create inserts a new audit log entry
func (r *storeAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return r.store.Put(ctx, database.CollectionAuditLog, entry.ID, entry)
}
