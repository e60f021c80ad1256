package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Collection names one typed collection in the durable store. Each
// collection is backed by its own table created via migrations.
type Collection string

// The engine's collections. Pending submissions and synced talk records are
// deliberately distinct collections, so "what still needs to sync" is a
// collection scan, never a filter.
const (
	CollectionCrew               Collection = "crew_members"
	CollectionLocations          Collection = "locations"
	CollectionTopics             Collection = "topics"
	CollectionPendingSubmissions Collection = "pending_submissions"
	CollectionTalkRecords        Collection = "talk_records"
	CollectionPendingCrew        Collection = "pending_crew"
	CollectionAuditLog           Collection = "audit_log"
)

// knownCollections guards table-name interpolation in queries.
var knownCollections = map[Collection]bool{
	CollectionCrew:               true,
	CollectionLocations:          true,
	CollectionTopics:             true,
	CollectionPendingSubmissions: true,
	CollectionTalkRecords:        true,
	CollectionPendingCrew:        true,
	CollectionAuditLog:           true,
}

// ErrNotFound is returned by Get for a missing record id.
var ErrNotFound = errors.New("record not found")

// ErrStorageUnavailable wraps any failure to reach the durable store.
// Repositories fall back to in-memory seed data when they see it.
var ErrStorageUnavailable = errors.New("storage unavailable")

// IsUnavailable reports whether err is a storage availability failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store exposes the collections of a single shared database handle as a
// document store. The handle is owned by the composition root and shared by
// every repository; readiness is verified once, with racing callers
// coalesced into a single check.
type Store struct {
	db *sql.DB

	readyOnce sync.Once
	readyErr  error
}

// NewStore wraps an opened database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ensureReady pings the connection exactly once, no matter how many callers
// race to the first operation.
func (s *Store) ensureReady(ctx context.Context) error {
	s.readyOnce.Do(func() {
		if s.db == nil {
			s.readyErr = fmt.Errorf("%w: no database handle", ErrStorageUnavailable)
			return
		}
		if err := s.db.PingContext(ctx); err != nil {
			s.readyErr = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
	})
	return s.readyErr
}

func (s *Store) table(collection Collection) (string, error) {
	if !knownCollections[collection] {
		return "", fmt.Errorf("unknown collection %q", collection)
	}
	return string(collection), nil
}

// Get retrieves one record by id and unmarshals it into out.
func (s *Store) Get(ctx context.Context, collection Collection, id string, out any) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	table, err := s.table(collection)
	if err != nil {
		return err
	}

	var data []byte
	query := fmt.Sprintf("SELECT data FROM %s WHERE id = ?", table)
	err = s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to get %s/%s: %v", ErrStorageUnavailable, collection, id, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// GetAll retrieves every raw document in a collection. No ordering is
// guaranteed; callers sort.
func (s *Store) GetAll(ctx context.Context, collection Collection) ([]json.RawMessage, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	table, err := s.table(collection)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT data FROM %s", table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %v", ErrStorageUnavailable, collection, err)
	}
	defer rows.Close()

	var docs []json.RawMessage
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: failed to scan %s: %v", ErrStorageUnavailable, collection, err)
		}
		docs = append(docs, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating %s: %v", ErrStorageUnavailable, collection, err)
	}

	return docs, nil
}

// Put upserts one record by id. The write is durable when Put returns.
func (s *Store) Put(ctx context.Context, collection Collection, id string, doc any) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	table, err := s.table(collection)
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", collection, id, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, table)
	if _, err := s.db.ExecContext(ctx, query, id, data); err != nil {
		return fmt.Errorf("%w: failed to put %s/%s: %v", ErrStorageUnavailable, collection, id, err)
	}

	return nil
}

// Delete removes one record by id. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, collection Collection, id string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	table, err := s.table(collection)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%w: failed to delete %s/%s: %v", ErrStorageUnavailable, collection, id, err)
	}

	return nil
}

// DecodeAll unmarshals a list of raw documents into a typed slice.
func DecodeAll[T any](docs []json.RawMessage) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}
