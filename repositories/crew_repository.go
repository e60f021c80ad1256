package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/database"
	"github.com/fieldops/talktracker/models"
)

// BulkCrewItem is one row of a roster import.
type BulkCrewItem struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// BulkUpsertResult reports what a roster import changed.
type BulkUpsertResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// CrewRepository owns the crew_members collection and its in-memory copy.
type CrewRepository interface {
	Load(ctx context.Context) ([]models.CrewMember, error)
	List() []models.CrewMember
	GetByID(id string) (*models.CrewMember, bool)
	FindByName(name string) (*models.CrewMember, bool)
	Create(ctx context.Context, name, actor string) (*models.CrewMember, error)
	Rename(ctx context.Context, id, newName, actor string) (*models.CrewMember, error)
	ToggleStatus(ctx context.Context, id, actor string) error
	BulkUpsert(ctx context.Context, items []BulkCrewItem, actor string) (BulkUpsertResult, error)
	Persistent() bool
}

// crewRepository implements CrewRepository. The cache invariant is that
// members always reflects the last successful write; every mutation funnels
// through save.
type crewRepository struct {
	store  *database.Store
	logger *logrus.Logger

	mu         sync.RWMutex
	members    []models.CrewMember
	loaded     bool
	persistent bool
}

// NewCrewRepository creates a new crew repository
func NewCrewRepository(store *database.Store, logger *logrus.Logger) CrewRepository {
	return &crewRepository{store: store, logger: logger, persistent: true}
}

// Load reads the roster, seeding it on first run so callers never observe
// an ambiguous empty collection.
func (r *crewRepository) Load(ctx context.Context) ([]models.CrewMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return copyCrew(r.members), nil
	}

	docs, err := r.store.GetAll(ctx, database.CollectionCrew)
	if err != nil {
		if database.IsUnavailable(err) {
			r.degrade("crew", err)
			r.members = seedCrew()
			r.loaded = true
			return copyCrew(r.members), nil
		}
		return nil, fmt.Errorf("failed to load crew members: %w", err)
	}

	members, err := database.DecodeAll[models.CrewMember](docs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode crew members: %w", err)
	}

	if len(members) == 0 {
		members = seedCrew()
		for i := range members {
			if err := r.store.Put(ctx, database.CollectionCrew, members[i].ID, &members[i]); err != nil {
				if database.IsUnavailable(err) {
					r.degrade("crew", err)
					break
				}
				return nil, fmt.Errorf("failed to persist seed crew member: %w", err)
			}
		}
	}

	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	r.members = members
	r.loaded = true
	return copyCrew(r.members), nil
}

// List returns the in-memory roster copy.
func (r *crewRepository) List() []models.CrewMember {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyCrew(r.members)
}

// GetByID retrieves a crew member from the cache by id.
func (r *crewRepository) GetByID(id string) (*models.CrewMember, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.members {
		if r.members[i].ID == id {
			member := r.members[i]
			return &member, true
		}
	}
	return nil, false
}

// FindByName retrieves a crew member by case-insensitive name match.
func (r *crewRepository) FindByName(name string) (*models.CrewMember, bool) {
	key := models.NormalizeName(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.members {
		if models.NormalizeName(r.members[i].Name) == key {
			member := r.members[i]
			return &member, true
		}
	}
	return nil, false
}

// Create adds a new active crew member. A blank name is a silent no-op.
func (r *crewRepository) Create(ctx context.Context, name, actor string) (*models.CrewMember, error) {
	member := models.NewCrewMember(name, actor)
	if member == nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.save(ctx, *member); err != nil {
		return nil, err
	}
	return member, nil
}

// Rename changes a member's name. If nothing actually changed, no write and
// no audit entry happen.
func (r *crewRepository) Rename(ctx context.Context, id, newName, actor string) (*models.CrewMember, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	member := r.members[idx]
	if member.Name == newName {
		return &member, nil
	}

	details := fmt.Sprintf("Name changed from %q to %q", member.Name, newName)
	member.Name = newName
	member.LastModified = nowUTC()
	member.History = models.AppendHistory(member.History, models.NewChangeLog(models.ActionUpdatedName, details, actor))

	if err := r.save(ctx, member); err != nil {
		return nil, err
	}
	return &member, nil
}

// ToggleStatus flips active/inactive. An unknown id is a silent no-op.
func (r *crewRepository) ToggleStatus(ctx context.Context, id, actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	member := r.members[idx]
	member.Status, member.History = toggledStatus(member.Status, member.History, actor)
	member.LastModified = nowUTC()

	return r.save(ctx, member)
}

// BulkUpsert imports a roster list: existing names (case-insensitive) get a
// status update only when it differs, new names are created. Each item is
// fully applied with its audit entry or not touched at all.
func (r *crewRepository) BulkUpsert(ctx context.Context, items []BulkCrewItem, actor string) (BulkUpsertResult, error) {
	var result BulkUpsertResult

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		status := item.Status
		if status != models.StatusInactive {
			status = models.StatusActive
		}

		idx := -1
		key := models.NormalizeName(name)
		for i := range r.members {
			if models.NormalizeName(r.members[i].Name) == key {
				idx = i
				break
			}
		}

		if idx >= 0 {
			member := r.members[idx]
			if member.Status == status {
				continue
			}
			member.Status, member.History = toggledStatus(member.Status, member.History, actor)
			member.LastModified = nowUTC()
			if err := r.save(ctx, member); err != nil {
				return result, err
			}
			result.Updated++
			continue
		}

		member := models.NewCrewMember(name, actor)
		member.Status = status
		if err := r.save(ctx, *member); err != nil {
			return result, err
		}
		result.Added++
	}

	return result, nil
}

// Persistent reports whether writes are reaching the durable store this
// session.
func (r *crewRepository) Persistent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.persistent
}

// save is the single write-then-update-cache funnel. On storage loss the
// session degrades to in-memory but stays usable.
func (r *crewRepository) save(ctx context.Context, member models.CrewMember) error {
	if r.persistent {
		if err := r.store.Put(ctx, database.CollectionCrew, member.ID, &member); err != nil {
			if !database.IsUnavailable(err) {
				return fmt.Errorf("failed to save crew member: %w", err)
			}
			r.degrade("crew", err)
		}
	}

	if idx := r.indexOf(member.ID); idx >= 0 {
		r.members[idx] = member
	} else {
		r.members = append(r.members, member)
	}
	return nil
}

// indexOf must be called with the mutex held.
func (r *crewRepository) indexOf(id string) int {
	for i := range r.members {
		if r.members[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *crewRepository) degrade(collection string, err error) {
	if r.persistent {
		r.logger.WithError(err).WithField("collection", collection).
			Warn("storage unavailable, continuing in-memory for this session")
	}
	r.persistent = false
}

func copyCrew(members []models.CrewMember) []models.CrewMember {
	out := make([]models.CrewMember, len(members))
	copy(out, members)
	return out
}
