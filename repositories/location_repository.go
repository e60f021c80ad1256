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

// LocationRepository owns the locations collection and its in-memory copy.
type LocationRepository interface {
	Load(ctx context.Context) ([]models.Location, error)
	List() []models.Location
	GetByID(id string) (*models.Location, bool)
	Create(ctx context.Context, name, actor string) (*models.Location, error)
	Rename(ctx context.Context, id, newName, actor string) (*models.Location, error)
	ToggleStatus(ctx context.Context, id, actor string) error
	Persistent() bool
}

type locationRepository struct {
	store  *database.Store
	logger *logrus.Logger

	mu         sync.RWMutex
	locations  []models.Location
	loaded     bool
	persistent bool
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(store *database.Store, logger *logrus.Logger) LocationRepository {
	return &locationRepository{store: store, logger: logger, persistent: true}
}

// Load reads all locations, seeding the collection on first run.
func (r *locationRepository) Load(ctx context.Context) ([]models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return copyLocations(r.locations), nil
	}

	docs, err := r.store.GetAll(ctx, database.CollectionLocations)
	if err != nil {
		if database.IsUnavailable(err) {
			r.degrade(err)
			r.locations = seedLocations()
			r.loaded = true
			return copyLocations(r.locations), nil
		}
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}

	locations, err := database.DecodeAll[models.Location](docs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}

	if len(locations) == 0 {
		locations = seedLocations()
		for i := range locations {
			if err := r.store.Put(ctx, database.CollectionLocations, locations[i].ID, &locations[i]); err != nil {
				if database.IsUnavailable(err) {
					r.degrade(err)
					break
				}
				return nil, fmt.Errorf("failed to persist seed location: %w", err)
			}
		}
	}

	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	r.locations = locations
	r.loaded = true
	return copyLocations(r.locations), nil
}

// List returns the in-memory location copy.
func (r *locationRepository) List() []models.Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyLocations(r.locations)
}

// GetByID retrieves a location from the cache by id.
func (r *locationRepository) GetByID(id string) (*models.Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.locations {
		if r.locations[i].ID == id {
			location := r.locations[i]
			return &location, true
		}
	}
	return nil, false
}

// Create adds a new active location. A blank name is a silent no-op.
func (r *locationRepository) Create(ctx context.Context, name, actor string) (*models.Location, error) {
	location := models.NewLocation(name, actor)
	if location == nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.save(ctx, *location); err != nil {
		return nil, err
	}
	return location, nil
}

// Rename changes a location's name; identical names are a no-op with no
// audit entry.
func (r *locationRepository) Rename(ctx context.Context, id, newName, actor string) (*models.Location, error) {
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
	location := r.locations[idx]
	if location.Name == newName {
		return &location, nil
	}

	details := fmt.Sprintf("Name changed from %q to %q", location.Name, newName)
	location.Name = newName
	location.LastModified = nowUTC()
	location.History = models.AppendHistory(location.History, models.NewChangeLog(models.ActionUpdatedName, details, actor))

	if err := r.save(ctx, location); err != nil {
		return nil, err
	}
	return &location, nil
}

// ToggleStatus flips active/inactive. An unknown id is a silent no-op.
func (r *locationRepository) ToggleStatus(ctx context.Context, id, actor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	location := r.locations[idx]
	location.Status, location.History = toggledStatus(location.Status, location.History, actor)
	location.LastModified = nowUTC()

	return r.save(ctx, location)
}

// Persistent reports whether writes are reaching the durable store.
func (r *locationRepository) Persistent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.persistent
}

// save is the write-then-update-cache funnel for locations.
func (r *locationRepository) save(ctx context.Context, location models.Location) error {
	if r.persistent {
		if err := r.store.Put(ctx, database.CollectionLocations, location.ID, &location); err != nil {
			if !database.IsUnavailable(err) {
				return fmt.Errorf("failed to save location: %w", err)
			}
			r.degrade(err)
		}
	}

	if idx := r.indexOf(location.ID); idx >= 0 {
		r.locations[idx] = location
	} else {
		r.locations = append(r.locations, location)
	}
	return nil
}

func (r *locationRepository) indexOf(id string) int {
	for i := range r.locations {
		if r.locations[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *locationRepository) degrade(err error) {
	if r.persistent {
		r.logger.WithError(err).WithField("collection", "locations").
			Warn("storage unavailable, continuing in-memory for this session")
	}
	r.persistent = false
}

func copyLocations(locations []models.Location) []models.Location {
	out := make([]models.Location, len(locations))
	copy(out, locations)
	return out
}
