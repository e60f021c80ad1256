package services

import (
	"context"

	"github.com/fieldops/talktracker/models"
	"github.com/fieldops/talktracker/repositories"
)

// LocationService interface defines site management business logic
type LocationService interface {
	List() []models.Location
	Create(ctx context.Context, name, actor string) (*models.Location, error)
	Rename(ctx context.Context, id, newName, actor string) (*models.Location, error)
	ToggleStatus(ctx context.Context, id, actor string) error
}

type locationService struct {
	locationRepo repositories.LocationRepository
}

// NewLocationService creates a new location service
func NewLocationService(locationRepo repositories.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

// List retrieves all locations.
func (s *locationService) List() []models.Location {
	return s.locationRepo.List()
}

// Create adds a location. A blank name is a silent no-op.
func (s *locationService) Create(ctx context.Context, name, actor string) (*models.Location, error) {
	return s.locationRepo.Create(ctx, name, actor)
}

// Rename changes a location's name.
func (s *locationService) Rename(ctx context.Context, id, newName, actor string) (*models.Location, error) {
	return s.locationRepo.Rename(ctx, id, newName, actor)
}

// ToggleStatus flips a location between active and inactive. Historical
// talk records carry the location name, so deactivation never breaks them.
func (s *locationService) ToggleStatus(ctx context.Context, id, actor string) error {
	return s.locationRepo.ToggleStatus(ctx, id, actor)
}
