package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/fieldops/talktracker/models"
	"github.com/fieldops/talktracker/repositories"
)

// CrewService interface defines roster management business logic
type CrewService interface {
	List() []models.CrewMember
	ListActive() []models.CrewMember
	Create(ctx context.Context, name, actor string) (*models.CrewMember, error)
	Rename(ctx context.Context, id, newName, actor string) (*models.CrewMember, error)
	ToggleStatus(ctx context.Context, id, actor string) error
	BulkUpsert(ctx context.Context, items []repositories.BulkCrewItem, actor string) (repositories.BulkUpsertResult, error)
}

// crewService implements CrewService interface
type crewService struct {
	crewRepo repositories.CrewRepository
}

// NewCrewService creates a new crew service
func NewCrewService(crewRepo repositories.CrewRepository) CrewService {
	return &crewService{crewRepo: crewRepo}
}

// List retrieves the full roster.
func (s *crewService) List() []models.CrewMember {
	return s.crewRepo.List()
}

// ListActive retrieves only active roster members.
func (s *crewService) ListActive() []models.CrewMember {
	var active []models.CrewMember
	for _, member := range s.crewRepo.List() {
		if member.Active() {
			active = append(active, member)
		}
	}
	return active
}

// Create adds a roster member. Blank names are a silent no-op; a name
// already on the roster is rejected with a user-facing message.
func (s *crewService) Create(ctx context.Context, name, actor string) (*models.CrewMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	if existing, ok := s.crewRepo.FindByName(name); ok {
		return nil, Reject("crew member %q already exists", existing.Name)
	}

	member, err := s.crewRepo.Create(ctx, name, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to create crew member: %w", err)
	}
	return member, nil
}

// Rename changes a member's name, rejecting collisions with other members.
func (s *crewService) Rename(ctx context.Context, id, newName, actor string) (*models.CrewMember, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, nil
	}

	if existing, ok := s.crewRepo.FindByName(newName); ok && existing.ID != id {
		return nil, Reject("crew member %q already exists", existing.Name)
	}

	member, err := s.crewRepo.Rename(ctx, id, newName, actor)
	if err != nil {
		return nil, fmt.Errorf("failed to rename crew member: %w", err)
	}
	return member, nil
}

// ToggleStatus flips a member between active and inactive. Deactivation is
// a soft delete; past talk records keep referencing the member by name.
func (s *crewService) ToggleStatus(ctx context.Context, id, actor string) error {
	return s.crewRepo.ToggleStatus(ctx, id, actor)
}

// BulkUpsert imports a roster list.
func (s *crewService) BulkUpsert(ctx context.Context, items []repositories.BulkCrewItem, actor string) (repositories.BulkUpsertResult, error) {
	return s.crewRepo.BulkUpsert(ctx, items, actor)
}
