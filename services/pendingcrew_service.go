package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/bus"
	"github.com/fieldops/talktracker/models"
	"github.com/fieldops/talktracker/repositories"
)

// PendingCrewService interface defines the guest approval workflow
type PendingCrewService interface {
	List() []models.PendingCrewMember
	Refresh(ctx context.Context) ([]models.PendingCrewMember, error)
	Approve(ctx context.Context, id, reviewer string) (*models.CrewMember, error)
	Reject(ctx context.Context, id, reviewer string) error
	Start(ctx context.Context)
}

type pendingCrewService struct {
	pendingRepo repositories.PendingCrewRepository
	crewRepo    repositories.CrewRepository
	signals     *bus.SignalBus
	logger      *logrus.Logger
}

// NewPendingCrewService creates a new provisional crew service
func NewPendingCrewService(
	pendingRepo repositories.PendingCrewRepository,
	crewRepo repositories.CrewRepository,
	signals *bus.SignalBus,
	logger *logrus.Logger,
) PendingCrewService {
	return &pendingCrewService{
		pendingRepo: pendingRepo,
		crewRepo:    crewRepo,
		signals:     signals,
		logger:      logger,
	}
}

// List returns the staged guests awaiting review.
func (s *pendingCrewService) List() []models.PendingCrewMember {
	return s.pendingRepo.List()
}

// Refresh re-reads the queue; other devices under the same account can add
// entries while this one is running.
func (s *pendingCrewService) Refresh(ctx context.Context) ([]models.PendingCrewMember, error) {
	return s.pendingRepo.Refresh(ctx)
}

// Approve promotes a guest to the permanent roster with the reviewer as
// actor, then removes the provisional entry. Create runs before delete: if
// the delete fails the guest may be proposed again, which is acceptable
// duplication, whereas the reverse order could lose the guest entirely.
func (s *pendingCrewService) Approve(ctx context.Context, id, reviewer string) (*models.CrewMember, error) {
	entry, ok := s.pendingRepo.Get(id)
	if !ok {
		return nil, Reject("pending guest not found")
	}

	member, found := s.crewRepo.FindByName(entry.Name)
	if !found {
		created, err := s.crewRepo.Create(ctx, entry.Name, reviewer)
		if err != nil {
			return nil, fmt.Errorf("failed to promote guest %q: %w", entry.Name, err)
		}
		member = created
	} else {
		// Another reviewer or device already promoted this name; the entry
		// just needs clearing.
		s.logger.WithField("guest", entry.Name).Info("guest already on roster, clearing provisional entry")
	}

	if err := s.pendingRepo.Delete(ctx, entry.ID); err != nil {
		return member, fmt.Errorf("guest promoted but provisional entry not cleared: %w", err)
	}

	return member, nil
}

// Reject removes the provisional entry only. The originating talk record
// keeps its guest signature; rejection never rewrites history.
func (s *pendingCrewService) Reject(ctx context.Context, id, reviewer string) error {
	if _, ok := s.pendingRepo.Get(id); !ok {
		return Reject("pending guest not found")
	}
	s.logger.WithFields(logrus.Fields{"guest": id, "reviewer": reviewer}).Info("guest rejected")
	return s.pendingRepo.Delete(ctx, id)
}

// Start refreshes the queue whenever the application regains foreground
// visibility, until the context is cancelled.
func (s *pendingCrewService) Start(ctx context.Context) {
	events := s.signals.SubscribeVisibility()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case foreground := <-events:
				if !foreground {
					continue
				}
				if _, err := s.pendingRepo.Refresh(ctx); err != nil {
					s.logger.WithError(err).Warn("failed to refresh pending crew on foreground")
				}
			}
		}
	}()
}
