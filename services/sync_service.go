package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/talktracker/bus"
	"github.com/fieldops/talktracker/remote"
	"github.com/fieldops/talktracker/repositories"
)

// Scheduler is a capability-optional background-task registrar. When no
// scheduler is wired in, the manual triggers (startup drain, connectivity
// regain, explicit drain) carry the load alone.
type Scheduler interface {
	Register(tag string) error
}

// SyncStatus is a snapshot of the driver for status endpoints.
type SyncStatus struct {
	Online       bool       `json:"online"`
	PendingCount int        `json:"pendingCount"`
	LastDrainAt  *time.Time `json:"lastDrainAt,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
}

// SyncService reconciles the pending submission queue against the remote
// endpoint.
type SyncService interface {
	SyncRequester
	Drain(ctx context.Context) (int, error)
	Start(ctx context.Context)
	SetScheduler(s Scheduler)
	Status(ctx context.Context) SyncStatus
}

// syncService implements the synchronization driver. The drain mutex makes
// re-entrant triggers safe: concurrent invocations serialize, and a drain
// that runs against an already-emptied queue is a harmless no-op.
type syncService struct {
	talkRepo  repositories.TalkRepository
	submitter remote.Submitter
	signals   *bus.SignalBus
	logger    *logrus.Logger

	drainMu sync.Mutex

	stateMu     sync.Mutex
	scheduler   Scheduler
	lastDrainAt *time.Time
	lastError   string
}

// NewSyncService creates the synchronization driver.
func NewSyncService(
	talkRepo repositories.TalkRepository,
	submitter remote.Submitter,
	signals *bus.SignalBus,
	logger *logrus.Logger,
) SyncService {
	return &syncService{
		talkRepo:  talkRepo,
		submitter: submitter,
		signals:   signals,
		logger:    logger,
	}
}

// SetScheduler wires the optional background-task registrar.
func (s *syncService) SetScheduler(scheduler Scheduler) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.scheduler = scheduler
}

// RequestBackgroundSync asks the host scheduler for a drain when
// connectivity allows. Best-effort: failure or absence is logged and
// ignored, never surfaced to the submission path.
func (s *syncService) RequestBackgroundSync() {
	s.stateMu.Lock()
	scheduler := s.scheduler
	s.stateMu.Unlock()

	if scheduler == nil {
		return
	}
	if err := scheduler.Register("talk-sync"); err != nil {
		s.logger.WithError(err).Debug("background sync registration unavailable")
	}
}

// Drain pushes pending records to the remote endpoint strictly in queue
// order, one at a time. Offline is a silent skip; the connectivity-regain
// trigger retries instead. The first failure stops the whole pass so a
// failing endpoint is not hammered, and the failed record stays first in
// line for the next trigger.
func (s *syncService) Drain(ctx context.Context) (int, error) {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	if !s.signals.Online() {
		return 0, nil
	}

	pending, err := s.talkRepo.ListPending(ctx)
	if err != nil {
		s.recordDrain(err)
		return 0, err
	}
	if len(pending) == 0 {
		s.recordDrain(nil)
		return 0, nil
	}

	synced := 0
	for i := range pending {
		record := pending[i]
		if err := s.submitter.Submit(ctx, &record); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"record": record.ID,
				"synced": synced,
				"left":   len(pending) - synced,
			}).Warn("sync drain stopped on failure")
			s.recordDrain(err)
			return synced, fmt.Errorf("sync stopped at record %s: %w", record.ID, err)
		}
		if err := s.talkRepo.MarkSynced(ctx, record); err != nil {
			s.recordDrain(err)
			return synced, fmt.Errorf("record %s submitted but not moved to synced: %w", record.ID, err)
		}
		synced++
	}

	s.logger.WithField("synced", synced).Info("sync drain complete")
	s.recordDrain(nil)
	return synced, nil
}

// Start drains on every offline-to-online transition until the context is
// cancelled.
func (s *syncService) Start(ctx context.Context) {
	changes := s.signals.SubscribeConnectivity()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case online := <-changes:
				if !online {
					continue
				}
				if _, err := s.Drain(ctx); err != nil {
					s.logger.WithError(err).Warn("connectivity-regain sync drain incomplete")
				}
			}
		}
	}()
}

// Status reports the driver's current view for the status endpoint.
func (s *syncService) Status(ctx context.Context) SyncStatus {
	status := SyncStatus{Online: s.signals.Online()}

	pending, err := s.talkRepo.ListPending(ctx)
	if err == nil {
		status.PendingCount = len(pending)
	}

	s.stateMu.Lock()
	status.LastDrainAt = s.lastDrainAt
	status.LastError = s.lastError
	s.stateMu.Unlock()

	return status
}

func (s *syncService) recordDrain(err error) {
	now := time.Now().UTC()
	s.stateMu.Lock()
	s.lastDrainAt = &now
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.stateMu.Unlock()
}

// DrainScheduler is a host-managed scheduler stand-in: Register coalesces
// bursts of requests and fires one asynchronous drain shortly after.
type DrainScheduler struct {
	drain func()
	delay time.Duration

	mu      sync.Mutex
	pending bool
}

// NewDrainScheduler creates a scheduler invoking drain after the delay.
func NewDrainScheduler(drain func(), delay time.Duration) *DrainScheduler {
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &DrainScheduler{drain: drain, delay: delay}
}

// Register requests one background drain. Requests arriving while one is
// already scheduled coalesce into it.
func (d *DrainScheduler) Register(tag string) error {
	d.mu.Lock()
	if d.pending {
		d.mu.Unlock()
		return nil
	}
	d.pending = true
	d.mu.Unlock()

	time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		d.pending = false
		d.mu.Unlock()
		d.drain()
	})
	return nil
}
