package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fieldops/talktracker/models"
)

// SimulatedSubmitter stands in for the remote endpoint when none is
// configured, and in tests. Failures can be injected per record id.
type SimulatedSubmitter struct {
	mu        sync.Mutex
	latency   time.Duration
	offline   bool
	failIDs   map[string]bool
	submitted []string
}

// NewSimulatedSubmitter creates a simulator that accepts every record.
func NewSimulatedSubmitter() *SimulatedSubmitter {
	return &SimulatedSubmitter{failIDs: make(map[string]bool)}
}

// SetLatency adds an artificial delay to every submit.
func (s *SimulatedSubmitter) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// SetOffline toggles the simulated connectivity state.
func (s *SimulatedSubmitter) SetOffline(offline bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offline = offline
}

// FailRecord makes submits for the given record id fail until cleared.
func (s *SimulatedSubmitter) FailRecord(id string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failIDs[id] = fail
}

// Submitted returns the ids accepted so far, in order.
func (s *SimulatedSubmitter) Submitted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.submitted))
	copy(out, s.submitted)
	return out
}

// Submit accepts or rejects one record per the injected configuration.
func (s *SimulatedSubmitter) Submit(ctx context.Context, record *models.TalkRecord) error {
	s.mu.Lock()
	latency := s.latency
	offline := s.offline
	fail := s.failIDs[record.ID]
	s.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if offline {
		return fmt.Errorf("simulated network unreachable for record %s", record.ID)
	}
	if fail {
		return fmt.Errorf("simulated rejection for record %s", record.ID)
	}

	s.mu.Lock()
	s.submitted = append(s.submitted, record.ID)
	s.mu.Unlock()
	return nil
}

// Online reports the simulated connectivity state.
func (s *SimulatedSubmitter) Online(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.offline
}
