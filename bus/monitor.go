package bus

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Prober reports whether the remote destination is reachable.
type Prober interface {
	Online(ctx context.Context) bool
}

// ConnectivityMonitor polls a prober and publishes transitions to the bus.
type ConnectivityMonitor struct {
	bus      *SignalBus
	prober   Prober
	interval time.Duration
	logger   *logrus.Logger
}

// NewConnectivityMonitor creates a monitor polling at the given interval.
func NewConnectivityMonitor(b *SignalBus, prober Prober, interval time.Duration, logger *logrus.Logger) *ConnectivityMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ConnectivityMonitor{bus: b, prober: prober, interval: interval, logger: logger}
}

// Run polls until the context is cancelled. It probes once immediately so
// the bus state is accurate before the first tick.
func (m *ConnectivityMonitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *ConnectivityMonitor) probe(ctx context.Context) {
	online := m.prober.Online(ctx)
	if online != m.bus.Online() {
		m.logger.WithField("online", online).Info("connectivity changed")
	}
	m.bus.PublishConnectivity(online)
}
