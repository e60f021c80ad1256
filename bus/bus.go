// Package bus provides the in-process signal hub for connectivity and
// visibility transitions.
package bus

import (
	"sync"
)

// SignalBus fans connectivity and visibility transitions out to
// subscribers. Notifications are edge-triggered: publishing the same state
// twice delivers one event.
type SignalBus struct {
	mu         sync.RWMutex
	online     bool
	foreground bool
	connSubs   []chan bool
	visSubs    []chan bool
}

// NewSignalBus creates a bus that assumes the process starts online and in
// the foreground.
func NewSignalBus() *SignalBus {
	return &SignalBus{online: true, foreground: true}
}

// Online returns the last published connectivity state.
func (b *SignalBus) Online() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.online
}

// SubscribeConnectivity returns a channel that receives each connectivity
// transition. The channel is buffered; a slow subscriber misses
// intermediate flaps but always sees the latest state.
func (b *SignalBus) SubscribeConnectivity() <-chan bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan bool, 1)
	b.connSubs = append(b.connSubs, ch)
	return ch
}

// SubscribeVisibility returns a channel that receives foreground/background
// transitions.
func (b *SignalBus) SubscribeVisibility() <-chan bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan bool, 1)
	b.visSubs = append(b.visSubs, ch)
	return ch
}

// PublishConnectivity records the connectivity state and notifies
// subscribers on a transition.
func (b *SignalBus) PublishConnectivity(online bool) {
	b.mu.Lock()
	if b.online == online {
		b.mu.Unlock()
		return
	}
	b.online = online
	subs := append([]chan bool(nil), b.connSubs...)
	b.mu.Unlock()

	notify(subs, online)
}

// PublishVisibility records the visibility state and notifies subscribers
// on a transition.
func (b *SignalBus) PublishVisibility(foreground bool) {
	b.mu.Lock()
	if b.foreground == foreground {
		b.mu.Unlock()
		return
	}
	b.foreground = foreground
	subs := append([]chan bool(nil), b.visSubs...)
	b.mu.Unlock()

	notify(subs, foreground)
}

// notify coalesces into each subscriber's single-slot buffer so a stale
// unread value is replaced rather than blocking the publisher.
func notify(subs []chan bool, state bool) {
	for _, ch := range subs {
		select {
		case ch <- state:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}
