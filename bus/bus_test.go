package bus

import (
	"testing"
	"time"
)

func TestSignalBusEdgeTriggered(t *testing.T) {
	b := NewSignalBus()
	if !b.Online() {
		t.Fatal("Expected bus to start online")
	}

	ch := b.SubscribeConnectivity()

	// Publishing the current state is not a transition
	b.PublishConnectivity(true)
	select {
	case v := <-ch:
		t.Fatalf("Expected no event for repeated state, got %v", v)
	case <-time.After(20 * time.Millisecond):
	}

	b.PublishConnectivity(false)
	select {
	case v := <-ch:
		if v {
			t.Error("Expected offline event")
		}
	case <-time.After(time.Second):
		t.Fatal("Expected transition event")
	}
	if b.Online() {
		t.Error("Expected bus to report offline")
	}
}

func TestSignalBusCoalescesForSlowSubscriber(t *testing.T) {
	b := NewSignalBus()
	ch := b.SubscribeConnectivity()

	// Flap while the subscriber is not reading; only the latest state
	// must be waiting
	b.PublishConnectivity(false)
	b.PublishConnectivity(true)
	b.PublishConnectivity(false)

	select {
	case v := <-ch:
		if v {
			t.Errorf("Expected latest state (offline), got %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("Expected a coalesced event")
	}

	// Nothing else queued
	select {
	case v := <-ch:
		t.Fatalf("Expected single coalesced event, got extra %v", v)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSignalBusVisibility(t *testing.T) {
	b := NewSignalBus()
	ch := b.SubscribeVisibility()

	b.PublishVisibility(false)
	b.PublishVisibility(true)

	// The buffered channel holds the latest transition
	select {
	case v := <-ch:
		if !v {
			t.Error("Expected foreground event last")
		}
	case <-time.After(time.Second):
		t.Fatal("Expected visibility event")
	}
}
