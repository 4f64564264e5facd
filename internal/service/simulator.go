package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spoedpakketjes/backend/internal/domain"
)

// Simulator drives the demo-only lifecycle progression: an assigned delivery
// advances to picked_up after pickupDelay and to in_transit after a further
// transitDelay. Every pending step is a cancellable timer keyed by delivery
// id — a manual status update or process shutdown cancels it, so stale timers
// can never overwrite later state. This is a demo facility, not a dispatch
// system; production deployments leave it disabled and drive transitions from
// driver actions.
type Simulator struct {
	pickupDelay  time.Duration
	transitDelay time.Duration

	mu     sync.Mutex
	timers map[int64]*time.Timer
	closed bool

	svc *DeliveryService // set by bind
}

// NewSimulator returns a Simulator with the given stage delays.
// It is inert until bound to a DeliveryService by NewDeliveryService.
func NewSimulator(pickupDelay, transitDelay time.Duration) *Simulator {
	return &Simulator{
		pickupDelay:  pickupDelay,
		transitDelay: transitDelay,
		timers:       make(map[int64]*time.Timer),
	}
}

// bind attaches the service whose transition rules the simulator replays.
func (s *Simulator) bind(svc *DeliveryService) {
	s.svc = svc
}

// Schedule queues the picked_up step for an assigned delivery, replacing any
// step already pending for it.
func (s *Simulator) Schedule(id int64) {
	s.setTimer(id, s.pickupDelay, domain.StatusPickedUp)
}

// Cancel drops the pending step for the delivery, if any.
func (s *Simulator) Cancel(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Close cancels all pending steps. Steps scheduled after Close are dropped.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Simulator) setTimer(id int64, delay time.Duration, next domain.DeliveryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(delay, func() { s.fire(id, next) })
}

// fire applies one simulated step and queues the next one, if any.
// A step rejected by transition validation (because a manual update got there
// first) ends the simulation for that delivery.
func (s *Simulator) fire(id int64, status domain.DeliveryStatus) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	if err := s.svc.advanceSimulated(context.Background(), id, status); err != nil {
		slog.Debug("simulated status advance dropped", "id", id, "status", status, "error", err)
		return
	}

	if status == domain.StatusPickedUp {
		s.setTimer(id, s.transitDelay, domain.StatusInTransit)
	}
}
