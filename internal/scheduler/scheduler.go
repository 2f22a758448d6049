package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/websocket"
)

// StatusSource produces the current status of every chore.
type StatusSource interface {
	StatusMessages() []websocket.Message
}

type Broadcaster interface {
	Broadcast(msg websocket.Message)
}

// Scheduler watches for the calendar date to change and rebroadcasts chore
// status when it does, since status and days until due depend on today.
type Scheduler struct {
	mu       sync.RWMutex
	clock    clock.Clock
	source   StatusSource
	hub      Broadcaster
	interval time.Duration
	lastDate time.Time
	cancel   context.CancelFunc
	done     chan struct{}
	logger   *slog.Logger
}

// New creates a rollover scheduler that checks the clock every interval.
func New(clk clock.Clock, source StatusSource, hub Broadcaster, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		clock:    clk,
		source:   source,
		hub:      hub,
		interval: interval,
		lastDate: clk.Today(),
		logger:   logger,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// tick broadcasts every chore's status once per date change and reports
// whether it did.
func (s *Scheduler) tick() bool {
	today := s.clock.Today()

	s.mu.Lock()
	if today.Equal(s.lastDate) {
		s.mu.Unlock()
		return false
	}
	prev := s.lastDate
	s.lastDate = today
	s.mu.Unlock()

	msgs := s.source.StatusMessages()
	for _, msg := range msgs {
		s.hub.Broadcast(msg)
	}
	s.logger.Info("day rollover",
		"from", prev.Format(time.DateOnly),
		"to", today.Format(time.DateOnly),
		"chores", len(msgs),
	)
	return true
}
