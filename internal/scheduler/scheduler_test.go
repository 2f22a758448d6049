package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/websocket"
)

type staticSource struct {
	ids []string
}

func (s staticSource) StatusMessages() []websocket.Message {
	msgs := make([]websocket.Message, 0, len(s.ids))
	for _, id := range s.ids {
		msgs = append(msgs, websocket.NewMessage("chore", "status", id, nil))
	}
	return msgs
}

type recorder struct {
	mu   sync.Mutex
	msgs []websocket.Message
}

func (r *recorder) Broadcast(msg websocket.Message) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTickOnlyOnDateChange(t *testing.T) {
	clk := clock.NewFixed(time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC))
	hub := &recorder{}
	s := New(clk, staticSource{ids: []string{"a", "b"}}, hub, time.Minute, discard())

	if s.tick() {
		t.Fatal("tick on the same day should not broadcast")
	}
	if hub.count() != 0 {
		t.Fatalf("got %d messages, want 0", hub.count())
	}

	clk.Set(time.Date(2024, 3, 6, 0, 0, 1, 0, time.UTC))
	if !s.tick() {
		t.Fatal("tick after midnight should broadcast")
	}
	if hub.count() != 2 {
		t.Fatalf("got %d messages, want 2", hub.count())
	}
	if hub.msgs[0].Type != "chore_status" || hub.msgs[0].ID != "a" {
		t.Errorf("first message = %+v", hub.msgs[0])
	}

	if s.tick() {
		t.Error("second tick on the new day should not broadcast")
	}
}

func TestTickWhenClockMovesBack(t *testing.T) {
	clk := clock.NewFixed(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	hub := &recorder{}
	s := New(clk, staticSource{ids: []string{"a"}}, hub, time.Minute, discard())

	clk.Set(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	if !s.tick() {
		t.Error("a changed date should broadcast even when it moves back")
	}
}

func TestStartStop(t *testing.T) {
	clk := clock.NewFixed(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	hub := &recorder{}
	s := New(clk, staticSource{ids: []string{"a"}}, hub, 5*time.Millisecond, discard())

	s.Start(context.Background())
	clk.Set(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))

	deadline := time.After(2 * time.Second)
	for hub.count() == 0 {
		select {
		case <-deadline:
			s.Stop()
			t.Fatal("timed out waiting for rollover broadcast")
		case <-time.After(5 * time.Millisecond):
		}
	}
	s.Stop()

	if got := hub.count(); got != 1 {
		t.Errorf("got %d messages, want 1", got)
	}
}

func TestStopWithoutStart(t *testing.T) {
	s := New(clock.NewFixed(time.Now()), staticSource{}, &recorder{}, time.Minute, discard())
	s.Stop()
}
