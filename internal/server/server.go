package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choretracker/internal/clock"
	"github.com/dukerupert/choretracker/internal/handler"
	"github.com/dukerupert/choretracker/internal/middleware"
	"github.com/dukerupert/choretracker/internal/store"
	"github.com/dukerupert/choretracker/internal/tracker"
	ws "github.com/dukerupert/choretracker/internal/websocket"
)

// PIN verification attempts allowed per client per window.
const (
	pinVerifyLimit  = 10
	pinVerifyWindow = time.Minute
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	tracker     *tracker.Tracker
	choreH      *handler.ChoreHandler
	memberH     *handler.MemberHandler
	calendarH   *handler.CalendarHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

// New wires stores, the chore tracker and handlers. The tracker is empty
// until Load is called.
func New(db *sql.DB, clk clock.Clock, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	choreStore := store.NewChoreStore(db)
	memberStore := store.NewMemberStore(db)

	t := tracker.New(choreStore, memberStore, hub, clk, logger.With("component", "tracker"))

	return &Server{
		db:          db,
		hub:         hub,
		tracker:     t,
		choreH:      handler.NewChoreHandler(t, memberStore, clk, logger.With("component", "chore")),
		memberH:     handler.NewMemberHandler(memberStore, logger.With("component", "member")),
		calendarH:   handler.NewCalendarHandler(t, clk, logger.With("component", "calendar")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Load restores chore state from the database.
func (s *Server) Load() error {
	return s.tracker.Load()
}

func (s *Server) Tracker() *tracker.Tracker {
	return s.tracker
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Chore API routes
	mux.HandleFunc("GET /api/chores/form", s.choreH.Form)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("GET /api/chores.ics", s.calendarH.Feed)
	mux.HandleFunc("GET /api/chores/{id}", s.choreH.Get)
	mux.HandleFunc("PUT /api/chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("POST /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("POST /api/chores/{id}/due-date", s.choreH.SetDueDate)

	// Member API routes
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("POST /api/members/{id}/pin", s.memberH.SetPIN)
	mux.HandleFunc("DELETE /api/members/{id}/pin", s.memberH.ClearPIN)
	mux.HandleFunc("POST /api/members/{id}/pin/verify", s.rateLimitedHandler(s.memberH.VerifyPIN))

	// WebSocket; new clients get the current status of every chore.
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.tracker.StatusMessages, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "chores": s.tracker.Len()})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return "pin:" + middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, pinVerifyLimit, pinVerifyWindow)(h).ServeHTTP
}
