// Package ops serves the operational HTTP endpoints: liveness, cumulative bot
// search statistics and runtime metrics.
package ops

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/QuoridorEngine/internal/bot"
)

// StatsProvider reports cumulative search counters. *bot.Engine satisfies it.
type StatsProvider interface {
	Stats() bot.Stats
}

// Server bundles the router and its data sources
type Server struct {
	r       *chi.Mux
	stats   StatsProvider
	monitor *RuntimeMonitor
	logger  zerolog.Logger
	started time.Time
}

// New builds the router. monitor may be nil, in which case /debug/runtime is not mounted.
func New(stats StatsProvider, monitor *RuntimeMonitor, logger zerolog.Logger) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		stats:   stats,
		monitor: monitor,
		logger:  logger.With().Str("component", "OpsServer").Logger(),
		started: time.Now(),
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)

	s.r.Get("/healthz", s.handleHealth)
	s.r.Get("/stats/search", s.handleSearchStats)
	if monitor != nil {
		s.r.Get("/debug/runtime", s.handleRuntime)
	}

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Router exposes the router, mostly for tests
func (s *Server) Router() chi.Router { return s.r }

// NewHTTPServer wraps the router in an http.Server listening on addr
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleSearchStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.Stats())
}

func (s *Server) handleRuntime(w http.ResponseWriter, r *http.Request) {
	s.monitor.Sample()
	writeJSON(w, http.StatusOK, s.monitor.Metrics())
}

// requestLogger logs one line per request with its status and duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
