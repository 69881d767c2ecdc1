package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/storycache/auth"
	"github.com/jonwraymond/storycache/cache"
	"github.com/jonwraymond/storycache/health"
	"github.com/jonwraymond/storycache/observe"
	"github.com/jonwraymond/storycache/story"
)

// ErrNilCache is returned by NewRouter when no cache is supplied.
var ErrNilCache = errors.New("admin: cache is nil")

// Cache is the part of the context cache the admin routes operate on.
type Cache interface {
	Stats() cache.Stats
	Clear(ctx context.Context)
	Invalidate(ctx context.Context, sc cache.StoryContext)
}

// Config wires the optional collaborators of the router.
type Config struct {
	// Authenticator guards /admin routes. Nil leaves them open; serve logs
	// a warning when it starts that way.
	Authenticator auth.Authenticator

	// AdminRole is required on the identity. Default: "admin".
	AdminRole string

	// Health serves the probe routes when non-nil.
	Health *health.Aggregator

	// Gatherer serves /metrics when non-nil.
	Gatherer prometheus.Gatherer

	// Logger receives one debug line per request and admin actions.
	Logger observe.Logger
}

type handlers struct {
	cache  Cache
	logger observe.Logger
}

// NewRouter builds the admin router over c.
func NewRouter(c Cache, cfg Config) (chi.Router, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if cfg.AdminRole == "" {
		cfg.AdminRole = "admin"
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	h := &handlers{cache: c, logger: cfg.Logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	if cfg.Health != nil {
		health.RegisterHandlers(r, cfg.Health)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/admin/cache", func(r chi.Router) {
		if cfg.Authenticator != nil {
			r.Use(auth.Middleware(cfg.Authenticator), auth.RequireRole(cfg.AdminRole))
		}
		r.Get("/stats", h.stats)
		r.Delete("/", h.clear)
		r.Delete("/entry", h.invalidate)
	})

	return r, nil
}

func requestLogger(logger observe.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug(r.Context(), "admin request",
				observe.Field{Key: "method", Value: r.Method},
				observe.Field{Key: "path", Value: r.URL.Path},
				observe.Field{Key: "status", Value: ww.Status()},
				observe.Field{Key: "duration_ms", Value: float64(time.Since(start).Milliseconds())},
			)
		})
	}
}

// StatsResponse is the body of GET /admin/cache/stats.
type StatsResponse struct {
	Segments     int     `json:"segments"`
	Choices      int     `json:"choices"`
	LiveSegments int     `json:"live_segments"`
	LiveChoices  int     `json:"live_choices"`
	MaxEntries   int     `json:"max_entries"`
	Hits         uint64  `json:"hits"`
	Misses       uint64  `json:"misses"`
	HitRatio     float64 `json:"hit_ratio"`
	Expirations  uint64  `json:"expirations"`
	Evictions    uint64  `json:"evictions"`
	Clears       uint64  `json:"clears"`
}

func newStatsResponse(s cache.Stats) StatsResponse {
	resp := StatsResponse{
		Segments:     s.Segments,
		Choices:      s.Choices,
		LiveSegments: s.LiveSegments,
		LiveChoices:  s.LiveChoices,
		MaxEntries:   s.MaxEntries,
		Hits:         s.Hits,
		Misses:       s.Misses,
		Expirations:  s.Expirations,
		Evictions:    s.Evictions,
		Clears:       s.Clears,
	}
	if total := s.Hits + s.Misses; total > 0 {
		resp.HitRatio = float64(s.Hits) / float64(total)
	}
	return resp
}

func (h *handlers) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newStatsResponse(h.cache.Stats()))
}

func (h *handlers) clear(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear(r.Context())
	h.logger.Info(r.Context(), "cache cleared",
		observe.Field{Key: "principal", Value: auth.PrincipalFromContext(r.Context())})
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) invalidate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("user_id") == "" {
		writeError(w, http.StatusBadRequest, story.ErrMissingUser)
		return
	}
	sc, err := story.ContextFromRequest(r.Context(), story.Params{
		UserID:    q.Get("user_id"),
		Genre:     q.Get("genre"),
		Tone:      q.Get("tone"),
		Character: q.Get("character"),
		Setting:   q.Get("setting"),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.cache.Invalidate(r.Context(), sc)
	h.logger.Info(r.Context(), "cache entry invalidated",
		observe.Field{Key: "user_id", Value: sc.UserID},
		observe.Field{Key: "genre", Value: sc.Genre})
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
