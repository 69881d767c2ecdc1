package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jonwraymond/storycache/admin"
	"github.com/jonwraymond/storycache/auth"
	"github.com/jonwraymond/storycache/cache"
	"github.com/jonwraymond/storycache/config"
	"github.com/jonwraymond/storycache/generation"
	"github.com/jonwraymond/storycache/health"
	"github.com/jonwraymond/storycache/observe"
	"github.com/jonwraymond/storycache/story"
)

// app holds the process-wide components. The cache is constructed once and
// injected into both the story service and the admin router.
type app struct {
	cfg      *config.Config
	observer observe.Observer
	registry *prometheus.Registry
	cache    *cache.ContextCache
	service  *story.Service
	backend  string
}

type appOptions struct {
	offline   bool
	logWriter io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	obsCfg := cfg.Observe.ToObserve()
	obsCfg.Metrics.Registerer = registry
	obsCfg.Logging.Writer = opts.logWriter
	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("observer: %w", err)
	}

	a, err := assemble(cfg, obs, opts.offline)
	if err != nil {
		return nil, errors.Join(err, obs.Shutdown(ctx))
	}
	a.registry = registry
	return a, nil
}

func assemble(cfg *config.Config, obs observe.Observer, offline bool) (*app, error) {
	recorder, err := observe.NewCacheMetrics(obs.Meter())
	if err != nil {
		return nil, fmt.Errorf("cache metrics: %w", err)
	}
	c, err := cache.NewContextCache(cfg.Cache.ToCache(), cache.WithRecorder(recorder))
	if err != nil {
		return nil, err
	}

	gen, backend, err := newGenerator(cfg.Generation, offline)
	if err != nil {
		return nil, err
	}

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, fmt.Errorf("middleware: %w", err)
	}

	svc, err := story.NewService(c, gen,
		story.WithExecutor(cfg.Generation.Executor()),
		story.WithMiddleware(mw),
		story.WithBackend(backend),
	)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		observer: obs,
		cache:    c,
		service:  svc,
		backend:  backend,
	}, nil
}

func newGenerator(cfg config.GenerationConfig, offline bool) (story.Generator, string, error) {
	if offline || cfg.Backend == config.BackendMock {
		return generation.NewMockGenerator(), config.BackendMock, nil
	}
	gen, err := generation.NewOpenAIGenerator(cfg.ToGenerator())
	if err != nil {
		return nil, "", err
	}
	return gen, config.BackendOpenAI, nil
}

// adminHandler builds the admin router with health checks and, when
// enabled, JWT authentication.
func (a *app) adminHandler() (http.Handler, error) {
	agg := health.NewAggregator()
	agg.Register("cache", health.NewCacheChecker(a.cache, health.CacheCheckerConfig{
		DegradedRatio: a.cfg.Cache.DegradedRatio,
	}))
	agg.Register("memory", health.NewMemoryChecker(health.MemoryCheckerConfig{
		Limit: a.cfg.Server.MemoryLimit,
	}))

	var authn auth.Authenticator
	if a.cfg.Auth.Enabled {
		authn = auth.NewJWTAuthenticator(a.cfg.Auth.ToJWT(), auth.NewStaticKeyProvider([]byte(a.cfg.Auth.SigningKey)))
	}

	cfg := admin.Config{
		Authenticator: authn,
		AdminRole:     a.cfg.Auth.AdminRole,
		Health:        agg,
		Logger:        a.observer.Logger(),
	}
	if a.registry != nil {
		cfg.Gatherer = a.registry
	}
	return admin.NewRouter(a.cache, cfg)
}

func (a *app) shutdown(ctx context.Context) error {
	return a.observer.Shutdown(ctx)
}
