package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/housefinder/internal/api"
	"github.com/hyperifyio/housefinder/internal/cache"
	"github.com/hyperifyio/housefinder/internal/discovery"
	"github.com/hyperifyio/housefinder/internal/fetch"
	"github.com/hyperifyio/housefinder/internal/house"
)

// cacheMaintenanceInterval is how often a running server purges expired
// cache entries.
const cacheMaintenanceInterval = time.Hour

// App wires the store, the discovery service and the HTTP server.
type App struct {
	cfg       Config
	store     house.Store
	discovery *discovery.Service
	handler   http.Handler
}

// New builds the application. A DatabaseURL selects the Postgres store;
// otherwise houses live in memory.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	svc, err := NewDiscovery(cfg)
	if err != nil {
		return nil, err
	}

	var store house.Store
	if cfg.DatabaseURL != "" {
		pg, err := house.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open house store: %w", err)
		}
		store = pg
		log.Info().Msg("using postgres house store")
	} else {
		store = house.NewMemoryStore()
		log.Warn().Msg("DATABASE_URL not set; houses are kept in memory")
	}

	a := &App{cfg: cfg, store: store, discovery: svc}
	a.handler = api.NewRouter(store, svc, api.Options{
		StaticDir:      cfg.StaticDir,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})
	return a, nil
}

// NewDiscovery builds the discovery service: page cache maintenance, the
// fetch client and the extraction pipeline.
func NewDiscovery(cfg Config) (*discovery.Service, error) {
	client := &fetch.Client{
		HTTPClient:        newFetchHTTPClient(cfg.FetchTimeout),
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.FetchMaxAttempts,
		PerRequestTimeout: cfg.FetchTimeout,
		MaxConcurrent:     cfg.FetchMaxConcurrent,
		FreshFor:          cfg.CacheFreshFor,
	}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				return nil, fmt.Errorf("clear cache: %w", err)
			}
			log.Info().Str("dir", cfg.CacheDir).Msg("cache cleared")
		}
		maintainCache(cfg)
		client.Cache = &cache.PageCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	return discovery.New(client, cfg.Markers), nil
}

// maintainCache applies the age and size limits. Failures are logged, never
// fatal.
func maintainCache(cfg Config) {
	if cfg.CacheMaxAge > 0 {
		n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge)
		if err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("expired cache entries purged")
		}
	}
	if cfg.CacheMaxBytes > 0 || cfg.CacheMaxEntries > 0 {
		n, err := cache.EnforceLimits(cfg.CacheDir, cfg.CacheMaxBytes, cfg.CacheMaxEntries)
		if err != nil {
			log.Warn().Err(err).Msg("cache limit enforcement failed")
		} else if n > 0 {
			log.Debug().Int("removed", n).Msg("cache entries evicted")
		}
	}
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler { return a.handler }

// Discovery returns the discovery service.
func (a *App) Discovery() *discovery.Service { return a.discovery }

// Close releases the store.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Run listens on the configured address and serves until ctx is done, then
// shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	addr := net.JoinHostPort(a.cfg.Host, strconv.Itoa(a.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Str("version", BuildVersion).Msg("starting server")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := a.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		log.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	if a.cfg.CacheDir != "" && (a.cfg.CacheMaxAge > 0 || a.cfg.CacheMaxBytes > 0 || a.cfg.CacheMaxEntries > 0) {
		g.Go(func() error {
			t := time.NewTicker(cacheMaintenanceInterval)
			defer t.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-t.C:
					maintainCache(a.cfg)
				}
			}
		})
	}
	return g.Wait()
}
