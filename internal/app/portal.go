package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/samvad-hq/picnic-web/internal/auth"
	"github.com/samvad-hq/picnic-web/internal/config"
	"github.com/samvad-hq/picnic-web/internal/domain"
	"github.com/samvad-hq/picnic-web/internal/logger"
	"github.com/samvad-hq/picnic-web/internal/session"
	"github.com/samvad-hq/picnic-web/internal/site"
	"github.com/samvad-hq/picnic-web/internal/storage"
	"github.com/samvad-hq/picnic-web/internal/users"
	"github.com/samvad-hq/picnic-web/internal/web"
	"github.com/samvad-hq/picnic-web/pkg/httpclient"
	"github.com/samvad-hq/picnic-web/pkg/publishers"
)

const shutdownTimeout = 10 * time.Second

// Portal represents the web portal runtime. It owns the storage backend, the
// auth event publishers and the HTTP server, and sweeps expired cache entries
// and idle sessions on a fixed cadence.
type Portal struct {
	cfg           *config.Config
	log           logger.Logger
	store         storage.Store
	fanout        *publishers.Fanout
	sessions      *session.Manager
	server        *web.Server
	sweepInterval time.Duration
}

// NewPortal builds the portal runtime from config.
func NewPortal(ctx context.Context, cfg *config.Config, log logger.Logger) (*Portal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		CacheTTL:        cfg.CacheTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"cache_ttl_seconds":        int(cfg.CacheTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := loadPublishers(ctx, cfg.PublishersFile, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	meta, err := site.Load(cfg.SiteFile)
	if err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, fmt.Errorf("load site metadata: %w", err)
	}

	client := newAPIClient(cfg, store, log)
	usersSvc := users.NewService(client, cfg.APIRevalidate, log)

	authSvc := auth.NewService(store, auth.Options{
		Delay:     cfg.LoginDelay,
		Seed:      domain.Credentials{Username: cfg.MockUsername, Password: cfg.MockPassword},
		Publisher: fanout,
		Logger:    log,
	})
	if err := authSvc.EnsureRegistered(ctx); err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, fmt.Errorf("seed registered user: %w", err)
	}

	sessions := session.NewManager(cfg.SessionCookie, cfg.SessionTTL)
	server, err := web.NewServer(web.Config{
		Addr:         cfg.HTTPAddr,
		Site:         meta,
		ToastDismiss: cfg.ToastDismiss,
		Logger:       log,
	}, authSvc, usersSvc, sessions)
	if err != nil {
		_ = fanout.Close()
		_ = store.Close()
		return nil, fmt.Errorf("init web server: %w", err)
	}

	sweep := cfg.StorageCleanupInterval
	if cfg.SessionTTL < sweep {
		sweep = cfg.SessionTTL
	}

	return &Portal{
		cfg:           cfg,
		log:           log,
		store:         store,
		fanout:        fanout,
		sessions:      sessions,
		server:        server,
		sweepInterval: sweep,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (p *Portal) Handler() http.Handler {
	return p.server
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (p *Portal) Run(ctx context.Context) error {
	if p == nil || p.server == nil {
		return fmt.Errorf("portal is not initialized")
	}
	defer p.close()

	stopWatch := p.cfg.Watch(p.applyReload, func(err error) {
		p.log.ErrorObj("config reload failed", "error", err.Error())
	})
	defer stopWatch()

	srv := p.server.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	p.log.InfoObj("portal listening", "portal_state", map[string]any{
		"addr":             p.cfg.HTTPAddr,
		"publishers_count": p.fanout.Size(),
		"sweep_interval":   p.sweepInterval.String(),
	})

	ticker := time.NewTicker(p.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("portal shutting down", "reason", ctx.Err().Error())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown http server: %w", err)
			}
			return nil
		case err, ok := <-errCh:
			if ok && err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ticker.C:
			p.sweep()
		}
	}
}

// sweep drops expired cache entries and idle sessions.
func (p *Portal) sweep() {
	removed, err := p.store.Sweep()
	if err != nil {
		p.log.ErrorObj("cache sweep failed", "error", err.Error())
	}
	idle := p.sessions.Sweep()
	if removed > 0 || idle > 0 {
		p.log.DebugObj("sweep completed", "sweep_meta", map[string]any{
			"cache_entries_removed": removed,
			"sessions_removed":      idle,
			"sessions_live":         p.sessions.Len(),
		})
	}
}

func (p *Portal) applyReload(next *config.Config) {
	logger.SetLevel(next.LogLevel)
	p.log.InfoObj("config reloaded", "config_reload", map[string]any{
		"log_level": logger.Level(),
	})
}

// close releases publishers and the storage backend, logging any errors encountered.
func (p *Portal) close() {
	if err := p.fanout.Close(); err != nil {
		p.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if p.store == nil {
		return
	}
	if err := p.store.Close(); err != nil {
		p.log.ErrorObj("storage close failed", "error", err.Error())
	}
}

// loadPublishers builds the auth event fanout. Without a publishers file the
// fanout is empty.
func loadPublishers(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		log.InfoObj("no publishers file configured; auth events are not published", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

func newAPIClient(cfg *config.Config, cache httpclient.ResponseCache, log logger.Logger) *httpclient.Client {
	return httpclient.New(httpclient.Options{
		BaseURL: cfg.APIBaseURL,
		Headers: map[string]string{"Accept": "application/json"},
		Timeout: cfg.APITimeout,
		Cache:   cache,
		Logger:  log,
	})
}

// ListUsers fetches the listing once, bypassing storage.
func ListUsers(ctx context.Context, cfg *config.Config, log logger.Logger) ([]domain.User, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return users.NewService(newAPIClient(cfg, nil, log), 0, log).List(ctx)
}
