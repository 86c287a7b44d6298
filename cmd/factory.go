package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/internal/browser"
	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/engine"
	"github.com/xkilldash9x/socialine-cli/internal/humanoid"
	"github.com/xkilldash9x/socialine-cli/internal/observability"
	"github.com/xkilldash9x/socialine-cli/internal/platform"
	"github.com/xkilldash9x/socialine-cli/internal/store"
	"github.com/xkilldash9x/socialine-cli/internal/vault"
)

// Components holds the initialized services one command invocation needs.
// It centralizes lifecycle management of the browser and the database pool.
type Components struct {
	Dispatcher   *engine.Dispatcher
	Store        *store.Store
	Browser      *browser.Manager
	CookieDomain string

	dbPool *pgxpool.Pool
}

// newComponents performs the full dependency wiring for a command.
func newComponents(ctx context.Context, cfg *config.Config) (*Components, error) {
	logger := observability.GetLogger()

	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres.url is not configured")
	}
	if cfg.Vault.Key == "" {
		return nil, fmt.Errorf("vault.key is not configured; run 'socialine-cli keygen' to create one")
	}

	dbPool, err := pgxpool.New(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	st, err := store.New(ctx, dbPool, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		dbPool.Close()
		return nil, err
	}

	vlt, err := vault.NewFromHex(cfg.Vault.Key)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	pacer := humanoid.NewPacer(cfg.Engine.Humanoid, logger)
	mgr := browser.NewManager(cfg.Browser, pacer, logger)

	urls := platform.NewURLs(cfg.Platform)
	selectors := platform.SelectorsFromConfig(cfg.Platform.Selectors)
	verifier := platform.NewVerifier(urls, selectors, logger)
	executor := platform.NewExecutor(urls, selectors, logger)

	dispatcher := engine.NewDispatcher(st, vlt, mgr, verifier, executor, urls, pacer, cfg.Engine, logger)

	return &Components{
		Dispatcher:   dispatcher,
		Store:        st,
		Browser:      mgr,
		CookieDomain: platform.CookieDomain(cfg.Platform),
		dbPool:       dbPool,
	}, nil
}

// Shutdown releases browser and database resources. It uses its own
// timeout so cleanup completes even when the command context was canceled.
func (c *Components) Shutdown() {
	logger := observability.GetLogger()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.Browser.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Error during browser shutdown", zap.Error(err))
	}

	if c.dbPool != nil {
		c.dbPool.Close()
	}
	logger.Debug("Components shut down")
}
