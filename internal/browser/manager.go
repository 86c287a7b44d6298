// Package browser owns the singleton headless browser process and its one
// page, and exposes the element-location and interaction primitives every
// executor is built on.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/humanoid"
)

// Manager implements schemas.Driver. It manages the lifecycle of the
// browser process and a single page context. There is no session isolation
// between tabs in this design, so callers are serialized through a
// one-slot lease rather than handed parallel pages.
type Manager struct {
	logger *zap.Logger
	cfg    config.BrowserConfig
	pacer  *humanoid.Pacer

	// lease serializes page access across callers.
	lease chan struct{}

	// startMu guards lazy initialization of the browser process.
	startMu sync.Mutex
	started bool

	allocCtx    context.Context
	allocCancel context.CancelFunc
	pageCtx     context.Context
	pageCancel  context.CancelFunc
	page        *Page
}

var _ schemas.Driver = (*Manager)(nil)

// NewManager creates the browser manager. The browser process itself is
// started lazily on the first Acquire.
func NewManager(cfg config.BrowserConfig, pacer *humanoid.Pacer, logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger.Named("browser_manager"),
		cfg:    cfg,
		pacer:  pacer,
		lease:  make(chan struct{}, 1),
	}
}

// generateAllocatorOptions configures the flags for the browser executable.
func (m *Manager) generateAllocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	if m.cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}

	opts = append(opts,
		chromedp.UserAgent(m.cfg.UserAgent),
		chromedp.WindowSize(m.cfg.ViewportWidth, m.cfg.ViewportHeight),

		// Automation detection evasion.
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),

		// Stability flags for containerized environments.
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-gpu", m.cfg.Headless),

		chromedp.Flag("ignore-certificate-errors", m.cfg.IgnoreTLSErrors),
	)

	return opts
}

// start launches the browser process and opens the page. Idempotent:
// repeated calls after a successful start are no-ops.
func (m *Manager) start(ctx context.Context) error {
	m.startMu.Lock()
	defer m.startMu.Unlock()
	if m.started {
		return nil
	}

	m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.Background(), m.generateAllocatorOptions()...)
	m.pageCtx, m.pageCancel = chromedp.NewContext(m.allocCtx,
		chromedp.WithLogf(m.logger.Sugar().Debugf),
		chromedp.WithErrorf(m.logger.Sugar().Errorf),
	)

	page := newPage(m.pageCtx, m.cfg, m.pacer, m.logger)

	initCtx, cancel := context.WithTimeout(ctx, m.cfg.NavigationTimeout)
	defer cancel()
	if err := page.init(initCtx); err != nil {
		m.pageCancel()
		m.allocCancel()
		m.pageCtx, m.allocCtx = nil, nil
		return fmt.Errorf("failed to initialize browser page: %w", err)
	}

	m.page = page
	m.started = true
	m.logger.Info("Browser initialized",
		zap.Bool("headless", m.cfg.Headless),
		zap.Int("viewport_width", m.cfg.ViewportWidth),
		zap.Int("viewport_height", m.cfg.ViewportHeight),
	)
	return nil
}

// Acquire hands out the page under a scoped lease. It blocks until the
// previous holder releases or the context is done. The release function
// must always be called, exactly once.
func (m *Manager) Acquire(ctx context.Context) (schemas.Page, func(), error) {
	select {
	case m.lease <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	if err := m.start(ctx); err != nil {
		<-m.lease
		return nil, nil, err
	}

	leaseID := uuid.NewString()
	m.logger.Debug("Page lease acquired", zap.String("lease_id", leaseID))

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.logger.Debug("Page lease released", zap.String("lease_id", leaseID))
			<-m.lease
		})
	}
	return m.page, release, nil
}

// Shutdown terminates the browser process.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.startMu.Lock()
	defer m.startMu.Unlock()
	if !m.started {
		return nil
	}

	m.logger.Info("Shutting down browser manager")

	// Wait for any in-flight lease, bounded by the caller's context.
	select {
	case m.lease <- struct{}{}:
		defer func() { <-m.lease }()
	case <-ctx.Done():
		m.logger.Warn("Shutdown proceeding with lease still held", zap.Error(ctx.Err()))
	case <-time.After(10 * time.Second):
		m.logger.Warn("Shutdown proceeding after lease wait timeout")
	}

	if m.pageCancel != nil {
		m.pageCancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	m.started = false
	m.page = nil
	m.logger.Info("Browser manager shutdown complete")
	return nil
}
