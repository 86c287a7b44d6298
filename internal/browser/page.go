package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/humanoid"
)

// probeTimeout bounds each individual selector existence check during
// LocateFirst so a long candidate list cannot stall an action.
const probeTimeout = 1500 * time.Millisecond

// Page wraps the lone chromedp tab context and implements schemas.Page.
// It is not safe for concurrent use; callers go through Manager.Acquire.
type Page struct {
	ctx    context.Context
	cfg    config.BrowserConfig
	pacer  *humanoid.Pacer
	logger *zap.Logger
}

var _ schemas.Page = (*Page)(nil)

func newPage(ctx context.Context, cfg config.BrowserConfig, pacer *humanoid.Pacer, logger *zap.Logger) *Page {
	return &Page{
		ctx:    ctx,
		cfg:    cfg,
		pacer:  pacer,
		logger: logger.Named("page"),
	}
}

// init starts the tab and applies viewport and header emulation before any
// navigation happens.
func (p *Page) init(ctx context.Context) error {
	headers := make(network.Headers, len(p.cfg.Headers))
	for k, v := range p.cfg.Headers {
		headers[k] = v
	}

	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(p.cfg.ViewportWidth), int64(p.cfg.ViewportHeight)),
		network.Enable(),
	}
	if len(headers) > 0 {
		actions = append(actions, network.SetExtraHTTPHeaders(headers))
	}
	actions = append(actions, chromedp.Navigate("about:blank"))

	return p.run(ctx, p.cfg.NavigationTimeout, actions...)
}

// run executes chromedp actions against the page context with a per-call
// timeout, while still honoring cancellation of the caller's context.
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(tctx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// settle pauses briefly after a page-mutating interaction so asynchronous
// UI updates can land before the next step probes the DOM.
func (p *Page) settle(ctx context.Context) {
	if err := p.pacer.Hesitate(ctx, p.cfg.SettleInterval); err != nil {
		p.logger.Debug("Settle interrupted", zap.Error(err))
	}
}

// Navigate loads the URL and waits for the document body, then settles.
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.logger.Debug("Navigating", zap.String("url", url))
	err := p.run(ctx, p.cfg.NavigationTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: navigate to %s: %v", schemas.ErrNavigation, url, err)
	}
	p.settle(ctx)
	return nil
}

// LocateFirst probes the candidate selectors in order and returns the
// first one present in the DOM. Order is the tie-break: earlier
// candidates win even if later ones also match.
func (p *Page) LocateFirst(ctx context.Context, candidates []string) (string, bool) {
	return locateFirstWith(ctx, candidates, func(ctx context.Context, selector string) bool {
		var nodes []*cdp.Node
		err := p.run(ctx, probeTimeout,
			chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
		)
		if err != nil {
			p.logger.Debug("Selector probe failed", zap.String("selector", selector), zap.Error(err))
			return false
		}
		return len(nodes) > 0
	})
}

// Click clicks the first element matching the selector and settles.
func (p *Page) Click(ctx context.Context, selector string) error {
	err := p.run(ctx, p.cfg.ActionTimeout,
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: click %q: %v", schemas.ErrElementNotFound, selector, err)
	}
	p.settle(ctx)
	return nil
}

// Hover moves the pointer to the center of the element matching the
// selector without pressing a button.
func (p *Page) Hover(ctx context.Context, selector string) error {
	var box struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) { throw new Error("element not found"); }
		el.scrollIntoView({block: "center", inline: "center"});
		const r = el.getBoundingClientRect();
		return {x: r.left + r.width / 2, y: r.top + r.height / 2};
	})()`, selector)

	err := p.run(ctx, p.cfg.ActionTimeout,
		chromedp.Evaluate(script, &box),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return input.DispatchMouseEvent(input.MouseMoved, box.X, box.Y).Do(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: hover %q: %v", schemas.ErrElementNotFound, selector, err)
	}
	p.settle(ctx)
	return nil
}

// TypeInto focuses the element and types the text. With pacing enabled
// the keystrokes are sent one at a time on a humanoid cadence.
func (p *Page) TypeInto(ctx context.Context, selector, text string) error {
	err := p.run(ctx, p.cfg.ActionTimeout,
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: focus %q: %v", schemas.ErrElementNotFound, selector, err)
	}

	if !p.pacer.Enabled() {
		if err := p.run(ctx, p.cfg.ActionTimeout, chromedp.SendKeys(selector, text, chromedp.ByQuery)); err != nil {
			return fmt.Errorf("type into %q: %w", selector, err)
		}
		return nil
	}

	for _, r := range text {
		if err := p.run(ctx, p.cfg.ActionTimeout, chromedp.SendKeys(selector, string(r), chromedp.ByQuery)); err != nil {
			return fmt.Errorf("type into %q: %w", selector, err)
		}
		select {
		case <-time.After(p.pacer.TypingDelay()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// PressKey sends a named key to the element. Key names follow the common
// DOM convention ("Enter", "Tab", "Escape").
func (p *Page) PressKey(ctx context.Context, selector, key string) error {
	seq, ok := keySequences[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	err := p.run(ctx, p.cfg.ActionTimeout,
		chromedp.SendKeys(selector, seq, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("%w: press %q on %q: %v", schemas.ErrElementNotFound, key, selector, err)
	}
	p.settle(ctx)
	return nil
}

var keySequences = map[string]string{
	"Enter":  kb.Enter,
	"Tab":    kb.Tab,
	"Escape": kb.Escape,
}

// CurrentURL reports the page's current location.
func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := p.run(ctx, p.cfg.ActionTimeout, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return loc, nil
}

// Evaluate runs the script in the page and unmarshals the result into out.
// Pass nil to discard the result.
func (p *Page) Evaluate(ctx context.Context, script string, out any) error {
	if err := p.run(ctx, p.cfg.ActionTimeout, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("evaluate script: %w", err)
	}
	return nil
}

// SetCookies installs the session cookies into the browser's cookie jar.
func (p *Page) SetCookies(ctx context.Context, cookies []schemas.Cookie) error {
	err := p.run(ctx, p.cfg.ActionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		for _, c := range cookies {
			param := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithSecure(c.Secure).
				WithHTTPOnly(c.HTTPOnly)
			if !c.Expires.IsZero() {
				expires := cdp.TimeSinceEpoch(c.Expires)
				param = param.WithExpires(&expires)
			}
			if err := param.Do(ctx); err != nil {
				return fmt.Errorf("set cookie %q: %w", c.Name, err)
			}
		}
		return nil
	}))
	if err != nil {
		return err
	}
	p.logger.Debug("Session cookies installed", zap.Int("count", len(cookies)))
	return nil
}

// OuterHTML returns the serialized document for offline parsing.
func (p *Page) OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, p.cfg.NavigationTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capture outer html: %w", err)
	}
	return html, nil
}
