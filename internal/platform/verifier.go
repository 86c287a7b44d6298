package platform

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

// Verifier establishes a platform session from stored cookies and decides
// whether the platform accepted it.
type Verifier struct {
	urls      *URLs
	selectors Selectors
	logger    *zap.Logger
}

var _ schemas.SessionVerifier = (*Verifier)(nil)

// NewVerifier creates the session verifier.
func NewVerifier(urls *URLs, selectors Selectors, logger *zap.Logger) *Verifier {
	return &Verifier{
		urls:      urls,
		selectors: selectors,
		logger:    logger.Named("session_verifier"),
	}
}

// Establish installs the cookies, loads the platform landing page, and
// checks for a logged-in marker element. Absence of the marker, or a
// redirect to a login or checkpoint page, means the credentials no longer
// hold and the call fails with schemas.ErrAuth.
func (v *Verifier) Establish(ctx context.Context, page schemas.Page, cookies []schemas.Cookie) error {
	if err := page.SetCookies(ctx, cookies); err != nil {
		return fmt.Errorf("install session cookies: %w", err)
	}
	if err := page.Navigate(ctx, v.urls.Home()); err != nil {
		return fmt.Errorf("load platform home: %w", err)
	}

	if sel, ok := page.LocateFirst(ctx, v.selectors.LoggedIn); ok {
		v.logger.Debug("Session verified", zap.String("marker", sel))
		return nil
	}

	current, err := page.CurrentURL(ctx)
	if err != nil {
		return fmt.Errorf("read post-login location: %w", err)
	}
	if v.urls.LoginRedirected(current) {
		v.logger.Warn("Session rejected by platform", zap.String("redirect", current))
		return fmt.Errorf("%w: redirected to login", schemas.ErrAuth)
	}

	// No logged-in marker and no recognizable redirect. Treat the session
	// as unusable rather than guessing.
	v.logger.Warn("No logged-in marker found on landing page")
	return fmt.Errorf("%w: logged-in marker not found", schemas.ErrAuth)
}
