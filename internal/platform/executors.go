package platform

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

// Executor implements schemas.ActionExecutor. Every method assumes the
// page already carries an established session; the dispatcher guarantees
// that ordering.
type Executor struct {
	urls      *URLs
	selectors Selectors
	logger    *zap.Logger
}

var _ schemas.ActionExecutor = (*Executor)(nil)

// NewExecutor creates the action executor.
func NewExecutor(urls *URLs, selectors Selectors, logger *zap.Logger) *Executor {
	return &Executor{
		urls:      urls,
		selectors: selectors,
		logger:    logger.Named("action_executor"),
	}
}

// Like opens the target post and clicks its like control.
func (e *Executor) Like(ctx context.Context, page schemas.Page, targetURL string) error {
	if err := page.Navigate(ctx, targetURL); err != nil {
		return err
	}
	sel, ok := page.LocateFirst(ctx, e.selectors.Like)
	if !ok {
		return fmt.Errorf("%w: like control", schemas.ErrElementNotFound)
	}
	if err := page.Click(ctx, sel); err != nil {
		return err
	}
	e.logger.Info("Post liked", zap.String("target_url", targetURL))
	return nil
}

// React opens the target post, hovers the like control to raise the
// reaction palette, and clicks the requested reaction. When the palette
// entry never appears the reaction leniently downgrades to a plain like;
// the returned flag reports that downgrade.
func (e *Executor) React(ctx context.Context, page schemas.Page, targetURL string, kind schemas.ActionKind) (bool, error) {
	reactionSel, ok := ReactionSelector(kind)
	if !ok {
		return false, fmt.Errorf("%w: %q is not a reaction", schemas.ErrValidation, kind)
	}

	if err := page.Navigate(ctx, targetURL); err != nil {
		return false, err
	}
	likeSel, ok := page.LocateFirst(ctx, e.selectors.Like)
	if !ok {
		return false, fmt.Errorf("%w: like control", schemas.ErrElementNotFound)
	}
	if err := page.Hover(ctx, likeSel); err != nil {
		return false, err
	}

	if sel, ok := page.LocateFirst(ctx, []string{reactionSel}); ok {
		if err := page.Click(ctx, sel); err != nil {
			return false, err
		}
		e.logger.Info("Reaction placed", zap.String("target_url", targetURL), zap.String("reaction", string(kind)))
		return false, nil
	}

	// Palette entry missing: fall back to the plain like.
	if err := page.Click(ctx, likeSel); err != nil {
		return false, err
	}
	e.logger.Info("Reaction unavailable, downgraded to like",
		zap.String("target_url", targetURL),
		zap.String("reaction", string(kind)),
	)
	return true, nil
}

// Comment opens the target post, types the text into the comment composer,
// and submits it with Enter.
func (e *Executor) Comment(ctx context.Context, page schemas.Page, targetURL, text string) error {
	if err := page.Navigate(ctx, targetURL); err != nil {
		return err
	}
	sel, ok := page.LocateFirst(ctx, e.selectors.CommentInput)
	if !ok {
		return fmt.Errorf("%w: comment composer", schemas.ErrElementNotFound)
	}
	if err := page.TypeInto(ctx, sel, text); err != nil {
		return err
	}
	if err := page.PressKey(ctx, sel, "Enter"); err != nil {
		return err
	}
	e.logger.Info("Comment posted", zap.String("target_url", targetURL))
	return nil
}

// Follow resolves the user behind the target URL, opens their profile,
// and clicks the follow control.
func (e *Executor) Follow(ctx context.Context, page schemas.Page, targetURL string) error {
	userID, err := e.urls.ExtractUserID(targetURL)
	if err != nil {
		return err
	}
	if err := page.Navigate(ctx, e.urls.UserProfile(userID)); err != nil {
		return err
	}
	sel, ok := page.LocateFirst(ctx, e.selectors.Follow)
	if !ok {
		return fmt.Errorf("%w: follow control", schemas.ErrElementNotFound)
	}
	if err := page.Click(ctx, sel); err != nil {
		return err
	}
	e.logger.Info("User followed", zap.String("user_id", userID))
	return nil
}
