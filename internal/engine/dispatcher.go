// Package engine drives single and batch action execution: request
// validation, account authorization, session establishment, executor
// routing, and outcome recording.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/humanoid"
	"github.com/xkilldash9x/socialine-cli/internal/platform"
)

// Caller-facing failure messages. The dispatcher is the only place that
// maps the internal error taxonomy onto these.
const (
	msgSessionExpired  = "Session expired. Please login again."
	msgElementMissing  = "Target element not found. The post or user might not be accessible."
	msgTimeout         = "Action timed out. Please try again."
	msgGenericFailure  = "Failed to perform action."
	msgNotAuthorized   = "Session expired or user not active"
	msgInvalidSession  = "Invalid session cookies"
	msgAccountNotFound = "Account not found"
)

// Dispatcher executes a single action request end to end.
type Dispatcher struct {
	store    schemas.AccountStore
	vault    schemas.CredentialVault
	driver   schemas.Driver
	verifier schemas.SessionVerifier
	executor schemas.ActionExecutor
	urls     *platform.URLs
	pacer    *humanoid.Pacer
	cfg      config.EngineConfig
	logger   *zap.Logger
}

// NewDispatcher wires the dispatcher from its collaborators.
func NewDispatcher(
	store schemas.AccountStore,
	vault schemas.CredentialVault,
	driver schemas.Driver,
	verifier schemas.SessionVerifier,
	executor schemas.ActionExecutor,
	urls *platform.URLs,
	pacer *humanoid.Pacer,
	cfg config.EngineConfig,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		vault:    vault,
		driver:   driver,
		verifier: verifier,
		executor: executor,
		urls:     urls,
		pacer:    pacer,
		cfg:      cfg,
		logger:   logger.Named("dispatcher"),
	}
}

// validate checks the request shape before any account or browser work.
// The returned message is caller-facing.
func (d *Dispatcher) validate(req schemas.ActionRequest) (string, bool) {
	if strings.TrimSpace(req.TargetURL) == "" {
		return "Target URL is required", false
	}
	if req.Kind == "" {
		return "Action type is required", false
	}
	if !req.Kind.Valid() {
		return "Invalid action type", false
	}
	if err := d.urls.ValidTarget(req.TargetURL); err != nil {
		return "Invalid platform URL", false
	}
	if req.Kind == schemas.ActionComment && strings.TrimSpace(req.CommentText) == "" {
		return "Comment text is required for comment action", false
	}
	return "", true
}

// authorize loads the account and confirms it may act. The returned
// message is caller-facing on failure.
func (d *Dispatcher) authorize(ctx context.Context, platformID string) (*schemas.Account, string, error) {
	acct, err := d.store.GetByPlatformID(ctx, platformID)
	if err != nil {
		return nil, msgAccountNotFound, err
	}
	if !acct.CanPerformAction() {
		return nil, msgNotAuthorized, fmt.Errorf("%w: account %s cannot act", schemas.ErrAuth, acct.MaskedID)
	}
	return acct, "", nil
}

// openSession decodes the account's credentials and establishes the
// platform session on the given page.
func (d *Dispatcher) openSession(ctx context.Context, page schemas.Page, acct *schemas.Account) (string, error) {
	cookies, err := d.vault.Decode(acct.CredentialBlob)
	if err != nil {
		return msgInvalidSession, err
	}
	if err := d.verifier.Establish(ctx, page, cookies); err != nil {
		return classify(err), err
	}
	return "", nil
}

// execute routes the request to the matching executor motion. It assumes
// the page holds an established session.
func (d *Dispatcher) execute(ctx context.Context, page schemas.Page, req schemas.ActionRequest) error {
	switch {
	case req.Kind == schemas.ActionLike:
		return d.executor.Like(ctx, page, req.TargetURL)
	case req.Kind.IsReaction():
		_, err := d.executor.React(ctx, page, req.TargetURL, req.Kind)
		return err
	case req.Kind == schemas.ActionComment:
		return d.executor.Comment(ctx, page, req.TargetURL, req.CommentText)
	case req.Kind == schemas.ActionFollow:
		return d.executor.Follow(ctx, page, req.TargetURL)
	default:
		return fmt.Errorf("%w: unsupported action type %q", schemas.ErrValidation, req.Kind)
	}
}

// Dispatch runs one action for the account: validate, authorize, acquire
// the page, establish the session, execute, and record the outcome. The
// browser is never touched for requests that fail validation or
// authorization.
func (d *Dispatcher) Dispatch(ctx context.Context, platformID string, req schemas.ActionRequest) schemas.ActionOutcome {
	outcome := newOutcome(req)

	if msg, ok := d.validate(req); !ok {
		return outcome.fail(msg)
	}

	acct, msg, err := d.authorize(ctx, platformID)
	if err != nil {
		d.logger.Warn("Action not authorized", zap.String("platform_id", platformID), zap.Error(err))
		return outcome.fail(msg)
	}

	page, release, err := d.driver.Acquire(ctx)
	if err != nil {
		d.logger.Error("Failed to acquire browser page", zap.Error(err))
		return outcome.fail(classify(err))
	}
	defer release()

	if msg, err := d.openSession(ctx, page, acct); err != nil {
		d.logger.Warn("Session establishment failed",
			zap.String("masked_id", acct.MaskedID), zap.Error(err))
		return outcome.fail(msg)
	}

	if err := d.execute(ctx, page, req); err != nil {
		d.logger.Warn("Action failed",
			zap.String("masked_id", acct.MaskedID),
			zap.String("action_type", string(req.Kind)),
			zap.String("target_url", req.TargetURL),
			zap.Error(err))
		return outcome.fail(classify(err))
	}

	acct.UpdateStats(req.Kind)
	if err := d.store.Save(ctx, acct); err != nil {
		// The platform action already happened; a ledger write failure
		// must not turn it into a reported failure.
		d.logger.Error("Failed to persist action stats",
			zap.String("masked_id", acct.MaskedID), zap.Error(err))
	}

	d.logger.Info("Action performed",
		zap.String("masked_id", acct.MaskedID),
		zap.String("action_type", string(req.Kind)),
		zap.String("target_url", req.TargetURL))
	return outcome.succeed(fmt.Sprintf("%s action performed successfully", req.Kind))
}

// classify translates an internal error into the caller-facing message.
func classify(err error) string {
	switch {
	case errors.Is(err, schemas.ErrAuth), errors.Is(err, schemas.ErrDecode):
		return msgSessionExpired
	case errors.Is(err, schemas.ErrElementNotFound):
		return msgElementMissing
	case errors.Is(err, schemas.ErrNavigation),
		errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	default:
		return msgGenericFailure
	}
}

// outcome is a builder for ActionOutcome keyed to one request.
type outcome schemas.ActionOutcome

func newOutcome(req schemas.ActionRequest) outcome {
	o := outcome{
		TargetURL: req.TargetURL,
		Kind:      req.Kind,
	}
	if req.Kind == schemas.ActionComment {
		o.Comment = req.CommentText
	}
	return o
}

func (o outcome) fail(msg string) schemas.ActionOutcome {
	o.Success = false
	o.Message = msg
	o.Timestamp = time.Now()
	return schemas.ActionOutcome(o)
}

func (o outcome) succeed(msg string) schemas.ActionOutcome {
	o.Success = true
	o.Message = msg
	o.Timestamp = time.Now()
	return schemas.ActionOutcome(o)
}
