// Package schemas defines the shared data model and component contracts for
// the action engine. Implementations live under internal/; keeping the
// interfaces here lets every component depend on the contract without
// importing its siblings.
package schemas

import (
	"context"
	"time"
)

// ActionKind enumerates the supported platform actions.
type ActionKind string

const (
	ActionLike    ActionKind = "like"
	ActionLove    ActionKind = "love"
	ActionHaha    ActionKind = "haha"
	ActionWow     ActionKind = "wow"
	ActionSad     ActionKind = "sad"
	ActionAngry   ActionKind = "angry"
	ActionFollow  ActionKind = "follow"
	ActionComment ActionKind = "comment"
)

// AllActionKinds lists every valid kind, in a stable order.
var AllActionKinds = []ActionKind{
	ActionLike, ActionLove, ActionHaha, ActionWow,
	ActionSad, ActionAngry, ActionFollow, ActionComment,
}

// Valid reports whether k is a member of the action enum.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionLike, ActionLove, ActionHaha, ActionWow,
		ActionSad, ActionAngry, ActionFollow, ActionComment:
		return true
	}
	return false
}

// IsReaction reports whether k is one of the reaction variants that render
// on the like control's hover palette.
func (k ActionKind) IsReaction() bool {
	switch k {
	case ActionLove, ActionHaha, ActionWow, ActionSad, ActionAngry:
		return true
	}
	return false
}

// Cookie is one entry of a platform session's cookie set. It carries only
// the fields the browser needs to install it.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitempty"`
	HTTPOnly bool      `json:"httpOnly,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
}

// ActionRequest is a single requested action against a target resource.
// Constructed per call and discarded after it produces an ActionOutcome.
type ActionRequest struct {
	TargetURL   string     `json:"targetUrl"`
	Kind        ActionKind `json:"actionType"`
	CommentText string     `json:"commentText,omitempty"`
}

// ActionOutcome reports the result of one dispatched action.
type ActionOutcome struct {
	TargetURL string     `json:"targetUrl"`
	Kind      ActionKind `json:"actionType"`
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Comment   string     `json:"comment,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchResult is the full output of a batch: one outcome per request, in
// request order, plus the summary.
type BatchResult struct {
	Summary  BatchSummary    `json:"summary"`
	Outcomes []ActionOutcome `json:"results"`
}

// Page is one live browser page. All element references are CSS selectors;
// LocateFirst resolves an ordered candidate list to the first selector that
// matches a live element, which then serves as the handle for the follow-up
// interaction.
type Page interface {
	Navigate(ctx context.Context, url string) error
	LocateFirst(ctx context.Context, candidates []string) (string, bool)
	Click(ctx context.Context, selector string) error
	Hover(ctx context.Context, selector string) error
	TypeInto(ctx context.Context, selector, text string) error
	PressKey(ctx context.Context, selector, key string) error
	CurrentURL(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, script string, out any) error
	SetCookies(ctx context.Context, cookies []Cookie) error
	OuterHTML(ctx context.Context) (string, error)
}

// Driver owns the singleton browser process and its one page. Acquire hands
// out a scoped lease on that page; concurrent callers are serialized, never
// interleaved, because the page has no session isolation between users.
// The returned release function must be called when the caller is done.
type Driver interface {
	Acquire(ctx context.Context) (Page, func(), error)
	Shutdown(ctx context.Context) error
}

// SessionVerifier establishes an authenticated platform session on a page.
// A failed status check yields ErrAuth.
type SessionVerifier interface {
	Establish(ctx context.Context, page Page, cookies []Cookie) error
}

// ActionExecutor performs the concrete browser motions for each action
// kind against an already-authenticated page. React reports whether the
// requested reaction was downgraded to a plain like.
type ActionExecutor interface {
	Like(ctx context.Context, page Page, targetURL string) error
	React(ctx context.Context, page Page, targetURL string, kind ActionKind) (downgraded bool, err error)
	Comment(ctx context.Context, page Page, targetURL, text string) error
	Follow(ctx context.Context, page Page, targetURL string) error
}

// CredentialVault reversibly protects a session's cookie set at rest.
// Decode fails with ErrDecode on any malformed blob.
type CredentialVault interface {
	Encode(cookies []Cookie) (string, error)
	Decode(blob string) ([]Cookie, error)
}

// AccountStore is the persistence boundary for the account ledger.
type AccountStore interface {
	Create(ctx context.Context, acct *Account) error
	GetByPlatformID(ctx context.Context, platformID string) (*Account, error)
	Save(ctx context.Context, acct *Account) error
	UpdatePreferences(ctx context.Context, platformID string, prefs Preferences) error
	CleanupExpiredSessions(ctx context.Context) (int64, error)
	ListActive(ctx context.Context) ([]*Account, error)
	Delete(ctx context.Context, platformID string) error
}
