package schemas

import (
	"strings"
	"time"
)

// Preference bounds. Values outside these ranges are silently ignored by
// ApplyPreferences, in contrast to the strict validation on action
// requests.
const (
	MinActionDelayMs   = 1000
	MaxActionDelayMs   = 30000
	MinActionsPerDay   = 1
	MaxActionsPerDay   = 1000
	DefaultSessionTTL  = 24 * time.Hour
	DefaultActionDelay = 5000
	DefaultDailyLimit  = 100
)

// Stats holds the aggregate activity counters for one account. This is the
// only action history kept; individual outcomes are never persisted.
type Stats struct {
	TotalActions int `json:"totalActions"`
	Likes        int `json:"likes"`
	Comments     int `json:"comments"`
	Follows      int `json:"follows"`
	Reactions    int `json:"reactions"`
}

// Preferences are the per-account tunables.
type Preferences struct {
	AutoCleanup      bool `json:"autoCleanup"`
	ActionDelayMs    int  `json:"actionDelayMs"`
	MaxActionsPerDay int  `json:"maxActionsPerDay"`
}

// DefaultPreferences returns the preferences assigned to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{
		AutoCleanup:      true,
		ActionDelayMs:    DefaultActionDelay,
		MaxActionsPerDay: DefaultDailyLimit,
	}
}

// PreferencePatch carries an optional value per preference field. Nil
// fields are left untouched; present but out-of-range values are dropped.
type PreferencePatch struct {
	AutoCleanup      *bool `json:"autoCleanup,omitempty"`
	ActionDelayMs    *int  `json:"actionDelayMs,omitempty"`
	MaxActionsPerDay *int  `json:"maxActionsPerDay,omitempty"`
}

// Account is the persisted record binding a platform identity to its
// session credentials, counters and preferences. The ledger owns the
// credential blob; it is never exposed through Snapshot.
type Account struct {
	PlatformID       string
	MaskedID         string
	DisplayName      string
	ProfilePicture   string
	CredentialBlob   string
	CredentialExpiry time.Time
	Active           bool
	LastLogin        time.Time
	LastAction       time.Time
	Stats            Stats
	Preferences      Preferences
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SessionValid reports whether the account may hold a live platform
// session: active and the credential expiry has not passed.
func (a *Account) SessionValid() bool {
	return a.Active && a.CredentialExpiry.After(time.Now())
}

// CanPerformAction gates action execution. Only session-valid accounts may
// act; the daily quota preference is stored but not yet enforced here.
func (a *Account) CanPerformAction() bool {
	return a.SessionValid()
}

// UpdateStats bumps the counter bucket matching the action kind and
// records the action time. Every reaction variant lands in Reactions.
func (a *Account) UpdateStats(kind ActionKind) {
	a.Stats.TotalActions++
	a.LastAction = time.Now()

	switch {
	case kind == ActionLike:
		a.Stats.Likes++
	case kind == ActionComment:
		a.Stats.Comments++
	case kind == ActionFollow:
		a.Stats.Follows++
	case kind.IsReaction():
		a.Stats.Reactions++
	}
}

// SetCredentials stores a freshly encoded blob and extends the expiry.
func (a *Account) SetCredentials(blob string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	a.CredentialBlob = blob
	a.CredentialExpiry = time.Now().Add(ttl)
	a.LastLogin = time.Now()
	a.Active = true
}

// ApplyPreferences merges a patch, silently dropping out-of-range values.
func (a *Account) ApplyPreferences(patch PreferencePatch) {
	if patch.AutoCleanup != nil {
		a.Preferences.AutoCleanup = *patch.AutoCleanup
	}
	if v := patch.ActionDelayMs; v != nil && *v >= MinActionDelayMs && *v <= MaxActionDelayMs {
		a.Preferences.ActionDelayMs = *v
	}
	if v := patch.MaxActionsPerDay; v != nil && *v >= MinActionsPerDay && *v <= MaxActionsPerDay {
		a.Preferences.MaxActionsPerDay = *v
	}
}

// MaskPlatformID hides all but the last four runes of an identity key.
func MaskPlatformID(id string) string {
	runes := []rune(id)
	if len(runes) < 4 {
		return "****"
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

// AccountSnapshot is the collaborator-facing view of an account. The
// identity is masked and the credential blob is absent.
type AccountSnapshot struct {
	PlatformID     string      `json:"platformId"`
	DisplayName    string      `json:"displayName"`
	ProfilePicture string      `json:"profilePicture,omitempty"`
	Stats          Stats       `json:"stats"`
	SessionValid   bool        `json:"sessionValid"`
	LastAction     time.Time   `json:"lastAction,omitempty"`
	Preferences    Preferences `json:"preferences"`
}

// Snapshot produces the exposable view of the account.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		PlatformID:     a.MaskedID,
		DisplayName:    a.DisplayName,
		ProfilePicture: a.ProfilePicture,
		Stats:          a.Stats,
		SessionValid:   a.SessionValid(),
		LastAction:     a.LastAction,
		Preferences:    a.Preferences,
	}
}
