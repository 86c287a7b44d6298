package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/platform"
)

// Onboard registers (or refreshes) an account from a browser-exported
// cookie string: it parses the cookies, verifies them against the
// platform, harvests the profile, seals the cookies in the vault, and
// persists the account. The returned snapshot never includes credential
// material.
func (d *Dispatcher) Onboard(ctx context.Context, cookieString, cookieDomain string) (schemas.AccountSnapshot, error) {
	cookies, err := platform.ParseCookieString(cookieString, cookieDomain)
	if err != nil {
		return schemas.AccountSnapshot{}, err
	}
	platformID, err := platform.ExtractPlatformID(cookies)
	if err != nil {
		return schemas.AccountSnapshot{}, err
	}

	page, release, err := d.driver.Acquire(ctx)
	if err != nil {
		return schemas.AccountSnapshot{}, fmt.Errorf("acquire browser page: %w", err)
	}
	defer release()

	if err := d.verifier.Establish(ctx, page, cookies); err != nil {
		return schemas.AccountSnapshot{}, err
	}

	profile, err := platform.HarvestProfile(ctx, page, d.urls.OwnProfile())
	if err != nil {
		// Profile details are cosmetic; a harvest failure must not block
		// onboarding a verified session.
		d.logger.Warn("Profile harvest failed", zap.Error(err))
		profile = platform.Profile{DisplayName: "Unknown User"}
	}

	blob, err := d.vault.Encode(cookies)
	if err != nil {
		return schemas.AccountSnapshot{}, fmt.Errorf("seal credentials: %w", err)
	}

	acct, err := d.store.GetByPlatformID(ctx, platformID)
	created := false
	if err != nil {
		acct = &schemas.Account{
			PlatformID:  platformID,
			MaskedID:    schemas.MaskPlatformID(platformID),
			Preferences: schemas.DefaultPreferences(),
			CreatedAt:   time.Now(),
		}
		created = true
	}

	acct.DisplayName = profile.DisplayName
	acct.ProfilePicture = profile.ProfilePicture
	acct.SetCredentials(blob, d.cfg.SessionTTL)

	if created {
		err = d.store.Create(ctx, acct)
	} else {
		err = d.store.Save(ctx, acct)
	}
	if err != nil {
		return schemas.AccountSnapshot{}, fmt.Errorf("persist account: %w", err)
	}

	d.logger.Info("Account onboarded",
		zap.String("masked_id", acct.MaskedID),
		zap.Bool("created", created))
	return acct.Snapshot(), nil
}

// Offboard deactivates the account and drops its credentials.
func (d *Dispatcher) Offboard(ctx context.Context, platformID string) error {
	if err := d.store.Delete(ctx, platformID); err != nil {
		return fmt.Errorf("remove account: %w", err)
	}
	d.logger.Info("Account removed", zap.String("masked_id", schemas.MaskPlatformID(platformID)))
	return nil
}

// ListAccounts returns credential-free snapshots of all active accounts.
func (d *Dispatcher) ListAccounts(ctx context.Context) ([]schemas.AccountSnapshot, error) {
	accts, err := d.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	snapshots := make([]schemas.AccountSnapshot, 0, len(accts))
	for _, acct := range accts {
		snapshots = append(snapshots, acct.Snapshot())
	}
	return snapshots, nil
}

// SweepExpiredSessions deactivates every account whose credential expiry
// has passed and scrubs their blobs. It reports how many were swept.
func (d *Dispatcher) SweepExpiredSessions(ctx context.Context) (int64, error) {
	swept, err := d.store.CleanupExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep expired sessions: %w", err)
	}
	if swept > 0 {
		d.logger.Info("Expired sessions swept", zap.Int64("count", swept))
	}
	return swept, nil
}

// AccountStats returns the activity report for one account: its masked
// identity, aggregate counters and last-action timestamp.
func (d *Dispatcher) AccountStats(ctx context.Context, platformID string) (schemas.AccountSnapshot, error) {
	acct, err := d.store.GetByPlatformID(ctx, platformID)
	if err != nil {
		return schemas.AccountSnapshot{}, errors.New(msgAccountNotFound)
	}
	return acct.Snapshot(), nil
}

// UpdateAccountPreferences applies a partial preference update and
// persists the result. Out-of-range values in the patch are dropped, not
// rejected.
func (d *Dispatcher) UpdateAccountPreferences(ctx context.Context, platformID string, patch schemas.PreferencePatch) (schemas.Preferences, error) {
	acct, err := d.store.GetByPlatformID(ctx, platformID)
	if err != nil {
		return schemas.Preferences{}, errors.New(msgAccountNotFound)
	}
	acct.ApplyPreferences(patch)
	if err := d.store.UpdatePreferences(ctx, platformID, acct.Preferences); err != nil {
		return schemas.Preferences{}, fmt.Errorf("persist preferences: %w", err)
	}
	return acct.Preferences, nil
}
