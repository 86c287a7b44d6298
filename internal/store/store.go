// Package store is the PostgreSQL implementation of the account ledger.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

// ErrAccountNotFound is returned when no ledger row matches the platform id.
var ErrAccountNotFound = errors.New("account not found")

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store provides a PostgreSQL implementation of schemas.AccountStore.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

var _ schemas.AccountStore = (*Store)(nil)

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS accounts (
    platform_id         TEXT PRIMARY KEY,
    masked_id           TEXT NOT NULL,
    display_name        TEXT NOT NULL DEFAULT '',
    profile_picture     TEXT NOT NULL DEFAULT '',
    credential_blob     TEXT,
    credential_expiry   TIMESTAMPTZ,
    active              BOOLEAN NOT NULL DEFAULT FALSE,
    last_login          TIMESTAMPTZ,
    last_action         TIMESTAMPTZ,
    total_actions       INTEGER NOT NULL DEFAULT 0,
    likes               INTEGER NOT NULL DEFAULT 0,
    comments            INTEGER NOT NULL DEFAULT 0,
    follows             INTEGER NOT NULL DEFAULT 0,
    reactions           INTEGER NOT NULL DEFAULT 0,
    auto_cleanup        BOOLEAN NOT NULL DEFAULT TRUE,
    action_delay_ms     INTEGER NOT NULL DEFAULT 5000,
    max_actions_per_day INTEGER NOT NULL DEFAULT 100,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_accounts_credential_expiry ON accounts (credential_expiry) WHERE active;
`

// EnsureSchema creates the ledger table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const accountColumns = `platform_id, masked_id, display_name, profile_picture,
	COALESCE(credential_blob, ''), COALESCE(credential_expiry, 'epoch'::timestamptz),
	active, COALESCE(last_login, 'epoch'::timestamptz), COALESCE(last_action, 'epoch'::timestamptz),
	total_actions, likes, comments, follows, reactions,
	auto_cleanup, action_delay_ms, max_actions_per_day, created_at, updated_at`

func scanAccount(row pgx.Row) (*schemas.Account, error) {
	var a schemas.Account
	err := row.Scan(
		&a.PlatformID, &a.MaskedID, &a.DisplayName, &a.ProfilePicture,
		&a.CredentialBlob, &a.CredentialExpiry,
		&a.Active, &a.LastLogin, &a.LastAction,
		&a.Stats.TotalActions, &a.Stats.Likes, &a.Stats.Comments,
		&a.Stats.Follows, &a.Stats.Reactions,
		&a.Preferences.AutoCleanup, &a.Preferences.ActionDelayMs, &a.Preferences.MaxActionsPerDay,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account row.
func (s *Store) Create(ctx context.Context, acct *schemas.Account) error {
	query := `
		INSERT INTO accounts (
			platform_id, masked_id, display_name, profile_picture,
			credential_blob, credential_expiry, active, last_login, last_action,
			total_actions, likes, comments, follows, reactions,
			auto_cleanup, action_delay_ms, max_actions_per_day, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,now())`

	_, err := s.pool.Exec(ctx, query,
		acct.PlatformID, acct.MaskedID, acct.DisplayName, acct.ProfilePicture,
		acct.CredentialBlob, acct.CredentialExpiry, acct.Active, acct.LastLogin, acct.LastAction,
		acct.Stats.TotalActions, acct.Stats.Likes, acct.Stats.Comments,
		acct.Stats.Follows, acct.Stats.Reactions,
		acct.Preferences.AutoCleanup, acct.Preferences.ActionDelayMs, acct.Preferences.MaxActionsPerDay,
		acct.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	s.log.Debug("Account created", zap.String("masked_id", acct.MaskedID))
	return nil
}

// GetByPlatformID loads one account.
func (s *Store) GetByPlatformID(ctx context.Context, platformID string) (*schemas.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE platform_id = $1`

	acct, err := scanAccount(s.pool.QueryRow(ctx, query, platformID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	return acct, nil
}

// Save writes the mutable fields of an existing account back to the ledger.
func (s *Store) Save(ctx context.Context, acct *schemas.Account) error {
	query := `
		UPDATE accounts SET
			display_name = $2, profile_picture = $3,
			credential_blob = $4, credential_expiry = $5, active = $6,
			last_login = $7, last_action = $8,
			total_actions = $9, likes = $10, comments = $11, follows = $12, reactions = $13,
			auto_cleanup = $14, action_delay_ms = $15, max_actions_per_day = $16,
			updated_at = now()
		WHERE platform_id = $1`

	tag, err := s.pool.Exec(ctx, query,
		acct.PlatformID, acct.DisplayName, acct.ProfilePicture,
		acct.CredentialBlob, acct.CredentialExpiry, acct.Active,
		acct.LastLogin, acct.LastAction,
		acct.Stats.TotalActions, acct.Stats.Likes, acct.Stats.Comments,
		acct.Stats.Follows, acct.Stats.Reactions,
		acct.Preferences.AutoCleanup, acct.Preferences.ActionDelayMs, acct.Preferences.MaxActionsPerDay,
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// UpdatePreferences persists only the preference columns.
func (s *Store) UpdatePreferences(ctx context.Context, platformID string, prefs schemas.Preferences) error {
	query := `
		UPDATE accounts SET
			auto_cleanup = $2, action_delay_ms = $3, max_actions_per_day = $4,
			updated_at = now()
		WHERE platform_id = $1`

	tag, err := s.pool.Exec(ctx, query,
		platformID, prefs.AutoCleanup, prefs.ActionDelayMs, prefs.MaxActionsPerDay)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// CleanupExpiredSessions deactivates every account whose credential expiry
// has passed and scrubs its credential blob. Returns the number of rows
// swept.
func (s *Store) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	query := `
		UPDATE accounts SET
			active = FALSE, credential_blob = NULL, updated_at = now()
		WHERE active AND credential_expiry < now()`

	tag, err := s.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}
	swept := tag.RowsAffected()
	if swept > 0 {
		s.log.Info("Swept expired sessions", zap.Int64("count", swept))
	}
	return swept, nil
}

// ListActive returns all active accounts, most recently used first.
func (s *Store) ListActive(ctx context.Context) ([]*schemas.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE active ORDER BY last_login DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accts []*schemas.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accts = append(accts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accts, nil
}

// Delete removes the account row entirely.
func (s *Store) Delete(ctx context.Context, platformID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE platform_id = $1`, platformID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	s.log.Debug("Account deleted", zap.String("masked_id", schemas.MaskPlatformID(platformID)))
	return nil
}
