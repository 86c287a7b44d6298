// Package mocks provides shared testify mocks for the component contracts
// in api/schemas, used across package tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

// MockPage is a testify mock for schemas.Page.
type MockPage struct {
	mock.Mock
}

var _ schemas.Page = (*MockPage)(nil)

func (m *MockPage) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockPage) LocateFirst(ctx context.Context, candidates []string) (string, bool) {
	args := m.Called(ctx, candidates)
	return args.String(0), args.Bool(1)
}

func (m *MockPage) Click(ctx context.Context, selector string) error {
	return m.Called(ctx, selector).Error(0)
}

func (m *MockPage) Hover(ctx context.Context, selector string) error {
	return m.Called(ctx, selector).Error(0)
}

func (m *MockPage) TypeInto(ctx context.Context, selector, text string) error {
	return m.Called(ctx, selector, text).Error(0)
}

func (m *MockPage) PressKey(ctx context.Context, selector, key string) error {
	return m.Called(ctx, selector, key).Error(0)
}

func (m *MockPage) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPage) Evaluate(ctx context.Context, script string, out any) error {
	return m.Called(ctx, script, out).Error(0)
}

func (m *MockPage) SetCookies(ctx context.Context, cookies []schemas.Cookie) error {
	return m.Called(ctx, cookies).Error(0)
}

func (m *MockPage) OuterHTML(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockDriver is a testify mock for schemas.Driver.
type MockDriver struct {
	mock.Mock
}

var _ schemas.Driver = (*MockDriver)(nil)

func (m *MockDriver) Acquire(ctx context.Context) (schemas.Page, func(), error) {
	args := m.Called(ctx)
	var page schemas.Page
	if p := args.Get(0); p != nil {
		page = p.(schemas.Page)
	}
	var release func()
	if r := args.Get(1); r != nil {
		release = r.(func())
	}
	return page, release, args.Error(2)
}

func (m *MockDriver) Shutdown(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockSessionVerifier is a testify mock for schemas.SessionVerifier.
type MockSessionVerifier struct {
	mock.Mock
}

var _ schemas.SessionVerifier = (*MockSessionVerifier)(nil)

func (m *MockSessionVerifier) Establish(ctx context.Context, page schemas.Page, cookies []schemas.Cookie) error {
	return m.Called(ctx, page, cookies).Error(0)
}

// MockActionExecutor is a testify mock for schemas.ActionExecutor.
type MockActionExecutor struct {
	mock.Mock
}

var _ schemas.ActionExecutor = (*MockActionExecutor)(nil)

func (m *MockActionExecutor) Like(ctx context.Context, page schemas.Page, targetURL string) error {
	return m.Called(ctx, page, targetURL).Error(0)
}

func (m *MockActionExecutor) React(ctx context.Context, page schemas.Page, targetURL string, kind schemas.ActionKind) (bool, error) {
	args := m.Called(ctx, page, targetURL, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockActionExecutor) Comment(ctx context.Context, page schemas.Page, targetURL, text string) error {
	return m.Called(ctx, page, targetURL, text).Error(0)
}

func (m *MockActionExecutor) Follow(ctx context.Context, page schemas.Page, targetURL string) error {
	return m.Called(ctx, page, targetURL).Error(0)
}

// MockCredentialVault is a testify mock for schemas.CredentialVault.
type MockCredentialVault struct {
	mock.Mock
}

var _ schemas.CredentialVault = (*MockCredentialVault)(nil)

func (m *MockCredentialVault) Encode(cookies []schemas.Cookie) (string, error) {
	args := m.Called(cookies)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialVault) Decode(blob string) ([]schemas.Cookie, error) {
	args := m.Called(blob)
	var cookies []schemas.Cookie
	if c := args.Get(0); c != nil {
		cookies = c.([]schemas.Cookie)
	}
	return cookies, args.Error(1)
}

// MockAccountStore is a testify mock for schemas.AccountStore.
type MockAccountStore struct {
	mock.Mock
}

var _ schemas.AccountStore = (*MockAccountStore)(nil)

func (m *MockAccountStore) Create(ctx context.Context, acct *schemas.Account) error {
	return m.Called(ctx, acct).Error(0)
}

func (m *MockAccountStore) GetByPlatformID(ctx context.Context, platformID string) (*schemas.Account, error) {
	args := m.Called(ctx, platformID)
	var acct *schemas.Account
	if a := args.Get(0); a != nil {
		acct = a.(*schemas.Account)
	}
	return acct, args.Error(1)
}

func (m *MockAccountStore) Save(ctx context.Context, acct *schemas.Account) error {
	return m.Called(ctx, acct).Error(0)
}

func (m *MockAccountStore) UpdatePreferences(ctx context.Context, platformID string, prefs schemas.Preferences) error {
	return m.Called(ctx, platformID, prefs).Error(0)
}

func (m *MockAccountStore) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountStore) ListActive(ctx context.Context) ([]*schemas.Account, error) {
	args := m.Called(ctx)
	var accts []*schemas.Account
	if a := args.Get(0); a != nil {
		accts = a.([]*schemas.Account)
	}
	return accts, args.Error(1)
}

func (m *MockAccountStore) Delete(ctx context.Context, platformID string) error {
	return m.Called(ctx, platformID).Error(0)
}
