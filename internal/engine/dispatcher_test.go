package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/humanoid"
	"github.com/xkilldash9x/socialine-cli/internal/mocks"
	"github.com/xkilldash9x/socialine-cli/internal/platform"
)

const (
	testPlatformID = "100012345678"
	testPostURL    = "https://www.facebook.com/some.user/posts/123"
)

type dispatcherFixture struct {
	store    *mocks.MockAccountStore
	vault    *mocks.MockCredentialVault
	driver   *mocks.MockDriver
	verifier *mocks.MockSessionVerifier
	executor *mocks.MockActionExecutor
	page     *mocks.MockPage
	d        *Dispatcher
}

func newFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	f := &dispatcherFixture{
		store:    new(mocks.MockAccountStore),
		vault:    new(mocks.MockCredentialVault),
		driver:   new(mocks.MockDriver),
		verifier: new(mocks.MockSessionVerifier),
		executor: new(mocks.MockActionExecutor),
		page:     new(mocks.MockPage),
	}
	urls := platform.NewURLs(config.PlatformConfig{
		HomeURL:      "https://www.facebook.com/",
		ProfileURL:   "https://www.facebook.com/me",
		Domains:      []string{"facebook.com", "www.facebook.com", "m.facebook.com"},
		LoginMarkers: []string{"login", "checkpoint"},
	})
	pacer := humanoid.NewPacer(humanoid.Config{Enabled: false}, zaptest.NewLogger(t))
	f.d = NewDispatcher(f.store, f.vault, f.driver, f.verifier, f.executor, urls, pacer,
		config.EngineConfig{MaxBatchSize: 10, SessionTTL: 24 * time.Hour},
		zaptest.NewLogger(t))
	return f
}

func activeAccount() *schemas.Account {
	return &schemas.Account{
		PlatformID:       testPlatformID,
		MaskedID:         schemas.MaskPlatformID(testPlatformID),
		CredentialBlob:   "sealed-blob",
		CredentialExpiry: time.Now().Add(time.Hour),
		Active:           true,
		Preferences:      schemas.Preferences{AutoCleanup: true, ActionDelayMs: 0, MaxActionsPerDay: 100},
	}
}

// arm wires the happy-path lease and session establishment.
func (f *dispatcherFixture) arm() {
	cookies := []schemas.Cookie{{Name: "c_user", Value: testPlatformID}}
	f.driver.On("Acquire", mock.Anything).Return(f.page, func() {}, nil)
	f.vault.On("Decode", "sealed-blob").Return(cookies, nil)
	f.verifier.On("Establish", mock.Anything, f.page, cookies).Return(nil)
}

func TestDispatch_Like(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.executor.On("Like", mock.Anything, f.page, testPostURL).Return(nil)
	f.store.On("Save", mock.Anything, acct).Return(nil)

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLike,
	})

	assert.True(t, out.Success)
	assert.Equal(t, "like action performed successfully", out.Message)
	assert.Equal(t, 1, acct.Stats.TotalActions)
	assert.Equal(t, 1, acct.Stats.Likes)
	f.store.AssertExpectations(t)
}

func TestDispatch_ValidationNeverTouchesBrowser(t *testing.T) {
	tests := []struct {
		name string
		req  schemas.ActionRequest
		msg  string
	}{
		{"missing target", schemas.ActionRequest{Kind: schemas.ActionLike}, "Target URL is required"},
		{"missing kind", schemas.ActionRequest{TargetURL: testPostURL}, "Action type is required"},
		{"invalid kind", schemas.ActionRequest{TargetURL: testPostURL, Kind: "poke"}, "Invalid action type"},
		{"foreign URL", schemas.ActionRequest{TargetURL: "https://example.com/p/1", Kind: schemas.ActionLike}, "Invalid platform URL"},
		{"comment without text", schemas.ActionRequest{TargetURL: testPostURL, Kind: schemas.ActionComment}, "Comment text is required for comment action"},
		{"comment with blank text", schemas.ActionRequest{TargetURL: testPostURL, Kind: schemas.ActionComment, CommentText: "   "}, "Comment text is required for comment action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			out := f.d.Dispatch(context.Background(), testPlatformID, tt.req)

			assert.False(t, out.Success)
			assert.Equal(t, tt.msg, out.Message)
			f.driver.AssertNotCalled(t, "Acquire", mock.Anything)
			f.store.AssertNotCalled(t, "GetByPlatformID", mock.Anything, mock.Anything)
		})
	}
}

func TestDispatch_ExpiredAccountRejected(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()
	acct.CredentialExpiry = time.Now().Add(-time.Minute)

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLike,
	})

	assert.False(t, out.Success)
	assert.Equal(t, msgNotAuthorized, out.Message)
	f.driver.AssertNotCalled(t, "Acquire", mock.Anything)
}

func TestDispatch_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).
		Return(nil, errors.New("no rows"))

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLike,
	})

	assert.False(t, out.Success)
	assert.Equal(t, msgAccountNotFound, out.Message)
}

func TestDispatch_DecodeFailureReadsAsExpiredSession(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.driver.On("Acquire", mock.Anything).Return(f.page, func() {}, nil)
	f.vault.On("Decode", "sealed-blob").Return(nil, schemas.ErrDecode)

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLike,
	})

	assert.False(t, out.Success)
	assert.Equal(t, msgInvalidSession, out.Message)
	f.verifier.AssertNotCalled(t, "Establish", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_AuthFailureMessage(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()
	cookies := []schemas.Cookie{{Name: "c_user", Value: testPlatformID}}

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.driver.On("Acquire", mock.Anything).Return(f.page, func() {}, nil)
	f.vault.On("Decode", "sealed-blob").Return(cookies, nil)
	f.verifier.On("Establish", mock.Anything, f.page, cookies).Return(schemas.ErrAuth)

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLike,
	})

	assert.False(t, out.Success)
	assert.Equal(t, msgSessionExpired, out.Message)
	f.executor.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_ElementNotFoundMessage(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.executor.On("Like", mock.Anything, f.page, testPostURL).Return(schemas.ErrElementNotFound)

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLike,
	})

	assert.False(t, out.Success)
	assert.Equal(t, msgElementMissing, out.Message)
	assert.Zero(t, acct.Stats.TotalActions, "failed actions must not bump counters")
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDispatch_ReactionRoutesToReact(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.executor.On("React", mock.Anything, f.page, testPostURL, schemas.ActionLove).Return(false, nil)
	f.store.On("Save", mock.Anything, acct).Return(nil)

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLove,
	})

	require.True(t, out.Success)
	assert.Equal(t, 1, acct.Stats.Reactions)
	assert.Zero(t, acct.Stats.Likes)
	f.executor.AssertNotCalled(t, "Like", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_CommentCarriesText(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.executor.On("Comment", mock.Anything, f.page, testPostURL, "nice post").Return(nil)
	f.store.On("Save", mock.Anything, acct).Return(nil)

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL:   testPostURL,
		Kind:        schemas.ActionComment,
		CommentText: "nice post",
	})

	require.True(t, out.Success)
	assert.Equal(t, "nice post", out.Comment)
	assert.Equal(t, 1, acct.Stats.Comments)
}

func TestDispatch_SaveFailureDoesNotFailAction(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()

	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.executor.On("Like", mock.Anything, f.page, testPostURL).Return(nil)
	f.store.On("Save", mock.Anything, acct).Return(errors.New("db down"))

	out := f.d.Dispatch(context.Background(), testPlatformID, schemas.ActionRequest{
		TargetURL: testPostURL,
		Kind:      schemas.ActionLike,
	})

	assert.True(t, out.Success, "the platform action happened; a ledger failure must not mask it")
}

func TestClassify(t *testing.T) {
	assert.Equal(t, msgSessionExpired, classify(schemas.ErrAuth))
	assert.Equal(t, msgSessionExpired, classify(schemas.ErrDecode))
	assert.Equal(t, msgElementMissing, classify(schemas.ErrElementNotFound))
	assert.Equal(t, msgTimeout, classify(schemas.ErrNavigation))
	assert.Equal(t, msgTimeout, classify(context.DeadlineExceeded))
	assert.Equal(t, msgGenericFailure, classify(errors.New("anything else")))
}
