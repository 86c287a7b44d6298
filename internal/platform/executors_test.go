package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/mocks"
)

const postURL = "https://www.facebook.com/some.user/posts/123"

func testExecutor(t *testing.T) *Executor {
	t.Helper()
	return NewExecutor(testURLs(t), DefaultSelectors(), zaptest.NewLogger(t))
}

func TestLike(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	page.On("Navigate", mock.Anything, postURL).Return(nil)
	page.On("LocateFirst", mock.Anything, DefaultSelectors().Like).
		Return(`[aria-label="Like"]`, true)
	page.On("Click", mock.Anything, `[aria-label="Like"]`).Return(nil)

	require.NoError(t, e.Like(context.Background(), page, postURL))
	page.AssertExpectations(t)
}

func TestLike_ControlMissing(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	page.On("Navigate", mock.Anything, postURL).Return(nil)
	page.On("LocateFirst", mock.Anything, mock.Anything).Return("", false)

	err := e.Like(context.Background(), page, postURL)
	assert.ErrorIs(t, err, schemas.ErrElementNotFound)
	page.AssertNotCalled(t, "Click", mock.Anything, mock.Anything)
}

func TestReact_PaletteHit(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	page.On("Navigate", mock.Anything, postURL).Return(nil)
	page.On("LocateFirst", mock.Anything, DefaultSelectors().Like).
		Return(`[aria-label="Like"]`, true)
	page.On("Hover", mock.Anything, `[aria-label="Like"]`).Return(nil)
	page.On("LocateFirst", mock.Anything, []string{`[aria-label="Love"]`}).
		Return(`[aria-label="Love"]`, true)
	page.On("Click", mock.Anything, `[aria-label="Love"]`).Return(nil)

	downgraded, err := e.React(context.Background(), page, postURL, schemas.ActionLove)
	require.NoError(t, err)
	assert.False(t, downgraded)
	page.AssertExpectations(t)
}

func TestReact_DowngradesToLike(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	page.On("Navigate", mock.Anything, postURL).Return(nil)
	page.On("LocateFirst", mock.Anything, DefaultSelectors().Like).
		Return(`[aria-label="Like"]`, true)
	page.On("Hover", mock.Anything, `[aria-label="Like"]`).Return(nil)
	page.On("LocateFirst", mock.Anything, []string{`[aria-label="Wow"]`}).Return("", false)
	page.On("Click", mock.Anything, `[aria-label="Like"]`).Return(nil)

	downgraded, err := e.React(context.Background(), page, postURL, schemas.ActionWow)
	require.NoError(t, err)
	assert.True(t, downgraded, "missing palette entry must downgrade to a plain like")
	page.AssertExpectations(t)
}

func TestReact_RejectsNonReactionKind(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	_, err := e.React(context.Background(), page, postURL, schemas.ActionFollow)
	assert.ErrorIs(t, err, schemas.ErrValidation)
	page.AssertNotCalled(t, "Navigate", mock.Anything, mock.Anything)
}

func TestComment(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)
	composer := `[aria-label="Write a comment"]`

	page.On("Navigate", mock.Anything, postURL).Return(nil)
	page.On("LocateFirst", mock.Anything, DefaultSelectors().CommentInput).Return(composer, true)
	page.On("TypeInto", mock.Anything, composer, "nice post").Return(nil)
	page.On("PressKey", mock.Anything, composer, "Enter").Return(nil)

	require.NoError(t, e.Comment(context.Background(), page, postURL, "nice post"))
	page.AssertExpectations(t)
}

func TestComment_ComposerMissing(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	page.On("Navigate", mock.Anything, postURL).Return(nil)
	page.On("LocateFirst", mock.Anything, mock.Anything).Return("", false)

	err := e.Comment(context.Background(), page, postURL, "nice post")
	assert.ErrorIs(t, err, schemas.ErrElementNotFound)
	page.AssertNotCalled(t, "TypeInto", mock.Anything, mock.Anything, mock.Anything)
}

func TestFollow_ResolvesProfileFromTargetURL(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	page.On("Navigate", mock.Anything, "https://www.facebook.com/some.user").Return(nil)
	page.On("LocateFirst", mock.Anything, DefaultSelectors().Follow).
		Return(`[data-testid="follow-button"]`, true)
	page.On("Click", mock.Anything, `[data-testid="follow-button"]`).Return(nil)

	require.NoError(t, e.Follow(context.Background(), page, postURL))
	page.AssertExpectations(t)
}

func TestFollow_BadTargetURL(t *testing.T) {
	e := testExecutor(t)
	page := new(mocks.MockPage)

	err := e.Follow(context.Background(), page, "https://www.facebook.com/")
	assert.ErrorIs(t, err, schemas.ErrValidation)
	page.AssertNotCalled(t, "Navigate", mock.Anything, mock.Anything)
}
