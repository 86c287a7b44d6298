package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

func likeRequest(i int) schemas.ActionRequest {
	return schemas.ActionRequest{
		TargetURL: fmt.Sprintf("https://www.facebook.com/some.user/posts/%d", i),
		Kind:      schemas.ActionLike,
	}
}

func TestRunBatch_EmptyRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.d.RunBatch(context.Background(), testPlatformID, nil)
	assert.ErrorIs(t, err, schemas.ErrValidation)
}

func TestRunBatch_OversizeRejected(t *testing.T) {
	f := newFixture(t)
	reqs := make([]schemas.ActionRequest, 11)
	for i := range reqs {
		reqs[i] = likeRequest(i)
	}

	_, err := f.d.RunBatch(context.Background(), testPlatformID, reqs)
	require.ErrorIs(t, err, schemas.ErrValidation)
	f.store.AssertNotCalled(t, "GetByPlatformID", mock.Anything, mock.Anything)
	f.driver.AssertNotCalled(t, "Acquire", mock.Anything)
}

func TestRunBatch_UnauthorizedAccountFailsWholeBatch(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()
	acct.Active = false
	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)

	_, err := f.d.RunBatch(context.Background(), testPlatformID, []schemas.ActionRequest{likeRequest(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, schemas.ErrAuth)
	f.driver.AssertNotCalled(t, "Acquire", mock.Anything)
}

func TestRunBatch_SessionEstablishedOncePerItemIsolation(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()
	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.store.On("Save", mock.Anything, acct).Return(nil)

	reqs := make([]schemas.ActionRequest, 0, 10)
	for i := 1; i <= 10; i++ {
		req := likeRequest(i)
		call := f.executor.On("Like", mock.Anything, f.page, req.TargetURL)
		// Items 3 and 7 fail; the rest of the batch must still run.
		if i == 3 {
			call.Return(schemas.ErrElementNotFound)
		} else if i == 7 {
			call.Return(schemas.ErrNavigation)
		} else {
			call.Return(nil)
		}
		reqs = append(reqs, req)
	}

	result, err := f.d.RunBatch(context.Background(), testPlatformID, reqs)
	require.NoError(t, err)

	assert.Equal(t, schemas.BatchSummary{Total: 10, Successful: 8, Failed: 2}, result.Summary)
	require.Len(t, result.Outcomes, 10)
	for i, out := range result.Outcomes {
		assert.Equal(t, reqs[i].TargetURL, out.TargetURL, "outcomes must keep request order")
	}
	assert.False(t, result.Outcomes[2].Success)
	assert.Equal(t, msgElementMissing, result.Outcomes[2].Message)
	assert.False(t, result.Outcomes[6].Success)
	assert.Equal(t, msgTimeout, result.Outcomes[6].Message)

	assert.Equal(t, 8, acct.Stats.TotalActions)
	assert.Equal(t, 8, acct.Stats.Likes)

	f.verifier.AssertNumberOfCalls(t, "Establish", 1)
	f.driver.AssertNumberOfCalls(t, "Acquire", 1)
	f.store.AssertNumberOfCalls(t, "Save", 1)
}

func TestRunBatch_InvalidItemsFailWithoutAbortingBatch(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()
	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.store.On("Save", mock.Anything, acct).Return(nil)

	good := likeRequest(1)
	f.executor.On("Like", mock.Anything, f.page, good.TargetURL).Return(nil)

	reqs := []schemas.ActionRequest{
		{Kind: schemas.ActionLike},             // missing target
		{TargetURL: good.TargetURL, Kind: ""},  // missing kind
		{TargetURL: good.TargetURL, Kind: "x"}, // invalid kind
		good,
	}

	result, err := f.d.RunBatch(context.Background(), testPlatformID, reqs)
	require.NoError(t, err)

	assert.Equal(t, schemas.BatchSummary{Total: 4, Successful: 1, Failed: 3}, result.Summary)
	assert.Equal(t, "Target URL is required", result.Outcomes[0].Message)
	assert.Equal(t, "Action type is required", result.Outcomes[1].Message)
	assert.Equal(t, "Invalid action type", result.Outcomes[2].Message)
	assert.True(t, result.Outcomes[3].Success)
}

func TestRunBatch_MidBatchExpiryFailsRemainingItems(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()
	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()
	f.store.On("Save", mock.Anything, acct).Return(nil)

	first := likeRequest(1)
	f.executor.On("Like", mock.Anything, f.page, first.TargetURL).
		Run(func(mock.Arguments) {
			// Session dies while the first item is executing.
			acct.CredentialExpiry = time.Now().Add(-time.Second)
		}).
		Return(nil)

	result, err := f.d.RunBatch(context.Background(), testPlatformID, []schemas.ActionRequest{
		first, likeRequest(2), likeRequest(3),
	})
	require.NoError(t, err)

	assert.Equal(t, schemas.BatchSummary{Total: 3, Successful: 1, Failed: 2}, result.Summary)
	assert.Equal(t, msgNotAuthorized, result.Outcomes[1].Message)
	assert.Equal(t, msgNotAuthorized, result.Outcomes[2].Message)
	f.executor.AssertNumberOfCalls(t, "Like", 1)
}

func TestRunBatch_NoSavesWhenNothingSucceeded(t *testing.T) {
	f := newFixture(t)
	acct := activeAccount()
	f.store.On("GetByPlatformID", mock.Anything, testPlatformID).Return(acct, nil)
	f.arm()

	req := likeRequest(1)
	f.executor.On("Like", mock.Anything, f.page, req.TargetURL).Return(schemas.ErrElementNotFound)

	result, err := f.d.RunBatch(context.Background(), testPlatformID, []schemas.ActionRequest{req})
	require.NoError(t, err)
	assert.Equal(t, schemas.BatchSummary{Total: 1, Successful: 0, Failed: 1}, result.Summary)
	f.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
