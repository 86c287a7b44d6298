package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
)

// RunBatch executes up to MaxBatchSize actions for one account,
// sequentially and in request order. The session is established once for
// the whole batch; each item is validated and executed in isolation, so
// one failure never aborts the remainder. Between items the runner pauses
// on the account's configured delay.
//
// An error return means the batch never started (bad batch shape, account
// not authorized, or the session could not be established). Per-item
// failures are reported in the outcomes, not as an error.
func (d *Dispatcher) RunBatch(ctx context.Context, platformID string, reqs []schemas.ActionRequest) (schemas.BatchResult, error) {
	if len(reqs) == 0 {
		return schemas.BatchResult{}, fmt.Errorf("%w: actions list is empty", schemas.ErrValidation)
	}
	if len(reqs) > d.cfg.MaxBatchSize {
		return schemas.BatchResult{}, fmt.Errorf("%w: maximum %d actions allowed per batch request", schemas.ErrValidation, d.cfg.MaxBatchSize)
	}

	acct, msg, err := d.authorize(ctx, platformID)
	if err != nil {
		return schemas.BatchResult{}, fmt.Errorf("%s: %w", msg, err)
	}

	page, release, err := d.driver.Acquire(ctx)
	if err != nil {
		return schemas.BatchResult{}, fmt.Errorf("acquire browser page: %w", err)
	}
	defer release()

	if msg, err := d.openSession(ctx, page, acct); err != nil {
		return schemas.BatchResult{}, fmt.Errorf("%s: %w", msg, err)
	}

	d.logger.Info("Batch started",
		zap.String("masked_id", acct.MaskedID),
		zap.Int("actions", len(reqs)))

	result := schemas.BatchResult{
		Summary:  schemas.BatchSummary{Total: len(reqs)},
		Outcomes: make([]schemas.ActionOutcome, 0, len(reqs)),
	}
	performed := 0

	for i, req := range reqs {
		outcome := d.runBatchItem(ctx, page, acct, req)
		if outcome.Success {
			result.Summary.Successful++
			performed++
		} else {
			result.Summary.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if i < len(reqs)-1 {
			delay := time.Duration(acct.Preferences.ActionDelayMs) * time.Millisecond
			if err := d.pacer.Hesitate(ctx, delay); err != nil {
				// Batch canceled mid-flight: mark the rest as not run.
				for _, rest := range reqs[i+1:] {
					result.Summary.Failed++
					result.Outcomes = append(result.Outcomes, newOutcome(rest).fail(msgTimeout))
				}
				break
			}
		}
	}

	if performed > 0 {
		if err := d.store.Save(ctx, acct); err != nil {
			d.logger.Error("Failed to persist batch stats",
				zap.String("masked_id", acct.MaskedID), zap.Error(err))
		}
	}

	d.logger.Info("Batch finished",
		zap.String("masked_id", acct.MaskedID),
		zap.Int("successful", result.Summary.Successful),
		zap.Int("failed", result.Summary.Failed))
	return result, nil
}

// runBatchItem executes one batch entry against the already-established
// session. All failure modes collapse into a failed outcome.
func (d *Dispatcher) runBatchItem(ctx context.Context, page schemas.Page, acct *schemas.Account, req schemas.ActionRequest) schemas.ActionOutcome {
	outcome := newOutcome(req)

	if msg, ok := d.validate(req); !ok {
		return outcome.fail(msg)
	}

	// The session can expire while a long batch is running.
	if !acct.CanPerformAction() {
		return outcome.fail(msgNotAuthorized)
	}

	if err := d.execute(ctx, page, req); err != nil {
		d.logger.Warn("Batch item failed",
			zap.String("masked_id", acct.MaskedID),
			zap.String("action_type", string(req.Kind)),
			zap.String("target_url", req.TargetURL),
			zap.Error(err))
		return outcome.fail(classify(err))
	}

	acct.UpdateStats(req.Kind)
	return outcome.succeed(fmt.Sprintf("%s action performed successfully", req.Kind))
}
