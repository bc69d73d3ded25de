package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"techmart-api/pkg/models"
	"techmart-api/pkg/services"
)

// DefaultMaxParallel 同時に実行する GenerateReorderSuggestion の数
const DefaultMaxParallel = 8

// SweepInput configures one sweep run
type SweepInput struct {
	MaxParallel int
}

// ReorderSweepWorkflow lists reorder candidates, generates a suggestion for each
// of them in bounded parallel batches and finally checks stock levels for alerts.
// A failing product is recorded in the report and does not fail the workflow.
func ReorderSweepWorkflow(ctx workflow.Context, input SweepInput) (*models.SweepReport, error) {
	logger := workflow.GetLogger(ctx)

	maxParallel := input.MaxParallel
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}

	retryPolicy := &temporal.RetryPolicy{
		InitialInterval:        1 * time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        30 * time.Second,
		MaximumAttempts:        3,
		NonRetryableErrorTypes: []string{"ValidationError", "ProductNotFound"},
	}
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 1 * time.Minute,
		RetryPolicy:         retryPolicy,
	})

	report := &models.SweepReport{
		RunID:     workflow.GetInfo(ctx).WorkflowExecution.RunID,
		StartedAt: workflow.Now(ctx),
		Failures:  make(map[int64]string),
	}

	var ids []int64
	if err := workflow.ExecuteActivity(ctx, "ListReorderCandidates").Get(ctx, &ids); err != nil {
		return nil, err
	}
	report.ProductsChecked = len(ids)
	logger.Info("Reorder sweep started", "candidates", len(ids))

	for start := 0; start < len(ids); start += maxParallel {
		end := start + maxParallel
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		futures := make([]workflow.Future, len(batch))
		for i, id := range batch {
			futures[i] = workflow.ExecuteActivity(ctx, "GenerateReorderSuggestion", id)
		}
		for i, f := range futures {
			var outcome services.SweepOutcome
			if err := f.Get(ctx, &outcome); err != nil {
				report.Failures[batch[i]] = err.Error()
				logger.Warn("Reorder suggestion failed", "productID", batch[i], "error", err)
				continue
			}
			if outcome.SkippedPending {
				report.SkippedPending++
			} else {
				report.SuggestionsCreated++
			}
		}
	}

	var alerts int
	if err := workflow.ExecuteActivity(ctx, "CheckStockLevels").Get(ctx, &alerts); err != nil {
		logger.Warn("Stock level check failed", "error", err)
	}
	report.AlertsCreated = alerts
	report.FinishedAt = workflow.Now(ctx)

	logger.Info("Reorder sweep completed",
		"created", report.SuggestionsCreated,
		"skipped", report.SkippedPending,
		"failed", len(report.Failures),
		"alerts", report.AlertsCreated)
	return report, nil
}
