package activities

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"techmart-api/pkg/services"
)

// InventoryActivities exposes the reorder sweep steps to Temporal workers.
type InventoryActivities struct {
	Sweep *services.SweepService
}

// ListReorderCandidates returns the IDs of products at or below their reorder threshold
func (a *InventoryActivities) ListReorderCandidates(ctx context.Context) ([]int64, error) {
	logger := activity.GetLogger(ctx)
	ids, err := a.Sweep.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Reorder candidates listed", "count", len(ids))
	return ids, nil
}

// GenerateReorderSuggestion runs the pipeline for one product and persists the result
func (a *InventoryActivities) GenerateReorderSuggestion(ctx context.Context, productID int64) (*services.SweepOutcome, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Generating reorder suggestion", "productID", productID)

	outcome, err := a.Sweep.ProcessProduct(ctx, productID)
	if err != nil {
		return nil, classify(err)
	}
	if outcome.SkippedPending {
		logger.Info("Pending suggestion exists, skipped", "productID", productID)
	} else {
		logger.Info("Reorder suggestion created", "productID", productID, "suggestionID", outcome.Suggestion.ID)
	}
	return outcome, nil
}

// CheckStockLevels raises low stock alerts and returns how many were created
func (a *InventoryActivities) CheckStockLevels(ctx context.Context) (int, error) {
	logger := activity.GetLogger(ctx)
	created, err := a.Sweep.CheckStockLevels(ctx)
	if err != nil {
		return created, err
	}
	logger.Info("Stock levels checked", "alertsCreated", created)
	return created, nil
}

// classify marks caller contract violations and missing products as non-retryable.
// Storage failures stay retryable.
func classify(err error) error {
	switch {
	case services.IsValidationError(err):
		return temporal.NewNonRetryableApplicationError(err.Error(), "ValidationError", err)
	case errors.Is(err, services.ErrProductNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), "ProductNotFound", err)
	}
	return err
}
