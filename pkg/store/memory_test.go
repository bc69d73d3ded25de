package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techmart-api/pkg/models"
	"techmart-api/pkg/services"
	"techmart-api/pkg/store"
)

func recentSales(productID int64, days, qty int) []models.SalesRecord {
	now := time.Now().UTC()
	records := make([]models.SalesRecord, 0, days)
	for i := 1; i <= days; i++ {
		records = append(records, models.SalesRecord{
			Timestamp: now.AddDate(0, 0, -i),
			ProductID: productID,
			Quantity:  qty,
			Status:    models.TransactionStatusCompleted,
		})
	}
	return records
}

func newSweep(m *store.MemoryStore) *services.SweepService {
	inventory := services.NewInventoryService(m, m, m, services.InventoryOptions{})
	suggestions := services.NewSuggestionService(m)
	alerts := services.NewStockAlertService(m, m)
	return services.NewSweepService(inventory, suggestions, alerts, m, 14, 2)
}

func TestSweepSkipsPendingAndRecordsFailures(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()

	m.PutProduct(models.Product{ID: 1, Name: "Mouse", SKU: "M-1", StockQuantity: 5, ReorderThreshold: 20, ReorderQuantity: 10})
	m.PutProduct(models.Product{ID: 2, Name: "Hub", SKU: "H-2", StockQuantity: 3, ReorderThreshold: 10, ReorderQuantity: 10})
	m.PutProduct(models.Product{ID: 3, Name: "Broken", SKU: "B-3", StockQuantity: -1, ReorderThreshold: 10, ReorderQuantity: 10})
	m.PutProduct(models.Product{ID: 4, Name: "Plenty", SKU: "P-4", StockQuantity: 100, ReorderThreshold: 10, ReorderQuantity: 10})
	m.PutSupplier(1, models.SupplierCandidate{SupplierID: 9, Price: decimal.NewFromInt(12), ReliabilityScore: 0.9, AverageDeliveryDays: 4})

	_, err := m.InsertTransactions(ctx, recentSales(1, 30, 2))
	require.NoError(t, err)
	require.NoError(t, m.SaveSuggestion(ctx, &models.ReorderSuggestion{ProductID: 2, SuggestedQuantity: 10, Status: models.SuggestionStatusPending}))

	report, err := newSweep(m).Run(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.ProductsChecked)
	assert.Equal(t, 1, report.SuggestionsCreated)
	assert.Equal(t, 1, report.SkippedPending)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures, int64(3))
	// 在庫-1の商品のみ閾値20%以下
	assert.Equal(t, 1, report.AlertsCreated)

	pending, err := m.ListSuggestions(ctx, models.SuggestionStatusPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	forecasts, err := m.ListForecasts(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, forecasts, 1)
	assert.Equal(t, 14, forecasts[0].HorizonDays)

	// 2回目は提案済みのためスキップ、アラートも重複しない
	again, err := newSweep(m).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.SuggestionsCreated)
	assert.Equal(t, 2, again.SkippedPending)
	assert.Equal(t, 0, again.AlertsCreated)
}

func TestSweepCancelled(t *testing.T) {
	m := store.NewMemoryStore()
	m.PutProduct(models.Product{ID: 1, Name: "Mouse", StockQuantity: 1, ReorderThreshold: 20, ReorderQuantity: 10})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSweep(m).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreSuggestionTransitions(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()

	sg := &models.ReorderSuggestion{ProductID: 1, SuggestedQuantity: 5, Status: models.SuggestionStatusPending}
	require.NoError(t, m.SaveSuggestion(ctx, sg))
	require.NotZero(t, sg.ID)

	has, err := m.HasPendingSuggestion(ctx, 1)
	require.NoError(t, err)
	assert.True(t, has)

	updated, err := m.UpdateSuggestionStatus(ctx, sg.ID, models.SuggestionStatusPending, models.SuggestionStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionStatusApproved, updated.Status)

	_, err = m.UpdateSuggestionStatus(ctx, sg.ID, models.SuggestionStatusPending, models.SuggestionStatusRejected)
	assert.ErrorIs(t, err, services.ErrSuggestionNotPending)

	_, err = m.UpdateSuggestionStatus(ctx, 999, models.SuggestionStatusPending, models.SuggestionStatusApproved)
	assert.ErrorIs(t, err, services.ErrSuggestionNotFound)

	has, err = m.HasPendingSuggestion(ctx, 1)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestMemoryStoreCompletedQuantities(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	_, err := m.InsertTransactions(ctx, []models.SalesRecord{
		{Timestamp: from, ProductID: 1, Quantity: 2, Status: models.TransactionStatusCompleted},
		{Timestamp: from.AddDate(0, 0, 1), ProductID: 1, Quantity: 9, Status: models.TransactionStatusRefunded},
		{Timestamp: to, ProductID: 1, Quantity: 4, Status: models.TransactionStatusCompleted},
		{Timestamp: from.AddDate(0, 0, 2), ProductID: 2, Quantity: 1, Status: models.TransactionStatusCompleted},
	})
	require.NoError(t, err)

	rows, err := m.CompletedQuantities(ctx, 1, from, to)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Quantity)
}

func TestSeedDemoData(t *testing.T) {
	m := store.NewMemoryStore()
	store.SeedDemoData(m, 90)

	candidates, err := m.ListReorderCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(1), candidates[0].ID)

	_, err = m.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}
