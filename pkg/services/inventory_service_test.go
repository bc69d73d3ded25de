package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"techmart-api/pkg/models"
)

var pipelineNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func dailySales(today time.Time, days, units int) []models.TransactionRow {
	rows := make([]models.TransactionRow, 0, days)
	start := truncateToDay(today).AddDate(0, 0, -days)
	for i := 0; i < days; i++ {
		rows = append(rows, models.TransactionRow{Date: start.AddDate(0, 0, i).Add(11 * time.Hour), Quantity: units})
	}
	return rows
}

func newTestInventory(reader *mockTransactionReader, products *mockProductReader, suppliers *mockSupplierDirectory) *InventoryService {
	svc := NewInventoryService(reader, products, suppliers, InventoryOptions{})
	svc.now = func() time.Time { return pipelineNow }
	svc.history.now = func() time.Time { return pipelineNow }
	return svc
}

func testProduct() *models.Product {
	return &models.Product{
		ID:               42,
		Name:             "Wireless Mouse",
		SKU:              "WM-042",
		StockQuantity:    18,
		ReorderThreshold: 40,
		ReorderQuantity:  50,
	}
}

func TestGenerateSuggestionEndToEnd(t *testing.T) {
	reader := new(mockTransactionReader)
	products := new(mockProductReader)
	suppliers := new(mockSupplierDirectory)

	products.On("GetProduct", mock.Anything, int64(42)).Return(testProduct(), nil)
	reader.On("CompletedQuantities", mock.Anything, int64(42), mock.Anything, mock.Anything).
		Return(dailySales(pipelineNow, 90, 8), nil)
	suppliers.On("SupplierCandidates", mock.Anything, int64(42)).Return([]models.SupplierCandidate{
		{SupplierID: 1, Price: decimal.NewFromInt(40), ReliabilityScore: 0.92, AverageDeliveryDays: 5},
		{SupplierID: 2, Price: decimal.NewFromInt(35), ReliabilityScore: 0.95, AverageDeliveryDays: 3},
	}, nil)

	svc := newTestInventory(reader, products, suppliers)
	result, err := svc.RunPipeline(context.Background(), 42, 14)
	require.NoError(t, err)

	assert.Equal(t, 112, result.Forecast.PredictedDemand)
	assert.Equal(t, 1.0, result.Forecast.ConfidenceScore)
	require.Len(t, result.Suppliers, 2)

	s := result.Suggestion
	require.NotNil(t, s.SuggestedSupplierID)
	assert.Equal(t, int64(2), *s.SuggestedSupplierID)
	// 8/日 × 3日 + 24 = 48 → 最小発注数量50
	assert.Equal(t, 50, s.SuggestedQuantity)
	assert.InDelta(t, 0.839, s.UrgencyScore, 0.001)
	require.NotNil(t, s.EstimatedStockoutDate)
	assert.Equal(t, day(2024, 6, 3), *s.EstimatedStockoutDate)
	assert.Equal(t, models.SuggestionStatusPending, s.Status)

	suggestion, err := svc.GenerateSuggestion(context.Background(), 42, 14)
	require.NoError(t, err)
	assert.Equal(t, s.SuggestedQuantity, suggestion.SuggestedQuantity)
}

func TestGenerateSuggestionWithoutSuppliers(t *testing.T) {
	reader := new(mockTransactionReader)
	products := new(mockProductReader)
	suppliers := new(mockSupplierDirectory)

	products.On("GetProduct", mock.Anything, int64(42)).Return(testProduct(), nil)
	reader.On("CompletedQuantities", mock.Anything, int64(42), mock.Anything, mock.Anything).
		Return(dailySales(pipelineNow, 90, 8), nil)
	suppliers.On("SupplierCandidates", mock.Anything, int64(42)).Return(nil, nil)

	svc := newTestInventory(reader, products, suppliers)
	s, err := svc.GenerateSuggestion(context.Background(), 42, 14)
	require.NoError(t, err)

	assert.Nil(t, s.SuggestedSupplierID)
	// デフォルトのリードタイム7日: 8×7 + 24 = 80
	assert.Equal(t, 80, s.SuggestedQuantity)
}

func TestGenerateSuggestionNoSalesHistory(t *testing.T) {
	reader := new(mockTransactionReader)
	products := new(mockProductReader)
	suppliers := new(mockSupplierDirectory)

	p := testProduct()
	p.ReorderQuantity = 0
	products.On("GetProduct", mock.Anything, int64(42)).Return(p, nil)
	reader.On("CompletedQuantities", mock.Anything, int64(42), mock.Anything, mock.Anything).Return(nil, nil)
	suppliers.On("SupplierCandidates", mock.Anything, int64(42)).Return(nil, nil)

	svc := newTestInventory(reader, products, suppliers)
	s, err := svc.GenerateSuggestion(context.Background(), 42, 30)
	require.NoError(t, err)

	assert.Equal(t, DefaultMinOrderQuantity, s.SuggestedQuantity)
	assert.Equal(t, 0.0, s.UrgencyScore)
	assert.Nil(t, s.EstimatedStockoutDate)
}

func TestGenerateSuggestionProductNotFound(t *testing.T) {
	products := new(mockProductReader)
	products.On("GetProduct", mock.Anything, int64(404)).Return(nil, ErrProductNotFound)

	svc := newTestInventory(new(mockTransactionReader), products, new(mockSupplierDirectory))
	_, err := svc.GenerateSuggestion(context.Background(), 404, 14)
	assert.ErrorIs(t, err, ErrProductNotFound)

	nilProducts := new(mockProductReader)
	nilProducts.On("GetProduct", mock.Anything, int64(405)).Return(nil, nil)
	svc = newTestInventory(new(mockTransactionReader), nilProducts, new(mockSupplierDirectory))
	_, err = svc.Forecast(context.Background(), 405, 14)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGenerateSuggestionDataUnavailable(t *testing.T) {
	reader := new(mockTransactionReader)
	products := new(mockProductReader)
	products.On("GetProduct", mock.Anything, int64(42)).Return(testProduct(), nil)
	reader.On("CompletedQuantities", mock.Anything, int64(42), mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	svc := newTestInventory(reader, products, new(mockSupplierDirectory))
	_, err := svc.GenerateSuggestion(context.Background(), 42, 14)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestGenerateSuggestionInvalidHorizon(t *testing.T) {
	reader := new(mockTransactionReader)
	products := new(mockProductReader)
	products.On("GetProduct", mock.Anything, int64(42)).Return(testProduct(), nil)
	reader.On("CompletedQuantities", mock.Anything, int64(42), mock.Anything, mock.Anything).
		Return(dailySales(pipelineNow, 10, 1), nil)

	svc := newTestInventory(reader, products, new(mockSupplierDirectory))
	_, err := svc.GenerateSuggestion(context.Background(), 42, 0)
	assert.True(t, IsValidationError(err))
}

func TestRankSuppliers(t *testing.T) {
	products := new(mockProductReader)
	suppliers := new(mockSupplierDirectory)
	products.On("GetProduct", mock.Anything, int64(42)).Return(testProduct(), nil)
	suppliers.On("SupplierCandidates", mock.Anything, int64(42)).Return([]models.SupplierCandidate{
		{SupplierID: 5, Price: decimal.RequireFromString("12.00"), ReliabilityScore: 0.5, AverageDeliveryDays: 10},
		{SupplierID: 6, Price: decimal.RequireFromString("10.00"), ReliabilityScore: 0.9, AverageDeliveryDays: 2},
	}, nil)

	svc := newTestInventory(new(mockTransactionReader), products, suppliers)
	scores, err := svc.RankSuppliers(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, int64(6), scores[0].SupplierID)
}
