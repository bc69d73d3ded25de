package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"techmart-api/pkg/models"
)

type mockTransactionReader struct{ mock.Mock }

func (m *mockTransactionReader) CompletedQuantities(ctx context.Context, productID int64, from, to time.Time) ([]models.TransactionRow, error) {
	args := m.Called(ctx, productID, from, to)
	rows, _ := args.Get(0).([]models.TransactionRow)
	return rows, args.Error(1)
}

type mockSupplierDirectory struct{ mock.Mock }

func (m *mockSupplierDirectory) SupplierCandidates(ctx context.Context, productID int64) ([]models.SupplierCandidate, error) {
	args := m.Called(ctx, productID)
	c, _ := args.Get(0).([]models.SupplierCandidate)
	return c, args.Error(1)
}

type mockProductReader struct{ mock.Mock }

func (m *mockProductReader) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductReader) ListReorderCandidates(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Error(1)
}

func (m *mockProductReader) ListCriticalStock(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]models.Product)
	return p, args.Error(1)
}

type mockSuggestionStore struct{ mock.Mock }

func (m *mockSuggestionStore) SaveForecast(ctx context.Context, f models.DemandForecast) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockSuggestionStore) SaveSuggestion(ctx context.Context, s *models.ReorderSuggestion) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSuggestionStore) HasPendingSuggestion(ctx context.Context, productID int64) (bool, error) {
	args := m.Called(ctx, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSuggestionStore) ListSuggestions(ctx context.Context, status string, limit int) ([]models.ReorderSuggestion, error) {
	args := m.Called(ctx, status, limit)
	s, _ := args.Get(0).([]models.ReorderSuggestion)
	return s, args.Error(1)
}

func (m *mockSuggestionStore) UpdateSuggestionStatus(ctx context.Context, id int64, from, to string) (*models.ReorderSuggestion, error) {
	args := m.Called(ctx, id, from, to)
	s, _ := args.Get(0).(*models.ReorderSuggestion)
	return s, args.Error(1)
}

func (m *mockSuggestionStore) ListForecasts(ctx context.Context, productID int64, limit int) ([]models.DemandForecast, error) {
	args := m.Called(ctx, productID, limit)
	f, _ := args.Get(0).([]models.DemandForecast)
	return f, args.Error(1)
}

type mockAlertStore struct{ mock.Mock }

func (m *mockAlertStore) HasRecentAlert(ctx context.Context, productID int64, alertType string, since time.Time) (bool, error) {
	args := m.Called(ctx, productID, alertType, since)
	return args.Bool(0), args.Error(1)
}

func (m *mockAlertStore) SaveAlert(ctx context.Context, a *models.Alert) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAlertStore) ListAlerts(ctx context.Context, unresolvedOnly bool) ([]models.Alert, error) {
	args := m.Called(ctx, unresolvedOnly)
	a, _ := args.Get(0).([]models.Alert)
	return a, args.Error(1)
}

// constantSeries は n 日分、毎日 units 個売れた系列を返します。
func constantSeries(n, units int) []models.DailyDemandPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.DailyDemandPoint, n)
	for i := range series {
		series[i] = models.DailyDemandPoint{Date: start.AddDate(0, 0, i), UnitsSold: units}
	}
	return series
}

func seriesOf(units ...int) []models.DailyDemandPoint {
	series := constantSeries(len(units), 0)
	for i, u := range units {
		series[i].UnitsSold = u
	}
	return series
}
