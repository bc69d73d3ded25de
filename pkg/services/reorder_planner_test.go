package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techmart-api/pkg/models"
)

var planDay = time.Date(2024, 4, 1, 15, 30, 0, 0, time.UTC)

func forecastOf(predicted, horizon int) models.DemandForecast {
	return models.DemandForecast{ProductID: 42, PredictedDemand: predicted, HorizonDays: horizon, ConfidenceScore: 0.85}
}

func TestPlanReorderScenario(t *testing.T) {
	supplier := &models.SupplierScore{SupplierID: 2, AverageDeliveryDays: 5}
	s, err := PlanReorder(ReorderPlanInput{
		Forecast:         forecastOf(112, 14),
		CurrentStock:     18,
		Supplier:         supplier,
		LeadTimeDays:     5,
		MinOrderQuantity: 50,
	}, planDay)
	require.NoError(t, err)

	assert.Equal(t, 64, s.SuggestedQuantity)
	assert.InDelta(t, 0.839, s.UrgencyScore, 0.001)
	require.NotNil(t, s.EstimatedStockoutDate)
	assert.Equal(t, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), *s.EstimatedStockoutDate)
	require.NotNil(t, s.SuggestedSupplierID)
	assert.Equal(t, int64(2), *s.SuggestedSupplierID)
	assert.Equal(t, models.SuggestionStatusPending, s.Status)
	assert.Equal(t, int64(42), s.ProductID)
	assert.Zero(t, s.ID)
	assert.Contains(t, s.Reasoning, "Current stock: 18")
	assert.Contains(t, s.Reasoning, "Daily demand: 8.0")
	assert.Contains(t, s.Reasoning, "Lead time: 5 days")
	assert.Contains(t, s.Reasoning, "Forecast confidence: 0.85")
}

func TestPlanReorderZeroDemand(t *testing.T) {
	s, err := PlanReorder(ReorderPlanInput{
		Forecast:         forecastOf(0, 30),
		CurrentStock:     5,
		LeadTimeDays:     7,
		MinOrderQuantity: 10,
	}, planDay)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.UrgencyScore)
	assert.Nil(t, s.EstimatedStockoutDate)
	assert.Equal(t, 10, s.SuggestedQuantity)
	assert.Nil(t, s.SuggestedSupplierID)
	assert.Equal(t, models.SuggestionStatusPending, s.Status)
}

func TestPlanReorderOutOfStockIsMostUrgent(t *testing.T) {
	s, err := PlanReorder(ReorderPlanInput{
		Forecast:         forecastOf(30, 30),
		CurrentStock:     0,
		LeadTimeDays:     2,
		MinOrderQuantity: 1,
	}, planDay)
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.UrgencyScore)
	require.NotNil(t, s.EstimatedStockoutDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *s.EstimatedStockoutDate)
	// 1/日 × 2日 + 安全在庫3 = 5
	assert.Equal(t, 5, s.SuggestedQuantity)
}

func TestPlanReorderPlentyOfStockHasNoUrgency(t *testing.T) {
	s, err := PlanReorder(ReorderPlanInput{
		Forecast:         forecastOf(14, 14),
		CurrentStock:     500,
		LeadTimeDays:     3,
		MinOrderQuantity: 1,
	}, planDay)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.UrgencyScore)
}

func TestPlanReorderQuantityNeverBelowMinimum(t *testing.T) {
	for _, predicted := range []int{0, 1, 7, 50, 333, 10000} {
		for _, lead := range []float64{0, 1.5, 7, 21} {
			for _, minQty := range []int{1, 25, 50, 400} {
				s, err := PlanReorder(ReorderPlanInput{
					Forecast:         forecastOf(predicted, 30),
					CurrentStock:     10,
					LeadTimeDays:     lead,
					MinOrderQuantity: minQty,
				}, planDay)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, s.SuggestedQuantity, minQty)
				assert.Positive(t, s.SuggestedQuantity)
				assert.GreaterOrEqual(t, s.UrgencyScore, 0.0)
				assert.LessOrEqual(t, s.UrgencyScore, 1.0)
			}
		}
	}
}

func TestPlanReorderRejectsContractViolations(t *testing.T) {
	base := ReorderPlanInput{Forecast: forecastOf(10, 10), CurrentStock: 1, LeadTimeDays: 1, MinOrderQuantity: 1}

	negStock := base
	negStock.CurrentStock = -1
	negLead := base
	negLead.LeadTimeDays = -0.5
	badHorizon := base
	badHorizon.Forecast.HorizonDays = 0
	badMin := base
	badMin.MinOrderQuantity = 0

	for name, in := range map[string]ReorderPlanInput{
		"negative stock":     negStock,
		"negative lead time": negLead,
		"zero horizon":       badHorizon,
		"zero minimum":       badMin,
	} {
		_, err := PlanReorder(in, planDay)
		assert.True(t, IsValidationError(err), name)
	}
}
