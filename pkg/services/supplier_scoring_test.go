package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techmart-api/pkg/models"
)

func candidate(t *testing.T, id int64, price string, reliability, delivery float64) models.SupplierCandidate {
	t.Helper()
	c, err := NewSupplierCandidate(id, decimal.RequireFromString(price), reliability, delivery)
	require.NoError(t, err)
	return c
}

func TestSelectBestSupplierScenario(t *testing.T) {
	a := candidate(t, 1, "40", 0.92, 5)
	b := candidate(t, 2, "35", 0.95, 3)

	scores := ScoreSuppliers([]models.SupplierCandidate{a, b})
	require.Len(t, scores, 2)

	assert.Equal(t, int64(2), scores[0].SupplierID)
	assert.InDelta(t, 1.0, scores[0].PriceScore, 1e-9)
	assert.InDelta(t, 0.929, scores[0].TotalScore, 0.001)

	assert.Equal(t, int64(1), scores[1].SupplierID)
	assert.InDelta(t, 0.875, scores[1].PriceScore, 1e-9)
	assert.InDelta(t, 9.0/14.0, scores[1].DeliveryScore, 1e-9)
	assert.InDelta(t, 0.833, scores[1].TotalScore, 0.001)

	best := SelectBestSupplier([]models.SupplierCandidate{a, b})
	require.NotNil(t, best)
	assert.Equal(t, int64(2), best.SupplierID)
}

func TestSelectBestSupplierEmpty(t *testing.T) {
	assert.Nil(t, SelectBestSupplier(nil))
	assert.Empty(t, ScoreSuppliers([]models.SupplierCandidate{}))
}

func TestSingleCandidatePriceScore(t *testing.T) {
	for _, price := range []string{"0.01", "1", "99999.99"} {
		best := SelectBestSupplier([]models.SupplierCandidate{candidate(t, 9, price, 0.5, 7)})
		require.NotNil(t, best)
		assert.Equal(t, 1.0, best.PriceScore, "price %s", price)
	}
}

func TestCheaperSupplierScoresHigher(t *testing.T) {
	cheap := candidate(t, 1, "10", 0.8, 4)
	pricey := candidate(t, 2, "12.50", 0.8, 4)

	scores := ScoreSuppliers([]models.SupplierCandidate{pricey, cheap})
	require.Len(t, scores, 2)
	assert.Equal(t, int64(1), scores[0].SupplierID)
	assert.Greater(t, scores[0].TotalScore, scores[1].TotalScore)
}

func TestSupplierTieBreaksOnLowestID(t *testing.T) {
	x := candidate(t, 7, "20", 0.9, 2)
	y := candidate(t, 3, "20", 0.9, 2)

	best := SelectBestSupplier([]models.SupplierCandidate{x, y})
	require.NotNil(t, best)
	assert.Equal(t, int64(3), best.SupplierID)
}

func TestDeliveryScore(t *testing.T) {
	testCases := []struct {
		days     float64
		expected float64
	}{
		{0, 1.0},
		{7, 0.5},
		{14, 0},
		{30, 0},
	}
	for _, tc := range testCases {
		best := SelectBestSupplier([]models.SupplierCandidate{candidate(t, 1, "5", 1, tc.days)})
		require.NotNil(t, best)
		assert.InDelta(t, tc.expected, best.DeliveryScore, 1e-9, "delivery days %v", tc.days)
	}
}

func TestNewSupplierCandidateValidation(t *testing.T) {
	_, err := NewSupplierCandidate(1, decimal.Zero, 0.5, 3)
	assert.True(t, IsValidationError(err))

	_, err = NewSupplierCandidate(1, decimal.NewFromInt(-3), 0.5, 3)
	assert.True(t, IsValidationError(err))

	_, err = NewSupplierCandidate(1, decimal.NewFromInt(3), 1.2, 3)
	assert.True(t, IsValidationError(err))

	_, err = NewSupplierCandidate(1, decimal.NewFromInt(3), 0.5, -1)
	assert.True(t, IsValidationError(err))
}
