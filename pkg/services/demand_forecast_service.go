package services

import (
	"math"
	"time"

	"techmart-api/pkg/models"
)

// 予測モデルの係数
const (
	shortWindowDays = 7
	longWindowDays  = 30

	shortWindowWeight = 0.4
	longWindowWeight  = 0.6

	minTrendFactor = 0.5
	maxTrendFactor = 2.0

	seasonalityCVWeight  = 0.2
	minSeasonalityFactor = 0.8
	maxSeasonalityFactor = 1.3

	// confidenceFullDays 信頼度が1.0に達する実績日数
	confidenceFullDays = 90.0
)

// ForecastDemand computes the demand forecast for the next horizonDays from a daily
// series ordered ascending by date. Sparse or empty series resolve to a clamped
// forecast with zero predicted demand rather than an error.
func ForecastDemand(productID int64, series []models.DailyDemandPoint, horizonDays int, generatedAt time.Time) (models.DemandForecast, error) {
	if horizonDays <= 0 {
		return models.DemandForecast{}, newValidationError("horizon days must be positive, got %d", horizonDays)
	}

	values := make([]float64, len(series))
	daysWithData := 0
	for i, p := range series {
		if p.UnitsSold < 0 {
			return models.DemandForecast{}, newValidationError("units sold must be non-negative on %s", p.Date.Format("2006-01-02"))
		}
		values[i] = float64(p.UnitsSold)
		if p.UnitsSold > 0 {
			daysWithData++
		}
	}

	ma7 := calculateMean(tail(values, shortWindowDays))
	ma30 := calculateMean(tail(values, longWindowDays))
	trend := calculateTrendFactor(values)
	seasonality := calculateSeasonalityFactor(values)
	confidence := math.Min(1.0, float64(daysWithData)/confidenceFullDays)

	base := ma7*shortWindowWeight + ma30*longWindowWeight
	predicted := math.Round(base * trend * seasonality * float64(horizonDays))
	if predicted < 0 || math.IsNaN(predicted) {
		predicted = 0
	}

	return models.DemandForecast{
		ProductID:         productID,
		PredictedDemand:   int(predicted),
		ConfidenceScore:   confidence,
		TrendFactor:       trend,
		SeasonalityFactor: seasonality,
		HorizonDays:       horizonDays,
		MA7:               ma7,
		MA30:              ma30,
		GeneratedAt:       generatedAt,
	}, nil
}

// calculateTrendFactor 前半平均に対する後半平均の比（インデックスで二分割）
func calculateTrendFactor(values []float64) float64 {
	if len(values) < 2 {
		return 1.0
	}
	mid := len(values) / 2
	firstMean := calculateMean(values[:mid])
	if firstMean == 0 {
		return 1.0
	}
	return clamp(calculateMean(values[mid:])/firstMean, minTrendFactor, maxTrendFactor)
}

// calculateSeasonalityFactor 変動係数から季節性係数を算出
func calculateSeasonalityFactor(values []float64) float64 {
	mean := calculateMean(values)
	cv := 0.0
	if mean != 0 {
		cv = calculateStandardDeviation(values) / mean
	}
	return clamp(1.0+cv*seasonalityCVWeight, minSeasonalityFactor, maxSeasonalityFactor)
}
