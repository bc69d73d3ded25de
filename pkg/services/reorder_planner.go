package services

import (
	"fmt"
	"math"
	"time"

	"techmart-api/pkg/models"
)

const (
	// safetyStockDays 安全在庫として保持する需要日数
	safetyStockDays = 3.0
	// urgencyHorizonDays 欠品までこの日数以上あれば緊急度0
	urgencyHorizonDays = 14.0
	// quantityEpsilon 浮動小数点誤差で切り上げが1つずれるのを防ぐ
	quantityEpsilon = 1e-9
)

// ReorderPlanInput 発注計画の入力
type ReorderPlanInput struct {
	Forecast         models.DemandForecast
	CurrentStock     int
	Supplier         *models.SupplierScore // nil = 候補なし
	LeadTimeDays     float64
	MinOrderQuantity int
}

// PlanReorder derives the reorder quantity, urgency and estimated stockout date
// from a forecast. The returned suggestion is always pending and carries no ID.
func PlanReorder(in ReorderPlanInput, today time.Time) (models.ReorderSuggestion, error) {
	if in.CurrentStock < 0 {
		return models.ReorderSuggestion{}, newValidationError("current stock must be non-negative, got %d", in.CurrentStock)
	}
	if in.LeadTimeDays < 0 || math.IsNaN(in.LeadTimeDays) {
		return models.ReorderSuggestion{}, newValidationError("lead time must be non-negative, got %v", in.LeadTimeDays)
	}
	if in.Forecast.HorizonDays < 1 {
		return models.ReorderSuggestion{}, newValidationError("forecast horizon must be at least 1 day, got %d", in.Forecast.HorizonDays)
	}
	if in.MinOrderQuantity < 1 {
		return models.ReorderSuggestion{}, newValidationError("minimum order quantity must be at least 1, got %d", in.MinOrderQuantity)
	}

	dailyDemand := 0.0
	if in.Forecast.PredictedDemand > 0 {
		dailyDemand = float64(in.Forecast.PredictedDemand) / float64(in.Forecast.HorizonDays)
	}
	safetyStock := dailyDemand * safetyStockDays

	quantity := int(math.Ceil(dailyDemand*in.LeadTimeDays + safetyStock - quantityEpsilon))
	if quantity < in.MinOrderQuantity {
		quantity = in.MinOrderQuantity
	}

	var stockoutDate *time.Time
	urgency := 0.0
	if dailyDemand > 0 {
		daysUntilStockout := float64(in.CurrentStock) / dailyDemand
		d := truncateToDay(today).AddDate(0, 0, int(math.Floor(daysUntilStockout)))
		stockoutDate = &d
		urgency = clamp(1.0-daysUntilStockout/urgencyHorizonDays, 0, 1)
	}

	var supplierID *int64
	if in.Supplier != nil {
		id := in.Supplier.SupplierID
		supplierID = &id
	}

	return models.ReorderSuggestion{
		ProductID:             in.Forecast.ProductID,
		SuggestedQuantity:     quantity,
		SuggestedSupplierID:   supplierID,
		UrgencyScore:          urgency,
		EstimatedStockoutDate: stockoutDate,
		Reasoning: fmt.Sprintf("Current stock: %d, Daily demand: %.1f, Lead time: %g days, Forecast confidence: %.2f",
			in.CurrentStock, dailyDemand, in.LeadTimeDays, in.Forecast.ConfidenceScore),
		Status: models.SuggestionStatusPending,
	}, nil
}
