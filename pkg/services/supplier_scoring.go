package services

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"techmart-api/pkg/models"
)

// 仕入先スコアの重み
const (
	priceWeight       = 0.40
	reliabilityWeight = 0.35
	deliveryWeight    = 0.25

	// maxDeliveryDays この日数以上の納期は配送スコア0
	maxDeliveryDays = 14.0
)

// NewSupplierCandidate 範囲を検証して仕入先候補を作成
func NewSupplierCandidate(supplierID int64, price decimal.Decimal, reliability, deliveryDays float64) (models.SupplierCandidate, error) {
	if !price.IsPositive() {
		return models.SupplierCandidate{}, newValidationError("supplier %d: price must be positive, got %s", supplierID, price.String())
	}
	if math.IsNaN(reliability) || reliability < 0 || reliability > 1 {
		return models.SupplierCandidate{}, newValidationError("supplier %d: reliability must be within [0,1], got %v", supplierID, reliability)
	}
	if math.IsNaN(deliveryDays) || deliveryDays < 0 {
		return models.SupplierCandidate{}, newValidationError("supplier %d: delivery days must be non-negative, got %v", supplierID, deliveryDays)
	}
	return models.SupplierCandidate{
		SupplierID:          supplierID,
		Price:               price,
		ReliabilityScore:    reliability,
		AverageDeliveryDays: deliveryDays,
	}, nil
}

// ScoreSuppliers scores every candidate and returns them ranked by total score,
// highest first. Exact ties are ordered by lowest supplier ID.
func ScoreSuppliers(candidates []models.SupplierCandidate) []models.SupplierScore {
	if len(candidates) == 0 {
		return nil
	}

	minPrice := candidates[0].Price
	for _, c := range candidates[1:] {
		if c.Price.LessThan(minPrice) {
			minPrice = c.Price
		}
	}

	scores := make([]models.SupplierScore, 0, len(candidates))
	for _, c := range candidates {
		priceScore := 0.0
		if c.Price.IsPositive() {
			priceScore, _ = minPrice.Div(c.Price).Float64()
		}
		reliability := clamp(c.ReliabilityScore, 0, 1)
		delivery := math.Max(0, (maxDeliveryDays-c.AverageDeliveryDays)/maxDeliveryDays)
		delivery = clamp(delivery, 0, 1)

		scores = append(scores, models.SupplierScore{
			SupplierID:          c.SupplierID,
			TotalScore:          priceScore*priceWeight + reliability*reliabilityWeight + delivery*deliveryWeight,
			PriceScore:          priceScore,
			ReliabilityScore:    reliability,
			DeliveryScore:       delivery,
			AverageDeliveryDays: c.AverageDeliveryDays,
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].TotalScore != scores[j].TotalScore {
			return scores[i].TotalScore > scores[j].TotalScore
		}
		return scores[i].SupplierID < scores[j].SupplierID
	})
	return scores
}

// SelectBestSupplier 最高スコアの仕入先を返す（候補なしはnil）
func SelectBestSupplier(candidates []models.SupplierCandidate) *models.SupplierScore {
	scores := ScoreSuppliers(candidates)
	if len(scores) == 0 {
		return nil
	}
	best := scores[0]
	return &best
}
