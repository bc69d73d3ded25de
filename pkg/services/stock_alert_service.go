package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"techmart-api/pkg/models"
)

const (
	// criticalStockRatio 閾値に対するこの割合以下でアラート
	criticalStockRatio = 0.2
	// alertDedupWindow 同種の未解決アラートがあれば再作成しない期間
	alertDedupWindow = 24 * time.Hour
)

// ClassifyStockLevel returns the alert severity for a stock level against its
// reorder threshold, and false when the stock is above 20% of the threshold.
func ClassifyStockLevel(stock, threshold int) (string, bool) {
	if float64(stock) > float64(threshold)*criticalStockRatio {
		return "", false
	}
	if stock <= 0 {
		return models.SeverityCritical, true
	}
	pct := float64(stock) / float64(threshold) * 100
	if pct <= 10 {
		return models.SeverityHigh, true
	}
	return models.SeverityMedium, true
}

// StockAlertService 在庫水準のチェックとアラート作成
type StockAlertService struct {
	products ProductReader
	alerts   AlertStore
	now      func() time.Time
}

// NewStockAlertService 新しい在庫アラートサービスを作成
func NewStockAlertService(products ProductReader, alerts AlertStore) *StockAlertService {
	return &StockAlertService{
		products: products,
		alerts:   alerts,
		now:      time.Now,
	}
}

// CheckStockLevels creates a low stock alert for each critical product that has
// no unresolved alert of the same type from the last 24 hours. It returns the
// number of alerts created.
func (s *StockAlertService) CheckStockLevels(ctx context.Context) (int, error) {
	products, err := s.products.ListCriticalStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("在庫不足商品の取得に失敗: %w", err)
	}

	now := s.now()
	created := 0
	for _, p := range products {
		severity, ok := ClassifyStockLevel(p.StockQuantity, p.ReorderThreshold)
		if !ok {
			continue
		}
		exists, err := s.alerts.HasRecentAlert(ctx, p.ID, models.AlertTypeLowStock, now.Add(-alertDedupWindow))
		if err != nil {
			return created, fmt.Errorf("アラート履歴の確認に失敗 (product %d): %w", p.ID, err)
		}
		if exists {
			continue
		}

		alert := &models.Alert{
			AlertType: models.AlertTypeLowStock,
			Severity:  severity,
			Title:     fmt.Sprintf("Low stock: %s", p.Name),
			Message: fmt.Sprintf("Product %s (SKU: %s) has %d units left, reorder threshold is %d",
				p.Name, p.SKU, p.StockQuantity, p.ReorderThreshold),
			ProductID: p.ID,
			CreatedAt: now,
		}
		if err := s.alerts.SaveAlert(ctx, alert); err != nil {
			return created, fmt.Errorf("アラートの保存に失敗 (product %d): %w", p.ID, err)
		}
		created++
		log.Printf("⚠️ %s stock alert for product %d (%d/%d)", severity, p.ID, p.StockQuantity, p.ReorderThreshold)
	}
	return created, nil
}

// ListAlerts アラート一覧
func (s *StockAlertService) ListAlerts(ctx context.Context, unresolvedOnly bool) ([]models.Alert, error) {
	return s.alerts.ListAlerts(ctx, unresolvedOnly)
}
