package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"techmart-api/pkg/models"
)

// DefaultSweepConcurrency 並列に処理する商品数
const DefaultSweepConcurrency = 4

// SweepOutcome 1商品分の処理結果
type SweepOutcome struct {
	ProductID      int64                     `json:"product_id"`
	SkippedPending bool                      `json:"skipped_pending"`
	Suggestion     *models.ReorderSuggestion `json:"suggestion,omitempty"`
}

// SweepService 閾値以下の商品に対して発注提案を一括生成する
type SweepService struct {
	inventory   *InventoryService
	suggestions *SuggestionService
	alerts      *StockAlertService
	products    ProductReader
	horizonDays int
	concurrency int
}

// NewSweepService 新しいスイープサービスを作成
func NewSweepService(inventory *InventoryService, suggestions *SuggestionService, alerts *StockAlertService, products ProductReader, horizonDays, concurrency int) *SweepService {
	if concurrency <= 0 {
		concurrency = DefaultSweepConcurrency
	}
	return &SweepService{
		inventory:   inventory,
		suggestions: suggestions,
		alerts:      alerts,
		products:    products,
		horizonDays: horizonDays,
		concurrency: concurrency,
	}
}

// ListCandidates 発注点以下の商品ID一覧
func (s *SweepService) ListCandidates(ctx context.Context) ([]int64, error) {
	products, err := s.products.ListReorderCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("発注候補の取得に失敗: %w", err)
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// ProcessProduct generates and persists a suggestion for one product unless it
// already has a pending one.
func (s *SweepService) ProcessProduct(ctx context.Context, productID int64) (*SweepOutcome, error) {
	pending, err := s.suggestions.HasPending(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("未処理提案の確認に失敗 (product %d): %w", productID, err)
	}
	if pending {
		return &SweepOutcome{ProductID: productID, SkippedPending: true}, nil
	}

	result, err := s.inventory.RunPipeline(ctx, productID, s.horizonDays)
	if err != nil {
		return nil, err
	}
	saved, err := s.suggestions.Persist(ctx, result)
	if err != nil {
		return nil, err
	}
	return &SweepOutcome{ProductID: productID, Suggestion: saved}, nil
}

// CheckStockLevels 在庫アラートのチェック
func (s *SweepService) CheckStockLevels(ctx context.Context) (int, error) {
	return s.alerts.CheckStockLevels(ctx)
}

// Run performs one sweep over every reorder candidate. Failures for individual
// products are recorded in the report and do not stop the sweep.
func (s *SweepService) Run(ctx context.Context) (*models.SweepReport, error) {
	report := &models.SweepReport{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Failures:  make(map[int64]string),
	}
	log.Printf("🔄 Reorder sweep %s started", report.RunID)

	ids, err := s.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	report.ProductsChecked = len(ids)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			outcome, err := s.ProcessProduct(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failures[id] = err.Error()
				log.Printf("❌ Reorder sweep %s: product %d failed: %v", report.RunID, id, err)
			case outcome.SkippedPending:
				report.SkippedPending++
			default:
				report.SuggestionsCreated++
			}
			return nil
		})
	}
	// Per-product errors are collected above, so Wait only reports cancellation.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return report, err
	}

	alerts, err := s.CheckStockLevels(ctx)
	if err != nil {
		log.Printf("⚠️ Reorder sweep %s: stock level check failed: %v", report.RunID, err)
	}
	report.AlertsCreated = alerts
	report.FinishedAt = time.Now()

	log.Printf("✅ Reorder sweep %s finished: checked=%d created=%d skipped=%d failed=%d alerts=%d",
		report.RunID, report.ProductsChecked, report.SuggestionsCreated, report.SkippedPending, len(report.Failures), report.AlertsCreated)
	return report, nil
}
