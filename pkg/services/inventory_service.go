package services

import (
	"context"
	"fmt"
	"time"

	"techmart-api/pkg/models"
)

const (
	// DefaultLeadTimeDays 仕入先が選定できない場合のリードタイム
	DefaultLeadTimeDays = 7.0
	// DefaultMinOrderQuantity 商品に最小発注数量が設定されていない場合の値
	DefaultMinOrderQuantity = 50
)

// InventoryOptions 在庫パイプラインの設定
type InventoryOptions struct {
	LookbackDays        int
	DefaultLeadTimeDays float64
}

// PipelineResult パイプライン1回分の出力（永続化用）
type PipelineResult struct {
	Product    *models.Product          `json:"product"`
	Forecast   models.DemandForecast    `json:"forecast"`
	Suppliers  []models.SupplierScore   `json:"suppliers"`
	Suggestion models.ReorderSuggestion `json:"suggestion"`
}

// InventoryService wires the aggregator, forecaster, supplier scorer and planner
// for one product per call. It holds only its readers and settings.
type InventoryService struct {
	history   *HistoryService
	products  ProductReader
	suppliers SupplierDirectory
	opts      InventoryOptions
	now       func() time.Time
}

// NewInventoryService 新しい在庫パイプラインサービスを作成
func NewInventoryService(transactions TransactionReader, products ProductReader, suppliers SupplierDirectory, opts InventoryOptions) *InventoryService {
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
	}
	if opts.DefaultLeadTimeDays <= 0 {
		opts.DefaultLeadTimeDays = DefaultLeadTimeDays
	}
	return &InventoryService{
		history:   NewHistoryService(transactions),
		products:  products,
		suppliers: suppliers,
		opts:      opts,
		now:       time.Now,
	}
}

// Forecast 商品の需要予測を生成（永続化はしない）
func (s *InventoryService) Forecast(ctx context.Context, productID int64, horizonDays int) (*models.DemandForecast, error) {
	if _, err := s.product(ctx, productID); err != nil {
		return nil, err
	}
	forecast, err := s.forecast(ctx, productID, horizonDays)
	if err != nil {
		return nil, err
	}
	return &forecast, nil
}

// RankSuppliers 商品の仕入先候補をスコア順に返す
func (s *InventoryService) RankSuppliers(ctx context.Context, productID int64) ([]models.SupplierScore, error) {
	if _, err := s.product(ctx, productID); err != nil {
		return nil, err
	}
	candidates, err := s.suppliers.SupplierCandidates(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("仕入先候補の取得に失敗: %w", err)
	}
	return ScoreSuppliers(candidates), nil
}

// GenerateSuggestion runs the full pipeline and returns the reorder suggestion.
func (s *InventoryService) GenerateSuggestion(ctx context.Context, productID int64, horizonDays int) (*models.ReorderSuggestion, error) {
	result, err := s.RunPipeline(ctx, productID, horizonDays)
	if err != nil {
		return nil, err
	}
	return &result.Suggestion, nil
}

// RunPipeline 集計→予測→仕入先選定→発注計画を実行
func (s *InventoryService) RunPipeline(ctx context.Context, productID int64, horizonDays int) (*PipelineResult, error) {
	product, err := s.product(ctx, productID)
	if err != nil {
		return nil, err
	}

	forecast, err := s.forecast(ctx, productID, horizonDays)
	if err != nil {
		return nil, err
	}

	candidates, err := s.suppliers.SupplierCandidates(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("仕入先候補の取得に失敗: %w", err)
	}
	scores := ScoreSuppliers(candidates)

	var best *models.SupplierScore
	leadTime := s.opts.DefaultLeadTimeDays
	if len(scores) > 0 {
		best = &scores[0]
		leadTime = best.AverageDeliveryDays
	}

	minOrder := product.ReorderQuantity
	if minOrder < 1 {
		minOrder = DefaultMinOrderQuantity
	}

	suggestion, err := PlanReorder(ReorderPlanInput{
		Forecast:         forecast,
		CurrentStock:     product.StockQuantity,
		Supplier:         best,
		LeadTimeDays:     leadTime,
		MinOrderQuantity: minOrder,
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", productID, err)
	}

	return &PipelineResult{
		Product:    product,
		Forecast:   forecast,
		Suppliers:  scores,
		Suggestion: suggestion,
	}, nil
}

func (s *InventoryService) forecast(ctx context.Context, productID int64, horizonDays int) (models.DemandForecast, error) {
	series, err := s.history.GetDailyDemand(ctx, productID, s.opts.LookbackDays)
	if err != nil {
		return models.DemandForecast{}, err
	}
	return ForecastDemand(productID, series, horizonDays, s.now())
}

func (s *InventoryService) product(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("商品 %d の取得に失敗: %w", productID, err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	return product, nil
}
