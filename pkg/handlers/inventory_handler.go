package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"techmart-api/pkg/models"
	"techmart-api/pkg/services"
	"techmart-api/pkg/store"
)

// InventoryHandler 在庫予測・発注提案APIのハンドラ
type InventoryHandler struct {
	inventory          *services.InventoryService
	suggestions        *services.SuggestionService
	sweep              *services.SweepService
	alerts             *services.StockAlertService
	transactions       services.TransactionWriter
	defaultHorizonDays int
	maxHorizonDays     int
}

// InventoryHandlerOptions horizon_days の既定値と上限
type InventoryHandlerOptions struct {
	DefaultHorizonDays int
	MaxHorizonDays     int
}

// NewInventoryHandler 新しい在庫ハンドラを作成
func NewInventoryHandler(
	inventory *services.InventoryService,
	suggestions *services.SuggestionService,
	sweep *services.SweepService,
	alerts *services.StockAlertService,
	transactions services.TransactionWriter,
	opts InventoryHandlerOptions,
) *InventoryHandler {
	if opts.MaxHorizonDays <= 0 {
		opts.MaxHorizonDays = 90
	}
	if opts.DefaultHorizonDays <= 0 || opts.DefaultHorizonDays > opts.MaxHorizonDays {
		opts.DefaultHorizonDays = 30
	}
	return &InventoryHandler{
		inventory:          inventory,
		suggestions:        suggestions,
		sweep:              sweep,
		alerts:             alerts,
		transactions:       transactions,
		defaultHorizonDays: opts.DefaultHorizonDays,
		maxHorizonDays:     opts.MaxHorizonDays,
	}
}

func (h *InventoryHandler) horizon(c *gin.Context) (int, bool) {
	horizon, ok := queryInt(c, "horizon_days", h.defaultHorizonDays)
	if !ok {
		return 0, false
	}
	if horizon < 1 || horizon > h.maxHorizonDays {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("horizon_days は 1〜%d の範囲で指定してください", h.maxHorizonDays),
		})
		return 0, false
	}
	return horizon, true
}

// GetForecast 商品の需要予測
func (h *InventoryHandler) GetForecast(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	horizon, ok := h.horizon(c)
	if !ok {
		return
	}

	forecast, err := h.inventory.Forecast(c.Request.Context(), productID, horizon)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": forecast})
}

// GenerateReorder パイプラインを実行し発注提案を保存
func (h *InventoryHandler) GenerateReorder(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	horizon, ok := h.horizon(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	result, err := h.inventory.RunPipeline(ctx, productID, horizon)
	if err != nil {
		respondError(c, err)
		return
	}
	saved, err := h.suggestions.Persist(ctx, result)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"suggestion": saved,
			"forecast":   result.Forecast,
			"suppliers":  result.Suppliers,
		},
	})
}

// GetSupplierScores 仕入先スコアのランキング
func (h *InventoryHandler) GetSupplierScores(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	scores, err := h.inventory.RankSuppliers(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": scores, "count": len(scores)})
}

// ListSuggestions 発注提案一覧
func (h *InventoryHandler) ListSuggestions(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}
	list, err := h.suggestions.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "count": len(list)})
}

// ApproveSuggestion pending → approved
func (h *InventoryHandler) ApproveSuggestion(c *gin.Context) {
	h.transition(c, h.suggestions.Approve)
}

// RejectSuggestion pending → rejected
func (h *InventoryHandler) RejectSuggestion(c *gin.Context) {
	h.transition(c, h.suggestions.Reject)
}

// MarkSuggestionOrdered approved → ordered
func (h *InventoryHandler) MarkSuggestionOrdered(c *gin.Context) {
	h.transition(c, h.suggestions.MarkOrdered)
}

type suggestionTransition func(ctx context.Context, id int64) (*models.ReorderSuggestion, error)

func (h *InventoryHandler) transition(c *gin.Context, fn suggestionTransition) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	updated, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

// GetPredictions 過去の需要予測履歴
func (h *InventoryHandler) GetPredictions(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 30)
	if !ok {
		return
	}
	list, err := h.suggestions.ListForecasts(c.Request.Context(), productID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "count": len(list)})
}

// RunSweep 発注点以下の全商品に対してスイープを実行
func (h *InventoryHandler) RunSweep(c *gin.Context) {
	report, err := h.sweep.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

// ListAlerts 在庫アラート一覧（?unresolved=true で未解決のみ）
func (h *InventoryHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alerts.ListAlerts(c.Request.Context(), c.Query("unresolved") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": alerts, "count": len(alerts)})
}

// ImportTransactions .xlsx/.csv の販売データを取り込む
func (h *InventoryHandler) ImportTransactions(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB limit
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "フォームの解析に失敗しました: " + err.Error()})
		return
	}
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "ファイルの取得に失敗しました。"})
		return
	}
	defer file.Close()

	records, skipped, err := store.ParseSalesFile(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	inserted, err := h.transactions.InsertTransactions(c.Request.Context(), records)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Printf("📥 Imported %d transactions from %s (%d rows skipped)", inserted, fileHeader.Filename, len(skipped))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"imported": inserted,
			"skipped":  skipped,
		},
	})
}
