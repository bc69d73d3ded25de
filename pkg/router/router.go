package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"techmart-api/pkg/app"
	"techmart-api/pkg/handlers"
)

// authMiddleware は X-API-KEY ヘッダーを検証します。キー未設定の場合は素通しします。
func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "X-API-KEY")
	return cors.New(cfg)
}

// SetupRouter はGinのルーティングを構築します。
func SetupRouter(a *app.App) *gin.Engine {
	cfg := a.Config
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	var pinger handlers.Pinger
	if pg := a.Postgres(); pg != nil {
		pinger = pg
	}
	adminHandler := handlers.NewAdminHandler(cfg, pinger)
	monitoringHandler := handlers.NewMonitoringHandler(a.Monitoring)
	inventoryHandler := handlers.NewInventoryHandler(a.Inventory, a.Suggestions, a.Sweep, a.Alerts, a.Store,
		handlers.InventoryHandlerOptions{
			DefaultHorizonDays: cfg.ForecastHorizonDays,
			MaxHorizonDays:     cfg.ForecastMaxHorizonDays,
		})

	// ミドルウェアの登録
	r.Use(a.Monitoring.LoggingMiddleware())
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	// ヘルスチェックエンドポイント
	r.GET("/health", adminHandler.HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		// 管理者向けAPI
		admin := v1.Group("/admin")
		{
			admin.GET("/health-status", adminHandler.GetHealthStatus)
			admin.POST("/maintenance/start", adminHandler.StartMaintenance)
			admin.POST("/maintenance/stop", adminHandler.StopMaintenance)
		}

		// モニタリングAPI
		v1.GET("/monitoring/logs", monitoringHandler.GetLogs)

		// 在庫予測・発注提案API
		inventory := v1.Group("/inventory")
		inventory.Use(adminHandler.MaintenanceGuard())
		{
			inventory.GET("/forecast/:productId", inventoryHandler.GetForecast)
			inventory.POST("/reorder/:productId", inventoryHandler.GenerateReorder)
			inventory.GET("/suppliers/:productId", inventoryHandler.GetSupplierScores)
			inventory.GET("/predictions/:productId", inventoryHandler.GetPredictions)

			inventory.GET("/suggestions", inventoryHandler.ListSuggestions)
			inventory.POST("/suggestions/:id/approve", inventoryHandler.ApproveSuggestion)
			inventory.POST("/suggestions/:id/reject", inventoryHandler.RejectSuggestion)
			inventory.POST("/suggestions/:id/ordered", inventoryHandler.MarkSuggestionOrdered)

			inventory.POST("/sweep", inventoryHandler.RunSweep)
			inventory.GET("/alerts", inventoryHandler.ListAlerts)
			inventory.POST("/transactions/import", inventoryHandler.ImportTransactions)
		}
	}

	return r
}
