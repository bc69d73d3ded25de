package app

import (
	"context"
	"fmt"
	"log"

	config "techmart-api/configs"
	"techmart-api/pkg/services"
	"techmart-api/pkg/store"
)

// Store は在庫パイプラインが必要とする全ての読み書き先です。
type Store interface {
	services.TransactionReader
	services.TransactionWriter
	services.SupplierDirectory
	services.ProductReader
	services.SuggestionStore
	services.AlertStore
}

// App holds the wired services shared by the HTTP server, the Temporal worker and
// the one-shot CLI commands.
type App struct {
	Config      *config.Config
	Store       Store
	Inventory   *services.InventoryService
	Suggestions *services.SuggestionService
	Alerts      *services.StockAlertService
	Sweep       *services.SweepService
	Monitoring  *services.MonitoringService

	pg *store.PostgresStore
}

// New はSTORE_BACKENDに応じてストアを開き、サービスを組み立てます。
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &App{Config: cfg}
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.pg = pg
		a.Store = pg
	default:
		mem := store.NewMemoryStore()
		store.SeedDemoData(mem, cfg.ForecastLookbackDays)
		log.Printf("🧪 Using in-memory store with demo data (%d days)", cfg.ForecastLookbackDays)
		a.Store = mem
	}

	a.wire()
	return a, nil
}

// NewWithStore はテストなど既存のストアで組み立てる場合に使用します。
func NewWithStore(cfg *config.Config, s Store) *App {
	a := &App{Config: cfg, Store: s}
	a.wire()
	return a
}

func (a *App) wire() {
	cfg := a.Config
	a.Inventory = services.NewInventoryService(a.Store, a.Store, a.Store, services.InventoryOptions{
		LookbackDays:        cfg.ForecastLookbackDays,
		DefaultLeadTimeDays: float64(cfg.DefaultLeadTimeDays),
	})
	a.Suggestions = services.NewSuggestionService(a.Store)
	a.Alerts = services.NewStockAlertService(a.Store, a.Store)
	a.Sweep = services.NewSweepService(a.Inventory, a.Suggestions, a.Alerts, a.Store, cfg.ForecastHorizonDays, cfg.SweepConcurrency)
	a.Monitoring = services.NewMonitoringService("/api/v1/admin", "/api/v1/monitoring", "/health")
}

// Postgres returns the Postgres store when that backend is in use.
func (a *App) Postgres() *store.PostgresStore {
	return a.pg
}

// Close releases the store.
func (a *App) Close() {
	if a.pg != nil {
		a.pg.Close()
	}
}
