package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Suggestion statuses. The planner only ever creates StatusPending; the approval
// workflow moves suggestions through the rest.
const (
	SuggestionStatusPending  = "pending"
	SuggestionStatusApproved = "approved"
	SuggestionStatusOrdered  = "ordered"
	SuggestionStatusRejected = "rejected"
)

// Transaction statuses as stored by the order pipeline.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusRefunded  = "refunded"
	TransactionStatusCancelled = "cancelled"
)

// Alert types and severities.
const (
	AlertTypeLowStock = "low_stock"

	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
)

// DailyDemandPoint represents units sold for a product on one calendar day
type DailyDemandPoint struct {
	Date      time.Time `json:"date"`
	UnitsSold int       `json:"units_sold"` // 0 for days without sales
}

// DemandForecast represents the demand prediction for a future horizon
type DemandForecast struct {
	ProductID         int64     `json:"product_id"`
	PredictedDemand   int       `json:"predicted_demand"`   // horizon全体の予測数量
	ConfidenceScore   float64   `json:"confidence_score"`   // 0.0-1.0
	TrendFactor       float64   `json:"trend_factor"`       // 0.5-2.0
	SeasonalityFactor float64   `json:"seasonality_factor"` // 0.8-1.3
	HorizonDays       int       `json:"horizon_days"`
	MA7               float64   `json:"ma_7"`
	MA30              float64   `json:"ma_30"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// SupplierCandidate represents a supplier eligible to deliver a product
type SupplierCandidate struct {
	SupplierID          int64           `json:"supplier_id"`
	Name                string          `json:"name,omitempty"`
	Price               decimal.Decimal `json:"price"`                 // 単価 (> 0)
	ReliabilityScore    float64         `json:"reliability_score"`     // 0.0-1.0
	AverageDeliveryDays float64         `json:"average_delivery_days"` // >= 0
}

// SupplierScore represents the weighted score of one supplier candidate
type SupplierScore struct {
	SupplierID          int64   `json:"supplier_id"`
	TotalScore          float64 `json:"total_score"`
	PriceScore          float64 `json:"price_score"`
	ReliabilityScore    float64 `json:"reliability_score"`
	DeliveryScore       float64 `json:"delivery_score"`
	AverageDeliveryDays float64 `json:"average_delivery_days"`
}

// ReorderSuggestion represents a reorder proposal awaiting approval
type ReorderSuggestion struct {
	ID                    int64      `json:"id,omitempty"`
	ProductID             int64      `json:"product_id"`
	SuggestedQuantity     int        `json:"suggested_quantity"`
	SuggestedSupplierID   *int64     `json:"suggested_supplier_id"` // nil = 手動での仕入先選定が必要
	UrgencyScore          float64    `json:"urgency_score"`
	EstimatedStockoutDate *time.Time `json:"estimated_stockout_date"`
	Reasoning             string     `json:"reasoning"`
	Status                string     `json:"status"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Product represents the inventory fields of a catalogue product
type Product struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	ReorderThreshold  int             `json:"reorder_threshold"`
	ReorderQuantity   int             `json:"reorder_quantity"` // 最小発注数量
	DefaultSupplierID *int64          `json:"default_supplier_id,omitempty"`
}

// TransactionRow represents a completed sale as read for aggregation
type TransactionRow struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// SalesRecord represents a single imported sales line.
// This is used to import historical transactions from spreadsheets.
type SalesRecord struct {
	Timestamp time.Time `json:"timestamp"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
}

// Alert represents an inventory alert raised by the stock level check
type Alert struct {
	ID         int64     `json:"id,omitempty"`
	AlertType  string    `json:"alert_type"`
	Severity   string    `json:"severity"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	ProductID  int64     `json:"product_id"`
	IsResolved bool      `json:"is_resolved"`
	CreatedAt  time.Time `json:"created_at"`
}

// SweepReport represents the outcome of one reorder sweep run
type SweepReport struct {
	RunID              string           `json:"run_id"`
	StartedAt          time.Time        `json:"started_at"`
	FinishedAt         time.Time        `json:"finished_at"`
	ProductsChecked    int              `json:"products_checked"`
	SuggestionsCreated int              `json:"suggestions_created"`
	SkippedPending     int              `json:"skipped_pending"`
	Failures           map[int64]string `json:"failures,omitempty"`
	AlertsCreated      int              `json:"alerts_created"`
}
