package services

import (
	"context"
	"time"

	"techmart-api/pkg/models"
)

// TransactionReader 完了済み取引の (日時, 数量) を期間指定で返す
type TransactionReader interface {
	CompletedQuantities(ctx context.Context, productID int64, from, to time.Time) ([]models.TransactionRow, error)
}

// SupplierDirectory 商品に対して発注可能な仕入先候補を返す
type SupplierDirectory interface {
	SupplierCandidates(ctx context.Context, productID int64) ([]models.SupplierCandidate, error)
}

// ProductReader 商品マスタの在庫情報を返す
type ProductReader interface {
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
	// ListReorderCandidates returns products whose stock is at or below the reorder threshold.
	ListReorderCandidates(ctx context.Context) ([]models.Product, error)
	// ListCriticalStock returns products whose stock is at or below 20% of the reorder threshold.
	ListCriticalStock(ctx context.Context) ([]models.Product, error)
}

// SuggestionStore 予測と発注提案の永続化先
type SuggestionStore interface {
	SaveForecast(ctx context.Context, forecast models.DemandForecast) error
	SaveSuggestion(ctx context.Context, suggestion *models.ReorderSuggestion) error
	HasPendingSuggestion(ctx context.Context, productID int64) (bool, error)
	ListSuggestions(ctx context.Context, status string, limit int) ([]models.ReorderSuggestion, error)
	// UpdateSuggestionStatus moves a suggestion from one status to another and fails
	// with ErrSuggestionNotPending when the current status is not from.
	UpdateSuggestionStatus(ctx context.Context, id int64, from, to string) (*models.ReorderSuggestion, error)
	ListForecasts(ctx context.Context, productID int64, limit int) ([]models.DemandForecast, error)
}

// AlertStore 在庫アラートの永続化先
type AlertStore interface {
	HasRecentAlert(ctx context.Context, productID int64, alertType string, since time.Time) (bool, error)
	SaveAlert(ctx context.Context, alert *models.Alert) error
	ListAlerts(ctx context.Context, unresolvedOnly bool) ([]models.Alert, error)
}

// TransactionWriter 取引データの取り込み先
type TransactionWriter interface {
	InsertTransactions(ctx context.Context, records []models.SalesRecord) (int, error)
}
