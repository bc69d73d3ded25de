package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"techmart-api/pkg/models"
	"techmart-api/pkg/services"
)

func (s *PostgresStore) SaveForecast(ctx context.Context, f models.DemandForecast) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO inventory_predictions
			(product_id, predicted_demand, confidence_score, trend_factor, seasonality_factor, horizon_days, ma_7, ma_30, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ProductID, f.PredictedDemand, f.ConfidenceScore, f.TrendFactor, f.SeasonalityFactor,
		f.HorizonDays, f.MA7, f.MA30, f.GeneratedAt)
	return err
}

func (s *PostgresStore) ListForecasts(ctx context.Context, productID int64, limit int) ([]models.DemandForecast, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, predicted_demand, confidence_score, trend_factor, seasonality_factor, horizon_days, ma_7, ma_30, generated_at
		FROM inventory_predictions
		WHERE product_id = $1
		ORDER BY generated_at DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DemandForecast
	for rows.Next() {
		var f models.DemandForecast
		if err := rows.Scan(&f.ProductID, &f.PredictedDemand, &f.ConfidenceScore, &f.TrendFactor,
			&f.SeasonalityFactor, &f.HorizonDays, &f.MA7, &f.MA30, &f.GeneratedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveSuggestion(ctx context.Context, sg *models.ReorderSuggestion) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO reorder_suggestions
			(product_id, suggested_quantity, suggested_supplier_id, urgency_score, estimated_stockout_date, reasoning, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		sg.ProductID, sg.SuggestedQuantity, sg.SuggestedSupplierID, sg.UrgencyScore,
		sg.EstimatedStockoutDate, sg.Reasoning, sg.Status,
	).Scan(&sg.ID, &sg.CreatedAt, &sg.UpdatedAt)
}

func (s *PostgresStore) HasPendingSuggestion(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reorder_suggestions WHERE product_id = $1 AND status = $2)`,
		productID, models.SuggestionStatusPending).Scan(&exists)
	return exists, err
}

const suggestionColumns = `id, product_id, suggested_quantity, suggested_supplier_id, urgency_score,
	estimated_stockout_date, reasoning, status, created_at, updated_at`

func scanSuggestion(row pgx.Row) (*models.ReorderSuggestion, error) {
	var sg models.ReorderSuggestion
	err := row.Scan(&sg.ID, &sg.ProductID, &sg.SuggestedQuantity, &sg.SuggestedSupplierID, &sg.UrgencyScore,
		&sg.EstimatedStockoutDate, &sg.Reasoning, &sg.Status, &sg.CreatedAt, &sg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sg, nil
}

func (s *PostgresStore) ListSuggestions(ctx context.Context, status string, limit int) ([]models.ReorderSuggestion, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+suggestionColumns+`
		FROM reorder_suggestions
		WHERE ($1 = '' OR status = $1)
		ORDER BY urgency_score DESC, created_at DESC
		LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReorderSuggestion
	for rows.Next() {
		sg, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sg)
	}
	return out, rows.Err()
}

// UpdateSuggestionStatus は現在の状態が from の場合のみ to に更新します。
func (s *PostgresStore) UpdateSuggestionStatus(ctx context.Context, id int64, from, to string) (*models.ReorderSuggestion, error) {
	sg, err := scanSuggestion(s.pool.QueryRow(ctx, `
		UPDATE reorder_suggestions SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+suggestionColumns, id, from, to))
	if err == nil {
		return sg, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reorder_suggestions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, services.ErrSuggestionNotFound
	}
	return nil, services.ErrSuggestionNotPending
}

func (s *PostgresStore) HasRecentAlert(ctx context.Context, productID int64, alertType string, since time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE entity_type = 'product' AND entity_id = $1 AND alert_type = $2
			  AND NOT is_resolved AND created_at >= $3)`,
		productID, alertType, since).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) SaveAlert(ctx context.Context, a *models.Alert) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO alerts (alert_type, severity, title, message, entity_type, entity_id, is_resolved, created_at)
		VALUES ($1, $2, $3, $4, 'product', $5, $6, $7)
		RETURNING id`,
		a.AlertType, a.Severity, a.Title, a.Message, a.ProductID, a.IsResolved, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAlerts(ctx context.Context, unresolvedOnly bool) ([]models.Alert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, alert_type, severity, title, message, entity_id, is_resolved, created_at
		FROM alerts
		WHERE entity_type = 'product' AND (NOT $1 OR NOT is_resolved)
		ORDER BY created_at DESC
		LIMIT 200`, unresolvedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var a models.Alert
		if err := rows.Scan(&a.ID, &a.AlertType, &a.Severity, &a.Title, &a.Message, &a.ProductID, &a.IsResolved, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
