package services

import (
	"context"
	"fmt"
	"log"

	"techmart-api/pkg/models"
)

// SuggestionService 発注提案の永続化と承認フローを扱うサービス
type SuggestionService struct {
	store SuggestionStore
}

// NewSuggestionService 新しい発注提案サービスを作成
func NewSuggestionService(store SuggestionStore) *SuggestionService {
	return &SuggestionService{store: store}
}

// Persist パイプライン結果の予測と提案を保存し、IDが付与された提案を返す
func (s *SuggestionService) Persist(ctx context.Context, result *PipelineResult) (*models.ReorderSuggestion, error) {
	if err := s.store.SaveForecast(ctx, result.Forecast); err != nil {
		return nil, fmt.Errorf("需要予測の保存に失敗: %w", err)
	}
	suggestion := result.Suggestion
	if err := s.store.SaveSuggestion(ctx, &suggestion); err != nil {
		return nil, fmt.Errorf("発注提案の保存に失敗: %w", err)
	}
	log.Printf("📦 Reorder suggestion %d saved for product %d (qty=%d, urgency=%.2f)",
		suggestion.ID, suggestion.ProductID, suggestion.SuggestedQuantity, suggestion.UrgencyScore)
	return &suggestion, nil
}

// HasPending 商品に未処理の提案があるか
func (s *SuggestionService) HasPending(ctx context.Context, productID int64) (bool, error) {
	return s.store.HasPendingSuggestion(ctx, productID)
}

// List 状態で絞り込んだ提案一覧（status空文字は全件）
func (s *SuggestionService) List(ctx context.Context, status string, limit int) ([]models.ReorderSuggestion, error) {
	if status != "" && !isSuggestionStatus(status) {
		return nil, newValidationError("unknown suggestion status %q", status)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.store.ListSuggestions(ctx, status, limit)
}

// ListForecasts 商品の過去の予測履歴
func (s *SuggestionService) ListForecasts(ctx context.Context, productID int64, limit int) ([]models.DemandForecast, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.store.ListForecasts(ctx, productID, limit)
}

// Approve pending → approved
func (s *SuggestionService) Approve(ctx context.Context, id int64) (*models.ReorderSuggestion, error) {
	return s.transition(ctx, id, models.SuggestionStatusPending, models.SuggestionStatusApproved)
}

// Reject pending → rejected
func (s *SuggestionService) Reject(ctx context.Context, id int64) (*models.ReorderSuggestion, error) {
	return s.transition(ctx, id, models.SuggestionStatusPending, models.SuggestionStatusRejected)
}

// MarkOrdered approved → ordered
func (s *SuggestionService) MarkOrdered(ctx context.Context, id int64) (*models.ReorderSuggestion, error) {
	return s.transition(ctx, id, models.SuggestionStatusApproved, models.SuggestionStatusOrdered)
}

func (s *SuggestionService) transition(ctx context.Context, id int64, from, to string) (*models.ReorderSuggestion, error) {
	updated, err := s.store.UpdateSuggestionStatus(ctx, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("suggestion %d %s→%s: %w", id, from, to, err)
	}
	log.Printf("✅ Reorder suggestion %d moved %s → %s", id, from, to)
	return updated, nil
}

func isSuggestionStatus(status string) bool {
	switch status {
	case models.SuggestionStatusPending, models.SuggestionStatusApproved,
		models.SuggestionStatusOrdered, models.SuggestionStatusRejected:
		return true
	}
	return false
}
