package services

import (
	"context"
	"fmt"
	"time"

	"techmart-api/pkg/models"
)

// DefaultLookbackDays 集計対象期間のデフォルト日数
const DefaultLookbackDays = 90

// HistoryService 取引履歴を日次需要系列に集計するサービス
type HistoryService struct {
	reader TransactionReader
	now    func() time.Time
}

// NewHistoryService 新しい履歴集計サービスを作成
func NewHistoryService(reader TransactionReader) *HistoryService {
	return &HistoryService{
		reader: reader,
		now:    time.Now,
	}
}

// GetDailyDemand 商品の日次需要系列を [today-N, today) で取得する
func (s *HistoryService) GetDailyDemand(ctx context.Context, productID int64, lookbackDays int) ([]models.DailyDemandPoint, error) {
	if lookbackDays <= 0 {
		return nil, newValidationError("lookback days must be positive, got %d", lookbackDays)
	}

	today := truncateToDay(s.now())
	from := today.AddDate(0, 0, -lookbackDays)

	rows, err := s.reader.CompletedQuantities(ctx, productID, from, today)
	if err != nil {
		return nil, fmt.Errorf("%w: product %d: %v", ErrDataUnavailable, productID, err)
	}

	return AggregateDailyDemand(rows, today, lookbackDays)
}

// AggregateDailyDemand sums completed quantities per UTC calendar day over
// [today-lookbackDays, today) and zero-fills days without sales. Rows outside the
// window are ignored. A product with no rows in the window yields an empty series.
func AggregateDailyDemand(rows []models.TransactionRow, today time.Time, lookbackDays int) ([]models.DailyDemandPoint, error) {
	if lookbackDays <= 0 {
		return nil, newValidationError("lookback days must be positive, got %d", lookbackDays)
	}

	end := truncateToDay(today)
	start := end.AddDate(0, 0, -lookbackDays)

	totals := make(map[time.Time]int)
	for _, row := range rows {
		day := truncateToDay(row.Date)
		if day.Before(start) || !day.Before(end) {
			continue
		}
		if row.Quantity <= 0 {
			continue
		}
		totals[day] += row.Quantity
	}
	if len(totals) == 0 {
		return []models.DailyDemandPoint{}, nil
	}

	series := make([]models.DailyDemandPoint, 0, lookbackDays)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		series = append(series, models.DailyDemandPoint{
			Date:      day,
			UnitsSold: totals[day],
		})
	}
	return series, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
