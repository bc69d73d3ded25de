package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"techmart-api/pkg/models"
	"techmart-api/pkg/services"
)

// MemoryStore is an in-process store used for local runs and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	products     map[int64]models.Product
	suppliers    map[int64][]models.SupplierCandidate
	transactions map[int64][]models.SalesRecord
	forecasts    []models.DemandForecast
	suggestions  []models.ReorderSuggestion
	alerts       []models.Alert
	nextID       int64
	now          func() time.Time
}

var (
	_ services.TransactionReader = (*MemoryStore)(nil)
	_ services.TransactionWriter = (*MemoryStore)(nil)
	_ services.SupplierDirectory = (*MemoryStore)(nil)
	_ services.ProductReader     = (*MemoryStore)(nil)
	_ services.SuggestionStore   = (*MemoryStore)(nil)
	_ services.AlertStore        = (*MemoryStore)(nil)
)

// NewMemoryStore 空のインメモリストアを作成
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:     make(map[int64]models.Product),
		suppliers:    make(map[int64][]models.SupplierCandidate),
		transactions: make(map[int64][]models.SalesRecord),
		now:          time.Now,
	}
}

// PutProduct 商品を登録（同一IDは上書き）
func (m *MemoryStore) PutProduct(p models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// PutSupplier 商品の仕入先候補を追加
func (m *MemoryStore) PutSupplier(productID int64, c models.SupplierCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suppliers[productID] = append(m.suppliers[productID], c)
}

func (m *MemoryStore) InsertTransactions(_ context.Context, records []models.SalesRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.transactions[r.ProductID] = append(m.transactions[r.ProductID], r)
	}
	return len(records), nil
}

func (m *MemoryStore) CompletedQuantities(_ context.Context, productID int64, from, to time.Time) ([]models.TransactionRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.TransactionRow
	for _, r := range m.transactions[productID] {
		if r.Status != models.TransactionStatusCompleted {
			continue
		}
		if r.Timestamp.Before(from) || !r.Timestamp.Before(to) {
			continue
		}
		out = append(out, models.TransactionRow{Date: r.Timestamp, Quantity: r.Quantity})
	}
	return out, nil
}

func (m *MemoryStore) SupplierCandidates(_ context.Context, productID int64) ([]models.SupplierCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.SupplierCandidate(nil), m.suppliers[productID]...), nil
}

func (m *MemoryStore) GetProduct(_ context.Context, productID int64) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, services.ErrProductNotFound
	}
	return &p, nil
}

func (m *MemoryStore) ListReorderCandidates(_ context.Context) ([]models.Product, error) {
	return m.filterProducts(func(p models.Product) bool {
		return p.StockQuantity <= p.ReorderThreshold
	}), nil
}

func (m *MemoryStore) ListCriticalStock(_ context.Context) ([]models.Product, error) {
	return m.filterProducts(func(p models.Product) bool {
		return float64(p.StockQuantity) <= float64(p.ReorderThreshold)*0.2
	}), nil
}

func (m *MemoryStore) filterProducts(keep func(models.Product) bool) []models.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Product
	for _, p := range m.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryStore) SaveForecast(_ context.Context, f models.DemandForecast) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forecasts = append(m.forecasts, f)
	return nil
}

func (m *MemoryStore) ListForecasts(_ context.Context, productID int64, limit int) ([]models.DemandForecast, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.DemandForecast
	for i := len(m.forecasts) - 1; i >= 0 && len(out) < limit; i-- {
		if m.forecasts[i].ProductID == productID {
			out = append(out, m.forecasts[i])
		}
	}
	return out, nil
}

func (m *MemoryStore) SaveSuggestion(_ context.Context, sg *models.ReorderSuggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := m.now()
	sg.ID = m.nextID
	sg.CreatedAt = now
	sg.UpdatedAt = now
	m.suggestions = append(m.suggestions, *sg)
	return nil
}

func (m *MemoryStore) HasPendingSuggestion(_ context.Context, productID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sg := range m.suggestions {
		if sg.ProductID == productID && sg.Status == models.SuggestionStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListSuggestions(_ context.Context, status string, limit int) ([]models.ReorderSuggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.ReorderSuggestion
	for _, sg := range m.suggestions {
		if status == "" || sg.Status == status {
			out = append(out, sg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UrgencyScore != out[j].UrgencyScore {
			return out[i].UrgencyScore > out[j].UrgencyScore
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) UpdateSuggestionStatus(_ context.Context, id int64, from, to string) (*models.ReorderSuggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.suggestions {
		if m.suggestions[i].ID != id {
			continue
		}
		if m.suggestions[i].Status != from {
			return nil, services.ErrSuggestionNotPending
		}
		m.suggestions[i].Status = to
		m.suggestions[i].UpdatedAt = m.now()
		sg := m.suggestions[i]
		return &sg, nil
	}
	return nil, services.ErrSuggestionNotFound
}

func (m *MemoryStore) HasRecentAlert(_ context.Context, productID int64, alertType string, since time.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.alerts {
		if a.ProductID == productID && a.AlertType == alertType && !a.IsResolved && !a.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) SaveAlert(_ context.Context, a *models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	a.ID = m.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = m.now()
	}
	m.alerts = append(m.alerts, *a)
	return nil
}

func (m *MemoryStore) ListAlerts(_ context.Context, unresolvedOnly bool) ([]models.Alert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Alert
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if unresolvedOnly && m.alerts[i].IsResolved {
			continue
		}
		out = append(out, m.alerts[i])
	}
	return out, nil
}
