package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"techmart-api/pkg/models"
	"techmart-api/pkg/services"
)

// PostgresStore implements the inventory readers and sinks on top of a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var (
	_ services.TransactionReader = (*PostgresStore)(nil)
	_ services.TransactionWriter = (*PostgresStore)(nil)
	_ services.SupplierDirectory = (*PostgresStore)(nil)
	_ services.ProductReader     = (*PostgresStore)(nil)
	_ services.SuggestionStore   = (*PostgresStore)(nil)
	_ services.AlertStore        = (*PostgresStore)(nil)
)

// NewPostgresStore はコネクションプールを作成し疎通確認を行います。
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	log.Println("✅ Successfully connected to the database")
	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
		log.Println("Database connection pool closed")
	}
}

// Migrate スキーマを作成
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Ping はヘルスチェック用
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) CompletedQuantities(ctx context.Context, productID int64, from, to time.Time) ([]models.TransactionRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT transaction_date, quantity
		FROM transactions
		WHERE product_id = $1 AND status = $2
		  AND transaction_date >= $3 AND transaction_date < $4
		ORDER BY transaction_date`,
		productID, models.TransactionStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TransactionRow
	for rows.Next() {
		var r models.TransactionRow
		if err := rows.Scan(&r.Date, &r.Quantity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertTransactions は CopyFrom で取引を一括投入します。
func (s *PostgresStore) InsertTransactions(ctx context.Context, records []models.SalesRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	n, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"transactions"},
		[]string{"product_id", "quantity", "status", "transaction_date"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{r.ProductID, r.Quantity, r.Status, r.Timestamp}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy transactions: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) SupplierCandidates(ctx context.Context, productID int64) ([]models.SupplierCandidate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.name, ps.unit_price::text, s.reliability_score::float8, s.average_delivery_days::float8
		FROM product_suppliers ps
		JOIN suppliers s ON s.id = ps.supplier_id
		WHERE ps.product_id = $1 AND s.is_active
		ORDER BY s.id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SupplierCandidate
	for rows.Next() {
		var (
			c     models.SupplierCandidate
			price string
		)
		if err := rows.Scan(&c.SupplierID, &c.Name, &price, &c.ReliabilityScore, &c.AverageDeliveryDays); err != nil {
			return nil, err
		}
		if c.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("supplier %d: invalid price %q: %w", c.SupplierID, price, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const productColumns = `id, name, sku, category, price::text, stock_quantity, reorder_threshold, reorder_quantity, supplier_id`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var (
		p     models.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &price, &p.StockQuantity,
		&p.ReorderThreshold, &p.ReorderQuantity, &p.DefaultSupplierID); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %d: invalid price %q: %w", p.ID, price, err)
	}
	p.Price = d
	return &p, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND is_active`, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, services.ErrProductNotFound
	}
	return p, err
}

func (s *PostgresStore) ListReorderCandidates(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products
		WHERE is_active AND stock_quantity <= reorder_threshold ORDER BY id`)
}

func (s *PostgresStore) ListCriticalStock(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products
		WHERE is_active AND stock_quantity <= reorder_threshold * 0.2 ORDER BY stock_quantity, id`)
}

func (s *PostgresStore) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
