package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"techmart-api/pkg/models"
)

// SeedDemoData はローカル実行用のサンプル商品・仕入先・販売履歴を投入します。
func SeedDemoData(m *MemoryStore, days int) {
	supplierA := int64(1)
	m.PutProduct(models.Product{ID: 1, Name: "Wireless Mouse", SKU: "TM-MOUSE-01", Category: "peripherals",
		Price: decimal.RequireFromString("29.99"), StockQuantity: 18, ReorderThreshold: 40, ReorderQuantity: 50, DefaultSupplierID: &supplierA})
	m.PutProduct(models.Product{ID: 2, Name: "USB-C Hub", SKU: "TM-HUB-02", Category: "accessories",
		Price: decimal.RequireFromString("49.00"), StockQuantity: 3, ReorderThreshold: 30, ReorderQuantity: 25})
	m.PutProduct(models.Product{ID: 3, Name: "Mechanical Keyboard", SKU: "TM-KB-03", Category: "peripherals",
		Price: decimal.RequireFromString("119.50"), StockQuantity: 240, ReorderThreshold: 60, ReorderQuantity: 40})

	m.PutSupplier(1, models.SupplierCandidate{SupplierID: 1, Name: "Acme Components", Price: decimal.NewFromInt(40), ReliabilityScore: 0.92, AverageDeliveryDays: 5})
	m.PutSupplier(1, models.SupplierCandidate{SupplierID: 2, Name: "Pacific Supply", Price: decimal.NewFromInt(35), ReliabilityScore: 0.95, AverageDeliveryDays: 3})
	m.PutSupplier(3, models.SupplierCandidate{SupplierID: 2, Name: "Pacific Supply", Price: decimal.NewFromInt(70), ReliabilityScore: 0.95, AverageDeliveryDays: 3})

	base := time.Now().UTC().AddDate(0, 0, -days)
	var records []models.SalesRecord
	for i := 0; i < days; i++ {
		date := base.AddDate(0, 0, i)

		// 週末は販売増
		weekday := 1.0
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			weekday = 1.3
		}
		trend := 1.0 + float64(i)/float64(days)*0.1
		noise := 0.9 + 0.2*float64(i%10)/10.0

		records = append(records,
			models.SalesRecord{Timestamp: date, ProductID: 1, Quantity: int(8 * weekday * trend * noise), Status: models.TransactionStatusCompleted},
			models.SalesRecord{Timestamp: date, ProductID: 3, Quantity: int(4 * weekday * noise), Status: models.TransactionStatusCompleted},
		)
		if i%3 == 0 {
			records = append(records, models.SalesRecord{Timestamp: date, ProductID: 2, Quantity: 2, Status: models.TransactionStatusCompleted})
		}
	}
	_, _ = m.InsertTransactions(context.Background(), records)
}
