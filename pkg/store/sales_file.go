package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"techmart-api/pkg/models"
)

var salesDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/1/2",
	time.RFC3339,
}

// ParseSalesFile reads an .xlsx or .csv sales export with a header row containing
// date, product id and quantity columns (status is optional and defaults to
// completed). Rows that cannot be parsed are skipped and reported in skipped.
func ParseSalesFile(fileName string, r io.Reader) (records []models.SalesRecord, skipped []string, err error) {
	rows, err := readRows(fileName, r)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("ファイルにはヘッダー行と少なくとも1行のデータが必要です")
	}

	header := rows[0]
	dateIdx := findIndex(header, "date", "transaction_date", "日付")
	productIdx := findIndex(header, "product_id", "productid", "商品ID", "商品id", "製品ID")
	qtyIdx := findIndex(header, "quantity", "qty", "sales", "数量", "販売数")
	statusIdx := findIndex(header, "status", "ステータス")

	var missing []string
	if dateIdx == -1 {
		missing = append(missing, "date")
	}
	if productIdx == -1 {
		missing = append(missing, "product_id")
	}
	if qtyIdx == -1 {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("必須列が見つかりません: %s", strings.Join(missing, ", "))
	}

	for i, row := range rows[1:] {
		line := i + 2
		rec, err := parseSalesRow(row, dateIdx, productIdx, qtyIdx, statusIdx)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		records = append(records, rec)
	}
	log.Printf("📄 Parsed %s: %d records, %d skipped", fileName, len(records), len(skipped))
	return records, skipped, nil
}

func readRows(fileName string, r io.Reader) ([][]string, error) {
	switch lower := strings.ToLower(fileName); {
	case strings.HasSuffix(lower, ".xlsx"):
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("Excelファイルの読み込みに失敗: %w", err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("Excelシートの行取得に失敗: %w", err)
		}
		return rows, nil
	case strings.HasSuffix(lower, ".csv"):
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("CSVファイルの解析に失敗: %w", err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("サポートされていないファイル形式です: %s (.xlsx または .csv)", fileName)
	}
}

func parseSalesRow(row []string, dateIdx, productIdx, qtyIdx, statusIdx int) (models.SalesRecord, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	ts, err := parseSalesDate(cell(dateIdx))
	if err != nil {
		return models.SalesRecord{}, err
	}
	productID, err := strconv.ParseInt(cell(productIdx), 10, 64)
	if err != nil || productID <= 0 {
		return models.SalesRecord{}, fmt.Errorf("invalid product_id %q", cell(productIdx))
	}
	qty, err := strconv.Atoi(cell(qtyIdx))
	if err != nil || qty <= 0 {
		return models.SalesRecord{}, fmt.Errorf("invalid quantity %q", cell(qtyIdx))
	}
	status := strings.ToLower(cell(statusIdx))
	if status == "" {
		status = models.TransactionStatusCompleted
	}
	return models.SalesRecord{Timestamp: ts, ProductID: productID, Quantity: qty, Status: status}, nil
}

func parseSalesDate(s string) (time.Time, error) {
	for _, layout := range salesDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// findIndex finds the index of the first candidate in a header row
func findIndex(header []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range header {
			if strings.EqualFold(strings.TrimSpace(item), candidate) {
				return i
			}
		}
	}
	return -1
}
