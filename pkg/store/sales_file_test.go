package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"techmart-api/pkg/models"
)

func TestParseSalesFileCSV(t *testing.T) {
	data := "Date,Product_ID,Quantity,Status\n" +
		"2024-03-01,1,5,completed\n" +
		"2024/03/02,1,3,\n" +
		"2024-03-03,2,4,refunded\n" +
		"not-a-date,1,2,completed\n" +
		"2024-03-04,abc,2,completed\n" +
		"2024-03-05,1,0,completed\n"

	records, skipped, err := ParseSalesFile("sales.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Len(t, skipped, 3)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, int64(1), records[0].ProductID)
	assert.Equal(t, 5, records[0].Quantity)
	assert.Equal(t, models.TransactionStatusCompleted, records[1].Status)
	assert.Equal(t, models.TransactionStatusRefunded, records[2].Status)
	assert.Contains(t, skipped[0], "row 5")
}

func TestParseSalesFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"日付", "商品ID", "数量"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024-05-01", 7, 12}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"2024-05-02", 7, 8}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, skipped, err := ParseSalesFile("export.XLSX", buf)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, int64(7), records[1].ProductID)
	assert.Equal(t, 8, records[1].Quantity)
	assert.Equal(t, models.TransactionStatusCompleted, records[1].Status)
}

func TestParseSalesFileErrors(t *testing.T) {
	_, _, err := ParseSalesFile("sales.txt", strings.NewReader("date,product_id,quantity\n"))
	assert.Error(t, err)

	_, _, err = ParseSalesFile("sales.csv", strings.NewReader("date,quantity\n2024-01-01,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_id")

	_, _, err = ParseSalesFile("sales.csv", strings.NewReader("date,product_id,quantity\n"))
	assert.Error(t, err)
}
