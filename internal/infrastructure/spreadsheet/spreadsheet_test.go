package spreadsheet

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
	"github.com/garyjia/arziki-reports/internal/infrastructure/storage"
)

func newTestInspector(t *testing.T) *Inspector {
	t.Helper()
	inspector, err := NewInspector(zap.NewNop())
	require.NoError(t, err)
	return inspector
}

func TestInspector_CSV(t *testing.T) {
	inspector := newTestInspector(t)
	content := []byte("date,product,quantitySold\n2024-05-01,Rice,12\n\n2024-05-02,Beans,4\n")

	summary, err := inspector.Inspect(context.Background(), entity.Attachment{ID: "a1", FileName: "sales.csv"}, content)

	require.NoError(t, err)
	assert.Equal(t, "a1", summary.AttachmentID)
	assert.Equal(t, "csv", summary.Format)
	assert.Equal(t, 2, summary.Rows)
	assert.True(t, summary.Parsed)
	assert.Equal(t, "columns: date, product, quantitySold", summary.Note)
}

func TestInspector_CSVMalformed(t *testing.T) {
	inspector := newTestInspector(t)
	content := []byte("date,product\n\"2024-05-01,Rice\n")

	_, err := inspector.Inspect(context.Background(), entity.Attachment{FileName: "sales.csv"}, content)

	assert.Error(t, err)
}

func TestInspector_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"product", "quantity"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Rice", 50}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Beans", 20}))
	_, err := f.NewSheet("May")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("May", "A1", &[]interface{}{"product"}))
	require.NoError(t, f.SetSheetRow("May", "A2", &[]interface{}{"Sugar"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	summary, err := newTestInspector(t).Inspect(context.Background(), entity.Attachment{FileName: "stock.XLSX"}, buf.Bytes())

	require.NoError(t, err)
	assert.Equal(t, "xlsx", summary.Format)
	assert.Equal(t, []string{"Sheet1", "May"}, summary.Sheets)
	assert.Equal(t, 3, summary.Rows)
	assert.True(t, summary.Parsed)
}

func TestInspector_XLSXCorrupt(t *testing.T) {
	_, err := newTestInspector(t).Inspect(context.Background(), entity.Attachment{FileName: "stock.xlsx"}, []byte("not a zip"))
	assert.Error(t, err)
}

func TestInspector_XLSIsStoredNotRead(t *testing.T) {
	summary, err := newTestInspector(t).Inspect(context.Background(), entity.Attachment{FileName: "old.xls"}, []byte{0xD0, 0xCF})

	require.NoError(t, err)
	assert.False(t, summary.Parsed)
	assert.Contains(t, summary.Note, ".xlsx")
}

func TestInspector_JSON(t *testing.T) {
	inspector := newTestInspector(t)
	att := entity.Attachment{FileName: "stock.json"}

	t.Run("stock export", func(t *testing.T) {
		content := []byte(`[{"product":"Rice","quantitySold":12},{"product":"Beans","stockRemaining":"4"}]`)
		summary, err := inspector.Inspect(context.Background(), att, content)
		require.NoError(t, err)
		assert.True(t, summary.Parsed)
		assert.Equal(t, 2, summary.Rows)
	})

	t.Run("wrong shape", func(t *testing.T) {
		summary, err := inspector.Inspect(context.Background(), att, []byte(`[{"quantitySold":12}]`))
		require.NoError(t, err)
		assert.False(t, summary.Parsed)
		assert.Contains(t, summary.Note, "not a stock export")
	})

	t.Run("not json", func(t *testing.T) {
		_, err := inspector.Inspect(context.Background(), att, []byte(`{"product":`))
		assert.Error(t, err)
	})
}

func TestInspector_UnsupportedType(t *testing.T) {
	_, err := newTestInspector(t).Inspect(context.Background(), entity.Attachment{FileName: "scan.pdf"}, []byte("%PDF"))
	assert.Error(t, err)
}

func TestExporter_Export(t *testing.T) {
	base := t.TempDir()
	files := storage.NewLocalFileStorage(base, zap.NewNop())
	exporter := NewExporter(files, "exports", zap.NewNop())

	report := &entity.Report{
		ID:       "r1",
		Business: entity.BusinessInfo{Name: "ABC Mart", Type: "supermarket", Location: "Lagos", Size: "small"},
		Products: []entity.ProductLine{
			{Position: 1, Name: "Rice", Quantity: "50", Cost: "10.00", SellingPrice: "15.00", UnitMargin: "5.00", MarginPercent: "33.3", StockValue: "500.00", LowStock: true},
		},
		StockEntries: []entity.StockLine{
			{Position: 1, Date: "2024-05-01", Product: "Rice", QuantitySold: "30", StockRemaining: "10", SellThrough: "75.0"},
		},
		Attachments: []entity.AttachmentSummary{{FileName: "sales.csv", Format: "csv", Rows: 2, Parsed: true}},
		Totals:      entity.ReportTotals{ProductCount: 1, TotalUnits: "50", InventoryCost: "500.00"},
		CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	outputPath, err := exporter.Export(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "exports/r1.xlsx", outputPath)

	f, err := excelize.OpenFile(filepath.Join(base, outputPath))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetProducts, SheetStock}, f.GetSheetList())

	business, err := f.GetCellValue(SheetSummary, "B3")
	require.NoError(t, err)
	assert.Equal(t, "ABC Mart", business)

	name, err := f.GetCellValue(SheetProducts, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Rice", name)

	margin, err := f.GetCellValue(SheetProducts, "F2")
	require.NoError(t, err)
	assert.Equal(t, "5", margin)

	low, err := f.GetCellValue(SheetProducts, "N2")
	require.NoError(t, err)
	assert.Equal(t, "Yes", low)

	sellThrough, err := f.GetCellValue(SheetStock, "F2")
	require.NoError(t, err)
	assert.Equal(t, "75", sellThrough)
}
