package spreadsheet

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// Sheet names of an exported report workbook
const (
	SheetSummary  = "Summary"
	SheetProducts = "Products"
	SheetStock    = "Stock"
)

var productHeaders = []string{
	"#", "Product", "Quantity", "Cost", "Selling Price", "Unit Margin", "Margin %",
	"Stock Value", "Sales / Week", "Weekly Revenue", "Weeks of Cover", "Lead Time (days)",
	"Reorder Point", "Low Stock",
}

var stockHeaders = []string{"#", "Date", "Product", "Quantity Sold", "Stock Remaining", "Sell-through %"}

// Exporter implements port.ReportExporter by writing an xlsx workbook
// into file storage
type Exporter struct {
	files  port.FileStorage
	dir    string
	logger *zap.Logger
}

// NewExporter creates an exporter writing workbooks under dir in files
func NewExporter(files port.FileStorage, dir string, logger *zap.Logger) *Exporter {
	return &Exporter{
		files:  files,
		dir:    dir,
		logger: logger,
	}
}

// Export writes the report workbook and returns its storage path
func (e *Exporter) Export(ctx context.Context, report *entity.Report) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return "", fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := e.fillSummary(f, report); err != nil {
		return "", fmt.Errorf("failed to fill summary: %w", err)
	}
	if err := e.fillProducts(f, report.Products); err != nil {
		return "", fmt.Errorf("failed to fill products: %w", err)
	}
	if err := e.fillStock(f, report.StockEntries); err != nil {
		return "", fmt.Errorf("failed to fill stock entries: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to render workbook: %w", err)
	}

	outputPath := path.Join(e.dir, report.ID+".xlsx")
	if err := e.files.Save(ctx, outputPath, buf.Bytes()); err != nil {
		return "", err
	}

	e.logger.Info("Report exported",
		zap.String("report_id", report.ID),
		zap.String("path", outputPath),
		zap.Int("products", len(report.Products)))
	return outputPath, nil
}

func (e *Exporter) fillSummary(f *excelize.File, r *entity.Report) error {
	rows := [][]interface{}{
		{"Report", r.ID},
		{"Generated", r.CreatedAt.Format("2006-01-02 15:04 MST")},
		{"Business", r.Business.Name},
		{"Type", r.Business.Type},
		{"Location", r.Business.Location},
		{"Size", r.Business.Size},
		{"Supplier", r.Supplier.SupplierName},
		{"Supplier Email", r.Supplier.ContactEmail},
		{"Supplier Phone", r.Supplier.ContactPhone},
		{"Delivery Days", r.Supplier.DeliveryDays},
		{},
		{"Products", r.Totals.ProductCount},
		{"Total Units", number(r.Totals.TotalUnits)},
		{"Inventory Cost", number(r.Totals.InventoryCost)},
		{"Inventory Value", number(r.Totals.InventoryValue)},
		{"Potential Profit", number(r.Totals.PotentialProfit)},
		{"Low Stock Products", r.Totals.LowStockProducts},
		{},
		{"Data File", "Format", "Rows", "Read"},
	}
	for _, att := range r.Attachments {
		rows = append(rows, []interface{}{att.FileName, att.Format, att.Rows, yesNo(att.Parsed)})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("failed to set summary row %d: %w", i+1, err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "B", 22)
}

func (e *Exporter) fillProducts(f *excelize.File, products []entity.ProductLine) error {
	if _, err := f.NewSheet(SheetProducts); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetProducts, "A1", &productHeaders); err != nil {
		return err
	}

	for i, p := range products {
		row := []interface{}{
			p.Position, p.Name, number(p.Quantity), number(p.Cost), number(p.SellingPrice),
			number(p.UnitMargin), number(p.MarginPercent), number(p.StockValue),
			number(p.SalesPerWeek), number(p.WeeklyRevenue), number(p.WeeksOfCover),
			number(p.LeadTimeDays), number(p.ReorderPoint), yesNo(p.LowStock),
		}
		if err := f.SetSheetRow(SheetProducts, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("failed to set product row %d: %w", i+2, err)
		}
	}
	return f.SetColWidth(SheetProducts, "B", "B", 24)
}

func (e *Exporter) fillStock(f *excelize.File, entries []entity.StockLine) error {
	if _, err := f.NewSheet(SheetStock); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetStock, "A1", &stockHeaders); err != nil {
		return err
	}

	for i, s := range entries {
		row := []interface{}{
			s.Position, s.Date, s.Product, number(s.QuantitySold),
			number(s.StockRemaining), number(s.SellThrough),
		}
		if err := f.SetSheetRow(SheetStock, "A"+strconv.Itoa(i+2), &row); err != nil {
			return fmt.Errorf("failed to set stock row %d: %w", i+2, err)
		}
	}
	return nil
}

// number writes decimal strings as numeric cells; blanks stay empty
func number(v string) interface{} {
	if v == "" {
		return nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return v
	}
	f, _ := d.Float64()
	return f
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Verify interface compliance
var _ port.ReportExporter = (*Exporter)(nil)
