package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

var (
	hundred    = decimal.NewFromInt(100)
	daysInWeek = decimal.NewFromInt(7)
)

// Analysis holds the derived lines and totals of a draft
type Analysis struct {
	Products     []entity.ProductLine
	StockEntries []entity.StockLine
	Totals       entity.ReportTotals
}

// Analyze derives per-product and per-stock-entry figures from a draft.
// Required product numbers must parse as non-negative decimals; optional
// ones may be blank. Stock entries left completely blank are ignored.
func Analyze(draft entity.Draft) (*Analysis, error) {
	analysis := &Analysis{
		Products:     make([]entity.ProductLine, 0, len(draft.Products)),
		StockEntries: make([]entity.StockLine, 0, len(draft.StockEntries)),
	}

	totalUnits := decimal.Zero
	inventoryCost := decimal.Zero
	inventoryValue := decimal.Zero
	profit := decimal.Zero

	for i, p := range draft.Products {
		field := func(name string) string { return fmt.Sprintf("products[%d].%s", i, name) }

		qty, err := requiredAmount(field(entity.ProductFieldQuantity), p.Quantity)
		if err != nil {
			return nil, err
		}
		cost, err := requiredAmount(field(entity.ProductFieldCost), p.Cost)
		if err != nil {
			return nil, err
		}
		price, err := requiredAmount(field(entity.ProductFieldSellingPrice), p.SellingPrice)
		if err != nil {
			return nil, err
		}
		sales, hasSales, err := optionalAmount(field(entity.ProductFieldSalesPerWeek), p.SalesPerWeek)
		if err != nil {
			return nil, err
		}
		lead, hasLead, err := optionalAmount(field(entity.ProductFieldLeadTime), p.LeadTime)
		if err != nil {
			return nil, err
		}

		margin := price.Sub(cost)
		marginPct := decimal.Zero
		if price.IsPositive() {
			marginPct = margin.Div(price).Mul(hundred)
		}
		stockValue := qty.Mul(cost)

		line := entity.ProductLine{
			Position:      i + 1,
			Name:          strings.TrimSpace(p.Name),
			Quantity:      qty.String(),
			Cost:          cost.StringFixed(2),
			SellingPrice:  price.StringFixed(2),
			UnitMargin:    margin.StringFixed(2),
			MarginPercent: marginPct.StringFixed(1),
			StockValue:    stockValue.StringFixed(2),
		}

		if hasSales {
			line.SalesPerWeek = sales.String()
			line.WeeklyRevenue = sales.Mul(price).StringFixed(2)
			if sales.IsPositive() {
				cover := qty.Div(sales)
				line.WeeksOfCover = cover.StringFixed(2)
				line.LowStock = cover.LessThan(decimal.NewFromInt(1))
			}
		}
		if hasLead {
			line.LeadTimeDays = lead.String()
		}
		if hasSales && hasLead {
			reorder := sales.Div(daysInWeek).Mul(lead)
			line.ReorderPoint = reorder.StringFixed(2)
			line.LowStock = qty.LessThanOrEqual(reorder)
		}

		if line.LowStock {
			analysis.Totals.LowStockProducts++
		}
		totalUnits = totalUnits.Add(qty)
		inventoryCost = inventoryCost.Add(stockValue)
		inventoryValue = inventoryValue.Add(qty.Mul(price))
		profit = profit.Add(qty.Mul(margin))

		analysis.Products = append(analysis.Products, line)
	}

	for i, s := range draft.StockEntries {
		if isBlankStock(s) {
			continue
		}
		field := func(name string) string { return fmt.Sprintf("stockEntries[%d].%s", i, name) }

		sold, _, err := optionalAmount(field(entity.StockFieldQuantitySold), s.QuantitySold)
		if err != nil {
			return nil, err
		}
		remaining, _, err := optionalAmount(field(entity.StockFieldStockRemaining), s.StockRemaining)
		if err != nil {
			return nil, err
		}

		sellThrough := decimal.Zero
		if total := sold.Add(remaining); total.IsPositive() {
			sellThrough = sold.Div(total).Mul(hundred)
		}

		analysis.StockEntries = append(analysis.StockEntries, entity.StockLine{
			Position:       i + 1,
			Date:           strings.TrimSpace(s.Date),
			Product:        strings.TrimSpace(s.Product),
			QuantitySold:   sold.String(),
			StockRemaining: remaining.String(),
			SellThrough:    sellThrough.StringFixed(1),
		})
	}

	analysis.Totals.ProductCount = len(analysis.Products)
	analysis.Totals.TotalUnits = totalUnits.String()
	analysis.Totals.InventoryCost = inventoryCost.StringFixed(2)
	analysis.Totals.InventoryValue = inventoryValue.StringFixed(2)
	analysis.Totals.PotentialProfit = profit.StringFixed(2)

	return analysis, nil
}

func requiredAmount(field, raw string) (decimal.Decimal, error) {
	value, ok, err := optionalAmount(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s is required", ErrInvalidDraft, field)
	}
	return value, nil
}

func optionalAmount(field, raw string) (decimal.Decimal, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("%w: %s is not a number: %q", ErrInvalidDraft, field, raw)
	}
	if value.IsNegative() {
		return decimal.Zero, false, fmt.Errorf("%w: %s must not be negative", ErrInvalidDraft, field)
	}
	return value, true, nil
}

func isBlankStock(s entity.StockEntry) bool {
	return strings.TrimSpace(s.Date) == "" &&
		strings.TrimSpace(s.Product) == "" &&
		strings.TrimSpace(s.QuantitySold) == "" &&
		strings.TrimSpace(s.StockRemaining) == ""
}
