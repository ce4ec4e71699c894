package entity

import "time"

// Report is the persisted result of a successful submission
type Report struct {
	ID           string              `json:"id"`
	OwnerID      string              `json:"owner_id"`
	Status       string              `json:"status"`
	Business     BusinessInfo        `json:"business"`
	Supplier     SupplierInfo        `json:"supplier"`
	Products     []ProductLine       `json:"products"`
	StockEntries []StockLine         `json:"stock_entries"`
	Attachments  []AttachmentSummary `json:"attachments"`
	Totals       ReportTotals        `json:"totals"`
	ExportPath   string              `json:"-"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ProductLine is a product entry with its derived analytics. Money and
// quantity values are decimal strings.
type ProductLine struct {
	Position      int    `json:"position"`
	Name          string `json:"name"`
	Quantity      string `json:"quantity"`
	Cost          string `json:"cost"`
	SellingPrice  string `json:"selling_price"`
	SalesPerWeek  string `json:"sales_per_week,omitempty"`
	LeadTimeDays  string `json:"lead_time_days,omitempty"`
	UnitMargin    string `json:"unit_margin"`
	MarginPercent string `json:"margin_percent"`
	StockValue    string `json:"stock_value"`
	WeeklyRevenue string `json:"weekly_revenue,omitempty"`
	WeeksOfCover  string `json:"weeks_of_cover,omitempty"`
	ReorderPoint  string `json:"reorder_point,omitempty"`
	LowStock      bool   `json:"low_stock"`
}

// StockLine is a stock entry with its sell-through ratio
type StockLine struct {
	Position       int    `json:"position"`
	Date           string `json:"date"`
	Product        string `json:"product"`
	QuantitySold   string `json:"quantity_sold"`
	StockRemaining string `json:"stock_remaining"`
	SellThrough    string `json:"sell_through"`
}

// ReportTotals aggregates the product lines
type ReportTotals struct {
	ProductCount     int    `json:"product_count"`
	TotalUnits       string `json:"total_units"`
	InventoryCost    string `json:"inventory_cost"`
	InventoryValue   string `json:"inventory_value"`
	PotentialProfit  string `json:"potential_profit"`
	LowStockProducts int    `json:"low_stock_products"`
}
