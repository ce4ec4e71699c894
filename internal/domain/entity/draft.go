package entity

import "fmt"

// BusinessInfo is the sub-record owned by the business step
type BusinessInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
	Size     string `json:"size"`
}

// ProductEntry is one row of the product step. Values are kept as entered.
type ProductEntry struct {
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Cost         string `json:"cost"`
	SellingPrice string `json:"sellingPrice"`
	SalesPerWeek string `json:"salesPerWeek"`
	LeadTime     string `json:"leadTime"`
}

// StockEntry is one row of the stock step
type StockEntry struct {
	Date           string `json:"date"`
	Product        string `json:"product"`
	QuantitySold   string `json:"quantitySold"`
	StockRemaining string `json:"stockRemaining"`
}

// SupplierInfo is the sub-record owned by the supplier step
type SupplierInfo struct {
	SupplierName string `json:"supplierName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	DeliveryDays string `json:"deliveryDays"`
}

// Draft accumulates everything entered across the wizard steps
type Draft struct {
	Business     BusinessInfo   `json:"business"`
	Products     []ProductEntry `json:"products"`
	StockEntries []StockEntry   `json:"stockEntries"`
	Supplier     SupplierInfo   `json:"supplier"`
	Attachments  []Attachment   `json:"attachments"`
}

// NewDraft returns the initial draft: one blank product, one blank stock
// entry, empty business and supplier info, no attachments
func NewDraft() Draft {
	return Draft{
		Products:     []ProductEntry{{}},
		StockEntries: []StockEntry{{}},
		Attachments:  []Attachment{},
	}
}

// Clone returns a deep copy that shares no slices with the receiver
func (d Draft) Clone() Draft {
	out := d
	out.Products = append([]ProductEntry(nil), d.Products...)
	out.StockEntries = append([]StockEntry(nil), d.StockEntries...)
	out.Attachments = append([]Attachment{}, d.Attachments...)
	return out
}

// Set replaces one field of the product entry
func (p *ProductEntry) Set(field, value string) error {
	switch field {
	case ProductFieldName:
		p.Name = value
	case ProductFieldQuantity:
		p.Quantity = value
	case ProductFieldCost:
		p.Cost = value
	case ProductFieldSellingPrice:
		p.SellingPrice = value
	case ProductFieldSalesPerWeek:
		p.SalesPerWeek = value
	case ProductFieldLeadTime:
		p.LeadTime = value
	default:
		return fmt.Errorf("%w: product field %q", ErrUnknownField, field)
	}
	return nil
}

// Set replaces one field of the stock entry
func (s *StockEntry) Set(field, value string) error {
	switch field {
	case StockFieldDate:
		s.Date = value
	case StockFieldProduct:
		s.Product = value
	case StockFieldQuantitySold:
		s.QuantitySold = value
	case StockFieldStockRemaining:
		s.StockRemaining = value
	default:
		return fmt.Errorf("%w: stock field %q", ErrUnknownField, field)
	}
	return nil
}
