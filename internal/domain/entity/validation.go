package entity

import (
	"fmt"
	"strings"
)

// Validation messages shown to the user when a step refuses to advance
const (
	MsgBusinessIncomplete    = "Please fill in all fields"
	MsgProductsIncomplete    = "Please fill in all product fields"
	MsgStockIncomplete       = "Please fill in all stock entry fields"
	MsgSupplierIncomplete    = "Please fill in at least supplier name and email"
	MsgAttachmentsIncomplete = "Please upload at least one data file"
)

// ValidationError lists the required fields that were missing when a step
// tried to advance
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s (missing: %s)", e.Message, strings.Join(e.Fields, ", "))
}

// blank treats whitespace-only input the same as no input
func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// ValidateBusiness requires all four business fields
func ValidateBusiness(b BusinessInfo) error {
	var missing []string
	if blank(b.Name) {
		missing = append(missing, "business.name")
	}
	if blank(b.Type) {
		missing = append(missing, "business.type")
	}
	if blank(b.Location) {
		missing = append(missing, "business.location")
	}
	if blank(b.Size) {
		missing = append(missing, "business.size")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: MsgBusinessIncomplete, Fields: missing}
	}
	return nil
}

// ValidateProducts requires name, quantity, cost and selling price on every
// entry. Sales per week and lead time are optional.
func ValidateProducts(products []ProductEntry) error {
	if len(products) == 0 {
		return &ValidationError{Message: MsgProductsIncomplete, Fields: []string{"products"}}
	}

	var missing []string
	for i, p := range products {
		if blank(p.Name) {
			missing = append(missing, fmt.Sprintf("products[%d].%s", i, ProductFieldName))
		}
		if blank(p.Quantity) {
			missing = append(missing, fmt.Sprintf("products[%d].%s", i, ProductFieldQuantity))
		}
		if blank(p.Cost) {
			missing = append(missing, fmt.Sprintf("products[%d].%s", i, ProductFieldCost))
		}
		if blank(p.SellingPrice) {
			missing = append(missing, fmt.Sprintf("products[%d].%s", i, ProductFieldSellingPrice))
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: MsgProductsIncomplete, Fields: missing}
	}
	return nil
}

// ValidateStockEntries requires all four fields on every entry
func ValidateStockEntries(entries []StockEntry) error {
	if len(entries) == 0 {
		return &ValidationError{Message: MsgStockIncomplete, Fields: []string{"stockEntries"}}
	}

	var missing []string
	for i, s := range entries {
		if blank(s.Date) {
			missing = append(missing, fmt.Sprintf("stockEntries[%d].%s", i, StockFieldDate))
		}
		if blank(s.Product) {
			missing = append(missing, fmt.Sprintf("stockEntries[%d].%s", i, StockFieldProduct))
		}
		if blank(s.QuantitySold) {
			missing = append(missing, fmt.Sprintf("stockEntries[%d].%s", i, StockFieldQuantitySold))
		}
		if blank(s.StockRemaining) {
			missing = append(missing, fmt.Sprintf("stockEntries[%d].%s", i, StockFieldStockRemaining))
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: MsgStockIncomplete, Fields: missing}
	}
	return nil
}

// ValidateSupplier requires supplier name and contact email
func ValidateSupplier(s SupplierInfo) error {
	var missing []string
	if blank(s.SupplierName) {
		missing = append(missing, "supplier.supplierName")
	}
	if blank(s.ContactEmail) {
		missing = append(missing, "supplier.contactEmail")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: MsgSupplierIncomplete, Fields: missing}
	}
	return nil
}

// ValidateAttachments requires at least one attachment
func ValidateAttachments(attachments []Attachment) error {
	if len(attachments) == 0 {
		return &ValidationError{Message: MsgAttachmentsIncomplete, Fields: []string{"attachments"}}
	}
	return nil
}
