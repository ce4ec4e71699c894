package entity

// Business type constants for BusinessInfo.Type
const (
	BusinessTypeSupermarket = "supermarket"
	BusinessTypeRetail      = "retail"
	BusinessTypePharmacy    = "pharmacy"
	BusinessTypeGrocery     = "grocery"
	BusinessTypeOther       = "other"
)

// Business size constants for BusinessInfo.Size
const (
	BusinessSizeSmall  = "small"
	BusinessSizeMedium = "medium"
	BusinessSizeLarge  = "large"
)

// Product entry field names accepted by ProductEntry.Set
const (
	ProductFieldName         = "name"
	ProductFieldQuantity     = "quantity"
	ProductFieldCost         = "cost"
	ProductFieldSellingPrice = "sellingPrice"
	ProductFieldSalesPerWeek = "salesPerWeek"
	ProductFieldLeadTime     = "leadTime"
)

// Stock entry field names accepted by StockEntry.Set
const (
	StockFieldDate           = "date"
	StockFieldProduct        = "product"
	StockFieldQuantitySold   = "quantitySold"
	StockFieldStockRemaining = "stockRemaining"
)

// AttachmentExtensions lists the data file types accepted at the review step
var AttachmentExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
	".json": true,
}

// Report status constants
const (
	ReportStatusGenerated = "GENERATED"
)
