package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraft(t *testing.T) {
	d := NewDraft()

	require.Len(t, d.Products, 1)
	require.Len(t, d.StockEntries, 1)
	assert.Equal(t, ProductEntry{}, d.Products[0])
	assert.Equal(t, StockEntry{}, d.StockEntries[0])
	assert.Equal(t, BusinessInfo{}, d.Business)
	assert.Equal(t, SupplierInfo{}, d.Supplier)
	assert.Empty(t, d.Attachments)
}

func TestDraft_CloneSharesNoSlices(t *testing.T) {
	d := NewDraft()
	d.Products[0].Name = "Rice"
	d.Attachments = append(d.Attachments, Attachment{ID: "a1", FileName: "sales.csv"})

	c := d.Clone()
	c.Products[0].Name = "Beans"
	c.StockEntries[0].Product = "Beans"
	c.Attachments[0].FileName = "other.csv"

	assert.Equal(t, "Rice", d.Products[0].Name)
	assert.Empty(t, d.StockEntries[0].Product)
	assert.Equal(t, "sales.csv", d.Attachments[0].FileName)
}

func TestProductEntry_Set(t *testing.T) {
	var p ProductEntry

	require.NoError(t, p.Set(ProductFieldName, "Rice"))
	require.NoError(t, p.Set(ProductFieldQuantity, "50"))
	require.NoError(t, p.Set(ProductFieldCost, "10"))
	require.NoError(t, p.Set(ProductFieldSellingPrice, "15"))
	require.NoError(t, p.Set(ProductFieldSalesPerWeek, "20"))
	require.NoError(t, p.Set(ProductFieldLeadTime, "7"))

	assert.Equal(t, ProductEntry{
		Name: "Rice", Quantity: "50", Cost: "10", SellingPrice: "15", SalesPerWeek: "20", LeadTime: "7",
	}, p)

	err := p.Set("colour", "red")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestStockEntry_Set(t *testing.T) {
	var s StockEntry

	require.NoError(t, s.Set(StockFieldDate, "2024-05-01"))
	require.NoError(t, s.Set(StockFieldProduct, "Rice"))
	require.NoError(t, s.Set(StockFieldQuantitySold, "12"))
	require.NoError(t, s.Set(StockFieldStockRemaining, "38"))

	assert.Equal(t, StockEntry{Date: "2024-05-01", Product: "Rice", QuantitySold: "12", StockRemaining: "38"}, s)
	assert.ErrorIs(t, s.Set("price", "1"), ErrUnknownField)
}

func TestIsSupportedAttachment(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"sales.csv", true},
		{"Inventory.XLSX", true},
		{"legacy.xls", true},
		{"export.json", true},
		{"scan.pdf", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSupportedAttachment(tt.name))
		})
	}
}
