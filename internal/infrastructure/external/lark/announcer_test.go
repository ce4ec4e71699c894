package lark

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

type mockSender struct {
	receiveIDType, receiveID, msgType, content string
	err                                        error
}

func (m *mockSender) Send(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	m.receiveIDType, m.receiveID, m.msgType, m.content = receiveIDType, receiveID, msgType, content
	if m.err != nil {
		return "", m.err
	}
	return "om_123", nil
}

func TestAnnouncer_AnnounceReport(t *testing.T) {
	sender := &mockSender{}
	announcer := NewAnnouncer(sender, "", "oc_ops", zap.NewNop())

	report := &entity.Report{
		ID:       "r1",
		Business: entity.BusinessInfo{Name: "ABC Mart", Type: "supermarket", Location: "Lagos"},
		Products: []entity.ProductLine{
			{Name: "Rice", Quantity: "50", ReorderPoint: "70.00", LowStock: true},
			{Name: "Beans", Quantity: "20"},
		},
		Totals: entity.ReportTotals{ProductCount: 2, LowStockProducts: 1},
	}

	require.NoError(t, announcer.AnnounceReport(context.Background(), report))

	assert.Equal(t, "chat_id", sender.receiveIDType)
	assert.Equal(t, "oc_ops", sender.receiveID)
	assert.Equal(t, "interactive", sender.msgType)

	var card map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(sender.content), &card))
	header := card["header"].(map[string]interface{})
	assert.Equal(t, "orange", header["template"])
	assert.Contains(t, sender.content, "New inventory report: ABC Mart")
	assert.Contains(t, sender.content, "Rice: 50 left (reorder at 70.00)")
	assert.NotContains(t, sender.content, "Beans: 20 left")
}

func TestAnnouncer_Errors(t *testing.T) {
	report := &entity.Report{ID: "r1"}

	err := NewAnnouncer(&mockSender{}, "chat_id", "", zap.NewNop()).AnnounceReport(context.Background(), report)
	assert.Error(t, err)

	sender := &mockSender{err: errors.New("API error: code=99991663")}
	err = NewAnnouncer(sender, "chat_id", "oc_ops", zap.NewNop()).AnnounceReport(context.Background(), report)
	assert.ErrorContains(t, err, "99991663")
}
