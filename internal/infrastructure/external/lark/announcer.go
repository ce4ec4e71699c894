package lark

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

const maxLowStockLines = 5

// Announcer implements port.ReportAnnouncer by posting an interactive card
// to a Lark chat
type Announcer struct {
	sender        MessageSender
	receiveIDType string
	receiveID     string
	logger        *zap.Logger
}

// NewAnnouncer creates a new report announcer
func NewAnnouncer(sender MessageSender, receiveIDType, receiveID string, logger *zap.Logger) *Announcer {
	if receiveIDType == "" {
		receiveIDType = "chat_id"
	}
	return &Announcer{
		sender:        sender,
		receiveIDType: receiveIDType,
		receiveID:     receiveID,
		logger:        logger,
	}
}

// AnnounceReport posts a summary card for a newly generated report
func (a *Announcer) AnnounceReport(ctx context.Context, report *entity.Report) error {
	if a.receiveID == "" {
		return fmt.Errorf("no Lark receiver configured")
	}

	card, err := json.Marshal(buildReportCard(report))
	if err != nil {
		return fmt.Errorf("failed to marshal card content: %w", err)
	}

	messageID, err := a.sender.Send(ctx, a.receiveIDType, a.receiveID, "interactive", string(card))
	if err != nil {
		return fmt.Errorf("failed to announce report: %w", err)
	}

	a.logger.Info("Report announced",
		zap.String("report_id", report.ID),
		zap.String("message_id", messageID))
	return nil
}

func buildReportCard(r *entity.Report) map[string]interface{} {
	summary := fmt.Sprintf("**%s** (%s, %s)\nProducts: %d · Units: %s\nInventory value: %s · Potential profit: %s",
		r.Business.Name, r.Business.Type, r.Business.Location,
		r.Totals.ProductCount, r.Totals.TotalUnits,
		r.Totals.InventoryValue, r.Totals.PotentialProfit)

	elements := []interface{}{
		markdown(summary),
	}

	if r.Totals.LowStockProducts > 0 {
		lines := fmt.Sprintf("**Low stock (%d)**", r.Totals.LowStockProducts)
		shown := 0
		for _, p := range r.Products {
			if !p.LowStock {
				continue
			}
			if shown == maxLowStockLines {
				lines += "\n…"
				break
			}
			lines += fmt.Sprintf("\n- %s: %s left", p.Name, p.Quantity)
			if p.ReorderPoint != "" {
				lines += fmt.Sprintf(" (reorder at %s)", p.ReorderPoint)
			}
			shown++
		}
		elements = append(elements, map[string]interface{}{"tag": "hr"}, markdown(lines))
	}

	if r.Supplier.SupplierName != "" {
		elements = append(elements, markdown(fmt.Sprintf("Supplier: %s <%s>", r.Supplier.SupplierName, r.Supplier.ContactEmail)))
	}

	template := "blue"
	if r.Totals.LowStockProducts > 0 {
		template = "orange"
	}

	return map[string]interface{}{
		"config": map[string]interface{}{"wide_screen_mode": true},
		"header": map[string]interface{}{
			"template": template,
			"title": map[string]interface{}{
				"tag":     "plain_text",
				"content": "New inventory report: " + r.Business.Name,
			},
		},
		"elements": elements,
	}
}

func markdown(content string) map[string]interface{} {
	return map[string]interface{}{
		"tag": "div",
		"text": map[string]interface{}{
			"tag":     "lark_md",
			"content": content,
		},
	}
}

// Verify interface compliance
var _ port.ReportAnnouncer = (*Announcer)(nil)
