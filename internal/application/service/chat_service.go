package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
	"github.com/garyjia/arziki-reports/pkg/utils"
)

const chatSystemPrompt = `You are Arziki, an inventory assistant for small retail businesses.
Answer questions about stock levels, reordering, margins and suppliers.
Keep answers short and practical. When report data is provided, base your
answer on it and say so; never invent figures that are not in the data.`

// ChatReply is the assistant's answer to one message
type ChatReply struct {
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatService answers inventory questions, optionally about one report
type ChatService interface {
	SendMessage(ctx context.Context, ownerID, message, reportID string) (*ChatReply, error)
}

type chatServiceImpl struct {
	completer port.ChatCompleter
	reports   ReportService
	logger    Logger
	now       func() time.Time
}

// NewChatService creates a new ChatService. completer may be nil when no
// model is configured.
func NewChatService(completer port.ChatCompleter, reports ReportService, logger Logger) ChatService {
	return &chatServiceImpl{
		completer: completer,
		reports:   reports,
		logger:    logger,
		now:       time.Now,
	}
}

// SendMessage forwards the message to the model and returns its reply
func (s *chatServiceImpl) SendMessage(ctx context.Context, ownerID, message, reportID string) (*ChatReply, error) {
	if s.completer == nil {
		return nil, ErrChatUnavailable
	}
	message = utils.SanitizeString(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	messages := []port.ChatMessage{{Role: port.ChatRoleSystem, Content: chatSystemPrompt}}

	if reportID != "" {
		report, err := s.reports.GetReport(ctx, ownerID, reportID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, port.ChatMessage{Role: port.ChatRoleSystem, Content: reportContext(report)})
	}
	messages = append(messages, port.ChatMessage{Role: port.ChatRoleUser, Content: message})

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("Chat completion failed", "owner_id", ownerID, "report_id", reportID, "error", err)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	return &ChatReply{Reply: reply, Timestamp: s.now().UTC()}, nil
}

// reportContext renders the figures of a report as plain text for the model
func reportContext(r *entity.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report %s for %s (%s, %s, %s size), generated %s.\n",
		r.ID, r.Business.Name, r.Business.Type, r.Business.Location, r.Business.Size,
		r.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Totals: %d products, %s units, inventory cost %s, inventory value %s, potential profit %s, %d low on stock.\n",
		r.Totals.ProductCount, r.Totals.TotalUnits, r.Totals.InventoryCost,
		r.Totals.InventoryValue, r.Totals.PotentialProfit, r.Totals.LowStockProducts)

	b.WriteString("Products:\n")
	for _, p := range r.Products {
		fmt.Fprintf(&b, "- %s: qty %s, cost %s, price %s, margin %s%%", p.Name, p.Quantity, p.Cost, p.SellingPrice, p.MarginPercent)
		if p.WeeksOfCover != "" {
			fmt.Fprintf(&b, ", %s weeks of cover", p.WeeksOfCover)
		}
		if p.ReorderPoint != "" {
			fmt.Fprintf(&b, ", reorder at %s", p.ReorderPoint)
		}
		if p.LowStock {
			b.WriteString(", LOW STOCK")
		}
		b.WriteString("\n")
	}

	if len(r.StockEntries) > 0 {
		b.WriteString("Stock movements:\n")
		for _, s := range r.StockEntries {
			fmt.Fprintf(&b, "- %s %s: sold %s, remaining %s, sell-through %s%%\n",
				s.Date, s.Product, s.QuantitySold, s.StockRemaining, s.SellThrough)
		}
	}

	if r.Supplier.SupplierName != "" {
		fmt.Fprintf(&b, "Supplier: %s <%s>", r.Supplier.SupplierName, r.Supplier.ContactEmail)
		if r.Supplier.DeliveryDays != "" {
			fmt.Fprintf(&b, ", delivers in %s days", r.Supplier.DeliveryDays)
		}
		b.WriteString("\n")
	}
	return b.String()
}
