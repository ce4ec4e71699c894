package port

import (
	"context"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// AttachmentInspector reads a data file and summarises its contents
type AttachmentInspector interface {
	Inspect(ctx context.Context, att entity.Attachment, content []byte) (entity.AttachmentSummary, error)
}

// ReportExporter writes a downloadable copy of a report and returns its path
type ReportExporter interface {
	Export(ctx context.Context, report *entity.Report) (string, error)
}

// ReportAnnouncer tells the operations team that a report was generated
type ReportAnnouncer interface {
	AnnounceReport(ctx context.Context, report *entity.Report) error
}

// ChatMessage is one turn of a chat conversation
type ChatMessage struct {
	Role    string
	Content string
}

// Chat roles
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatCompleter produces the assistant's reply to a conversation
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
