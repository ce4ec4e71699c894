package http

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/application/service"
	"github.com/garyjia/arziki-reports/internal/application/wizard"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

type mockLogger struct{}

func (mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockReportService stores submitted drafts as reports in memory
type mockReportService struct {
	mu          sync.Mutex
	reports     map[string]*entity.Report
	submitErr   error
	credentials []string
	exports     map[string]string
}

func newMockReportService() *mockReportService {
	return &mockReportService{
		reports: make(map[string]*entity.Report),
		exports: make(map[string]string),
	}
}

func (m *mockReportService) Submit(ctx context.Context, credential string, submission *port.Submission) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.credentials = append(m.credentials, credential)
	if m.submitErr != nil {
		return "", m.submitErr
	}
	id := fmt.Sprintf("rep-%d", len(m.reports)+1)
	m.reports[id] = &entity.Report{
		ID:        id,
		OwnerID:   submission.OwnerID,
		Status:    entity.ReportStatusGenerated,
		Business:  submission.Draft.Business,
		CreatedAt: time.Now(),
	}
	return id, nil
}

func (m *mockReportService) GetReport(ctx context.Context, ownerID, reportID string) (*entity.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[reportID]
	if !ok || report.OwnerID != ownerID {
		return nil, service.ErrReportNotFound
	}
	return report, nil
}

func (m *mockReportService) ListReports(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.Report
	for _, r := range m.reports {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReportService) ExportReport(ctx context.Context, ownerID, reportID string) (string, error) {
	if _, err := m.GetReport(ctx, ownerID, reportID); err != nil {
		return "", err
	}
	path := "exports/" + reportID + ".xlsx"
	m.mu.Lock()
	m.exports[reportID] = path
	m.mu.Unlock()
	return path, nil
}

// mockAttachmentService links uploads to the wizard without touching disk
type mockAttachmentService struct {
	attachFunc func(ctx context.Context, w *wizard.Wizard, fileName, contentType string, content []byte) (entity.Attachment, error)
	uploads    int
}

func (m *mockAttachmentService) Attach(ctx context.Context, w *wizard.Wizard, fileName, contentType string, content []byte) (entity.Attachment, error) {
	if m.attachFunc != nil {
		return m.attachFunc(ctx, w, fileName, contentType, content)
	}
	if !entity.IsSupportedAttachment(fileName) {
		return entity.Attachment{}, service.ErrUnsupportedAttachment
	}
	m.uploads++
	att := entity.Attachment{
		ID:       fmt.Sprintf("att-%d", m.uploads),
		FileName: fileName,
		Size:     int64(len(content)),
	}
	if err := w.AddAttachment(att); err != nil {
		return entity.Attachment{}, err
	}
	return att, nil
}

func (m *mockAttachmentService) Detach(ctx context.Context, w *wizard.Wizard, attachmentID string) error {
	_, err := w.RemoveAttachment(attachmentID)
	return err
}

func (m *mockAttachmentService) PurgeSession(ctx context.Context, sessionID string) {}

type mockChatService struct {
	sendFunc func(ctx context.Context, ownerID, message, reportID string) (*service.ChatReply, error)
}

func (m *mockChatService) SendMessage(ctx context.Context, ownerID, message, reportID string) (*service.ChatReply, error) {
	return m.sendFunc(ctx, ownerID, message, reportID)
}

// mockFileStorage serves fixed content for any path
type mockFileStorage struct {
	content []byte
}

func (m *mockFileStorage) Save(ctx context.Context, path string, content []byte) error { return nil }
func (m *mockFileStorage) Read(ctx context.Context, path string) ([]byte, error) {
	return m.content, nil
}
func (m *mockFileStorage) Exists(ctx context.Context, path string) bool    { return true }
func (m *mockFileStorage) Delete(ctx context.Context, path string) error   { return nil }
func (m *mockFileStorage) Move(ctx context.Context, from, to string) error { return nil }
func (m *mockFileStorage) DeleteDir(ctx context.Context, dir string) error { return nil }
func (m *mockFileStorage) GetFullPath(relativePath string) string          { return relativePath }
