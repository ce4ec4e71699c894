package service

import (
	"context"
	"errors"
	"sync"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockReportRepo struct {
	mu                sync.Mutex
	reports           map[string]*entity.Report
	createFunc        func(ctx context.Context, report *entity.Report) error
	setExportPathFunc func(ctx context.Context, id, path string) error
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[string]*entity.Report)}
}

func (m *mockReportRepo) Create(ctx context.Context, report *entity.Report) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, report); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *report
	m.reports[report.ID] = &copied
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	report, ok := m.reports[id]
	if !ok {
		return nil, nil
	}
	copied := *report
	return &copied, nil
}

func (m *mockReportRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Report, error) {
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

func (m *mockReportRepo) SetExportPath(ctx context.Context, id, path string) error {
	if m.setExportPathFunc != nil {
		return m.setExportPathFunc(ctx, id, path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[id]; ok {
		r.ExportPath = path
	}
	return nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockAttachmentStore struct {
	mu       sync.Mutex
	files    map[string][]byte
	archived []string
	removed  []string
	purged   []string
	putFunc  func(ctx context.Context, sessionID, fileName, contentType string, content []byte) (entity.Attachment, error)
	readFunc func(ctx context.Context, att entity.Attachment) ([]byte, error)
}

func newMockAttachmentStore() *mockAttachmentStore {
	return &mockAttachmentStore{files: make(map[string][]byte)}
}

func (m *mockAttachmentStore) Put(ctx context.Context, sessionID, fileName, contentType string, content []byte) (entity.Attachment, error) {
	if m.putFunc != nil {
		return m.putFunc(ctx, sessionID, fileName, contentType, content)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "att-" + fileName
	m.files[id] = content
	return entity.Attachment{ID: id, FileName: fileName, ContentType: contentType, Size: int64(len(content))}, nil
}

func (m *mockAttachmentStore) Read(ctx context.Context, att entity.Attachment) ([]byte, error) {
	if m.readFunc != nil {
		return m.readFunc(ctx, att)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[att.ID]
	if !ok {
		return nil, errors.New("file not found")
	}
	return content, nil
}

func (m *mockAttachmentStore) Remove(ctx context.Context, att entity.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, att.ID)
	m.removed = append(m.removed, att.ID)
	return nil
}

func (m *mockAttachmentStore) Archive(ctx context.Context, reportID string, att entity.Attachment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived = append(m.archived, reportID+"/"+att.ID)
	return "reports/" + reportID + "/" + att.FileName, nil
}

func (m *mockAttachmentStore) Purge(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purged = append(m.purged, sessionID)
	return nil
}

type mockInspector struct {
	inspectFunc func(ctx context.Context, att entity.Attachment, content []byte) (entity.AttachmentSummary, error)
}

func (m *mockInspector) Inspect(ctx context.Context, att entity.Attachment, content []byte) (entity.AttachmentSummary, error) {
	if m.inspectFunc != nil {
		return m.inspectFunc(ctx, att, content)
	}
	return entity.AttachmentSummary{AttachmentID: att.ID, FileName: att.FileName, Format: att.Format(), Rows: 3, Parsed: true}, nil
}

type mockExporter struct {
	exportFunc func(ctx context.Context, report *entity.Report) (string, error)
	calls      int
}

func (m *mockExporter) Export(ctx context.Context, report *entity.Report) (string, error) {
	m.calls++
	if m.exportFunc != nil {
		return m.exportFunc(ctx, report)
	}
	return "exports/" + report.ID + ".xlsx", nil
}

type mockAnnouncer struct {
	announced []string
	err       error
}

func (m *mockAnnouncer) AnnounceReport(ctx context.Context, report *entity.Report) error {
	m.announced = append(m.announced, report.ID)
	return m.err
}

type mockCompleter struct {
	completeFunc func(ctx context.Context, messages []port.ChatMessage) (string, error)
	received     []port.ChatMessage
}

func (m *mockCompleter) Complete(ctx context.Context, messages []port.ChatMessage) (string, error) {
	m.received = messages
	if m.completeFunc != nil {
		return m.completeFunc(ctx, messages)
	}
	return "Reorder rice this week.", nil
}
