package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// ReportService generates, stores and serves inventory reports
type ReportService interface {
	port.SubmissionService
	GetReport(ctx context.Context, ownerID, reportID string) (*entity.Report, error)
	ListReports(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Report, error)
	ExportReport(ctx context.Context, ownerID, reportID string) (string, error)
}

type reportServiceImpl struct {
	reportRepo  port.ReportRepository
	txManager   port.TransactionManager
	attachments port.AttachmentStore
	inspector   port.AttachmentInspector
	exporter    port.ReportExporter
	announcer   port.ReportAnnouncer
	logger      Logger
	now         func() time.Time
}

// NewReportService creates a new ReportService. announcer may be nil.
func NewReportService(
	reportRepo port.ReportRepository,
	txManager port.TransactionManager,
	attachments port.AttachmentStore,
	inspector port.AttachmentInspector,
	exporter port.ReportExporter,
	announcer port.ReportAnnouncer,
	logger Logger,
) ReportService {
	return &reportServiceImpl{
		reportRepo:  reportRepo,
		txManager:   txManager,
		attachments: attachments,
		inspector:   inspector,
		exporter:    exporter,
		announcer:   announcer,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit turns a completed draft into a stored report and returns its id
func (s *reportServiceImpl) Submit(ctx context.Context, credential string, submission *port.Submission) (string, error) {
	if credential == "" {
		return "", ErrUnauthenticated
	}

	s.logger.Info("Generating report",
		"session_id", submission.SessionID,
		"owner_id", submission.OwnerID,
		"products", len(submission.Draft.Products),
		"attachments", len(submission.Draft.Attachments))

	analysis, err := Analyze(submission.Draft)
	if err != nil {
		s.logger.Error("Draft rejected", "session_id", submission.SessionID, "error", err)
		return "", err
	}

	summaries, err := s.inspectAttachments(ctx, submission.Draft.Attachments)
	if err != nil {
		return "", err
	}

	report := &entity.Report{
		ID:           uuid.NewString(),
		OwnerID:      submission.OwnerID,
		Status:       entity.ReportStatusGenerated,
		Business:     submission.Draft.Business,
		Supplier:     submission.Draft.Supplier,
		Products:     analysis.Products,
		StockEntries: analysis.StockEntries,
		Attachments:  summaries,
		Totals:       analysis.Totals,
		CreatedAt:    s.now().UTC(),
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.reportRepo.Create(txCtx, report)
	})
	if err != nil {
		s.logger.Error("Failed to store report", "report_id", report.ID, "error", err)
		return "", fmt.Errorf("failed to store report: %w", err)
	}

	// The session's copies may be purged once the wizard closes
	for _, att := range submission.Draft.Attachments {
		if _, err := s.attachments.Archive(ctx, report.ID, att); err != nil {
			s.logger.Error("Failed to archive attachment", "report_id", report.ID, "attachment_id", att.ID, "error", err)
		}
	}

	if _, err := s.export(ctx, report); err != nil {
		// Exported lazily on the first download instead
		s.logger.Error("Failed to export report", "report_id", report.ID, "error", err)
	}

	if s.announcer != nil {
		if err := s.announcer.AnnounceReport(ctx, report); err != nil {
			s.logger.Error("Failed to announce report", "report_id", report.ID, "error", err)
		}
	}

	s.logger.Info("Report generated", "report_id", report.ID, "owner_id", report.OwnerID)
	return report.ID, nil
}

func (s *reportServiceImpl) inspectAttachments(ctx context.Context, attachments []entity.Attachment) ([]entity.AttachmentSummary, error) {
	summaries := make([]entity.AttachmentSummary, 0, len(attachments))
	for _, att := range attachments {
		content, err := s.attachments.Read(ctx, att)
		if err != nil {
			s.logger.Error("Failed to read attachment", "attachment_id", att.ID, "error", err)
			return nil, fmt.Errorf("failed to read attachment %s: %w", att.FileName, err)
		}

		summary, err := s.inspector.Inspect(ctx, att, content)
		if err != nil {
			// An unreadable file does not block the report
			s.logger.Error("Failed to inspect attachment", "attachment_id", att.ID, "error", err)
			summary = entity.AttachmentSummary{
				AttachmentID: att.ID,
				FileName:     att.FileName,
				Format:       att.Format(),
				Note:         err.Error(),
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *reportServiceImpl) export(ctx context.Context, report *entity.Report) (string, error) {
	path, err := s.exporter.Export(ctx, report)
	if err != nil {
		return "", err
	}
	if err := s.reportRepo.SetExportPath(ctx, report.ID, path); err != nil {
		return "", err
	}
	report.ExportPath = path
	return path, nil
}

// GetReport returns the owner's report
func (s *reportServiceImpl) GetReport(ctx context.Context, ownerID, reportID string) (*entity.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil || report.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
	}
	return report, nil
}

// ListReports returns the owner's reports, newest first
func (s *reportServiceImpl) ListReports(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reportRepo.ListByOwner(ctx, ownerID, limit, offset)
}

// ExportReport returns the path of the report's spreadsheet, writing it first if needed
func (s *reportServiceImpl) ExportReport(ctx context.Context, ownerID, reportID string) (string, error) {
	report, err := s.GetReport(ctx, ownerID, reportID)
	if err != nil {
		return "", err
	}
	if report.ExportPath != "" {
		return report.ExportPath, nil
	}

	path, err := s.export(ctx, report)
	if err != nil {
		s.logger.Error("Failed to export report", "report_id", reportID, "error", err)
		return "", fmt.Errorf("failed to export report: %w", err)
	}
	return path, nil
}

// Verify interface compliance
var _ port.SubmissionService = (*reportServiceImpl)(nil)
