package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
	"github.com/garyjia/arziki-reports/internal/infrastructure/persistence/sqlite"
)

// ReportRepository implements port.ReportRepository
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB, logger *zap.Logger) port.ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

const reportColumns = `id, owner_id, status, business_json, supplier_json, products_json,
	stock_json, attachments_json, totals_json, export_path, created_at`

// Create inserts a report and its attachment summaries
func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	payload, err := encodeReport(report)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reports (
			id, owner_id, status, business_name, business_json, supplier_json,
			products_json, stock_json, attachments_json, totals_json, export_path, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := sqlite.ExecutorFor(ctx, r.db)
	_, err = exec.ExecContext(ctx, query,
		report.ID,
		report.OwnerID,
		report.Status,
		report.Business.Name,
		payload.business,
		payload.supplier,
		payload.products,
		payload.stock,
		payload.attachments,
		payload.totals,
		report.ExportPath,
		report.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create report", zap.String("id", report.ID), zap.Error(err))
		return fmt.Errorf("failed to create report: %w", err)
	}

	for _, att := range report.Attachments {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO report_attachments (report_id, attachment_id, file_name, format, rows_count, parsed)
			VALUES (?, ?, ?, ?, ?, ?)
		`, report.ID, att.AttachmentID, att.FileName, att.Format, att.Rows, att.Parsed)
		if err != nil {
			r.logger.Error("Failed to record report attachment",
				zap.String("id", report.ID),
				zap.String("attachment_id", att.AttachmentID),
				zap.Error(err))
			return fmt.Errorf("failed to record report attachment: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a report by ID. It returns nil when none exists.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = ?`

	report, err := scanReport(sqlite.ExecutorFor(ctx, r.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get report", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// ListByOwner returns the owner's reports, newest first
func (r *ReportRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports
		WHERE owner_id = ?
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`

	rows, err := sqlite.ExecutorFor(ctx, r.db).QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list reports", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*entity.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// SetExportPath records where the report's spreadsheet was written
func (r *ReportRepository) SetExportPath(ctx context.Context, id, path string) error {
	result, err := sqlite.ExecutorFor(ctx, r.db).ExecContext(ctx,
		`UPDATE reports SET export_path = ? WHERE id = ?`, path, id)
	if err != nil {
		r.logger.Error("Failed to set export path", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set export path: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report not found: %s", id)
	}
	return nil
}

type reportPayload struct {
	business, supplier, products, stock, attachments, totals string
}

func encodeReport(report *entity.Report) (reportPayload, error) {
	var p reportPayload
	fields := []struct {
		dst *string
		v   interface{}
	}{
		{&p.business, report.Business},
		{&p.supplier, report.Supplier},
		{&p.products, nonNil(report.Products)},
		{&p.stock, nonNil(report.StockEntries)},
		{&p.attachments, nonNil(report.Attachments)},
		{&p.totals, report.Totals},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.v)
		if err != nil {
			return p, fmt.Errorf("failed to encode report: %w", err)
		}
		*f.dst = string(data)
	}
	return p, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*entity.Report, error) {
	var report entity.Report
	var p reportPayload
	var createdAt time.Time

	err := row.Scan(
		&report.ID,
		&report.OwnerID,
		&report.Status,
		&p.business,
		&p.supplier,
		&p.products,
		&p.stock,
		&p.attachments,
		&p.totals,
		&report.ExportPath,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	report.CreatedAt = createdAt.UTC()

	decoders := []struct {
		src string
		dst interface{}
	}{
		{p.business, &report.Business},
		{p.supplier, &report.Supplier},
		{p.products, &report.Products},
		{p.stock, &report.StockEntries},
		{p.attachments, &report.Attachments},
		{p.totals, &report.Totals},
	}
	for _, d := range decoders {
		if err := json.Unmarshal([]byte(d.src), d.dst); err != nil {
			return nil, fmt.Errorf("failed to decode report %s: %w", report.ID, err)
		}
	}
	return &report, nil
}

// Verify interface compliance
var _ port.ReportRepository = (*ReportRepository)(nil)
