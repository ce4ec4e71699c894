package port

import (
	"context"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// ReportRepository defines persistence operations for generated reports
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Report, error)
	SetExportPath(ctx context.Context, id, path string) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
