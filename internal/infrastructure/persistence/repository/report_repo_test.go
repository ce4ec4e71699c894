package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
	"github.com/garyjia/arziki-reports/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/arziki-reports/pkg/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "reports.db"), MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = database.NewMigrator(db, zap.NewNop()).Run(database.Migrations())
	require.NoError(t, err)
	return db
}

func sampleReport(id, owner string, createdAt time.Time) *entity.Report {
	return &entity.Report{
		ID:       id,
		OwnerID:  owner,
		Status:   entity.ReportStatusGenerated,
		Business: entity.BusinessInfo{Name: "ABC Mart", Type: "supermarket", Location: "Lagos", Size: "small"},
		Supplier: entity.SupplierInfo{SupplierName: "Dangote", ContactEmail: "sales@dangote.example"},
		Products: []entity.ProductLine{{Position: 1, Name: "Rice", Quantity: "50", Cost: "10.00", SellingPrice: "15.00", UnitMargin: "5.00"}},
		Attachments: []entity.AttachmentSummary{
			{AttachmentID: "a1", FileName: "sales.csv", Format: "csv", Rows: 12, Parsed: true},
		},
		Totals:    entity.ReportTotals{ProductCount: 1, TotalUnits: "50"},
		CreatedAt: createdAt,
	}
}

func TestReportRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db.DB, zap.NewNop())
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	report := sampleReport("r1", "owner-1", created)
	require.NoError(t, repo.Create(ctx, report))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, report.Business, got.Business)
	assert.Equal(t, report.Supplier, got.Supplier)
	assert.Equal(t, report.Products, got.Products)
	assert.Equal(t, []entity.StockLine{}, got.StockEntries)
	assert.Equal(t, report.Attachments, got.Attachments)
	assert.Equal(t, report.Totals, got.Totals)
	assert.True(t, created.Equal(got.CreatedAt))

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM report_attachments WHERE report_id = ?", "r1").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestReportRepository_GetMissingReturnsNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db.DB, zap.NewNop())

	got, err := repo.GetByID(context.Background(), "nope")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportRepository_ListByOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db.DB, zap.NewNop())
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, sampleReport("old", "owner-1", base)))
	require.NoError(t, repo.Create(ctx, sampleReport("new", "owner-1", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, sampleReport("other", "owner-2", base)))

	reports, err := repo.ListByOwner(ctx, "owner-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "new", reports[0].ID)
	assert.Equal(t, "old", reports[1].ID)

	reports, err = repo.ListByOwner(ctx, "owner-1", 1, 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "old", reports[0].ID)

	reports, err = repo.ListByOwner(ctx, "owner-3", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestReportRepository_SetExportPath(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReportRepository(db.DB, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleReport("r1", "owner-1", time.Now())))

	require.NoError(t, repo.SetExportPath(ctx, "r1", "exports/r1.xlsx"))
	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "exports/r1.xlsx", got.ExportPath)

	assert.Error(t, repo.SetExportPath(ctx, "missing", "x.xlsx"))
}

func TestReportRepository_TransactionRollback(t *testing.T) {
	db := setupTestDB(t)
	tx := sqlite.NewDB(db.DB, zap.NewNop())
	repo := NewReportRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, sampleReport("r1", "owner-1", time.Now())); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got, "insert inside the aborted transaction is rolled back")

	err = tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return repo.Create(txCtx, sampleReport("r2", "owner-1", time.Now()))
	})
	require.NoError(t, err)
	got, err = repo.GetByID(ctx, "r2")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestReportRepository_CreateAttachmentFailureRollsBack(t *testing.T) {
	db := setupTestDB(t)
	tx := sqlite.NewDB(db.DB, zap.NewNop())
	repo := NewReportRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	report := sampleReport("r1", "owner-1", time.Now())
	report.Attachments = append(report.Attachments, report.Attachments[0])

	err := tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return repo.Create(txCtx, report)
	})
	require.Error(t, err)

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportRepository_DatabaseErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewReportRepository(sqlDB, zap.NewNop())
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	mock.ExpectExec("INSERT INTO reports").WillReturnError(boom)
	err = repo.Create(ctx, sampleReport("r1", "owner-1", time.Now()))
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery("SELECT (.+) FROM reports WHERE id = ?").WithArgs("r1").WillReturnError(boom)
	_, err = repo.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery("SELECT (.+) FROM reports").WithArgs("owner-1", 10, 0).WillReturnError(boom)
	_, err = repo.ListByOwner(ctx, "owner-1", 10, 0)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec("UPDATE reports SET export_path").WithArgs("x.xlsx", "r1").WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.SetExportPath(ctx, "r1", "x.xlsx")
	assert.ErrorContains(t, err, "report not found")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_CorruptPayload(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewReportRepository(sqlDB, zap.NewNop())
	columns := []string{"id", "owner_id", "status", "business_json", "supplier_json", "products_json",
		"stock_json", "attachments_json", "totals_json", "export_path", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM reports WHERE id = ?").WithArgs("r1").WillReturnRows(
		sqlmock.NewRows(columns).AddRow("r1", "owner-1", "GENERATED", "{not json", "{}", "[]", "[]", "[]", "{}", "", time.Now()))

	_, err = repo.GetByID(context.Background(), "r1")

	assert.ErrorContains(t, err, "failed to decode report r1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
