package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/application/service"
	"github.com/garyjia/arziki-reports/internal/application/wizard"
	infraLark "github.com/garyjia/arziki-reports/internal/infrastructure/external/lark"
	"github.com/garyjia/arziki-reports/internal/infrastructure/external/openai"
	"github.com/garyjia/arziki-reports/internal/infrastructure/metrics"
	"github.com/garyjia/arziki-reports/internal/infrastructure/persistence/repository"
	"github.com/garyjia/arziki-reports/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/arziki-reports/internal/infrastructure/spreadsheet"
	"github.com/garyjia/arziki-reports/internal/infrastructure/storage"
	"github.com/garyjia/arziki-reports/internal/infrastructure/worker"
	"github.com/garyjia/arziki-reports/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// StorageBundle holds storage-related components.
type StorageBundle struct {
	FileStorage     port.FileStorage
	AttachmentStore port.AttachmentStore
}

// SpreadsheetBundle holds the workbook reader and writer.
type SpreadsheetBundle struct {
	Inspector port.AttachmentInspector
	Exporter  port.ReportExporter
}

// ProvideDatabase opens the database and applies the embedded migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	applied, err := database.NewMigrator(db, logger).Run(database.Migrations())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database migrations applied", zap.Int("count", applied))

	return &DatabaseBundle{
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Report: repository.NewReportRepository(sqlDB, logger),
	}, nil
}

// ProvideStorage creates the file storage rooted at the configured base
// directory and the attachment store on top of it.
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	files := storage.NewLocalFileStorage(cfg.BaseDir, logger)

	return &StorageBundle{
		FileStorage:     files,
		AttachmentStore: storage.NewAttachmentStore(files, logger),
	}, nil
}

// ProvideSpreadsheets creates the attachment inspector and report exporter.
func ProvideSpreadsheets(cfg *StorageConfig, files port.FileStorage, logger *zap.Logger) (*SpreadsheetBundle, error) {
	if files == nil {
		return nil, fmt.Errorf("file storage is required")
	}

	inspector, err := spreadsheet.NewInspector(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create inspector: %w", err)
	}

	return &SpreadsheetBundle{
		Inspector: inspector,
		Exporter:  spreadsheet.NewExporter(files, cfg.ExportDir, logger),
	}, nil
}

// ProvideChatCompleter creates the OpenAI chat client. It returns nil when no
// API key is configured, which leaves the chat endpoint unavailable.
func ProvideChatCompleter(cfg *OpenAIConfig, logger *zap.Logger) port.ChatCompleter {
	if cfg == nil || cfg.APIKey == "" {
		logger.Info("OpenAI API key not set, chat assistant disabled")
		return nil
	}

	return openai.NewChatCompleter(openai.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, logger)
}

// ProvideAnnouncer creates the Lark report announcer. It returns nil when
// Lark is disabled.
func ProvideAnnouncer(cfg *LarkConfig, logger *zap.Logger) port.ReportAnnouncer {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Lark announcements disabled")
		return nil
	}

	client := infraLark.NewSDKClient(infraLark.Config{
		AppID:         cfg.AppID,
		AppSecret:     cfg.AppSecret,
		ReceiveIDType: cfg.ReceiveIDType,
		ReceiveID:     cfg.ReceiveID,
	}, logger)

	return infraLark.NewAnnouncer(client, cfg.ReceiveIDType, cfg.ReceiveID, logger)
}

// ProvideMetrics creates a Prometheus registry carrying the process and Go
// runtime collectors plus the service's own metrics.
func ProvideMetrics() (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.New(reg)
}

// ServiceDeps holds dependencies for creating services.
type ServiceDeps struct {
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Storage    *StorageBundle
	Sheets     *SpreadsheetBundle
	Completer  port.ChatCompleter
	Announcer  port.ReportAnnouncer
	StorageCfg *StorageConfig
	Logger     *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Repos == nil || deps.TxManager == nil || deps.Storage == nil || deps.Sheets == nil {
		return nil, fmt.Errorf("repositories, transaction manager, storage and spreadsheets are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	svcLogger := &zapLoggerAdapter{logger: deps.Logger}

	reports := service.NewReportService(
		deps.Repos.Report,
		deps.TxManager,
		deps.Storage.AttachmentStore,
		deps.Sheets.Inspector,
		deps.Sheets.Exporter,
		deps.Announcer,
		svcLogger,
	)

	return &ServiceBundle{
		Report:     reports,
		Attachment: service.NewAttachmentService(deps.Storage.AttachmentStore, deps.StorageCfg.MaxUploadBytes, svcLogger),
		Chat:       service.NewChatService(deps.Completer, reports, svcLogger),
	}, nil
}

// RegistryDeps holds dependencies for the wizard session registry.
type RegistryDeps struct {
	Config      *WizardConfig
	Submitter   port.SubmissionService
	Attachments service.AttachmentService
	Metrics     *metrics.Metrics
	Registerer  prometheus.Registerer
	Logger      *zap.Logger
}

// ProvideRegistry creates the wizard session registry. Sessions that leave
// the registry have their uploaded files removed.
func ProvideRegistry(deps *RegistryDeps) (*wizard.Registry, error) {
	if deps == nil || deps.Config == nil {
		return nil, fmt.Errorf("wizard config is required")
	}
	if deps.Submitter == nil {
		return nil, fmt.Errorf("submission service is required")
	}

	opts := []wizard.RegistryOption{
		wizard.WithRemovalHook(func(ctx context.Context, sessionID string) {
			if deps.Attachments != nil {
				deps.Attachments.PurgeSession(ctx, sessionID)
			}
		}),
	}
	if deps.Metrics != nil {
		opts = append(opts, wizard.WithRecorder(deps.Metrics))
	}

	registry := wizard.NewRegistry(wizard.RegistryConfig{
		SubmissionTimeout: deps.Config.SubmissionTimeout,
		SessionTTL:        deps.Config.SessionTTL,
		SweepInterval:     deps.Config.SweepInterval,
		InboxCapacity:     deps.Config.InboxCapacity,
	}, deps.Submitter, &zapLoggerAdapter{logger: deps.Logger}, opts...)

	if deps.Registerer != nil {
		metrics.RegisterSessionGauge(deps.Registerer, registry.Len)
	}

	return registry, nil
}

// ProvideWorkers builds the worker manager with the idle session sweeper registered.
func ProvideWorkers(sessions *wizard.Registry, logger *zap.Logger) *worker.Manager {
	manager := worker.NewManager(logger)
	manager.Register(worker.NewLoopWorker("session-sweeper", sessions.Run))
	return manager
}
