package container

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/application/service"
	"github.com/garyjia/arziki-reports/internal/application/wizard"
	"github.com/garyjia/arziki-reports/internal/infrastructure/metrics"
	"github.com/garyjia/arziki-reports/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/arziki-reports/internal/infrastructure/worker"
)

// Container manages all application dependencies and lifecycle.
// It follows Clean Architecture principles with ordered initialization
// and reverse-order teardown.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	sqlDB        *sql.DB
	db           *sqlite.DB
	repositories *RepositoryBundle

	// Infrastructure - Storage
	storage *StorageBundle
	sheets  *SpreadsheetBundle

	// Infrastructure - External
	completer port.ChatCompleter
	announcer port.ReportAnnouncer

	// Observability
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Application
	services *ServiceBundle
	sessions *wizard.Registry

	// Background workers
	workers *worker.Manager

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Report port.ReportRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Report     service.ReportService
	Attachment service.AttachmentService
	Chat       service.ChatService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components and begins processing.
// Components are initialized in dependency order:
// 1. Database and repositories
// 2. Storage and spreadsheets
// 3. External clients (OpenAI, Lark)
// 4. Metrics
// 5. Application services
// 6. Wizard session registry
// 7. Background workers (idle session sweeper)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and repositories
	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	// Step 2: Initialize storage and spreadsheets
	if err := c.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.logger.Info("Storage initialized")

	// Step 3: Initialize external clients
	c.completer = ProvideChatCompleter(&c.config.OpenAI, c.logger)
	c.announcer = ProvideAnnouncer(&c.config.Lark, c.logger)
	c.logger.Info("External clients initialized")

	// Step 4: Initialize metrics
	c.registry, c.metrics = ProvideMetrics()

	// Step 5: Initialize application services
	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	// Step 6: Initialize wizard sessions
	if err := c.initSessions(); err != nil {
		return fmt.Errorf("failed to initialize wizard sessions: %w", err)
	}
	c.logger.Info("Wizard session registry initialized")

	// Step 7: Start background workers
	if err := c.initWorkers(); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	c.logger.Info("Background workers started", zap.Int("count", c.workers.Count()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	// Cancel context to signal all goroutines
	if c.cancel != nil {
		c.cancel()
	}

	// Stop workers first (reverse of step 7)
	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	// Steps 2-6 hold no resources beyond the database

	// Close database last (reverse of step 1)
	if c.sqlDB != nil {
		if err := c.sqlDB.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check database
	if c.sqlDB != nil {
		if err := c.sqlDB.Ping(); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Check workers
	if c.workers != nil && c.workers.IsRunning() {
		status.Components["workers"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("running: %d", c.workers.Count()),
		}
	} else {
		status.Components["workers"] = ComponentHealth{
			Healthy: false,
			Message: "not running",
		}
		status.Overall = false
	}

	// Check wizard sessions
	if c.sessions != nil {
		status.Components["wizard_sessions"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("active sessions: %d", c.sessions.Len()),
		}
	} else {
		status.Components["wizard_sessions"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Optional integrations never fail the overall status
	status.Components["chat"] = optionalHealth(c.completer != nil, "OPENAI_API_KEY not set")
	status.Components["lark"] = optionalHealth(c.announcer != nil, "disabled")

	return status
}

func optionalHealth(enabled bool, reason string) ComponentHealth {
	if enabled {
		return ComponentHealth{Healthy: true}
	}
	return ComponentHealth{Healthy: true, Message: reason}
}

// initDatabase initializes the database and all repositories using providers.
func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.sqlDB = dbBundle.SqlDB
	c.db = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.sqlDB, c.logger)
	if err != nil {
		c.sqlDB.Close()
		return err
	}

	c.repositories = repos
	return nil
}

// initStorage initializes file storage, the attachment store and the
// spreadsheet adapters using providers.
func (c *Container) initStorage() error {
	storageBundle, err := ProvideStorage(&c.config.Storage, c.logger)
	if err != nil {
		return err
	}
	c.storage = storageBundle

	sheets, err := ProvideSpreadsheets(&c.config.Storage, storageBundle.FileStorage, c.logger)
	if err != nil {
		return err
	}
	c.sheets = sheets
	return nil
}

// initServices initializes all application services using providers.
func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Repos:      c.repositories,
		TxManager:  c.db,
		Storage:    c.storage,
		Sheets:     c.sheets,
		Completer:  c.completer,
		Announcer:  c.announcer,
		StorageCfg: &c.config.Storage,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}

	c.services = services
	return nil
}

// initSessions creates the wizard session registry.
func (c *Container) initSessions() error {
	sessions, err := ProvideRegistry(&RegistryDeps{
		Config:      &c.config.Wizard,
		Submitter:   c.services.Report,
		Attachments: c.services.Attachment,
		Metrics:     c.metrics,
		Registerer:  c.registry,
		Logger:      c.logger,
	})
	if err != nil {
		return err
	}
	c.sessions = sessions
	return nil
}

// initWorkers registers and starts background workers.
func (c *Container) initWorkers() error {
	c.workers = ProvideWorkers(c.sessions, c.logger)
	return c.workers.StartAll(c.ctx)
}

// Getters for accessing container components

// DB returns the transaction manager.
func (c *Container) DB() port.TransactionManager {
	return c.db
}

// Repositories returns all repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// FileStorage returns the file storage rooted at the storage base directory.
func (c *Container) FileStorage() port.FileStorage {
	if c.storage == nil {
		return nil
	}
	return c.storage.FileStorage
}

// Services returns all application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Sessions returns the wizard session registry.
func (c *Container) Sessions() *wizard.Registry {
	return c.sessions
}

// MetricsRegistry returns the Prometheus registry served on /metrics.
func (c *Container) MetricsRegistry() *prometheus.Registry {
	return c.registry
}

// Metrics returns the service's collectors.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// ServiceLogger returns the logger in the form application services take.
func (c *Container) ServiceLogger() service.Logger {
	return &zapLoggerAdapter{logger: c.logger}
}

// Config returns the container's configuration.
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the service and wizard Logger interfaces.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Info(msg, fields...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Error(msg, fields...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
