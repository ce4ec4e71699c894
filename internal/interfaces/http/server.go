// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/application/service"
	"github.com/garyjia/arziki-reports/internal/application/wizard"
	"github.com/garyjia/arziki-reports/internal/infrastructure/metrics"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HealthFunc reports overall health and per-component details
type HealthFunc func() (healthy bool, details interface{})

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// MaxUploadBytes sizes the multipart buffer for attachment uploads
	MaxUploadBytes int64
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxUploadBytes:  10 << 20,
	}
}

// Deps are the application components the HTTP layer drives. Metrics,
// Gatherer and Health are optional.
type Deps struct {
	Sessions    *wizard.Registry
	Reports     service.ReportService
	Attachments service.AttachmentService
	Chat        service.ChatService
	Files       port.FileStorage
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Health      HealthFunc
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	deps       Deps
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, deps Deps, logger Logger) *Server {
	router := gin.New()
	if config.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = config.MaxUploadBytes
	}

	server := &Server{
		config: config,
		router: router,
		deps:   deps,
		logger: logger,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
	if s.deps.Metrics != nil {
		s.router.Use(metricsMiddleware(s.deps.Metrics))
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.deps, s.logger)

	s.router.GET("/health", handlers.HealthCheck)
	if s.deps.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := s.router.Group("/api/v1")
	api.Use(authMiddleware())
	{
		// Wizard sessions
		api.POST("/wizards", handlers.CreateWizard)
		api.GET("/wizards/:id", handlers.GetWizard)
		api.DELETE("/wizards/:id", handlers.DiscardWizard)

		api.PUT("/wizards/:id/business", handlers.SetBusiness)
		api.PUT("/wizards/:id/supplier", handlers.SetSupplier)

		api.POST("/wizards/:id/products", handlers.AppendProduct)
		api.PATCH("/wizards/:id/products/:index", handlers.UpdateProduct)
		api.DELETE("/wizards/:id/products/:index", handlers.RemoveProduct)

		api.POST("/wizards/:id/stock", handlers.AppendStockEntry)
		api.PATCH("/wizards/:id/stock/:index", handlers.UpdateStockEntry)
		api.DELETE("/wizards/:id/stock/:index", handlers.RemoveStockEntry)

		api.POST("/wizards/:id/next", handlers.Next)
		api.POST("/wizards/:id/back", handlers.Back)
		api.POST("/wizards/:id/skip", handlers.Skip)
		api.POST("/wizards/:id/submit", handlers.Submit)
		api.POST("/wizards/:id/restart", handlers.Restart)

		api.POST("/wizards/:id/attachments", handlers.UploadAttachment)
		api.DELETE("/wizards/:id/attachments/:attachmentId", handlers.RemoveAttachment)

		api.GET("/wizards/:id/notifications", handlers.Notifications)

		// Reports
		api.GET("/reports", handlers.ListReports)
		api.GET("/reports/:id", handlers.GetReport)
		api.GET("/reports/:id/export", handlers.ExportReport)

		// Chat assistant
		api.POST("/chat/message", handlers.SendChatMessage)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
