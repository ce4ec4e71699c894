// Package container provides dependency injection and lifecycle management
// for the inventory report service.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Storage configuration
	Storage StorageConfig

	// Wizard session configuration
	Wizard WizardConfig

	// OpenAI configuration
	OpenAI OpenAIConfig

	// Lark configuration
	Lark LarkConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration
}

// StorageConfig holds file storage settings.
type StorageConfig struct {
	// BaseDir is the root for uploads, archives and exports
	BaseDir string

	// ExportDir is the directory under BaseDir for generated workbooks
	ExportDir string

	// MaxUploadBytes caps one attachment; zero disables the cap
	MaxUploadBytes int64
}

// WizardConfig holds session registry settings.
type WizardConfig struct {
	SubmissionTimeout time.Duration
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	InboxCapacity     int
}

// OpenAIConfig holds chat model settings. An empty APIKey disables chat.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int

	// Timeout bounds one chat completion
	Timeout time.Duration
}

// LarkConfig holds report announcement settings.
type LarkConfig struct {
	Enabled       bool
	AppID         string
	AppSecret     string
	ReceiveIDType string
	ReceiveID     string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "data/reports.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Storage: StorageConfig{
			BaseDir:        "data/files",
			ExportDir:      "exports",
			MaxUploadBytes: 10 << 20,
		},
		Wizard: WizardConfig{
			SubmissionTimeout: 2 * time.Minute,
			SessionTTL:        30 * time.Minute,
			SweepInterval:     time.Minute,
			InboxCapacity:     50,
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   800,
			Timeout:     60 * time.Second,
		},
		Lark: LarkConfig{
			ReceiveIDType: "chat_id",
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.Storage.BaseDir == "" {
		return fmt.Errorf("storage.base_dir is required")
	}
	if c.Storage.ExportDir == "" {
		return fmt.Errorf("storage.export_dir is required")
	}

	if c.Wizard.SubmissionTimeout <= 0 {
		return fmt.Errorf("wizard.submission_timeout must be positive")
	}

	if c.Lark.Enabled && (c.Lark.AppID == "" || c.Lark.AppSecret == "" || c.Lark.ReceiveID == "") {
		return fmt.Errorf("lark.app_id, lark.app_secret and lark.receive_id are required when lark is enabled")
	}

	return nil
}
