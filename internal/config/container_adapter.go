package config

import (
	"github.com/garyjia/arziki-reports/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
		},
		Storage: container.StorageConfig{
			BaseDir:        c.Storage.BaseDir,
			ExportDir:      c.Storage.ExportDir,
			MaxUploadBytes: c.Storage.MaxUploadBytes,
		},
		Wizard: container.WizardConfig{
			SubmissionTimeout: c.Wizard.SubmissionTimeout,
			SessionTTL:        c.Wizard.SessionTTL,
			SweepInterval:     c.Wizard.SweepInterval,
			InboxCapacity:     c.Wizard.InboxCapacity,
		},
		OpenAI: container.OpenAIConfig{
			APIKey:      c.OpenAI.APIKey,
			BaseURL:     c.OpenAI.BaseURL,
			Model:       c.OpenAI.Model,
			Temperature: c.OpenAI.Temperature,
			MaxTokens:   c.OpenAI.MaxTokens,
			Timeout:     c.OpenAI.Timeout,
		},
		Lark: container.LarkConfig{
			Enabled:       c.Lark.Enabled,
			AppID:         c.Lark.AppID,
			AppSecret:     c.Lark.AppSecret,
			ReceiveIDType: c.Lark.ReceiveIDType,
			ReceiveID:     c.Lark.ReceiveID,
		},
	}
}
