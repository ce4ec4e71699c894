// Command check-chat sends one question to the configured chat model and
// prints the answer. It is used to verify OpenAI credentials and base URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/config"
	"github.com/garyjia/arziki-reports/internal/infrastructure/external/openai"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	question := flag.String("q", "How many weeks of stock should a small grocery keep for rice?", "question to ask")
	timeout := flag.Duration("timeout", 30*time.Second, "API call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	if cfg.OpenAI.APIKey == "" {
		fmt.Fprintf(os.Stderr, "ERROR: OPENAI_API_KEY not set\n")
		os.Exit(1)
	}

	fmt.Println("=== Chat Connection Check ===")
	fmt.Println("Configuration:")
	fmt.Printf("  Model: %s\n", cfg.OpenAI.Model)
	if cfg.OpenAI.BaseURL != "" {
		fmt.Printf("  Base URL: %s\n", cfg.OpenAI.BaseURL)
	}
	fmt.Printf("  API key length: %d chars\n", len(cfg.OpenAI.APIKey))
	fmt.Printf("  Timeout: %v\n\n", *timeout)

	completer := openai.NewChatCompleter(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Timeout:     *timeout,
	}, logger)

	start := time.Now()
	reply, err := completer.Complete(context.Background(), []port.ChatMessage{
		{Role: port.ChatRoleUser, Content: *question},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Chat call failed after %v: %v\n", time.Since(start).Round(time.Millisecond), err)
		os.Exit(1)
	}

	fmt.Printf("✓ Reply received in %v\n\n", time.Since(start).Round(time.Millisecond))
	fmt.Println(reply)
}
