package main

import (
	"fmt"
	"os"

	"github.com/de-tools/timesheet-atlas/pkg/server"
	"github.com/de-tools/timesheet-atlas/pkg/services/config"
	"github.com/de-tools/timesheet-atlas/pkg/services/session"
	"github.com/de-tools/timesheet-atlas/pkg/services/summary"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the timesheet report web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file (optional; environment overrides apply)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	apiKey := cfg.ResolveAPIKey("")
	if apiKey == "" {
		logger.Warn().Msg("no summarizer credential configured, executive summaries fall back to the local heuristic")
	}

	editSession := session.New(session.Options{
		Summarizer: summary.NewGenerator(summary.NewClient(cfg.Summarizer.BaseURL)),
		APIKey:     apiKey,
	})

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Session: editSession,
			Logger:  logger,
		},
	})

	logger.Info().Str("addr", cfg.Server.Addr).Msg("configuration loaded")
	return api.Start()
}
