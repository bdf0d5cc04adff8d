package main

import (
	"github.com/spf13/cobra"

	"bolx/internal/config"
	"bolx/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bolx",
		Short: "Extract structured fields from Bill of Lading PDFs",
		Long: `bolx reads Bill of Lading PDFs, falls back to OCR when the embedded text
is too thin, and extracts parties, vessel, ports, cargo and dates into a
flat record per document.

Configuration is read from BOLX_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")

	root.AddCommand(newExtractCmd(), newPatternsCmd(), newTokenCmd())
	return root
}

// loadConfig reads the environment configuration and installs the logger
// selected by the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	cfg.Log = config.LogConfig{Level: level, Format: format}
	logger.Init(cfg.Log)
	return cfg, nil
}
