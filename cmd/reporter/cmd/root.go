/*
Package cmd implements the reporter CLI.

COMMANDS:
  generate [reporter...]  Run reporters and write markdown files
  serve                   Run the HTTP API with the report archive

CONFIGURATION:
  Flags > LOYALTY_* environment > config file > defaults. The upstream
  token is environment-only (LOYALTY_API_TOKEN).
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/loyalty-reporter/config"
)

var (
	configFile string
	baseURL    string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reporter",
	Short: "Loyalty configuration reporter",
	Long: `Reporter turns a loyalty program's remote configuration - reward groups,
tiers, promotions, rewards, audience/product/location groups - into
self-contained markdown reports with rules rendered as natural language.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		zapCfg := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "upstream API base URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}
