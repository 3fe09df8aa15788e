package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/faqtree/internal/app"
	"github.com/agentic-research/faqtree/internal/config"
	"github.com/agentic-research/faqtree/internal/ingest"
)

var (
	configPath string

	cfg    *config.Config
	logger *slog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config (default $FAQ_CONFIG_PATH or ./faqtree.yaml)")
}

var rootCmd = &cobra.Command{
	Use:           "faqtree",
	Short:         "faqtree: a menu-driven FAQ bot over a JSON question tree",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger = app.NewLogger(cfg.Log)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseOptions() ingest.Options {
	return ingest.Options{MaxDepth: cfg.Data.MaxDepth}
}

// documentPath is the first argument, or the configured live file.
func documentPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Data.LivePath
}
