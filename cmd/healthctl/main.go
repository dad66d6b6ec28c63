package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/janhq/health-assistant/internal/app"
	"github.com/janhq/health-assistant/internal/config"
	"github.com/janhq/health-assistant/internal/infrastructure/logger"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "healthctl",
	Short: "Ask the health assistant and manage its data from the terminal",
	Long: `healthctl runs the same pipeline as the server against the configured
database and completion service.

Examples:
  healthctl ask "How did I sleep yesterday?"
  healthctl log-set 2025-10-25 Squat 100 5 3
  healthctl sync oura`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(logSetCmd)
	rootCmd.AddCommand(toolsCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// withContainer loads configuration, builds the pipeline and runs fn.
// probe controls whether the completion service is contacted at startup.
func withContainer(cmd *cobra.Command, probe bool, fn func(ctx context.Context, c *app.Container) error) error {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.LLMProbe = cfg.LLMProbe && probe
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	} else if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	log := logger.NewWithWriter(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()

	return fn(ctx, container)
}

func loadEnvFiles() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
