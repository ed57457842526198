package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"easykaiko/src/logger"
	"easykaiko/src/models"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	rootEnvFile   string
	rootAPIKeyEnv string
	rootLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:           "easykaiko",
	Short:         "Kaiko market data client",
	Long:          "Query historical Kaiko market data, stream it in realtime or relay streams to NATS",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(rootEnvFile)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootEnvFile, "env-file", ".env", "dotenv file loaded before running (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&rootAPIKeyEnv, "api-key-env", "KAIKO_API_KEY", "environment variable holding the API key")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "warning", "log level for fetch and stream (debug, info, warning, error)")
}

// -----------------------------------------------------------------------------

// loadEnvFile loads path without overriding variables already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// apiKeyFromEnv reads the key named by --api-key-env.
func apiKeyFromEnv() (string, error) {
	key := os.Getenv(rootAPIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is not set", rootAPIKeyEnv)
	}
	return key, nil
}

// cliLogger writes text logs to stderr so stdout only carries data.
func cliLogger() *logger.Logger {
	return logger.New(models.MLoggingConfig{Level: rootLogLevel, Format: "text"}, "easykaiko")
}
