package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/server"
	"github.com/osa911/contactrelay/internal/telemetry"
	"github.com/osa911/contactrelay/internal/version"

	"github.com/spf13/cobra"
)

var (
	logger  *logging.Logger
	envDirs []string
)

// loadConfig reads .env files and the environment, exiting on invalid values
func loadConfig() *config.Config {
	cfg, err := config.Load(envDirs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	if err := logging.InitLogger(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger = logging.GetLogger()
}

var rootCmd = &cobra.Command{
	Use:   "contactrelay",
	Short: "Contact form to email relay",
	Long: `contactrelay accepts contact form submissions on POST /send-email and
forwards each one as an email to a fixed inbox.

Running without a subcommand starts the server.`,
	Run: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server on PORT (default 3000).

The server stops gracefully on SIGINT or SIGTERM.`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := serve(ctx, cfg)
	stop()
	logger.Close()

	if err != nil {
		os.Exit(1)
	}
}

// serve runs the server until ctx is done. Errors are logged before they are
// returned, and tracing is flushed on every path.
func serve(ctx context.Context, cfg *config.Config) error {
	logger.Info("Starting contactrelay %s in %s mode", version.Info(), cfg.Environment)
	for _, warning := range cfg.Warnings() {
		logger.Warn("%s", warning)
	}

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.OTLPEndpoint,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version.Version,
		Environment:    cfg.Environment,
	})
	if err != nil {
		logger.Error("Failed to initialize tracing: %v", err)
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Error("Failed to create server: %v", err)
		return err
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server error: %v", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envDirs, "env-dir", nil, "Directories searched for .env files (default: working directory)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sendTestCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
