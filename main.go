package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/patternworks/tess/internal/config"
	"github.com/patternworks/tess/internal/instructions"
	"github.com/patternworks/tess/internal/llm"
	"github.com/patternworks/tess/internal/service"
	"github.com/patternworks/tess/internal/store"
	transport "github.com/patternworks/tess/internal/transport/http"
)

var logger *zap.Logger

// rootCmd runs the API server.
var rootCmd = &cobra.Command{
	Use:   "tess",
	Short: "Tess - UI Patterns 2 assistant backend",
	Long: `Tess is a conversational assistant backend for UI Patterns 2
development. It proxies chat turns to a model provider, injects
mode-specific instruction documents, and persists conversations as
named sessions.

Run without arguments to start the API server.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if os.Getenv("LOG_LEVEL") == "debug" {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
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
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// cleanupCmd runs one expiry sweep and exits.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete sessions older than the configured maximum age",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		svc, closeStore, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := svc.Cleanup(cmd.Context(), cfg.MaxAgeDays)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d expired sessions\n", n)
		return nil
	},
}

// clearCmd deletes every stored session.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		svc, closeStore, err := buildService(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := svc.ClearAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Successfully deleted %d sessions\n", n)
		return nil
	},
}

// buildService wires the store, instruction library, and provider.
func buildService(cfg *config.Config) (*service.Service, func(), error) {
	db, err := store.NewSQLiteStore(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	library := instructions.NewLibrary(cfg.DocsDir, cfg.DefaultMode, nil, logger)
	provider := llm.NewProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)
	svc := service.New(db, library, provider, cfg, logger)

	return svc, func() { _ = db.Close() }, nil
}

func runServer() error {
	cfg := config.Load()

	logger.Info("starting tess backend",
		zap.Int("port", cfg.HTTPPort),
		zap.String("database", cfg.DatabaseURL),
		zap.String("docs_dir", cfg.DocsDir),
		zap.String("default_mode", cfg.DefaultMode))

	db, err := store.NewSQLiteStore(cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer db.Close()

	library := instructions.NewLibrary(cfg.DocsDir, cfg.DefaultMode, nil, logger)
	provider := llm.NewProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)
	svc := service.New(db, library, provider, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reload instruction documents when they change on disk.
	go func() {
		if err := library.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("instruction watcher stopped", zap.Error(err))
		}
	}()

	// Expiry sweep at startup and daily.
	go svc.RunCleanupLoop(ctx)

	server := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API started", zap.Int("port", cfg.HTTPPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down gracefully", zap.Error(err))
	}

	return nil
}

func main() {
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(clearCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
