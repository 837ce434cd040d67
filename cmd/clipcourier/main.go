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

	"github.com/yourusername/clipcourier/api"
	"github.com/yourusername/clipcourier/internal/app"
	"github.com/yourusername/clipcourier/internal/domain"
	"github.com/yourusername/clipcourier/internal/infrastructure"
	"github.com/yourusername/clipcourier/internal/telemetry"
	"github.com/yourusername/clipcourier/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "clipcourier",
	Short: "Chat bot that fetches shared video links and sends them back as attachments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	for _, dir := range []string{config.Download.WorkDir, config.Download.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	telemetry.Init()

	log.Info("Starting clipcourier",
		zap.String("work_dir", config.Download.WorkDir),
		zap.Int("target_height", config.Download.TargetHeight))

	jobLog := infrastructure.NewJobLog(config.Download.LogsDir)
	fetcher := infrastructure.NewYTDLP(&config.Download, jobLog, log)
	merger := infrastructure.NewFFmpeg(&config.Download, jobLog, log)
	orchestrator := app.NewOrchestrator(fetcher, merger, &config.Download, log)

	transport, err := infrastructure.NewTelegramTransport(&config.Bot, log)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	stats := app.NewStats()
	handler := app.NewHandler(transport, orchestrator, &config.Download, stats, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var server *http.Server
	if config.Server.Port > 0 {
		router := api.SetupRouter(stats, log)
		addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
		server = &http.Server{Addr: addr, Handler: router}
		go func() {
			log.Info("HTTP server listening", zap.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("HTTP server failed", zap.Error(err))
			}
		}()
	}

	// Blocks until ctx is cancelled by a shutdown signal.
	transport.Listen(ctx, func(msg domain.Message) {
		handler.HandleMessage(ctx, msg)
	})

	log.Info("Shutting down...")

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
	}

	log.Info("Bot exited")
	return nil
}
