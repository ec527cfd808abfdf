package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery-service/internal/handler"
	"bakery-service/internal/notifier"
	"bakery-service/internal/repository"
	"bakery-service/internal/server"
	"bakery-service/pkg/config"
	"bakery-service/pkg/logger"
	"bakery-service/pkg/sheets"
	"bakery-service/pkg/telegram"
	"bakery-service/prometheus"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	appConfig, err := config.Load()
	if err != nil {
		return err
	}

	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting bakery-service", appConfig.LogFields()...)
	if missing := appConfig.Missing(); len(missing) > 0 {
		log.Warn("Configuration is incomplete, dependent features are disabled",
			zap.Strings("missing", missing))
	}

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	sheetsClient := sheets.New(&appConfig.Sheets, log.Named("sheets"))
	bot := telegram.New(&appConfig.Telegram, log.Named("telegram"))

	names := appConfig.Sheets.Names
	h := handler.New(
		repository.NewCatalogRepository(sheetsClient, names),
		repository.NewCustomerRepository(sheetsClient, names),
		repository.NewOrderRepository(sheetsClient, names),
		notifier.New(bot, &appConfig.Telegram, log.Named("notifier")),
		appConfig.Telegram.AdminID,
	)
	e := server.New(appConfig, h)

	go func() {
		log.Info("Starting server", zap.String("port", appConfig.Server.Port))
		if err := e.Start(":" + appConfig.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// External sessions failing at boot leave the server up; requests retry the connect.
	ctx := context.Background()
	if err := sheetsClient.Connect(ctx); err != nil {
		log.Error("Google Sheets is unavailable", zap.Error(err))
	}
	if err := bot.Connect(ctx); err != nil {
		log.Error("Telegram bot is unavailable", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutting down", zap.String("signal", sig.String()))

	if err := bot.Close(); err != nil {
		log.Warn("Failed to stop Telegram bot", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
		return err
	}

	log.Info("Server stopped")
	return nil
}
