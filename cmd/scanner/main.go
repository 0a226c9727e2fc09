package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"

	"account_scanner/internal/app/service"
	"account_scanner/internal/config"
	"account_scanner/internal/infrastructure/etherscan"
	"account_scanner/internal/infrastructure/restapi"
	"account_scanner/internal/pkg/metrics"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	// .env carries the API key in development; absence is fine, the
	// environment may already be populated.
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	cfgPath := getEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLevel, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		zapLevel = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	zapLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Bridge zap into slog for libraries that log through the standard handler.
	slogHandler := zapslog.NewHandler(zapLogger.Core())
	slog.SetDefault(slog.New(slogHandler))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))
	if cfg.Etherscan.APIKey == "" {
		zapLogger.Warn("No Etherscan API key configured; queries will be heavily throttled by the provider")
	}

	metrics.MustRegisterMetrics()

	ledgerClient := etherscan.NewClient(
		cfg.Etherscan.BaseURL,
		cfg.Etherscan.APIKey,
		time.Duration(cfg.Etherscan.RequestTimeoutMillis)*time.Millisecond,
		cfg.Etherscan.RateLimitPerSecond,
		cfg.Etherscan.RateLimitBurst,
		zapLogger,
	)
	zapLogger.Info("Etherscan client initialized", zap.String("baseURL", cfg.Etherscan.BaseURL))

	scanSvc := service.NewScanService(ledgerClient, cfg, zapLogger)
	balanceSvc := service.NewBalanceService(scanSvc, ledgerClient, cfg, zapLogger)
	zapLogger.Info("Scanner services initialized")

	handler := restapi.NewScanHandler(scanSvc, balanceSvc, zapLogger)
	router := restapi.SetupRouter(handler)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
