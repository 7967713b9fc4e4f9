package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/config"
	"github.com/agenthands/dtpr/internal/core/fulfillment"
	"github.com/agenthands/dtpr/internal/dataset"
	"github.com/agenthands/dtpr/internal/llm"
	"github.com/agenthands/dtpr/internal/logging"
	"github.com/agenthands/dtpr/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The snapshot is complete before the listener opens.
	src, closeSource, err := dataset.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open dataset", zap.String("mode", cfg.Dataset.Mode), zap.Error(err))
	}
	defer func() { _ = closeSource(context.Background()) }()

	agent := fulfillment.NewAgent(src, cfg.Defaults.PlaceID, logger)
	agent.FanOut = cfg.Concurrency.FanOut

	client, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to initialize llm client", zap.Error(err))
	}
	if client != nil {
		agent.Redirector = llm.NewRedirector(client)
		logger.Info("fallback redirects enabled", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(agent, cfg.Server, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("dataset", cfg.Dataset.Mode))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
