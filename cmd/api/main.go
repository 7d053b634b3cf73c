package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smoothie-catalog/internal/api"
	"smoothie-catalog/internal/core/dataset"
	"smoothie-catalog/internal/core/suggest"
	"smoothie-catalog/internal/infrastructure/config"
	"smoothie-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// the service is unusable without the dataset; fail hard here
	catalog, err := dataset.NewProvider(cfg.Dataset.Path).Get()
	if err != nil {
		common.LogFatal("Failed to load dataset", zap.Error(err))
	}

	store := suggest.NewStore(cfg.Images.CachePath, cfg.Images.SeedCachePath)
	suggestSvc := suggest.NewService(cfg, store)

	router := api.SetupRouter(cfg, catalog, suggestSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("starting application",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	// flush any in-flight cache write before exiting
	if err := store.Persist(); err != nil {
		common.LogWarn("Final cache persist failed", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
