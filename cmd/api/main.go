package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/stockpipe/configs"
	"github.com/navid-fn/stockpipe/internal/handler"
	"github.com/navid-fn/stockpipe/internal/logger"
	"github.com/navid-fn/stockpipe/internal/models"
	"github.com/navid-fn/stockpipe/internal/pipeline"
	"github.com/navid-fn/stockpipe/internal/repository"
	"github.com/navid-fn/stockpipe/internal/router"
	"github.com/navid-fn/stockpipe/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := configs.AppLoad()
	log := logger.NewLogger(cfg.LogLevel)

	if cfg.DebugMode != "True" {
		gin.SetMode(gin.ReleaseMode)
	}

	runner, closeRunner := pipeline.NewFromAppConfig(cfg, log)
	defer closeRunner()

	routerConfig := &router.Config{
		RunHandler:     handler.NewRunHandler(runner),
		PriceHandler:   newPriceHandler(cfg, log),
		TriggerLimiter: router.NewTriggerLimiter(cfg.TriggerPerMinute),
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.NewRouter(routerConfig),
	}

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", srv.Addr).Info("Starting trigger server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	log.Warn("Shutdown signal received, waiting for running pipelines...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	log.Info("Server stopped")
}

// newPriceHandler connects the read API. The trigger keeps working without it.
func newPriceHandler(cfg *configs.AppConfig, log *logrus.Logger) *handler.PriceHandler {
	db, err := repository.OpenClickHouse(cfg.ClickHouse.DSN(cfg.Dataset))
	if err != nil {
		log.WithError(err).Warn("Read API disabled: invalid database settings")
		return nil
	}

	dest := models.TableRef{Dataset: cfg.Dataset, Table: cfg.Table}
	priceRepo := repository.NewGormPriceRepository(db, dest)
	priceService := service.NewPricesService(priceRepo)
	return handler.NewPriceHandler(priceService)
}
