package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/stockpipe/internal/handler"
	"golang.org/x/time/rate"
)

type Config struct {
	RunHandler   *handler.RunHandler
	PriceHandler *handler.PriceHandler

	// TriggerLimiter throttles pipeline runs. Nil disables throttling.
	TriggerLimiter *rate.Limiter
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.Default()

	router.GET("/healthz", handler.Health)
	registerRunRoutes(router, cfg.RunHandler, cfg.TriggerLimiter)

	if cfg.PriceHandler != nil {
		api := router.Group("/v1/")
		registerPriceRoutes(api, cfg.PriceHandler)
	}

	return router
}
