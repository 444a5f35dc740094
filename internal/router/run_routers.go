package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/stockpipe/internal/handler"
	"golang.org/x/time/rate"
)

func registerRunRoutes(router *gin.Engine, runHandler *handler.RunHandler, limiter *rate.Limiter) {
	trigger := []gin.HandlerFunc{runHandler.Trigger}
	if limiter != nil {
		trigger = append([]gin.HandlerFunc{Throttle(limiter)}, trigger...)
	}

	router.Any("/", trigger...)
	router.Any("/v1/run", trigger...)
}
