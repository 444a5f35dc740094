package router

import (
	"github.com/gin-gonic/gin"
	"github.com/navid-fn/stockpipe/internal/handler"
)

func registerPriceRoutes(router *gin.RouterGroup, priceHandler *handler.PriceHandler) {
	prices := router.Group("/prices")
	{
		prices.GET("", priceHandler.GetPrices)
		prices.GET("/count", priceHandler.GetCount)
	}
}
