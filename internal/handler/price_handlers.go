package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/stockpipe/internal/service"
)

type PriceHandler struct {
	priceService *service.PricesService
}

func NewPriceHandler(service *service.PricesService) *PriceHandler {
	return &PriceHandler{
		priceService: service,
	}
}

func (h *PriceHandler) GetPrices(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = v
	}

	prices, err := h.priceService.GetPrices(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLimit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prices)
}

func (h *PriceHandler) GetCount(c *gin.Context) {
	count, err := h.priceService.CountPrices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
