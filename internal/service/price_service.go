package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/navid-fn/stockpipe/internal/models"
	"github.com/navid-fn/stockpipe/internal/repository"
)

// MaxPriceLimit caps a single read. The provider's compact window is 100 days.
const MaxPriceLimit = 5000

// ErrInvalidLimit is returned when a read limit is out of range.
var ErrInvalidLimit = errors.New("invalid limit")

type PricesService struct {
	repo repository.PriceRepository
}

func NewPricesService(repo repository.PriceRepository) *PricesService {
	return &PricesService{
		repo: repo,
	}
}

func (ps *PricesService) GetPrices(ctx context.Context, limit int) ([]models.DailyPrice, error) {
	if limit < 0 || limit > MaxPriceLimit {
		return nil, fmt.Errorf("%w: must be between 0 and %d", ErrInvalidLimit, MaxPriceLimit)
	}
	prices, err := ps.repo.GetPrices(ctx, limit)
	if err != nil {
		return nil, err
	}
	if prices == nil {
		prices = []models.DailyPrice{}
	}
	return prices, nil
}

func (ps *PricesService) CountPrices(ctx context.Context) (int64, error) {
	return ps.repo.CountPrices(ctx)
}
