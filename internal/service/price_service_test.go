package service

import (
	"context"
	"errors"
	"testing"

	"github.com/navid-fn/stockpipe/internal/models"
)

type stubRepo struct {
	prices    []models.DailyPrice
	count     int64
	err       error
	lastLimit int
}

func (s *stubRepo) GetPrices(_ context.Context, limit int) ([]models.DailyPrice, error) {
	s.lastLimit = limit
	return s.prices, s.err
}

func (s *stubRepo) CountPrices(context.Context) (int64, error) {
	return s.count, s.err
}

func TestGetPrices(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"all rows", 0, false},
		{"limited", 10, false},
		{"max", MaxPriceLimit, false},
		{"negative", -1, true},
		{"too large", MaxPriceLimit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{}
			prices, err := NewPricesService(repo).GetPrices(context.Background(), tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidLimit) {
				t.Errorf("Expected ErrInvalidLimit, got %v", err)
			}
			if tt.wantErr {
				return
			}
			if repo.lastLimit != tt.limit {
				t.Errorf("Expected limit %d passed through, got %d", tt.limit, repo.lastLimit)
			}
			if prices == nil {
				t.Error("Expected empty slice, got nil")
			}
		})
	}
}

func TestRepositoryErrorsPropagate(t *testing.T) {
	cause := errors.New("table does not exist")
	svc := NewPricesService(&stubRepo{err: cause})

	_, err := svc.GetPrices(context.Background(), 0)
	if !errors.Is(err, cause) {
		t.Errorf("Expected repository error, got %v", err)
	}
	if errors.Is(err, ErrInvalidLimit) {
		t.Error("Repository failure must not look like a bad limit")
	}
	if _, err := svc.CountPrices(context.Background()); !errors.Is(err, cause) {
		t.Errorf("Expected repository error, got %v", err)
	}
}
