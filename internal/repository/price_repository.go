package repository

import (
	"context"

	"github.com/navid-fn/stockpipe/internal/models"
	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenClickHouse opens a lazy gorm handle. Nothing is sent to the server until
// the first query, so a warehouse that is down at startup only fails requests.
func OpenClickHouse(dsn string) (*gorm.DB, error) {
	return gorm.Open(clickhouse.New(clickhouse.Config{
		DSN:                       dsn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Warn),
	})
}

type PriceRepository interface {
	GetPrices(ctx context.Context, limit int) ([]models.DailyPrice, error)
	CountPrices(ctx context.Context) (int64, error)
}

type gormPriceRepository struct {
	db    *gorm.DB
	table string
}

// NewGormPriceRepository reads from the pipeline's destination table.
func NewGormPriceRepository(db *gorm.DB, dest models.TableRef) PriceRepository {
	return &gormPriceRepository{db: db, table: dest.String()}
}

// GetPrices returns rows in stored order. A limit <= 0 returns every row.
func (r *gormPriceRepository) GetPrices(ctx context.Context, limit int) ([]models.DailyPrice, error) {
	var prices []models.DailyPrice
	if err := r.pricesQuery(ctx, limit).Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// pricesQuery selects from the destination without ORDER BY so rows come back
// in insert order.
func (r *gormPriceRepository) pricesQuery(ctx context.Context, limit int) *gorm.DB {
	query := r.db.WithContext(ctx).Table(r.table)
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

func (r *gormPriceRepository) CountPrices(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(r.table).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
