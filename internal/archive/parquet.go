// Package archive keeps a Parquet copy of every run's rows on local disk.
// The warehouse table is replaced on each run; the archive is the only place
// older windows survive.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/navid-fn/stockpipe/internal/models"

	"github.com/parquet-go/parquet-go"
)

// PriceRecord is the Parquet schema of an archived row.
type PriceRecord struct {
	Date        int64   `parquet:"date,timestamp(millisecond)"` // Unix ms, midnight UTC
	Open        float64 `parquet:"open"`
	High        float64 `parquet:"high"`
	Low         float64 `parquet:"low"`
	Close       float64 `parquet:"close"`
	Volume      int64   `parquet:"volume"`
	MovingAvg7d float64 `parquet:"moving_avg_7d"`
}

// ParquetArchiver writes snapshots to:
//
//	<DataDir>/<SYMBOL>/<YYYY-MM-DD>/<runID>.parquet
type ParquetArchiver struct {
	DataDir string
	now     func() time.Time
}

// NewParquetArchiver creates an archiver rooted at dataDir.
func NewParquetArchiver(dataDir string) *ParquetArchiver {
	return &ParquetArchiver{DataDir: dataDir, now: time.Now}
}

// Archive writes rows for symbol and returns the file path.
func (a *ParquetArchiver) Archive(_ context.Context, runID, symbol string, rows []models.DailyPrice) (string, error) {
	path := a.path(runID, symbol)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	records := make([]PriceRecord, len(rows))
	for i, r := range rows {
		records[i] = PriceRecord{
			Date:        r.Date.UnixMilli(),
			Open:        r.Open,
			High:        r.High,
			Low:         r.Low,
			Close:       r.Close,
			Volume:      r.Volume,
			MovingAvg7d: r.MovingAvg7d,
		}
	}

	if err := parquet.WriteFile(path, records); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Read loads an archived snapshot back into rows, in the order they were written.
func Read(path string) ([]models.DailyPrice, error) {
	records, err := parquet.ReadFile[PriceRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rows := make([]models.DailyPrice, len(records))
	for i, r := range records {
		rows[i] = models.DailyPrice{
			Date:        time.UnixMilli(r.Date).UTC(),
			Open:        r.Open,
			High:        r.High,
			Low:         r.Low,
			Close:       r.Close,
			Volume:      r.Volume,
			MovingAvg7d: r.MovingAvg7d,
		}
	}
	return rows, nil
}

func (a *ParquetArchiver) path(runID, symbol string) string {
	day := a.now().UTC().Format(time.DateOnly)
	return filepath.Join(a.DataDir, strings.ToUpper(symbol), day, runID+".parquet")
}
