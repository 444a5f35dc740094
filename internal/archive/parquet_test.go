package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/navid-fn/stockpipe/internal/models"
)

func TestArchivePath(t *testing.T) {
	a := NewParquetArchiver("/data")
	a.now = func() time.Time { return time.Date(2024, 6, 15, 23, 0, 0, 0, time.UTC) }

	got := a.path("run-1", "aapl")
	want := filepath.Join("/data", "AAPL", "2024-06-15", "run-1.parquet")
	if got != want {
		t.Errorf("path mismatch:\n  got  %s\n  want %s", got, want)
	}
}

func TestArchiveWriteRead(t *testing.T) {
	a := NewParquetArchiver(t.TempDir())

	rows := []models.DailyPrice{
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11, Volume: 1000, MovingAvg7d: 11},
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 9, High: 10, Low: 8, Close: 9, Volume: 900, MovingAvg7d: 10},
	}

	path, err := a.Archive(context.Background(), "run-1", "AAPL", rows)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("Expected %d rows, got %d", len(rows), len(got))
	}
	for i := range rows {
		if !got[i].Date.Equal(rows[i].Date) || got[i].Close != rows[i].Close || got[i].Volume != rows[i].Volume ||
			got[i].MovingAvg7d != rows[i].MovingAvg7d {
			t.Errorf("Row %d mismatch: got %+v, want %+v", i, got[i], rows[i])
		}
	}
}
