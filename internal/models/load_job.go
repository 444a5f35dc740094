package models

import "fmt"

// WriteDisposition tells the warehouse what to do with existing rows.
type WriteDisposition string

// WriteTruncate deletes every existing row before the new rows become visible.
const WriteTruncate WriteDisposition = "WRITE_TRUNCATE"

// TableRef identifies a destination table.
type TableRef struct {
	Dataset string
	Table   string
}

func (r TableRef) String() string {
	return fmt.Sprintf("%s.%s", r.Dataset, r.Table)
}

// LoadJob is a single replace-all write of Rows into Destination.
type LoadJob struct {
	Destination TableRef
	Disposition WriteDisposition
	Rows        []DailyPrice
}

// NewLoadJob builds the truncate-and-replace job used by every run.
func NewLoadJob(dest TableRef, rows []DailyPrice) *LoadJob {
	return &LoadJob{
		Destination: dest,
		Disposition: WriteTruncate,
		Rows:        rows,
	}
}
