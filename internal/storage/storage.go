// Package storage loads daily price rows into the ClickHouse warehouse.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/navid-fn/stockpipe/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const cleanupTimeout = 5 * time.Second

// Warehouse runs load jobs against a managed table.
type Warehouse interface {
	// Load writes job.Rows into job.Destination and blocks until the write is done.
	// It returns *PermissionError or *LoadError on failure.
	Load(ctx context.Context, job *models.LoadJob) error

	// Close releases database connection resources.
	Close() error
}

// clickhouseWarehouse implements Warehouse using the native ClickHouse driver.
// A load never touches the destination until the new rows are fully written:
// rows go to a staging table which is then swapped in with EXCHANGE TABLES.
type clickhouseWarehouse struct {
	conn   driver.Conn
	logger *logrus.Entry
}

// NewClickHouseWarehouse creates a new ClickHouse connection.
// It parses the DSN, opens a connection, and verifies connectivity with a ping.
// Returns an error if connection cannot be established within 5 seconds.
// Connection failures are classified like load failures for table.
func NewClickHouseWarehouse(ctx context.Context, dsn string, table string, logger *logrus.Entry) (Warehouse, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, &LoadError{Table: table, Err: fmt.Errorf("parse dsn: %w", err)}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, classify(table, err)
	}

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return nil, classify(table, err)
	}

	return &clickhouseWarehouse{conn: conn, logger: logger}, nil
}

// Load replaces the destination contents with job.Rows.
//
// Steps:
//  1. Create the destination if it does not exist
//  2. Create a uniquely named staging table with the same structure
//  3. Batch insert all rows into staging
//  4. EXCHANGE TABLES destination AND staging (atomic)
//  5. Drop staging, which now holds the previous rows
//
// A failure before step 4 leaves the destination untouched.
func (w *clickhouseWarehouse) Load(ctx context.Context, job *models.LoadJob) error {
	dest := job.Destination
	table := dest.String()

	if err := checkJob(job); err != nil {
		return &LoadError{Table: table, Err: err}
	}

	if err := w.conn.Exec(ctx, CreateTableSQL(dest)); err != nil {
		return classify(table, fmt.Errorf("create table: %w", err))
	}

	staging := stagingName(dest.Table)
	if err := w.conn.Exec(ctx, createStagingSQL(dest, staging)); err != nil {
		return classify(table, fmt.Errorf("create staging table: %w", err))
	}
	defer w.dropStaging(ctx, dest.Dataset, staging)

	if err := w.insert(ctx, dest.Dataset, staging, job.Rows); err != nil {
		return classify(table, fmt.Errorf("insert rows: %w", err))
	}

	if err := w.conn.Exec(ctx, exchangeSQL(dest, staging)); err != nil {
		return classify(table, fmt.Errorf("swap tables: %w", err))
	}

	w.logger.WithFields(logrus.Fields{"table": table, "rows": len(job.Rows)}).Info("Table replaced")
	return nil
}

// insert writes rows using ClickHouse batch insert.
func (w *clickhouseWarehouse) insert(ctx context.Context, dataset, table string, rows []models.DailyPrice) error {
	batch, err := w.conn.PrepareBatch(ctx, insertSQL(dataset, table))
	if err != nil {
		return err
	}

	for _, r := range rows {
		err := batch.Append(
			r.Date,
			r.Open,
			r.High,
			r.Low,
			r.Close,
			r.Volume,
			r.MovingAvg7d,
		)
		if err != nil {
			_ = batch.Abort()
			return err
		}
	}

	return batch.Send()
}

// dropStaging removes the staging table even if the load context is already cancelled.
func (w *clickhouseWarehouse) dropStaging(ctx context.Context, dataset, staging string) {
	dropCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if err := w.conn.Exec(dropCtx, dropSQL(dataset, staging)); err != nil {
		w.logger.WithError(err).WithField("staging", staging).Warn("Failed to drop staging table")
	}
}

// Close closes the ClickHouse connection.
func (w *clickhouseWarehouse) Close() error {
	return w.conn.Close()
}

// checkJob validates a job before anything is sent to the server.
func checkJob(job *models.LoadJob) error {
	if job.Disposition != models.WriteTruncate {
		return fmt.Errorf("unsupported write disposition %q", job.Disposition)
	}
	if len(job.Rows) == 0 {
		return errors.New("no rows to load")
	}
	return ValidateTableRef(job.Destination)
}

// stagingName derives a per-run staging table so concurrent loads never collide.
func stagingName(table string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_staging_%s", table, suffix)
}
