package storage

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/navid-fn/stockpipe/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeConn records statements in order. Unused driver.Conn methods panic via the nil embed.
type fakeConn struct {
	driver.Conn
	ops     []string
	queries []string
	failOn  map[string]error
	batch   *fakeBatch
}

func (c *fakeConn) record(query string) error {
	op := statementOp(query)
	c.ops = append(c.ops, op)
	c.queries = append(c.queries, query)
	return c.failOn[op]
}

func (c *fakeConn) Exec(_ context.Context, query string, _ ...any) error {
	return c.record(query)
}

func (c *fakeConn) PrepareBatch(_ context.Context, query string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	if err := c.record(query); err != nil {
		return nil, err
	}
	return c.batch, nil
}

type fakeBatch struct {
	driver.Batch
	rows      [][]any
	appendErr error
	sendErr   error
	aborted   bool
	sent      bool
}

func (b *fakeBatch) Append(v ...any) error {
	if b.appendErr != nil {
		return b.appendErr
	}
	b.rows = append(b.rows, v)
	return nil
}

func (b *fakeBatch) Send() error {
	b.sent = true
	return b.sendErr
}

func (b *fakeBatch) Abort() error {
	b.aborted = true
	return nil
}

func statementOp(query string) string {
	switch {
	case strings.HasPrefix(query, "CREATE TABLE IF NOT EXISTS"):
		return "create"
	case strings.HasPrefix(query, "CREATE TABLE"):
		return "staging"
	case strings.HasPrefix(query, "INSERT"):
		return "insert"
	case strings.HasPrefix(query, "EXCHANGE TABLES"):
		return "exchange"
	case strings.HasPrefix(query, "DROP TABLE"):
		return "drop"
	}
	return query
}

func TestLoad(t *testing.T) {
	denied := &clickhouse.Exception{Code: 497, Name: "ACCESS_DENIED"}

	tests := []struct {
		name       string
		job        *models.LoadJob
		failOn     map[string]error
		appendErr  error
		sendErr    error
		ops        []string
		permission bool
		wantErr    bool
	}{
		{
			name: "success swaps staging in",
			job:  models.NewLoadJob(dest, sampleRows()),
			ops:  []string{"create", "staging", "insert", "exchange", "drop"},
		},
		{
			name:    "send failure leaves destination alone",
			job:     models.NewLoadJob(dest, sampleRows()),
			sendErr: errors.New("memory limit exceeded"),
			ops:     []string{"create", "staging", "insert", "drop"},
			wantErr: true,
		},
		{
			name:      "append failure aborts batch",
			job:       models.NewLoadJob(dest, sampleRows()),
			appendErr: errors.New("column type mismatch"),
			ops:       []string{"create", "staging", "insert", "drop"},
			wantErr:   true,
		},
		{
			name:       "create denied",
			job:        models.NewLoadJob(dest, sampleRows()),
			failOn:     map[string]error{"create": denied},
			ops:        []string{"create"},
			permission: true,
			wantErr:    true,
		},
		{
			name:       "exchange denied still drops staging",
			job:        models.NewLoadJob(dest, sampleRows()),
			failOn:     map[string]error{"exchange": denied},
			ops:        []string{"create", "staging", "insert", "exchange", "drop"},
			permission: true,
			wantErr:    true,
		},
		{
			name:    "empty job never reaches the server",
			job:     models.NewLoadJob(dest, nil),
			ops:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := &fakeBatch{appendErr: tt.appendErr, sendErr: tt.sendErr}
			conn := &fakeConn{failOn: tt.failOn, batch: batch}
			logger, _ := test.NewNullLogger()
			w := &clickhouseWarehouse{conn: conn, logger: logrus.NewEntry(logger)}

			err := w.Load(context.Background(), tt.job)

			if !reflect.DeepEqual(conn.ops, tt.ops) {
				t.Errorf("Expected statements %v, got %v", tt.ops, conn.ops)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr {
				if len(batch.rows) != len(tt.job.Rows) || !batch.sent {
					t.Errorf("Expected %d rows sent, got %d (sent=%v)", len(tt.job.Rows), len(batch.rows), batch.sent)
				}
				return
			}

			var permErr *PermissionError
			var loadErr *LoadError
			switch {
			case tt.permission && !errors.As(err, &permErr):
				t.Errorf("Expected *PermissionError, got %T (%v)", err, err)
			case !tt.permission && !errors.As(err, &loadErr):
				t.Errorf("Expected *LoadError, got %T (%v)", err, err)
			}
			if tt.appendErr != nil && !batch.aborted {
				t.Error("Expected batch aborted after append failure")
			}
		})
	}
}

func TestLoadUsesOneStagingTable(t *testing.T) {
	conn := &fakeConn{batch: &fakeBatch{}}
	logger, _ := test.NewNullLogger()
	w := &clickhouseWarehouse{conn: conn, logger: logrus.NewEntry(logger)}

	if err := w.Load(context.Background(), models.NewLoadJob(dest, sampleRows())); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// CREATE TABLE `ds`.`staging` AS `ds`.`dest`
	fields := strings.Fields(conn.queries[1])
	staging := fields[2]
	if !strings.Contains(staging, dest.Table+"_staging_") {
		t.Fatalf("Unexpected staging statement: %s", conn.queries[1])
	}
	for _, i := range []int{2, 3, 4} {
		if !strings.Contains(conn.queries[i], staging) {
			t.Errorf("Statement %q does not target staging table %s", conn.queries[i], staging)
		}
	}
	if !strings.HasPrefix(conn.queries[3], "EXCHANGE TABLES `analise_acoes`.`historico_acoes_aapl` AND") {
		t.Errorf("Unexpected exchange statement: %s", conn.queries[3])
	}
}
