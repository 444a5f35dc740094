package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/navid-fn/stockpipe/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
)

var dest = models.TableRef{Dataset: "analise_acoes", Table: "historico_acoes_aapl"}

func sampleRows() []models.DailyPrice {
	return []models.DailyPrice{
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11, Volume: 1000, MovingAvg7d: 11},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		permission bool
	}{
		{"access denied", &clickhouse.Exception{Code: 497, Name: "ACCESS_DENIED"}, true},
		{"readonly", &clickhouse.Exception{Code: 164, Name: "READONLY"}, true},
		{"authentication", &clickhouse.Exception{Code: 516}, true},
		{"wrapped access denied", fmt.Errorf("insert rows: %w", &clickhouse.Exception{Code: 497}), true},
		{"unknown table", &clickhouse.Exception{Code: 60, Name: "UNKNOWN_TABLE"}, false},
		{"quota", &clickhouse.Exception{Code: 201, Name: "QUOTA_EXCEEDED"}, false},
		{"plain error", errors.New("connection reset by peer"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(dest.String(), tt.err)

			var permErr *PermissionError
			var loadErr *LoadError
			switch {
			case tt.permission && !errors.As(err, &permErr):
				t.Errorf("Expected *PermissionError, got %T", err)
			case !tt.permission && !errors.As(err, &loadErr):
				t.Errorf("Expected *LoadError, got %T", err)
			}
			if !errors.Is(err, tt.err) {
				t.Error("Expected original error in chain")
			}
		})
	}

	if classify("t", nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

func TestCheckJob(t *testing.T) {
	tests := []struct {
		name    string
		job     *models.LoadJob
		wantErr bool
	}{
		{"valid", models.NewLoadJob(dest, sampleRows()), false},
		{"append disposition", &models.LoadJob{Destination: dest, Disposition: "WRITE_APPEND", Rows: sampleRows()}, true},
		{"no rows", models.NewLoadJob(dest, nil), true},
		{"bad dataset", models.NewLoadJob(models.TableRef{Dataset: "a;DROP", Table: "t"}, sampleRows()), true},
		{"bad table", models.NewLoadJob(models.TableRef{Dataset: "a", Table: "1t"}, sampleRows()), true},
		{"empty table", models.NewLoadJob(models.TableRef{Dataset: "a", Table: ""}, sampleRows()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkJob(tt.job)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateTableSQL(t *testing.T) {
	ddl := CreateTableSQL(dest)

	if !strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS `analise_acoes`.`historico_acoes_aapl` (") {
		t.Errorf("Unexpected DDL prefix: %s", ddl)
	}
	for _, col := range []string{"date Date", "volume Int64", "moving_avg_7d Float64"} {
		if !strings.Contains(ddl, col) {
			t.Errorf("Expected DDL to contain %q: %s", col, ddl)
		}
	}
	if !strings.HasSuffix(ddl, "ENGINE = MergeTree() ORDER BY tuple()") {
		t.Errorf("Expected unsorted MergeTree engine: %s", ddl)
	}
}

func TestStatements(t *testing.T) {
	staging := "historico_acoes_aapl_staging_abc"

	if got := insertSQL(dest.Dataset, staging); got != "INSERT INTO `analise_acoes`.`historico_acoes_aapl_staging_abc` (date, open, high, low, close, volume, moving_avg_7d)" {
		t.Errorf("Unexpected insert statement: %s", got)
	}
	if got := exchangeSQL(dest, staging); got != "EXCHANGE TABLES `analise_acoes`.`historico_acoes_aapl` AND `analise_acoes`.`historico_acoes_aapl_staging_abc`" {
		t.Errorf("Unexpected exchange statement: %s", got)
	}
	if got := createStagingSQL(dest, staging); got != "CREATE TABLE `analise_acoes`.`historico_acoes_aapl_staging_abc` AS `analise_acoes`.`historico_acoes_aapl`" {
		t.Errorf("Unexpected staging statement: %s", got)
	}
}

func TestStagingNameIsUniqueAndValid(t *testing.T) {
	a := stagingName(dest.Table)
	b := stagingName(dest.Table)

	if a == b {
		t.Errorf("Expected unique staging names, got %s twice", a)
	}
	if !strings.HasPrefix(a, dest.Table+"_staging_") {
		t.Errorf("Unexpected staging name: %s", a)
	}
	if err := ValidateTableRef(models.TableRef{Dataset: dest.Dataset, Table: a}); err != nil {
		t.Errorf("Staging name should be a valid identifier: %v", err)
	}
}
