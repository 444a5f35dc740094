package storage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/navid-fn/stockpipe/internal/models"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Columns of the destination table, in insert order.
var Columns = []string{"date", "open", "high", "low", "close", "volume", "moving_avg_7d"}

// columnTypes mirrors models.DailyPrice.
var columnTypes = []string{"Date", "Float64", "Float64", "Float64", "Float64", "Int64", "Float64"}

// ValidateTableRef rejects names that would need escaping; they are spliced into DDL.
func ValidateTableRef(ref models.TableRef) error {
	for _, name := range []string{ref.Dataset, ref.Table} {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("invalid identifier %q", name)
		}
	}
	return nil
}

func qualified(dataset, table string) string {
	return fmt.Sprintf("`%s`.`%s`", dataset, table)
}

// CreateTableSQL returns the DDL of the destination table.
// ORDER BY tuple() keeps rows unsorted so the provider order survives.
func CreateTableSQL(ref models.TableRef) string {
	defs := make([]string, len(Columns))
	for i, name := range Columns {
		defs[i] = fmt.Sprintf("\t%s %s", name, columnTypes[i])
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n) ENGINE = MergeTree() ORDER BY tuple()",
		qualified(ref.Dataset, ref.Table), strings.Join(defs, ",\n"))
}

func createStagingSQL(ref models.TableRef, staging string) string {
	return fmt.Sprintf("CREATE TABLE %s AS %s", qualified(ref.Dataset, staging), qualified(ref.Dataset, ref.Table))
}

func insertSQL(dataset, table string) string {
	return fmt.Sprintf("INSERT INTO %s (%s)", qualified(dataset, table), strings.Join(Columns, ", "))
}

func exchangeSQL(ref models.TableRef, staging string) string {
	return fmt.Sprintf("EXCHANGE TABLES %s AND %s", qualified(ref.Dataset, ref.Table), qualified(ref.Dataset, staging))
}

func dropSQL(dataset, table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified(dataset, table))
}
