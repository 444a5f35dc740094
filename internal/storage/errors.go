package storage

import (
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouse server error codes that mean the caller may not write.
var permissionCodes = map[int32]string{
	164: "READONLY",
	192: "UNKNOWN_USER",
	291: "DATABASE_ACCESS_DENIED",
	497: "ACCESS_DENIED",
	516: "AUTHENTICATION_FAILED",
}

// PermissionError means the warehouse refused the write for lack of rights.
type PermissionError struct {
	Table string
	Err   error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied on %s: %v", e.Table, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// LoadError covers every other load failure: schema mismatch, quota, transient errors.
type LoadError struct {
	Table string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load into %s failed: %v", e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// classify wraps err as a *PermissionError or *LoadError.
func classify(table string, err error) error {
	if err == nil {
		return nil
	}
	var exc *clickhouse.Exception
	if errors.As(err, &exc) {
		if _, denied := permissionCodes[exc.Code]; denied {
			return &PermissionError{Table: table, Err: err}
		}
	}
	return &LoadError{Table: table, Err: err}
}
