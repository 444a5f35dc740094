package transform

import "fmt"

// SchemaError reports a structural problem: an empty series, a day that is
// not an object, or a missing field.
type SchemaError struct {
	Date   string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Date == "":
		return fmt.Sprintf("schema error: %s", e.Reason)
	case e.Field == "":
		return fmt.Sprintf("schema error at %s: %s", e.Date, e.Reason)
	default:
		return fmt.Sprintf("schema error at %s: %s %q", e.Date, e.Reason, e.Field)
	}
}

// DataTypeError reports a value that cannot be cast to its column type.
type DataTypeError struct {
	Date  string
	Field string
	Value string
	Err   error
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("data type error at %s: field %q value %q: %v", e.Date, e.Field, e.Value, e.Err)
}

func (e *DataTypeError) Unwrap() error { return e.Err }
