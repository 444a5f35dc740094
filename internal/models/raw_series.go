package models

import "encoding/json"

// RawDay is one entry of the provider's "Time Series (Daily)" object.
type RawDay struct {
	// Date is the provider key, e.g. "2024-01-03".
	Date string

	// Fields is the undecoded per-day object ({"1. open": "10", ...}).
	Fields json.RawMessage
}

// RawSeries is the provider time series in provider order.
// Dates are unique: a repeated key keeps its first position and its last value.
type RawSeries []RawDay
