// Package transform reshapes the provider time series into destination rows.
package transform

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/navid-fn/stockpipe/internal/drivers/alphavantage"
	"github.com/navid-fn/stockpipe/internal/models"
)

// MovingAverageWindow is the number of rows averaged into MovingAvg7d.
const MovingAverageWindow = 7

var dateLayouts = []string{time.DateOnly, time.DateTime}

var (
	errNotNumeric = errors.New("not a number")
	errNotFinite  = errors.New("not a finite number")
	errBadDate    = errors.New("not a calendar date")
)

// Transform converts the raw series into rows, one per date, in provider order.
// Returns *SchemaError for structural problems and *DataTypeError for values
// that cannot be cast.
func Transform(series models.RawSeries) ([]models.DailyPrice, error) {
	if len(series) == 0 {
		return nil, &SchemaError{Reason: "time series is empty"}
	}

	rows := make([]models.DailyPrice, 0, len(series))
	closes := make([]float64, 0, len(series))

	for _, day := range series {
		row, err := toRow(day)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		closes = append(closes, row.Close)
	}

	for i, avg := range MovingAverage(closes, MovingAverageWindow) {
		rows[i].MovingAvg7d = avg
	}
	return rows, nil
}

// toRow renames and casts the fields of one day.
func toRow(day models.RawDay) (models.DailyPrice, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(day.Fields, &fields); err != nil {
		return models.DailyPrice{}, &SchemaError{Date: day.Date, Reason: "day is not an object"}
	}

	date, err := parseDate(day.Date)
	if err != nil {
		return models.DailyPrice{}, &DataTypeError{Date: day.Date, Field: "date", Value: day.Date, Err: err}
	}

	row := models.DailyPrice{Date: date}
	prices := []struct {
		label string
		dst   *float64
	}{
		{alphavantage.OpenField, &row.Open},
		{alphavantage.HighField, &row.High},
		{alphavantage.LowField, &row.Low},
		{alphavantage.CloseField, &row.Close},
	}
	for _, p := range prices {
		text, err := cell(day.Date, fields, p.label)
		if err != nil {
			return models.DailyPrice{}, err
		}
		v, err := parsePrice(text)
		if err != nil {
			return models.DailyPrice{}, &DataTypeError{Date: day.Date, Field: p.label, Value: text, Err: err}
		}
		*p.dst = v
	}

	text, err := cell(day.Date, fields, alphavantage.VolumeField)
	if err != nil {
		return models.DailyPrice{}, err
	}
	volume, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return models.DailyPrice{}, &DataTypeError{Date: day.Date, Field: alphavantage.VolumeField, Value: text, Err: errNotNumeric}
	}
	row.Volume = volume

	return row, nil
}

// cell returns the text of a field that may be encoded as a JSON string or number.
func cell(date string, fields map[string]json.RawMessage, label string) (string, error) {
	raw, ok := fields[label]
	if !ok {
		return "", &SchemaError{Date: date, Field: label, Reason: "missing field"}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", &DataTypeError{Date: date, Field: label, Value: string(raw), Err: errNotNumeric}
}

func parsePrice(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// parseDate accepts a date with or without a time of day and keeps the day only.
func parseDate(text string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(text))
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errBadDate
}
