// Package models defines the domain models used across the application.
package models

import "time"

// DailyPrice represents one trading day in the destination table.
// Rows keep the order the provider returned them in (usually newest first).
type DailyPrice struct {
	// Date is the trading day at midnight UTC. Time of day is always zero.
	Date time.Time `gorm:"column:date;type:Date" json:"date"`

	// Open is the opening price of the day.
	Open float64 `gorm:"column:open;type:Float64" json:"open"`

	// High is the highest price of the day.
	High float64 `gorm:"column:high;type:Float64" json:"high"`

	// Low is the lowest price of the day.
	Low float64 `gorm:"column:low;type:Float64" json:"low"`

	// Close is the closing price of the day.
	Close float64 `gorm:"column:close;type:Float64" json:"close"`

	// Volume is the number of shares traded.
	Volume int64 `gorm:"column:volume;type:Int64" json:"volume"`

	// MovingAvg7d is the trailing mean of Close over up to seven rows
	// ending at this one, rounded to two decimals.
	MovingAvg7d float64 `gorm:"column:moving_avg_7d;type:Float64" json:"moving_avg_7d"`
}
