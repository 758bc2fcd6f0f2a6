// Package dataset loads the daily per-area waste records and exposes the
// read-only aggregates the dashboards are built from.
package dataset

import (
	"errors"
	"time"
)

// ErrDataUnavailable is returned when the dataset source cannot be read or parsed.
var ErrDataUnavailable = errors.New("dataset unavailable")

// Column names of the input file, in canonical order.
const (
	ColArea              = "area"
	ColDate              = "date"
	ColDayName           = "day_name"
	ColPopulation        = "population"
	ColTempC             = "temp_c"
	ColRainMM            = "rain_mm"
	ColIsWeekend         = "is_weekend"
	ColIsHoliday         = "is_holiday"
	ColRecyclingCampaign = "recycling_campaign"
	ColWasteKG           = "waste_kg"
	ColOverflow          = "overflow"
)

// Columns lists every column a dataset file must carry.
var Columns = []string{
	ColArea, ColDate, ColDayName, ColPopulation, ColTempC, ColRainMM,
	ColIsWeekend, ColIsHoliday, ColRecyclingCampaign, ColWasteKG, ColOverflow,
}

// DayOrder is the weekday order used by the daily charts.
var DayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WasteRecord is one day of observations for one area.
type WasteRecord struct {
	Area              string    `json:"area"`
	Date              time.Time `json:"date"`
	DayName           string    `json:"day_name"`
	Population        int       `json:"population"`
	TempC             float64   `json:"temp_c"`
	RainMM            float64   `json:"rain_mm"`
	IsWeekend         bool      `json:"is_weekend"`
	IsHoliday         bool      `json:"is_holiday"`
	RecyclingCampaign bool      `json:"recycling_campaign"`
	WasteKG           float64   `json:"waste_kg"`
	Overflow          bool      `json:"overflow"`
}

// DayMean is the mean waste of one weekday. Mean is nil when the day has no records.
type DayMean struct {
	Day  string   `json:"day"`
	Mean *float64 `json:"mean"`
}
