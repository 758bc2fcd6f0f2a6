// Package estimator predicts daily waste output, either from a fixed
// multiplier heuristic or from a linear regression fitted on the dataset.
package estimator

import (
	"errors"
	"fmt"
	"strings"

	"wastewise/internal/dataset"
)

// Errors returned by the estimators.
var (
	// ErrDivisionUndefined means the area's mean population is zero.
	ErrDivisionUndefined = errors.New("cannot estimate for this area")

	// ErrInsufficientData means the training set cannot be fitted.
	ErrInsufficientData = errors.New("insufficient data to fit model")

	// ErrUndefinedMetric means the test set is empty or has no variance.
	ErrUndefinedMetric = errors.New("accuracy undefined")
)

// NumFeatures is the length of a FeatureVector.
const NumFeatures = 6

// FeatureNames lists the regression inputs in coefficient order.
var FeatureNames = [NumFeatures]string{
	dataset.ColPopulation,
	dataset.ColTempC,
	dataset.ColRainMM,
	dataset.ColIsWeekend,
	dataset.ColIsHoliday,
	dataset.ColRecyclingCampaign,
}

// FeatureVector holds the predictive inputs of one day.
type FeatureVector struct {
	Population        float64 `json:"population"`
	TempC             float64 `json:"temp_c"`
	RainMM            float64 `json:"rain_mm"`
	IsWeekend         bool    `json:"is_weekend"`
	IsHoliday         bool    `json:"is_holiday"`
	RecyclingCampaign bool    `json:"recycling_campaign"`
}

// Values encodes the vector in FeatureNames order, flags as 0/1.
func (f FeatureVector) Values() [NumFeatures]float64 {
	return [NumFeatures]float64{
		f.Population,
		f.TempC,
		f.RainMM,
		boolToFloat(f.IsWeekend),
		boolToFloat(f.IsHoliday),
		boolToFloat(f.RecyclingCampaign),
	}
}

// FeaturesOf extracts the feature vector of a record.
func FeaturesOf(rec dataset.WasteRecord) FeatureVector {
	return FeatureVector{
		Population:        float64(rec.Population),
		TempC:             rec.TempC,
		RainMM:            rec.RainMM,
		IsWeekend:         rec.IsWeekend,
		IsHoliday:         rec.IsHoliday,
		RecyclingCampaign: rec.RecyclingCampaign,
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Strategy selects how a prediction is produced.
type Strategy int

const (
	Heuristic Strategy = iota
	Regression
)

func (s Strategy) String() string {
	switch s {
	case Heuristic:
		return "heuristic"
	case Regression:
		return "regression"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a name onto a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "heuristic", "statistik", "":
		return Heuristic, nil
	case "regression", "ols", "linear":
		return Regression, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}
