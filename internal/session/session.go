// Package session binds one dataset snapshot to the estimators that serve it.
// A Session is built once and is read-only afterwards, so it can be shared by
// concurrent readers.
package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"wastewise/internal/dataset"
	"wastewise/internal/estimator"
)

// ErrUnknownArea is returned for an area with no records.
var ErrUnknownArea = errors.New("unknown area")

// Dashboard slider defaults for a fresh prediction form.
const (
	DefaultTempC  = 30.0
	DefaultRainMM = 10.0
)

// Options configures how a Session fits its regression model.
type Options struct {
	TestRatio float64
	SplitSeed int64
	Heuristic estimator.HeuristicParams
}

// DefaultOptions uses the default split and heuristic parameters.
func DefaultOptions() Options {
	return Options{
		TestRatio: estimator.DefaultTestRatio,
		SplitSeed: estimator.DefaultSplitSeed,
		Heuristic: estimator.DefaultHeuristicParams(),
	}
}

// Session owns a dataset and the model fitted on it.
type Session struct {
	id      string
	records []dataset.WasteRecord
	areas   []string
	opts    Options

	globalAvg float64

	model      *estimator.FittedModel
	fitErr     error
	test       []dataset.WasteRecord
	metrics    estimator.Metrics
	metricsErr error
}

// AreaSummary is the headline block of the dashboard for one area.
type AreaSummary struct {
	Area             string  `json:"area"`
	Records          int     `json:"records"`
	AvgWasteKG       float64 `json:"avg_waste_kg"`
	GlobalAvgWasteKG float64 `json:"global_avg_waste_kg"`
	DeltaKG          float64 `json:"delta_kg"`
	OverflowRatePct  float64 `json:"overflow_rate_pct"`
	AvgPopulation    float64 `json:"avg_population"`
	LatestPopulation int     `json:"latest_population"`
}

// DailyComparison holds per-weekday means for an area and for all areas.
type DailyComparison struct {
	Area   string            `json:"area"`
	Local  []dataset.DayMean `json:"area_daily"`
	Global []dataset.DayMean `json:"global_daily"`
}

// New builds a session over records. A failed fit does not fail the session:
// the heuristic strategy keeps working and regression calls report the error.
func New(records []dataset.WasteRecord, opts Options) (*Session, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records", dataset.ErrDataUnavailable)
	}

	s := &Session{
		id:      uuid.New().String(),
		records: append([]dataset.WasteRecord(nil), records...),
		areas:   dataset.Areas(records),
		opts:    opts,
	}
	s.globalAvg, _ = dataset.MeanWaste(s.records)

	train, test := estimator.Split(s.records, opts.TestRatio, opts.SplitSeed)
	s.test = test
	s.model, s.fitErr = estimator.Fit(train)
	if s.fitErr != nil {
		s.metricsErr = s.fitErr
		log.Printf("session %s: regression unavailable: %v", s.id, s.fitErr)
	} else {
		s.metrics, s.metricsErr = estimator.Evaluate(s.model, test)
	}

	return s, nil
}

func (s *Session) ID() string { return s.id }

// Records returns a copy of the dataset snapshot.
func (s *Session) Records() []dataset.WasteRecord {
	return append([]dataset.WasteRecord(nil), s.records...)
}

// Len is the number of records in the snapshot.
func (s *Session) Len() int { return len(s.records) }

// Areas lists the selectable areas in dataset order.
func (s *Session) Areas() []string {
	return append([]string(nil), s.areas...)
}

func (s *Session) GlobalAvgWaste() float64 { return s.globalAvg }

func (s *Session) HeuristicParams() estimator.HeuristicParams { return s.opts.Heuristic }

func (s *Session) areaRecords(area string) ([]dataset.WasteRecord, error) {
	rows := dataset.FilterByArea(s.records, area)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArea, area)
	}
	return rows, nil
}

func (s *Session) Summary(area string) (AreaSummary, error) {
	rows, err := s.areaRecords(area)
	if err != nil {
		return AreaSummary{}, err
	}
	return s.summarize(area, rows), nil
}

// Summaries returns the summary of every area in dataset order.
func (s *Session) Summaries() []AreaSummary {
	out := make([]AreaSummary, 0, len(s.areas))
	for _, area := range s.areas {
		out = append(out, s.summarize(area, dataset.FilterByArea(s.records, area)))
	}
	return out
}

// summarize expects rows to be non-empty.
func (s *Session) summarize(area string, rows []dataset.WasteRecord) AreaSummary {
	avg, _ := dataset.MeanWaste(rows)
	overflow, _ := dataset.OverflowRate(rows)
	pop, _ := dataset.MeanPopulation(rows)
	latest, _ := dataset.LatestPopulation(rows)

	return AreaSummary{
		Area:             area,
		Records:          len(rows),
		AvgWasteKG:       avg,
		GlobalAvgWasteKG: s.globalAvg,
		DeltaKG:          avg - s.globalAvg,
		OverflowRatePct:  overflow * 100,
		AvgPopulation:    pop,
		LatestPopulation: latest,
	}
}

func (s *Session) DailyComparison(area string) (DailyComparison, error) {
	rows, err := s.areaRecords(area)
	if err != nil {
		return DailyComparison{}, err
	}
	return DailyComparison{
		Area:   area,
		Local:  dataset.GroupMeanByDayName(rows, dataset.DayOrder),
		Global: dataset.GroupMeanByDayName(s.records, dataset.DayOrder),
	}, nil
}

// RecentTrend returns the last days records of an area.
func (s *Session) RecentTrend(area string, days int) ([]dataset.WasteRecord, error) {
	rows, err := s.areaRecords(area)
	if err != nil {
		return nil, err
	}
	return dataset.TailWindow(rows, days), nil
}

// DefaultFeatures prefills a prediction with the area's latest population.
func (s *Session) DefaultFeatures(area string) (estimator.FeatureVector, error) {
	rows, err := s.areaRecords(area)
	if err != nil {
		return estimator.FeatureVector{}, err
	}
	latest, _ := dataset.LatestPopulation(rows)
	return estimator.FeatureVector{
		Population: float64(latest),
		TempC:      DefaultTempC,
		RainMM:     DefaultRainMM,
	}, nil
}

// Predict estimates waste for features with the chosen strategy. The area is
// only consulted by the heuristic strategy.
func (s *Session) Predict(strategy estimator.Strategy, area string, features estimator.FeatureVector) (float64, error) {
	switch strategy {
	case estimator.Heuristic:
		rows, err := s.areaRecords(area)
		if err != nil {
			return 0, err
		}
		avgWaste, _ := dataset.MeanWaste(rows)
		avgPop, _ := dataset.MeanPopulation(rows)
		return estimator.PredictHeuristic(s.opts.Heuristic, avgWaste, avgPop, features)

	case estimator.Regression:
		if s.fitErr != nil {
			return 0, s.fitErr
		}
		return estimator.Predict(s.model, features), nil
	}
	return 0, fmt.Errorf("unsupported strategy %v", strategy)
}

// Model returns the fitted regression model or the reason there is none.
func (s *Session) Model() (*estimator.FittedModel, error) {
	return s.model, s.fitErr
}

// Evaluation returns the held-out metrics of the session model.
func (s *Session) Evaluation() (estimator.Metrics, error) {
	return s.metrics, s.metricsErr
}

// AccuracySeries returns actual vs predicted waste over the held-out records.
func (s *Session) AccuracySeries() ([]estimator.SeriesPoint, error) {
	if s.fitErr != nil {
		return nil, s.fitErr
	}
	return estimator.ActualVsPredicted(s.model, s.test), nil
}
