package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewise/internal/dataset"
	"wastewise/internal/estimator"
)

// synthetic returns days records for each of North and South, interleaved by
// date like the real export.
func synthetic(days int) []dataset.WasteRecord {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []dataset.WasteRecord
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		for a, area := range []string{"North", "South"} {
			rec := dataset.WasteRecord{
				Area:              area,
				Date:              date,
				DayName:           date.Weekday().String(),
				Population:        1000*(a+1) + 7*i,
				TempC:             22 + float64((i*5+a)%16),
				RainMM:            float64((i*11 + a*3) % 80),
				IsWeekend:         date.Weekday() == time.Saturday || date.Weekday() == time.Sunday,
				IsHoliday:         i%9 == 4,
				RecyclingCampaign: (i+a)%4 == 0,
				Overflow:          i%5 == 0,
			}
			rec.WasteKG = 0.12*float64(rec.Population) + 1.5*rec.TempC + 0.3*rec.RainMM + float64((i*7)%5)
			if rec.RecyclingCampaign {
				rec.WasteKG -= 20
			}
			records = append(records, rec)
		}
	}
	return records
}

func newSession(t *testing.T, records []dataset.WasteRecord) *Session {
	t.Helper()
	s, err := New(records, DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	s := newSession(t, synthetic(60))

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, []string{"North", "South"}, s.Areas())
	assert.Len(t, s.Records(), 120)
	assert.Equal(t, 120, s.Len())

	model, err := s.Model()
	require.NoError(t, err)
	assert.Equal(t, 96, model.TrainRows())

	metrics, err := s.Evaluation()
	require.NoError(t, err)
	assert.Greater(t, metrics.R2, 0.9)

	series, err := s.AccuracySeries()
	require.NoError(t, err)
	assert.Len(t, series, 24)

	other := newSession(t, synthetic(60))
	assert.NotEqual(t, s.ID(), other.ID())
}

func TestNewRejectsEmptyDataset(t *testing.T) {
	_, err := New(nil, DefaultOptions())
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}

func TestSessionIsIsolatedFromCallerSlice(t *testing.T) {
	records := synthetic(30)
	s := newSession(t, records)

	records[0].WasteKG = 1e9
	assert.NotEqual(t, 1e9, s.Records()[0].WasteKG)
}

func TestSummary(t *testing.T) {
	records := synthetic(60)
	s := newSession(t, records)

	summary, err := s.Summary("North")
	require.NoError(t, err)

	north := dataset.FilterByArea(records, "North")
	wantAvg, _ := dataset.MeanWaste(north)
	wantGlobal, _ := dataset.MeanWaste(records)

	assert.Equal(t, 60, summary.Records)
	assert.InDelta(t, wantAvg, summary.AvgWasteKG, 1e-9)
	assert.InDelta(t, wantGlobal, summary.GlobalAvgWasteKG, 1e-9)
	assert.InDelta(t, wantAvg-wantGlobal, summary.DeltaKG, 1e-9)
	assert.InDelta(t, 20.0, summary.OverflowRatePct, 1e-9)
	assert.Equal(t, 1000+7*59, summary.LatestPopulation)

	_, err = s.Summary("Atlantis")
	assert.ErrorIs(t, err, ErrUnknownArea)

	all := s.Summaries()
	require.Len(t, all, 2)
	assert.Equal(t, summary, all[0])
	assert.Equal(t, "South", all[1].Area)
	assert.Equal(t, 60, all[1].Records)
}

func TestDailyComparisonAndTrend(t *testing.T) {
	s := newSession(t, synthetic(60))

	daily, err := s.DailyComparison("South")
	require.NoError(t, err)
	require.Len(t, daily.Local, 7)
	require.Len(t, daily.Global, 7)
	for i := range daily.Local {
		assert.NotNil(t, daily.Local[i].Mean)
		assert.NotNil(t, daily.Global[i].Mean)
	}

	trend, err := s.RecentTrend("South", 30)
	require.NoError(t, err)
	require.Len(t, trend, 30)
	assert.Equal(t, "South", trend[29].Area)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), trend[29].Date)

	_, err = s.RecentTrend("Atlantis", 30)
	assert.ErrorIs(t, err, ErrUnknownArea)
}

func TestDefaultFeatures(t *testing.T) {
	s := newSession(t, synthetic(10))

	fv, err := s.DefaultFeatures("South")
	require.NoError(t, err)
	assert.Equal(t, float64(2000+7*9), fv.Population)
	assert.Equal(t, DefaultTempC, fv.TempC)
	assert.Equal(t, DefaultRainMM, fv.RainMM)
	assert.False(t, fv.RecyclingCampaign)
}

func TestPredict(t *testing.T) {
	records := synthetic(60)
	s := newSession(t, records)

	t.Run("heuristic uses area base rate", func(t *testing.T) {
		north := dataset.FilterByArea(records, "North")
		avgWaste, _ := dataset.MeanWaste(north)
		avgPop, _ := dataset.MeanPopulation(north)

		fv := estimator.FeatureVector{Population: 1200, TempC: 40, RainMM: 70, RecyclingCampaign: true}
		got, err := s.Predict(estimator.Heuristic, "North", fv)
		require.NoError(t, err)
		assert.InDelta(t, 1200*(avgWaste/avgPop)*1.10*1.05*0.85, got, 1e-9)
	})

	t.Run("heuristic needs a known area", func(t *testing.T) {
		_, err := s.Predict(estimator.Heuristic, "Atlantis", estimator.FeatureVector{Population: 10})
		assert.ErrorIs(t, err, ErrUnknownArea)
	})

	t.Run("heuristic with zero population area", func(t *testing.T) {
		flat := synthetic(10)
		for i := range flat {
			flat[i].Population = 0
		}
		zero := newSession(t, flat)
		_, err := zero.Predict(estimator.Heuristic, "North", estimator.FeatureVector{Population: 10})
		assert.ErrorIs(t, err, estimator.ErrDivisionUndefined)
	})

	t.Run("regression matches model", func(t *testing.T) {
		model, err := s.Model()
		require.NoError(t, err)

		fv := estimator.FeatureVector{Population: 1500, TempC: 30, RainMM: 10}
		got, err := s.Predict(estimator.Regression, "", fv)
		require.NoError(t, err)
		assert.Equal(t, estimator.Predict(model, fv), got)
	})
}

func TestRegressionUnavailableOnTinyDataset(t *testing.T) {
	s := newSession(t, synthetic(2))

	_, err := s.Model()
	assert.ErrorIs(t, err, estimator.ErrInsufficientData)

	_, err = s.Predict(estimator.Regression, "North", estimator.FeatureVector{})
	assert.ErrorIs(t, err, estimator.ErrInsufficientData)

	_, err = s.Evaluation()
	assert.ErrorIs(t, err, estimator.ErrInsufficientData)

	_, err = s.AccuracySeries()
	assert.ErrorIs(t, err, estimator.ErrInsufficientData)

	// the heuristic strategy still works
	_, err = s.Predict(estimator.Heuristic, "North", estimator.FeatureVector{Population: 1000})
	assert.NoError(t, err)
}
