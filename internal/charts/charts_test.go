package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wastewise/internal/dataset"
	"wastewise/internal/estimator"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func ptr(v float64) *float64 { return &v }

func sampleRecords() []dataset.WasteRecord {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	records := make([]dataset.WasteRecord, 10)
	for i := range records {
		records[i] = dataset.WasteRecord{Area: "North", Date: start.AddDate(0, 0, i), WasteKG: 100 + float64(i*3)}
	}
	return records
}

func TestDailyChart(t *testing.T) {
	local := []dataset.DayMean{{Day: "Monday", Mean: ptr(120)}, {Day: "Tuesday"}}
	global := []dataset.DayMean{{Day: "Monday", Mean: ptr(150)}, {Day: "Tuesday", Mean: ptr(140)}}

	p, err := DailyChart("North", local, global)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	_, err = DailyChart("North", nil, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = DailyChart("North", local, global[:1])
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTrendChart(t *testing.T) {
	p, err := TrendChart("North", sampleRecords())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "trend.png")
	require.NoError(t, Save(p, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	_, err = TrendChart("North", nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAccuracyChart(t *testing.T) {
	records := sampleRecords()
	model := estimator.NewFittedModel([estimator.NumFeatures]float64{}, 110)
	series := estimator.ActualVsPredicted(model, records)

	p, err := AccuracyChart(series, estimator.Metrics{MSE: 80, R2: 0.4})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	_, err = AccuracyChart(nil, estimator.Metrics{})
	assert.ErrorIs(t, err, ErrNoData)
}
