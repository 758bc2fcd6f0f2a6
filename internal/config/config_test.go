package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sustainable_waste_management_dataset_2024.csv", cfg.DataPath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 0.2, cfg.TestRatio)
	assert.Equal(t, int64(42), cfg.SplitSeed)
	assert.Equal(t, 30, cfg.TrendDays)
	assert.False(t, cfg.Debug)

	assert.Equal(t, 50.0, cfg.Heuristic.RainThresholdMM)
	assert.Equal(t, 1.10, cfg.Heuristic.RainFactor)
	assert.Equal(t, 35.0, cfg.Heuristic.HeatThresholdC)
	assert.Equal(t, 1.05, cfg.Heuristic.HeatFactor)
	assert.Equal(t, 0.85, cfg.Heuristic.CampaignFactor)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WASTE_DATA_PATH", "/data/waste.xlsx")
	t.Setenv("WASTE_PORT", "9000")
	t.Setenv("WASTE_DEBUG", "true")
	t.Setenv("WASTE_TEST_RATIO", "0.25")
	t.Setenv("WASTE_SPLIT_SEED", "7")
	t.Setenv("WASTE_TREND_DAYS", "14")
	t.Setenv("WASTE_CAMPAIGN_FACTOR", "0.9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/waste.xlsx", cfg.DataPath)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 0.25, cfg.TestRatio)
	assert.Equal(t, int64(7), cfg.SplitSeed)
	assert.Equal(t, 14, cfg.TrendDays)
	assert.Equal(t, 0.9, cfg.Heuristic.CampaignFactor)
	assert.Equal(t, 1.10, cfg.Heuristic.RainFactor)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("should reject non-numeric factor", func(t *testing.T) {
		t.Setenv("WASTE_RAIN_FACTOR", "lots")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("should reject bad seed", func(t *testing.T) {
		t.Setenv("WASTE_SPLIT_SEED", "4.2")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("should reject out of range ratio", func(t *testing.T) {
		t.Setenv("WASTE_TEST_RATIO", "1.5")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("should reject bad debug flag", func(t *testing.T) {
		t.Setenv("WASTE_DEBUG", "sometimes")
		_, err := Load()
		assert.Error(t, err)
	})
}
