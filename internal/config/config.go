package config

import (
	"fmt"
	"os"
	"strconv"

	"wastewise/internal/estimator"
)

// Config holds application configuration
type Config struct {
	DataPath  string
	OutputDir string
	Port      string
	Debug     bool

	TestRatio float64
	SplitSeed int64
	TrendDays int

	Heuristic estimator.HeuristicParams
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	defaults := estimator.DefaultHeuristicParams()

	cfg := &Config{
		DataPath:  getEnv("WASTE_DATA_PATH", "sustainable_waste_management_dataset_2024.csv"),
		OutputDir: getEnv("WASTE_OUTPUT_DIR", "."),
		Port:      getEnv("WASTE_PORT", "8080"),
	}

	var err error
	if cfg.Debug, err = getEnvBool("WASTE_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.TestRatio, err = getEnvFloat("WASTE_TEST_RATIO", estimator.DefaultTestRatio); err != nil {
		return nil, err
	}
	if cfg.SplitSeed, err = getEnvInt64("WASTE_SPLIT_SEED", estimator.DefaultSplitSeed); err != nil {
		return nil, err
	}

	trendDays, err := getEnvInt64("WASTE_TREND_DAYS", 30)
	if err != nil {
		return nil, err
	}
	cfg.TrendDays = int(trendDays)

	floats := []struct {
		key    string
		target *float64
		def    float64
	}{
		{"WASTE_RAIN_THRESHOLD_MM", &cfg.Heuristic.RainThresholdMM, defaults.RainThresholdMM},
		{"WASTE_RAIN_FACTOR", &cfg.Heuristic.RainFactor, defaults.RainFactor},
		{"WASTE_HEAT_THRESHOLD_C", &cfg.Heuristic.HeatThresholdC, defaults.HeatThresholdC},
		{"WASTE_HEAT_FACTOR", &cfg.Heuristic.HeatFactor, defaults.HeatFactor},
		{"WASTE_CAMPAIGN_FACTOR", &cfg.Heuristic.CampaignFactor, defaults.CampaignFactor},
	}
	for _, f := range floats {
		if *f.target, err = getEnvFloat(f.key, f.def); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that the parsers cannot.
func (c *Config) Validate() error {
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return fmt.Errorf("config: test ratio must be between 0 and 1, got %g", c.TestRatio)
	}
	if c.TrendDays <= 0 {
		return fmt.Errorf("config: trend days must be positive, got %d", c.TrendDays)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
