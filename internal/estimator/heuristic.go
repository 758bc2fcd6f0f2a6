package estimator

// HeuristicParams holds the thresholds and multipliers of the heuristic
// strategy. They carry no calibration; they only reproduce the dashboard rule.
type HeuristicParams struct {
	RainThresholdMM float64
	RainFactor      float64
	HeatThresholdC  float64
	HeatFactor      float64
	CampaignFactor  float64
}

// DefaultHeuristicParams returns the dashboard thresholds and factors.
func DefaultHeuristicParams() HeuristicParams {
	return HeuristicParams{
		RainThresholdMM: 50,
		RainFactor:      1.10,
		HeatThresholdC:  35,
		HeatFactor:      1.05,
		CampaignFactor:  0.85,
	}
}

// PredictHeuristic scales the area's waste-per-capita base rate by the
// requested population, then applies the rain, heat and campaign factors in
// that order.
func PredictHeuristic(params HeuristicParams, areaAvgWaste, areaAvgPopulation float64, features FeatureVector) (float64, error) {
	if areaAvgPopulation == 0 {
		return 0, ErrDivisionUndefined
	}

	baseRate := areaAvgWaste / areaAvgPopulation
	prediction := features.Population * baseRate

	if features.RainMM > params.RainThresholdMM {
		prediction *= params.RainFactor
	}
	if features.TempC > params.HeatThresholdC {
		prediction *= params.HeatFactor
	}
	if features.RecyclingCampaign {
		prediction *= params.CampaignFactor
	}

	return prediction, nil
}
