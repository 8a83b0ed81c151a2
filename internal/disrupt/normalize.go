package disrupt

// minMaxNormalize scales values into [0,1] by (v - min) / (max - min).
// When max == min the dataset is degenerate for this signal and every
// value normalizes to 0; diag counts the signal once.
func minMaxNormalize(values []float64, diag *Diagnostics) []float64 {
	normalized := make([]float64, len(values))
	if len(values) == 0 {
		return normalized
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == minVal {
		if diag != nil {
			diag.DegenerateNormSignals++
		}
		return normalized
	}

	span := maxVal - minVal
	for i, v := range values {
		normalized[i] = (v - minVal) / span
	}
	return normalized
}
