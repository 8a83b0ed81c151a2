package disrupt

// Classify maps a composite score to its disruption class. Bands are
// closed-open on the lower threshold; the top band includes 1.0.
func Classify(score float64, t Thresholds) Classification {
	switch {
	case score >= t.Major:
		return ClassMajor
	case score >= t.Significant:
		return ClassSignificant
	case score >= t.Moderate:
		return ClassModerate
	case score >= t.Minor:
		return ClassMinor
	default:
		return ClassStable
	}
}

// DirectionOf labels the raw (unnormalized) ideology velocity.
func DirectionOf(velocity float64, cutoff float64) string {
	switch {
	case velocity > cutoff:
		return DirectionProgressive
	case velocity < -cutoff:
		return DirectionTraditional
	default:
		return DirectionNeutral
	}
}
