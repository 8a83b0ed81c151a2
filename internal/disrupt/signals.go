package disrupt

import (
	"math"
)

// ComputeSignals calculates the five raw disruption signals for one
// cohort against its baseline. Missing inputs resolve to the documented
// zero defaults; diag counts each fallback.
func ComputeSignals(cohort Cohort, baseline Baseline, diag *Diagnostics) Signals {
	sig := Signals{
		PriorMeanIdeology: baseline.MeanIdeology,
	}

	if cohort.MeanIdeology != nil {
		sig.CurrentHasIdeology = true
		sig.IdeologyVelocity = *cohort.MeanIdeology - baseline.MeanIdeology
	} else if diag != nil {
		diag.NoIdeologyCoverage++
	}

	if cohort.NDocuments > 0 {
		sig.NoveltyIndex = float64(cohort.NNewPolicies) / float64(cohort.NDocuments)
	}

	if len(cohort.TopicDist) == 0 || len(baseline.TopicDist) == 0 {
		if diag != nil {
			diag.EmptyTopicFallbacks++
		}
	} else {
		sig.TopicShift = JensenShannon(cohort.TopicDist, baseline.TopicDist)
	}

	extDelta := cohort.ExtensiveNet - baseline.ExtensiveNet
	intDelta := cohort.IntensiveNet - baseline.IntensiveNet
	sig.MarginReversal = math.Abs(extDelta) + math.Abs(intDelta)
	sig.ExtensiveReversal = signReversed(cohort.ExtensiveNet, baseline.ExtensiveNet)
	sig.IntensiveReversal = signReversed(cohort.IntensiveNet, baseline.IntensiveNet)

	if newDAName(cohort.DANames, baseline.DANames) {
		sig.DATransition = 1
	}

	return sig
}

// signReversed reports a strict sign flip between prior and current.
// Zero on either side is neither positive nor negative, so no reversal.
func signReversed(current float64, prior float64) bool {
	return current*prior < 0
}

// newDAName reports whether the current cohort mentions an
// administration name absent from the baseline window.
func newDAName(current map[string]bool, prior map[string]bool) bool {
	for name := range current {
		if !prior[name] {
			return true
		}
	}
	return false
}

// JensenShannon computes the base-2 Jensen-Shannon divergence between
// two topic distributions, bounded [0,1]. Support is the union of
// observed labels, each side zero-padded on the other's support; the
// 0*log(0) = 0 convention applies.
func JensenShannon(p map[string]float64, q map[string]float64) float64 {
	support := make(map[string]bool, len(p)+len(q))
	for label := range p {
		support[label] = true
	}
	for label := range q {
		support[label] = true
	}

	div := 0.0
	for label := range support {
		pi := p[label]
		qi := q[label]
		mi := (pi + qi) / 2
		div += 0.5*klTerm(pi, mi) + 0.5*klTerm(qi, mi)
	}

	// Clamp float error so callers can rely on the [0,1] bound.
	if div < 0 {
		return 0
	}
	if div > 1 {
		return 1
	}
	return div
}

// klTerm is one summand of KL(P||M) in bits.
func klTerm(p float64, m float64) float64 {
	if p == 0 || m == 0 {
		return 0
	}
	return p * math.Log2(p/m)
}
