package disrupt

import (
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
)

// baselineIndex resolves lookback windows against the full document
// table. The minimum-document threshold never applies to baselines:
// a cohort is compared against however much history exists, and a
// cohort with no history gets the defined zero baseline.
type baselineIndex struct {
	byKey    map[cohortKey][]dataset.Document
	lookback int
}

func newBaselineIndex(docs []dataset.Document, lookback int) *baselineIndex {
	byKey := make(map[cohortKey][]dataset.Document)
	for _, doc := range docs {
		key := cohortKey{county: doc.County, year: doc.Year}
		byKey[key] = append(byKey[key], doc)
	}
	return &baselineIndex{byKey: byKey, lookback: lookback}
}

// Resolve returns the baseline for (county, year): the union of the
// county's documents over the preceding lookback years. diag counts
// empty windows.
func (idx *baselineIndex) Resolve(county string, year int, diag *Diagnostics) Baseline {
	var window []dataset.Document
	for back := 1; back <= idx.lookback; back++ {
		window = append(window, idx.byKey[cohortKey{county: county, year: year - back}]...)
	}

	if len(window) == 0 {
		if diag != nil {
			diag.EmptyBaselines++
		}
		return Baseline{
			TopicDist: map[string]float64{},
			DANames:   map[string]bool{},
		}
	}

	baseline := Baseline{
		NDocuments:   len(window),
		TopicDist:    topicDistribution(window),
		ExtensiveNet: netLeniency(window, extensiveMargin),
		IntensiveNet: netLeniency(window, intensiveMargin),
		DANames:      daNameSet(window),
	}

	sum := 0.0
	n := 0
	for _, doc := range window {
		if doc.IdeologyScore != nil {
			sum += *doc.IdeologyScore
			n++
		}
	}
	if n > 0 {
		baseline.MeanIdeology = sum / float64(n)
	}
	return baseline
}
