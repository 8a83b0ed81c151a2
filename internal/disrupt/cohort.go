package disrupt

import (
	"sort"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
)

// cohortKey identifies one county-year group.
type cohortKey struct {
	county string
	year   int
}

// BuildCohorts groups documents by (county, year) and aggregates each
// group that meets the minimum document threshold. Groups below the
// threshold are excluded entirely; diag counts them. The returned slice
// is sorted by (county, year).
func BuildCohorts(docs []dataset.Document, minDocs int, diag *Diagnostics) []Cohort {
	groups := make(map[cohortKey][]dataset.Document)
	for _, doc := range docs {
		key := cohortKey{county: doc.County, year: doc.Year}
		groups[key] = append(groups[key], doc)
	}

	cohorts := make([]Cohort, 0, len(groups))
	for key, members := range groups {
		if len(members) < minDocs {
			diag.CohortsBelowMinDocs++
			continue
		}
		cohorts = append(cohorts, aggregateCohort(key, members))
	}

	sort.Slice(cohorts, func(i int, j int) bool {
		if cohorts[i].County != cohorts[j].County {
			return cohorts[i].County < cohorts[j].County
		}
		return cohorts[i].Year < cohorts[j].Year
	})
	return cohorts
}

func aggregateCohort(key cohortKey, members []dataset.Document) Cohort {
	cohort := Cohort{
		County:     key.county,
		Year:       key.year,
		NDocuments: len(members),
		TopicDist:  topicDistribution(members),
		DANames:    daNameSet(members),
		Documents:  members,
	}

	ideologySum := 0.0
	ideologyN := 0
	for _, doc := range members {
		if doc.PolicyChange == dataset.ChangeNewPolicy {
			cohort.NNewPolicies++
		}
		if doc.IdeologyScore != nil {
			ideologySum += *doc.IdeologyScore
			ideologyN++
		}
	}
	if ideologyN > 0 {
		mean := ideologySum / float64(ideologyN)
		cohort.MeanIdeology = &mean
	}

	cohort.ExtensiveNet = netLeniency(members, extensiveMargin)
	cohort.IntensiveNet = netLeniency(members, intensiveMargin)
	return cohort
}

// marginSelector picks the lenient/punitive flag pair for one margin.
type marginSelector func(doc dataset.Document) (lenient *bool, punitive *bool)

func extensiveMargin(doc dataset.Document) (*bool, *bool) {
	return doc.ExtensiveLenient, doc.ExtensivePunitive
}

func intensiveMargin(doc dataset.Document) (*bool, *bool) {
	return doc.IntensiveLenient, doc.IntensivePunitive
}

// netLeniency computes (lenient count - punitive count) / n over all
// documents in the group. Absent flags count as neither.
func netLeniency(docs []dataset.Document, margin marginSelector) float64 {
	if len(docs) == 0 {
		return 0
	}
	net := 0
	for _, doc := range docs {
		lenient, punitive := margin(doc)
		if lenient != nil && *lenient {
			net++
		}
		if punitive != nil && *punitive {
			net--
		}
	}
	return float64(net) / float64(len(docs))
}

// topicDistribution maps topic label to proportion over documents with
// a present topic. Documents without a topic reduce coverage rather
// than padding the distribution.
func topicDistribution(docs []dataset.Document) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, doc := range docs {
		if doc.PrimaryTopic == nil || *doc.PrimaryTopic == "" {
			continue
		}
		counts[*doc.PrimaryTopic]++
		total++
	}

	dist := make(map[string]float64, len(counts))
	for topic, n := range counts {
		dist[topic] = float64(n) / float64(total)
	}
	return dist
}

func daNameSet(docs []dataset.Document) map[string]bool {
	names := make(map[string]bool)
	for _, doc := range docs {
		if doc.DAName != nil && *doc.DAName != "" {
			names[*doc.DAName] = true
		}
	}
	return names
}
