package disrupt

import (
	"fmt"
	"sort"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
)

// EvidenceDoc is a sample document cited in an evidence report.
type EvidenceDoc struct {
	Document      string   `json:"document"`
	PrimaryTopic  *string  `json:"primary_topic"`
	IdeologyScore *float64 `json:"ideology_score"`
}

// Evidence summarizes one cohort for manual review of a detected
// disruption: quantitative signals next to the underlying documents.
// Unlike the scorer's 2-year baseline, the ideology change here
// compares against all prior years, matching how a reviewer reads a
// county's full history.
type Evidence struct {
	County string `json:"county"`
	Year   int    `json:"year"`

	NDocuments     int      `json:"n_documents"`
	NNewPolicies   int      `json:"n_new_policies"`
	IdeologyChange *float64 `json:"ideology_change"`

	CurrentTopics map[string]int `json:"current_topics"`
	PriorTopics   map[string]int `json:"prior_topics"`
	DAMentions    map[string]int `json:"da_mentions"`

	SampleNewPolicies []EvidenceDoc `json:"sample_new_policies"`
}

// evidenceSampleLimit caps the cited clearly-new-policy documents.
const evidenceSampleLimit = 3

// BuildEvidence assembles the review evidence for (county, year).
// It errors only when the cohort has no documents at all.
func BuildEvidence(docs []dataset.Document, county string, year int) (Evidence, error) {
	var current, prior []dataset.Document
	for _, doc := range docs {
		if doc.County != county {
			continue
		}
		switch {
		case doc.Year == year:
			current = append(current, doc)
		case doc.Year < year:
			prior = append(prior, doc)
		}
	}
	if len(current) == 0 {
		return Evidence{}, fmt.Errorf("no documents for %s %d", county, year)
	}

	ev := Evidence{
		County:        county,
		Year:          year,
		NDocuments:    len(current),
		CurrentTopics: topicCounts(current),
		PriorTopics:   topicCounts(prior),
		DAMentions:    daMentionCounts(current),
	}

	currentMean, currentOK := meanIdeology(current)
	priorMean, priorOK := meanIdeology(prior)
	if currentOK && priorOK {
		change := currentMean - priorMean
		ev.IdeologyChange = &change
	}

	ordered := make([]dataset.Document, len(current))
	copy(ordered, current)
	sort.Slice(ordered, func(i int, j int) bool {
		return ordered[i].RowIndex < ordered[j].RowIndex
	})
	for _, doc := range ordered {
		if doc.PolicyChange != dataset.ChangeNewPolicy {
			continue
		}
		ev.NNewPolicies++
		if len(ev.SampleNewPolicies) < evidenceSampleLimit {
			ev.SampleNewPolicies = append(ev.SampleNewPolicies, EvidenceDoc{
				Document:      doc.DocID(),
				PrimaryTopic:  doc.PrimaryTopic,
				IdeologyScore: doc.IdeologyScore,
			})
		}
	}

	return ev, nil
}

func meanIdeology(docs []dataset.Document) (float64, bool) {
	sum := 0.0
	n := 0
	for _, doc := range docs {
		if doc.IdeologyScore != nil {
			sum += *doc.IdeologyScore
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func topicCounts(docs []dataset.Document) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		if doc.PrimaryTopic != nil && *doc.PrimaryTopic != "" {
			counts[*doc.PrimaryTopic]++
		}
	}
	return counts
}

func daMentionCounts(docs []dataset.Document) map[string]int {
	counts := make(map[string]int)
	for _, doc := range docs {
		if doc.DAName != nil && *doc.DAName != "" {
			counts[*doc.DAName]++
		}
	}
	return counts
}
