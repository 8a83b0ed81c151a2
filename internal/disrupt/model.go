// Package disrupt turns a table of coded prosecutor-policy documents
// into county-year disruption scores, a novel-reform ledger, and
// per-county summaries. The computation is a two-pass batch: raw
// signals for every retained cohort first, then dataset-wide
// normalization, composite scoring, and classification.
package disrupt

import (
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
)

// Classification is the ordinal disruption class of a composite score.
type Classification string

// Classification constants, ordered from most to least disruptive.
const (
	ClassMajor       Classification = "major_disruption"
	ClassSignificant Classification = "significant_disruption"
	ClassModerate    Classification = "moderate_disruption"
	ClassMinor       Classification = "minor_disruption"
	ClassStable      Classification = "stable"
)

// Direction labels the sign of the raw ideology velocity.
const (
	DirectionProgressive = "progressive"
	DirectionTraditional = "traditional"
	DirectionNeutral     = "neutral"
)

// Cohort aggregates the documents of one (county, year) pair. Only
// cohorts with NDocuments >= the configured minimum are scored.
type Cohort struct {
	County string
	Year   int

	NDocuments   int
	NNewPolicies int

	// MeanIdeology is nil when no document carries an ideology score.
	MeanIdeology *float64

	// TopicDist maps topic label to its proportion among documents with
	// a present topic. Proportions sum to 1 over observed topics (or the
	// map is empty when nothing is observed).
	TopicDist map[string]float64

	ExtensiveNet float64
	IntensiveNet float64

	// DANames is the set of administration names mentioned.
	DANames map[string]bool

	Documents []dataset.Document
}

// Baseline aggregates the lookback-window documents for a cohort.
// An empty window yields the zero baseline: mean ideology 0, empty
// topic distribution, zero nets, empty name set.
type Baseline struct {
	NDocuments   int
	MeanIdeology float64
	TopicDist    map[string]float64
	ExtensiveNet float64
	IntensiveNet float64
	DANames      map[string]bool
}

// Empty reports whether the baseline window held no documents.
func (b Baseline) Empty() bool { return b.NDocuments == 0 }

// Signals holds the five raw per-cohort signal values.
type Signals struct {
	IdeologyVelocity   float64
	NoveltyIndex       float64
	TopicShift         float64
	MarginReversal     float64
	ExtensiveReversal  bool
	IntensiveReversal  bool
	DATransition       float64
	PriorMeanIdeology  float64
	CurrentHasIdeology bool
}

// ElectionFields are the optional columns joined from the election
// table. All nil when no election matched.
type ElectionFields struct {
	ElectionYear  *int     `json:"election_year"`
	WinnerName    *string  `json:"winner_name"`
	Margin1st2nd  *float64 `json:"margin_1st_2nd"`
	Close5pp      *bool    `json:"close_5pp"`
	Close10pp     *bool    `json:"close_10pp"`
	Close15pp     *bool    `json:"close_15pp"`
	ChallengerWon *bool    `json:"challenger_won"`
}

// DisruptionRecord is one row of the disruption table.
type DisruptionRecord struct {
	County string `json:"county"`
	Year   int    `json:"year"`

	IdeologyVelocity float64 `json:"ideology_velocity"`
	NoveltyIndex     float64 `json:"novelty_index"`
	TopicShift       float64 `json:"topic_shift_score"`
	MarginReversal   float64 `json:"margin_reversal_score"`
	DATransition     float64 `json:"da_transition_signal"`

	IdeologyVelocityNorm float64 `json:"ideology_velocity_norm"`
	NoveltyIndexNorm     float64 `json:"novelty_index_norm"`
	TopicShiftNorm       float64 `json:"topic_shift_score_norm"`
	MarginReversalNorm   float64 `json:"margin_reversal_score_norm"`

	Score          float64        `json:"disruption_score"`
	Classification Classification `json:"disruption_classification"`
	Direction      string         `json:"direction"`

	ExtensiveReversal bool `json:"extensive_reversal"`
	IntensiveReversal bool `json:"intensive_reversal"`

	NDocuments        int      `json:"n_documents"`
	NNewPolicies      int      `json:"n_new_policies"`
	MeanIdeology      *float64 `json:"mean_ideology_score"`
	PriorMeanIdeology float64  `json:"prior_mean_ideology"`

	Election ElectionFields `json:"election"`
}

// Reform kinds emitted by the novel-reform tracker.
const (
	ReformNovelTopic    = "novel_topic"
	ReformNovelPosition = "novel_position"
)

// NovelReformRecord is the first occurrence of a reform in a county.
// The tracker runs over the full document table, not just retained
// cohorts.
type NovelReformRecord struct {
	County         string   `json:"county"`
	Year           int      `json:"year"`
	ReformType     string   `json:"reform_type"`
	ReformName     string   `json:"reform_name"`
	Document       string   `json:"document"`
	IdeologyScore  *float64 `json:"ideology_score"`
	StatewideFirst bool     `json:"statewide_first"`
	AdoptionRank   int      `json:"adoption_rank"`
}

// CountySummaryRecord is the per-county rollup of the disruption table.
type CountySummaryRecord struct {
	County             string  `json:"county"`
	NCountyYears       int     `json:"n_county_years"`
	NDisruptions       int     `json:"n_disruptions"`
	NMajorDisruptions  int     `json:"n_major_disruptions"`
	FirstDisruption    *int    `json:"first_disruption_year"`
	MostDisruptiveYear int     `json:"most_disruptive_year"`
	MaxScore           float64 `json:"max_disruption_score"`
	DominantDirection  string  `json:"dominant_direction"`
	NNovelReforms      int     `json:"n_novel_reforms"`
}

// Diagnostics counts every degenerate-data fallback taken during a run.
// Fallbacks are recovered with defined defaults and reported here, never
// raised as errors.
type Diagnostics struct {
	RunID string `json:"run_id"`

	RowsRead               int `json:"rows_read"`
	RowsDroppedMissingKey  int `json:"rows_dropped_missing_key"`
	UnrecognizedChangeVals int `json:"unrecognized_policy_change_values"`

	CohortsScored       int `json:"cohorts_scored"`
	CohortsBelowMinDocs int `json:"cohorts_below_min_docs"`

	EmptyBaselines        int `json:"empty_baselines"`
	NoIdeologyCoverage    int `json:"no_ideology_coverage"`
	EmptyTopicFallbacks   int `json:"empty_topic_distributions"`
	DegenerateNormSignals int `json:"degenerate_normalizations"`
	ElectionJoinMisses    int `json:"election_join_misses"`

	Classifications map[Classification]int `json:"classifications"`
}

// Output bundles the three result tables with the run diagnostics.
type Output struct {
	Disruptions  []DisruptionRecord
	NovelReforms []NovelReformRecord
	Summaries    []CountySummaryRecord
	Diagnostics  Diagnostics
}
