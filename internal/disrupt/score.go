package disrupt

import (
	"math"

	"github.com/google/uuid"

	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/codebook"
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/dataset"
	"github.com/dyo2112/prosecutor-policies-causal-inference/internal/log"
)

// Run executes the full scoring pipeline: cohort building, baseline
// resolution, raw signals, dataset-wide normalization, composite
// scoring, classification, the novel-reform ledger, the election join,
// and the county summary. The normalization is global, so raw signals
// for every cohort are computed before any score.
func Run(
	docs []dataset.Document,
	elections []dataset.ElectionRecord,
	cb *codebook.Codebook,
	cfg Config,
	readStats dataset.ReadStats,
	logger *log.Logger,
) (Output, error) {
	if err := cfg.Validate(); err != nil {
		return Output{}, err
	}
	if cb == nil {
		cb = codebook.Default()
	}

	diag := Diagnostics{
		RunID:                  uuid.NewString(),
		RowsRead:               readStats.RowsRead,
		RowsDroppedMissingKey:  readStats.RowsDroppedMissingKey,
		UnrecognizedChangeVals: readStats.UnrecognizedChangeVals,
		Classifications:        make(map[Classification]int),
	}

	filter := dataset.NewCountyFilter(cfg.Counties.Include, cfg.Counties.Exclude)
	scoped := filter.Apply(docs)
	logger.Printf("scoring %d of %d documents after county filters", len(scoped), len(docs))

	// Pass one: cohorts, baselines, raw signals.
	cohorts := BuildCohorts(scoped, cfg.MinDocs, &diag)
	baselines := newBaselineIndex(scoped, cfg.LookbackYears)
	diag.CohortsScored = len(cohorts)
	logger.Printf("retained %d cohorts (%d below min_docs=%d)",
		len(cohorts), diag.CohortsBelowMinDocs, cfg.MinDocs)

	records := make([]DisruptionRecord, 0, len(cohorts))
	signals := make([]Signals, 0, len(cohorts))
	for _, cohort := range cohorts {
		baseline := baselines.Resolve(cohort.County, cohort.Year, &diag)
		sig := ComputeSignals(cohort, baseline, &diag)
		signals = append(signals, sig)
		records = append(records, DisruptionRecord{
			County:            cohort.County,
			Year:              cohort.Year,
			IdeologyVelocity:  sig.IdeologyVelocity,
			NoveltyIndex:      sig.NoveltyIndex,
			TopicShift:        sig.TopicShift,
			MarginReversal:    sig.MarginReversal,
			DATransition:      sig.DATransition,
			ExtensiveReversal: sig.ExtensiveReversal,
			IntensiveReversal: sig.IntensiveReversal,
			NDocuments:        cohort.NDocuments,
			NNewPolicies:      cohort.NNewPolicies,
			MeanIdeology:      cohort.MeanIdeology,
			PriorMeanIdeology: sig.PriorMeanIdeology,
			Direction:         DirectionOf(sig.IdeologyVelocity, cfg.DirectionCutoff),
		})
	}

	// Pass two: normalize across the cohort set, then score and classify.
	applyComposite(records, signals, cfg, &diag)

	electionIdx := newElectionIndex(elections)
	if len(elections) > 0 {
		for i := range records {
			records[i].Election = electionIdx.Match(records[i].County, records[i].Year, &diag)
		}
	}

	reforms := DetectNovelReforms(scoped, cb)
	summaries := Summarize(records, reforms)

	logger.Printf("run %s: %d disruptions, %d novel reforms, %d counties",
		diag.RunID, len(records), len(reforms), len(summaries))

	return Output{
		Disruptions:  records,
		NovelReforms: reforms,
		Summaries:    summaries,
		Diagnostics:  diag,
	}, nil
}

// applyComposite fills the normalized signal columns, the composite
// score, and the classification for every record in place.
func applyComposite(records []DisruptionRecord, signals []Signals, cfg Config, diag *Diagnostics) {
	n := len(records)
	velocity := make([]float64, n)
	novelty := make([]float64, n)
	topicShift := make([]float64, n)
	marginReversal := make([]float64, n)
	for i, sig := range signals {
		// Velocity normalizes on magnitude; direction is carried separately.
		velocity[i] = math.Abs(sig.IdeologyVelocity)
		novelty[i] = sig.NoveltyIndex
		topicShift[i] = sig.TopicShift
		marginReversal[i] = sig.MarginReversal
	}

	velocityNorm := minMaxNormalize(velocity, diag)
	noveltyNorm := minMaxNormalize(novelty, diag)
	topicShiftNorm := minMaxNormalize(topicShift, diag)
	marginReversalNorm := minMaxNormalize(marginReversal, diag)

	w := cfg.Weights
	for i := range records {
		records[i].IdeologyVelocityNorm = velocityNorm[i]
		records[i].NoveltyIndexNorm = noveltyNorm[i]
		records[i].TopicShiftNorm = topicShiftNorm[i]
		records[i].MarginReversalNorm = marginReversalNorm[i]

		records[i].Score = w.IdeologyVelocity*velocityNorm[i] +
			w.NoveltyIndex*noveltyNorm[i] +
			w.TopicShift*topicShiftNorm[i] +
			w.MarginReversal*marginReversalNorm[i] +
			w.DATransition*records[i].DATransition

		records[i].Classification = Classify(records[i].Score, cfg.Thresholds)
		diag.Classifications[records[i].Classification]++
	}
}
