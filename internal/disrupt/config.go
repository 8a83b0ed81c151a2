package disrupt

import (
	"encoding/json"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Defaults mirroring the published methodology.
const (
	defaultMinDocs         = 3
	defaultLookbackYears   = 2
	defaultDirectionCutoff = 0.1
)

// Weights are the composite-score signal weights. They must sum to 1.0
// so the composite stays a convex combination of bounded inputs.
type Weights struct {
	IdeologyVelocity float64 `yaml:"ideology_velocity" json:"ideology_velocity"`
	NoveltyIndex     float64 `yaml:"novelty_index" json:"novelty_index"`
	TopicShift       float64 `yaml:"topic_shift" json:"topic_shift"`
	MarginReversal   float64 `yaml:"margin_reversal" json:"margin_reversal"`
	DATransition     float64 `yaml:"da_transition" json:"da_transition"`
}

// Thresholds are the lower bounds of the four non-stable classification
// bands. Scores below Minor classify as stable.
type Thresholds struct {
	Major       float64 `yaml:"major" json:"major"`
	Significant float64 `yaml:"significant" json:"significant"`
	Moderate    float64 `yaml:"moderate" json:"moderate"`
	Minor       float64 `yaml:"minor" json:"minor"`
}

// CountyPatterns are include/exclude glob patterns over county names.
type CountyPatterns struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// Config controls a scoring run.
type Config struct {
	MinDocs         int            `yaml:"min_docs" json:"min_docs"`
	LookbackYears   int            `yaml:"lookback_years" json:"lookback_years"`
	Weights         Weights        `yaml:"weights" json:"weights"`
	Thresholds      Thresholds     `yaml:"thresholds" json:"thresholds"`
	DirectionCutoff float64        `yaml:"direction_cutoff" json:"direction_cutoff"`
	Counties        CountyPatterns `yaml:"counties" json:"counties"`
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		MinDocs:       defaultMinDocs,
		LookbackYears: defaultLookbackYears,
		Weights: Weights{
			IdeologyVelocity: 0.30,
			NoveltyIndex:     0.25,
			TopicShift:       0.20,
			MarginReversal:   0.15,
			DATransition:     0.10,
		},
		Thresholds: Thresholds{
			Major:       0.75,
			Significant: 0.50,
			Moderate:    0.25,
			Minor:       0.10,
		},
		DirectionCutoff: defaultDirectionCutoff,
	}
}

// configSchema is the CUE contract every effective config must satisfy.
const configSchema = `
{
	min_docs:       int & >=1
	lookback_years: int & >=1
	weights: {
		ideology_velocity: number & >=0 & <=1
		novelty_index:     number & >=0 & <=1
		topic_shift:       number & >=0 & <=1
		margin_reversal:   number & >=0 & <=1
		da_transition:     number & >=0 & <=1
	}
	thresholds: {
		major:       number & >0 & <1
		significant: number & >0 & <1
		moderate:    number & >0 & <1
		minor:       number & >0 & <1
	}
	direction_cutoff: number & >=0
	...
}
`

// LoadConfig reads a YAML config, fills unset fields from defaults, and
// validates the result. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.MinDocs == 0 {
		cfg.MinDocs = defaultMinDocs
	}
	if cfg.LookbackYears == 0 {
		cfg.LookbackYears = defaultLookbackYears
	}
	if cfg.DirectionCutoff == 0 {
		cfg.DirectionCutoff = defaultDirectionCutoff
	}
	zero := Weights{}
	if cfg.Weights == zero {
		cfg.Weights = DefaultConfig().Weights
	}
	if (cfg.Thresholds == Thresholds{}) {
		cfg.Thresholds = DefaultConfig().Thresholds
	}
}

// Validate checks the config against the CUE schema plus the two
// cross-field invariants CUE cannot express locally: weights summing to
// one and strictly descending thresholds.
func (cfg Config) Validate() error {
	if err := cfg.validateSchema(); err != nil {
		return err
	}

	sum := cfg.Weights.IdeologyVelocity + cfg.Weights.NoveltyIndex +
		cfg.Weights.TopicShift + cfg.Weights.MarginReversal + cfg.Weights.DATransition
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("signal weights sum to %v, want 1.0", sum)
	}

	t := cfg.Thresholds
	if !(t.Major > t.Significant && t.Significant > t.Moderate && t.Moderate > t.Minor) {
		return fmt.Errorf(
			"thresholds must be strictly descending: major=%v significant=%v moderate=%v minor=%v",
			t.Major, t.Significant, t.Moderate, t.Minor,
		)
	}
	return nil
}

func (cfg Config) validateSchema() error {
	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(configSchema)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("invalid config schema: %w", err)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	dataVal := ctx.CompileBytes(data)
	if err := dataVal.Err(); err != nil {
		return fmt.Errorf("compile config: %w", err)
	}

	merged := schemaVal.Unify(dataVal)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config does not satisfy schema: %w", err)
	}
	return nil
}
