package model

// ConfidenceWeights are the heuristic [0,1] scores assigned per value
// provenance tier. They are uncalibrated weights rather than probabilities,
// so they are injected configuration instead of hard-coded constants.
type ConfidenceWeights struct {
	Direct      float64 `yaml:"direct" mapstructure:"direct"`           // value read straight from a numeric cell
	Pattern     float64 `yaml:"pattern" mapstructure:"pattern"`         // value matched from free text by cost regexes
	Estimated   float64 `yaml:"estimated" mapstructure:"estimated"`     // value supplied by the LLM estimator
	Default     float64 `yaml:"default" mapstructure:"default"`         // value from the static per-category table
	Synthesized float64 `yaml:"synthesized" mapstructure:"synthesized"` // wholly invented item (no documents at all)
}

// DefaultConfidenceWeights returns the standard tier weights.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		Direct:      0.9,
		Pattern:     0.7,
		Estimated:   0.7,
		Default:     0.4,
		Synthesized: 0.3,
	}
}
