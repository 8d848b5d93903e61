package scoring

import (
	"fmt"
	"time"
)

// ConfigError reports an invalid configuration value. Validation runs before
// any scoring; an invalid config never produces a partial result.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// Config controls one selection call. The weights are independent
// contribution coefficients; they are not required to sum to 1.
type Config struct {
	MaxTokens int // hard token budget, > 0
	TopK      int // max selected segments, 0 = unbounded

	WRelevance  float64
	WImportance float64
	WType       float64

	Curve Curve

	// Rules and TypeWeights parameterize classification; nil means the
	// built-in defaults. Estimator defaults to EstimateTokens.
	Rules       []Rule
	TypeWeights map[SegmentType]float64
	Estimator   TokenEstimator

	// SummaryWords caps the overflow summary of excluded segments.
	// 0 disables the summary.
	SummaryWords int

	// Clock is the reference instant for age computation. Zero means
	// time.Now(), captured once at the start of the call.
	Clock time.Time
}

// DefaultConfig returns a config with equal scoring weights and a 1-hour
// exponential half-life.
func DefaultConfig(maxTokens int) Config {
	return Config{
		MaxTokens:   maxTokens,
		WRelevance:  1.0 / 3,
		WImportance: 1.0 / 3,
		WType:       1.0 / 3,
		Curve:       Exponential{HalfLife: time.Hour},
	}
}

// Validate checks the config, failing fast on the first invalid value.
func (c Config) Validate() error {
	if c.MaxTokens <= 0 {
		return &ConfigError{Field: "max_tokens", Reason: "must be positive"}
	}
	if c.TopK < 0 {
		return &ConfigError{Field: "top_k", Reason: "must not be negative"}
	}
	if c.WRelevance < 0 {
		return &ConfigError{Field: "weight_relevance", Reason: "must not be negative"}
	}
	if c.WImportance < 0 {
		return &ConfigError{Field: "weight_importance", Reason: "must not be negative"}
	}
	if c.WType < 0 {
		return &ConfigError{Field: "weight_type", Reason: "must not be negative"}
	}
	if c.SummaryWords < 0 {
		return &ConfigError{Field: "summary_words", Reason: "must not be negative"}
	}
	if c.Curve == nil {
		return &ConfigError{Field: "decay_curve", Reason: "is required"}
	}
	return c.Curve.Validate()
}

// withDefaults fills in nil table/estimator/clock fields. Config is passed by
// value, so this never touches the caller's copy.
func (c Config) withDefaults() Config {
	if c.Rules == nil {
		c.Rules = DefaultRules()
	}
	if c.TypeWeights == nil {
		c.TypeWeights = DefaultTypeWeights()
	}
	if c.Estimator == nil {
		c.Estimator = EstimateTokens
	}
	if c.Clock.IsZero() {
		c.Clock = time.Now()
	}
	return c
}
