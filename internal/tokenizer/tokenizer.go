// Package tokenizer provides token counters for budget accounting. The
// scoring engine defaults to a cheap character heuristic; callers that need
// budgets to line up with a real model vocabulary can plug in the BPE counter.
package tokenizer

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
)

// Counter counts tokens in a piece of text.
type Counter interface {
	Count(text string) int
}

// Estimated approximates token counts from character length.
type Estimated struct {
	// CharsPerToken defaults to 4, a reasonable figure for English text.
	CharsPerToken int
}

// NewEstimated creates the default heuristic counter.
func NewEstimated() *Estimated {
	return &Estimated{CharsPerToken: 4}
}

// Count returns ceil(len(text) / CharsPerToken).
func (e *Estimated) Count(text string) int {
	per := e.CharsPerToken
	if per <= 0 {
		per = 4
	}
	return (len(text) + per - 1) / per
}

// Tiktoken counts tokens with a real BPE encoding.
type Tiktoken struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktoken creates a BPE counter for the given model, falling back to the
// cl100k_base encoding when the model is unknown.
func NewTiktoken(model string) (*Tiktoken, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	return &Tiktoken{encoding: encoding}, nil
}

// Count returns the exact token count under the configured encoding.
func (t *Tiktoken) Count(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// Estimator adapts a Counter to the engine's pluggable estimator type.
func Estimator(c Counter) scoring.TokenEstimator {
	return c.Count
}

// Compile-time interface checks.
var (
	_ Counter = (*Estimated)(nil)
	_ Counter = (*Tiktoken)(nil)
)
