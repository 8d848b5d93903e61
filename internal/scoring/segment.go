// Package scoring ranks recorded context segments against a query and packs
// the best of them into a hard token budget for re-injection into a resumed
// session. Everything here is a pure function of its inputs: no persistence,
// no I/O, no state shared between calls.
package scoring

import "time"

// SegmentType is a coarse semantic tag assigned by classification.
type SegmentType string

const (
	TypeInstruction SegmentType = "instruction"
	TypeFact        SegmentType = "fact"
	TypeAction      SegmentType = "action"
	TypeSmallTalk   SegmentType = "small_talk"
	TypeUnknown     SegmentType = "unknown"
)

// DefaultTypeWeights returns the default importance weight per segment type.
func DefaultTypeWeights() map[SegmentType]float64 {
	return map[SegmentType]float64{
		TypeInstruction: 1.0,
		TypeFact:        0.8,
		TypeAction:      0.6,
		TypeSmallTalk:   0.2,
		TypeUnknown:     0.4,
	}
}

// Segment is one recorded unit of conversational context. The engine only
// reads segments; it never mutates the caller's slice.
type Segment struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	Role       string      `json:"role,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Importance float64     `json:"importance"`     // base importance in [0,1]
	Type       SegmentType `json:"type,omitempty"` // explicit type hint, skips classification
}

// ScoredSegment is the per-call derived view of a segment. Recomputed on
// every call and never persisted.
type ScoredSegment struct {
	Segment           Segment     `json:"segment"`
	Type              SegmentType `json:"type"`
	Relevance         float64     `json:"relevance"`          // [0,1]
	DecayedImportance float64     `json:"decayed_importance"` // [0,1]
	TypeWeight        float64     `json:"type_weight"`
	Combined          float64     `json:"combined"` // ranking score, not a probability
	EstimatedTokens   int         `json:"estimated_tokens"`

	order int // original input position, last tie-break
}

// Selection is the result of a budgeted selection pass.
type Selection struct {
	Selected        []ScoredSegment `json:"selected"`
	TokensUsed      int             `json:"tokens_used"`
	Excluded        int             `json:"excluded"`
	OverflowSummary string          `json:"overflow_summary,omitempty"`
}

// TokenEstimator maps text to an estimated token count. Callers may supply an
// exact tokenizer-backed counter; Select falls back to EstimateTokens.
type TokenEstimator func(text string) int

// EstimateTokens is the default token estimator: ceil(len(text)/4).
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
