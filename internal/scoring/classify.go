package scoring

import "strings"

// stopwords are excluded from tokenization so that an all-filler query scores
// zero everywhere instead of matching every segment.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"do": true, "does": true, "did": true, "have": true, "has": true,
	"had": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "not": true, "no": true,
	"and": true, "or": true, "but": true, "if": true, "then": true,
	"than": true, "so": true, "as": true, "at": true, "by": true,
	"for": true, "from": true, "in": true, "into": true, "of": true,
	"on": true, "to": true, "with": true, "about": true, "it": true,
	"its": true, "this": true, "that": true, "what": true, "which": true,
	"who": true, "how": true, "when": true, "where": true, "why": true,
	"you": true, "me": true, "i": true, "my": true, "your": true,
	"we": true, "they": true, "he": true, "she": true, "them": true,
}

// tokenize splits text into lowercase tokens, stripping punctuation and
// stopwords. Single-char tokens are skipped.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 1 {
			tok := current.String()
			if !stopwords[tok] {
				tokens = append(tokens, tok)
			}
		}
		current.Reset()
	}
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// Rule is one entry in the ordered classification table. The first rule whose
// Match returns true wins.
type Rule struct {
	Type   SegmentType
	Weight float64
	Match  func(seg Segment, tokens []string) bool
}

// anyToken reports whether any of the segment's tokens is in the keyword set.
func anyToken(tokens []string, keywords map[string]bool) bool {
	for _, tok := range tokens {
		if keywords[tok] {
			return true
		}
	}
	return false
}

var instructionWords = map[string]bool{
	"must": true, "always": true, "never": true, "remember": true,
	"rule": true, "rules": true, "instruction": true, "instructions": true,
	"ensure": true, "required": true, "convention": true, "policy": true,
}

var actionWords = map[string]bool{
	"ran": true, "run": true, "running": true, "executed": true,
	"edited": true, "created": true, "deleted": true, "wrote": true,
	"installed": true, "built": true, "tested": true, "committed": true,
	"fixed": true, "applied": true, "tool": true, "command": true,
}

var smallTalkWords = map[string]bool{
	"hello": true, "hi": true, "hey": true, "thanks": true, "thank": true,
	"please": true, "great": true, "awesome": true, "cool": true,
	"goodbye": true, "bye": true, "welcome": true,
}

var factWords = map[string]bool{
	"uses": true, "located": true, "defined": true, "version": true,
	"default": true, "config": true, "named": true, "contains": true,
	"depends": true, "stored": true, "means": true, "called": true,
}

// DefaultRules returns the built-in classification table. The table is data:
// callers can prepend, reorder, or replace entries without touching the
// selection logic.
func DefaultRules() []Rule {
	return []Rule{
		{
			Type:   TypeInstruction,
			Weight: 1.0,
			Match: func(seg Segment, tokens []string) bool {
				return seg.Role == "system" || anyToken(tokens, instructionWords)
			},
		},
		{
			Type:   TypeAction,
			Weight: 0.6,
			Match: func(seg Segment, tokens []string) bool {
				return seg.Role == "tool" || anyToken(tokens, actionWords)
			},
		},
		{
			Type:   TypeSmallTalk,
			Weight: 0.2,
			Match: func(seg Segment, tokens []string) bool {
				return len(tokens) <= 6 && anyToken(tokens, smallTalkWords)
			},
		},
		{
			Type:   TypeFact,
			Weight: 0.8,
			Match: func(seg Segment, tokens []string) bool {
				return anyToken(tokens, factWords)
			},
		},
	}
}

// Classify assigns a segment type and weight using the ordered rule table.
// An explicit type on the segment short-circuits the rules and is weighted
// from typeWeights. No matching rule means TypeUnknown.
func Classify(seg Segment, rules []Rule, typeWeights map[SegmentType]float64) (SegmentType, float64) {
	if seg.Type != "" {
		return seg.Type, typeWeights[seg.Type]
	}
	tokens := tokenize(seg.Text)
	for _, rule := range rules {
		if rule.Match != nil && rule.Match(seg, tokens) {
			return rule.Type, rule.Weight
		}
	}
	return TypeUnknown, typeWeights[TypeUnknown]
}
