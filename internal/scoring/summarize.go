package scoring

import (
	"sort"
	"strings"
	"time"
)

// SummaryOptions controls extractive summarization.
type SummaryOptions struct {
	// Query biases sentence scoring. Empty means the centroid of all
	// sentence text: every sentence is scored against the whole.
	Query string

	// Curve weights each sentence by its parent segment's decayed
	// importance. Nil skips decay (multiplier 1).
	Curve Curve

	// Clock is the reference instant for ages; zero means time.Now().
	Clock time.Time
}

// sentence is one scoring unit inside Summarize.
type sentence struct {
	text  string
	words int
	score float64
	order int // chronological position across all segments
}

// Summarize builds an extractive summary of the segments: split into
// sentences, score each with the same TF-IDF relevance scorer blended with
// the parent segment's decayed importance, pick top sentences until the next
// one would exceed maxWords, then emit the picks in their original
// chronological order so the result still reads as a narrative.
func Summarize(segments []Segment, maxWords int, opts SummaryOptions) string {
	if maxWords <= 0 || len(segments) == 0 {
		return ""
	}
	clock := opts.Clock
	if clock.IsZero() {
		clock = time.Now()
	}

	// Chronological ordering of segments; stable so equal timestamps keep
	// input order.
	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	var sentences []sentence
	var texts []string
	var all strings.Builder
	for _, seg := range ordered {
		importance := clamp01(seg.Importance)
		if opts.Curve != nil {
			importance = DecayedImportance(importance, clock.Sub(seg.Timestamp), opts.Curve)
		}
		for _, s := range splitSentences(seg.Text) {
			sentences = append(sentences, sentence{
				text:  s,
				words: len(strings.Fields(s)),
				score: importance, // relevance blended in below
				order: len(sentences),
			})
			texts = append(texts, s)
			all.WriteString(s)
			all.WriteString(" ")
		}
	}
	if len(sentences) == 0 {
		return ""
	}

	query := opts.Query
	if strings.TrimSpace(query) == "" {
		query = all.String()
	}

	corpus := NewCorpus(texts)
	qv := corpus.queryVector(query)
	for i := range sentences {
		rel := corpus.similarity(qv, sentences[i].text)
		sentences[i].score = 0.5*rel + 0.5*sentences[i].score
	}

	// Rank by score descending; earlier sentences win ties.
	ranked := make([]sentence, len(sentences))
	copy(ranked, sentences)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	// Take top sentences until the next one would exceed the word cap.
	var picked []sentence
	used := 0
	for _, s := range ranked {
		if used+s.words > maxWords {
			break
		}
		picked = append(picked, s)
		used += s.words
	}

	// Restore chronological order.
	sort.Slice(picked, func(i, j int) bool {
		return picked[i].order < picked[j].order
	})

	parts := make([]string, len(picked))
	for i, s := range picked {
		parts[i] = s.text
	}
	return strings.Join(parts, " ")
}

// splitSentences breaks text on sentence terminators, trimming whitespace
// and dropping empties. Newlines also terminate a sentence so that list-form
// notes summarize line by line.
func splitSentences(text string) []string {
	var out []string
	var current strings.Builder
	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			out = append(out, s)
		}
		current.Reset()
	}
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			current.WriteRune(r)
			flush()
		case '\n':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return out
}
