package scoring

import "sort"

// Score computes the per-segment derived view for a candidate set: type,
// relevance against the query, decayed importance, and the combined ranking
// score. The returned slice is in input order.
//
// A prebuilt Corpus may be passed to reuse IDF statistics across queries;
// nil builds one from the segments.
func Score(segments []Segment, query string, corpus *Corpus, cfg Config) ([]ScoredSegment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	return score(segments, query, corpus, cfg), nil
}

func score(segments []Segment, query string, corpus *Corpus, cfg Config) []ScoredSegment {
	if corpus == nil {
		texts := make([]string, len(segments))
		for i, seg := range segments {
			texts[i] = seg.Text
		}
		corpus = NewCorpus(texts)
	}
	qv := corpus.queryVector(query)

	scored := make([]ScoredSegment, len(segments))
	for i, seg := range segments {
		typ, tw := Classify(seg, cfg.Rules, cfg.TypeWeights)
		rel := corpus.similarity(qv, seg.Text)
		di := DecayedImportance(clamp01(seg.Importance), cfg.Clock.Sub(seg.Timestamp), cfg.Curve)

		scored[i] = ScoredSegment{
			Segment:           seg,
			Type:              typ,
			Relevance:         rel,
			DecayedImportance: di,
			TypeWeight:        tw,
			Combined:          cfg.WRelevance*rel + cfg.WImportance*di + cfg.WType*tw,
			EstimatedTokens:   cfg.Estimator(seg.Text),
			order:             i,
		}
	}
	return scored
}

// rank orders scored segments by combined score descending. Ties break on
// newer timestamp, then on original input order, so the ordering is total
// and two identical calls rank identically.
func rank(scored []ScoredSegment) {
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Combined != b.Combined {
			return a.Combined > b.Combined
		}
		if !a.Segment.Timestamp.Equal(b.Segment.Timestamp) {
			return a.Segment.Timestamp.After(b.Segment.Timestamp)
		}
		return a.order < b.order
	})
}

// Select ranks the segments and greedily fills the token budget. A candidate
// that does not fit the remaining budget is skipped whole — never truncated —
// and the scan continues with lower-ranked, possibly smaller candidates.
// Best-effort packing in score order, not optimal knapsack: one pass,
// O(n log n), fully deterministic.
//
// Degenerate inputs are not errors: an empty segment list yields an empty
// selection, and an empty query just zeroes the relevance signal.
func Select(segments []Segment, query string, cfg Config) (*Selection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	scored := score(segments, query, nil, cfg)
	rank(scored)

	sel := &Selection{Selected: []ScoredSegment{}}
	remaining := cfg.MaxTokens
	var leftovers []Segment

	for i, cand := range scored {
		if cfg.TopK > 0 && len(sel.Selected) == cfg.TopK {
			for _, rest := range scored[i:] {
				leftovers = append(leftovers, rest.Segment)
			}
			break
		}
		if cand.EstimatedTokens > remaining {
			leftovers = append(leftovers, cand.Segment)
			continue
		}
		sel.Selected = append(sel.Selected, cand)
		sel.TokensUsed += cand.EstimatedTokens
		remaining -= cand.EstimatedTokens
	}

	sel.Excluded = len(leftovers)
	if cfg.SummaryWords > 0 && len(leftovers) > 0 {
		sel.OverflowSummary = Summarize(leftovers, cfg.SummaryWords, SummaryOptions{
			Query: query,
			Curve: cfg.Curve,
			Clock: cfg.Clock,
		})
	}
	return sel, nil
}
