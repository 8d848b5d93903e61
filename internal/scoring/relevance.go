package scoring

import (
	"math"
	"sort"
)

// Corpus holds document-frequency statistics over the candidate set. It is
// built fresh per call by Select, but callers that score many queries against
// the same segments may build one once and pass it in — the engine never
// mutates a Corpus after construction.
type Corpus struct {
	n  int
	df map[string]int
}

// NewCorpus computes document frequencies over the given texts.
func NewCorpus(texts []string) *Corpus {
	df := make(map[string]int)
	for _, text := range texts {
		seen := make(map[string]bool)
		for _, term := range tokenize(text) {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}
	return &Corpus{n: len(texts), df: df}
}

// Size returns the number of documents the corpus was built from.
func (c *Corpus) Size() int { return c.n }

// idf returns ln(N/df) for a term. Terms never seen in the corpus report
// ok=false and are excluded from scoring. A single-document corpus is
// degenerate (ln(1/1)=0 would zero every score), so idf is defined as 1 there.
func (c *Corpus) idf(term string) (float64, bool) {
	df := c.df[term]
	if df == 0 {
		return 0, false
	}
	if c.n == 1 {
		return 1, true
	}
	return math.Log(float64(c.n) / float64(df)), true
}

// queryVec is a query's term-frequency vector with a precomputed norm.
type queryVec struct {
	tf    map[string]int
	terms []string // sorted, for deterministic float accumulation
	norm  float64
}

// queryVector tokenizes a query into a TF vector. An empty or all-stopword
// query produces a zero vector, which scores 0 against every segment.
func (c *Corpus) queryVector(query string) queryVec {
	tf := make(map[string]int)
	for _, term := range tokenize(query) {
		tf[term]++
	}
	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var norm float64
	for _, term := range terms {
		f := float64(tf[term])
		norm += f * f
	}
	return queryVec{tf: tf, terms: terms, norm: math.Sqrt(norm)}
}

// similarity computes the cosine between the query TF vector and the text's
// TF-IDF vector, clamped into [0,1]. Term iteration is in sorted order so the
// same inputs always accumulate floats identically.
func (c *Corpus) similarity(q queryVec, text string) float64 {
	if q.norm == 0 {
		return 0
	}

	tf := make(map[string]int)
	for _, term := range tokenize(text) {
		tf[term]++
	}
	if len(tf) == 0 {
		return 0
	}
	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var dot, norm float64
	for _, term := range terms {
		idf, ok := c.idf(term)
		if !ok {
			continue
		}
		w := float64(tf[term]) * idf
		norm += w * w
		if qf := q.tf[term]; qf > 0 {
			dot += float64(qf) * w
		}
	}
	if norm == 0 {
		return 0
	}

	sim := dot / (q.norm * math.Sqrt(norm))
	return clamp01(sim)
}

// Relevance scores one text against a query using the corpus statistics.
// Select precomputes the query vector instead of calling this per segment.
func (c *Corpus) Relevance(query, text string) float64 {
	return c.similarity(c.queryVector(query), text)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
