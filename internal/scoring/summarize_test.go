package scoring

import (
	"strings"
	"testing"
	"time"
)

func TestSummarizeChronologicalOrder(t *testing.T) {
	// Sentences 1 and 3 score high against the query; the word cap only
	// covers those two. The output must keep their original order even
	// though ranking visits them by score.
	seg := Segment{
		ID: "log",
		Text: "Alpha rocket launch succeeded. We ate lunch downtown. " +
			"The alpha rocket landed safely. Weather stayed calm.",
		Timestamp:  testClock,
		Importance: 0.5,
	}

	got := Summarize([]Segment{seg}, 9, SummaryOptions{Query: "alpha rocket", Clock: testClock})

	want := "Alpha rocket launch succeeded. The alpha rocket landed safely."
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarizeRespectsWordCap(t *testing.T) {
	segments := []Segment{
		{ID: "a", Text: "The deploy failed twice. We rolled back to the previous tag. Logs showed a missing migration.", Timestamp: testClock, Importance: 0.8},
		{ID: "b", Text: "Coffee machine is broken again. Someone ordered a replacement.", Timestamp: testClock.Add(time.Minute), Importance: 0.2},
	}

	for _, limit := range []int{3, 8, 15, 100} {
		got := Summarize(segments, limit, SummaryOptions{Query: "deploy migration", Clock: testClock})
		if words := len(strings.Fields(got)); words > limit {
			t.Errorf("cap %d: summary has %d words: %q", limit, words, got)
		}
	}
}

func TestSummarizeCentroidFallback(t *testing.T) {
	// No query: sentences are scored against the concatenation of all
	// sentence text, so the most central sentence should survive.
	segments := []Segment{
		{ID: "a", Text: "The parser handles streaming input. The parser buffers one line at a time.", Timestamp: testClock, Importance: 0.5},
		{ID: "b", Text: "Unrelated grocery list entry.", Timestamp: testClock.Add(time.Second), Importance: 0.5},
	}

	got := Summarize(segments, 8, SummaryOptions{Clock: testClock})
	if got == "" {
		t.Fatal("expected a non-empty summary without a query")
	}
	if !strings.Contains(strings.ToLower(got), "parser") {
		t.Errorf("centroid summary %q dropped the dominant topic", got)
	}
}

func TestSummarizeDecayWeighting(t *testing.T) {
	// Same text relevance, but one segment is far older under a linear
	// horizon: the fresh sentence must win the one-sentence budget.
	segments := []Segment{
		{ID: "old", Text: "Scheduler config changed last month.", Timestamp: testClock.Add(-40 * 24 * time.Hour), Importance: 1.0},
		{ID: "new", Text: "Scheduler config changed this morning.", Timestamp: testClock.Add(-time.Hour), Importance: 1.0},
	}
	opts := SummaryOptions{
		Query: "scheduler config changed",
		Curve: Linear{Horizon: 30 * 24 * time.Hour},
		Clock: testClock,
	}

	got := Summarize(segments, 5, opts)
	if !strings.Contains(got, "morning") {
		t.Errorf("summary %q, want the fresher sentence", got)
	}
}

func TestSummarizeDegenerateInputs(t *testing.T) {
	if got := Summarize(nil, 50, SummaryOptions{}); got != "" {
		t.Errorf("nil segments: %q, want empty", got)
	}
	if got := Summarize([]Segment{{ID: "a", Text: "something"}}, 0, SummaryOptions{}); got != "" {
		t.Errorf("zero word cap: %q, want empty", got)
	}
	if got := Summarize([]Segment{{ID: "a"}}, 50, SummaryOptions{}); got != "" {
		t.Errorf("empty text: %q, want empty", got)
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	segments := []Segment{
		{ID: "a", Text: "Cache warms on startup. Cold starts take ten seconds.", Timestamp: testClock, Importance: 0.7},
		{ID: "b", Text: "Warmup can run in parallel. Parallel warmup needs a lock.", Timestamp: testClock.Add(time.Minute), Importance: 0.6},
	}
	opts := SummaryOptions{Query: "cache warmup", Curve: Exponential{HalfLife: time.Hour}, Clock: testClock}

	first := Summarize(segments, 12, opts)
	second := Summarize(segments, 12, opts)
	if first != second {
		t.Errorf("summaries diverged: %q vs %q", first, second)
	}
}
