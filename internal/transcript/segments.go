package transcript

import (
	"fmt"
	"time"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
)

// Role-based default importance. User messages carry the strongest signal
// about what the session was actually about; assistant prose is cheaper to
// lose, and system noise cheapest of all.
var roleImportance = map[string]float64{
	"user":      0.8,
	"assistant": 0.5,
	"system":    0.3,
}

const defaultImportance = 0.4

// Segments converts parsed transcript entries into scoring segments,
// preserving transcript order. Entries without a parsable timestamp inherit
// the previous entry's timestamp so age-based decay stays monotone across
// the transcript.
func Segments(entries []ParsedEntry) []scoring.Segment {
	segments := make([]scoring.Segment, 0, len(entries))
	var lastTS time.Time
	for i, e := range entries {
		ts := e.Timestamp
		if ts.IsZero() {
			ts = lastTS
		} else {
			lastTS = ts
		}

		importance, ok := roleImportance[e.Type]
		if !ok {
			importance = defaultImportance
		}

		segments = append(segments, scoring.Segment{
			ID:         fmt.Sprintf("t-%d", i),
			Text:       e.Text,
			Role:       e.Type,
			Timestamp:  ts,
			Importance: importance,
		})
	}
	return segments
}
