package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/config"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/transcript"
)

var (
	injectTranscript string
	injectQuery      string
	injectMaxTokens  int
	injectTopK       int
	injectJSON       bool
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Select the best prior context from a transcript",
	Long: "Parses a recorded JSONL transcript, scores every segment against the query,\n" +
		"and prints the selection that fits the token budget.",
	RunE: runInject,
}

func init() {
	injectCmd.Flags().StringVar(&injectTranscript, "transcript", "", "path to JSONL transcript (required)")
	injectCmd.Flags().StringVar(&injectQuery, "query", "", "query to score segments against")
	injectCmd.Flags().IntVar(&injectMaxTokens, "max-tokens", 0, "token budget (default from config)")
	injectCmd.Flags().IntVar(&injectTopK, "top-k", 0, "max segments, 0 = unbounded")
	injectCmd.Flags().BoolVar(&injectJSON, "json", false, "emit the full selection as JSON")
	injectCmd.MarkFlagRequired("transcript")
}

func runInject(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	entries, err := transcript.ParseFile(injectTranscript)
	if err != nil {
		return err
	}
	segments := transcript.Segments(entries)

	sc, err := cfg.Engine.ScoringConfig()
	if err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	estimator, _ := buildEstimator(cfg.Engine)
	sc.Estimator = estimator
	if injectMaxTokens > 0 {
		sc.MaxTokens = injectMaxTokens
	}
	if injectTopK > 0 {
		sc.TopK = injectTopK
	}

	sel, err := scoring.Select(segments, injectQuery, sc)
	if err != nil {
		return err
	}

	if injectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sel)
	}

	printSelection(sel)
	return nil
}

// printSelection renders the selection as a markdown block ready to paste
// into a resumed prompt.
func printSelection(sel *scoring.Selection) {
	fmt.Println("<context>")
	fmt.Println("## Prior session context")
	for _, s := range sel.Selected {
		role := s.Segment.Role
		if role == "" {
			role = "note"
		}
		fmt.Printf("\n[%s] %s\n", strings.ToUpper(role), s.Segment.Text)
	}
	if sel.OverflowSummary != "" {
		fmt.Printf("\n## Compressed older context\n%s\n", sel.OverflowSummary)
	}
	fmt.Println("</context>")
	fmt.Fprintf(os.Stderr, "selected %d segments, %d tokens used, %d excluded\n",
		len(sel.Selected), sel.TokensUsed, sel.Excluded)
}
