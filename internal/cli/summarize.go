package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/config"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/transcript"
)

var (
	summarizeTranscript string
	summarizeQuery      string
	summarizeMaxWords   int
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Extractively compress a transcript to a word cap",
	RunE:  runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeTranscript, "transcript", "", "path to JSONL transcript (required)")
	summarizeCmd.Flags().StringVar(&summarizeQuery, "query", "", "bias sentence scoring toward this query")
	summarizeCmd.Flags().IntVar(&summarizeMaxWords, "max-words", 0, "word cap (default from config)")
	summarizeCmd.MarkFlagRequired("transcript")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	entries, err := transcript.ParseFile(summarizeTranscript)
	if err != nil {
		return err
	}
	segments := transcript.Segments(entries)

	maxWords := summarizeMaxWords
	if maxWords <= 0 {
		maxWords = cfg.Engine.SummaryWords
	}
	curve, err := cfg.Engine.Curve()
	if err != nil {
		return fmt.Errorf("engine config: %w", err)
	}

	summary := scoring.Summarize(segments, maxWords, scoring.SummaryOptions{
		Query: summarizeQuery,
		Curve: curve,
	})
	if summary == "" {
		return fmt.Errorf("nothing to summarize in %s", summarizeTranscript)
	}

	fmt.Println(summary)
	return nil
}
