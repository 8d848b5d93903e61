package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relink",
	Short: "Context re-injection for resumed agent sessions",
	Long: "Relink records conversational context segments and, on resume, scores them\n" +
		"against a query to re-inject the best slice under a hard token budget.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(summarizeCmd)
}
