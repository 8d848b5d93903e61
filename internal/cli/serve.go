package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/config"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/server"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/store"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/tokenizer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	estimator, counterName := buildEstimator(cfg.Engine)

	srv := server.New(db, cfg.Engine, estimator, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "relink serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  tokens: %s\n", counterName)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

// buildEstimator picks the configured token counter, falling back to the
// character heuristic when the BPE encoding cannot be loaded.
func buildEstimator(engine config.EngineConfig) (scoring.TokenEstimator, string) {
	if engine.TokenCounter == "tiktoken" {
		tk, err := tokenizer.NewTiktoken(engine.TiktokenModel)
		if err == nil {
			return tokenizer.Estimator(tk), "tiktoken (" + engine.TiktokenModel + ")"
		}
		fmt.Fprintf(os.Stderr, "warning: tiktoken init failed (%v), using estimate\n", err)
	}
	return tokenizer.Estimator(tokenizer.NewEstimated()), "estimate"
}
