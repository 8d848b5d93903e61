package main

import (
	"os"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
