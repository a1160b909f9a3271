package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/okonst/scribecheck/internal/cli"
)

func main() {
	// Pick up API keys from a local .env if present
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
