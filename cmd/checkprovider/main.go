// Command checkprovider probes the configured model provider and prints
// whether it is reachable and vision capable. Useful when bringing up a
// local Ollama instance.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/arch-i-tect/api/internal/config"
	"github.com/arch-i-tect/api/internal/llm"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	provider, err := llm.NewProvider(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build provider: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("provider: %s\n", provider.Name())
	fmt.Printf("vision:   %v\n", provider.SupportsVision())

	start := time.Now()
	available := provider.IsAvailable(ctx)
	fmt.Printf("reachable: %v (checked in %s)\n", available, time.Since(start).Round(time.Millisecond))

	if !available {
		os.Exit(1)
	}
}
