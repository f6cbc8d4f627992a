// Package main is the entry point for the chordkit API server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/james-see/chordkit/pkg/api"
	"github.com/james-see/chordkit/pkg/config"
	"github.com/james-see/chordkit/pkg/logger"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "Server port")
	flag.Parse()
	cfg.Port = *port
	logger.SetDebug(cfg.Debug)

	flush, err := logger.InitSentry(cfg.SentryDSN, cfg.Environment, releaseVersion)
	if err != nil {
		logger.Error("Failed to initialize Sentry", err, nil)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting chordkit API server on port %d...\n", cfg.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Port)

	if err := api.Run(ctx, cfg); err != nil {
		logger.Error("Server error", err, nil)
		flush()
		os.Exit(1)
	}
}
