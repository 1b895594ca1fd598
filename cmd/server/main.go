// Package main - entry point for the landed-cost server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"landed-cost/api"
	"landed-cost/core/engine"
	"landed-cost/internal/config"
	"landed-cost/internal/logging"
)

func main() {
	cfgFile := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	cfg := config.Get()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
		config.Set(cfg)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := engine.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting engine: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	server := api.NewServer(eng)
	if err := server.Serve(ctx, cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
