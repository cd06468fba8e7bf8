package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ebirch/plover/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	sourceKind := flag.String("source", "", "override source kind: dir, log or http (optional)")
	sourcePath := flag.String("path", "", "override directory or log file path (optional)")
	sourceURL := flag.String("url", "", "override http source base URL (optional)")
	refreshSeconds := flag.Int("refresh", 0, "refresh interval in seconds (optional, defaults to 2s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		SourceKind: *sourceKind,
		SourcePath: *sourcePath,
		SourceURL:  *sourceURL,
	}
	if refresh := *refreshSeconds; refresh > 0 {
		opts.RefreshEvery = refresh
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "plover: %v\n", err)
		return 1
	}
	return 0
}
