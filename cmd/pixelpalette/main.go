// pixelpalette - extract ranked colour palettes from images
//
// pixelpalette clusters sampled pixels into a small set of representative
// colours, prints them, renders them as a banner, or hands them to exporter
// plugins.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jmylchreest/pixelpalette/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
