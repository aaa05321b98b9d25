// Command crabdb runs the networked key-value database server: the TCP
// wire protocol listener, its worker pool and durable store, and the
// admin HTTP surface.
package main

import (
	"context"
	"log"
	"os"

	"crabdb/internal/app"
	"crabdb/pkg/config"
	"crabdb/pkg/shutdown"
)

func main() {
	eff, err := config.LoadEffectiveConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("crabdb: failed to load config: %v", err)
	}
	if err := eff.Config.Validate(); err != nil {
		shutdown.Abort("invalid configuration", err, eff.Config.AOLDir)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	a, err := app.New(eff, eff.Config.AcceptRatePerSecond)
	if err != nil {
		shutdown.Abort("failed to start crabdb", err, eff.Config.AOLDir)
	}

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("crabdb exited with error", err, eff.Config.AOLDir)
	}

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	defer shutdownCancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Printf("crabdb: shutdown error: %v", err)
	}

	os.Exit(0)
}
