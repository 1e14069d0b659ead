package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Erick5933/ecotachostec-mobile-sub000/cmd"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/runtime"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := runtime.New(version, buildDate)
	rootCmd := cmd.RootCommand(rt)

	err := rootCmd.ExecuteContext(ctx)
	rt.Close()
	if err != nil {
		stop()
		os.Exit(1)
	}
}
