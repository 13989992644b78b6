package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	rollcmd "github.com/louisbranch/rolldice/internal/cmd/roll"
	platformcmd "github.com/louisbranch/rolldice/internal/platform/cmd"
	"github.com/louisbranch/rolldice/internal/platform/config"
)

// main rolls the expression given as arguments, or one per stdin line.
func main() {
	platformcmd.ConfigureLogging(platformcmd.ServiceRoll)
	cfg, err := rollcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceRoll, func(ctx context.Context) error {
		return rollcmd.Run(ctx, cfg, os.Stdin, os.Stdout)
	})
	if err != nil {
		config.Exitf("roll: %v", err)
	}
}
