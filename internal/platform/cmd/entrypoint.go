// Package cmd holds the startup helpers shared by the command entrypoints.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/rolldice/internal/platform/config"
	"github.com/louisbranch/rolldice/internal/platform/otel"
	"github.com/louisbranch/rolldice/internal/platform/timeouts"
)

// Service identifiers used for telemetry resource names and log prefixes.
const (
	ServiceRoll = "roll"
	ServiceMCP  = "mcp"
)

// ParseConfig loads environment defaults into cfg. A nil environ reads the
// process environment; tests pass an explicit map instead.
func ParseConfig[T any](cfg *T, environ map[string]string) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if environ == nil {
		return config.ParseEnv(cfg)
	}
	return config.ParseEnvFrom(cfg, environ)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry configures tracing, executes run, and flushes pending spans
// within timeouts.TelemetryShutdown once run returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.TelemetryShutdown)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}

// ConfigureLogging sets the standard logger prefix to the upper-cased service
// name, e.g. "[ROLL] ".
func ConfigureLogging(service string) {
	service = strings.TrimSpace(service)
	if service == "" {
		return
	}
	log.SetPrefix("[" + strings.ToUpper(service) + "] ")
}
