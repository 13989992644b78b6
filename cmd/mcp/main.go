package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpcmd "github.com/louisbranch/rolldice/internal/cmd/mcp"
	platformcmd "github.com/louisbranch/rolldice/internal/platform/cmd"
)

// main starts the MCP server on stdio or HTTP.
func main() {
	platformcmd.ConfigureLogging(platformcmd.ServiceMCP)
	cfg, err := mcpcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := mcpcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve MCP: %v", err)
	}
}
