// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	platformcmd "github.com/louisbranch/rolldice/internal/platform/cmd"
	mcpservice "github.com/louisbranch/rolldice/internal/services/mcp/service"
	"github.com/louisbranch/rolldice/internal/services/roll/app"
	"github.com/louisbranch/rolldice/internal/services/roll/storage/sqlite"
)

// Config holds MCP command configuration.
type Config struct {
	HTTPAddr     string   `env:"ROLLDICE_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport    string   `env:"ROLLDICE_MCP_TRANSPORT" envDefault:"stdio"`
	DBPath       string   `env:"ROLLDICE_DB_PATH"`
	HistoryLimit int      `env:"ROLLDICE_HISTORY_LIMIT" envDefault:"20"`
	MaxDice      int      `env:"ROLLDICE_MAX_DICE"      envDefault:"1000"`
	Prefixes     []string `env:"ROLLDICE_PREFIXES"      envDefault:"!roll,/roll,roll,dnd" envSeparator:","`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return parseConfig(fs, args, nil)
}

func parseConfig(fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg, environ); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite roll history path (empty disables roll_history)")
	fs.IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "default roll_history page size")
	fs.IntVar(&cfg.MaxDice, "max-dice", cfg.MaxDice, "maximum dice per expression")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	switch mcpservice.TransportKind(strings.ToLower(cfg.Transport)) {
	case mcpservice.TransportStdio, mcpservice.TransportHTTP:
	default:
		return Config{}, fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
	return cfg, nil
}

// Run starts the MCP server with tracing configured.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	opts := []app.Option{}
	if strings.TrimSpace(cfg.DBPath) != "" {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open roll history: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close roll history: %v", err)
			}
		}()
		opts = append(opts, app.WithHistory(store))
	}

	svc := app.NewService(app.Config{Prefixes: cfg.Prefixes, MaxDice: cfg.MaxDice}, opts...)
	return mcpservice.Run(ctx, mcpservice.Config{
		Transport:    mcpservice.TransportKind(strings.ToLower(cfg.Transport)),
		HTTPAddr:     cfg.HTTPAddr,
		HistoryLimit: cfg.HistoryLimit,
	}, svc)
}
