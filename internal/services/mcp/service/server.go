package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/rolldice/internal/platform/timeouts"
	"github.com/louisbranch/rolldice/internal/services/mcp/domain"
	"github.com/louisbranch/rolldice/internal/services/roll/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "rolldice"
	serverVersion = "1.0.0"

	defaultHTTPAddr     = "localhost:8081"
	defaultHistoryLimit = 20
)

// TransportKind selects how MCP messages are carried.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over the streamable HTTP transport.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
	// HTTPAddr is the listen address for TransportHTTP.
	HTTPAddr string
	// HistoryLimit is the roll_history page size when the caller sets none.
	HistoryLimit int
}

// RollService is the command layer the tools run against.
type RollService interface {
	domain.Roller
	domain.HistoryLister
	HistoryEnabled() bool
}

var _ RollService = (*app.Service)(nil)

// NewServer registers the roll tools on a fresh MCP server. roll_history is
// only registered when the service records history.
func NewServer(svc RollService, historyLimit int) (*mcp.Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("roll service is required")
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(server, domain.RollDiceTool(), domain.RollDiceHandler(svc))
	if svc.HistoryEnabled() {
		mcp.AddTool(server, domain.RollHistoryTool(), domain.RollHistoryHandler(svc, historyLimit))
	}
	return server, nil
}

// Run serves MCP on the configured transport and blocks until ctx ends.
func Run(ctx context.Context, cfg Config, svc RollService) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	server, err := NewServer(svc, cfg.HistoryLimit)
	if err != nil {
		return err
	}

	switch TransportKind(strings.ToLower(string(cfg.Transport))) {
	case TransportStdio:
		return runWithTransport(ctx, server, &mcp.StdioTransport{})
	case TransportHTTP:
		return runHTTP(ctx, cfg.HTTPAddr, server)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

func runWithTransport(ctx context.Context, server *mcp.Server, transport mcp.Transport) error {
	err := server.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// NewHTTPHandler serves server over the streamable HTTP transport.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func runHTTP(ctx context.Context, addr string, server *mcp.Server) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = defaultHTTPAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewHTTPHandler(server),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("MCP HTTP listening on %s", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP HTTP: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP: %w", err)
		}
		return nil
	}
}
