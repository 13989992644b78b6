// Package timeouts defines shared timeout constants used by the commands.
package timeouts

import "time"

// ReadHeader limits how long the MCP HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the MCP HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TelemetryShutdown caps the flush of pending spans on exit.
const TelemetryShutdown = 5 * time.Second

// ToolCall caps a single MCP tool invocation, including the history write.
const ToolCall = 2 * time.Second
