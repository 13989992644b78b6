package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/rolldice/internal/platform/timeouts"
	"github.com/louisbranch/rolldice/internal/services/roll/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HistoryLister is the command-layer surface the history tool needs.
type HistoryLister interface {
	ListHistory(ctx context.Context, limit int) ([]storage.RollRecord, error)
}

// RollHistoryInput represents the MCP tool input for listing past rolls.
type RollHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of rolls to return"`
}

// RollHistoryEntry is one recorded roll.
type RollHistoryEntry struct {
	ID         int64  `json:"id" jsonschema:"history id"`
	Expression string `json:"expression" jsonschema:"rolled expression"`
	Report     string `json:"report" jsonschema:"human-readable breakdown"`
	Sum        int    `json:"sum" jsonschema:"grand total"`
	TotalBonus int    `json:"total_bonus" jsonschema:"sum of flat modifiers"`
	Seed       int64  `json:"seed" jsonschema:"seed used for the roll"`
	SeedSource string `json:"seed_source" jsonschema:"CLIENT or SERVER"`
	CreatedAt  string `json:"created_at" jsonschema:"RFC3339 timestamp"`
}

// RollHistoryResult represents the MCP tool output for listing past rolls.
type RollHistoryResult struct {
	Rolls []RollHistoryEntry `json:"rolls" jsonschema:"recorded rolls, newest first"`
}

// RollHistoryTool defines the MCP tool schema for roll history.
func RollHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_history",
		Description: "Lists recently rolled expressions, newest first",
	}
}

// RollHistoryHandler lists recent rolls, using defaultLimit when the input
// leaves the limit unset.
func RollHistoryHandler(lister HistoryLister, defaultLimit int) mcp.ToolHandlerFor[RollHistoryInput, RollHistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollHistoryInput) (*mcp.CallToolResult, RollHistoryResult, error) {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultLimit
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		records, err := lister.ListHistory(runCtx, limit)
		if err != nil {
			return nil, RollHistoryResult{}, fmt.Errorf("list roll history: %w", err)
		}

		result := RollHistoryResult{Rolls: make([]RollHistoryEntry, 0, len(records))}
		for _, rec := range records {
			result.Rolls = append(result.Rolls, RollHistoryEntry{
				ID:         rec.ID,
				Expression: rec.Expression,
				Report:     rec.Report,
				Sum:        rec.Sum,
				TotalBonus: rec.TotalBonus,
				Seed:       rec.Seed,
				SeedSource: rec.SeedSource,
				CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
			})
		}
		return nil, result, nil
	}
}
