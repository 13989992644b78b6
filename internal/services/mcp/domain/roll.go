package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/rolldice/internal/dice"
	"github.com/louisbranch/rolldice/internal/platform/timeouts"
	"github.com/louisbranch/rolldice/internal/services/roll/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Roller is the command-layer surface the roll tool needs.
type Roller interface {
	Roll(ctx context.Context, req app.Request) (app.Response, error)
}

// RollDiceInput represents the MCP tool input for rolling an expression.
type RollDiceInput struct {
	Expression string `json:"expression" jsonschema:"dice expression, e.g. 4d6d-1 + 2d8 - 3"`
	Seed       *int64 `json:"seed,omitempty" jsonschema:"optional seed to replay a roll"`
}

// RollDiceTerm is one evaluated term.
type RollDiceTerm struct {
	Term    string `json:"term" jsonschema:"signed term as written, e.g. -2d6d+1"`
	Kind    string `json:"kind" jsonschema:"dice or bonus"`
	Kept    []int  `json:"kept" jsonschema:"kept die results, ascending"`
	Dropped []int  `json:"dropped" jsonschema:"dropped die results, ascending"`
	Total   int    `json:"total" jsonschema:"signed contribution to the sum"`
}

// RollDiceResult represents the MCP tool output for a roll.
type RollDiceResult struct {
	Expression string         `json:"expression" jsonschema:"expression after keyword stripping"`
	Report     string         `json:"report" jsonschema:"human-readable breakdown"`
	Terms      []RollDiceTerm `json:"terms" jsonschema:"per-term results in input order"`
	Sum        int            `json:"sum" jsonschema:"grand total"`
	TotalBonus int            `json:"total_bonus" jsonschema:"sum of flat modifiers"`
	Seed       int64          `json:"seed" jsonschema:"seed used for the roll"`
	SeedSource string         `json:"seed_source" jsonschema:"CLIENT or SERVER"`
	RollID     int64          `json:"roll_id,omitempty" jsonschema:"history id when history is enabled"`
}

// RollDiceTool defines the MCP tool schema for rolling dice expressions.
func RollDiceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_dice",
		Description: "Rolls a dice expression such as 5d10d+2 + 2d5 - 2. NdM rolls N dice with M faces; a trailing d+K drops the K highest and d-K the K lowest; bare integers are flat bonuses.",
	}
}

// RollDiceHandler evaluates an expression. Parse and validation failures are
// returned as tool errors carrying the same text a chat reply would show.
func RollDiceHandler(roller Roller) mcp.ToolHandlerFor[RollDiceInput, RollDiceResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDiceInput) (*mcp.CallToolResult, RollDiceResult, error) {
		if strings.TrimSpace(input.Expression) == "" {
			return nil, RollDiceResult{}, errors.New("expression is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.ToolCall)
		defer cancel()

		resp, err := roller.Roll(runCtx, app.Request{Text: input.Expression, Seed: input.Seed})
		if err != nil {
			return nil, RollDiceResult{}, errors.New(app.ReplyForError(err))
		}

		result := RollDiceResult{
			Expression: resp.Expression,
			Report:     resp.Report,
			Terms:      termResults(resp.Result),
			Sum:        resp.Result.Sum,
			TotalBonus: resp.Result.TotalBonus,
			Seed:       resp.Seed,
			SeedSource: string(resp.SeedSource),
			RollID:     resp.RollID,
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: resp.Report}},
		}, result, nil
	}
}

func termResults(result dice.Result) []RollDiceTerm {
	terms := make([]RollDiceTerm, 0, len(result.Terms))
	for _, tr := range result.Terms {
		mul := tr.Term.Sign.Multiplier()
		term := RollDiceTerm{
			Term:    tr.Term.String(),
			Kept:    []int{},
			Dropped: []int{},
		}
		switch c := tr.Term.Component.(type) {
		case dice.Dice:
			term.Kind = "dice"
			if tr.Roll != nil {
				term.Kept = tr.Roll.Kept
				term.Dropped = tr.Roll.Dropped
				term.Total = mul * tr.Roll.Total()
			}
		case dice.Bonus:
			term.Kind = "bonus"
			term.Total = mul * int(c)
		}
		terms = append(terms, term)
	}
	return terms
}
