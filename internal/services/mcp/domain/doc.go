// Package domain defines the MCP tools exposed by the roll service.
//
// Each tool has a schema constructor (XTool) and a handler constructor
// (XHandler) that maps MCP input onto the roll command layer and returns a
// structured result alongside the human-readable report.
package domain
