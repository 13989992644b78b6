// Package service wires the MCP protocol to the roll tools.
//
// It knows how to run MCP over stdio or streamable HTTP and delegates the
// meaning of each tool to the domain package.
package service
