// Package app is the roll command layer: it strips the command keyword from
// incoming text, enforces request limits, evaluates the expression, records
// history, and renders replies for chat-style surfaces.
package app
