// Package storage defines roll history records and the persistence contract.
package storage

import (
	"context"
	"time"
)

// RollRecord is one evaluated expression.
type RollRecord struct {
	ID         int64
	Expression string
	Report     string
	Sum        int
	TotalBonus int
	Seed       int64
	SeedSource string
	CreatedAt  time.Time
}

// HistoryStore persists evaluated rolls.
type HistoryStore interface {
	// PutRoll stores record and returns its assigned ID.
	PutRoll(ctx context.Context, record RollRecord) (int64, error)
	// ListRecentRolls returns up to limit records, newest first.
	ListRecentRolls(ctx context.Context, limit int) ([]RollRecord, error)
}
