// Package random provides seed generation for dice rolls.
//
// Each roll gets its own *rand.Rand so concurrent requests never share
// generator state. Seeds come from crypto/rand unless the caller supplies one
// to replay a roll.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// SeedSource names where a roll's seed came from.
type SeedSource string

const (
	SeedSourceClient SeedSource = "CLIENT"
	SeedSourceServer SeedSource = "SERVER"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a generator for one roll. A nil seed draws a fresh one.
func New(seed *int64) (*rand.Rand, int64, SeedSource, error) {
	if seed != nil {
		return rand.New(rand.NewSource(*seed)), *seed, SeedSourceClient, nil
	}
	value, err := NewSeed()
	if err != nil {
		return nil, 0, "", err
	}
	return rand.New(rand.NewSource(value)), value, SeedSourceServer, nil
}
