package dice

import (
	"errors"
	"sort"
)

// ErrDropTooLarge indicates a drop clause discards every rolled die.
var ErrDropTooLarge = errors.New("the drop is too large for this many rolls")

// Source supplies uniform integers in [0, n). *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Roll captures the surviving and discarded results of one dice pool. Both
// slices are sorted ascending.
type Roll struct {
	Kept    []int
	Dropped []int
}

// Total returns the sum of the kept results.
func (r Roll) Total() int {
	total := 0
	for _, value := range r.Kept {
		total += value
	}
	return total
}

// Validate reports ErrDropTooLarge when the drop clause removes at least as
// many dice as are rolled. Dice without a drop clause are always valid.
func (d Dice) Validate() error {
	if d.Drop != nil && d.Drop.Value >= d.Count {
		return ErrDropTooLarge
	}
	return nil
}

// Generate rolls the pool with src.
//
// # Ordering
//
// Results are sorted ascending before the drop clause is applied, so
// DropHighest slices from the high end and DropLowest from the low end.
// Kept and Dropped remain ascending.
//
// Generate does not validate; callers run Validate first. A drop value that
// exceeds Count drops everything.
func (d Dice) Generate(src Source) Roll {
	values := make([]int, d.Count)
	for i := range values {
		values[i] = rollDie(src, d.Max)
	}
	sort.Ints(values)

	if d.Drop == nil {
		return Roll{Kept: values, Dropped: []int{}}
	}
	n := min(d.Drop.Value, len(values))
	switch d.Drop.Direction {
	case DropHighest:
		split := len(values) - n
		return Roll{Kept: values[:split], Dropped: values[split:]}
	case DropLowest:
		return Roll{Kept: values[n:], Dropped: values[:n]}
	default:
		return Roll{Kept: values, Dropped: []int{}}
	}
}

// rollDie rolls a die with the provided number of sides.
func rollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}
