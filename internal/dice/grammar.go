package dice

import (
	"strconv"
	"strings"
)

// DropDirection selects which end of a sorted roll set is discarded.
type DropDirection int

const (
	// DropHighest discards the largest results.
	DropHighest DropDirection = iota
	// DropLowest discards the smallest results.
	DropLowest
)

func (d DropDirection) String() string {
	switch d {
	case DropHighest:
		return "+"
	case DropLowest:
		return "-"
	default:
		return "?"
	}
}

// Drop describes how many dice to discard and from which end.
type Drop struct {
	Direction DropDirection
	Value     int
}

func (d Drop) String() string {
	return d.Direction.String() + strconv.Itoa(d.Value)
}

// Component is one unsigned element of an expression: Dice or Bonus.
type Component interface {
	String() string
	isComponent()
}

// Dice is a pool of Count dice with Max faces each and an optional drop clause.
type Dice struct {
	Count int
	Max   int
	Drop  *Drop
}

func (Dice) isComponent() {}

func (d Dice) String() string {
	var b strings.Builder
	if d.Count > 1 {
		b.WriteString(strconv.Itoa(d.Count))
	}
	b.WriteByte('d')
	b.WriteString(strconv.Itoa(d.Max))
	if d.Drop != nil {
		b.WriteByte('d')
		b.WriteString(d.Drop.String())
	}
	return b.String()
}

// Bonus is a flat modifier.
type Bonus int

func (Bonus) isComponent() {}

func (b Bonus) String() string {
	return strconv.Itoa(int(b))
}

// Sign is the operator in front of a term.
type Sign int

const (
	Positive Sign = iota
	Negative
)

func (s Sign) String() string {
	if s == Negative {
		return "-"
	}
	return "+"
}

// Multiplier returns +1 or -1.
func (s Sign) Multiplier() int {
	if s == Negative {
		return -1
	}
	return 1
}

// Term is a signed component.
type Term struct {
	Sign      Sign
	Component Component
}

func (t Term) String() string {
	return t.Sign.String() + t.Component.String()
}

// Args is a parsed expression. Terms keep input order and are never empty
// after a successful parse.
type Args struct {
	Terms []Term
}

// String renders the expression back in canonical form.
func (a Args) String() string {
	var b strings.Builder
	for i, term := range a.Terms {
		switch {
		case i == 0 && term.Sign == Positive:
			b.WriteString(term.Component.String())
		case i == 0:
			b.WriteString(term.String())
		default:
			b.WriteString(" " + term.Sign.String() + " " + term.Component.String())
		}
	}
	return b.String()
}

// DiceCount returns the total number of dice rolled across all terms.
func (a Args) DiceCount() int {
	total := 0
	for _, term := range a.Terms {
		if d, ok := term.Component.(Dice); ok {
			total += d.Count
		}
	}
	return total
}
