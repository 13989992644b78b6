package dice

import "math"

// MaxInt is the largest integer literal the grammar accepts.
const MaxInt = math.MaxInt32

// parseFunc is the contract shared by every grammar type: consume a prefix
// of the cursor and return the advanced cursor with the value, or fail with a
// *SyntaxError and leave the caller's cursor untouched.
type parseFunc[T any] func(Cursor) (Cursor, T, error)

// Parse parses a full expression. Any input left after the last term that is
// not whitespace followed by a sign is reported as a syntax error.
func Parse(text string) (Args, error) {
	_, args, err := parseArgs(NewCursor(text))
	if err != nil {
		return Args{}, err
	}
	return args, nil
}

// ParseAndEvaluate parses text and evaluates it with src.
func ParseAndEvaluate(text string, src Source) (Args, string, error) {
	args, err := Parse(text)
	if err != nil {
		return Args{}, "", err
	}
	return args, Evaluate(args, src), nil
}

// parseUint reads a positive decimal integer without a leading zero.
func parseUint(c Cursor) (Cursor, int, error) {
	ch, next, err := c.Next()
	if err != nil {
		return c, 0, err
	}
	if ch < '1' || ch > '9' {
		return c, 0, c.fail()
	}
	value := int64(ch - '0')
	for {
		digitAt := next
		ch, after, err := next.Next()
		if err != nil || ch < '0' || ch > '9' {
			break
		}
		value = value*10 + int64(ch-'0')
		if value > MaxInt {
			return c, 0, digitAt.fail()
		}
		next = after
	}
	return next, int(value), nil
}

func parseBonus(c Cursor) (Cursor, Bonus, error) {
	next, value, err := parseUint(c)
	if err != nil {
		return c, 0, err
	}
	return next, Bonus(value), nil
}

func parseDice(c Cursor) (Cursor, Dice, error) {
	start := c
	d := Dice{Count: 1}
	if next, count, err := parseUint(c); err == nil {
		c = next
		d.Count = count
	}

	c, err := c.Expect('d')
	if err != nil {
		return start, Dice{}, err
	}
	c, d.Max, err = parseUint(c)
	if err != nil {
		return start, Dice{}, err
	}

	ch, afterD, err := c.Next()
	if err != nil || ch != 'd' {
		return c, d, nil
	}
	modifier, afterModifier, err := afterD.Next()
	if err != nil {
		return start, Dice{}, err
	}
	var direction DropDirection
	switch modifier {
	case '+':
		direction = DropHighest
	case '-':
		direction = DropLowest
	default:
		return start, Dice{}, afterD.fail()
	}
	c, value, err := parseUint(afterModifier)
	if err != nil {
		return start, Dice{}, err
	}
	d.Drop = &Drop{Direction: direction, Value: value}
	return c, d, nil
}

// parseComponent tries Dice, then Bonus, each from the same cursor.
func parseComponent(c Cursor) (Cursor, Component, error) {
	if next, d, err := parseDice(c); err == nil {
		return next, d, nil
	}
	if next, b, err := parseBonus(c); err == nil {
		return next, b, nil
	}
	return c, nil, c.fail()
}

func parseSign(c Cursor) (Cursor, Sign, error) {
	ch, next, err := c.Next()
	if err != nil {
		return c, Positive, err
	}
	switch ch {
	case '+':
		return next, Positive, nil
	case '-':
		return next, Negative, nil
	default:
		return c, Positive, c.fail()
	}
}

func parseArgs(c Cursor) (Cursor, Args, error) {
	c, first, err := parseComponent(c)
	if err != nil {
		return c, Args{}, err
	}
	args := Args{Terms: []Term{{Sign: Positive, Component: first}}}
	for {
		c = c.FlushWhitespace()
		if c.AtEnd() {
			return c, args, nil
		}
		var sign Sign
		c, sign, err = parseSign(c)
		if err != nil {
			return c, Args{}, err
		}
		c = c.FlushWhitespace()
		var component Component
		c, component, err = parseComponent(c)
		if err != nil {
			return c, Args{}, err
		}
		args.Terms = append(args.Terms, Term{Sign: sign, Component: component})
	}
}

var (
	_ parseFunc[int]       = parseUint
	_ parseFunc[Bonus]     = parseBonus
	_ parseFunc[Dice]      = parseDice
	_ parseFunc[Component] = parseComponent
	_ parseFunc[Sign]      = parseSign
	_ parseFunc[Args]      = parseArgs
)
