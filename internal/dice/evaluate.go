package dice

import (
	"strconv"
	"strings"
)

// ValidationError reports the first dice term that failed validation.
type ValidationError struct {
	Term Term
	Err  error
}

func (e *ValidationError) Error() string {
	signed := e.Term.Component.String()
	if e.Term.Sign == Negative {
		signed = "-" + signed
	}
	return "Error validating dice " + signed + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TermResult is the outcome of one term. Roll is nil for Bonus terms.
type TermResult struct {
	Term Term
	Roll *Roll
}

// Result is an evaluated expression.
//
// Bonus terms count toward both Sum and TotalBonus; dice only toward Sum.
type Result struct {
	Terms      []TermResult
	Sum        int
	TotalBonus int
}

// Resolve rolls every term of args in order. The first dice term that fails
// validation aborts the whole evaluation with a *ValidationError.
func Resolve(args Args, src Source) (Result, error) {
	result := Result{Terms: make([]TermResult, 0, len(args.Terms))}
	for _, term := range args.Terms {
		mul := term.Sign.Multiplier()
		switch c := term.Component.(type) {
		case Dice:
			if err := c.Validate(); err != nil {
				return Result{}, &ValidationError{Term: term, Err: err}
			}
			roll := c.Generate(src)
			result.Terms = append(result.Terms, TermResult{Term: term, Roll: &roll})
			result.Sum += mul * roll.Total()
		case Bonus:
			result.Terms = append(result.Terms, TermResult{Term: term})
			result.Sum += mul * int(c)
			result.TotalBonus += mul * int(c)
		}
	}
	return result, nil
}

// Evaluate resolves args and renders the report, or the validation error text.
func Evaluate(args Args, src Source) string {
	result, err := Resolve(args, src)
	if err != nil {
		return err.Error()
	}
	return result.String()
}

// String renders one line per dice term, then the bonus total when positive,
// then the sum.
func (r Result) String() string {
	lines := make([]string, 0, len(r.Terms)+2)
	for _, tr := range r.Terms {
		if tr.Roll == nil {
			continue
		}
		lines = append(lines, renderRoll(tr.Term.Component, *tr.Roll))
	}
	if r.TotalBonus > 0 {
		lines = append(lines, "Total bonus: "+strconv.Itoa(r.TotalBonus))
	}
	lines = append(lines, "Sum: "+strconv.Itoa(r.Sum))
	return strings.Join(lines, "\n")
}

// renderRoll formats "<dice>: [~~dropped~~, **kept**]", leaving out the
// struck-through part when nothing was dropped.
func renderRoll(component Component, roll Roll) string {
	var b strings.Builder
	b.WriteString(component.String())
	b.WriteString(": [")
	if len(roll.Dropped) > 0 {
		b.WriteString("~~" + joinInts(roll.Dropped) + "~~, ")
	}
	b.WriteString("**" + joinInts(roll.Kept) + "**]")
	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, value := range values {
		parts[i] = strconv.Itoa(value)
	}
	return strings.Join(parts, ", ")
}
