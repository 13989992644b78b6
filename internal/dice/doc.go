// Package dice parses and evaluates tabletop dice expressions such as
// "5d10d+2 + 2d5 - 2".
//
// Parsing is positional: every failure is a *SyntaxError carrying the rune
// offset where input stopped matching the grammar. Evaluation rolls each dice
// term with an injected Source, so a seeded *rand.Rand gives repeatable
// reports.
package dice
