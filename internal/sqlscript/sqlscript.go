// Package sqlscript prepares SQL script text for execution: positional
// parameter substitution and statement splitting.
//
// Splitting is purely textual. A semicolon inside a string literal, quoted
// identifier or comment still ends a statement.
package sqlscript

import (
	"iter"
	"strconv"
	"strings"
)

const (
	ParamSeparator     = ","
	StatementSeparator = ";"
)

// ParseParams splits a comma-separated list and trims each value. Values
// cannot contain commas.
func ParseParams(raw string) []string {
	params := strings.Split(raw, ParamSeparator)
	for i, p := range params {
		params[i] = strings.TrimSpace(p)
	}
	return params
}

// Placeholder returns the token replaced by the n-th (1-based) parameter.
func Placeholder(n int) string {
	return "${" + strconv.Itoa(n) + "}"
}

// Substitute replaces ${1}, ${2}, ... with params in index order. Each pass
// sees the output of the previous one.
func Substitute(text string, params []string) string {
	for i, p := range params {
		text = strings.ReplaceAll(text, Placeholder(i+1), p)
	}
	return text
}

// Statements yields the trimmed, non-empty fragments of text split on ';'.
func Statements(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for fragment := range strings.SplitSeq(text, StatementSeparator) {
			stmt := strings.TrimSpace(fragment)
			if stmt == "" {
				continue
			}
			if !yield(stmt) {
				return
			}
		}
	}
}

func Count(text string) int {
	n := 0
	for range Statements(text) {
		n++
	}
	return n
}
