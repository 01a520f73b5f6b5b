// Package validator checks assembled documents for brace balance, a
// necessary (not sufficient) condition for LaTeX compilability. The
// engine never attempts automatic repair: a mismatch is flagged, debug
// artifacts are persisted, and the assembled text is still returned to
// the caller.
package validator

import (
	"fmt"

	"resumax/internal/logger"
)

// BraceResult is the outcome of a brace-balance check.
type BraceResult struct {
	Balanced bool `json:"balanced"`
	Open     int  `json:"open"`
	Close    int  `json:"close"`
}

// Diff returns open minus close.
func (r BraceResult) Diff() int {
	return r.Open - r.Close
}

// CheckBraces counts unescaped braces across the document. Characters
// preceded by a backslash are not counted; comment lines are skipped
// the same way the compiler would skip them.
func CheckBraces(latex string) BraceResult {
	var result BraceResult
	inComment := false
	var lastChar byte

	for i := 0; i < len(latex); i++ {
		c := latex[i]
		switch {
		case c == '\n':
			inComment = false
		case inComment:
		case c == '%' && lastChar != '\\':
			inComment = true
		case c == '{' && lastChar != '\\':
			result.Open++
		case c == '}' && lastChar != '\\':
			result.Close++
		}
		// An escaped backslash does not escape what follows it.
		if c == '\\' && lastChar == '\\' {
			lastChar = 0
		} else {
			lastChar = c
		}
	}

	result.Balanced = result.Open == result.Close
	if !result.Balanced {
		logger.Warn("brace mismatch in assembled document",
			logger.Int("open", result.Open),
			logger.Int("close", result.Close),
			logger.Int("diff", result.Diff()))
	}
	return result
}

// FormatMismatch renders a short human-readable mismatch summary.
func FormatMismatch(r BraceResult) string {
	return fmt.Sprintf("unbalanced braces: %d open vs %d close (diff %+d)", r.Open, r.Close, r.Diff())
}
