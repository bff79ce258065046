// SPDX-License-Identifier: MIT

// Package suppress holds the suppression value type shared by the project file
// codec and the analysis front-ends. Matching logic lives with the analyzer.
package suppress

import "strconv"

// NoLine marks a suppression that is not bound to a specific line.
const NoLine = -1

// Suppression marks a diagnostic as intentionally ignored, optionally scoped
// to a file, a line and a symbol.
type Suppression struct {
	ErrorID    string
	FileName   string
	LineNumber int
	SymbolName string
}

// New returns a suppression for errorID that is not scoped to a line.
func New(errorID string) Suppression {
	return Suppression{ErrorID: errorID, LineNumber: NoLine}
}

// HasLine reports whether the suppression is bound to a positive line number.
func (s Suppression) HasLine() bool {
	return s.LineNumber > 0
}

// ParseLine converts a lineNumber attribute value. Missing, malformed and
// non-positive values yield NoLine.
func ParseLine(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return NoLine
	}
	return n
}

// String renders the suppression in the "id:file:line" form used on the command line.
func (s Suppression) String() string {
	out := s.ErrorID
	if s.FileName != "" {
		out += ":" + s.FileName
		if s.HasLine() {
			out += ":" + strconv.Itoa(s.LineNumber)
		}
	}
	if s.SymbolName != "" {
		out += " symbolName=" + s.SymbolName
	}
	return out
}
