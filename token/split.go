package token

import (
	"strings"
)

// Split cuts s at every occurrence of delim that lies outside a quoted
// segment.  Backslashes escape the next byte inside quotes.  Pieces are
// trimmed of surrounding white space.
func Split(s string, delim byte) ([]string, error) {
	var res []string
	start := 0
	var qc byte
	esc := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case qc != 0:
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == qc:
				qc = 0
			}
		case IsQuote(c):
			qc = c
		case c == delim:
			res = append(res, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if qc != 0 {
		return nil, ErrUnterminated
	}
	return append(res, strings.TrimSpace(s[start:])), nil
}

// Cut splits s around the first sep that precedes any quote.
func Cut(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if IsQuote(c) {
			break
		}
		if c == sep {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
		}
	}
	return s, "", false
}
