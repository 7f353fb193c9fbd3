package token

import (
	"encoding/hex"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Quote returns v as a double quoted literal.
func Quote(v string) string {
	return quote(v, '"')
}

// QuoteRune returns r as a single quoted character literal.
func QuoteRune(r rune) string {
	return quote(string(r), '\'')
}

func quote(v string, qc byte) string {
	d := make([]byte, 1, len(v)+2)
	d[0] = qc
	ucs := []byte{0, 0}
	cps := []byte{0, 0, 0, 0}
	for _, r := range v {
		switch r {
		case rune(qc):
			d = append(d, '\\', qc)
		case '\\':
			d = append(d, '\\', '\\')
		case '\b':
			d = append(d, '\\', 'b')
		case '\f':
			d = append(d, '\\', 'f')
		case '\n':
			d = append(d, '\\', 'n')
		case '\r':
			d = append(d, '\\', 'r')
		case '\t':
			d = append(d, '\\', 't')
		default:
			if unicode.IsControl(r) {
				ucs[0] = byte(r >> 8)
				ucs[1] = byte(r)
				cps = hex.AppendEncode(cps[:0], ucs)
				d = append(d, '\\', 'u', cps[0], cps[1], cps[2], cps[3])
			} else {
				d = utf8.AppendRune(d, r)
			}
		}
	}
	d = append(d, qc)
	return string(d)
}

// IsQuote reports whether c opens a quoted literal.
func IsQuote(c byte) bool {
	return c == '"' || c == '\''
}

// Unquote decodes a single or double quoted literal.  The literal must
// span all of v.
func Unquote(v string) (string, error) {
	if len(v) == 0 || !IsQuote(v[0]) {
		return "", ErrNotQuoted
	}
	qc := rune(v[0])
	b := &strings.Builder{}
	i := 1
	for i < len(v) {
		r, sz := utf8.DecodeRuneInString(v[i:])
		if r == utf8.RuneError && sz <= 1 {
			return "", ErrBadUTF8
		}
		i += sz
		switch {
		case r == qc:
			if i != len(v) {
				return "", ErrTrailing
			}
			return b.String(), nil
		case r == '\\':
			if i >= len(v) {
				return "", ErrUnterminated
			}
			n, err := unescape(b, v[i:])
			if err != nil {
				return "", err
			}
			i += n
		case unicode.IsControl(r):
			return "", ErrUnicodeControl
		default:
			b.WriteRune(r)
		}
	}
	return "", ErrUnterminated
}

// unescape writes the escape sequence at the start of d (just after the
// backslash) and returns how many bytes it consumed.
func unescape(b *strings.Builder, d string) (int, error) {
	switch d[0] {
	case '"', '\'', '\\', '/':
		b.WriteByte(d[0])
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := hex4(d[1:])
		if err != nil {
			return 0, err
		}
		n := 5
		if utf16.IsSurrogate(r) {
			if len(d) < 11 || d[5] != '\\' || d[6] != 'u' {
				return 0, ErrBadUnicode
			}
			lo, err := hex4(d[7:])
			if err != nil {
				return 0, err
			}
			r = utf16.DecodeRune(r, lo)
			if r == utf8.RuneError {
				return 0, ErrBadUnicode
			}
			n = 11
		}
		b.WriteRune(r)
		return n, nil
	default:
		return 0, ErrBadEscape
	}
	return 1, nil
}

func hex4(d string) (rune, error) {
	if len(d) < 4 {
		return 0, ErrUnterminated
	}
	var r rune
	for _, c := range []byte(d[:4]) {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, ErrBadUnicode
		}
	}
	return r, nil
}
