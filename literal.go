package gluon

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lucidj/go-gluon/token"
)

// FormatLiteral returns the value representation of a primitive.
//
//	int      42
//	int64    42L
//	int16    42s
//	byte     42b
//	float32  1.5f
//	float64  1.5d
//	rune     'c'
//	bool     true
//	string   "text"
//	nil      null
func FormatLiteral(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10) + "L", nil
	case int16:
		return strconv.FormatInt(int64(x), 10) + "s", nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10) + "b", nil
	case int32:
		if !utf8.ValidRune(x) {
			return "", fmt.Errorf("%w: invalid char %d", ErrUnrepresentable, x)
		}
		return token.QuoteRune(x), nil
	case float32:
		return formatFloat(float64(x), 32, "f")
	case float64:
		return formatFloat(x, 64, "d")
	case string:
		return token.Quote(x), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnrepresentable, v)
}

func formatFloat(f float64, bits int, suffix string) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrUnrepresentable, f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s + suffix, nil
}

// ParseLiteral decodes a value representation written by FormatLiteral.
// Numbers without a suffix are int, or float64 when they carry a
// fraction or exponent.
func ParseLiteral(rep string) (any, error) {
	rep = strings.TrimSpace(rep)
	switch rep {
	case "", "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	switch rep[0] {
	case '"':
		s, err := token.Unquote(rep)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadLiteral, rep, err)
		}
		return s, nil
	case '\'':
		s, err := token.Unquote(rep)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadLiteral, rep, err)
		}
		r, sz := utf8.DecodeRuneInString(s)
		if sz == 0 || sz != len(s) {
			return nil, fmt.Errorf("%w: %s is not a single char", ErrBadLiteral, rep)
		}
		return r, nil
	}
	v, err := parseNumber(rep)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadLiteral, rep)
	}
	return v, nil
}

func parseNumber(rep string) (any, error) {
	body := rep[:len(rep)-1]
	switch rep[len(rep)-1] {
	case 'L', 'l':
		return strconv.ParseInt(body, 10, 64)
	case 's', 'S':
		i, err := strconv.ParseInt(body, 10, 16)
		return int16(i), err
	case 'b', 'B':
		u, err := strconv.ParseUint(body, 10, 8)
		return uint8(u), err
	case 'f', 'F':
		f, err := strconv.ParseFloat(body, 32)
		return float32(f), err
	case 'd', 'D':
		return strconv.ParseFloat(body, 64)
	}
	if strings.ContainsAny(rep, ".eE") {
		return strconv.ParseFloat(rep, 64)
	}
	return strconv.Atoi(rep)
}
