// Package dateutil formats the date printed on cover cards.
//
// A date value is either a literal, returned unchanged, or "auto" optionally
// followed by ":FORMAT" to print today's date. FORMAT uses the tokens YYYY,
// YY, MMMM, MMM, MM, M, DD and D, or one of the preset names.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date value or format.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used by a bare "auto".
const DefaultDateFormat = "YYYY年M月D日"

const autoPrefix = "auto"

// layoutTokens maps format tokens to time layout elements, longest first.
var layoutTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets are named formats, matched case-insensitively.
var DatePresets = map[string]string{
	"cn":   "YYYY年M月D日",
	"iso":  "YYYY-MM-DD",
	"dot":  "YYYY.MM.DD",
	"us":   "MM/DD/YYYY",
	"long": "MMMM D, YYYY",
}

// ParseDateFormat converts a token format to a time layout.
// Text inside brackets is copied literally, so "[Day] D" keeps "Day".
// Other characters are kept as they are.
func ParseDateFormat(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(literal)
			rest = after
			continue
		}
		n := matchToken(&b, rest)
		if n == 0 {
			b.WriteByte(rest[0])
			n = 1
		}
		rest = rest[n:]
	}
	return b.String(), nil
}

// matchToken writes the layout of the token starting s and returns its
// length, or 0 when s does not start with a token.
func matchToken(b *strings.Builder, s string) int {
	for _, t := range layoutTokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return len(t.token)
		}
	}
	return 0
}

// ResolveDate returns the text to print for value at time t:
//   - "" stays empty (no date)
//   - "auto" formats t with DefaultDateFormat
//   - "auto:FORMAT" formats t with FORMAT or the preset it names
//   - anything else is a literal and returned unchanged
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, autoPrefix) {
		return value, nil
	}

	format := DefaultDateFormat
	if lower != autoPrefix {
		spec, ok := strings.CutPrefix(value[len(autoPrefix):], ":")
		if !ok {
			return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		if spec == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		format = spec
		if preset, ok := DatePresets[strings.ToLower(spec)]; ok {
			format = preset
		}
	}

	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
