// Package money provides integer minor-unit amounts, basis-point
// percentages and an exact largest-remainder allocator.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Money is an amount expressed in minor units (e.g. cents).
type Money int64

// ErrInvalidAmount is returned when an amount cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// Units returns the number of minor units.
func (m Money) Units() int64 {
	return int64(m)
}

// String formats the amount with thousands grouping and two decimals.
func (m Money) String() string {
	n := int64(m)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(n/100), n%100)
}

// ParseMoney parses a decimal amount with at most two fractional digits,
// e.g. "500", "500.5" or "1,234.56".
func ParseMoney(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := parseFixed(s, 2)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is a number
// of minor units.
func (m *Money) UnmarshalText(text []byte) error {
	n, err := strconv.ParseInt(strings.TrimSpace(string(text)), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	*m = Money(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// UnmarshalJSON implements json.Unmarshaler. Both JSON numbers and strings
// holding an integer number of minor units are accepted.
func (m *Money) UnmarshalJSON(b []byte) error {
	var raw json.Number
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, b)
	}
	return m.UnmarshalText([]byte(raw))
}

// parseFixed parses a non-negative or negative decimal string into an
// integer scaled by 10^scale without going through floating point.
func parseFixed(s string, scale int) (int64, error) {
	if s == "" {
		return 0, errors.New("empty")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, errors.New("no digits")
	}
	if len(frac) > scale {
		return 0, errors.New("too many fractional digits")
	}
	frac += strings.Repeat("0", scale-len(frac))
	digits := whole + frac
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, errors.New("invalid digit")
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		n = -n
	}
	return n, nil
}
