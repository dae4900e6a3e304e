package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Percent is a percentage expressed in basis points. 100% is Hundred.
type Percent int64

// Hundred is 100% in basis points.
const Hundred Percent = 10000

// ErrInvalidPercent is returned when a percentage cannot be parsed.
var ErrInvalidPercent = errors.New("invalid percentage")

// BasisPoints returns the percentage in basis points.
func (p Percent) BasisPoints() int64 {
	return int64(p)
}

// String formats the percentage as a decimal, e.g. "33.33".
func (p Percent) String() string {
	n := int64(p)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	whole, frac := n/100, n%100
	if frac == 0 {
		return sign + strconv.FormatInt(whole, 10)
	}
	s := fmt.Sprintf("%s%d.%02d", sign, whole, frac)
	return strings.TrimSuffix(s, "0")
}

// ParsePercent parses a decimal percentage with at most two fractional
// digits, e.g. "60", "12.5" or "33.33%".
func ParsePercent(s string) (Percent, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := parseFixed(strings.TrimSpace(s), 2)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPercent, s)
	}
	return Percent(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Percent) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Percent) UnmarshalText(text []byte) error {
	v, err := ParsePercent(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalJSON implements json.Marshaler. The percentage is written as a
// JSON number.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler. JSON numbers and strings are
// both decoded from their textual form.
func (p *Percent) UnmarshalJSON(b []byte) error {
	var raw json.Number
	if err := json.Unmarshal(b, &raw); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidPercent, b)
		}
		return p.UnmarshalText([]byte(s))
	}
	return p.UnmarshalText([]byte(raw))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Percent) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d", ErrInvalidPercent, value.Line)
	}
	return p.UnmarshalText([]byte(value.Value))
}

// MarshalYAML implements yaml.Marshaler.
func (p Percent) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}
