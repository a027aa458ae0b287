package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rate is a ratio stored as a fraction. On the wire a bare number is a
// fraction (0.045) and a string with a trailing "%" is a percentage ("4.5%").
// The zero value is unset.
type Rate struct {
	value float64
	set   bool
}

// Fraction returns a Rate holding f as a fraction.
func Fraction(f float64) Rate {
	return Rate{value: f, set: true}
}

// Percent returns a Rate holding p percent.
func Percent(p float64) Rate {
	return Rate{value: p / 100, set: true}
}

// IsSet reports whether the rate was supplied.
func (r Rate) IsSet() bool { return r.set }

// Value returns the fraction, zero when unset.
func (r Rate) Value() float64 { return r.value }

// Or returns the fraction, or def when unset.
func (r Rate) Or(def float64) float64 {
	if !r.set {
		return def
	}
	return r.value
}

// String formats the rate as a percentage.
func (r Rate) String() string {
	if !r.set {
		return "unset"
	}
	return strconv.FormatFloat(r.value*100, 'f', -1, 64) + "%"
}

// ParseRate parses "0.05", "5%" or " 5 % " into a Rate.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rate{}, nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return Rate{}, fmt.Errorf("parsing percentage %q: %w", s, err)
		}
		return Percent(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Rate{}, fmt.Errorf("parsing fraction %q: %w", s, err)
	}
	return Fraction(v), nil
}

// MarshalJSON writes the fraction, or null when unset.
func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON accepts a number, a string, or null.
func (r *Rate) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*r = Rate{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := ParseRate(str)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("rate must be a number or percentage string: %w", err)
	}
	*r = Fraction(f)
	return nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (r *Rate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: rate must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*r = Rate{}
		return nil
	}
	parsed, err := ParseRate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = parsed
	return nil
}

// MarshalYAML writes the fraction, or null when unset.
func (r Rate) MarshalYAML() (any, error) {
	if !r.set {
		return nil, nil
	}
	return r.value, nil
}
