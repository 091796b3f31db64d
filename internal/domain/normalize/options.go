package normalize

import (
	"fmt"
	"strings"
)

// Policy decides what happens to a column whose standard deviation is zero.
type Policy int

const (
	// PolicyZero centers the column, leaving every value at 0.
	PolicyZero Policy = iota
	// PolicyFail aborts normalization with ErrZeroVariance.
	PolicyFail
)

// String returns the config token for p.
func (p Policy) String() string {
	switch p {
	case PolicyZero:
		return "zero"
	case PolicyFail:
		return "fail"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a config token to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zero":
		return PolicyZero, nil
	case "fail":
		return PolicyFail, nil
	default:
		return PolicyZero, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithPolicy sets the zero-variance policy.
func WithPolicy(p Policy) Option {
	return func(n *Normalizer) {
		n.policy = p
	}
}

// WithColumnNames labels columns in error messages.
func WithColumnNames(names []string) Option {
	return func(n *Normalizer) {
		n.columnNames = names
	}
}
