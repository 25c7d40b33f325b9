// Package transform holds the pure string transforms applied to record fields.
package transform

import (
	"fmt"
	"strings"
)

// Policy selects how many occurrences of a pattern Strip removes.
type Policy int

const (
	// RemoveAll removes every non-overlapping occurrence, scanning left to right.
	RemoveAll Policy = iota
	// RemoveFirst removes only the first occurrence.
	RemoveFirst
)

var policyNames = map[Policy]string{
	RemoveAll:   "all",
	RemoveFirst: "first",
}

// ParsePolicy returns the Policy named s.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return RemoveAll, fmt.Errorf("unknown replace policy %q, expected one of: all, first", s)
}

// String implements fmt.Stringer.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, fmt.Errorf("unknown replace policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Strip removes pattern from s according to the policy.
// An empty pattern leaves s untouched.
func Strip(s, pattern string, policy Policy) string {
	if pattern == "" {
		return s
	}

	n := -1
	if policy == RemoveFirst {
		n = 1
	}
	return strings.Replace(s, pattern, "", n)
}
