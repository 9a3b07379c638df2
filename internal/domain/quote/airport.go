package quote

import (
	"fmt"
	"regexp"
)

// DefaultAirportPattern matches the word "airport" or a common east-coast IATA code.
const DefaultAirportPattern = `(?i)\bairport\b|\b(BNE|OOL|SYD|MEL)\b`

// AirportMatcher decides whether a location descriptor refers to an airport.
type AirportMatcher struct {
	re *regexp.Regexp
}

// NewAirportMatcher compiles pattern. An empty pattern matches nothing.
func NewAirportMatcher(pattern string) (*AirportMatcher, error) {
	if pattern == "" {
		return &AirportMatcher{}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile airport pattern: %w", err)
	}
	return &AirportMatcher{re: re}, nil
}

// Match reports whether location looks like an airport.
func (m *AirportMatcher) Match(location string) bool {
	if m == nil || m.re == nil {
		return false
	}
	return m.re.MatchString(location)
}

// MatchAny reports whether any of the locations looks like an airport.
func (m *AirportMatcher) MatchAny(locations ...string) bool {
	for _, l := range locations {
		if m.Match(l) {
			return true
		}
	}
	return false
}
