package source

import (
	"fmt"
	"regexp"
)

// FilterMode selects how the profile filter is applied.
type FilterMode int

const (
	// FilterNone keeps every profile.
	FilterNone FilterMode = iota
	// FilterExact requires string equality with the profile value.
	FilterExact
	// FilterRegex requires a pattern match anywhere in the profile value.
	FilterRegex
)

// Filter restricts a scan to records of matching profiles.
type Filter struct {
	mode  FilterMode
	value string
	re    *regexp.Regexp
}

// NoFilter keeps everything.
func NoFilter() Filter {
	return Filter{mode: FilterNone}
}

// ExactProfile keeps only records whose profile equals name.
func ExactProfile(name string) Filter {
	return Filter{mode: FilterExact, value: name}
}

// ProfilePattern keeps records whose profile contains a match of pattern.
func ProfilePattern(pattern string) (Filter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Filter{}, fmt.Errorf("invalid profile pattern: %w", err)
	}
	return Filter{mode: FilterRegex, value: pattern, re: re}, nil
}

// Active reports whether the filter excludes anything at all.
func (f Filter) Active() bool {
	return f.mode != FilterNone
}

func (f Filter) matches(profile string) bool {
	switch f.mode {
	case FilterExact:
		return profile == f.value
	case FilterRegex:
		return f.re.MatchString(profile)
	default:
		return true
	}
}
