// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectSpec filters workflow roots by 1-indexed position before the
// walk begins. An empty spec or the literal "all" selects everything.
type SelectSpec struct {
	all    bool
	ranges [][2]int // inclusive, 1-indexed
}

// SelectAll is the spec that admits every root.
var SelectAll = SelectSpec{all: true}

// ParseSelectSpec parses the --select grammar: "all", or a comma
// separated list of items each "N" or "N-M" with 1 <= N <= M. Zero or
// inverted ranges are errors. An empty string is equivalent to "all".
func ParseSelectSpec(s string) (SelectSpec, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, "all") {
		return SelectAll, nil
	}

	var spec SelectSpec
	for _, item := range strings.Split(trimmed, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			return SelectSpec{}, fmt.Errorf("invalid select spec %q: empty item", s)
		}

		var lo, hi int
		if before, after, found := strings.Cut(item, "-"); found {
			var err error
			lo, err = strconv.Atoi(strings.TrimSpace(before))
			if err != nil {
				return SelectSpec{}, fmt.Errorf("invalid select spec %q: %w", s, err)
			}
			hi, err = strconv.Atoi(strings.TrimSpace(after))
			if err != nil {
				return SelectSpec{}, fmt.Errorf("invalid select spec %q: %w", s, err)
			}
		} else {
			n, err := strconv.Atoi(item)
			if err != nil {
				return SelectSpec{}, fmt.Errorf("invalid select spec %q: %w", s, err)
			}
			lo, hi = n, n
		}

		if lo < 1 || hi < lo {
			return SelectSpec{}, fmt.Errorf(
				"invalid select spec %q: range must satisfy 1 <= N <= M",
				s,
			)
		}
		spec.ranges = append(spec.ranges, [2]int{lo, hi})
	}

	return spec, nil
}

// Admits reports whether the 1-indexed position pos is included.
func (s SelectSpec) Admits(pos int) bool {
	if s.all {
		return true
	}
	for _, r := range s.ranges {
		if pos >= r[0] && pos <= r[1] {
			return true
		}
	}
	return false
}
