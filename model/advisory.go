// SPDX-License-Identifier: MIT

package model

// Advisory is a normalized vulnerability record, shared by both the
// forge-native and public vulnerability-database providers.
type Advisory struct {
	ID            string   `json:"id"`
	Aliases       []string `json:"aliases,omitempty"`
	Summary       string   `json:"summary"`
	Severity      string   `json:"severity"`
	URL           string   `json:"url"`
	AffectedRange string   `json:"affected_range,omitempty"`
	Source        string   `json:"source"`
}

// DeduplicateAdvisories applies the normative dedup algorithm (spec
// §4.5.4): iterate in order, drop any advisory whose id or any alias
// has already been seen, otherwise keep it and record its id and
// aliases as seen. First occurrence wins, so the result is stable
// under the declared provider fan-out order.
func DeduplicateAdvisories(advisories []Advisory) []Advisory {
	seen := make(map[string]struct{}, len(advisories))
	kept := make([]Advisory, 0, len(advisories))

	for _, adv := range advisories {
		if _, dup := seen[adv.ID]; dup {
			continue
		}
		duplicate := false
		for _, alias := range adv.Aliases {
			if _, ok := seen[alias]; ok {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen[adv.ID] = struct{}{}
		for _, alias := range adv.Aliases {
			seen[alias] = struct{}{}
		}
		kept = append(kept, adv)
	}

	return kept
}

// DependencyReport pairs a resolved npm dependency with the advisories
// found for it. Emitted only when the advisory list is non-empty.
type DependencyReport struct {
	Package    string     `json:"package"`
	Version    string     `json:"version"`
	Ecosystem  Ecosystem  `json:"ecosystem"`
	Advisories []Advisory `json:"advisories"`
}
