// Package fuzzy scores near-miss organization names with normalized
// Levenshtein similarity.
package fuzzy

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the minimum similarity accepted as a match.
const DefaultThreshold = 0.85

// SuggestionFloor is the minimum similarity for a name to be offered as a
// suggestion on a miss.
const SuggestionFloor = 0.5

// Candidate is a scored registry name.
type Candidate struct {
	Name  string
	Score float64
}

// Similarity returns 1 - distance/max(len) over the runes of a and b.
// Two empty strings are identical.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Matcher picks the closest name from a candidate list.
type Matcher struct {
	threshold float64
}

// NewMatcher returns a matcher gated at threshold. Values outside [0,1]
// fall back to DefaultThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold < 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the configured gate.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Best returns the highest scoring name at or above the threshold. names
// must be sorted; on equal scores the earlier name wins.
func (m *Matcher) Best(name string, names []string) (Candidate, bool) {
	if name == "" {
		return Candidate{}, false
	}
	best := Candidate{Score: -1}
	for _, candidate := range names {
		score := Similarity(name, candidate)
		if score > best.Score {
			best = Candidate{Name: candidate, Score: score}
			if score == 1 {
				break
			}
		}
	}
	if best.Score < m.threshold {
		return Candidate{}, false
	}
	return best, true
}

// Rank scores every name, keeps those at or above floor and returns them
// ordered by score descending then name ascending.
func Rank(name string, names []string, floor float64) []Candidate {
	if name == "" {
		return nil
	}
	var out []Candidate
	for _, candidate := range names {
		score := Similarity(name, candidate)
		if score >= floor {
			out = append(out, Candidate{Name: candidate, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}
