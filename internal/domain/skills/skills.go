// Package skills normalizes skill tokens and measures how well a candidate's
// skills cover a project's requirements.
package skills

import (
	"sort"
	"strings"
)

// Normalize lower-cases and trims a skill token. The empty string is a valid
// token that matches nothing.
func Normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// Set is a deduplicated collection of normalized skills.
type Set map[string]struct{}

// NewSet normalizes tokens into a Set.
func NewSet(tokens ...string) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[Normalize(t)] = struct{}{}
	}
	return s
}

// Has reports whether the set contains the normalized form of token.
func (s Set) Has(token string) bool {
	_, ok := s[Normalize(token)]
	return ok
}

// Len returns the number of distinct skills.
func (s Set) Len() int { return len(s) }

// Intersect returns the skills present in both sets. The blank token never
// matches.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for k := range small {
		if k == "" {
			continue
		}
		if large.Has(k) {
			out[k] = struct{}{}
		}
	}
	return out
}

// Sorted returns the skills in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MatchRatio returns the fraction of required skills present in candidate,
// in [0,1]. The denominator is the required set, so the ratio is not
// symmetric. Either side being empty yields 0.
func MatchRatio(required, candidate []string) float64 {
	if len(required) == 0 || len(candidate) == 0 {
		return 0
	}
	req := NewSet(required...)
	have := NewSet(candidate...)
	return float64(req.Intersect(have).Len()) / float64(req.Len())
}

// Matched returns the required skills the candidate covers, sorted.
func Matched(required, candidate []string) []string {
	return NewSet(required...).Intersect(NewSet(candidate...)).Sorted()
}
