package pathmatch

import (
	"sort"
	"strings"
)

// ContainsMatch returns every candidate whose normalized form contains the
// normalized query, in candidate order, scored 1.0.
func ContainsMatch(query string, candidates []string) []Match {
	return asMatches(containsSubset(Normalize(query), candidates), MatchContains)
}

// FuzzyMatch scores candidates by edit distance against query and keeps those
// at or above FuzzyThreshold, best first.
//
// When ContainsShortcut or more candidates already contain the query they are
// returned as contains matches without any distance computation. Otherwise the
// distance runs over the contains subset, or over every candidate when that
// subset is empty.
func FuzzyMatch(query string, candidates []string) []Match {
	nq := Normalize(query)

	subset := containsSubset(nq, candidates)
	if len(subset) >= ContainsShortcut {
		return asMatches(subset, MatchContains)
	}
	if len(subset) == 0 {
		subset = candidates
	}

	var matches []Match
	for _, path := range subset {
		score := similarity(nq, Normalize(path))
		if score < FuzzyThreshold {
			continue
		}
		matches = append(matches, Match{Path: path, Score: score, Type: MatchFuzzy})
	}

	sortByScore(matches)
	return matches
}

func containsSubset(normalizedQuery string, candidates []string) []string {
	var subset []string
	for _, c := range candidates {
		if strings.Contains(Normalize(c), normalizedQuery) {
			subset = append(subset, c)
		}
	}
	return subset
}

func asMatches(paths []string, typ MatchType) []Match {
	if len(paths) == 0 {
		return nil
	}
	matches := make([]Match, len(paths))
	for i, p := range paths {
		matches[i] = Match{Path: p, Score: 1.0, Type: typ}
	}
	return matches
}

// sortByScore orders matches by descending score; equal scores keep their
// relative order.
func sortByScore(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}
