package pathmatch

// Search resolves opts.Query against candidates.
//
//   - Any exact hit is returned alone; the other tiers are not consulted.
//   - Without Fuzzy, contains hits are returned in candidate order.
//   - With Fuzzy, contains hits and FuzzyMatch hits are concatenated without
//     deduplication (a path can appear once per tier) and stably sorted by
//     score.
//
// The result never holds more than opts.MaxResults entries. No match is an
// empty result, never an error.
func Search(opts Options, candidates []string) []Match {
	limit := opts.limit()

	var exact []Match
	for _, c := range candidates {
		if c == opts.Query {
			exact = append(exact, Match{Path: c, Score: 1.0, Type: MatchExact})
		}
	}
	if len(exact) > 0 {
		return truncate(exact, limit)
	}

	contains := ContainsMatch(opts.Query, candidates)
	if !opts.Fuzzy {
		return truncate(contains, limit)
	}

	fuzzy := FuzzyMatch(opts.Query, candidates)
	merged := make([]Match, 0, len(contains)+len(fuzzy))
	merged = append(merged, contains...)
	merged = append(merged, fuzzy...)
	sortByScore(merged)

	return truncate(merged, limit)
}

func truncate(matches []Match, limit int) []Match {
	if matches == nil {
		return []Match{}
	}
	if len(matches) > limit {
		return matches[:limit]
	}
	return matches
}
