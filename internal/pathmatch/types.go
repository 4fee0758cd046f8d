package pathmatch

const (
	// DefaultMaxResults caps a search when Options.MaxResults is not positive.
	DefaultMaxResults = 10

	// FuzzyThreshold is the minimum similarity a fuzzy match must reach.
	// 0.8 tolerates roughly one edit per five characters.
	FuzzyThreshold = 0.8

	// ContainsShortcut is the contains-tier size at which fuzzy search stops
	// and returns the contains matches unchanged.
	ContainsShortcut = 5
)

// MatchType names the tier that produced a match.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchContains MatchType = "contains"
	MatchFuzzy    MatchType = "fuzzy"
)

// Match is a single resolved path.
type Match struct {
	Path  string    `json:"path"`
	Score float64   `json:"score"` // 1.0 for exact and contains, similarity for fuzzy
	Type  MatchType `json:"matchType"`
}

// Options controls a Search call.
type Options struct {
	Query      string
	MaxResults int  // <= 0 means DefaultMaxResults
	Fuzzy      bool // enables the fuzzy tier
}

func (o Options) limit() int {
	if o.MaxResults <= 0 {
		return DefaultMaxResults
	}
	return o.MaxResults
}
