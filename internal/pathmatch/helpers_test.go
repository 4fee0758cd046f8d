package pathmatch

import (
	"math/rand/v2"
	"strings"
)

var pathWords = []string{
	"Notes", "Daily", "todo", "Plan", "Projects", "recipe", "Meeting",
	"archive", "🧪 lab", "inbox", "2024-01-01", "draft_v2", "Ideas!", "Journal",
}

// randomPaths builds a deterministic set of vault-like paths.
func randomPaths(n int, seed uint64) []string {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	paths := make([]string, n)
	for i := range paths {
		depth := 1 + r.IntN(3)
		parts := make([]string, depth)
		for d := range parts {
			parts[d] = pathWords[r.IntN(len(pathWords))]
		}
		paths[i] = strings.Join(parts, "/") + ".md"
	}
	return paths
}

func matchPaths(matches []Match) []string {
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.Path
	}
	return paths
}
