// Package pathmatch resolves a free-form query against a list of vault paths.
//
// Matching runs in three tiers, tried in order:
//
//  1. exact: the raw query equals a raw path byte for byte
//  2. contains: the normalized path contains the normalized query
//  3. fuzzy: Levenshtein similarity of the normalized strings is at least
//     FuzzyThreshold (opt-in through Options.Fuzzy)
//
// An exact hit short-circuits everything else. Contains results keep the
// caller's candidate order; fuzzy results are stably sorted by descending score.
//
// The fuzzy tier first narrows the candidates with the contains test. When that
// already yields ContainsShortcut or more paths they are returned as contains
// matches and no edit distance is computed at all. This trades a little
// precision (a closer fuzzy path outside the contains set is never considered)
// for skipping the O(n·m) distance over thousands of paths.
//
// The package is stateless: every call works on the slice it is handed and
// never retains or mutates it, so it is safe for concurrent use.
package pathmatch
