// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve fuzzy-matches free-text species names against the catalog
// and derives the query variants used by the source adapters.
// Implements: prd001-resolution (R1-R4);
//
//	docs/ARCHITECTURE § Name Resolution.
package resolve

import (
	"sort"
	"strings"

	"github.com/pdiddy/flora-engine/internal/catalog"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// Default thresholds. MatchThreshold gates candidate qualification;
// VariantThreshold is looser so near-misses still contribute query terms.
const (
	DefaultMatchThreshold   = 0.6
	DefaultVariantThreshold = 0.3
	DefaultMaxVariants      = 5
)

// Confidence tier boundaries (R3.1-R3.3).
const (
	highConfidence   = 0.8
	mediumConfidence = 0.6
)

// Resolve scores rawName against every catalog entry and returns candidates
// sorted by non-increasing similarity; ties keep catalog order. Each entry
// contributes at most one candidate, built from its best-scoring alias.
// Substring containment in either direction qualifies an entry regardless
// of score. Unmatched input yields zero candidates, which is a valid,
// non-error result: callers fall back to rawName as the sole query (R1.5).
func Resolve(rawName string, cat *catalog.Catalog, cfg types.ResolveConfig) []types.CandidateIdentity {
	threshold := cfg.MatchThreshold
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return resolveAt(rawName, cat, threshold)
}

// ResolveLoose scores rawName at the variant threshold, admitting weak
// matches the strict resolver rejects. The aggregator uses it when strict
// resolution comes up empty, so a marginal catalog match can still steer
// research-term selection through the low-confidence policy (R3.3).
func ResolveLoose(rawName string, cat *catalog.Catalog, cfg types.ResolveConfig) []types.CandidateIdentity {
	threshold := cfg.VariantThreshold
	if threshold <= 0 {
		threshold = DefaultVariantThreshold
	}
	return resolveAt(rawName, cat, threshold)
}

func resolveAt(rawName string, cat *catalog.Catalog, threshold float64) []types.CandidateIdentity {
	input := strings.ToLower(strings.TrimSpace(rawName))
	if input == "" {
		return nil
	}

	var candidates []types.CandidateIdentity
	for _, sp := range cat.Entries() {
		bestAlias := ""
		bestScore := -1.0
		contained := false

		for _, alias := range sp.Aliases {
			a := strings.ToLower(alias)
			score := Similarity(input, a)
			if score > bestScore {
				bestScore = score
				bestAlias = alias
			}
			if strings.Contains(a, input) || strings.Contains(input, a) {
				contained = true
			}
		}

		if bestScore >= threshold || contained {
			candidates = append(candidates, types.CandidateIdentity{
				MatchedAlias:   bestAlias,
				ScientificName: sp.ScientificName,
				Family:         sp.Family,
				CommonNames:    sp.CommonNames,
				Similarity:     bestScore,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	return candidates
}

// Similarity returns the normalized longest-common-subsequence ratio
// between two strings: 2*LCS(a,b) / (len(a)+len(b)), in [0,1]. Equal
// strings score 1.0 (R1.3).
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}
	lcs := lcsLength(ra, rb)
	return 2.0 * float64(lcs) / float64(len(ra)+len(rb))
}

// lcsLength computes the longest-common-subsequence length with a
// two-row dynamic program.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// ConfidenceFor classifies a similarity score into its tier (R3.1-R3.3).
func ConfidenceFor(score float64) types.Confidence {
	switch {
	case score >= highConfidence:
		return types.ConfidenceHigh
	case score >= mediumConfidence:
		return types.ConfidenceMedium
	default:
		return types.ConfidenceLow
	}
}

// PrimaryQuery picks the research term for the top candidate per the
// confidence policy: high confidence uses the scientific name, medium the
// matched alias, low prefers the encyclopedia-confirmed title when one
// exists. For low-confidence matches the next two candidates are returned
// as alternatives for observability (R3.4). With no candidates at all the
// confirmed title wins, else rawName.
func PrimaryQuery(candidates []types.CandidateIdentity, rawName, confirmedTitle string) (string, []types.CandidateIdentity) {
	if len(candidates) == 0 {
		if confirmedTitle != "" {
			return confirmedTitle, nil
		}
		return rawName, nil
	}

	best := candidates[0]
	switch ConfidenceFor(best.Similarity) {
	case types.ConfidenceHigh:
		return best.ScientificName, nil
	case types.ConfidenceMedium:
		return best.MatchedAlias, nil
	default:
		if confirmedTitle != "" {
			return confirmedTitle, nil
		}
		alts := candidates[1:]
		if len(alts) > 2 {
			alts = alts[:2]
		}
		return best.MatchedAlias, alts
	}
}

// QueryVariants resolves rawName at the variant threshold and derives the
// ordered query variants for the adapters (R4.1-R4.4).
func QueryVariants(rawName string, cat *catalog.Catalog, cfg types.ResolveConfig) []string {
	threshold := cfg.VariantThreshold
	if threshold <= 0 {
		threshold = DefaultVariantThreshold
	}
	max := cfg.MaxVariants
	if max <= 0 {
		max = DefaultMaxVariants
	}
	return VariantsFrom(resolveAt(rawName, cat, threshold), rawName, max)
}

// PromotePrimary moves term to the front of variants so the research term
// the confidence policy selected drives every source query. The term is
// deduplicated case-insensitively against the existing variants and the
// result keeps the cap (R4.4); max <= 0 applies the default.
func PromotePrimary(variants []string, term string, max int) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return variants
	}
	if max <= 0 {
		max = DefaultMaxVariants
	}

	out := []string{term}
	key := strings.ToLower(term)
	for _, v := range variants {
		if strings.ToLower(v) == key {
			continue
		}
		out = append(out, v)
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// VariantsFrom derives query variants from ranked candidates: rawName
// always comes first, then for up to the top 3 candidates the scientific
// name, up to 2 common names, and the matched alias. Variants are
// deduplicated case-insensitively and capped at max.
func VariantsFrom(candidates []types.CandidateIdentity, rawName string, max int) []string {
	var variants []string
	seen := make(map[string]bool)

	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || len(variants) >= max {
			return
		}
		key := strings.ToLower(v)
		if seen[key] {
			return
		}
		seen[key] = true
		variants = append(variants, v)
	}

	add(rawName)
	top := candidates
	if len(top) > 3 {
		top = top[:3]
	}
	for _, c := range top {
		add(c.ScientificName)
		for i, cn := range c.CommonNames {
			if i >= 2 {
				break
			}
			add(cn)
		}
		add(c.MatchedAlias)
	}
	return variants
}
