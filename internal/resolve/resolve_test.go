// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"strings"
	"testing"

	"github.com/pdiddy/flora-engine/internal/catalog"
	"github.com/pdiddy/flora-engine/pkg/types"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"protea", "protea", 1.0},
		{"", "protea", 0.0},
		{"protea", "", 0.0},
		{"abc", "xyz", 0.0},
		// LCS("kat","cat") = "at" (2): 2*2/6.
		{"kat", "cat", 2.0 / 3.0},
	}
	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Similarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	if Similarity("king protea", "protea") != Similarity("protea", "king protea") {
		t.Error("similarity is not symmetric")
	}
}

func TestResolveExactAlias(t *testing.T) {
	candidates := Resolve("king protea", catalog.Default(), types.ResolveConfig{})
	if len(candidates) == 0 {
		t.Fatal("no candidates")
	}
	best := candidates[0]
	if best.Similarity != 1.0 {
		t.Errorf("similarity = %f, want 1.0", best.Similarity)
	}
	if best.ScientificName != "Protea cynaroides" {
		t.Errorf("scientific name = %q", best.ScientificName)
	}
	if best.MatchedAlias != "king protea" {
		t.Errorf("matched alias = %q", best.MatchedAlias)
	}
}

func TestResolveCaseAndWhitespaceInsensitive(t *testing.T) {
	candidates := Resolve("  KING Protea ", catalog.Default(), types.ResolveConfig{})
	if len(candidates) == 0 || candidates[0].Similarity != 1.0 {
		t.Fatal("normalized input should match exactly")
	}
}

func TestResolveContainmentQualifies(t *testing.T) {
	// "rooibos tea plant" contains the alias "rooibos"; the LCS score
	// alone would not clear the default threshold.
	candidates := Resolve("rooibos tea plant", catalog.Default(), types.ResolveConfig{})
	found := false
	for _, c := range candidates {
		if c.ScientificName == "Aspalathus linearis" {
			found = true
		}
	}
	if !found {
		t.Error("containment match missing for rooibos")
	}
}

func TestResolveUnmatched(t *testing.T) {
	if got := Resolve("qwertyuiop", catalog.Default(), types.ResolveConfig{}); len(got) != 0 {
		t.Errorf("candidates = %v, want none", got)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	if got := Resolve("   ", catalog.Default(), types.ResolveConfig{}); got != nil {
		t.Errorf("candidates = %v, want nil", got)
	}
}

func TestResolveSortedDescending(t *testing.T) {
	candidates := Resolve("protea", catalog.Default(), types.ResolveConfig{MatchThreshold: 0.3})
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Similarity > candidates[i-1].Similarity {
			t.Fatalf("candidates not sorted: %f after %f",
				candidates[i].Similarity, candidates[i-1].Similarity)
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		score float64
		want  types.Confidence
	}{
		{1.0, types.ConfidenceHigh},
		{0.8, types.ConfidenceHigh},
		{0.79, types.ConfidenceMedium},
		{0.6, types.ConfidenceMedium},
		{0.59, types.ConfidenceLow},
		{0.0, types.ConfidenceLow},
	}
	for _, tt := range tests {
		if got := ConfidenceFor(tt.score); got != tt.want {
			t.Errorf("ConfidenceFor(%f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestPrimaryQuery(t *testing.T) {
	high := []types.CandidateIdentity{{MatchedAlias: "king protea", ScientificName: "Protea cynaroides", Similarity: 0.9}}
	medium := []types.CandidateIdentity{{MatchedAlias: "sugar bush", ScientificName: "Protea cynaroides", Similarity: 0.7}}
	low := []types.CandidateIdentity{
		{MatchedAlias: "a", ScientificName: "A a", Similarity: 0.4},
		{MatchedAlias: "b", ScientificName: "B b", Similarity: 0.35},
		{MatchedAlias: "c", ScientificName: "C c", Similarity: 0.33},
		{MatchedAlias: "d", ScientificName: "D d", Similarity: 0.31},
	}

	tests := []struct {
		name       string
		candidates []types.CandidateIdentity
		confirmed  string
		wantTerm   string
		wantAlts   int
	}{
		{"high uses scientific name", high, "", "Protea cynaroides", 0},
		{"high ignores confirmed title", high, "Confirmed", "Protea cynaroides", 0},
		{"medium uses matched alias", medium, "", "sugar bush", 0},
		{"low prefers confirmed title", low, "Confirmed", "Confirmed", 0},
		{"low without confirmation uses alias with alternatives", low, "", "a", 2},
		{"no candidates uses confirmed title", nil, "Confirmed", "Confirmed", 0},
		{"no candidates falls back to raw name", nil, "", "raw input", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, alts := PrimaryQuery(tt.candidates, "raw input", tt.confirmed)
			if term != tt.wantTerm {
				t.Errorf("term = %q, want %q", term, tt.wantTerm)
			}
			if len(alts) != tt.wantAlts {
				t.Errorf("alternatives = %d, want %d", len(alts), tt.wantAlts)
			}
		})
	}
}

func TestQueryVariants(t *testing.T) {
	variants := QueryVariants("king protea", catalog.Default(), types.ResolveConfig{})

	if len(variants) == 0 || variants[0] != "king protea" {
		t.Fatalf("variants = %v, want raw name first", variants)
	}
	if len(variants) > DefaultMaxVariants {
		t.Errorf("variants = %d, want at most %d", len(variants), DefaultMaxVariants)
	}

	found := false
	for _, v := range variants {
		if v == "Protea cynaroides" {
			found = true
		}
	}
	if !found {
		t.Error("scientific name missing from variants")
	}

	// Case-insensitive dedup: "king protea" appears once even though it is
	// both the raw name and a common name.
	seen := make(map[string]int)
	for _, v := range variants {
		seen[strings.ToLower(v)]++
	}
	for v, n := range seen {
		if n > 1 {
			t.Errorf("variant %q appears %d times", v, n)
		}
	}
}

func TestQueryVariantsUnmatchedName(t *testing.T) {
	variants := QueryVariants("xxxx", catalog.Default(), types.ResolveConfig{})
	if len(variants) != 1 || variants[0] != "xxxx" {
		t.Errorf("variants = %v, want just the raw name", variants)
	}
}

func TestVariantsFromCap(t *testing.T) {
	candidates := Resolve("protea", catalog.Default(), types.ResolveConfig{MatchThreshold: 0.3})
	variants := VariantsFrom(candidates, "protea", 3)
	if len(variants) != 3 {
		t.Errorf("variants = %d, want cap of 3", len(variants))
	}
}

func TestResolveLooseAdmitsWeakMatches(t *testing.T) {
	// "qwertyuiop" shares just enough letters with some aliases to clear
	// the loose threshold while failing the strict one.
	strict := Resolve("qwertyuiop", catalog.Default(), types.ResolveConfig{})
	if len(strict) != 0 {
		t.Fatalf("strict resolve = %d candidates, want none", len(strict))
	}
	loose := ResolveLoose("qwertyuiop", catalog.Default(), types.ResolveConfig{})
	if len(loose) == 0 {
		t.Fatal("loose resolve admitted nothing")
	}
	for _, c := range loose {
		if c.Similarity >= DefaultMatchThreshold {
			t.Errorf("loose candidate %q at %.2f should have passed strict resolve", c.MatchedAlias, c.Similarity)
		}
	}
}

func TestPromotePrimary(t *testing.T) {
	tests := []struct {
		name     string
		variants []string
		term     string
		max      int
		want     []string
	}{
		{
			name:     "prepends new term",
			variants: []string{"raw name", "alias"},
			term:     "Scientific name",
			max:      5,
			want:     []string{"Scientific name", "raw name", "alias"},
		},
		{
			name:     "moves existing term to front",
			variants: []string{"raw name", "scientific name", "alias"},
			term:     "Scientific Name",
			max:      5,
			want:     []string{"Scientific Name", "raw name", "alias"},
		},
		{
			name:     "keeps the cap",
			variants: []string{"a", "b", "c"},
			term:     "term",
			max:      3,
			want:     []string{"term", "a", "b"},
		},
		{
			name:     "empty term is a no-op",
			variants: []string{"raw name"},
			term:     "  ",
			max:      5,
			want:     []string{"raw name"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PromotePrimary(tt.variants, tt.term, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("variants = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("variants[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
