// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research orchestrates name resolution, source collection, and the
// synthetic fallback into one aggregated record set.
// Implements: prd002-collection (R3);
//
//	docs/ARCHITECTURE § Research Aggregation.
package research

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/flora-engine/internal/catalog"
	"github.com/pdiddy/flora-engine/internal/collect"
	"github.com/pdiddy/flora-engine/internal/resolve"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// adapterPriority fixes the merge order of adapter output (R3.2).
var adapterPriority = []string{"encyclopedia", "pubmed", "academic", "site"}

// TitleConfirmer reports the canonical encyclopedia title for a name, or ""
// when none exists. The encyclopedia adapter implements it; the aggregator
// consults it only for low-confidence resolutions (R3.3).
type TitleConfirmer interface {
	ConfirmTitle(ctx context.Context, name string, cfg types.CollectConfig) string
}

// Deps holds the aggregator's collaborators. Adapters run concurrently and
// merge in adapterPriority order regardless of slice order.
type Deps struct {
	Catalog   *catalog.Catalog
	Adapters  []collect.Adapter
	Confirmer TitleConfirmer
}

// Info carries observability data about one aggregation: how the name
// resolved, which term drove the research, and where records came from.
type Info struct {
	Subject      string                    `json:"subject" yaml:"subject"`
	ResearchTerm string                    `json:"research_term" yaml:"research_term"`
	Confidence   types.Confidence          `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Candidates   []types.CandidateIdentity `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Alternatives []types.CandidateIdentity `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Variants     []string                  `json:"variants" yaml:"variants"`
	SourceCounts map[string]int            `json:"source_counts,omitempty" yaml:"source_counts,omitempty"`
	Synthetic    bool                      `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
	Warnings     []string                  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Aggregate resolves rawName, fans the derived query variants out to the
// source adapters with the confidence-policy research term first, and
// merges their records in priority order. When every
// adapter comes back empty it synthesizes exactly one generic record, so
// the returned slice is never empty (R3.4). Aggregation never fails for
// ordinary input: adapter trouble surfaces as warnings on w and in Info.
func Aggregate(ctx context.Context, rawName string, deps Deps, cfg types.PipelineConfig, w io.Writer) ([]types.ContentRecord, Info) {
	candidates := resolve.Resolve(rawName, deps.Catalog, cfg.Resolve)
	if len(candidates) == 0 {
		// A marginal match below the strict threshold still beats no
		// match at all for picking the research term (R3.3).
		candidates = resolve.ResolveLoose(rawName, deps.Catalog, cfg.Resolve)
	}

	// The encyclopedia-confirmed title is only worth a lookup when the
	// resolver has nothing better than a low-confidence match.
	confirmed := ""
	if deps.Confirmer != nil && lowConfidence(candidates) {
		confirmed = deps.Confirmer.ConfirmTitle(ctx, rawName, cfg.Collect)
	}

	term, alts := resolve.PrimaryQuery(candidates, rawName, confirmed)
	variants := resolve.PromotePrimary(
		resolve.QueryVariants(rawName, deps.Catalog, cfg.Resolve), term, cfg.Resolve.MaxVariants)

	info := Info{
		Subject:      rawName,
		ResearchTerm: term,
		Candidates:   candidates,
		Alternatives: alts,
		Variants:     variants,
	}
	if len(candidates) > 0 {
		info.Confidence = resolve.ConfidenceFor(candidates[0].Similarity)
		best := candidates[0]
		fmt.Fprintf(w, "resolved %q: %s (%s), similarity %.2f, confidence %s\n",
			rawName, best.MatchedAlias, best.ScientificName, best.Similarity, info.Confidence)
	} else {
		fmt.Fprintf(w, "no catalog match for %q, researching as-is\n", rawName)
	}

	out := collect.Collect(ctx, deps.Adapters, variants, cfg.Collect, w)
	info.Warnings = out.Warnings
	info.SourceCounts = make(map[string]int, len(out.ByAdapter))

	var records []types.ContentRecord
	for _, name := range mergeOrder(out) {
		rs := out.ByAdapter[name]
		info.SourceCounts[name] = len(rs)
		records = append(records, rs...)
		fmt.Fprintf(w, "source %s: %d record(s)\n", name, len(rs))
	}

	if len(records) == 0 {
		records = append(records, syntheticRecord(rawName, deps.Catalog, cfg.Resolve))
		info.Synthetic = true
		fmt.Fprintln(w, "no external sources found, using synthetic profile")
	}
	return records, info
}

// mergeOrder returns adapter names in priority order, with any adapters
// outside the fixed list appended in name order so the merge stays
// deterministic.
func mergeOrder(out collect.Output) []string {
	var order []string
	seen := make(map[string]bool)
	for _, name := range adapterPriority {
		if _, ok := out.ByAdapter[name]; ok {
			order = append(order, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range out.ByAdapter {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// lowConfidence reports whether the resolution leaves the aggregator
// without a medium-or-better candidate.
func lowConfidence(candidates []types.CandidateIdentity) bool {
	if len(candidates) == 0 {
		return true
	}
	return resolve.ConfidenceFor(candidates[0].Similarity) == types.ConfidenceLow
}
