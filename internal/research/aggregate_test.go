// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/flora-engine/internal/catalog"
	"github.com/pdiddy/flora-engine/internal/collect"
	"github.com/pdiddy/flora-engine/internal/resolve"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// stubAdapter is a canned-response collect.Adapter for aggregation tests.
type stubAdapter struct {
	name    string
	records []types.ContentRecord
	err     error

	gotVariants []string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Collect(_ context.Context, variants []string, _ types.CollectConfig) ([]types.ContentRecord, error) {
	s.gotVariants = variants
	return s.records, s.err
}

// stubConfirmer records whether the title confirmation was consulted.
type stubConfirmer struct {
	title  string
	called bool
}

func (s *stubConfirmer) ConfirmTitle(context.Context, string, types.CollectConfig) string {
	s.called = true
	return s.title
}

func record(source, title string) types.ContentRecord {
	return types.ContentRecord{
		Source:  source,
		Title:   title,
		Body:    strings.Repeat(title+" body text. ", 5),
		Section: types.SectionGeneral,
	}
}

func TestAggregateMergesInPriorityOrder(t *testing.T) {
	deps := Deps{
		Catalog: catalog.Default(),
		Adapters: []collect.Adapter{
			&stubAdapter{name: "site", records: []types.ContentRecord{record("pza.sanbi.org", "site A")}},
			&stubAdapter{name: "academic", records: []types.ContentRecord{record("OpenAlex", "paper A")}},
			&stubAdapter{name: "encyclopedia", records: []types.ContentRecord{record("Wikipedia", "wiki A")}},
		},
	}

	records, info := Aggregate(context.Background(), "protea", deps, types.PipelineConfig{}, io.Discard)

	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	wantOrder := []string{"wiki A", "paper A", "site A"}
	for i, title := range wantOrder {
		if records[i].Title != title {
			t.Errorf("record[%d] = %q, want %q", i, records[i].Title, title)
		}
	}
	if info.Synthetic {
		t.Error("synthetic flag set despite real records")
	}
	if info.SourceCounts["encyclopedia"] != 1 {
		t.Errorf("source counts = %v", info.SourceCounts)
	}
}

func TestAggregateKnownSpeciesResolvesHigh(t *testing.T) {
	deps := Deps{Catalog: catalog.Default()}

	_, info := Aggregate(context.Background(), "king protea", deps, types.PipelineConfig{}, io.Discard)

	if info.Confidence != types.ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", info.Confidence)
	}
	if info.ResearchTerm != "Protea cynaroides" {
		t.Errorf("research term = %q, want the scientific name", info.ResearchTerm)
	}
	if len(info.Variants) == 0 || info.Variants[0] != "Protea cynaroides" {
		t.Errorf("variants = %v, want the research term first", info.Variants)
	}
	if !containsFold(info.Variants, "king protea") {
		t.Errorf("variants = %v, raw name dropped", info.Variants)
	}
}

func containsFold(variants []string, want string) bool {
	for _, v := range variants {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func TestAggregateResearchTermDrivesCollection(t *testing.T) {
	capturing := &stubAdapter{name: "encyclopedia"}
	confirmer := &stubConfirmer{title: "Canonical Encyclopedia Title"}
	deps := Deps{
		Catalog:   catalog.Default(),
		Adapters:  []collect.Adapter{capturing},
		Confirmer: confirmer,
	}

	_, info := Aggregate(context.Background(), "xxxx", deps, types.PipelineConfig{}, io.Discard)

	if info.ResearchTerm != "Canonical Encyclopedia Title" {
		t.Fatalf("research term = %q, want the confirmed title", info.ResearchTerm)
	}
	if len(capturing.gotVariants) == 0 || capturing.gotVariants[0] != "Canonical Encyclopedia Title" {
		t.Errorf("adapter queried with %v, want the research term first", capturing.gotVariants)
	}
	if !containsFold(capturing.gotVariants, "xxxx") {
		t.Errorf("adapter queried with %v, raw name dropped", capturing.gotVariants)
	}
	if len(capturing.gotVariants) > resolve.DefaultMaxVariants {
		t.Errorf("variants = %d, cap is %d", len(capturing.gotVariants), resolve.DefaultMaxVariants)
	}
}

// twoSpeciesCatalog scores "buchoo leaf" at 0.50 against buchu and 0.38
// against cape holly: both below the strict threshold, both above the
// loose one.
func twoSpeciesCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(`species:
  - key: buchu
    aliases: [buchu]
    scientific_name: Agathosma betulina
    family: Rutaceae
    common_names: [round leaf buchu]
  - key: cape_holly
    aliases: [cape holly]
    scientific_name: Ilex mitis
    family: Aquifoliaceae
    common_names: [water tree]
`))
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestAggregateWeakMatchSteersResearchTerm(t *testing.T) {
	deps := Deps{Catalog: twoSpeciesCatalog(t)}

	_, info := Aggregate(context.Background(), "buchoo leaf", deps, types.PipelineConfig{}, io.Discard)

	if info.Confidence != types.ConfidenceLow {
		t.Fatalf("confidence = %s, want low", info.Confidence)
	}
	if info.ResearchTerm != "buchu" {
		t.Errorf("research term = %q, want the best weak alias", info.ResearchTerm)
	}
	if len(info.Alternatives) != 1 || info.Alternatives[0].MatchedAlias != "cape holly" {
		t.Errorf("alternatives = %+v, want the runner-up surfaced", info.Alternatives)
	}
	if len(info.Variants) == 0 || info.Variants[0] != "buchu" {
		t.Errorf("variants = %v, want the research term first", info.Variants)
	}
}

func TestAggregateUnknownNameYieldsSyntheticRecord(t *testing.T) {
	failing := &stubAdapter{name: "encyclopedia", err: errors.New("boom")}
	deps := Deps{
		Catalog:  catalog.Default(),
		Adapters: []collect.Adapter{failing},
	}

	var w strings.Builder
	records, info := Aggregate(context.Background(), "Unknown Plant Xyz", deps, types.PipelineConfig{}, &w)

	if len(records) != 1 {
		t.Fatalf("records = %d, want exactly one synthetic record", len(records))
	}
	if records[0].Source != syntheticSource {
		t.Errorf("source = %q, want %q", records[0].Source, syntheticSource)
	}
	if !strings.Contains(records[0].Body, "Unknown Plant Xyz") {
		t.Error("synthetic body does not name the subject")
	}
	if !info.Synthetic {
		t.Error("synthetic flag not set")
	}
	if len(info.Warnings) == 0 {
		t.Error("adapter failure produced no warning")
	}
	if !strings.Contains(w.String(), "synthetic profile") {
		t.Errorf("missing synthetic notice in output: %q", w.String())
	}
}

func TestAggregateConsultsConfirmerOnlyOnLowConfidence(t *testing.T) {
	tests := []struct {
		name       string
		rawName    string
		wantCalled bool
	}{
		{"high confidence skips confirmation", "king protea", false},
		{"unknown name confirms", "xylophone shrub", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confirmer := &stubConfirmer{title: "Confirmed Title"}
			deps := Deps{Catalog: catalog.Default(), Confirmer: confirmer}

			Aggregate(context.Background(), tt.rawName, deps, types.PipelineConfig{}, io.Discard)

			if confirmer.called != tt.wantCalled {
				t.Errorf("confirmer called = %v, want %v", confirmer.called, tt.wantCalled)
			}
		})
	}
}

func TestSyntheticRecordMatchedSpecies(t *testing.T) {
	rec := syntheticRecord("protea", catalog.Default(), types.ResolveConfig{})

	if !strings.Contains(rec.Body, "Protea cynaroides") {
		t.Error("matched synthetic profile missing the scientific name")
	}
	if !strings.Contains(rec.Body, "Proteaceae") {
		t.Error("matched synthetic profile missing the family")
	}
	if rec.Section != types.SectionGeneral {
		t.Errorf("section = %s, want general", rec.Section)
	}
}

func TestSyntheticRecordUnmatchedName(t *testing.T) {
	rec := syntheticRecord("Qzx", catalog.Default(), types.ResolveConfig{})

	if !strings.Contains(rec.Body, "Qzx") {
		t.Error("unmatched synthetic profile does not name the subject")
	}
	if strings.Contains(rec.Body, "belonging to the") {
		t.Error("unmatched profile should not claim a family")
	}
	// Four distinct paragraphs so composition has enough unique blocks.
	if got := len(strings.Split(rec.Body, "\n\n")); got != 4 {
		t.Errorf("paragraphs = %d, want 4", got)
	}
}

func TestMergeOrderAppendsUnknownAdaptersSorted(t *testing.T) {
	out := collect.Output{ByAdapter: map[string][]types.ContentRecord{
		"zeta":     {record("z", "z")},
		"academic": {record("a", "a")},
		"alpha":    {record("b", "b")},
	}}
	got := mergeOrder(out)
	want := []string{"academic", "alpha", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"king protea", "King Protea"},
		{"  aloe   ferox ", "Aloe Ferox"},
		{"PROTEA", "PROTEA"},
	}
	for _, tt := range tests {
		if got := displayName(tt.in); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
