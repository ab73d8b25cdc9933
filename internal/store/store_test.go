// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	s, err := NewStore(types.StoreConfig{DataDir: tmpDir, MaxResults: 20})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, tmpDir
}

func sampleRecords() []types.ContentRecord {
	return []types.ContentRecord{
		{
			Source: "Wikipedia", Title: "Protea cynaroides",
			Body:      "The king protea is a flowering plant and the national flower of South Africa.",
			OriginURL: "https://en.wikipedia.org/wiki/Protea_cynaroides",
			Section:   types.SectionGeneral, ExtractedAt: time.Now(),
		},
		{
			Source: "OpenAlex", Title: "Fynbos pollination ecology",
			Body:    "Sugarbirds pollinate proteas across the fynbos biome of the Western Cape.",
			Section: types.SectionHabitat,
		},
		{
			Source: "pza.sanbi.org", Title: "Protea cynaroides - Species Profile",
			Body:    "Large bowl-shaped flower heads with pointed bracts appear from winter to spring.",
			Section: types.SectionCharacteristics,
		},
	}
}

func saveSample(t *testing.T, s *Store, subject string) string {
	t.Helper()
	id, err := s.SaveRun(context.Background(), Run{
		Subject:      subject,
		ResearchTerm: "Protea cynaroides",
		Confidence:   "high",
	}, sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// --- tests ---

func TestSaveRunAndRetrieveBySubject(t *testing.T) {
	s, _ := testStore(t)
	runID := saveSample(t, s, "king protea")

	results, err := s.Retrieve(context.Background(), QueryOptions{Subject: "king protea"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for _, r := range results {
		if r.RunID != runID {
			t.Errorf("run id = %q, want %q", r.RunID, runID)
		}
		if r.Subject != "king protea" {
			t.Errorf("subject = %q", r.Subject)
		}
	}
	// Insertion order for structured queries.
	if results[0].Source != "Wikipedia" {
		t.Errorf("first source = %q, want Wikipedia", results[0].Source)
	}
}

func TestSaveRunRequiresSubject(t *testing.T) {
	s, _ := testStore(t)
	if _, err := s.SaveRun(context.Background(), Run{}, nil); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestRetrieveFullText(t *testing.T) {
	s, _ := testStore(t)
	saveSample(t, s, "king protea")

	results, err := s.Retrieve(context.Background(), QueryOptions{Query: "sugarbirds"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Source != "OpenAlex" {
		t.Errorf("source = %q, want OpenAlex", results[0].Source)
	}
}

func TestRetrieveStructuredFilters(t *testing.T) {
	s, _ := testStore(t)
	saveSample(t, s, "king protea")
	saveSample(t, s, "cape aloe")

	tests := []struct {
		name string
		opts QueryOptions
		want int
	}{
		{"by section", QueryOptions{Section: types.SectionHabitat}, 2},
		{"by source", QueryOptions{Source: "Wikipedia"}, 2},
		{"section and subject", QueryOptions{Section: types.SectionHabitat, Subject: "cape aloe"}, 1},
		{"no match", QueryOptions{Source: "nowhere"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Retrieve(context.Background(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(results) != tt.want {
				t.Errorf("results = %d, want %d", len(results), tt.want)
			}
		})
	}
}

func TestRetrieveMaxResults(t *testing.T) {
	s, _ := testStore(t)
	saveSample(t, s, "king protea")

	results, err := s.Retrieve(context.Background(), QueryOptions{Subject: "king protea", MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}

func TestRuns(t *testing.T) {
	s, _ := testStore(t)
	saveSample(t, s, "king protea")
	id := saveSample(t, s, "cape aloe")

	runs, err := s.Runs(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	for _, ri := range runs {
		if ri.Records != 3 {
			t.Errorf("run %s records = %d, want 3", ri.ID, ri.Records)
		}
	}
	var found bool
	for _, ri := range runs {
		if ri.ID == id && ri.Subject == "cape aloe" {
			found = true
		}
	}
	if !found {
		t.Error("saved run not listed")
	}
}

func TestStats(t *testing.T) {
	s, _ := testStore(t)
	saveSample(t, s, "king protea")
	saveSample(t, s, "king protea")

	st, err := s.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Runs != 2 || st.Records != 6 || st.Subjects != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.BySource["Wikipedia"] != 2 {
		t.Errorf("by source = %v", st.BySource)
	}
}

func TestExportYAML(t *testing.T) {
	s, tmpDir := testStore(t)
	saveSample(t, s, "king protea")

	if err := s.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(tmpDir, indexDir, "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []ExportEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Subject != "king protea" {
		t.Errorf("subject = %q", entries[0].Subject)
	}
}

func TestExportJSONWithFilter(t *testing.T) {
	s, tmpDir := testStore(t)
	saveSample(t, s, "king protea")

	if err := s.ExportJSON(context.Background(), QueryOptions{Source: "OpenAlex"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(tmpDir, indexDir, "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	var entries []ExportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Source != "OpenAlex" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestUpdateTriggerKeepsIndexInSync(t *testing.T) {
	s, _ := testStore(t)
	saveSample(t, s, "king protea")

	if _, err := s.db.Exec(
		`UPDATE records SET body = 'completely rewritten text about serotiny' WHERE source = 'OpenAlex'`,
	); err != nil {
		t.Fatal(err)
	}

	if results, err := s.Retrieve(context.Background(), QueryOptions{Query: "sugarbirds"}); err != nil {
		t.Fatal(err)
	} else if len(results) != 0 {
		t.Errorf("stale index hit: %d results", len(results))
	}

	results, err := s.Retrieve(context.Background(), QueryOptions{Query: "serotiny"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("updated body not searchable: %d results", len(results))
	}
}
