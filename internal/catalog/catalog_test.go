// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	if cat.Len() != 13 {
		t.Fatalf("embedded catalog has %d species, want 13", cat.Len())
	}

	// Entry order is load order; the resolver depends on it for ties.
	if cat.Entries()[0].Key != "protea" {
		t.Errorf("first entry = %q, want protea", cat.Entries()[0].Key)
	}

	for _, sp := range cat.Entries() {
		if sp.ScientificName == "" {
			t.Errorf("entry %q: empty scientific name", sp.Key)
		}
		if len(sp.Aliases) == 0 {
			t.Errorf("entry %q: no aliases", sp.Key)
		}
		if sp.Family == "" {
			t.Errorf("entry %q: empty family", sp.Key)
		}
	}
}

func TestFind(t *testing.T) {
	cat := Default()

	sp, ok := cat.Find("cape_aloe")
	if !ok {
		t.Fatal("cape_aloe not found")
	}
	if sp.ScientificName != "Aloe ferox" {
		t.Errorf("scientific name = %q, want Aloe ferox", sp.ScientificName)
	}

	if _, ok := cat.Find("baobab"); ok {
		t.Error("unexpected hit for absent key")
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		errSub string
	}{
		{
			name:   "not yaml",
			yaml:   "species: [",
			errSub: "parsing catalog",
		},
		{
			name:   "empty",
			yaml:   "species: []",
			errSub: "no species",
		},
		{
			name: "missing key",
			yaml: `species:
  - aliases: [x]
    scientific_name: X y`,
			errSub: "missing key",
		},
		{
			name: "duplicate key",
			yaml: `species:
  - key: a
    aliases: [x]
    scientific_name: X y
  - key: a
    aliases: [z]
    scientific_name: Z w`,
			errSub: "duplicate key",
		},
		{
			name: "missing scientific name",
			yaml: `species:
  - key: a
    aliases: [x]`,
			errSub: "missing scientific name",
		},
		{
			name: "no aliases",
			yaml: `species:
  - key: a
    scientific_name: X y`,
			errSub: "no aliases",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error %q does not contain %q", err, tt.errSub)
			}
		})
	}
}

func TestParseValid(t *testing.T) {
	cat, err := Parse([]byte(`species:
  - key: baobab
    aliases: [baobab, adansonia]
    scientific_name: Adansonia digitata
    family: Malvaceae
    common_names: [upside-down tree]`))
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 1 {
		t.Fatalf("len = %d, want 1", cat.Len())
	}
	if _, ok := cat.Find("baobab"); !ok {
		t.Error("baobab not found")
	}
}
