// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the static species reference table.
// Implements: prd001-resolution (R1.1, R1.2);
//
//	docs/ARCHITECTURE § Species Catalog.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed species.yaml
var embeddedSpecies []byte

// Species is one catalog entry: a canonical species and the names it is
// known by. Aliases drive fuzzy matching; CommonNames feed query variants.
type Species struct {
	// Key is the stable catalog identifier (e.g. "wild_dagga").
	Key string `yaml:"key"`

	// Aliases lists every name the species may be searched under.
	Aliases []string `yaml:"aliases"`

	// ScientificName is the binomial (or genus) name.
	ScientificName string `yaml:"scientific_name"`

	// Family is the botanical family.
	Family string `yaml:"family"`

	// CommonNames lists common names in preference order.
	CommonNames []string `yaml:"common_names"`
}

// Catalog is the read-only species reference table. It is loaded once per
// process and never mutated; entries keep file order, which the resolver
// relies on for deterministic ranking ties.
type Catalog struct {
	entries []Species
}

// catalogFile is the YAML shape of species.yaml.
type catalogFile struct {
	Species []Species `yaml:"species"`
}

// Parse builds a Catalog from YAML data, validating that every entry has a
// key, a scientific name, and at least one alias.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(f.Species) == 0 {
		return nil, fmt.Errorf("catalog contains no species")
	}

	seen := make(map[string]bool, len(f.Species))
	for i, sp := range f.Species {
		if sp.Key == "" {
			return nil, fmt.Errorf("catalog entry %d: missing key", i)
		}
		if seen[sp.Key] {
			return nil, fmt.Errorf("catalog entry %d: duplicate key %q", i, sp.Key)
		}
		seen[sp.Key] = true
		if sp.ScientificName == "" {
			return nil, fmt.Errorf("catalog entry %q: missing scientific name", sp.Key)
		}
		if len(sp.Aliases) == 0 {
			return nil, fmt.Errorf("catalog entry %q: no aliases", sp.Key)
		}
	}

	return &Catalog{entries: f.Species}, nil
}

// LoadFile reads a catalog from an external YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog parsed from the embedded data.
// The embedded file is validated at build of the default, so a parse
// failure here is a packaging bug and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(embeddedSpecies)
		if err != nil {
			panic(fmt.Sprintf("embedded species catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Entries returns the catalog entries in load order. Callers must treat the
// returned slice as read-only.
func (c *Catalog) Entries() []Species {
	return c.entries
}

// Len returns the number of species in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Find returns the entry with the given key.
func (c *Catalog) Find(key string) (Species, bool) {
	for _, sp := range c.entries {
		if sp.Key == key {
			return sp, true
		}
	}
	return Species{}, false
}
