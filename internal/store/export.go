// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds a stored record with its run context for export.
type ExportEntry struct {
	RunID       string `json:"run_id" yaml:"run_id"`
	Subject     string `json:"subject" yaml:"subject"`
	Source      string `json:"source" yaml:"source"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Body        string `json:"body" yaml:"body"`
	OriginURL   string `json:"origin_url,omitempty" yaml:"origin_url,omitempty"`
	Section     string `json:"section,omitempty" yaml:"section,omitempty"`
	ExtractedAt string `json:"extracted_at,omitempty" yaml:"extracted_at,omitempty"`
}

const exportLimit = 100000

// ExportYAML writes stored records to dataDir/index/export.yaml. It
// supports the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes stored records to dataDir/index/export.json. It
// supports the same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dataDir, indexDir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			RunID:     r.RunID,
			Subject:   r.Subject,
			Source:    r.Source,
			Title:     r.Title,
			Body:      r.Body,
			OriginURL: r.OriginURL,
			Section:   string(r.Section),
		}
		if !r.ExtractedAt.IsZero() {
			entries[i].ExtractedAt = r.ExtractedAt.UTC().Format(time.RFC3339)
		}
	}

	return entries, nil
}
