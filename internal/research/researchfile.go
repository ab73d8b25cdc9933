// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// ResearchFile is the on-disk representation of one aggregation run. A
// researcher can save the collected records to a file and feed them back
// into composition later without re-querying the sources.
// Implements: prd002-collection R3.6.
type ResearchFile struct {
	Research ResearchParams        `yaml:"research"`
	Records  []types.ContentRecord `yaml:"records"`
	Summary  ResearchSummary       `yaml:"summary"`
}

// ResearchParams stores how the subject resolved and what term drove the
// collection.
type ResearchParams struct {
	Subject      string           `yaml:"subject"`
	ResearchTerm string           `yaml:"research_term"`
	Confidence   types.Confidence `yaml:"confidence,omitempty"`
	Variants     []string         `yaml:"variants,omitempty"`
}

// ResearchSummary stores result statistics and a timestamp.
type ResearchSummary struct {
	Total        int            `yaml:"total"`
	SourceCounts map[string]int `yaml:"source_counts,omitempty"`
	Synthetic    bool           `yaml:"synthetic,omitempty"`
	Warnings     []string       `yaml:"warnings,omitempty"`
	Timestamp    time.Time      `yaml:"timestamp"`
}

// WriteResearchFile saves an aggregation's records and metadata to a YAML file.
func WriteResearchFile(path string, records []types.ContentRecord, info Info) error {
	rf := ResearchFile{
		Research: ResearchParams{
			Subject:      info.Subject,
			ResearchTerm: info.ResearchTerm,
			Confidence:   info.Confidence,
			Variants:     info.Variants,
		},
		Records: records,
		Summary: ResearchSummary{
			Total:        len(records),
			SourceCounts: info.SourceCounts,
			Synthetic:    info.Synthetic,
			Warnings:     info.Warnings,
			Timestamp:    time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling research file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResearchFile loads a previously saved research file from disk.
func ReadResearchFile(path string) (*ResearchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading research file: %w", err)
	}
	var rf ResearchFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing research file: %w", err)
	}
	return &rf, nil
}
