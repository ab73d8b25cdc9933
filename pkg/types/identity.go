// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the flora-engine pipeline.
// Implements: prd001-resolution (CandidateIdentity, R2.1);
//
//	prd002-collection (ContentRecord, R1.2);
//	prd003-composition (Block, Document, R5.1-R5.3).
//
// See docs/ARCHITECTURE § Pipeline Interface, § Data Structures.
package types

// CandidateIdentity is a scored guess at which catalog species matches a
// free-text input. Produced by the resolver and never mutated afterwards.
// Per prd001-resolution R2.1-R2.4.
type CandidateIdentity struct {
	// MatchedAlias is the catalog alias that scored best against the input.
	MatchedAlias string `json:"matched_alias" yaml:"matched_alias"`

	// ScientificName is the binomial name of the catalog species.
	ScientificName string `json:"scientific_name" yaml:"scientific_name"`

	// Family is the botanical family (e.g. "Proteaceae").
	Family string `json:"family" yaml:"family"`

	// CommonNames lists the species' common names in catalog order.
	CommonNames []string `json:"common_names" yaml:"common_names"`

	// Similarity is the normalized edit-similarity in [0,1] between the
	// input and MatchedAlias. Containment matches may carry a low score
	// while still qualifying. Per R1.3.
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// Confidence classifies a candidate's similarity score into the tier that
// drives query selection. Per prd001-resolution R3.1-R3.3.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)
