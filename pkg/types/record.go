// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SectionType labels the thematic bucket a content record belongs to.
// Adapters assign it heuristically from their own source semantics; the
// assembler refines unclassified records by keyword scan.
// Per prd002-collection R1.3, prd003-composition R1.1.
type SectionType string

const (
	SectionGeneral         SectionType = "general"
	SectionCharacteristics SectionType = "characteristics"
	SectionHabitat         SectionType = "habitat"
	SectionCultural        SectionType = "cultural"
	SectionConservation    SectionType = "conservation"
	SectionUnclassified    SectionType = "unclassified"
)

// ContentRecord is one fragment of descriptive content returned by a source
// adapter. The aggregator owns records for the duration of one resolution
// request; they are immutable after creation. Bodies shorter than the
// configured minimum are discarded at the adapter boundary and never
// constructed. Per prd002-collection R1.2, R1.4.
type ContentRecord struct {
	// Source identifies the adapter that produced the record
	// (e.g. "Wikipedia", "OpenAlex", "pza.sanbi.org").
	Source string `json:"source" yaml:"source"`

	// Title is the source-supplied title for the fragment.
	Title string `json:"title" yaml:"title"`

	// Body is the usable descriptive text. Always non-empty.
	Body string `json:"body" yaml:"body"`

	// OriginURL is the page the content came from. Empty for synthetic records.
	OriginURL string `json:"origin_url,omitempty" yaml:"origin_url,omitempty"`

	// Section is the adapter-assigned thematic bucket.
	Section SectionType `json:"section" yaml:"section"`

	// ExtractedAt is when the adapter produced the record.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}
