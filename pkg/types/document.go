// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BlockKind distinguishes the two rendered block shapes.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
)

// Block is one rendered unit of the composed document. The templating
// collaborator owns the final markup; Class is the section-identifying
// styling label it may attach. Per prd003-composition R5.1.
type Block struct {
	Kind  BlockKind `json:"kind" yaml:"kind"`
	Text  string    `json:"text" yaml:"text"`
	Class string    `json:"class,omitempty" yaml:"class,omitempty"`
}

// DocumentMeta carries the title and front-matter fields handed to the
// templating collaborator alongside the block sequence.
// Per prd003-composition R5.4.
type DocumentMeta struct {
	// Title is the selected article title.
	Title string `json:"title" yaml:"title"`

	// Subject is the species name the document describes.
	Subject string `json:"subject" yaml:"subject"`

	// Slug is the filesystem- and URL-safe form of Subject.
	Slug string `json:"slug" yaml:"slug"`

	// Date is the generation date in YYYY-MM-DD form.
	Date string `json:"date" yaml:"date"`

	// Image is the expected featured-image path for the subject.
	Image string `json:"image" yaml:"image"`
}

// Document is the final ordered block sequence produced by one assembly
// call. No two blocks share a sentence: the assembler guarantees every
// sentence fingerprint appears at most once. Per prd003-composition R4.2, R7.1.
type Document struct {
	Meta DocumentMeta `json:"meta" yaml:"meta"`

	Blocks []Block `json:"blocks" yaml:"blocks"`

	// Fallback reports that post-compose validation found a duplicate and
	// the fully templated fallback document was substituted.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}
