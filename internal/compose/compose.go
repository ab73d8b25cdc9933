// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose classifies content records into thematic sections,
// summarizes each section, and assembles the final document under a strict
// no-duplicate-sentence guarantee.
// Implements: prd003-composition (R1-R7);
//
//	docs/ARCHITECTURE § Section Assembly.
package compose

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/flora-engine/internal/summarize"
	"github.com/pdiddy/flora-engine/pkg/types"
)

const (
	// minRawContent is the least selected content worth summarizing (R3.1).
	minRawContent = 20

	// promptChunk bounds the source text handed to the summarizer.
	promptChunk = 800

	// minSummaryLen is the shortest generated text considered meaningful.
	minSummaryLen = 15

	// minSentenceLen drops throwaway fragments during paragraph building.
	minSentenceLen = 10

	// validationSentenceLen is the floor for the final duplicate re-scan;
	// very short sentences collide by coincidence, not by leakage.
	validationSentenceLen = 20
)

// Defaults for ComposeConfig zero values.
const (
	DefaultMaxRecordsPerSection = 2
	DefaultMaxSectionChars      = 1500
	DefaultMinBlocks            = 4
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Assembler turns aggregated content records into a composed document.
// Summarizer may be nil, in which case every section uses its fallback
// text. Rand and Now are injectable so tests can pin title selection,
// paragraph grouping, and the front-matter date.
type Assembler struct {
	Summarizer summarize.Summarizer
	Config     types.ComposeConfig
	Rand       *rand.Rand
	Now        func() time.Time
}

// Assemble runs one classification-to-validation pass over the records
// and returns the composed document. The pass is a one-way pipeline:
// classify, select, summarize, sentence-dedup, compose, validate. A
// validation failure substitutes the fully templated fallback document
// rather than looping back into summarization, so the worst case is
// exactly two document builds (R7.2). All fingerprint state is scoped to
// this call.
func (a *Assembler) Assemble(ctx context.Context, records []types.ContentRecord, subject string) types.Document {
	recordSeen := make(fingerprintSet)
	sentenceSeen := make(fingerprintSet)

	buckets := classifyRecords(records)
	b := &docBuilder{seen: make(fingerprintSet)}

	specs := append([]sectionSpec{introSpec}, themedSpecs...)
	for _, spec := range specs {
		raw := buckets.rawContent(spec, recordSeen, a.maxRecords(spec), a.maxSectionChars())

		text := a.generate(ctx, spec, raw, subject)
		if text == "" {
			text = fillName(spec.Fallback, subject)
		}

		paragraphs := a.paragraphsFrom(text, sentenceSeen)
		if len(paragraphs) == 0 {
			continue
		}
		if spec.Heading != "" {
			b.append(types.BlockHeading, spec.Heading, "section-heading")
		}
		for _, p := range paragraphs {
			b.append(types.BlockParagraph, p, spec.Class)
		}
	}

	// Never render critically thin (R6.1).
	if len(b.blocks) < a.minBlocks() {
		b.append(types.BlockHeading, aboutHeading, "section-heading")
		for _, p := range a.paragraphsFrom(fillName(aboutText, subject), sentenceSeen) {
			b.append(types.BlockParagraph, p, "fallback")
		}
	}

	doc := types.Document{Meta: a.meta(subject), Blocks: b.blocks}

	// Defense in depth: re-scan the whole document for cross-section
	// leakage before accepting it (R7.1).
	if hasDuplicateSentences(doc) {
		return a.fallbackDocument(subject)
	}
	return doc
}

// generate invokes the summarizer for one section. Any failure, timeout,
// or unusable result maps to "", which callers treat as "use the fallback
// text" — summarization trouble never propagates (R3.4).
func (a *Assembler) generate(ctx context.Context, spec sectionSpec, raw, subject string) string {
	if a.Summarizer == nil {
		return ""
	}
	content := strings.TrimSpace(raw)
	if len(content) < minRawContent {
		return ""
	}
	content = truncateRunes(content, promptChunk)

	// Never request a summary longer than roughly an eighth of the
	// input, or the collaborator pads instead of condensing (R3.2).
	maxWords := spec.MaxWords
	if derived := len(content) / 8; derived < maxWords {
		maxWords = derived
	}
	if maxWords < spec.MinWords {
		maxWords = spec.MinWords
	}
	minWords := spec.MinWords
	if half := maxWords / 2; half < minWords {
		minWords = half
	}

	text, err := a.Summarizer.Summarize(ctx, fillName(spec.Instruction, subject), content, maxWords, minWords)
	if err != nil {
		return ""
	}
	text = cleanText(text)
	if len(text) <= minSummaryLen {
		return ""
	}
	return text
}

// paragraphsFrom splits text into sentences, drops document-wide
// duplicates, and regroups the survivors into paragraphs of 2-4
// sentences (R4.2, R4.3).
func (a *Assembler) paragraphsFrom(text string, sentenceSeen fingerprintSet) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	target := a.paragraphTarget()
	for _, sentence := range splitSentences(cleanText(text)) {
		if len(sentence) < minSentenceLen {
			continue
		}
		if !sentenceSeen.consume(sentence) {
			continue
		}
		if !endsSentence(sentence) {
			sentence += "."
		}
		current = append(current, sentence)
		if len(current) >= target {
			flush()
			target = a.paragraphTarget()
		}
	}
	flush()
	return paragraphs
}

// meta builds the title and front-matter fields for the templating
// collaborator (R5.4).
func (a *Assembler) meta(subject string) types.DocumentMeta {
	title := fillName(titleVariations[a.rng().Intn(len(titleVariations))], subject)
	slug := slugify(subject)
	return types.DocumentMeta{
		Title:   title,
		Subject: subject,
		Slug:    slug,
		Date:    a.now().Format("2006-01-02"),
		Image:   "/assets/images/plants/" + slug + ".jpg",
	}
}

// fallbackDocument is the terminal recovery path: a fully templated block
// sequence built solely from the subject, with no summarization calls (R7.2).
func (a *Assembler) fallbackDocument(subject string) types.Document {
	var blocks []types.Block
	for _, fb := range fallbackDocBlocks {
		if fb.Heading != "" {
			blocks = append(blocks, types.Block{Kind: types.BlockHeading, Text: fb.Heading, Class: "section-heading"})
		}
		blocks = append(blocks, types.Block{Kind: types.BlockParagraph, Text: fillName(fb.Text, subject), Class: fb.Class})
	}
	return types.Document{Meta: a.meta(subject), Blocks: blocks, Fallback: true}
}

// hasDuplicateSentences re-scans composed paragraphs for any repeated
// sentence fingerprint.
func hasDuplicateSentences(doc types.Document) bool {
	seen := make(fingerprintSet)
	for _, blk := range doc.Blocks {
		if blk.Kind != types.BlockParagraph {
			continue
		}
		for _, s := range splitSentences(blk.Text) {
			if len(s) <= validationSentenceLen {
				continue
			}
			if !seen.consume(s) {
				return true
			}
		}
	}
	return false
}

// --- record classification and selection ---

// bucketSet holds classified records: one list per themed section, the
// general list feeding the introduction, and a reserve of records that
// matched nothing, drawn on only by sections that would otherwise be
// empty (R1.3).
type bucketSet struct {
	themed  map[types.SectionType][]types.ContentRecord
	general []types.ContentRecord
	reserve []types.ContentRecord
}

// classifyRecords routes each record by its adapter-assigned section when
// that is a real bucket, and by keyword scan otherwise (R1.1, R1.2).
func classifyRecords(records []types.ContentRecord) *bucketSet {
	bs := &bucketSet{themed: make(map[types.SectionType][]types.ContentRecord)}
	for _, r := range records {
		switch r.Section {
		case types.SectionCharacteristics, types.SectionHabitat, types.SectionCultural, types.SectionConservation:
			bs.themed[r.Section] = append(bs.themed[r.Section], r)
		case types.SectionGeneral:
			bs.general = append(bs.general, r)
		default:
			if st, ok := scanSection(r.Body); ok {
				bs.themed[st] = append(bs.themed[st], r)
			} else {
				bs.reserve = append(bs.reserve, r)
			}
		}
	}
	return bs
}

// rawContent selects up to maxRecords bodies for the section, skipping
// records whose fingerprint an earlier section already consumed (R2.1).
// Each body is truncated individually before joining (R2.3).
func (bs *bucketSet) rawContent(spec sectionSpec, recordSeen fingerprintSet, maxRecords, maxChars int) string {
	var candidates []types.ContentRecord
	if spec.Type == types.SectionGeneral {
		candidates = bs.general
	} else {
		candidates = bs.themed[spec.Type]
	}
	if len(candidates) == 0 {
		candidates = bs.reserve
	}

	var parts []string
	for _, r := range candidates {
		if len(parts) >= maxRecords {
			break
		}
		if !recordSeen.consume(r.Body) {
			continue
		}
		parts = append(parts, truncateRunes(cleanText(r.Body), maxChars))
	}
	return strings.Join(parts, " ")
}

// --- document building ---

// docBuilder accumulates blocks, refusing (skipping, not erroring) any
// block whose normalized fingerprint already appeared (R5.1).
type docBuilder struct {
	blocks []types.Block
	seen   fingerprintSet
}

func (b *docBuilder) append(kind types.BlockKind, text, class string) {
	if !b.seen.consume(text) {
		return
	}
	b.blocks = append(b.blocks, types.Block{Kind: kind, Text: text, Class: class})
}

// --- config accessors ---

func (a *Assembler) maxRecords(spec sectionSpec) int {
	if spec.Type == types.SectionGeneral {
		return spec.MaxRecords
	}
	if a.Config.MaxRecordsPerSection > 0 {
		return a.Config.MaxRecordsPerSection
	}
	return DefaultMaxRecordsPerSection
}

func (a *Assembler) maxSectionChars() int {
	if a.Config.MaxSectionChars > 0 {
		return a.Config.MaxSectionChars
	}
	return DefaultMaxSectionChars
}

func (a *Assembler) minBlocks() int {
	if a.Config.MinBlocks > 0 {
		return a.Config.MinBlocks
	}
	return DefaultMinBlocks
}

func (a *Assembler) paragraphTarget() int {
	return 2 + a.rng().Intn(3)
}

func (a *Assembler) rng() *rand.Rand {
	if a.Rand == nil {
		a.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return a.Rand
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func slugify(subject string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(subject), "-")
	return strings.Trim(slug, "-")
}
