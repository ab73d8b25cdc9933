// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"io"
	"strings"
	"unicode"

	"github.com/pdiddy/flora-engine/internal/compose"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// Pipeline bundles the aggregator's collaborators with the assembler for
// end-to-end document generation.
type Pipeline struct {
	Deps      Deps
	Assembler *compose.Assembler
	Config    types.PipelineConfig
}

// Generate runs the whole pipeline for one raw species name: resolve,
// collect, aggregate, compose. It always returns a renderable document;
// degradation along the way shows up as warnings on w, the Synthetic flag
// in Info, or the document's Fallback flag, never as an error (R3.4, R7.2).
func (p *Pipeline) Generate(ctx context.Context, rawName string, w io.Writer) (types.Document, Info) {
	records, info := Aggregate(ctx, rawName, p.Deps, p.Config, w)
	doc := p.Assembler.Assemble(ctx, records, displayName(rawName))
	return doc, info
}

// Compose builds a document from previously collected records, as loaded
// from a research file, skipping the network entirely.
func (p *Pipeline) Compose(ctx context.Context, rawName string, records []types.ContentRecord) types.Document {
	return p.Assembler.Assemble(ctx, records, displayName(rawName))
}

// displayName title-cases the raw input for presentation. The raw name,
// not the resolved scientific name, is the subject the reader asked about.
func displayName(rawName string) string {
	words := strings.Fields(strings.TrimSpace(rawName))
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
