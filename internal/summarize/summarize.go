// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize wraps the text summarization collaborator behind a
// stateless interface so the assembler can be tested with a stub.
// Implements: prd003-composition (R3.1-R3.4);
//
//	docs/ARCHITECTURE § Summarization.
package summarize

import "context"

// Summarizer condenses source text under a natural-language instruction.
// Implementations must not retain state between calls; the assembler may
// invoke one many times per document. Word bounds cap the output so the
// collaborator never returns content longer than its source.
type Summarizer interface {
	Summarize(ctx context.Context, instruction, source string, maxWords, minWords int) (string, error)
}

// Func adapts a plain function to the Summarizer interface.
type Func func(ctx context.Context, instruction, source string, maxWords, minWords int) (string, error)

// Summarize calls f.
func (f Func) Summarize(ctx context.Context, instruction, source string, maxWords, minWords int) (string, error) {
	return f(ctx, instruction, source, maxWords, minWords)
}
