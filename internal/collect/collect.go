// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect gathers descriptive content about a species from
// independent, unreliable external sources.
// Implements: prd002-collection (R1-R5);
//
//	docs/ARCHITECTURE § Source Collection.
package collect

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// DefaultMinBodyLength is the shortest usable record body (R1.4).
const DefaultMinBodyLength = 30

const defaultMaxConcurrent = 3

// Adapter collects content records for an ordered list of query variants.
// Each concrete adapter wraps one external source per the Strategy pattern
// (R2.6). Adapters return (nil, nil) when a source simply has nothing; an
// error means the source misbehaved, and the caller isolates it.
type Adapter interface {
	Name() string
	Collect(ctx context.Context, variants []string, cfg types.CollectConfig) ([]types.ContentRecord, error)
}

// Output holds per-adapter results so the aggregator can merge them in
// priority order, plus the warnings raised by failing adapters.
type Output struct {
	ByAdapter map[string][]types.ContentRecord
	Warnings  []string
}

// Total returns the number of records across all adapters.
func (o Output) Total() int {
	n := 0
	for _, rs := range o.ByAdapter {
		n += len(rs)
	}
	return n
}

// Collect fans the variant list out to all adapters with bounded
// concurrency. Adapters share no mutable state, so each runs in its own
// goroutine gated by a weighted semaphore (R2.4). A failing or timed-out
// adapter contributes a warning and no records; it never aborts the
// overall collection (R2.5).
func Collect(ctx context.Context, adapters []Adapter, variants []string, cfg types.CollectConfig, w io.Writer) Output {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	sem := semaphore.NewWeighted(int64(maxConcurrent))

	type adapterResult struct {
		name    string
		records []types.ContentRecord
		err     error
	}

	ch := make(chan adapterResult, len(adapters))
	var wg sync.WaitGroup

	for _, a := range adapters {
		wg.Add(1)
		go func(a Adapter) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				ch <- adapterResult{name: a.Name(), err: err}
				return
			}
			defer sem.Release(1)

			// An adapter tries several variants, each one HTTP request
			// plus a politeness delay, so its budget is a few
			// request-lengths rather than a single cfg.Timeout.
			actx := ctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				actx, cancel = context.WithTimeout(ctx, 4*cfg.Timeout)
				defer cancel()
			}

			records, err := a.Collect(actx, variants, cfg)
			ch <- adapterResult{name: a.Name(), records: records, err: err}
		}(a)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := Output{ByAdapter: make(map[string][]types.ContentRecord, len(adapters))}
	for ar := range ch {
		if ar.err != nil {
			msg := fmt.Sprintf("%s: %v", ar.name, ar.err)
			out.Warnings = append(out.Warnings, msg)
			fmt.Fprintf(w, "warning: adapter %s failed: %v\n", ar.name, ar.err)
			continue
		}
		if len(ar.records) > 0 {
			out.ByAdapter[ar.name] = ar.records
		}
	}
	return out
}

// minBodyLength returns the configured usability floor.
func minBodyLength(cfg types.CollectConfig) int {
	if cfg.MinBodyLength > 0 {
		return cfg.MinBodyLength
	}
	return DefaultMinBodyLength
}

// pause sleeps for the configured inter-request delay, honoring ctx. It
// returns false when the context expired. The delay is scoped to one
// adapter's own invocation sequence, never global (R4.2).
func pause(ctx context.Context, cfg types.CollectConfig) bool {
	if cfg.RequestDelay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(cfg.RequestDelay):
		return true
	}
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	bracketedNote = regexp.MustCompile(`\[[^\]]*\]`)
	emptyParens   = regexp.MustCompile(`\(\s*\)`)
)

// cleanContent collapses whitespace and strips the bracketed edit markers
// and empty parentheses that web extraction leaves behind.
func cleanContent(text string) string {
	if text == "" {
		return ""
	}
	text = bracketedNote.ReplaceAllString(text, "")
	text = emptyParens.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
