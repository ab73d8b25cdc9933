// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/flora-engine/internal/httputil"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// openAlexWorksBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// academicVariantLimit bounds how many query variants the adapter tries,
// since each is a separate API call (R2.2).
const academicVariantLimit = 2

// culturalKeywords mark an abstract as cultural-use content rather than
// plant characteristics.
var culturalKeywords = []string{
	"traditional", "indigenous", "cultural", "ethnobotan",
	"ceremony", "ritual", "healing", "remedy", "folk",
}

// AcademicAdapter searches OpenAlex for abstracts about the species (R2.2).
// It tries up to two variants and stops at the first one producing
// acceptable content.
type AcademicAdapter struct {
	Client *http.Client
}

// Name returns the adapter identifier.
func (a *AcademicAdapter) Name() string { return "academic" }

// Collect queries the works API per variant and converts abstracts to
// content records. Abstracts dominated by cultural-use vocabulary are
// routed to the cultural section, the rest to characteristics (R2.3).
func (a *AcademicAdapter) Collect(ctx context.Context, variants []string, cfg types.CollectConfig) ([]types.ContentRecord, error) {
	limit := academicVariantLimit
	if len(variants) < limit {
		limit = len(variants)
	}

	var lastErr error
	for i := 0; i < limit; i++ {
		if i > 0 && !pause(ctx, cfg) {
			return nil, ctx.Err()
		}

		records, err := a.search(ctx, variants[i], cfg)
		if err != nil {
			lastErr = err
			continue
		}
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, lastErr
}

func (a *AcademicAdapter) search(ctx context.Context, variant string, cfg types.CollectConfig) ([]types.ContentRecord, error) {
	params := url.Values{
		"search":   {fmt.Sprintf("%q AND (medicinal OR traditional OR therapeutic)", variant)},
		"per-page": {"5"},
		"sort":     {"cited_by_count:desc"},
		"filter":   {"type:article"},
	}
	if cfg.AcademicEmail != "" {
		params.Set("mailto", cfg.AcademicEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexWorksBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var records []types.ContentRecord
	for _, work := range oar.Results {
		abstract := work.Abstract
		if abstract == "" {
			abstract = reconstructAbstract(work.AbstractInvertedIndex)
		}
		body := cleanContent(abstract)
		if len(body) < minBodyLength(cfg) {
			continue
		}

		records = append(records, types.ContentRecord{
			Source:      "OpenAlex",
			Title:       strings.TrimSpace(work.Title),
			Body:        body,
			OriginURL:   work.ID,
			Section:     classifyAbstract(body),
			ExtractedAt: time.Now(),
		})
	}
	return records, nil
}

// classifyAbstract routes an abstract to cultural or characteristics based
// on its vocabulary.
func classifyAbstract(body string) types.SectionType {
	lower := strings.ToLower(body)
	for _, kw := range culturalKeywords {
		if strings.Contains(lower, kw) {
			return types.SectionCultural
		}
	}
	return types.SectionCharacteristics
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	Abstract              string           `json:"abstract"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}
