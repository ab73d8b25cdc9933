// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/flora-engine/internal/httputil"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// wikipediaSummaryBase is the encyclopedia page-summary endpoint. Declared
// as a var so tests can substitute an httptest server.
var wikipediaSummaryBase = "https://en.wikipedia.org/api/rest_v1/page/summary/"

// EncyclopediaAdapter looks a species up in the encyclopedia's page-summary
// API (R2.1). It tries query variants in order and stops at the first
// variant that resolves to a standard page, to bound request volume.
type EncyclopediaAdapter struct {
	Client *http.Client
}

// Name returns the adapter identifier.
func (a *EncyclopediaAdapter) Name() string { return "encyclopedia" }

// summaryPage is the subset of the page-summary response the adapter uses.
type summaryPage struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Collect fetches the page summary for the first variant that resolves to
// a standard article. Encyclopedia content defaults to the general section
// (R2.1). Lookup misses are not errors; a run with no hits returns no
// records.
func (a *EncyclopediaAdapter) Collect(ctx context.Context, variants []string, cfg types.CollectConfig) ([]types.ContentRecord, error) {
	for i, variant := range variants {
		if i > 0 && !pause(ctx, cfg) {
			return nil, ctx.Err()
		}

		page, err := a.lookup(ctx, variant, cfg)
		if err != nil {
			// One variant failing does not condemn the rest.
			continue
		}
		if page == nil {
			continue
		}

		body := cleanContent(page.Extract)
		if len(body) < minBodyLength(cfg) {
			continue
		}

		// The summary is often a single paragraph. When the full page
		// text is substantially longer it replaces the summary; a failed
		// detail fetch keeps the summary.
		if page.ContentURLs.Desktop.Page != "" {
			if detail := a.detail(ctx, page.ContentURLs.Desktop.Page, cfg); len(detail) > 2*len(body) {
				body = detail
			}
		}

		return []types.ContentRecord{{
			Source:      "Wikipedia",
			Title:       page.Title,
			Body:        body,
			OriginURL:   page.ContentURLs.Desktop.Page,
			Section:     types.SectionGeneral,
			ExtractedAt: time.Now(),
		}}, nil
	}
	return nil, nil
}

// ConfirmTitle returns the canonical encyclopedia title for name, or ""
// when the encyclopedia has no standard page for it. The resolver's
// low-confidence policy prefers this title as the research term (R3.3).
func (a *EncyclopediaAdapter) ConfirmTitle(ctx context.Context, name string, cfg types.CollectConfig) string {
	page, err := a.lookup(ctx, name, cfg)
	if err != nil || page == nil {
		return ""
	}
	return page.Title
}

// detail fetches the article page itself and extracts the prose
// paragraphs. Any failure returns "", which lookup callers treat as "no
// upgrade available".
func (a *EncyclopediaAdapter) detail(ctx context.Context, pageURL string, cfg types.CollectConfig) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	// Top-level paragraphs of the article body only; infoboxes and
	// navigation live in nested containers.
	sel := doc.Find("div.mw-parser-output > p")
	if sel.Length() == 0 {
		sel = doc.Find("p")
	}

	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})
	return cleanContent(strings.Join(parts, " "))
}

// lookup fetches one page summary. It returns (nil, nil) for non-standard
// pages (disambiguation, missing) and for non-200 responses, which the
// core treats identically as "no content".
func (a *EncyclopediaAdapter) lookup(ctx context.Context, name string, cfg types.CollectConfig) (*summaryPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikipediaSummaryBase+url.PathEscape(name), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("encyclopedia request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var page summaryPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("parsing summary response: %w", err)
	}

	if page.Type != "standard" {
		return nil, nil
	}
	return &page, nil
}
