// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/flora-engine/internal/httputil"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// siteBases lists the botanical-site roots the adapter scrapes. Declared
// as a var so tests can substitute httptest servers.
var siteBases = []string{"http://pza.sanbi.org"}

// sitePathTemplates are the URL shapes species pages appear under.
var sitePathTemplates = []string{
	"/species-name/%s",
	"/%s",
	"/plants/%s",
	"/plant/%s",
}

const (
	// siteVariantLimit bounds the variant prefix the adapter aggregates
	// across (R2.2). Unlike the API adapters it does not stop at the
	// first hit: species pages for the scientific and common name can
	// hold different content.
	siteVariantLimit = 2

	// siteMaxRecords caps records per invocation.
	siteMaxRecords = 2

	// siteMinContent is the minimum extracted page text worth keeping.
	// Shorter extractions are navigation shells, not species profiles.
	siteMinContent = 200
)

// boilerplateSelector matches elements stripped before text extraction.
const boilerplateSelector = "script, style, nav, header, footer, aside, iframe, form, button, menu"

// contentSelectors are tried in order to find the page's main content
// container.
var contentSelectors = []string{
	"article",
	"main",
	"div[class*='content']",
	"div[class*='main']",
	"div[class*='article']",
	"div[id*='content']",
	"div[id*='main']",
	"section[class*='content']",
}

// SiteAdapter scrapes botanical reference sites for species profiles (R2.2).
type SiteAdapter struct {
	Client *http.Client
}

// Name returns the adapter identifier.
func (a *SiteAdapter) Name() string { return "site" }

// Collect builds candidate URLs from the first two variants and extracts
// profile text from each page that resolves. Site profiles default to the
// characteristics section. Fetch and parse failures skip the URL; the
// adapter itself only errors on context expiry.
func (a *SiteAdapter) Collect(ctx context.Context, variants []string, cfg types.CollectConfig) ([]types.ContentRecord, error) {
	limit := siteVariantLimit
	if len(variants) < limit {
		limit = len(variants)
	}

	var records []types.ContentRecord
	first := true
	for i := 0; i < limit; i++ {
		slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(variants[i])), " ", "-")
		for _, base := range siteBases {
			for _, tmpl := range sitePathTemplates {
				if len(records) >= siteMaxRecords {
					return records, nil
				}
				if !first && !pause(ctx, cfg) {
					return records, ctx.Err()
				}
				first = false

				pageURL := base + fmt.Sprintf(tmpl, slug)
				body, err := a.extract(ctx, pageURL, cfg)
				if err != nil || len(body) < siteMinContent {
					continue
				}

				records = append(records, types.ContentRecord{
					Source:      hostOf(pageURL),
					Title:       fmt.Sprintf("%s - Species Profile", variants[i]),
					Body:        body,
					OriginURL:   pageURL,
					Section:     types.SectionCharacteristics,
					ExtractedAt: time.Now(),
				})
			}
		}
	}
	return records, nil
}

// extract fetches a page and pulls the readable profile text out of it.
func (a *SiteAdapter) extract(ctx context.Context, pageURL string, cfg types.CollectConfig) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned HTTP %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	doc.Find(boilerplateSelector).Remove()

	content := findContent(doc)
	var parts []string
	content.Find("p, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 20 {
			parts = append(parts, text)
		}
	})

	return cleanContent(strings.Join(parts, " ")), nil
}

// findContent returns the first selector match that carries substantial
// text, or the whole document when no container qualifies.
func findContent(doc *goquery.Document) *goquery.Selection {
	for _, sel := range contentSelectors {
		match := doc.Find(sel).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return len(strings.TrimSpace(s.Text())) > siteMinContent
		})
		if match.Length() > 0 {
			return match.First()
		}
	}
	return doc.Selection
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return pageURL
	}
	return u.Host
}
