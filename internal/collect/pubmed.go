// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/flora-engine/internal/httputil"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// pubmedSearchBase and pubmedFetchBase are the NCBI eUtils endpoints.
// Declared as vars so tests can substitute httptest servers.
var (
	pubmedSearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const (
	// pubmedVariantLimit bounds how many query variants the adapter tries;
	// each is an esearch plus an efetch call (R2.2).
	pubmedVariantLimit = 2

	// pubmedMaxArticles caps how many abstracts one efetch pulls.
	pubmedMaxArticles = 3
)

// PubMedAdapter searches PubMed via the eUtils API for medical research
// abstracts about the species (R2.2). An esearch call finds article IDs,
// an efetch call retrieves their abstracts.
type PubMedAdapter struct {
	Client *http.Client
}

// Name returns the adapter identifier.
func (a *PubMedAdapter) Name() string { return "pubmed" }

// Collect tries up to two variants and stops at the first one producing
// acceptable abstracts, mirroring the academic adapter. Abstracts route to
// cultural or characteristics by vocabulary (R2.3).
func (a *PubMedAdapter) Collect(ctx context.Context, variants []string, cfg types.CollectConfig) ([]types.ContentRecord, error) {
	limit := pubmedVariantLimit
	if len(variants) < limit {
		limit = len(variants)
	}

	var lastErr error
	for i := 0; i < limit; i++ {
		if i > 0 && !pause(ctx, cfg) {
			return nil, ctx.Err()
		}

		ids, err := a.search(ctx, variants[i], cfg)
		if err != nil {
			lastErr = err
			continue
		}
		if len(ids) == 0 {
			continue
		}

		records, err := a.fetch(ctx, ids, cfg)
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

// esearchResponse is the subset of the esearch JSON the adapter uses.
type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

func (a *PubMedAdapter) search(ctx context.Context, variant string, cfg types.CollectConfig) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {fmt.Sprintf("%q medicinal OR traditional", variant)},
		"retmax":  {"5"},
		"retmode": {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("PubMed search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed search returned HTTP %d", resp.StatusCode)
	}

	var esr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&esr); err != nil {
		return nil, fmt.Errorf("parsing PubMed search response: %w", err)
	}

	ids := esr.Result.IDList
	if len(ids) > pubmedMaxArticles {
		ids = ids[:pubmedMaxArticles]
	}
	return ids, nil
}

// pubmedArticleSet is the subset of the efetch XML the adapter uses. An
// abstract may arrive as several labeled AbstractText blocks.
type pubmedArticleSet struct {
	Articles []struct {
		Citation struct {
			PMID    string `xml:"PMID"`
			Article struct {
				Title    string   `xml:"ArticleTitle"`
				Abstract []string `xml:"Abstract>AbstractText"`
			} `xml:"Article"`
		} `xml:"MedlineCitation"`
	} `xml:"PubmedArticle"`
}

func (a *PubMedAdapter) fetch(ctx context.Context, ids []string, cfg types.CollectConfig) ([]types.ContentRecord, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pubmedFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed fetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed fetch response: %w", err)
	}

	var records []types.ContentRecord
	for _, art := range set.Articles {
		c := art.Citation
		if c.PMID == "" || c.Article.Title == "" {
			continue
		}
		body := cleanContent(strings.Join(c.Article.Abstract, " "))
		if len(body) < minBodyLength(cfg) {
			continue
		}

		records = append(records, types.ContentRecord{
			Source:      "PubMed",
			Title:       strings.TrimSpace(c.Article.Title),
			Body:        body,
			OriginURL:   fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", c.PMID),
			Section:     classifyAbstract(body),
			ExtractedAt: time.Now(),
		})
	}
	return records, nil
}
