// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/flora-engine/pkg/types"
)

func withEUtilsServer(t *testing.T, search, fetch http.HandlerFunc) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/esearch.fcgi", search)
	mux.HandleFunc("/efetch.fcgi", fetch)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	oldSearch, oldFetch := pubmedSearchBase, pubmedFetchBase
	pubmedSearchBase = ts.URL + "/esearch.fcgi"
	pubmedFetchBase = ts.URL + "/efetch.fcgi"
	t.Cleanup(func() {
		pubmedSearchBase, pubmedFetchBase = oldSearch, oldFetch
	})
}

func pubmedArticle(pmid, title, abstract string) string {
	return fmt.Sprintf(`<PubmedArticle><MedlineCitation><PMID>%s</PMID>
<Article><ArticleTitle>%s</ArticleTitle>
<Abstract><AbstractText>%s</AbstractText></Abstract></Article>
</MedlineCitation></PubmedArticle>`, pmid, title, abstract)
}

func TestPubMedCollect(t *testing.T) {
	culturalAbstract := "Sceletium tortuosum has a long history of traditional " +
		"use by indigenous peoples of South Africa as a mood-altering remedy."
	plainAbstract := "Alkaloid profiling identified mesembrine as the dominant " +
		"compound across cultivated accessions of the species."

	var gotTerm, gotIDs string
	withEUtilsServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			gotTerm = r.URL.Query().Get("term")
			fmt.Fprint(w, `{"esearchresult":{"idlist":["111","222","333","444","555"]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			gotIDs = r.URL.Query().Get("id")
			fmt.Fprintf(w, `<PubmedArticleSet>%s%s%s</PubmedArticleSet>`,
				pubmedArticle("111", "Ethnopharmacology of kanna", culturalAbstract),
				pubmedArticle("222", "Mesembrine alkaloids", plainAbstract),
				pubmedArticle("333", "Stub entry", "Too short."))
		})

	a := &PubMedAdapter{}
	records, err := a.Collect(context.Background(), []string{"Sceletium tortuosum"}, types.CollectConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (short abstract dropped)", len(records))
	}

	if !strings.Contains(gotTerm, `"Sceletium tortuosum"`) {
		t.Errorf("search term = %q, want quoted variant", gotTerm)
	}
	if gotIDs != "111,222,333" {
		t.Errorf("fetch ids = %q, want first %d", gotIDs, pubmedMaxArticles)
	}

	r := records[0]
	if r.Source != "PubMed" {
		t.Errorf("source = %q", r.Source)
	}
	if r.OriginURL != "https://pubmed.ncbi.nlm.nih.gov/111/" {
		t.Errorf("origin = %q", r.OriginURL)
	}
	if r.Section != types.SectionCultural {
		t.Errorf("cultural abstract classified as %q", r.Section)
	}
	if records[1].Section != types.SectionCharacteristics {
		t.Errorf("plain abstract classified as %q", records[1].Section)
	}
}

func TestPubMedCollectStopsAfterVariantLimit(t *testing.T) {
	var searches int
	withEUtilsServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			searches++
			fmt.Fprint(w, `{"esearchresult":{"idlist":[]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("efetch called despite empty id list")
		})

	a := &PubMedAdapter{}
	records, err := a.Collect(context.Background(),
		[]string{"one", "two", "three"}, types.CollectConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if records != nil {
		t.Errorf("records = %v, want none", records)
	}
	if searches != pubmedVariantLimit {
		t.Errorf("searches = %d, want %d", searches, pubmedVariantLimit)
	}
}

func TestPubMedCollectSurfacesServerError(t *testing.T) {
	withEUtilsServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		func(w http.ResponseWriter, r *http.Request) {})

	a := &PubMedAdapter{}
	_, err := a.Collect(context.Background(), []string{"kanna"}, types.CollectConfig{})
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("err = %v", err)
	}
}

func TestPubMedCollectSkipsArticlesWithoutAbstract(t *testing.T) {
	withEUtilsServer(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"esearchresult":{"idlist":["999"]}}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<PubmedArticleSet><PubmedArticle><MedlineCitation>
<PMID>999</PMID><Article><ArticleTitle>Abstract-free entry</ArticleTitle></Article>
</MedlineCitation></PubmedArticle></PubmedArticleSet>`)
		})

	a := &PubMedAdapter{}
	records, err := a.Collect(context.Background(), []string{"kanna"}, types.CollectConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if records != nil {
		t.Errorf("records = %v, want none without abstracts", records)
	}
}
