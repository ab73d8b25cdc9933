// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// QueryOptions holds parameters for research store queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles and bodies.
	Query string

	// Subject filters by the run's raw species name.
	Subject string

	// Source filters by record source.
	Source string

	// Section filters by classified section.
	Section types.SectionType

	// RunID filters by run.
	RunID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Subject == "" && q.Source == "" && q.Section == "" && q.RunID == ""
}

// RecordResult is a stored record with its run context.
type RecordResult struct {
	types.ContentRecord
	RunID   string `json:"run_id" yaml:"run_id"`
	Subject string `json:"subject" yaml:"subject"`
}

// Retrieve queries stored records with optional full-text search and
// structured filters. Results are ranked by relevance for full-text
// queries, or by run and insertion order for structured-only queries.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]RecordResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT r.source, r.title, r.body, r.origin_url, r.section, r.extracted_at,
				r.run_id, runs.subject
			FROM records_fts
			JOIN records r ON r.rowid = records_fts.rowid
			JOIN runs ON r.run_id = runs.id
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT r.source, r.title, r.body, r.origin_url, r.section, r.extracted_at,
				r.run_id, runs.subject
			FROM records r
			JOIN runs ON r.run_id = runs.id
			WHERE 1=1`)
	}

	if opts.Subject != "" {
		qb.WriteString(` AND runs.subject = ?`)
		args = append(args, opts.Subject)
	}
	if opts.Source != "" {
		qb.WriteString(` AND r.source = ?`)
		args = append(args, opts.Source)
	}
	if opts.Section != "" {
		qb.WriteString(` AND r.section = ?`)
		args = append(args, string(opts.Section))
	}
	if opts.RunID != "" {
		qb.WriteString(` AND r.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.run_id, r.rowid`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying research store: %w", err)
	}
	defer rows.Close()

	var results []RecordResult
	for rows.Next() {
		var (
			rr          RecordResult
			title       sql.NullString
			originURL   sql.NullString
			section     sql.NullString
			extractedAt sql.NullString
		)
		if err := rows.Scan(
			&rr.Source, &title, &rr.Body, &originURL, &section, &extractedAt,
			&rr.RunID, &rr.Subject,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rr.Title = title.String
		rr.OriginURL = originURL.String
		rr.Section = types.SectionType(section.String)
		if extractedAt.Valid && extractedAt.String != "" {
			if t, err := time.Parse(time.RFC3339, extractedAt.String); err == nil {
				rr.ExtractedAt = t
			}
		}

		results = append(results, rr)
	}

	return results, rows.Err()
}

// RunInfo describes one stored run.
type RunInfo struct {
	ID           string `json:"id" yaml:"id"`
	Subject      string `json:"subject" yaml:"subject"`
	ResearchTerm string `json:"research_term,omitempty" yaml:"research_term,omitempty"`
	Confidence   string `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Synthetic    bool   `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
	CreatedAt    string `json:"created_at" yaml:"created_at"`
	Records      int    `json:"records" yaml:"records"`
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]RunInfo, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT runs.id, runs.subject, runs.research_term, runs.confidence,
			runs.synthetic, runs.created_at, count(r.rowid)
		FROM runs
		LEFT JOIN records r ON r.run_id = runs.id
		GROUP BY runs.id
		ORDER BY runs.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		var (
			ri           RunInfo
			researchTerm sql.NullString
			confidence   sql.NullString
			synthetic    int
		)
		if err := rows.Scan(&ri.ID, &ri.Subject, &researchTerm, &confidence,
			&synthetic, &ri.CreatedAt, &ri.Records); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		ri.ResearchTerm = researchTerm.String
		ri.Confidence = confidence.String
		ri.Synthetic = synthetic != 0
		infos = append(infos, ri)
	}
	return infos, rows.Err()
}
