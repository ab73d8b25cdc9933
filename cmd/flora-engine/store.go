// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flora-engine/internal/store"
	"github.com/pdiddy/flora-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the research store (retrieve, runs, export, status)",
	Long: `Store manages the local SQLite research store that research --keep writes
to. Use subcommands to query stored records, list runs, export, or report
store statistics.`,
}

// --- retrieve subcommand ---

var storeRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query stored records with full-text search and filters",
	Long: `Retrieve searches stored records using FTS5 full-text search over titles
and bodies, structured filters (subject, source, section, run), or a
combination of both.`,
	RunE: runStoreRetrieve,
}

func runStoreRetrieve(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := storeOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --subject, --source, --section, or --run")
	}

	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-16s  %-50s  %s\n",
		"Rank", "Subject", "Source", "Body", "Section")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 105))
	for i, r := range results {
		body := r.Body
		if len(body) > 50 {
			body = body[:47] + "..."
		}
		subject := r.Subject
		if len(subject) > 20 {
			subject = subject[:17] + "..."
		}
		source := r.Source
		if len(source) > 16 {
			source = source[:13] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-16s  %-50s  %s\n",
			i+1, subject, source, body, r.Section)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// --- runs subcommand ---

var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored research runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := s.Runs(context.Background(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs stored.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-24s  %-10s  %-7s  %s\n",
			"ID", "Subject", "Research Term", "Confidence", "Records", "Created")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 125))
		for _, ri := range runs {
			term := ri.ResearchTerm
			if ri.Synthetic {
				term += " (synthetic)"
			}
			fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-24s  %-10s  %-7d  %s\n",
				ri.ID, ri.Subject, term, ri.Confidence, ri.Records, ri.CreatedAt)
		}
		return nil
	},
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to YAML or JSON",
	Long: `Export writes the research store (or a filtered subset) to
data/index/export.yaml or export.json. Supports the same filter flags as
retrieve for partial exports.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	opts := storeOptsFromFlags(cmd, args)
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "yaml", "":
		if err := s.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.yaml")
	case "json":
		if err := s.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println("Exported to index/export.json")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	return nil
}

// --- status subcommand ---

var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report research store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		st, err := s.Stats(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("runs: %d\nrecords: %d\nsubjects: %d\n", st.Runs, st.Records, st.Subjects)
		if len(st.BySource) > 0 {
			fmt.Println("by source:")
			for source, n := range st.BySource {
				fmt.Printf("  %s: %d\n", source, n)
			}
		}
		return nil
	},
}

// --- shared helpers ---

func openStore() (*store.Store, error) {
	return store.NewStore(pipelineConfig().Store)
}

func storeOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	subject, _ := cmd.Flags().GetString("subject")
	source, _ := cmd.Flags().GetString("source")
	section, _ := cmd.Flags().GetString("section")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Subject:    subject,
		Source:     source,
		Section:    types.SectionType(section),
		RunID:      runID,
		MaxResults: limit,
	}
}

func init() {
	// Retrieve flags.
	storeRetrieveCmd.Flags().String("query", "", "full-text search query")
	storeRetrieveCmd.Flags().String("subject", "", "filter by species name")
	storeRetrieveCmd.Flags().String("source", "", "filter by record source")
	storeRetrieveCmd.Flags().String("section", "", "filter by section: general, characteristics, habitat, cultural, conservation")
	storeRetrieveCmd.Flags().String("run", "", "filter by run ID")
	storeRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Runs flags.
	storeRunsCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")

	// Export flags.
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	storeExportCmd.Flags().String("subject", "", "filter by species name for partial export")
	storeExportCmd.Flags().String("source", "", "filter by record source for partial export")
	storeExportCmd.Flags().String("section", "", "filter by section for partial export")
	storeExportCmd.Flags().String("run", "", "filter by run ID for partial export")
	storeExportCmd.Flags().Int("limit", 0, "maximum records to export (0 = all)")

	// Wire subcommands.
	storeCmd.AddCommand(storeRetrieveCmd)
	storeCmd.AddCommand(storeRunsCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeStatusCmd)

	rootCmd.AddCommand(storeCmd)
}
