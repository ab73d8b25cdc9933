// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flora-engine/internal/catalog"
	"github.com/pdiddy/flora-engine/internal/resolve"
	"github.com/pdiddy/flora-engine/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [name]",
	Short: "Resolve a free-text species name against the catalog",
	Long: `Resolve fuzzy-matches a species name against the built-in catalog of
South African plants and reports the ranked candidates, the confidence
tier, and the query variants the collection stage would use. An unmatched
name is not an error: research proceeds with the name as given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	rawName := strings.Join(args, " ")
	cfg := pipelineConfig()

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	candidates := resolve.Resolve(rawName, cat, cfg.Resolve)
	variants := resolve.QueryVariants(rawName, cat, cfg.Resolve)
	term, _ := resolve.PrimaryQuery(candidates, rawName, "")

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		out := struct {
			Input        string                    `json:"input"`
			ResearchTerm string                    `json:"research_term"`
			Confidence   types.Confidence          `json:"confidence,omitempty"`
			Candidates   []types.CandidateIdentity `json:"candidates,omitempty"`
			Variants     []string                  `json:"variants"`
		}{Input: rawName, ResearchTerm: term, Variants: variants, Candidates: candidates}
		if len(candidates) > 0 {
			out.Confidence = resolve.ConfidenceFor(candidates[0].Similarity)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(candidates) == 0 {
		fmt.Printf("No catalog match for %q; research would use the name as given.\n", rawName)
	} else {
		fmt.Printf("%-24s  %-28s  %-16s  %s\n", "Matched Alias", "Scientific Name", "Family", "Similarity")
		fmt.Println(strings.Repeat("-", 80))
		for _, c := range candidates {
			fmt.Printf("%-24s  %-28s  %-16s  %.2f\n",
				c.MatchedAlias, c.ScientificName, c.Family, c.Similarity)
		}
		fmt.Printf("\nconfidence: %s\n", resolve.ConfidenceFor(candidates[0].Similarity))
	}
	fmt.Printf("research term: %s\n", term)
	fmt.Printf("query variants: %s\n", strings.Join(variants, ", "))
	return nil
}

// loadCatalog returns the embedded catalog, or one loaded from --catalog.
func loadCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func init() {
	resolveCmd.Flags().Bool("json", false, "output results as JSON")
	resolveCmd.Flags().String("catalog", "", "path to a species catalog YAML (default: built-in)")

	rootCmd.AddCommand(resolveCmd)
}
