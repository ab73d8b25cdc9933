// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flora-engine/internal/collect"
	"github.com/pdiddy/flora-engine/internal/research"
	"github.com/pdiddy/flora-engine/internal/store"
	"github.com/pdiddy/flora-engine/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [name]",
	Short: "Collect content about a species from external sources",
	Long: `Research resolves the species name, fans the derived query variants out
to the enabled source adapters, and prints the merged records. Failing
sources produce warnings, never failures; when every source comes up
empty a synthetic profile record is produced instead.

Use --save to write the records to a YAML research file for later
composition, and --keep to persist the run into the research store.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	rawName := strings.Join(args, " ")
	cfg := pipelineConfig()

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	var confirmer research.TitleConfirmer
	if cfg.Collect.EnableEncyclopedia {
		confirmer = &collect.EncyclopediaAdapter{}
	}
	deps := research.Deps{
		Catalog:   cat,
		Adapters:  sourceAdapters(cfg.Collect),
		Confirmer: confirmer,
	}

	records, info := research.Aggregate(context.Background(), rawName, deps, cfg, os.Stderr)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := research.WriteResearchFile(savePath, records, info); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d record(s) to %s\n", len(records), savePath)
	}

	if keep, _ := cmd.Flags().GetBool("keep"); keep {
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		runID, err := s.SaveRun(context.Background(), store.Run{
			Subject:      info.Subject,
			ResearchTerm: info.ResearchTerm,
			Confidence:   string(info.Confidence),
			Synthetic:    info.Synthetic,
		}, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Stored run %s\n", runID)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		out := struct {
			Info    research.Info         `json:"info"`
			Records []types.ContentRecord `json:"records"`
		}{Info: info, Records: records}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Research for %q (term: %s)\n\n", info.Subject, info.ResearchTerm)
	for i, r := range records {
		body := r.Body
		if len(body) > 160 {
			body = body[:157] + "..."
		}
		fmt.Printf("%2d. [%s] %s (%s)\n    %s\n", i+1, r.Section, r.Title, r.Source, body)
	}
	fmt.Printf("\n%d record(s)", len(records))
	if info.Synthetic {
		fmt.Print(" (synthetic)")
	}
	fmt.Println()
	return nil
}

func init() {
	researchCmd.Flags().Bool("json", false, "output records as JSON")
	researchCmd.Flags().String("save", "", "write records to a YAML research file")
	researchCmd.Flags().Bool("keep", false, "persist the run into the research store")
	researchCmd.Flags().String("catalog", "", "path to a species catalog YAML (default: built-in)")

	rootCmd.AddCommand(researchCmd)
}
