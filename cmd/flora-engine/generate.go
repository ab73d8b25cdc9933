// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/flora-engine/internal/collect"
	"github.com/pdiddy/flora-engine/internal/compose"
	"github.com/pdiddy/flora-engine/internal/research"
	"github.com/pdiddy/flora-engine/internal/summarize"
	"github.com/pdiddy/flora-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [name]",
	Short: "Generate a species profile article end to end",
	Long: `Generate runs the full pipeline for one species name: resolve, collect,
aggregate, and compose. It always produces a renderable document; source
failures degrade to fallback section text and, in the worst case, to a
fully templated fallback article.

With --from, composition reads records from a saved research file instead
of querying sources. Without an API key the summarization step is skipped
and every section uses its fallback text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	rawName := strings.Join(args, " ")
	cfg := pipelineConfig()
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Compose.Model = model
	}

	cat, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	var summarizer summarize.Summarizer
	if cfg.Compose.APIKey != "" {
		summarizer = &summarize.ClaudeBackend{Config: cfg.Compose.AIConfig}
	} else {
		fmt.Fprintln(os.Stderr, "no API key configured, sections will use fallback text")
	}

	var confirmer research.TitleConfirmer
	if cfg.Collect.EnableEncyclopedia {
		confirmer = &collect.EncyclopediaAdapter{}
	}

	pipeline := &research.Pipeline{
		Deps: research.Deps{
			Catalog:   cat,
			Adapters:  sourceAdapters(cfg.Collect),
			Confirmer: confirmer,
		},
		Assembler: &compose.Assembler{Summarizer: summarizer, Config: cfg.Compose},
		Config:    cfg,
	}

	ctx := context.Background()
	var doc types.Document
	if fromPath, _ := cmd.Flags().GetString("from"); fromPath != "" {
		rf, err := research.ReadResearchFile(fromPath)
		if err != nil {
			return err
		}
		doc = pipeline.Compose(ctx, rawName, rf.Records)
	} else {
		doc, _ = pipeline.Generate(ctx, rawName, os.Stderr)
	}

	if doc.Fallback {
		fmt.Fprintln(os.Stderr, "validation rejected the composed article, emitting the fallback document")
	}

	format, _ := cmd.Flags().GetString("format")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	out := os.Stdout
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		ext := "md"
		if format == "json" {
			ext = "json"
		}
		path := filepath.Join(outputDir, fmt.Sprintf("%s-%s.%s", doc.Meta.Date, doc.Meta.Slug, ext))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
		fmt.Fprintf(os.Stderr, "Writing %s\n", path)
	}

	switch format {
	case "markdown", "":
		return compose.FormatMarkdown(out, doc)
	case "json":
		return compose.FormatJSON(out, doc)
	default:
		return fmt.Errorf("unsupported format %q: use markdown or json", format)
	}
}

func init() {
	generateCmd.Flags().String("format", "markdown", "output format: markdown or json")
	generateCmd.Flags().String("output-dir", "", "write the article to this directory instead of stdout")
	generateCmd.Flags().String("from", "", "compose from a saved research file instead of querying sources")
	generateCmd.Flags().String("model", "", "AI model identifier for summarization")
	generateCmd.Flags().String("catalog", "", "path to a species catalog YAML (default: built-in)")

	rootCmd.AddCommand(generateCmd)
}
