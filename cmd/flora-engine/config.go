// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/flora-engine/internal/collect"
	"github.com/pdiddy/flora-engine/pkg/types"
)

func init() {
	viper.SetDefault("resolve.match_threshold", 0.6)
	viper.SetDefault("resolve.variant_threshold", 0.3)
	viper.SetDefault("resolve.max_variants", 5)

	viper.SetDefault("collect.timeout", "10s")
	viper.SetDefault("collect.user_agent", "flora-engine/"+version)
	viper.SetDefault("collect.request_delay", "1s")
	viper.SetDefault("collect.max_concurrent", 3)
	viper.SetDefault("collect.min_body_length", 30)
	viper.SetDefault("collect.enable_encyclopedia", true)
	viper.SetDefault("collect.enable_pubmed", true)
	viper.SetDefault("collect.enable_academic", true)
	viper.SetDefault("collect.enable_site", true)

	viper.SetDefault("compose.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("compose.max_retries", 3)
	viper.SetDefault("compose.timeout", "60s")
	viper.SetDefault("compose.max_records_per_section", 2)
	viper.SetDefault("compose.max_section_chars", 1500)
	viper.SetDefault("compose.min_blocks", 4)

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.max_results", 20)
}

// pipelineConfig assembles the full stage configuration from viper, with
// API credentials falling back to .secrets/ entries.
func pipelineConfig() types.PipelineConfig {
	cfg := types.PipelineConfig{
		Resolve: types.ResolveConfig{
			MatchThreshold:   viper.GetFloat64("resolve.match_threshold"),
			VariantThreshold: viper.GetFloat64("resolve.variant_threshold"),
			MaxVariants:      viper.GetInt("resolve.max_variants"),
		},
		Collect: types.CollectConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   durationOr("collect.timeout", 10*time.Second),
				UserAgent: viper.GetString("collect.user_agent"),
			},
			RequestDelay:       durationOr("collect.request_delay", time.Second),
			MaxConcurrent:      viper.GetInt64("collect.max_concurrent"),
			MinBodyLength:      viper.GetInt("collect.min_body_length"),
			EnableEncyclopedia: viper.GetBool("collect.enable_encyclopedia"),
			EnablePubMed:       viper.GetBool("collect.enable_pubmed"),
			EnableAcademic:     viper.GetBool("collect.enable_academic"),
			EnableSite:         viper.GetBool("collect.enable_site"),
			AcademicEmail:      secretDefault("openalex-email", viper.GetString("collect.academic_email")),
		},
		Compose: types.ComposeConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("compose.model"),
				APIKey:     secretDefault("anthropic-api-key", viper.GetString("compose.api_key")),
				MaxRetries: viper.GetInt("compose.max_retries"),
				Timeout:    durationOr("compose.timeout", 60*time.Second),
			},
			MaxRecordsPerSection: viper.GetInt("compose.max_records_per_section"),
			MaxSectionChars:      viper.GetInt("compose.max_section_chars"),
			MinBlocks:            viper.GetInt("compose.min_blocks"),
		},
		Store: types.StoreConfig{
			DataDir:    viper.GetString("store.data_dir"),
			MaxResults: viper.GetInt("store.max_results"),
		},
	}
	return cfg
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}

// sourceAdapters builds the enabled collection adapters in their fixed
// priority order.
func sourceAdapters(cfg types.CollectConfig) []collect.Adapter {
	var adapters []collect.Adapter
	if cfg.EnableEncyclopedia {
		adapters = append(adapters, &collect.EncyclopediaAdapter{})
	}
	if cfg.EnablePubMed {
		adapters = append(adapters, &collect.PubMedAdapter{})
	}
	if cfg.EnableAcademic {
		adapters = append(adapters, &collect.AcademicAdapter{})
	}
	if cfg.EnableSite {
		adapters = append(adapters, &collect.SiteAdapter{})
	}
	return adapters
}
