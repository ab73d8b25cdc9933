// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/flora-engine/internal/catalog"
	"github.com/pdiddy/flora-engine/internal/resolve"
	"github.com/pdiddy/flora-engine/pkg/types"
)

// matchedFallbackTmpl is the synthetic profile used when the catalog knows
// the species: it is parameterized by the best-known identity (R3.4).
var matchedFallbackTmpl = template.Must(template.New("matched").Parse(
	`{{.Name}} ({{.Scientific}}) is a remarkable plant species native to South Africa, belonging to the {{.Family}} family. It is also known by several common names including {{.CommonNames}}. This indigenous species represents the incredible diversity of South African flora, having evolved unique adaptations to thrive in the region's varied climate zones and soil conditions.

South African plants like {{.Name}} have developed fascinating survival strategies over millions of years of evolution. These adaptations allow them to withstand challenging environmental conditions including drought, extreme temperatures, and nutrient-poor soils. Many species have also developed important ecological relationships with local wildlife, serving as food sources for birds, insects, and other animals.

The cultural significance of {{.Name}} extends beyond its ecological role. Like many South African plants, it has likely been known and utilized by indigenous communities for generations, contributing to traditional knowledge systems about local flora. This traditional botanical knowledge represents centuries of observation and experimentation, providing valuable insights into sustainable plant use and conservation.

Conservation of species like {{.Name}} is crucial for maintaining South Africa's status as one of the world's most biodiverse countries. These plants not only contribute to ecosystem health and stability but also represent potential resources for medicine, horticulture, and sustainable development initiatives.`))

// unmatchedFallbackTmpl is the synthetic profile used when the name matched
// nothing in the catalog.
var unmatchedFallbackTmpl = template.Must(template.New("unmatched").Parse(
	`{{.Name}} is a remarkable plant species native to South Africa, representing the extraordinary diversity found within the country's flora. South Africa is recognized as one of the world's most biodiverse regions, home to an estimated 24,000 plant species, many of which are found nowhere else on Earth.

Indigenous plants like {{.Name}} have evolved unique characteristics and adaptations that allow them to thrive in South Africa's diverse landscapes. From the Mediterranean climate of the Western Cape to the subtropical regions of KwaZulu-Natal, these plants have developed sophisticated strategies for survival in challenging conditions.

The cultural heritage associated with South African plants is deeply intertwined with the history of the region's people. Indigenous communities have developed extensive knowledge about local flora over thousands of years, understanding their medicinal properties, ecological relationships, and sustainable harvesting practices.

Conservation efforts for plants like {{.Name}} are essential for preserving South Africa's botanical heritage. These species contribute to ecosystem stability, provide habitat for wildlife, and may hold keys to future medical discoveries or sustainable agricultural practices. Understanding and protecting this botanical diversity is crucial for maintaining healthy ecosystems and supporting local communities.`))

// syntheticSource names the synthetic record's origin.
const syntheticSource = "Synthetic Profile"

// syntheticRecord builds the guaranteed-fallback content record. The
// catalog is consulted at the looser variant threshold so even a weak
// match still enriches the template with the scientific name and family.
func syntheticRecord(rawName string, cat *catalog.Catalog, cfg types.ResolveConfig) types.ContentRecord {
	loose := cfg
	if loose.MatchThreshold <= 0 || loose.MatchThreshold > resolve.DefaultVariantThreshold {
		loose.MatchThreshold = resolve.DefaultVariantThreshold
	}
	candidates := resolve.Resolve(rawName, cat, loose)

	var buf bytes.Buffer
	if len(candidates) > 0 {
		best := candidates[0]
		commonNames := best.CommonNames
		if len(commonNames) > 3 {
			commonNames = commonNames[:3]
		}
		matchedFallbackTmpl.Execute(&buf, struct {
			Name, Scientific, Family, CommonNames string
		}{
			Name:        rawName,
			Scientific:  best.ScientificName,
			Family:      best.Family,
			CommonNames: strings.Join(commonNames, ", "),
		})
	} else {
		unmatchedFallbackTmpl.Execute(&buf, struct{ Name string }{Name: rawName})
	}

	return types.ContentRecord{
		Source:      syntheticSource,
		Title:       rawName + " - South African Plant Profile",
		Body:        buf.String(),
		Section:     types.SectionGeneral,
		ExtractedAt: time.Now(),
	}
}
