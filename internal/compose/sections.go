// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"strings"

	"github.com/pdiddy/flora-engine/pkg/types"
)

// sectionSpec describes one thematic section of the composed document:
// how records are routed to it, how the summarizer is instructed, and
// what text stands in when summarization yields nothing. Template strings
// use a {name} token for the subject.
type sectionSpec struct {
	Type    types.SectionType
	Heading string // empty for the introduction
	Class   string

	// Keywords route general records to this section by body scan (R1.2).
	Keywords []string

	// Instruction frames the summarization call for this section (R3.1).
	Instruction string

	// Fallback replaces the generated text when summarization fails or
	// the section has no content. Fallback texts are written to be
	// mutually distinct so an all-fallback document still has no
	// duplicate sentences.
	Fallback string

	// MaxRecords bounds how many records feed this section when the
	// config does not override it.
	MaxRecords int

	// MaxWords and MinWords bound the requested summary length.
	MaxWords, MinWords int
}

// introSpec is emitted first and without a heading (R5.2).
var introSpec = sectionSpec{
	Type:        types.SectionGeneral,
	Class:       "intro",
	Instruction: "Write a compelling introduction about {name} highlighting its significance as a South African plant species",
	Fallback:    "{name} stands as a distinctive representative of South Africa's remarkable botanical heritage, showcasing the unique adaptations that make this region's flora so extraordinary.",
	MaxRecords:  1,
	MaxWords:    80,
	MinWords:    40,
}

// themedSpecs are emitted after the introduction in fixed order, each
// preceded by its heading (R5.3).
var themedSpecs = []sectionSpec{
	{
		Type:        types.SectionCharacteristics,
		Heading:     "Distinctive Features",
		Class:       "section-characteristics",
		Keywords:    []string{"appearance", "features", "characteristics", "looks", "size", "color", "shape", "form", "structure"},
		Instruction: "Describe the unique physical characteristics and distinctive features of {name}",
		Fallback:    "This remarkable species displays unique morphological adaptations that distinguish it from other plants in its family, with specialized features that reflect its evolutionary journey in South African landscapes.",
		MaxRecords:  2,
		MaxWords:    100,
		MinWords:    50,
	},
	{
		Type:        types.SectionHabitat,
		Heading:     "Natural Habitat & Ecology",
		Class:       "section-habitat",
		Keywords:    []string{"habitat", "grows", "environment", "climate", "soil", "native", "distribution", "range"},
		Instruction: "Explain the natural habitat, growing conditions, and ecological role of {name}",
		Fallback:    "The natural distribution of {name} reflects South Africa's diverse ecosystems, where it has evolved to occupy a specific ecological niche that supports both its survival and its role in the broader environmental web.",
		MaxRecords:  2,
		MaxWords:    100,
		MinWords:    50,
	},
	{
		Type:        types.SectionCultural,
		Heading:     "Cultural Heritage & Traditional Uses",
		Class:       "section-cultural",
		Keywords:    []string{"traditional", "cultural", "uses", "medicine", "history", "indigenous", "ceremony", "healing"},
		Instruction: "Discuss the cultural significance and traditional applications of {name} in South African communities",
		Fallback:    "Like many indigenous South African plants, {name} carries deep cultural significance, representing the intricate relationship between local communities and their natural environment across generations.",
		MaxRecords:  2,
		MaxWords:    100,
		MinWords:    50,
	},
	{
		Type:        types.SectionConservation,
		Heading:     "Conservation & Future Prospects",
		Class:       "section-conservation",
		Keywords:    []string{"conservation", "threat", "endangered", "protect", "status", "vulnerable", "extinct"},
		Instruction: "Address conservation concerns and future prospects for {name}",
		Fallback:    "Conservation efforts for {name} are essential to preserve this valuable component of South Africa's botanical diversity, ensuring that future generations can appreciate its unique contributions to the country's natural heritage.",
		MaxRecords:  2,
		MaxWords:    100,
		MinWords:    50,
	},
}

// aboutHeading and aboutText pad a critically thin document (R6.1).
const (
	aboutHeading = "About This Species"
	aboutText    = "Research into {name} continues to reveal the fascinating complexity of South African flora. This species represents the ongoing discovery of botanical treasures that contribute to our understanding of plant evolution and ecological relationships in this biodiverse region."
)

// titleVariations are the candidate article titles; one is picked by the
// assembler's injected randomness source.
var titleVariations = []string{
	"Discovering {name}: A South African Botanical Treasure",
	"The Remarkable {name}: Indigenous Beauty of South Africa",
	"{name}: A Journey into South African Flora",
	"Exploring {name}: Nature's Masterpiece from South Africa",
	"{name}: Where Beauty Meets Botanical Wonder",
	"The Story of {name}: A South African Native",
	"Unveiling {name}: Botanical Heritage of South Africa",
	"{name} and the Rich Tapestry of South African Flora",
}

// fallbackDocBlocks are the fully templated substitute document used when
// post-compose validation finds a duplicate (R7.2). No summarization calls
// are involved, and the texts share no sentence.
var fallbackDocBlocks = []struct {
	Heading string
	Class   string
	Text    string
}{
	{
		Class: "intro",
		Text:  "{name} represents one of South Africa's many remarkable indigenous plant species, contributing to the country's reputation as one of the world's most botanically diverse regions.",
	},
	{
		Heading: "South African Flora Heritage",
		Class:   "section-heritage",
		Text:    "As part of South Africa's rich botanical tapestry, {name} has evolved unique characteristics that reflect millions of years of adaptation to the continent's diverse climates and landscapes.",
	},
	{
		Heading: "Ecological Significance",
		Class:   "section-ecology",
		Text:    "The presence of species like {name} highlights the intricate ecological relationships that have developed across South African biomes, from coastal regions to mountainous terrain.",
	},
	{
		Heading: "Conservation Importance",
		Class:   "section-conservation",
		Text:    "Understanding and preserving native species such as {name} remains crucial for maintaining South Africa's extraordinary biodiversity and the ecosystem services these plants provide.",
	},
}

// fillName substitutes the subject into a {name} template.
func fillName(tmpl, subject string) string {
	return strings.ReplaceAll(tmpl, "{name}", subject)
}

// scanSection routes a general or unclassified record to the themed
// section whose keyword set scores the most hits against the body. Ties
// go to the earlier section in emission order; zero hits leave the record
// in the general pool.
func scanSection(body string) (types.SectionType, bool) {
	lower := strings.ToLower(body)
	bestType := types.SectionUnclassified
	bestHits := 0
	for _, spec := range themedSpecs {
		hits := 0
		for _, kw := range spec.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestType = spec.Type
		}
	}
	if bestHits == 0 {
		return types.SectionUnclassified, false
	}
	return bestType, true
}
