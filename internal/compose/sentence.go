// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([,.!?;:])`)
	missingSpace     = regexp.MustCompile(`([.!?])([A-Z])`)
)

// cleanText collapses whitespace and repairs the spacing around
// punctuation that summarizers and scrapers tend to mangle.
func cleanText(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = missingSpace.ReplaceAllString(text, "$1 $2")
	return strings.TrimSpace(text)
}

// splitSentences breaks text into sentences at a terminator run followed
// by whitespace and an uppercase letter. Go's regexp has no lookahead, so
// this is a hand scanner rather than a split pattern. Abbreviation dots
// followed by lowercase stay inside their sentence.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// Absorb a run of terminators ("...", "?!").
		end := i + 1
		for end < len(runes) && isTerminator(runes[end]) {
			end++
		}
		// A sentence boundary needs whitespace and then an uppercase start.
		next := end
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		if next == end || next >= len(runes) || !unicode.IsUpper(runes[next]) {
			i = end - 1
			continue
		}

		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = next
		i = next - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// endsSentence reports whether s already carries terminal punctuation.
func endsSentence(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	return isTerminator(runes[len(runes)-1])
}

// truncateRunes bounds s to max runes without splitting a character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
