package extract

import (
	"regexp"
	"unicode/utf8"

	"github.com/mfenderov/geo-schema/internal/segment"
	"github.com/mfenderov/geo-schema/internal/textclean"
)

// MaxClaims is the number of claim sentences kept per article.
const MaxClaims = 3

const (
	maxKeyFacts = 5
	maxDates    = 10
	maxEntities = 10

	minNumericLen = 30
	maxNumericLen = 280
)

var (
	// keyFactRe matches a capitalized run of 20-100 characters closed by a period.
	keyFactRe = regexp.MustCompile(`\b([A-Z][^.!?]{20,100}?\.)`)

	// numberRe matches a standalone 2-4 digit number.
	numberRe = regexp.MustCompile(`\b\d{2,4}\b`)

	// numericKeywordRe matches the units that make a number worth citing.
	numericKeywordRe = regexp.MustCompile(`(?i)\b(years?|signs?|cycles?|transits?|dates?|percent|times?|centur(y|ies)|ages?)\b`)

	// dateRe matches "Month DD, YYYY" with English month names.
	dateRe = regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`)

	// entityRe is a naive proper noun heuristic: two or more capitalized words.
	entityRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`)

	// claimRe matches evidentiary language up to the end of its sentence.
	claimRe = regexp.MustCompile(`(?i)\b(?:studies|reports|data|according to|research shows|experts say)\b[^.]{10,200}\.`)
)

// KeyFacts returns up to five short capitalized statements.
func KeyFacts(text string) []string {
	var facts []string
	for _, m := range keyFactRe.FindAllStringSubmatch(text, maxKeyFacts) {
		facts = append(facts, m[1])
	}
	return facts
}

// NumericFacts returns sentences that pair a 2-4 digit number with a unit
// keyword, between 30 and 280 characters long, without duplicates.
func NumericFacts(text string) []string {
	var facts []string
	for _, s := range segment.Sentences(text) {
		if !numberRe.MatchString(s) || !numericKeywordRe.MatchString(s) {
			continue
		}
		clean := textclean.Normalize(s)
		if n := utf8.RuneCountInString(clean); n <= minNumericLen || n >= maxNumericLen {
			continue
		}
		facts = append(facts, clean)
	}
	return dedupe(facts)
}

// Dates returns up to ten "Month DD, YYYY" references.
func Dates(text string) []string {
	return dateRe.FindAllString(text, maxDates)
}

// Entities returns up to ten distinct multi-word proper nouns.
func Entities(text string) []string {
	var entities []string
	seen := make(map[string]bool)
	for _, m := range entityRe.FindAllStringSubmatch(text, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		entities = append(entities, m[1])
		if len(entities) == maxEntities {
			break
		}
	}
	return entities
}

// Claims returns up to three sentences built on evidentiary language such as
// "studies" or "according to". Matches are returned verbatim.
func Claims(text string) []string {
	return claimRe.FindAllString(text, MaxClaims)
}

// dedupe drops repeated strings, keeping the first occurrence of each.
func dedupe(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

// Cap returns the first limit runes of text.
func Cap(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultTextLimit
	}
	return textclean.Prefix(text, limit)
}
