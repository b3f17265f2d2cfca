package textclean

import (
	"regexp"
	"strings"
)

var (
	// citationMarkerRe matches bracketed numeric references like [1] or [23].
	citationMarkerRe = regexp.MustCompile(`\[\d+\]`)

	// callToActionRe matches link prompts that make no sense out of context.
	callToActionRe = regexp.MustCompile(`(?i)\b(click here|read more|learn more)\b`)

	// positionalRe matches references to page layout.
	positionalRe = regexp.MustCompile(`(?i)\b(above|below|previous|next)\b`)

	// researchRe standardizes hedged research phrasing.
	researchRe = regexp.MustCompile(`(?i)according to studies|research shows`)

	// hypeRe matches marketing adjectives that weaken a citation.
	hypeRe = regexp.MustCompile(`(?i)\b(amazing|incredible|unbelievable|shocking)\b`)

	// inlineSpacesRe collapses the gaps left behind by removals.
	inlineSpacesRe = regexp.MustCompile(` {2,}`)
)

var readability = strings.NewReplacer(
	"...", " [...] ",
	"\u2026", " [...] ",
)

// CleanForCitation prepares a sentence for quoting: it normalizes the text,
// drops calls to action, positional references and hype adjectives, rewrites
// research phrasing to "research indicates" and spaces out ellipses.
// Bracketed numeric citation markers are preserved verbatim.
func CleanForCitation(text string) string {
	text = Normalize(text)
	if text == "" {
		return ""
	}

	// Markers are swapped out while phrase rules run so no rule can touch them.
	markers := citationMarkerRe.FindAllString(text, -1)
	text = citationMarkerRe.ReplaceAllString(text, "\x00")

	text = callToActionRe.ReplaceAllString(text, "")
	text = positionalRe.ReplaceAllString(text, "")
	text = researchRe.ReplaceAllString(text, "research indicates")
	text = hypeRe.ReplaceAllString(text, "")
	text = readability.Replace(text)

	for _, m := range markers {
		text = strings.Replace(text, "\x00", m, 1)
	}

	text = inlineSpacesRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
