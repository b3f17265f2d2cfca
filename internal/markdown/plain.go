package markdown

import (
	"regexp"
	"strings"
)

var (
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	listRe       = regexp.MustCompile(`(?m)^\s*(?:[\-\*\+]|\d+\.)\s+`)
	quoteRe      = regexp.MustCompile(`(?m)^>\s?`)
	emphasisRe   = regexp.MustCompile(`\*\*|__|~~|` + "`")
	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
)

// Paragraphs splits markdown into blocks separated by blank lines.
// Every block is returned, including empty ones, so indexes stay stable.
func Paragraphs(md string) []string {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	return blankLinesRe.Split(md, -1)
}

// Plain strips markdown syntax from a block, keeping its visible text.
// Link and image targets are dropped in favour of their labels.
func Plain(md string) string {
	text := imageRe.ReplaceAllString(md, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = headingRe.ReplaceAllString(text, "")
	text = listRe.ReplaceAllString(text, "")
	text = quoteRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// IsHeading reports whether a block is a single markdown heading.
func IsHeading(block string) bool {
	block = strings.TrimSpace(block)
	return headingRe.MatchString(block) && !strings.Contains(block, "\n")
}
