// Package textclean normalizes article text for structured output.
// Every function here is pure and safe on arbitrary UTF-8 input.
package textclean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	tagRe      = regexp.MustCompile(`(?s)<!--.*?-->|</?[a-zA-Z][^>]*>`)
	blockTagRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

var punctuation = strings.NewReplacer(
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"\u2013", "-",
	"\u2014", "-",
)

// Normalize decodes entities, strips markup, maps smart quotes and dashes to
// ASCII, replaces control characters, collapses whitespace and trims.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToValidUTF8(text, "")

	// Decoding can reveal tags, and dash mapping can complete a comment, so
	// repeat until nothing changes. No step ever grows the text.
	for {
		next := StripTags(punctuation.Replace(html.UnescapeString(replaceControl(text))))
		if next == text {
			break
		}
		text = next
	}

	text = norm.NFC.String(text)
	text = spacesRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// StripTags removes HTML tags, comments and script/style blocks.
// It does not decode entities.
func StripTags(text string) string {
	text = blockTagRe.ReplaceAllString(text, "")
	return tagRe.ReplaceAllString(text, "")
}

// replaceControl maps every control character, including tabs and line
// breaks, to a plain space.
func replaceControl(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
}

// Truncate shortens text to at most limit runes, cutting back to the last
// space and appending "...". Text within the limit is returned unchanged.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	truncated := string([]rune(text)[:limit])
	if i := strings.LastIndex(truncated, " "); i >= 0 {
		truncated = truncated[:i]
	}
	return strings.TrimRightFunc(truncated, unicode.IsSpace) + "..."
}

// Prefix returns the first n runes of text.
func Prefix(text string, n int) string {
	if n < 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
