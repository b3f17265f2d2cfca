package processor

import (
	"fmt"
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/mfenderov/geo-schema/internal/markdown"
	"github.com/mfenderov/geo-schema/internal/textclean"
)

// promotionalSelector targets widget containers and tracked embeds.
const promotionalSelector = `[class*="widget"], iframe[data-test-id]`

// minPassageWords is the word count a paragraph must exceed to be citable.
const minPassageWords = 20

// Passage is a paragraph of article text suitable for direct quotation.
type Passage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Processor turns rendered article HTML into clean text renditions.
type Processor struct{}

// New creates a new article processor.
func New() *Processor {
	return &Processor{}
}

// StripPromotional removes widget containers and tracked iframes from the
// article and returns its readable text. Block elements become line breaks.
// Markup that cannot be parsed falls back to a plain tag strip.
func (p *Processor) StripPromotional(htmlContent string) string {
	if strings.TrimSpace(htmlContent) == "" {
		return ""
	}

	doc, err := p.clean(htmlContent)
	if err != nil {
		slog.Debug("html parse failed, stripping tags", "error", err)
		return fallbackText(htmlContent)
	}

	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		collectText(&b, n)
	}
	return normalizeWhitespace(b.String())
}

// Markdown converts the article, without promotional elements, into Markdown.
func (p *Processor) Markdown(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", nil
	}

	doc, err := p.clean(htmlContent)
	if err != nil {
		return "", err
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to render body: %w", err)
	}

	md, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(md), nil
}

// Passages splits the article into paragraphs of more than twenty words,
// each cleaned for citation. Passage IDs follow paragraph position.
func (p *Processor) Passages(htmlContent string) ([]Passage, error) {
	md, err := p.Markdown(htmlContent)
	if err != nil {
		return nil, err
	}

	var passages []Passage
	for i, block := range markdown.Paragraphs(md) {
		if markdown.IsHeading(block) {
			continue
		}
		plain := markdown.Plain(block)
		if len(strings.Fields(plain)) <= minPassageWords {
			continue
		}
		passages = append(passages, Passage{
			ID:   fmt.Sprintf("chunk-%d", i),
			Text: textclean.CleanForCitation(plain),
		})
	}
	return passages, nil
}

// ExtractTitle extracts the <title> content from HTML.
func (p *Processor) ExtractTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var findTitle func(*html.Node)
	findTitle = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}
	findTitle(doc)

	return textclean.Normalize(title)
}

// clean parses the article and drops promotional subtrees. Removals are
// independent, so selection order does not matter.
func (p *Processor) clean(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	removed := doc.Find(promotionalSelector).Remove()
	if removed.Length() > 0 {
		slog.Debug("removed promotional elements", "count", removed.Length())
	}
	return doc, nil
}

func fallbackText(htmlContent string) string {
	return normalizeWhitespace(html.UnescapeString(textclean.StripTags(htmlContent)))
}
