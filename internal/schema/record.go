package schema

import (
	"log/slog"
	"time"

	"github.com/mfenderov/geo-schema/internal/textclean"
	"github.com/mfenderov/geo-schema/pkg/models"
)

const maxDescription = 300

// Record projects a unit and its assembled document into a searchable record.
// Markdown and passage extraction failures leave those fields empty.
func (a *Assembler) Record(unit models.ContentUnit, doc *Document) models.SchemaRecord {
	rec := models.SchemaRecord{
		ID:          unit.ID,
		URL:         unit.URL,
		Headline:    doc.Headline,
		Author:      doc.Author.Name,
		AuthorURL:   unit.AuthorURL,
		Category:    unit.Category,
		Description: textclean.Truncate(textclean.Normalize(unit.Excerpt), maxDescription),
		Published:   unit.PublishedAt,
		Modified:    unit.ModifiedAt,
		Summary:     doc.Conclusion.Text,
		Confidence:  ConfidenceScore(unit),
		Schema:      string(Encode(doc)),
		GeneratedAt: time.Now().UTC(),
	}
	if rec.ID == "" {
		rec.ID = models.GenerateContentID(unit.URL)
	}

	for _, c := range doc.TextChunks {
		rec.Chunks = append(rec.Chunks, c.Text)
	}
	for _, c := range doc.Claims {
		rec.Claims = append(rec.Claims, c.Text)
	}
	for _, q := range doc.FAQs() {
		rec.FAQs = append(rec.FAQs, models.QAPair{Question: q.Name, Answer: q.AcceptedAnswer.Text})
	}

	md, err := a.processor.Markdown(unit.Body)
	if err != nil {
		slog.Warn("Failed to convert article to markdown", "url", unit.URL, "error", err)
	}
	rec.Content = md

	passages, err := a.processor.Passages(unit.Body)
	if err != nil {
		slog.Warn("Failed to extract passages", "url", unit.URL, "error", err)
	}
	for _, p := range passages {
		rec.Passages = append(rec.Passages, p.Text)
	}

	return rec
}
