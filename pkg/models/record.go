package models

import "time"

// SchemaRecord is the searchable projection of a generated schema document.
type SchemaRecord struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Headline    string    `json:"headline"`
	Author      string    `json:"author"`
	AuthorURL   string    `json:"author_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"` // truncated excerpt
	Published   time.Time `json:"published"`
	Modified    time.Time `json:"modified"`
	Summary     string    `json:"summary"`
	Chunks      []string  `json:"chunks,omitempty"`
	Passages    []string  `json:"passages,omitempty"` // paragraph-level citation passages
	FAQs        []QAPair  `json:"faqs,omitempty"`
	Claims      []string  `json:"claims,omitempty"`
	Confidence  int       `json:"confidence"`
	Content     string    `json:"content,omitempty"` // markdown rendition of the article
	Schema      string    `json:"schema"`            // serialized JSON-LD document
	GeneratedAt time.Time `json:"generated_at"`
}
