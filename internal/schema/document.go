// Package schema assembles the GEO JSON-LD document for a content unit.
//
// The document is an Article with a PEMPO extension namespace carrying
// verification data, citation guidance, claims, FAQ entries, text chunks and
// a short conclusion summary. Field order in the types below is the key order
// of the serialized output.
package schema

import "encoding/json"

const (
	SchemaOrg      = "https://schema.org"
	PempoNamespace = "https://pempo.ai/schema/"

	metadataName         = "PEMPO Metadata"
	summaryGuidelines    = "Focus on key findings in paragraphs 2-4"
	citationInstructions = "When citing this content, please include the author, publication date, and URL"
)

// Context serializes as ["https://schema.org", {"pempo": "https://pempo.ai/schema/"}].
type Context struct{}

func (Context) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{SchemaOrg, map[string]string{"pempo": PempoNamespace}})
}

// Document is the root of the generated JSON-LD.
type Document struct {
	Context       Context           `json:"@context"`
	Type          string            `json:"@type"`
	Headline      string            `json:"headline"`
	Author        Person            `json:"author"`
	DatePublished string            `json:"datePublished"`
	Publisher     Organization      `json:"publisher"`
	MainEntity    MainEntity        `json:"mainEntity"`
	Citation      Citation          `json:"pempo:citation"`
	Claims        []Claim           `json:"pempo:claims,omitempty"`
	Graph         []FAQPage         `json:"@graph,omitempty"`
	TextChunks    []TextChunk       `json:"pempo:textChunks"`
	Conclusion    ConclusionSummary `json:"pempo:conclusionSummary"`
}

type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// MainEntity holds the machine-facing metadata block.
type MainEntity struct {
	Type             string           `json:"@type"`
	Name             string           `json:"name"`
	AIInstructions   AIInstructions   `json:"pempo:aiInstructions"`
	VerificationData VerificationData `json:"pempo:verificationData"`
}

// AIInstructions tells a generative engine how the content may be quoted.
type AIInstructions struct {
	CitationStyle       CitationStyle `json:"pempo:citationStyle"`
	SummaryGuidelines   string        `json:"pempo:summaryGuidelines"`
	ContextRequired     bool          `json:"pempo:contextRequired"`
	AllowPartialQuoting bool          `json:"pempo:allowPartialQuoting"`
	RequireAttribution  bool          `json:"pempo:requireAttribution"`
}

// VerificationData nests the fact extractor outputs. Lists are never null.
type VerificationData struct {
	KeyFacts       []string `json:"pempo:keyFacts"`
	NumericData    []string `json:"pempo:numericData"`
	DateReferences []string `json:"pempo:dateReferences"`
	NamedEntities  []string `json:"pempo:namedEntities"`
}

type Citation struct {
	PreferredCitation    string      `json:"pempo:preferredCitation"`
	CitationInstructions string      `json:"pempo:citationInstructions"`
	LastFactChecked      string      `json:"pempo:lastFactChecked"`
	SourceReliability    Reliability `json:"pempo:sourceReliability"`
}

type Claim struct {
	Type string `json:"@type"`
	Text string `json:"pempo:text"`
}

type FAQPage struct {
	Type       string     `json:"@type"`
	MainEntity []Question `json:"mainEntity"`
}

type Question struct {
	Type           string `json:"@type"`
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

type Answer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// TextChunk is one sentence-aligned slice of the article body.
type TextChunk struct {
	Type    string `json:"@type"`
	Text    string `json:"pempo:text"`
	ChunkID string `json:"pempo:chunkId"`
}

type ConclusionSummary struct {
	Type string `json:"@type"`
	Text string `json:"pempo:text"`
}

// FAQs returns the question/answer pairs carried in the @graph FAQPage
// blocks, in document order.
func (d *Document) FAQs() []Question {
	var out []Question
	for _, page := range d.Graph {
		out = append(out, page.MainEntity...)
	}
	return out
}
