package schema

import (
	"fmt"
	"strings"
	"time"

	"github.com/mfenderov/geo-schema/internal/extract"
	"github.com/mfenderov/geo-schema/internal/processor"
	"github.com/mfenderov/geo-schema/internal/qa"
	"github.com/mfenderov/geo-schema/internal/segment"
	"github.com/mfenderov/geo-schema/internal/textclean"
	"github.com/mfenderov/geo-schema/pkg/models"
)

const (
	maxCitationTitle  = 110
	summarySentences  = 3
	summaryChunks     = 3
	summaryFallbackLn = 400
)

// Extractors are the fact extractors run by the assembler. Nil fields use
// the package defaults from extract.
type Extractors struct {
	KeyFacts     extract.Extractor
	NumericFacts extract.Extractor
	Dates        extract.Extractor
	Entities     extract.Extractor
	Claims       extract.Extractor
}

// QAFunc finds question/answer pairs in article HTML.
type QAFunc func(content string) []models.QAPair

// Assembler builds schema documents from content units.
type Assembler struct {
	opts       Options
	processor  *processor.Processor
	extractors Extractors
	qa         QAFunc
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithExtractors replaces the non-nil extractors in e.
func WithExtractors(e Extractors) Option {
	return func(a *Assembler) {
		if e.KeyFacts != nil {
			a.extractors.KeyFacts = e.KeyFacts
		}
		if e.NumericFacts != nil {
			a.extractors.NumericFacts = e.NumericFacts
		}
		if e.Dates != nil {
			a.extractors.Dates = e.Dates
		}
		if e.Entities != nil {
			a.extractors.Entities = e.Entities
		}
		if e.Claims != nil {
			a.extractors.Claims = e.Claims
		}
	}
}

// WithQA replaces the Q&A extractor.
func WithQA(f QAFunc) Option {
	return func(a *Assembler) {
		if f != nil {
			a.qa = f
		}
	}
}

// New creates an assembler for the given options.
func New(opts Options, options ...Option) *Assembler {
	a := &Assembler{
		opts:      opts.normalized(),
		processor: processor.New(),
		extractors: Extractors{
			KeyFacts:     extract.KeyFactExtractor,
			NumericFacts: extract.NumericFactExtractor,
			Dates:        extract.DateExtractor,
			Entities:     extract.EntityExtractor,
			Claims:       extract.ClaimExtractor,
		},
		qa: qa.Extract,
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// Options returns the effective options after defaults were applied.
func (a *Assembler) Options() Options {
	return a.opts
}

// Assemble builds the schema document for unit. It returns false when the
// unit is unpublished, has no body, or assembly fails unexpectedly; a
// partial document is never returned.
func (a *Assembler) Assemble(unit models.ContentUnit) (doc *Document, ok bool) {
	if !unit.Published || strings.TrimSpace(unit.Body) == "" {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			doc, ok = nil, false
		}
	}()

	text := textclean.Normalize(a.processor.StripPromotional(unit.Body))
	chunks := safeChunks(text, a.opts.ChunkSize)
	capped := extract.Cap(text, a.opts.TextLimit)
	faqs := a.safeQA(unit.Body)

	headline := textclean.Normalize(unit.Title)
	author := textclean.Normalize(unit.AuthorName)

	doc = &Document{
		Type:          "Article",
		Headline:      headline,
		Author:        Person{Type: "Person", Name: author},
		DatePublished: unit.PublishedAt.Format(time.DateOnly),
		Publisher:     Organization{Type: "Organization", Name: a.opts.PublicationName},
		MainEntity: MainEntity{
			Type: "WebPageElement",
			Name: metadataName,
			AIInstructions: AIInstructions{
				CitationStyle:       a.opts.CitationStyle,
				SummaryGuidelines:   summaryGuidelines,
				ContextRequired:     true,
				AllowPartialQuoting: true,
				RequireAttribution:  true,
			},
			VerificationData: VerificationData{
				KeyFacts:       run(a.extractors.KeyFacts, capped),
				NumericData:    run(a.extractors.NumericFacts, capped),
				DateReferences: run(a.extractors.Dates, capped),
				NamedEntities:  run(a.extractors.Entities, capped),
			},
		},
		Citation: Citation{
			PreferredCitation:    a.preferredCitation(unit, author, headline),
			CitationInstructions: citationInstructions,
			LastFactChecked:      unit.ModifiedAt.Format(time.RFC3339),
			SourceReliability:    a.opts.SourceReliability,
		},
		Claims:     a.claims(capped),
		TextChunks: textChunks(chunks),
		Conclusion: ConclusionSummary{
			Type: "pempo:ConclusionSummary",
			Text: summarize(chunks, text),
		},
	}

	if len(faqs) > 0 {
		doc.Graph = []FAQPage{faqPage(faqs)}
	}

	return doc, true
}

// Generate assembles and serializes the document for unit.
func (a *Assembler) Generate(unit models.ContentUnit) ([]byte, bool) {
	doc, ok := a.Assemble(unit)
	if !ok {
		return nil, false
	}
	return Encode(doc), true
}

func (a *Assembler) preferredCitation(unit models.ContentUnit, author, headline string) string {
	return fmt.Sprintf("%s (%s). %s. %s. %s",
		author,
		unit.PublishedAt.Format("2006"),
		textclean.Prefix(headline, maxCitationTitle),
		a.opts.PublicationName,
		unit.URL,
	)
}

func (a *Assembler) claims(capped string) []Claim {
	matches := run(a.extractors.Claims, capped)
	if len(matches) > extract.MaxClaims {
		matches = matches[:extract.MaxClaims]
	}

	var claims []Claim
	for _, m := range matches {
		if c := safeClean(m); c != "" {
			claims = append(claims, Claim{Type: "pempo:Claim", Text: c})
		}
	}
	return claims
}

func (a *Assembler) safeQA(content string) (pairs []models.QAPair) {
	defer func() {
		if r := recover(); r != nil {
			pairs = nil
		}
	}()
	return a.qa(content)
}

// run calls e and turns a panic or nil result into an empty list.
func run(e extract.Extractor, text string) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			out = []string{}
		}
	}()
	if out = e.Extract(text); out == nil {
		out = []string{}
	}
	return out
}

func safeChunks(text string, size int) (chunks []segment.Chunk) {
	defer func() {
		if r := recover(); r != nil {
			chunks = nil
		}
	}()
	return segment.Chunks(text, size)
}

func safeClean(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()
	return textclean.CleanForCitation(text)
}

func textChunks(chunks []segment.Chunk) []TextChunk {
	out := make([]TextChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, TextChunk{Type: "pempo:TextChunk", Text: c.Text, ChunkID: c.ID})
	}
	return out
}

func faqPage(pairs []models.QAPair) FAQPage {
	questions := make([]Question, 0, len(pairs))
	for _, p := range pairs {
		questions = append(questions, Question{
			Type:           "Question",
			Name:           p.Question,
			AcceptedAnswer: Answer{Type: "Answer", Text: p.Answer},
		})
	}
	return FAQPage{Type: "FAQPage", MainEntity: questions}
}

// summarize joins the first three sentences found in the first three chunks.
// Without chunks it falls back to the start of the plain text.
func summarize(chunks []segment.Chunk, text string) string {
	if len(chunks) == 0 {
		return textclean.Prefix(text, summaryFallbackLn)
	}
	if len(chunks) > summaryChunks {
		chunks = chunks[:summaryChunks]
	}

	var sentences []string
	for _, c := range chunks {
		for _, s := range segment.Sentences(c.Text) {
			sentences = append(sentences, s)
			if len(sentences) == summarySentences {
				return strings.Join(sentences, " ")
			}
		}
	}
	return strings.Join(sentences, " ")
}
