package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfenderov/geo-schema/internal/ingestion"
	"github.com/mfenderov/geo-schema/internal/processor"
	"github.com/mfenderov/geo-schema/internal/schema"
	"github.com/mfenderov/geo-schema/pkg/models"
)

var (
	genUnitFile    string
	genHTMLFile    string
	genTitle       string
	genAuthor      string
	genURL         string
	genCategory    string
	genPublishedAt string
	genScript      bool
	genRecord      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the schema document for a local article",
	Long: `Generate the GEO JSON-LD document for a single article without touching
Elasticsearch or S3.

The article is read either from a YAML content unit manifest (--unit) or
from a rendered HTML file (--html) plus metadata flags.

Examples:
  # From a content unit manifest
  geo-schema generate --unit article.yaml

  # From an HTML file, wrapped in a <script> tag for embedding
  geo-schema generate --html post.html --title "GEO Basics" --url https://example.com/geo --script

  # Print the searchable record instead of the document
  geo-schema generate --unit article.yaml --record`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genUnitFile, "unit", "", "YAML content unit manifest")
	generateCmd.Flags().StringVar(&genHTMLFile, "html", "", "Rendered article HTML file")
	generateCmd.Flags().StringVar(&genTitle, "title", "", "Article title (default: the HTML <title>)")
	generateCmd.Flags().StringVar(&genAuthor, "author", "", "Author display name")
	generateCmd.Flags().StringVar(&genURL, "url", "", "Article permalink")
	generateCmd.Flags().StringVar(&genCategory, "category", "", "Category name")
	generateCmd.Flags().StringVar(&genPublishedAt, "published-at", "", "Publication date, RFC 3339 or YYYY-MM-DD (default: now)")
	generateCmd.Flags().BoolVar(&genScript, "script", false, "Wrap the document in an application/ld+json script tag")
	generateCmd.Flags().BoolVar(&genRecord, "record", false, "Print the searchable record instead of the document")
	generateCmd.MarkFlagsMutuallyExclusive("unit", "html")
	generateCmd.MarkFlagsOneRequired("unit", "html")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	unit, err := loadUnit()
	if err != nil {
		return err
	}

	assembler := schema.New(cfg.SchemaOptions())
	opts := assembler.Options()
	slog.Debug("schema options",
		"citation_style", opts.CitationStyle,
		"source_reliability", opts.SourceReliability,
		"publication", opts.PublicationName,
		"chunk_size", opts.ChunkSize)
	engine := ingestion.New(nil, nil, assembler, newSchemaCache(&cfg))

	doc, ok := engine.Generate(unit)
	if !ok {
		return fmt.Errorf("no schema generated for %q: article is unpublished or empty", unit.Title)
	}
	slog.Debug("schema generated", "id", unit.ID, "faqs", len(doc.FAQs()), "chunks", len(doc.TextChunks))

	out := cmd.OutOrStdout()
	switch {
	case genRecord:
		data, err := json.MarshalIndent(assembler.Record(unit, doc), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case genScript:
		fmt.Fprintln(out, schema.ScriptTag(doc))
	default:
		fmt.Fprintln(out, string(schema.Encode(doc)))
	}
	return nil
}

func loadUnit() (models.ContentUnit, error) {
	if genUnitFile != "" {
		unit, err := models.LoadContentUnit(genUnitFile)
		if err != nil {
			return models.ContentUnit{}, err
		}
		return *unit, nil
	}

	body, err := os.ReadFile(genHTMLFile)
	if err != nil {
		return models.ContentUnit{}, fmt.Errorf("failed to read html: %w", err)
	}
	return unitFromHTML(string(body), genTitle, genAuthor, genURL, genCategory, genPublishedAt)
}

// unitFromHTML builds a published content unit from a standalone HTML page.
// An empty title falls back to the page's <title>.
func unitFromHTML(body, title, author, url, category, publishedAt string) (models.ContentUnit, error) {
	published := time.Now().UTC()
	if publishedAt != "" {
		t, err := time.Parse(time.RFC3339, publishedAt)
		if err != nil {
			if t, err = time.Parse(time.DateOnly, publishedAt); err != nil {
				return models.ContentUnit{}, fmt.Errorf("invalid --published-at %q: %w", publishedAt, err)
			}
		}
		published = t
	}

	if title == "" {
		title = processor.New().ExtractTitle(body)
	}

	id := url
	if id == "" {
		id = body
	}

	return models.ContentUnit{
		ID:          models.GenerateContentID(id),
		URL:         url,
		Title:       title,
		AuthorName:  author,
		Category:    category,
		Body:        body,
		Published:   true,
		PublishedAt: published,
		ModifiedAt:  published,
	}, nil
}
