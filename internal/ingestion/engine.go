package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfenderov/geo-schema/internal/cache"
	"github.com/mfenderov/geo-schema/internal/events"
	"github.com/mfenderov/geo-schema/internal/schema"
	"github.com/mfenderov/geo-schema/pkg/models"
)

// UnitStore reads scraped content units and stores generated documents.
type UnitStore interface {
	ListContentUnits(ctx context.Context, prefix string) ([]string, error)
	GetContentUnit(ctx context.Context, prefix, id string) (*models.ContentUnit, error)
	PutSchema(ctx context.Context, prefix, id string, doc []byte) error
}

// RecordIndex receives schema records for search.
type RecordIndex interface {
	CreateIndex(ctx context.Context) error
	IndexRecord(ctx context.Context, rec models.SchemaRecord) error
	Refresh(ctx context.Context) error
}

// Result holds ingestion execution results.
type Result struct {
	Prefix         string
	RecordsIndexed int
	Skipped        int
	Duration       time.Duration
	Errors         []string
}

// Event converts the result into a completion event.
func (r *Result) Event() events.IngestionCompleteEvent {
	return events.IngestionCompleteEvent{
		Prefix:         r.Prefix,
		RecordsIndexed: r.RecordsIndexed,
		Skipped:        r.Skipped,
		Duration:       r.Duration,
		Errors:         r.Errors,
	}
}

// Engine reads content units from S3, generates their schema documents and
// indexes the resulting records to Elasticsearch.
type Engine struct {
	storage   UnitStore
	index     RecordIndex
	assembler *schema.Assembler
	cache     *cache.SchemaCache
}

// New creates a new ingestion engine. storage may be nil when the engine is
// only used through Generate.
func New(storage UnitStore, index RecordIndex, assembler *schema.Assembler, schemaCache *cache.SchemaCache) *Engine {
	return &Engine{
		storage:   storage,
		index:     index,
		assembler: assembler,
		cache:     schemaCache,
	}
}

// Generate returns the schema document for unit, served from the cache when
// this version of the unit was generated before.
func (e *Engine) Generate(unit models.ContentUnit) (*schema.Document, bool) {
	if unit.ID == "" {
		unit.ID = models.GenerateContentID(unit.URL)
	}
	return e.cache.GetOrCompute(unit.ID, unit.ModifiedAt, func() (*schema.Document, bool) {
		return e.assembler.Assemble(unit)
	})
}

// IndexUnit generates and indexes the record for one unit. It reports false
// when the unit has no schema.
func (e *Engine) IndexUnit(ctx context.Context, unit models.ContentUnit) (*schema.Document, bool, error) {
	doc, ok := e.Generate(unit)
	if !ok {
		return nil, false, nil
	}

	rec := e.assembler.Record(unit, doc)
	slog.Debug("indexing record", "id", rec.ID, "url", rec.URL, "chunks", len(rec.Chunks), "faqs", len(rec.FAQs))
	if err := e.index.IndexRecord(ctx, rec); err != nil {
		return doc, true, fmt.Errorf("failed to index %s: %w", unit.URL, err)
	}
	return doc, true, nil
}

// Ingest processes all content units under an S3 prefix.
func (e *Engine) Ingest(ctx context.Context, prefix string) (*Result, error) {
	start := time.Now()
	result := &Result{Prefix: prefix}

	slog.Info("starting ingestion", "prefix", prefix)

	if err := e.index.CreateIndex(ctx); err != nil {
		return nil, err
	}

	ids, err := e.storage.ListContentUnits(ctx, prefix)
	if err != nil {
		return nil, err
	}

	slog.Info("found content units to ingest", "count", len(ids))

	for _, id := range ids {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, "context cancelled")
			break
		}

		unit, err := e.storage.GetContentUnit(ctx, prefix, id)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		doc, ok, err := e.IndexUnit(ctx, *unit)
		if !ok {
			slog.Debug("no schema for unit", "id", id, "published", unit.Published)
			result.Skipped++
			continue
		}
		if err != nil {
			slog.Error("failed to index record", "id", id, "error", err)
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		if err := e.storage.PutSchema(ctx, prefix, id, schema.Encode(doc)); err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		result.RecordsIndexed++
	}

	e.index.Refresh(ctx)

	result.Duration = time.Since(start)
	slog.Info("ingestion complete",
		"prefix", prefix,
		"records_indexed", result.RecordsIndexed,
		"skipped", result.Skipped,
		"duration", result.Duration,
		"errors", len(result.Errors))

	return result, nil
}
