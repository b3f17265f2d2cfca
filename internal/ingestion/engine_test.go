package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfenderov/geo-schema/internal/cache"
	"github.com/mfenderov/geo-schema/internal/schema"
	"github.com/mfenderov/geo-schema/pkg/models"
)

type fakeStore struct {
	ids     []string
	units   map[string]models.ContentUnit
	schemas map[string][]byte
}

func (f *fakeStore) ListContentUnits(context.Context, string) ([]string, error) {
	return f.ids, nil
}

func (f *fakeStore) GetContentUnit(_ context.Context, _, id string) (*models.ContentUnit, error) {
	u, ok := f.units[id]
	if !ok {
		return nil, errors.New("not found: " + id)
	}
	return &u, nil
}

func (f *fakeStore) PutSchema(_ context.Context, _, id string, doc []byte) error {
	f.schemas[id] = doc
	return nil
}

type fakeIndex struct {
	records   []models.SchemaRecord
	refreshed bool
	fail      bool
}

func (f *fakeIndex) CreateIndex(context.Context) error { return nil }

func (f *fakeIndex) IndexRecord(_ context.Context, rec models.SchemaRecord) error {
	if f.fail {
		return errors.New("index unavailable")
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeIndex) Refresh(context.Context) error {
	f.refreshed = true
	return nil
}

func unit(id string, published bool) models.ContentUnit {
	return models.ContentUnit{
		ID:          id,
		URL:         "https://example.com/" + id,
		Title:       "Post " + id,
		AuthorName:  "Jane Doe",
		Body:        "<p>Studies show that structured data helps engines cite pages. It is simple.</p>",
		Published:   published,
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ModifiedAt:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
}

func newEngine(store UnitStore, index RecordIndex) *Engine {
	return New(store, index,
		schema.New(schema.DefaultOptions("Example")),
		cache.NewSchemaCache(cache.NewMemory(), time.Hour))
}

func TestEngine_Ingest(t *testing.T) {
	store := &fakeStore{
		ids: []string{"a", "b", "c", "missing"},
		units: map[string]models.ContentUnit{
			"a": unit("a", true),
			"b": unit("b", false),
			"c": unit("c", true),
		},
		schemas: map[string][]byte{},
	}
	index := &fakeIndex{}

	result, err := newEngine(store, index).Ingest(t.Context(), "scrapes/example.com/x")
	require.NoError(t, err)

	assert.Equal(t, 2, result.RecordsIndexed)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "missing")

	assert.Len(t, store.schemas, 2)
	assert.NotContains(t, store.schemas, "b", "unpublished units get no schema")
	assert.Contains(t, string(store.schemas["a"]), `"headline": "Post a"`)
	assert.True(t, index.refreshed, "index should be refreshed after ingestion")

	ev := result.Event()
	assert.Equal(t, "scrapes/example.com/x", ev.Prefix)
	assert.Equal(t, 2, ev.RecordsIndexed)
	assert.Equal(t, 1, ev.Skipped)
}

func TestEngine_IndexFailureReported(t *testing.T) {
	store := &fakeStore{
		ids:     []string{"a"},
		units:   map[string]models.ContentUnit{"a": unit("a", true)},
		schemas: map[string][]byte{},
	}

	result, err := newEngine(store, &fakeIndex{fail: true}).Ingest(t.Context(), "p")
	require.NoError(t, err)

	assert.Equal(t, 0, result.RecordsIndexed)
	assert.Empty(t, store.schemas, "schema should not be stored when indexing fails")
}

func TestEngine_GenerateUsesCache(t *testing.T) {
	e := newEngine(nil, &fakeIndex{})
	u := unit("a", true)

	first, ok := e.Generate(u)
	require.True(t, ok, "Generate() returned no schema")

	second, _ := e.Generate(u)
	assert.Same(t, first, second, "second Generate() should be served from the cache")

	u.ModifiedAt = u.ModifiedAt.Add(time.Hour)
	third, _ := e.Generate(u)
	assert.NotSame(t, first, third, "a new modification time should regenerate the document")
}

func TestEngine_GenerateUnpublished(t *testing.T) {
	e := newEngine(nil, &fakeIndex{})

	_, ok := e.Generate(unit("a", false))
	assert.False(t, ok, "Generate() should return no schema for unpublished units")
}
