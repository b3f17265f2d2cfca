package elasticsearch

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfenderov/geo-schema/pkg/models"
)

func skipIfNoES(t *testing.T) {
	if os.Getenv("SKIP_ES_TESTS") == "1" {
		t.Skip("Skipping ES tests (SKIP_ES_TESTS=1)")
	}

	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "test-skip-check",
	})
	if err != nil {
		t.Skipf("Skipping ES tests: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		t.Skip("Skipping ES tests: Elasticsearch not available")
	}
}

func newTestClient(t *testing.T, index string) *Client {
	t.Helper()
	client, err := New(Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     index,
	})
	require.NoError(t, err)
	return client
}

func TestIndexMapping_ValidJSON(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(indexMapping), &m), "indexMapping is not valid JSON")
}

func TestQuery_Body(t *testing.T) {
	type body struct {
		Query struct {
			Bool struct {
				Must struct {
					MultiMatch struct {
						Query  string   `json:"query"`
						Fields []string `json:"fields"`
					} `json:"multi_match"`
				} `json:"must"`
				Filter []map[string]any `json:"filter"`
			} `json:"bool"`
		} `json:"query"`
		Size int `json:"size"`
	}

	tests := []struct {
		name        string
		query       Query
		wantSize    int
		wantFilters int
	}{
		{name: "text only", query: Query{Text: "structured data", Limit: 5}, wantSize: 5},
		{name: "default limit", query: Query{Text: "structured data"}, wantSize: 10},
		{name: "category filter", query: Query{Text: "structured data", Category: "Guides", Limit: 3}, wantSize: 3, wantFilters: 1},
		{name: "both filters", query: Query{Text: "structured data", Category: "Guides", MinConfidence: 20}, wantSize: 10, wantFilters: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.query.body()
			require.NoError(t, err)

			var b body
			require.NoError(t, json.Unmarshal(data, &b))

			mm := b.Query.Bool.Must.MultiMatch
			assert.Equal(t, "structured data", mm.Query)
			require.NotEmpty(t, mm.Fields)
			assert.Equal(t, "headline^2", mm.Fields[0], "headline is boosted first")
			assert.Equal(t, tt.wantSize, b.Size)
			assert.Len(t, b.Query.Bool.Filter, tt.wantFilters)
		})
	}
}

func TestClient_Connect(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "geo-schema-test")
	assert.True(t, client.Ping(context.Background()), "Ping() should return true for running ES")
}

func TestClient_CreateIndex(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "geo-schema-test-create")
	ctx := context.Background()

	client.DeleteIndex(ctx)

	require.NoError(t, client.CreateIndex(ctx))

	// Creating again should not error (idempotent)
	require.NoError(t, client.CreateIndex(ctx))

	client.DeleteIndex(ctx)
}

func TestClient_IndexAndSearch(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "geo-schema-test-search")
	ctx := context.Background()

	client.DeleteIndex(ctx)
	require.NoError(t, client.CreateIndex(ctx))

	records := []models.SchemaRecord{
		{
			ID:       "rec1",
			URL:      "https://example.com/geo",
			Headline: "What Is Generative Engine Optimization",
			Category: "Guides",
			Summary:  "GEO helps content get cited by AI engines.",
			Chunks:   []string{"GEO helps content get cited by AI engines."},
		},
		{
			ID:       "rec2",
			URL:      "https://example.com/saturn",
			Headline: "The Saturn Return",
			Category: "Astrology",
			Summary:  "Saturn returns to its natal position every 29 years.",
			FAQs:     []models.QAPair{{Question: "When does it happen?", Answer: "Around age 29."}},
		},
	}

	for _, rec := range records {
		require.NoError(t, client.IndexRecord(ctx, rec))
	}

	time.Sleep(1 * time.Second)
	client.Refresh(ctx)

	results, err := client.Search(ctx, Query{Text: "generative engine", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "rec1", results[0].ID)

	results, err = client.Search(ctx, Query{Text: "age", Limit: 10})
	require.NoError(t, err)
	var ids []string
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.Contains(t, ids, "rec2", "Search('age') should match the FAQ answer of rec2")

	results, err = client.Search(ctx, Query{Text: "saturn generative", Category: "Guides"})
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, "Guides", r.Category, "category filter returned %s", r.ID)
	}

	client.DeleteIndex(ctx)
}

func TestClient_GetRecord(t *testing.T) {
	skipIfNoES(t)

	client := newTestClient(t, "geo-schema-test-get")
	ctx := context.Background()

	client.DeleteIndex(ctx)
	client.CreateIndex(ctx)

	rec := models.SchemaRecord{
		ID:       "test-rec-get",
		URL:      "https://example.com/test",
		Headline: "Test Page",
		Schema:   `{"@type": "Article"}`,
	}

	require.NoError(t, client.IndexRecord(ctx, rec))

	time.Sleep(500 * time.Millisecond)

	result, err := client.GetRecord(ctx, "test-rec-get")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, rec.Schema, result.Schema)

	missing, err := client.GetRecord(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)

	client.DeleteIndex(ctx)
}
