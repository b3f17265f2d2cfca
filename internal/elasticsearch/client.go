package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/mfenderov/geo-schema/pkg/models"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Client stores and searches schema records.
type Client struct {
	es    *elasticsearch.Client
	index string
}

// New creates a new Elasticsearch client.
func New(config Config) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	return &Client{
		es:    es,
		index: config.Index,
	}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// indexMapping defines the ES index mapping for schema records.
// The serialized JSON-LD is stored but not searchable.
var indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"url": { "type": "keyword" },
			"headline": { "type": "text", "analyzer": "english" },
			"author": { "type": "keyword" },
			"author_url": { "type": "keyword" },
			"category": { "type": "keyword" },
			"description": { "type": "text", "analyzer": "english" },
			"published": { "type": "date" },
			"modified": { "type": "date" },
			"summary": { "type": "text", "analyzer": "english" },
			"chunks": { "type": "text", "analyzer": "english" },
			"passages": { "type": "text", "analyzer": "english" },
			"faqs": {
				"properties": {
					"question": { "type": "text", "analyzer": "english" },
					"answer": { "type": "text", "analyzer": "english" }
				}
			},
			"claims": { "type": "text", "analyzer": "english" },
			"confidence": { "type": "integer" },
			"content": { "type": "text", "analyzer": "english" },
			"schema": { "type": "text", "index": false },
			"generated_at": { "type": "date" }
		}
	}
}`

// CreateIndex creates the index with proper mapping.
func (c *Client) CreateIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}

	return nil
}

// DeleteIndex removes the index (for testing/cleanup).
func (c *Client) DeleteIndex(ctx context.Context) error {
	res, err := c.es.Indices.Delete([]string{c.index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// IndexRecord indexes a schema record under its content ID, replacing any
// earlier version.
func (c *Client) IndexRecord(ctx context.Context, rec models.SchemaRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(rec.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index record: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing record (status %d): %s", res.StatusCode, res.String())
	}

	return nil
}

// Refresh forces an index refresh (useful for testing).
func (c *Client) Refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(c.index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// searchFields are the record fields matched by Search, headline boosted.
var searchFields = []string{
	"headline^2",
	"summary",
	"chunks",
	"passages",
	"faqs.question",
	"faqs.answer",
	"claims",
}

// Query selects schema records. Category and MinConfidence are optional
// filters that do not affect scoring.
type Query struct {
	Text          string
	Category      string
	MinConfidence int
	Limit         int
}

func (q Query) body() ([]byte, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	var filters []map[string]any
	if q.Category != "" {
		filters = append(filters, map[string]any{
			"term": map[string]any{"category": q.Category},
		})
	}
	if q.MinConfidence > 0 {
		filters = append(filters, map[string]any{
			"range": map[string]any{"confidence": map[string]any{"gte": q.MinConfidence}},
		})
	}

	boolQuery := map[string]any{
		"must": map[string]any{
			"multi_match": map[string]any{
				"query":  q.Text,
				"fields": searchFields,
			},
		},
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	return json.Marshal(map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"size":  limit,
	})
}

// Search runs a BM25 text query over headlines, summaries, chunks, passages,
// FAQs and claims, best match first.
func (c *Client) Search(ctx context.Context, q Query) ([]models.SchemaRecord, error) {
	data, err := q.body()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", c.index, res.Status())
	}

	var sr struct {
		Hits struct {
			Hits []struct {
				Source models.SchemaRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]models.SchemaRecord, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		records = append(records, hit.Source)
	}
	return records, nil
}

// GetRecord retrieves a record by content ID. A missing record is nil, nil.
func (c *Client) GetRecord(ctx context.Context, id string) (*models.SchemaRecord, error) {
	res, err := c.es.Get(c.index, id, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, nil
	case res.IsError():
		return nil, fmt.Errorf("get %s: %s", id, res.Status())
	}

	var doc struct {
		Found  bool                `json:"found"`
		Source models.SchemaRecord `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	if !doc.Found {
		return nil, nil
	}
	return &doc.Source, nil
}
