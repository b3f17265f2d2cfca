package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfenderov/geo-schema/internal/elasticsearch"
	"github.com/mfenderov/geo-schema/internal/schema"
	"github.com/mfenderov/geo-schema/internal/scraper"
)

func skipIfNoES(t *testing.T) {
	if os.Getenv("SKIP_ES_TESTS") == "1" {
		t.Skip("Skipping ES tests")
	}
	client, err := elasticsearch.New(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "test-skip",
	})
	if err != nil {
		t.Skipf("Skipping: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		t.Skip("Skipping: ES not available")
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	skipIfNoES(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`
			<!DOCTYPE html>
			<html>
			<head>
				<title>Installing the Tool</title>
				<meta name="author" content="Jane Doe">
				<meta property="article:published_time" content="2024-06-01T08:00:00Z">
			</head>
			<body>
				<article>
					<h1>Getting Started</h1>
					<p>Welcome to the guide. Studies show that most users install the tool in under five minutes.</p>
					<div class="widget-newsletter">Subscribe for updates.</div>
					<p>Q: How do I install it? A: Run go install to install the package.</p>
				</article>
			</body>
			</html>
		`))
	}))
	defer server.Close()

	p, err := New(Config{
		ESAddresses: []string{"http://localhost:9200"},
		ESIndex:     "geo-schema-pipeline-test",
		ScraperConfig: scraper.Config{
			Delay:     10 * time.Millisecond,
			UserAgent: "test-agent",
		},
		Schema: schema.DefaultOptions("Example Docs"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	p.DeleteIndex(ctx)

	result, err := p.Run(ctx, []string{server.URL})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ArticlesScraped)
	assert.Equal(t, 1, result.RecordsIndexed)

	time.Sleep(1 * time.Second)

	records, err := p.Search(ctx, "install", 10)
	require.NoError(t, err)
	require.NotEmpty(t, records, "Search('install') should return results")

	rec := records[0]
	assert.Equal(t, "Installing the Tool", rec.Headline)
	assert.Len(t, rec.FAQs, 1, "one explicit pair")
	assert.NotContains(t, rec.Schema, "Subscribe", "widget content should not reach the schema")

	p.DeleteIndex(ctx)
}
