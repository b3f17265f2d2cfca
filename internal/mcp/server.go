package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mfenderov/geo-schema/internal/cache"
	"github.com/mfenderov/geo-schema/internal/elasticsearch"
	"github.com/mfenderov/geo-schema/internal/ingestion"
	"github.com/mfenderov/geo-schema/internal/schema"
	"github.com/mfenderov/geo-schema/internal/storage"
	"github.com/mfenderov/geo-schema/pkg/models"
)

// Config holds MCP server configuration.
type Config struct {
	Name        string
	Version     string
	ESAddresses []string
	ESIndex     string
	ESUsername  string
	ESPassword  string
	Schema      schema.Options
	CacheTTL    time.Duration
	Storage     *storage.Config // optional; enables get_schema lookups by scrape prefix
}

// SchemaStore reads schema documents written during ingestion.
type SchemaStore interface {
	GetSchema(ctx context.Context, prefix, id string) ([]byte, error)
}

// Server exposes schema generation and record search as MCP tools.
type Server struct {
	mcpServer *server.MCPServer
	esClient  *elasticsearch.Client
	engine    *ingestion.Engine
	documents *cache.Memory
	schemas   SchemaStore
}

// NewServer creates a new MCP server with generation and search tools.
func NewServer(config Config) (*Server, error) {
	esClient, err := elasticsearch.New(elasticsearch.Config{
		Addresses: config.ESAddresses,
		Index:     config.ESIndex,
		Username:  config.ESUsername,
		Password:  config.ESPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	documents := cache.NewMemory()
	s := &Server{
		mcpServer: mcpServer,
		esClient:  esClient,
		engine: ingestion.New(nil, esClient,
			schema.New(config.Schema),
			cache.NewSchemaCache(documents, config.CacheTTL)),
		documents: documents,
	}

	if config.Storage != nil {
		storageClient, err := storage.New(*config.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		s.schemas = storageClient
	}

	generateTool := mcp.NewTool("generate_schema",
		mcp.WithDescription("Generate GEO JSON-LD for an article. Returns the schema document, or an error when the article is unpublished or empty."),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("Rendered article body HTML"),
		),
		mcp.WithString("title", mcp.Description("Article title")),
		mcp.WithString("author", mcp.Description("Author display name")),
		mcp.WithString("url", mcp.Description("Article permalink")),
		mcp.WithString("category", mcp.Description("Category name")),
		mcp.WithString("published_at", mcp.Description("Publication time, RFC 3339 or YYYY-MM-DD")),
		mcp.WithString("modified_at", mcp.Description("Last modification time, RFC 3339 or YYYY-MM-DD")),
		mcp.WithBoolean("published", mcp.Description("Whether the article is published (default: true)")),
	)
	mcpServer.AddTool(generateTool, s.generateHandler)

	searchTool := mcp.NewTool("search_schemas",
		mcp.WithDescription("Search generated schema records by query. Returns headline, summary, FAQs and claims for each match."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
		mcp.WithString("category", mcp.Description("Only return articles in this category")),
		mcp.WithNumber("min_confidence", mcp.Description("Only return articles with at least this confidence score (0-100)")),
	)
	mcpServer.AddTool(searchTool, s.searchHandler)

	getTool := mcp.NewTool("get_schema",
		mcp.WithDescription("Get the JSON-LD schema document of an indexed article by content ID"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Content ID to retrieve"),
		),
		mcp.WithString("prefix",
			mcp.Description("Scrape prefix to read the stored document from when the index has no record"),
		),
	)
	mcpServer.AddTool(getTool, s.getSchemaHandler)

	return s, nil
}

// generateHandler handles the generate_schema tool call.
func (s *Server) generateHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := req.RequireString("html")
	if err != nil {
		return mcp.NewToolResultError("html parameter is required"), nil
	}

	unit, err := unitFromRequest(req, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Lookups only evict their own key.
	if n := s.documents.Purge(); n > 0 {
		slog.Debug("purged expired schema documents", "count", n, "cached", s.documents.Len())
	}

	doc, ok := s.engine.Generate(unit)
	if !ok {
		return mcp.NewToolResultError("no schema generated: article is unpublished or empty"), nil
	}

	return mcp.NewToolResultText(string(schema.Encode(doc))), nil
}

func unitFromRequest(req mcp.CallToolRequest, body string) (models.ContentUnit, error) {
	published, err := parseTime(req.GetString("published_at", ""))
	if err != nil {
		return models.ContentUnit{}, fmt.Errorf("invalid published_at: %w", err)
	}
	modified, err := parseTime(req.GetString("modified_at", ""))
	if err != nil {
		return models.ContentUnit{}, fmt.Errorf("invalid modified_at: %w", err)
	}
	if modified.IsZero() {
		modified = published
	}

	unit := models.ContentUnit{
		URL:         req.GetString("url", ""),
		Title:       req.GetString("title", ""),
		AuthorName:  req.GetString("author", ""),
		Category:    req.GetString("category", ""),
		Body:        body,
		Published:   req.GetBool("published", true),
		PublishedAt: published,
		ModifiedAt:  modified,
	}
	unit.ID = requestID(unit)
	return unit, nil
}

// requestID identifies a tool request by every field that reaches the
// document, so a metadata change without modified_at still misses the cache.
func requestID(unit models.ContentUnit) string {
	return models.GenerateContentID(strings.Join([]string{
		unit.URL,
		unit.Title,
		unit.AuthorName,
		unit.Category,
		unit.PublishedAt.Format(time.RFC3339Nano),
		unit.Body,
	}, "\x00"))
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// searchResult is the compact view of a record returned by search_schemas.
type searchResult struct {
	ID         string          `json:"id"`
	URL        string          `json:"url"`
	Headline   string          `json:"headline"`
	Summary    string          `json:"summary"`
	FAQs       []models.QAPair `json:"faqs,omitempty"`
	Claims     []string        `json:"claims,omitempty"`
	Confidence int             `json:"confidence"`
}

// searchHandler handles the search_schemas tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	records, err := s.handleSearch(ctx, elasticsearch.Query{
		Text:          query,
		Category:      req.GetString("category", ""),
		MinConfidence: req.GetInt("min_confidence", 0),
		Limit:         req.GetInt("limit", 10),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	result, err := json.Marshal(summarizeRecords(records))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(result)), nil
}

func summarizeRecords(records []models.SchemaRecord) []searchResult {
	out := make([]searchResult, 0, len(records))
	for _, r := range records {
		out = append(out, searchResult{
			ID:         r.ID,
			URL:        r.URL,
			Headline:   r.Headline,
			Summary:    r.Summary,
			FAQs:       r.FAQs,
			Claims:     r.Claims,
			Confidence: r.Confidence,
		})
	}
	return out
}

// getSchemaHandler handles the get_schema tool call.
func (s *Server) getSchemaHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	doc, err := s.handleGetSchema(ctx, id, req.GetString("prefix", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get schema failed: %v", err)), nil
	}

	if doc == "" {
		return mcp.NewToolResultError(fmt.Sprintf("schema not found: %s", id)), nil
	}

	return mcp.NewToolResultText(doc), nil
}

// handleGetSchema returns the indexed document for id. When the index has no
// record and a prefix is given, the copy stored during ingestion is used.
func (s *Server) handleGetSchema(ctx context.Context, id, prefix string) (string, error) {
	rec, err := s.handleGetRecord(ctx, id)
	if err == nil && rec != nil {
		return rec.Schema, nil
	}
	if prefix == "" || s.schemas == nil {
		return "", err
	}

	if err != nil {
		slog.Debug("index lookup failed, reading stored schema", "id", id, "error", err)
	}
	data, serr := s.schemas.GetSchema(ctx, prefix, id)
	if serr != nil {
		if err != nil {
			return "", err
		}
		return "", serr
	}
	return string(data), nil
}

// handleSearch searches for records matching the query.
func (s *Server) handleSearch(ctx context.Context, q elasticsearch.Query) ([]models.SchemaRecord, error) {
	return s.esClient.Search(ctx, q)
}

// handleGetRecord retrieves a record by content ID.
func (s *Server) handleGetRecord(ctx context.Context, id string) (*models.SchemaRecord, error) {
	return s.esClient.GetRecord(ctx, id)
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
