package config

import (
	"time"

	"github.com/mfenderov/geo-schema/internal/schema"
)

// Config holds all application configuration.
type Config struct {
	SiteName      string        `mapstructure:"site_name"`
	Schema        Schema        `mapstructure:"schema"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	Scraper       Scraper       `mapstructure:"scraper"`
	Storage       Storage       `mapstructure:"storage"`
	MCP           MCP           `mapstructure:"mcp"`
	Sources       []Source      `mapstructure:"sources"`
}

// Schema holds the settings embedded in generated documents.
type Schema struct {
	CitationStyle     string        `mapstructure:"citation_style"`
	SourceReliability string        `mapstructure:"source_reliability"`
	PublicationName   string        `mapstructure:"publication_name"` // defaults to site_name
	ChunkSize         int           `mapstructure:"chunk_size"`
	ExtractLimit      int           `mapstructure:"extract_limit"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// Elasticsearch holds ES connection configuration.
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// Scraper holds article fetching configuration.
type Scraper struct {
	Delay     time.Duration `mapstructure:"delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Storage holds S3/MinIO storage configuration.
type Storage struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Source is a named list of article URLs to scrape.
type Source struct {
	Name string   `mapstructure:"name"`
	URLs []string `mapstructure:"urls"`
}

// SchemaOptions converts the schema section into assembler options.
// An empty publication name falls back to the site name.
func (c Config) SchemaOptions() schema.Options {
	name := c.Schema.PublicationName
	if name == "" {
		name = c.SiteName
	}
	return schema.Options{
		CitationStyle:     schema.CitationStyle(c.Schema.CitationStyle),
		SourceReliability: schema.Reliability(c.Schema.SourceReliability),
		PublicationName:   name,
		ChunkSize:         c.Schema.ChunkSize,
		TextLimit:         c.Schema.ExtractLimit,
	}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		SiteName: "geo-schema",
		Schema: Schema{
			CitationStyle:     string(schema.StyleAcademic),
			SourceReliability: string(schema.ReliabilityPrimary),
			ChunkSize:         1800,
			ExtractLimit:      25000,
			CacheTTL:          time.Hour,
		},
		Elasticsearch: Elasticsearch{
			Addresses: []string{"http://localhost:9200"},
			Index:     "geo-schema-records",
		},
		Scraper: Scraper{
			Delay:     1 * time.Second,
			Timeout:   30 * time.Second,
			UserAgent: "geo-schema/1.0",
		},
		Storage: Storage{
			Endpoint:        "localhost:9002",
			Bucket:          "geo-schema",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		MCP: MCP{
			Name:    "geo-schema",
			Version: "1.0.0",
		},
	}
}
