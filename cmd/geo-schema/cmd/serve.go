package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfenderov/geo-schema/internal/mcp"
	"github.com/mfenderov/geo-schema/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server for schema generation and retrieval.

The server communicates via stdio and provides three tools:
  - generate_schema: Generate JSON-LD for article HTML
  - search_schemas: Search indexed schema records by query
  - get_schema: Get the JSON-LD document of an indexed article, falling
    back to the copy stored under a scrape prefix

Example:
  geo-schema serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	mcpConfig := mcp.Config{
		Name:        cfg.MCP.Name,
		Version:     cfg.MCP.Version,
		ESAddresses: cfg.Elasticsearch.Addresses,
		ESIndex:     cfg.Elasticsearch.Index,
		ESUsername:  cfg.Elasticsearch.Username,
		ESPassword:  cfg.Elasticsearch.Password,
		Schema:      cfg.SchemaOptions(),
		CacheTTL:    cfg.Schema.CacheTTL,
	}
	if cfg.Storage.Endpoint != "" {
		mcpConfig.Storage = &storage.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UseSSL:          cfg.Storage.UseSSL,
		}
	}

	server, err := mcp.NewServer(mcpConfig)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")

	return server.ServeStdio()
}
