package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mfenderov/geo-schema/internal/config"
	"github.com/mfenderov/geo-schema/internal/elasticsearch"
	"github.com/mfenderov/geo-schema/internal/storage"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "geo-schema",
	Short: "geo-schema: GEO structured data for articles",
	Long: `geo-schema turns published articles into JSON-LD that generative engines
can cite: verification facts, claims, FAQ entries, text chunks and a summary.

Commands:
  generate  Print the schema document for a local article
  scrape    Fetch articles and generate their schema documents
  ingest    Generate schema documents for a stored scrape
  search    Search generated schema records
  serve     Start the MCP server`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/geo-schema")
		viper.AddConfigPath(".")
	}

	// GEOSCHEMA_ELASTICSEARCH_ADDRESSES -> elasticsearch.addresses
	viper.SetEnvPrefix("GEOSCHEMA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for _, key := range []string{
		"site_name",
		"schema.citation_style",
		"schema.source_reliability",
		"schema.publication_name",
		"schema.chunk_size",
		"schema.extract_limit",
		"schema.cache_ttl",
		"elasticsearch.addresses",
		"elasticsearch.index",
		"elasticsearch.username",
		"elasticsearch.password",
		"storage.endpoint",
		"storage.bucket",
		"storage.access_key_id",
		"storage.secret_access_key",
		"scraper.delay",
		"scraper.timeout",
		"mcp.name",
		"mcp.version",
	} {
		viper.BindEnv(key, "GEOSCHEMA_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Addresses may arrive as a comma-separated string from env
	if addrs := os.Getenv("GEOSCHEMA_ELASTICSEARCH_ADDRESSES"); addrs != "" {
		cfg.Elasticsearch.Addresses = strings.Split(addrs, ",")
	}
}

func newESClient(cfg config.Config) (*elasticsearch.Client, error) {
	return elasticsearch.New(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Index:     cfg.Elasticsearch.Index,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
}

func newStorageClient(cfg config.Config) (*storage.Client, error) {
	return storage.New(storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UseSSL:          cfg.Storage.UseSSL,
	})
}
