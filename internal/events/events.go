package events

import "time"

// ScrapeCompleteEvent is sent when the scraper finishes writing content units to S3.
type ScrapeCompleteEvent struct {
	Bucket    string    // S3 bucket name (e.g., "geo-schema")
	Prefix    string    // S3 prefix (e.g., "scrapes/example.com/2024-12-04T17-30-00-abc12345")
	Source    string    // Source name or first URL
	UnitCount int       // Number of content units written
	Timestamp time.Time // When the scrape completed
}

// IngestionCompleteEvent is sent when schema generation for a prefix finishes.
type IngestionCompleteEvent struct {
	Prefix         string        // S3 prefix that was ingested
	RecordsIndexed int           // Number of schema records indexed
	Skipped        int           // Units without a schema (unpublished or empty)
	Duration       time.Duration // How long ingestion took
	Errors         []string      // Any errors encountered (non-fatal)
}
