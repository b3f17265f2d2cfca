package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mfenderov/geo-schema/pkg/models"
)

// Config holds S3/MinIO client configuration.
type Config struct {
	Endpoint        string // "localhost:9000" for MinIO
	Bucket          string // "geo-schema"
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

// Client stores scraped content units and generated schema documents.
type Client struct {
	minioClient *minio.Client
	bucket      string
}

// New creates a new S3/MinIO client.
func New(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKeyID, config.SecretAccessKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}

	err = c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// ScrapeMetadata holds information about a scrape operation.
type ScrapeMetadata struct {
	Source    string   `json:"source"`
	Timestamp string   `json:"timestamp"`
	UnitCount int      `json:"unit_count"`
	URLs      []string `json:"urls"`
}

func unitObject(prefix, id string) string {
	return path.Join(prefix, "units", id+".json")
}

func schemaObject(prefix, id string) string {
	return path.Join(prefix, "schemas", id+".json")
}

func (c *Client) putJSON(ctx context.Context, objectName string, data []byte) error {
	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (c *Client) get(ctx context.Context, objectName string) ([]byte, error) {
	object, err := c.minioClient.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()

	return io.ReadAll(object)
}

// PutContentUnit writes a content unit under <prefix>/units/<id>.json.
func (c *Client) PutContentUnit(ctx context.Context, prefix string, unit models.ContentUnit) error {
	data, err := json.MarshalIndent(unit, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal content unit: %w", err)
	}
	if err := c.putJSON(ctx, unitObject(prefix, unit.ID), data); err != nil {
		return fmt.Errorf("failed to put content unit: %w", err)
	}
	return nil
}

// GetContentUnit reads a content unit by ID.
func (c *Client) GetContentUnit(ctx context.Context, prefix, id string) (*models.ContentUnit, error) {
	data, err := c.get(ctx, unitObject(prefix, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get content unit: %w", err)
	}

	var unit models.ContentUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content unit: %w", err)
	}
	return &unit, nil
}

// ListContentUnits returns the IDs of all content units under a prefix.
func (c *Client) ListContentUnits(ctx context.Context, prefix string) ([]string, error) {
	unitsPrefix := path.Join(prefix, "units") + "/"
	var ids []string

	objectCh := c.minioClient.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    unitsPrefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, ".json") {
			ids = append(ids, strings.TrimSuffix(path.Base(object.Key), ".json"))
		}
	}

	return ids, nil
}

// PutSchema writes a serialized schema document under <prefix>/schemas/<id>.json.
func (c *Client) PutSchema(ctx context.Context, prefix, id string, doc []byte) error {
	if err := c.putJSON(ctx, schemaObject(prefix, id), doc); err != nil {
		return fmt.Errorf("failed to put schema: %w", err)
	}
	return nil
}

// GetSchema reads a serialized schema document.
func (c *Client) GetSchema(ctx context.Context, prefix, id string) ([]byte, error) {
	data, err := c.get(ctx, schemaObject(prefix, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	return data, nil
}

// PutMetadata writes the scrape metadata JSON to S3.
func (c *Client) PutMetadata(ctx context.Context, prefix string, meta ScrapeMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := c.putJSON(ctx, path.Join(prefix, "metadata.json"), data); err != nil {
		return fmt.Errorf("failed to put metadata: %w", err)
	}
	return nil
}

// GetMetadata reads the scrape metadata from S3.
func (c *Client) GetMetadata(ctx context.Context, prefix string) (*ScrapeMetadata, error) {
	data, err := c.get(ctx, path.Join(prefix, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	var meta ScrapeMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	return &meta, nil
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
