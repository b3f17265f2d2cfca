package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ContentUnit is a single published article handed to the schema pipeline.
// It is treated as immutable for the duration of one generation run.
type ContentUnit struct {
	ID               string    `json:"id" yaml:"id"`
	URL              string    `json:"url" yaml:"url"` // permalink
	Title            string    `json:"title" yaml:"title"`
	AuthorName       string    `json:"author_name" yaml:"author_name"`
	AuthorURL        string    `json:"author_url,omitempty" yaml:"author_url,omitempty"`
	Category         string    `json:"category,omitempty" yaml:"category,omitempty"`
	Excerpt          string    `json:"excerpt,omitempty" yaml:"excerpt,omitempty"` // HTML or plain
	Body             string    `json:"body" yaml:"body"`                           // rendered HTML
	Published        bool      `json:"published" yaml:"published"`
	HasFeaturedImage bool      `json:"has_featured_image,omitempty" yaml:"has_featured_image,omitempty"`
	PublishedAt      time.Time `json:"published_at" yaml:"published_at"`
	ModifiedAt       time.Time `json:"modified_at" yaml:"modified_at"`
}

// GenerateContentID creates a deterministic ID from a permalink.
// The ID is a SHA-256 hash (first 16 chars) of the URL.
func GenerateContentID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}

// unitFile is the on-disk YAML manifest for a content unit. The body may be
// inlined or referenced through body_file, resolved relative to the manifest.
type unitFile struct {
	ContentUnit `yaml:",inline"`
	BodyFile    string `yaml:"body_file,omitempty"`
}

// LoadContentUnit reads a YAML content unit manifest from disk.
func LoadContentUnit(path string) (*ContentUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content unit: %w", err)
	}

	var f unitFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse content unit: %w", err)
	}

	unit := f.ContentUnit
	if f.BodyFile != "" {
		bodyPath := f.BodyFile
		if !filepath.IsAbs(bodyPath) {
			bodyPath = filepath.Join(filepath.Dir(path), bodyPath)
		}
		body, err := os.ReadFile(bodyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		unit.Body = string(body)
	}

	if unit.ID == "" && unit.URL != "" {
		unit.ID = GenerateContentID(unit.URL)
	}
	if unit.ModifiedAt.IsZero() {
		unit.ModifiedAt = unit.PublishedAt
	}

	return &unit, nil
}

// QAPair is one question with its answer, extracted from article markup.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
