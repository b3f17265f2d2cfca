package schema

import (
	"log/slog"

	"github.com/mfenderov/geo-schema/internal/extract"
	"github.com/mfenderov/geo-schema/internal/segment"
)

// CitationStyle is the descriptive label telling engines how to cite.
type CitationStyle string

const (
	StyleAcademic   CitationStyle = "academic"
	StyleJournalism CitationStyle = "journalism"
	StyleWeb        CitationStyle = "web"
)

func (s CitationStyle) Valid() bool {
	switch s {
	case StyleAcademic, StyleJournalism, StyleWeb:
		return true
	}
	return false
}

// Reliability labels the kind of source the content is.
type Reliability string

const (
	ReliabilityPrimary   Reliability = "primary"
	ReliabilitySecondary Reliability = "secondary"
	ReliabilityBlog      Reliability = "blog"
)

func (r Reliability) Valid() bool {
	switch r {
	case ReliabilityPrimary, ReliabilitySecondary, ReliabilityBlog:
		return true
	}
	return false
}

// Options are the host-supplied settings embedded in every document.
type Options struct {
	CitationStyle     CitationStyle
	SourceReliability Reliability
	PublicationName   string
	ChunkSize         int
	TextLimit         int
}

// DefaultOptions returns the documented defaults, publishing under siteName.
func DefaultOptions(siteName string) Options {
	return Options{
		CitationStyle:     StyleAcademic,
		SourceReliability: ReliabilityPrimary,
		PublicationName:   siteName,
		ChunkSize:         segment.DefaultChunkSize,
		TextLimit:         extract.DefaultTextLimit,
	}
}

// normalized replaces unknown or missing values with defaults.
func (o Options) normalized() Options {
	if !o.CitationStyle.Valid() {
		if o.CitationStyle != "" {
			slog.Warn("Unknown citation style, using default", "style", o.CitationStyle, "default", StyleAcademic)
		}
		o.CitationStyle = StyleAcademic
	}
	if !o.SourceReliability.Valid() {
		if o.SourceReliability != "" {
			slog.Warn("Unknown source reliability, using default", "reliability", o.SourceReliability, "default", ReliabilityPrimary)
		}
		o.SourceReliability = ReliabilityPrimary
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = segment.DefaultChunkSize
	}
	if o.TextLimit <= 0 {
		o.TextLimit = extract.DefaultTextLimit
	}
	return o
}
