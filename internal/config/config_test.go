package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfenderov/geo-schema/internal/schema"
)

func TestSchemaOptions(t *testing.T) {
	tests := []struct {
		name            string
		publicationName string
		want            string
	}{
		{name: "falls back to site name", publicationName: "", want: "geo-schema"},
		{name: "explicit publication name", publicationName: "The Daily", want: "The Daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Schema.PublicationName = tt.publicationName

			opts := cfg.SchemaOptions()

			assert.Equal(t, tt.want, opts.PublicationName)
			assert.Equal(t, schema.StyleAcademic, opts.CitationStyle)
			assert.Equal(t, schema.ReliabilityPrimary, opts.SourceReliability)
			assert.Equal(t, 1800, opts.ChunkSize)
			assert.Equal(t, 25000, opts.TextLimit)
		})
	}
}
