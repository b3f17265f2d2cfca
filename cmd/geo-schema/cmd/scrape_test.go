package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfenderov/geo-schema/internal/config"
)

func TestScrapeBatches(t *testing.T) {
	sources := []config.Source{
		{Name: "blog", URLs: []string{"https://example.com/a", "https://example.com/b"}},
		{Name: "empty"},
		{Name: "news", URLs: []string{"https://news.example.com/x"}},
	}

	tests := []struct {
		name    string
		sources []config.Source
		only    string
		urls    []string
		want    []string
		wantErr bool
	}{
		{name: "explicit urls win", sources: sources, only: "blog", urls: []string{"https://other.com/p"}, want: []string{""}},
		{name: "all sources skip empty", sources: sources, want: []string{"blog", "news"}},
		{name: "single source", sources: sources, only: "news", want: []string{"news"}},
		{name: "unknown source", sources: sources, only: "missing", wantErr: true},
		{name: "no sources", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scrapeBatches(tt.sources, tt.only, tt.urls)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var names []string
			for _, b := range got {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestBatchName(t *testing.T) {
	assert.Equal(t, "https://example.com/a", batchName(config.Source{URLs: []string{"https://example.com/a"}}))
	assert.Equal(t, "blog", batchName(config.Source{Name: "blog", URLs: []string{"https://example.com/a"}}))
}
