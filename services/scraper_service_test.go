package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="CodeHelper">
	<meta name="description" content="An AI assistant for writing code.">
	<meta property="og:description" content="og description">
</head>
<body>
	<nav><p>This navigation paragraph should be skipped entirely by the extractor.</p></nav>
	<h1>CodeHelper heading</h1>
	<p>short</p>
	<p>CodeHelper completes functions, writes tests and explains unfamiliar code.</p>
	<script>var ignored = "script content that must never appear in output";</script>
</body>
</html>`

func TestScrapeExtractsMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := NewScraperService()
	meta, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "CodeHelper", meta.Title)
	assert.Equal(t, "An AI assistant for writing code.", meta.Description)
	assert.Contains(t, meta.Content, "completes functions")
	assert.NotContains(t, meta.Content, "short")
	assert.NotContains(t, meta.Content, "script content")
	assert.NotContains(t, meta.Content, "navigation paragraph")
}

func TestScrapeTitleFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Plain Title</title></head><body></body></html>"))
	}))
	defer srv.Close()

	s := NewScraperService()
	meta, err := s.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain Title", meta.Title)
}

func TestScrapeNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewScraperService()
	_, err := s.Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestIsValidURL(t *testing.T) {
	s := NewScraperService()
	assert.True(t, s.IsValidURL("https://example.com/tool"))
	assert.True(t, s.IsValidURL("http://example.com"))
	assert.False(t, s.IsValidURL("just a description of a tool"))
	assert.False(t, s.IsValidURL(""))
}
