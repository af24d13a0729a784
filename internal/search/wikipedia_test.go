package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikipediaProviderResolvesSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page/summary/distillation" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"title": "Distillation",
				"extract": "Distillation is a separation process.",
				"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Distillation"}}
			}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewWikipediaProvider(server.URL, "chemebot-test", time.Second)
	results, err := p.Search(context.Background(), "distillation chemical engineering", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Distillation", results[0].Title)
	assert.Equal(t, "Distillation is a separation process.", results[0].Snippet)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Distillation", results[0].URL)
	assert.Equal(t, "wikipedia", results[0].Source)
}

func TestWikipediaProviderMissingPageIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewWikipediaProvider(server.URL, "", time.Second)
	results, err := p.Search(context.Background(), "nonexistent topic", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestWikipediaProviderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewWikipediaProvider(server.URL, "", time.Second)
	_, err := p.Search(context.Background(), "distillation", 5)
	assert.Error(t, err)
}

func TestWikipediaProviderToleratesMissingOptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "Reactor"}`))
	}))
	defer server.Close()

	p := NewWikipediaProvider(server.URL, "", time.Second)
	results, err := p.Search(context.Background(), "reactor", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Reactor", results[0].Title)
	assert.NotEmpty(t, results[0].URL)
}
