package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-news-briefer/internal/briefer/config"
	"stock-news-briefer/internal/briefer/errs"
	"stock-news-briefer/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("error", "json")
	require.NoError(t, err)
	return l
}

func serpConfig(baseURL string) *config.Config {
	return &config.Config{
		Search: config.Search{
			Provider:   config.ProviderSerpAPI,
			BaseURL:    baseURL,
			APIKey:     "test-key",
			MaxResults: 5,
			Timeout:    5 * time.Second,
		},
	}
}

func newsPayload(count int) map[string]interface{} {
	results := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		results = append(results, map[string]interface{}{
			"position": i + 1,
			"title":    fmt.Sprintf("Headline %d", i+1),
			"link":     fmt.Sprintf("https://example.com/article-%d", i+1),
			"source":   "Example News",
			"snippet":  "Some snippet.",
		})
	}
	return map[string]interface{}{
		"search_metadata": map[string]interface{}{"id": "abc", "status": "Success"},
		"news_results":    results,
	}
}

func TestSerpAPISearchReturnsAllResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "nws", r.URL.Query().Get("tbm"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "ACME stock news", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(newsPayload(3))
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	results, err := repo.Search(context.Background(), "ACME stock news", 5)

	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		assert.NotEmpty(t, result.Link)
		assert.NotEmpty(t, result.Title)
	}
}

func TestSerpAPISearchTruncatesToMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(newsPayload(8))
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	results, err := repo.Search(context.Background(), "ACME", 5)

	require.NoError(t, err)
	require.Len(t, results, 5)
	// The first five in response order
	assert.Equal(t, "https://example.com/article-1", results[0].Link)
	assert.Equal(t, "https://example.com/article-5", results[4].Link)
}

func TestSerpAPISearchSkipsEmptyLinks(t *testing.T) {
	payload := newsPayload(2)
	payload["news_results"].([]map[string]interface{})[0]["link"] = ""

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	results, err := repo.Search(context.Background(), "ACME", 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/article-2", results[0].Link)
}

func TestSerpAPISearchZeroResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(newsPayload(0))
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	results, err := repo.Search(context.Background(), "ACME", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSerpAPISearchFallsBackToOrganicResults(t *testing.T) {
	payload := map[string]interface{}{
		"organic_results": []map[string]interface{}{
			{"title": "Organic hit", "link": "https://example.com/organic"},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	results, err := repo.Search(context.Background(), "ACME", 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/organic", results[0].Link)
}

func TestSerpAPISearchNon200IsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Invalid API key"}`)
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	_, err := repo.Search(context.Background(), "ACME", 5)

	var fetchErr *errs.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Error(), "Invalid API key")
}

func TestSerpAPISearchNoResultsMessageIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Google hasn't returned any results for this query."}`)
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	results, err := repo.Search(context.Background(), "obscure-nonsense-ticker", 5)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSerpAPISearchOtherErrorFieldIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"Your account has run out of searches."}`)
	}))
	defer srv.Close()

	repo := NewSerpAPIRepository(serpConfig(srv.URL), testLogger(t))

	_, err := repo.Search(context.Background(), "ACME", 5)

	var fetchErr *errs.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Error(), "run out of searches")
}
