package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stock-news-briefer/internal/briefer/config"
	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/internal/briefer/errs"
	"stock-news-briefer/pkg/logger"
)

// isNoResultsError reports whether a SerpApi error message means the query
// simply matched nothing, e.g. "Google hasn't returned any results for this
// query."
func isNoResultsError(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "hasn't returned any results") || strings.Contains(m, "no results")
}

// serpAPIRepository fetches news results from the SerpApi Google News
// engine.
type serpAPIRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewSerpAPIRepository creates a SerpApi-backed NewsSearchRepository.
func NewSerpAPIRepository(cfg *config.Config, log *logger.Logger) NewsSearchRepository {
	return &serpAPIRepository{
		client: &http.Client{Timeout: cfg.Search.Timeout},
		cfg:    cfg,
		logger: log,
	}
}

func (r *serpAPIRepository) Search(ctx context.Context, query string, maxResults int) ([]dto.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("tbm", "nws")
	params.Set("num", fmt.Sprintf("%d", maxResults))
	params.Set("api_key", r.cfg.Search.APIKey)

	reqURL := fmt.Sprintf("%s/search.json?%s", r.cfg.Search.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &errs.FetchError{Provider: config.ProviderSerpAPI, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to call search API", logger.ErrorField(err))
		return nil, &errs.FetchError{Provider: config.ProviderSerpAPI, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from search API", logger.IntField("status_code", resp.StatusCode))
		return nil, &errs.FetchError{
			Provider: config.ProviderSerpAPI,
			Err:      fmt.Errorf("received non-OK response: %d - %s", resp.StatusCode, string(body)),
		}
	}

	var searchResp dto.SerpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, &errs.FetchError{Provider: config.ProviderSerpAPI, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}
	if searchResp.Error != "" {
		// SerpApi reports an empty result set as a 200 with the error field
		// set. That is a degenerate run, not a failure.
		if isNoResultsError(searchResp.Error) {
			r.logger.Info("Search returned no results", logger.StringField("query", query))
			return []dto.SearchResult{}, nil
		}
		return nil, &errs.FetchError{Provider: config.ProviderSerpAPI, Err: fmt.Errorf("search API error: %s", searchResp.Error)}
	}

	raw := searchResp.NewsResults
	if len(raw) == 0 {
		raw = searchResp.OrganicResults
	}

	results := make([]dto.SearchResult, 0, maxResults)
	for _, item := range raw {
		if len(results) >= maxResults {
			break
		}
		if item.Link == "" {
			continue
		}
		result := dto.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Source:  item.Source,
			Snippet: item.Snippet,
		}
		if t, err := time.Parse("01/02/2006, 03:04 PM, -0700 MST", item.Date); err == nil {
			result.PublishedAt = &t
		}
		results = append(results, result)
	}

	r.logger.Info("Search completed",
		logger.StringField("query", query),
		logger.IntField("results", len(results)),
	)

	return results, nil
}
