package repository

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"stock-news-briefer/internal/briefer/config"
	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/internal/briefer/errs"
	"stock-news-briefer/pkg/logger"

	"github.com/mmcdole/gofeed"
)

// googleRSSRepository fetches news results from the keyless Google News RSS
// feed. Used when no SerpApi key is configured.
type googleRSSRepository struct {
	cfg     *config.Config
	logger  *logger.Logger
	feedURL string
}

// NewGoogleRSSRepository creates a Google News RSS backed
// NewsSearchRepository.
func NewGoogleRSSRepository(cfg *config.Config, log *logger.Logger) NewsSearchRepository {
	return &googleRSSRepository{
		cfg:     cfg,
		logger:  log,
		feedURL: "https://news.google.com/rss",
	}
}

func (r *googleRSSRepository) Search(ctx context.Context, query string, maxResults int) ([]dto.SearchResult, error) {
	feedURL := fmt.Sprintf("%s/search?q=%s&hl=en-US&gl=US&ceid=US:en", r.feedURL, url.QueryEscape(query))

	r.logger.Info("Fetching RSS feed", logger.StringField("url", feedURL))

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.logger.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("query", query))
		return nil, &errs.FetchError{Provider: config.ProviderGoogleRSS, Err: err}
	}

	// Most recent first
	sort.Slice(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	results := make([]dto.SearchResult, 0, maxResults)
	for _, item := range feed.Items {
		if len(results) >= maxResults {
			break
		}
		if item.Link == "" {
			continue
		}
		result := dto.SearchResult{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: item.PublishedParsed,
		}
		if feed.Title != "" {
			result.Source = feed.Title
		}
		results = append(results, result)
	}

	return results, nil
}
