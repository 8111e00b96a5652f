package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"stock-news-briefer/internal/briefer/config"
	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/internal/briefer/errs"
	"stock-news-briefer/pkg/logger"
	"stock-news-briefer/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/patrickmn/go-cache"
)

// Extractor turns an article URL into readable plain text.
type Extractor interface {
	Extract(ctx context.Context, articleURL string) (*dto.Article, error)
}

// readabilityExtractor downloads a page and strips it down to its main
// article text.
type readabilityExtractor struct {
	client        *http.Client
	cfg           *config.Config
	logger        *logger.Logger
	inmemoryCache *cache.Cache
}

// NewReadabilityExtractor creates the default Extractor.
func NewReadabilityExtractor(cfg *config.Config, log *logger.Logger) Extractor {
	return &readabilityExtractor{
		client:        &http.Client{Timeout: cfg.Fetcher.Timeout},
		cfg:           cfg,
		logger:        log,
		inmemoryCache: cache.New(cfg.Fetcher.CacheTTL, 2*cfg.Fetcher.CacheTTL),
	}
}

func (e *readabilityExtractor) Extract(ctx context.Context, articleURL string) (*dto.Article, error) {
	if cached, found := e.inmemoryCache.Get(articleURL); found {
		article := cached.(dto.Article)
		return &article, nil
	}

	content, err := e.generateContent(ctx, articleURL)
	if err != nil {
		return nil, &errs.ExtractError{URL: articleURL, Err: err}
	}

	if content == "" {
		return nil, &errs.ExtractError{URL: articleURL, Err: fmt.Errorf("no readable text found")}
	}

	article := dto.Article{
		URL:     articleURL,
		Content: content,
	}
	if parsed, err := url.Parse(articleURL); err == nil {
		article.Source = parsed.Hostname()
	}

	e.inmemoryCache.SetDefault(articleURL, article)

	return &article, nil
}

func (e *readabilityExtractor) generateContent(ctx context.Context, articleURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", articleURL, nil)
	if err != nil {
		e.logger.Error("Failed to create request", logger.ErrorField(err), logger.StringField("url", articleURL))
		return "", fmt.Errorf("failed to create request for article: %w", err)
	}
	req.Header.Set("User-Agent", e.cfg.Fetcher.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Error("Failed to fetch article", logger.ErrorField(err), logger.StringField("url", articleURL))
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.Error("Failed to fetch article with non-200 status", logger.IntField("status", resp.StatusCode), logger.StringField("url", articleURL))
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.logger.Error("Failed to read response body", logger.ErrorField(err), logger.StringField("url", articleURL))
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		e.logger.Error("Failed to parse article content", logger.ErrorField(err), logger.StringField("url", articleURL))
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}
	content := doc.Content()
	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(content)))
	if err != nil {
		e.logger.Error("Failed to parse article content", logger.ErrorField(err), logger.StringField("url", articleURL))
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}

	content = strings.TrimSpace(docHTML.Text())
	return utils.SafeText(content), nil
}
