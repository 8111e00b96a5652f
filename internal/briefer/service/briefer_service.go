package service

import (
	"context"
	"net/url"
	"sync"

	"stock-news-briefer/internal/briefer/config"
	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/internal/briefer/repository"
	"stock-news-briefer/internal/briefer/scraper"
	"stock-news-briefer/pkg/logger"
	"stock-news-briefer/pkg/utils"
)

// BrieferService runs the search -> extract -> summarize pipeline.
type BrieferService interface {
	GenerateBrief(ctx context.Context, query string) (*dto.Brief, error)
}

type brieferService struct {
	cfg        *config.Config
	logger     *logger.Logger
	searchRepo repository.NewsSearchRepository
	extractor  scraper.Extractor
	aiRepo     repository.AIRepository
}

// NewBrieferService creates a new BrieferService.
func NewBrieferService(
	cfg *config.Config,
	log *logger.Logger,
	searchRepo repository.NewsSearchRepository,
	extractor scraper.Extractor,
	aiRepo repository.AIRepository,
) BrieferService {
	return &brieferService{
		cfg:        cfg,
		logger:     log,
		searchRepo: searchRepo,
		extractor:  extractor,
		aiRepo:     aiRepo,
	}
}

// GenerateBrief produces a price-movement brief for the given ticker or
// company name. Extraction failures are skipped; the summarizer always runs,
// even with zero articles.
func (s *brieferService) GenerateBrief(ctx context.Context, query string) (*dto.Brief, error) {
	normalized, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	searchResults, err := s.searchRepo.Search(ctx, normalized, s.cfg.Search.MaxResults)
	if err != nil {
		return nil, err
	}

	searchResults = s.filterBlacklisted(searchResults)

	s.logger.Info("Search results ready",
		logger.StringField("query", normalized),
		logger.IntField("results", len(searchResults)),
	)

	articles, sources := s.extractAll(ctx, searchResults)

	if len(articles) < len(searchResults) {
		s.logger.Warn("Some articles could not be extracted",
			logger.IntField("extracted", len(articles)),
			logger.IntField("total", len(searchResults)),
		)
	}

	briefResult, err := s.aiRepo.GenerateBrief(ctx, query, articles)
	if err != nil {
		return nil, err
	}

	return &dto.Brief{
		Query:     query,
		Summary:   briefResult.Summary,
		ModelUsed: briefResult.ModelUsed,
		Sources:   sources,
	}, nil
}

func (s *brieferService) filterBlacklisted(results []dto.SearchResult) []dto.SearchResult {
	if len(s.cfg.Search.BlacklistedDomains) == 0 {
		return results
	}
	filtered := results[:0]
	for _, result := range results {
		parsed, err := url.Parse(result.Link)
		if err != nil {
			continue
		}
		if utils.ContainsString(s.cfg.Search.BlacklistedDomains, parsed.Hostname()) {
			s.logger.Warn("Skip result from blacklisted domain", logger.StringField("domain", parsed.Hostname()))
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}

// extractAll downloads the search results with bounded concurrency. The
// returned article order follows the search result order regardless of
// completion order.
func (s *brieferService) extractAll(ctx context.Context, results []dto.SearchResult) ([]dto.Article, []dto.BriefSource) {
	var wg sync.WaitGroup
	extracted := make([]*dto.Article, len(results))
	semaphore := make(chan struct{}, s.cfg.Fetcher.MaxConcurrent)

	for i, result := range results {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		idx, res := i, result
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			article, err := s.extractor.Extract(ctx, res.Link)
			if err != nil {
				s.logger.Error("Failed to extract article, skipping", logger.ErrorField(err), logger.StringField("url", res.Link))
				return
			}
			article.Title = utils.CleanToValidUTF8(res.Title)
			if res.Source != "" {
				article.Source = res.Source
			}
			extracted[idx] = article
		})
	}

	wg.Wait()

	articles := make([]dto.Article, 0, len(results))
	sources := make([]dto.BriefSource, 0, len(results))
	for i, result := range results {
		source := dto.BriefSource{
			Title: result.Title,
			URL:   result.Link,
		}
		if extracted[i] != nil {
			source.Extracted = true
			articles = append(articles, *extracted[i])
		}
		sources = append(sources, source)
	}

	return articles, sources
}
