package repository

import (
	"context"

	"stock-news-briefer/internal/briefer/dto"
)

// NewsSearchRepository finds recent news articles for a query.
type NewsSearchRepository interface {
	Search(ctx context.Context, query string, maxResults int) ([]dto.SearchResult, error)
}

// AIRepository turns extracted articles into a price-movement brief.
type AIRepository interface {
	GenerateBrief(ctx context.Context, query string, articles []dto.Article) (*dto.BriefResult, error)
}
