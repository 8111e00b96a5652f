package service

import (
	"fmt"
	"strings"

	"stock-news-briefer/internal/briefer/errs"
)

// NormalizeQuery turns a raw ticker or company name into a news search
// query. Blank input fails before any network call is made.
func NormalizeQuery(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errs.ErrEmptyQuery
	}

	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "stock") || strings.Contains(lower, "news") {
		return trimmed, nil
	}

	return fmt.Sprintf("%s stock news", trimmed), nil
}
