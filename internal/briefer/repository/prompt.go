package repository

import (
	"fmt"
	"strings"

	"stock-news-briefer/internal/briefer/dto"
)

// BuildBriefPrompt composes the single prompt sent to the completion API.
// The output is deterministic for a fixed query and article list.
func BuildBriefPrompt(query string, articles []dto.Article) string {
	var articleBuilder strings.Builder
	for i, article := range articles {
		articleBuilder.WriteString(fmt.Sprintf(
			"Article %d:\nTitle: %s\nSource: %s\nContent: %s\n\n",
			i+1, article.Title, article.Source, article.Content,
		))
	}

	if len(articles) == 0 {
		return fmt.Sprintf(`No news articles could be retrieved for "%s".

State clearly that there is not enough information to explain the recent price movement of %s, and do not speculate beyond that.`, query, query)
	}

	promptTemplate := `Here are %d news articles about %s:

%sBased only on the articles above, explain the most likely reasons behind the recent change in the stock price of %s. If the articles do not contain enough information to explain the movement, say so explicitly. Do not use any knowledge beyond the supplied articles.`

	return fmt.Sprintf(promptTemplate, len(articles), query, articleBuilder.String(), query)
}
