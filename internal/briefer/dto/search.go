package dto

import "time"

// SearchResult is a single news search hit.
type SearchResult struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SerpAPIResponse is the subset of the SerpApi search response the fetcher
// consumes. News results are populated for tbm=nws queries, organic results
// otherwise.
type SerpAPIResponse struct {
	SearchMetadata SerpAPISearchMetadata `json:"search_metadata"`
	NewsResults    []SerpAPIResult       `json:"news_results"`
	OrganicResults []SerpAPIResult       `json:"organic_results"`
	Error          string                `json:"error"`
}

// SerpAPISearchMetadata carries request status reported by SerpApi.
type SerpAPISearchMetadata struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SerpAPIResult is one entry of a SerpApi result list.
type SerpAPIResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
}
