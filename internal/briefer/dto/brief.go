package dto

// Article is the extracted plain-text body of one news page.
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source,omitempty"`
	Content string `json:"content"`
}

// BriefResult is the raw summarizer output.
type BriefResult struct {
	Summary   string `json:"summary"`
	ModelUsed string `json:"model_used"`
}

// BriefSource describes one search hit and whether its text made it into the
// prompt.
type BriefSource struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Extracted bool   `json:"extracted"`
}

// Brief is the terminal artifact of one pipeline run.
type Brief struct {
	Query     string        `json:"query"`
	Summary   string        `json:"summary"`
	ModelUsed string        `json:"model_used"`
	Sources   []BriefSource `json:"sources"`
}
