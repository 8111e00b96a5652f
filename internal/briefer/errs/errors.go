package errs

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when the user supplies a blank query. It is
// detected before any network call is made.
var ErrEmptyQuery = errors.New("query must not be empty")

// ConfigError reports a missing or invalid configuration value, detected at
// startup before any network call.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}

// FetchError reports a failure of the news search backend. Fatal to the run.
type FetchError struct {
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("news search failed (%s): %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError reports a failure to extract readable text from a single
// article URL. Callers skip the URL and continue.
type ExtractError struct {
	URL string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract article %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// SummarizeError reports a failure of the completion backend. Fatal to the
// run, no retry.
type SummarizeError struct {
	Provider string
	Err      error
}

func (e *SummarizeError) Error() string {
	return fmt.Sprintf("summarization failed (%s): %v", e.Provider, e.Err)
}

func (e *SummarizeError) Unwrap() error { return e.Err }
