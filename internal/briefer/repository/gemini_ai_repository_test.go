package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-news-briefer/internal/briefer/config"
	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/internal/briefer/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func geminiConfig(baseURL string) *config.Config {
	return &config.Config{
		Gemini: config.Gemini{
			BaseURL:             baseURL + "/v1beta/models",
			APIKey:              "test-key",
			Model:               "gemini-2.0-flash",
			MaxRequestPerMinute: 60,
			MaxTokenPerMinute:   100000,
		},
	}
}

// newGeminiTestRepo wires the repository against a fake upstream that serves
// both the countTokens call made through the genai client and the raw
// generateContent call.
func newGeminiTestRepo(t *testing.T, generateBody string) AIRepository {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, ":countTokens"):
			fmt.Fprint(w, `{"totalTokens": 42}`)
		case strings.Contains(r.URL.Path, ":generateContent"):
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			fmt.Fprint(w, generateBody)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  "test-key",
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: srv.URL,
		},
	})
	require.NoError(t, err)

	repo, err := NewGeminiAIRepository(geminiConfig(srv.URL), testLogger(t), genAiClient)
	require.NoError(t, err)
	return repo
}

func TestGeminiGenerateBriefReturnsSummary(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"  Shares fell after weak guidance.  "}]}}]}`
	repo := newGeminiTestRepo(t, body)

	result, err := repo.GenerateBrief(context.Background(), "ACME stock news", []dto.Article{
		{Title: "Guidance cut", Content: "ACME lowered its outlook."},
	})

	require.NoError(t, err)
	assert.Equal(t, "Shares fell after weak guidance.", result.Summary)
	assert.Equal(t, "gemini-2.0-flash", result.ModelUsed)
}

func TestGeminiGenerateBriefEmptyCandidatesIsSummarizeError(t *testing.T) {
	repo := newGeminiTestRepo(t, `{"candidates":[]}`)

	_, err := repo.GenerateBrief(context.Background(), "ACME stock news", nil)

	var sumErr *errs.SummarizeError
	require.ErrorAs(t, err, &sumErr)
	assert.Equal(t, config.ProviderGemini, sumErr.Provider)
}

func TestGeminiGenerateBriefNon200IsSummarizeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, ":countTokens") {
			fmt.Fprint(w, `{"totalTokens": 42}`)
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"quota exceeded"}}`)
	}))
	t.Cleanup(srv.Close)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  "test-key",
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: srv.URL,
		},
	})
	require.NoError(t, err)

	repo, err := NewGeminiAIRepository(geminiConfig(srv.URL), testLogger(t), genAiClient)
	require.NoError(t, err)

	_, err = repo.GenerateBrief(context.Background(), "ACME stock news", nil)

	var sumErr *errs.SummarizeError
	require.ErrorAs(t, err, &sumErr)
	assert.Contains(t, sumErr.Error(), "quota exceeded")
}
