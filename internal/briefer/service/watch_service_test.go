package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"stock-news-briefer/internal/briefer/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func TestWatchRunSendsBriefs(t *testing.T) {
	cfg := testConfig()
	cfg.Watch.Symbols = []string{"ACME", "GLOBEX"}

	searchRepo := &fakeSearchRepo{
		results: []dto.SearchResult{{Title: "t", Link: "https://example.com/a"}},
	}
	extractor := &fakeExtractor{texts: map[string]string{"https://example.com/a": "text"}}
	aiRepo := &fakeAIRepo{summary: "moved on earnings"}
	brieferSvc := NewBrieferService(cfg, testLogger(t), searchRepo, extractor, aiRepo)

	notifier := &fakeNotifier{}
	watchSvc := NewWatchService(cfg, testLogger(t), brieferSvc, notifier)

	watchSvc.Run(context.Background())

	require.NotEmpty(t, notifier.messages)
	joined := strings.Join(notifier.messages, "")
	assert.Contains(t, joined, "ACME")
	assert.Contains(t, joined, "GLOBEX")
	assert.Contains(t, joined, "moved on earnings")
}

func TestWatchRunSkipsFailedSymbols(t *testing.T) {
	cfg := testConfig()
	cfg.Watch.Symbols = []string{"ACME"}

	// every extraction fails, but briefs are still generated and delivered
	searchRepo := &fakeSearchRepo{
		results: []dto.SearchResult{{Title: "t", Link: "https://example.com/a"}},
	}
	aiRepo := &fakeAIRepo{summary: "not enough information"}
	brieferSvc := NewBrieferService(cfg, testLogger(t), searchRepo, &fakeExtractor{}, aiRepo)

	notifier := &fakeNotifier{}
	watchSvc := NewWatchService(cfg, testLogger(t), brieferSvc, notifier)

	watchSvc.Run(context.Background())

	require.NotEmpty(t, notifier.messages)
	assert.Contains(t, strings.Join(notifier.messages, ""), "not enough information")
}
