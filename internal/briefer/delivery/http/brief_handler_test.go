package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/internal/briefer/errs"
	"stock-news-briefer/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrieferService struct {
	brief *dto.Brief
	err   error
}

func (f *fakeBrieferService) GenerateBrief(ctx context.Context, query string) (*dto.Brief, error) {
	if f.err != nil {
		return nil, f.err
	}
	if query == "" {
		return nil, errs.ErrEmptyQuery
	}
	return f.brief, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("error", "json")
	require.NoError(t, err)
	return l
}

func doRequest(t *testing.T, svc *fakeBrieferService, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewBriefHandler(svc, testLogger(t))
	require.NoError(t, handler.GetBrief(c))
	return rec
}

func TestGetBrief(t *testing.T) {
	svc := &fakeBrieferService{
		brief: &dto.Brief{
			Query:   "ACME",
			Summary: "Price rose due to strong earnings.",
			Sources: []dto.BriefSource{{Title: "t", URL: "https://example.com", Extracted: true}},
		},
	}

	rec := doRequest(t, svc, "/api/v1/briefs?q=ACME")

	assert.Equal(t, http.StatusOK, rec.Code)

	var brief dto.Brief
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &brief))
	assert.Equal(t, "ACME", brief.Query)
	assert.Equal(t, "Price rose due to strong earnings.", brief.Summary)
}

func TestGetBriefEmptyQueryIsBadRequest(t *testing.T) {
	rec := doRequest(t, &fakeBrieferService{}, "/api/v1/briefs")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBriefUpstreamFailureIsBadGateway(t *testing.T) {
	svc := &fakeBrieferService{
		err: &errs.FetchError{Provider: "serpapi", Err: fmt.Errorf("service unavailable")},
	}

	rec := doRequest(t, svc, "/api/v1/briefs?q=ACME")

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "service unavailable")
}

func TestGetBriefSummarizeFailureIsBadGateway(t *testing.T) {
	svc := &fakeBrieferService{
		err: &errs.SummarizeError{Provider: "openai", Err: fmt.Errorf("bad key")},
	}

	rec := doRequest(t, svc, "/api/v1/briefs?q=ACME")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
