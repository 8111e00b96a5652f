package http

import (
	"errors"
	"net/http"

	"stock-news-briefer/internal/briefer/dto"
	"stock-news-briefer/internal/briefer/errs"
	"stock-news-briefer/internal/briefer/service"
	"stock-news-briefer/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BriefHandler handles HTTP requests for briefs.
type BriefHandler struct {
	brieferService service.BrieferService
	logger         *logger.Logger
}

// NewBriefHandler creates a new BriefHandler.
func NewBriefHandler(brieferService service.BrieferService, logger *logger.Logger) *BriefHandler {
	return &BriefHandler{brieferService: brieferService, logger: logger}
}

// RegisterRoutes registers the brief routes to the Echo group.
func (h *BriefHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetBrief)
}

// GetBrief generates a price-movement brief for the symbol in the q query
// parameter.
func (h *BriefHandler) GetBrief(c echo.Context) error {
	query := c.QueryParam("q")

	brief, err := h.brieferService.GenerateBrief(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrEmptyQuery) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		}

		var fetchErr *errs.FetchError
		var summarizeErr *errs.SummarizeError
		if errors.As(err, &fetchErr) || errors.As(err, &summarizeErr) {
			h.logger.Error("Upstream service failed", logger.ErrorField(err), logger.StringField("query", query))
			return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		}

		h.logger.Error("Failed to generate brief", logger.ErrorField(err), logger.StringField("query", query))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, brief)
}
