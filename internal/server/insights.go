package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"newsight/internal/runtime"
	"newsight/models"
)

const defaultResultCount = 5

// Generator produces insights for a topic, attributing the query to userID
// when one is present.
type Generator interface {
	Generate(ctx context.Context, topic string, resultCount int, userID string) ([]models.Insight, error)
}

type InsightsHandler struct {
	Pipeline Generator
}

// Register wires the insights endpoint with optional authentication:
// anonymous callers are served, authenticated ones get history attribution.
func (h *InsightsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(runtime.EchoOptionalAuthMiddleware(secret))
	g.POST("", h.generate)
}

func (h *InsightsHandler) generate(c echo.Context) error {
	var req InsightsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "topic required")
	}
	if req.ResultCount <= 0 {
		req.ResultCount = defaultResultCount
	}

	userID, _ := c.Get("user_id").(string)

	insights, err := h.Pipeline.Generate(c.Request().Context(), req.Topic, req.ResultCount, userID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoInsights):
			return echo.NewHTTPError(http.StatusNotFound, "no insights found")
		case errors.Is(err, models.ErrSourceUnavailable), errors.Is(err, models.ErrExtractorUnavailable):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, insights)
}
