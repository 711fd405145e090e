package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsight/internal/runtime"
	"newsight/internal/store"
	"newsight/models"
)

type HistoryHandler struct {
	Store *store.Store
}

func (h *HistoryHandler) Register(g *echo.Group, secret []byte) {
	g.Use(runtime.EchoAuthMiddleware(secret))
	g.GET("", h.list)
	g.DELETE("/:id", h.delete)
}

func (h *HistoryHandler) list(c echo.Context) error {
	userID := c.Get("user_id").(string)
	terms, err := h.Store.ListSearchTerms(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if terms == nil {
		terms = []models.SearchTerm{}
	}
	return c.JSON(http.StatusOK, terms)
}

func (h *HistoryHandler) delete(c echo.Context) error {
	userID := c.Get("user_id").(string)
	deleted, err := h.Store.DeleteSearchTerm(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "search term not found")
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "search term deleted"})
}
