package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/service/search"
	"github.com/cloneoverflow/backend/internal/util"
)

type SearchHandler struct {
	Search *search.Service
}

func (h *SearchHandler) Questions(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)
	from, limit := util.Calculate(page, size)

	total, questions, err := h.Search.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "questions": questions})
}
