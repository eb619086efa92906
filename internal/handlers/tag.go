package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/util"
)

// TagHandler is thin enough to sit on the repo directly.
type TagHandler struct {
	Tags *repo.TagRepo
}

func (h *TagHandler) Search(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)
	offset, limit := util.Calculate(page, size)

	items, total, err := h.Tags.Search(c.Request().Context(), c.QueryParam("name"), offset, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewPageMeta(page, limit, total),
	})
}
