package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/middleware"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/service"
	"github.com/cloneoverflow/backend/internal/transport"
)

type UserHandler struct {
	Users *service.UserService
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func pathUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return uuid.Nil, apperrors.NewBadBody("Invalid user id")
	}
	return id, nil
}

func (h *UserHandler) Get(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	user, err := h.Users.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}
	if actingID != userID {
		return apperrors.NewForbidden()
	}

	var req transport.UserUpdateDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.Users.Update(c.Request().Context(), userID, service.UserUpdateInput{
		Name:     req.Name,
		Username: req.Username,
		About:    req.About,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.Users.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetAnswers(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)
	opts := repo.ListAnswersOptions{
		Search:  c.QueryParam("search"),
		SortBy:  c.QueryParam("sortBy"),
		OrderBy: c.QueryParam("orderBy"),
	}

	result, err := h.Users.GetAnswers(c.Request().Context(), userID, opts, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *UserHandler) GetQuestions(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 0)
	opts := repo.ListQuestionsOptions{
		Search:  c.QueryParam("search"),
		SortBy:  c.QueryParam("sortBy"),
		OrderBy: c.QueryParam("orderBy"),
	}
	if tags := c.QueryParam("tags"); tags != "" {
		opts.Tags = strings.Split(tags, ",")
	}

	result, err := h.Users.GetQuestions(c.Request().Context(), userID, opts, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Delete requires re-supplied credentials on top of a valid access token.
func (h *UserHandler) Delete(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	var req transport.UserDeleteDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Users.Delete(c.Request().Context(), userID, req.Email, req.Password, actingID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
