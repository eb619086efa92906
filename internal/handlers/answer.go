package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/middleware"
	"github.com/cloneoverflow/backend/internal/service"
	"github.com/cloneoverflow/backend/internal/transport"
)

type AnswerHandler struct {
	Answers *service.AnswerService
}

func pathAnswerID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("answerId"))
	if err != nil {
		return uuid.Nil, apperrors.NewBadBody("Invalid answer id")
	}
	return id, nil
}

func (h *AnswerHandler) Create(c echo.Context) error {
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	var req transport.AnswerCreateDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		return apperrors.NewBadBody("Invalid question id")
	}

	answer, err := h.Answers.Create(c.Request().Context(), actingID, questionID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, answer)
}

func (h *AnswerHandler) Update(c echo.Context) error {
	answerID, err := pathAnswerID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	var req transport.AnswerUpdateDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	answer, err := h.Answers.Update(c.Request().Context(), answerID, actingID, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) Delete(c echo.Context) error {
	answerID, err := pathAnswerID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	if err := h.Answers.Delete(c.Request().Context(), answerID, actingID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AnswerHandler) MarkSolution(c echo.Context) error {
	answerID, err := pathAnswerID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	answer, err := h.Answers.MarkSolution(c.Request().Context(), answerID, actingID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) Vote(c echo.Context) error {
	answerID, err := pathAnswerID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	var req transport.VoteDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.Answers.Vote(c.Request().Context(), answerID, actingID, req.Value()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
