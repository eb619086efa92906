package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/middleware"
	"github.com/cloneoverflow/backend/internal/mykafka"
	"github.com/cloneoverflow/backend/internal/service"
	"github.com/cloneoverflow/backend/internal/transport"
)

type QuestionHandler struct {
	Questions *service.QuestionService
	Producer  *mykafka.Producer
}

func (h *QuestionHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "question_events", fmt.Sprint(event["questionID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func pathQuestionID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		return uuid.Nil, apperrors.NewBadBody("Invalid question id")
	}
	return id, nil
}

func (h *QuestionHandler) Create(c echo.Context) error {
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	var req transport.QuestionCreateDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	question, err := h.Questions.Create(c.Request().Context(), actingID, service.QuestionCreateInput{
		Title: req.Title,
		Text:  req.Text,
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":       "question_created",
		"questionID": question.ID,
		"userID":     actingID,
	})
	return c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) Get(c echo.Context) error {
	questionID, err := pathQuestionID(c)
	if err != nil {
		return err
	}

	question, err := h.Questions.Get(c.Request().Context(), questionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Update(c echo.Context) error {
	questionID, err := pathQuestionID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	var req transport.QuestionUpdateDTO
	if err := c.Bind(&req); err != nil {
		return apperrors.NewBadBody("Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	question, err := h.Questions.Update(c.Request().Context(), questionID, actingID, service.QuestionUpdateInput{
		Title: req.Title,
		Text:  req.Text,
		Tags:  req.Tags,
	})
	if err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":       "question_updated",
		"questionID": question.ID,
		"userID":     actingID,
	})
	return c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Delete(c echo.Context) error {
	questionID, err := pathQuestionID(c)
	if err != nil {
		return err
	}
	actingID, ok := middleware.UserID(c)
	if !ok {
		return apperrors.NewUnauthorized()
	}

	if err := h.Questions.Delete(c.Request().Context(), questionID, actingID); err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":       "question_deleted",
		"questionID": questionID,
		"userID":     actingID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *QuestionHandler) Vote(c echo.Context) error {
	questionID, err := pathQuestionID(c)
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

	if err := h.Questions.Vote(c.Request().Context(), questionID, actingID, req.Value()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
