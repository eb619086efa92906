package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/logging"
	"github.com/cloneoverflow/backend/internal/models"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/security"
	"github.com/cloneoverflow/backend/internal/service/search"
)

type QuestionService struct {
	Questions *repo.QuestionRepo
	Sanitizer *security.Sanitizer
	// Search is optional; when nil the question index is simply not kept.
	Search *search.Service
}

type QuestionCreateInput struct {
	Title string
	Text  string
	Tags  []string
}

type QuestionUpdateInput struct {
	Title string
	Text  string
	Tags  []string
}

func (s *QuestionService) Create(ctx context.Context, ownerID uuid.UUID, in QuestionCreateInput) (*models.Question, error) {
	question := &models.Question{
		OwnerID: ownerID,
		Title:   s.Sanitizer.PlainText(in.Title),
		Text:    s.Sanitizer.RichText(in.Text),
	}
	if err := s.Questions.Create(ctx, question, in.Tags); err != nil {
		return nil, err
	}
	s.index(ctx, question)
	return question, nil
}

// Get increments the view counter as a side effect of a read.
func (s *QuestionService) Get(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	question, err := s.find(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := s.Questions.IncrementViews(ctx, questionID); err != nil {
		return nil, err
	}
	question.Views++
	return question, nil
}

func (s *QuestionService) Update(ctx context.Context, questionID, actingID uuid.UUID, in QuestionUpdateInput) (*models.Question, error) {
	question, err := s.find(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.OwnerID != actingID {
		return nil, apperrors.NewForbidden()
	}

	if in.Title != "" {
		question.Title = s.Sanitizer.PlainText(in.Title)
	}
	if in.Text != "" {
		question.Text = s.Sanitizer.RichText(in.Text)
	}
	if err := s.Questions.Update(ctx, question, in.Tags); err != nil {
		return nil, err
	}
	s.index(ctx, question)
	return question, nil
}

func (s *QuestionService) Delete(ctx context.Context, questionID, actingID uuid.UUID) error {
	question, err := s.find(ctx, questionID)
	if err != nil {
		return err
	}
	if question.OwnerID != actingID {
		return apperrors.NewForbidden()
	}
	if err := s.Questions.Delete(ctx, questionID); err != nil {
		return err
	}
	if s.Search != nil {
		if err := s.Search.DeleteQuestion(ctx, questionID); err != nil {
			logging.FromContext(ctx).Warn("question deindex failed", "question_id", questionID, "error", err)
		}
	}
	return nil
}

func (s *QuestionService) Vote(ctx context.Context, questionID, userID uuid.UUID, value int) error {
	question, err := s.find(ctx, questionID)
	if err != nil {
		return err
	}
	if question.OwnerID == userID {
		return apperrors.NewBadBody("Cannot vote for your own question")
	}
	if err := s.Questions.Vote(ctx, userID, questionID, value); err != nil {
		if errors.Is(err, repo.ErrAlreadyVoted) {
			return apperrors.NewBadBody("User already voted")
		}
		return err
	}
	return nil
}

func (s *QuestionService) find(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNoEntityWithID("Question")
		}
		return nil, err
	}
	return question, nil
}

// index failures never fail the request; the store stays authoritative.
func (s *QuestionService) index(ctx context.Context, question *models.Question) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexQuestion(ctx, question); err != nil {
		logging.FromContext(ctx).Warn("question index failed", "question_id", question.ID, "error", err)
	}
}
