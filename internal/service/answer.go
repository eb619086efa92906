package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/models"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/security"
)

type AnswerService struct {
	Answers   *repo.AnswerRepo
	Questions *repo.QuestionRepo
	Sanitizer *security.Sanitizer
}

func (s *AnswerService) Create(ctx context.Context, ownerID, questionID uuid.UUID, text string) (*models.Answer, error) {
	if _, err := s.Questions.FindByID(ctx, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNoEntityWithID("Question")
		}
		return nil, err
	}

	answer := &models.Answer{
		OwnerID:    ownerID,
		QuestionID: questionID,
		Text:       s.Sanitizer.RichText(text),
	}
	if err := s.Answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *AnswerService) Update(ctx context.Context, answerID, actingID uuid.UUID, text string) (*models.Answer, error) {
	answer, err := s.find(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer.OwnerID != actingID {
		return nil, apperrors.NewForbidden()
	}

	answer.Text = s.Sanitizer.RichText(text)
	if err := s.Answers.Update(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *AnswerService) Delete(ctx context.Context, answerID, actingID uuid.UUID) error {
	answer, err := s.find(ctx, answerID)
	if err != nil {
		return err
	}
	if answer.OwnerID != actingID {
		return apperrors.NewForbidden()
	}
	return s.Answers.Delete(ctx, answerID)
}

// MarkSolution may only be called by the owner of the question the answer
// belongs to. One solution per question; marking a new one clears the old.
func (s *AnswerService) MarkSolution(ctx context.Context, answerID, actingID uuid.UUID) (*models.Answer, error) {
	answer, err := s.find(ctx, answerID)
	if err != nil {
		return nil, err
	}

	question, err := s.Questions.FindByID(ctx, answer.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNoEntityWithID("Question")
		}
		return nil, err
	}
	if question.OwnerID != actingID {
		return nil, apperrors.NewForbidden()
	}

	if err := s.Answers.MarkSolution(ctx, answer.QuestionID, answerID); err != nil {
		return nil, err
	}
	answer.IsSolution = true
	return answer, nil
}

func (s *AnswerService) Vote(ctx context.Context, answerID, userID uuid.UUID, value int) error {
	answer, err := s.find(ctx, answerID)
	if err != nil {
		return err
	}
	if answer.OwnerID == userID {
		return apperrors.NewBadBody("Cannot vote for your own answer")
	}
	if err := s.Answers.Vote(ctx, userID, answerID, value); err != nil {
		if errors.Is(err, repo.ErrAlreadyVoted) {
			return apperrors.NewBadBody("User already voted")
		}
		return err
	}
	return nil
}

func (s *AnswerService) find(ctx context.Context, answerID uuid.UUID) (*models.Answer, error) {
	answer, err := s.Answers.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNoEntityWithID("Answer")
		}
		return nil, err
	}
	return answer, nil
}
