package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/apperrors"
	"github.com/cloneoverflow/backend/internal/hash"
	"github.com/cloneoverflow/backend/internal/logging"
	"github.com/cloneoverflow/backend/internal/models"
	"github.com/cloneoverflow/backend/internal/repo"
	"github.com/cloneoverflow/backend/internal/security"
	"github.com/cloneoverflow/backend/internal/util"
)

type UserService struct {
	Users     *repo.UserRepo
	Questions *repo.QuestionRepo
	Answers   *repo.AnswerRepo
	Sanitizer *security.Sanitizer
}

type UserUpdateInput struct {
	Name     string
	Username string
	About    string
}

// ProfileView is the public profile page payload: the profile itself,
// authored counts and the user's best question and answer.
type ProfileView struct {
	User          *models.User             `json:"user"`
	QuestionCount int64                    `json:"question_count"`
	AnswerCount   int64                    `json:"answer_count"`
	BestQuestion  *models.Question         `json:"best_question,omitempty"`
	BestAnswer    *repo.AnswerWithQuestion `json:"best_answer,omitempty"`
}

type ListResult[T any] struct {
	Items []T           `json:"data"`
	Meta  util.PageMeta `json:"meta"`
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNoEntityWithID("User")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, in UserUpdateInput) (*models.User, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	if in.Username != "" {
		taken, err := s.Users.FindByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if taken != nil && taken.ID != userID {
			return nil, apperrors.NewBadBody("Username already exists")
		}
	}

	fields := map[string]any{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Username != "" {
		fields["username"] = in.Username
	}
	if in.About != "" {
		fields["about"] = s.Sanitizer.RichText(in.About)
	}
	if len(fields) > 0 {
		if err := s.Users.UpdateProfile(ctx, userID, fields); err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, userID)
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	questionCount, answerCount, err := s.Users.OwnedCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	bestQuestion, err := s.Questions.BestByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	bestAnswer, err := s.Answers.BestByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		User:          user,
		QuestionCount: questionCount,
		AnswerCount:   answerCount,
		BestQuestion:  bestQuestion,
		BestAnswer:    bestAnswer,
	}, nil
}

func (s *UserService) GetAnswers(ctx context.Context, userID uuid.UUID, opts repo.ListAnswersOptions, page, size int) (*ListResult[repo.AnswerWithQuestion], error) {
	offset, limit := util.Calculate(page, size)
	opts.Offset, opts.Limit = offset, limit

	items, total, err := s.Answers.ListByOwner(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	return &ListResult[repo.AnswerWithQuestion]{Items: items, Meta: util.NewPageMeta(page, limit, total)}, nil
}

func (s *UserService) GetQuestions(ctx context.Context, userID uuid.UUID, opts repo.ListQuestionsOptions, page, size int) (*ListResult[models.Question], error) {
	offset, limit := util.Calculate(page, size)
	opts.Offset, opts.Limit = offset, limit

	items, total, err := s.Questions.ListByOwner(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	return &ListResult[models.Question]{Items: items, Meta: util.NewPageMeta(page, limit, total)}, nil
}

// Delete removes an account only after re-supplied credentials pass a
// four-stage guard. Identity mismatch is an access-control failure
// (forbidden); email or password mismatch is an input failure (bad body),
// kept vague to resist account enumeration. The order of the checks is
// part of the contract.
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID, email, password string, actingID uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "user.delete")

	confirmUser, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if confirmUser == nil {
		return apperrors.NewBadBody("Invalid email or password")
	}
	if confirmUser.ID != actingID {
		return apperrors.NewForbidden()
	}
	if confirmUser.ID != userID {
		return apperrors.NewBadBody("Invalid user id")
	}
	if !hash.CheckPassword(confirmUser.PasswordHash, password) {
		return apperrors.NewBadBody("Invalid email or password")
	}

	if err := s.Users.Delete(ctx, userID); err != nil {
		return err
	}
	l.Info("user deleted", "user_id", userID)
	return nil
}
