package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/models"
)

type AnswerRepo struct {
	DB *gorm.DB
}

// AnswerWithQuestion is the row shape of the answers tab on a user
// profile, each answer joined with the question it belongs to.
type AnswerWithQuestion struct {
	models.Answer
	Question models.Question `json:"question"`
}

type ListAnswersOptions struct {
	Search  string
	SortBy  string // rate | date | solution
	OrderBy string // asc | desc
	Offset  int
	Limit   int
}

func (r *AnswerRepo) Create(ctx context.Context, answer *models.Answer) error {
	return r.DB.WithContext(ctx).Create(answer).Error
}

func (r *AnswerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	var answer models.Answer
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerRepo) Update(ctx context.Context, answer *models.Answer) error {
	return r.DB.WithContext(ctx).Save(answer).Error
}

func (r *AnswerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", id).Delete(&models.AnswerVote{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Answer{}).Error
	})
}

// ListByOwner searches the user's answers by answer text or by the title
// of the question answered.
func (r *AnswerRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, opts ListAnswersOptions) ([]AnswerWithQuestion, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Answer{}).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.owner_id = ?", ownerID)

	if opts.Search != "" {
		needle := "%" + strings.ToLower(opts.Search) + "%"
		q = q.Where("LOWER(questions.title) LIKE ? OR LOWER(answers.text) LIKE ?", needle, needle)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var answers []models.Answer
	err := q.Order(answerOrderClause(opts.SortBy, opts.OrderBy)).
		Offset(opts.Offset).Limit(opts.Limit).
		Find(&answers).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]AnswerWithQuestion, len(answers))
	for i, a := range answers {
		var question models.Question
		if err := r.DB.WithContext(ctx).Where("id = ?", a.QuestionID).First(&question).Error; err != nil {
			return nil, 0, err
		}
		items[i] = AnswerWithQuestion{Answer: a, Question: question}
	}
	return items, total, nil
}

func answerOrderClause(sortBy, orderBy string) string {
	dir := "DESC"
	if strings.EqualFold(orderBy, "asc") {
		dir = "ASC"
	}
	switch sortBy {
	case "rate":
		return "answers.rate " + dir
	case "date":
		if orderBy == "" {
			dir = "ASC"
		}
		return "answers.created_at " + dir
	case "solution":
		return "answers.is_solution " + dir
	default:
		return "answers.created_at DESC"
	}
}

// MarkSolution flags one answer as the accepted solution and clears the
// flag on every other answer of the same question.
func (r *AnswerRepo) MarkSolution(ctx context.Context, questionID, answerID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND id <> ?", questionID, answerID).
			Update("is_solution", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Answer{}).
			Where("id = ?", answerID).
			Update("is_solution", true).Error
	})
}

func (r *AnswerRepo) Vote(ctx context.Context, userID, answerID uuid.UUID, value int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AnswerVote
		err := tx.Where("user_id = ? AND answer_id = ?", userID, answerID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Value == value {
				return ErrAlreadyVoted
			}
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			return tx.Model(&models.Answer{}).Where("id = ?", answerID).
				UpdateColumn("rate", gorm.Expr("rate + ?", 2*value)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.AnswerVote{UserID: userID, AnswerID: answerID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return tx.Model(&models.Answer{}).Where("id = ?", answerID).
				UpdateColumn("rate", gorm.Expr("rate + ?", value)).Error
		default:
			return err
		}
	})
}

// BestByOwner returns the user's highest rated answer with its question.
func (r *AnswerRepo) BestByOwner(ctx context.Context, ownerID uuid.UUID) (*AnswerWithQuestion, error) {
	var answer models.Answer
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("rate DESC").
		First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var question models.Question
	if err := r.DB.WithContext(ctx).Where("id = ?", answer.QuestionID).First(&question).Error; err != nil {
		return nil, err
	}
	return &AnswerWithQuestion{Answer: answer, Question: question}, nil
}
