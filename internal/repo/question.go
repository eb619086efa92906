package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/models"
)

var ErrAlreadyVoted = errors.New("already voted")

type QuestionRepo struct {
	DB *gorm.DB
}

type ListQuestionsOptions struct {
	Search  string
	Tags    []string
	SortBy  string // rate | date | answers
	OrderBy string // asc | desc
	Offset  int
	Limit   int
}

func (r *QuestionRepo) Create(ctx context.Context, question *models.Question, tagNames []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := upsertTags(tx, tagNames)
		if err != nil {
			return err
		}
		question.Tags = tags
		return tx.Create(question).Error
	})
}

func (r *QuestionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.DB.WithContext(ctx).Preload("Tags").Preload("Answers").
		Where("id = ?", id).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepo) Update(ctx context.Context, question *models.Question, tagNames []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tagNames != nil {
			tags, err := upsertTags(tx, tagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(question).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return tx.Save(question).Error
	})
}

func (r *QuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionVote{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Question{}).Error
	})
}

func (r *QuestionRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// ListByOwner powers the questions tab on a user profile: filtered by
// title search and tag set, multi-field sorted, paginated.
func (r *QuestionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, opts ListQuestionsOptions) ([]models.Question, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Question{}).Where("questions.owner_id = ?", ownerID)

	if opts.Search != "" {
		q = q.Where("LOWER(questions.title) LIKE ?", "%"+strings.ToLower(opts.Search)+"%")
	}
	if len(opts.Tags) > 0 {
		q = q.Where("questions.id IN (?)",
			r.DB.Table("question_tags").
				Select("question_tags.question_id").
				Joins("JOIN tags ON tags.id = question_tags.tag_id").
				Where("tags.name IN ?", opts.Tags),
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order(questionOrderClause(opts.SortBy, opts.OrderBy)).
		Offset(opts.Offset).Limit(opts.Limit).
		Preload("Tags")

	var items []models.Question
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func questionOrderClause(sortBy, orderBy string) string {
	dir := "DESC"
	if strings.EqualFold(orderBy, "asc") {
		dir = "ASC"
	}
	switch sortBy {
	case "answers":
		return "(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) " + dir
	case "date":
		if orderBy == "" {
			dir = "ASC"
		}
		return "questions.created_at " + dir
	case "rate":
		return "questions.rate " + dir
	default:
		return "questions.created_at DESC"
	}
}

// Vote applies a ±1 vote, keeping one vote per user per question. Voting
// the same way twice is rejected; voting the other way flips the stored
// vote and moves the rate by two.
func (r *QuestionRepo) Vote(ctx context.Context, userID, questionID uuid.UUID, value int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.QuestionVote
		err := tx.Where("user_id = ? AND question_id = ?", userID, questionID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Value == value {
				return ErrAlreadyVoted
			}
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			return tx.Model(&models.Question{}).Where("id = ?", questionID).
				UpdateColumn("rate", gorm.Expr("rate + ?", 2*value)).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.QuestionVote{UserID: userID, QuestionID: questionID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			return tx.Model(&models.Question{}).Where("id = ?", questionID).
				UpdateColumn("rate", gorm.Expr("rate + ?", value)).Error
		default:
			return err
		}
	})
}

// BestByOwner returns the user's highest rated question, if any.
func (r *QuestionRepo) BestByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Question, error) {
	var question models.Question
	err := r.DB.WithContext(ctx).Preload("Tags").
		Where("owner_id = ?", ownerID).
		Order("rate DESC").
		First(&question).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}
