package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cloneoverflow/backend/internal/models"
)

type UserRepo struct {
	DB *gorm.DB
}

// FindByEmail returns (nil, nil) when no user matches, so callers can
// collapse not-found and bad-password into one error.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Profile").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailOrUsername is the signup conflict pre-check.
func (r *UserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Profile").
		Select("users.*").
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("users.email = ? OR profiles.username = ?", email, username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Preload("Profile").
		Select("users.*").
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.username = ?", username).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts the user together with its profile in one transaction.
// Uniqueness races between the pre-check and this insert surface as
// gorm.ErrDuplicatedKey via the driver's error translation.
func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Profile{}).
		Where("user_id = ?", id).
		Updates(fields).Error
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
}

// OwnedCounts returns how many questions and answers the user authored,
// shown on the profile page.
func (r *UserRepo) OwnedCounts(ctx context.Context, id uuid.UUID) (questions int64, answers int64, err error) {
	db := r.DB.WithContext(ctx)
	if err = db.Model(&models.Question{}).Where("owner_id = ?", id).Count(&questions).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&models.Answer{}).Where("owner_id = ?", id).Count(&answers).Error; err != nil {
		return 0, 0, err
	}
	return questions, answers, nil
}
