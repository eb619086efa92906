// Package transport holds the request/response bodies of the REST API.
// Field validation runs through the echo validator before any handler
// logic executes.
package transport

import (
	"github.com/cloneoverflow/backend/internal/models"
)

type AuthLoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthSignupDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	About    string `json:"about"`
}

type AuthRefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthChangePasswordDTO struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type UserUpdateDTO struct {
	Name     string `json:"name"`
	Username string `json:"username" validate:"omitempty,min=3,max=30"`
	About    string `json:"about"`
}

// UserDeleteDTO carries the re-supplied credentials required before an
// account is removed.
type UserDeleteDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type QuestionCreateDTO struct {
	Title string   `json:"title" validate:"required,max=200"`
	Text  string   `json:"text"  validate:"required"`
	Tags  []string `json:"tags"  validate:"max=5,dive,min=1,max=35"`
}

type QuestionUpdateDTO struct {
	Title string   `json:"title" validate:"omitempty,max=200"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags"  validate:"omitempty,max=5,dive,min=1,max=35"`
}

type AnswerCreateDTO struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Text       string `json:"text"        validate:"required"`
}

type AnswerUpdateDTO struct {
	Text string `json:"text" validate:"required"`
}

type VoteDTO struct {
	Vote string `json:"vote" validate:"required,oneof=up down"`
}

func (d VoteDTO) Value() int {
	if d.Vote == "down" {
		return -1
	}
	return 1
}
