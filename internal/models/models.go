package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Profile      Profile   `gorm:"constraint:OnDelete:CASCADE" json:"profile"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"       json:"-"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name       string    `gorm:"not null"                       json:"name"`
	Username   string    `gorm:"uniqueIndex;not null"           json:"username"`
	About      string    `json:"about"`
	Status     string    `gorm:"not null;default:user"          json:"status"`
	Reputation int       `gorm:"not null;default:0"             json:"reputation"`
}

type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Text      string    `gorm:"not null"                 json:"text"`
	Rate      int       `gorm:"not null;default:0"       json:"rate"`
	Views     int       `gorm:"not null;default:0"       json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []Tag     `gorm:"many2many:question_tags;" json:"tags"`
	Answers   []Answer  `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;index;not null" json:"question_id"`
	Text       string    `gorm:"not null"                 json:"text"`
	Rate       int       `gorm:"not null;default:0"       json:"rate"`
	IsSolution bool      `gorm:"not null;default:false"   json:"is_solution"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Tag struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

type QuestionVote struct {
	ID         uint      `gorm:"primaryKey"                              json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_qvote;not null" json:"user_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_qvote;not null" json:"question_id"`
	Value      int       `gorm:"not null"                                json:"value"`
}

type AnswerVote struct {
	ID       uint      `gorm:"primaryKey"                              json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_avote;not null" json:"user_id"`
	AnswerID uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_avote;not null" json:"answer_id"`
	Value    int       `gorm:"not null"                                json:"value"`
}
