package model

import (
	"time"

	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	ClassID      uint           `json:"class_id" gorm:"not null;index"`
	Text         string         `json:"text" gorm:"type:text;not null"`
	Options      []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Points       float64        `json:"points" gorm:"not null;default:1"`
	Difficulty   Difficulty     `json:"difficulty" gorm:"not null;default:'medium'"`
	Category     string         `json:"category,omitempty" gorm:"index"`
	CreatedBy    uint           `json:"created_by" gorm:"not null;index"`
	TimeLimitSec *int           `json:"time_limit_sec,omitempty"`
	TimesUsed    int            `json:"times_used" gorm:"default:0"`
	TimesCorrect int            `json:"times_correct" gorm:"default:0"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Option identity is stable once created; answers reference options by ID,
// never by display text.
type Option struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
}

// CorrectOption returns the option flagged correct, or nil if none is.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
