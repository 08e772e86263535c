package model

import (
	"time"
)

// Answer has upsert semantics per (user, quiz, question): saving the same
// triple again updates in place and bumps ChangeCount.
type Answer struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_quiz_question,priority:1"`
	QuizID           uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_user_quiz_question,priority:2"`
	QuestionID       uint      `json:"question_id" gorm:"not null;uniqueIndex:idx_user_quiz_question,priority:3"`
	SelectedOptionID uint      `json:"selected_option_id" gorm:"not null"`
	IsCorrect        bool      `json:"is_correct" gorm:"default:false"`
	TimeSpentSec     int       `json:"time_spent_sec" gorm:"default:0"`
	ChangeCount      int       `json:"change_count" gorm:"default:0"`
	SubmittedAt      time.Time `json:"submitted_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
