package model

import (
	"time"

	"gorm.io/gorm"
)

type QuizStatus string

const (
	QuizDraft      QuizStatus = "draft"
	QuizPublished  QuizStatus = "published"
	QuizInProgress QuizStatus = "in_progress"
	QuizCompleted  QuizStatus = "completed"
)

type Quiz struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `json:"title" gorm:"not null"`
	ClassID     uint       `json:"class_id" gorm:"not null;index"`
	Class       Class      `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	DurationMin int        `json:"duration_min" gorm:"not null"`
	StartTime   time.Time  `json:"start_time" gorm:"not null;index"`
	EndTime     time.Time  `json:"end_time" gorm:"not null;index"`
	Status      QuizStatus `json:"status" gorm:"not null;default:'draft';index"`

	RequireCamera     bool `json:"require_camera" gorm:"default:false"`
	RequireFullscreen bool `json:"require_fullscreen" gorm:"default:false"`
	AllowTabChange    bool `json:"allow_tab_change" gorm:"default:true"`
	ShuffleQuestions  bool `json:"shuffle_questions" gorm:"default:false"`

	CreatedBy uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuizQuestion is the ordered join between a quiz and its questions.
type QuizQuestion struct {
	QuizID     uint     `gorm:"primarykey" json:"quiz_id"`
	QuestionID uint     `gorm:"primarykey" json:"question_id"`
	Position   int      `json:"position" gorm:"not null"`
	Question   Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
}

// WindowOpen reports whether now lies within [StartTime, EndTime).
func (q *Quiz) WindowOpen(now time.Time) bool {
	return !now.Before(q.StartTime) && now.Before(q.EndTime)
}
