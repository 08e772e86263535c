package model

import (
	"time"

	"gorm.io/gorm"
)

type ResultStatus string

const (
	ResultPassed ResultStatus = "passed"
	ResultFailed ResultStatus = "failed"
)

// Result is the final grading record for a (user, quiz) pair. Status and the
// violation total are derived fields, recomputed on every save rather than
// trusted from the caller.
type Result struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_quiz_result,priority:1"`
	QuizID uint `json:"quiz_id" gorm:"not null;uniqueIndex:idx_user_quiz_result,priority:2"`
	User   User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Quiz   Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`

	TotalMarks    float64      `json:"total_marks" gorm:"not null"`
	MarksObtained float64      `json:"marks_obtained" gorm:"not null"`
	Status        ResultStatus `json:"status" gorm:"not null"`

	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	TimeSpentSec int        `json:"time_spent_sec" gorm:"default:0"`
	SubmittedBy  string     `json:"submitted_by,omitempty"`

	CameraViolations     int `json:"camera_violations" gorm:"default:0"`
	FullscreenViolations int `json:"fullscreen_violations" gorm:"default:0"`
	TabSwitchViolations  int `json:"tab_switch_violations" gorm:"default:0"`
	TotalViolations      int `json:"total_violations" gorm:"default:0"`

	Answers  []ResultAnswer `json:"answers,omitempty" gorm:"foreignKey:ResultID;constraint:OnDelete:CASCADE"`
	Feedback string         `json:"feedback,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ResultAnswer is the per-question snapshot frozen at submission time.
type ResultAnswer struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	ResultID         uint    `json:"result_id" gorm:"not null;index"`
	QuestionID       uint    `json:"question_id" gorm:"not null"`
	SelectedOptionID uint    `json:"selected_option_id"`
	IsCorrect        bool    `json:"is_correct"`
	Points           float64 `json:"points"`
}

// BeforeSave keeps the derived fields consistent with the marks and violation
// counters, whatever path wrote them.
func (r *Result) BeforeSave(tx *gorm.DB) error {
	r.TotalViolations = r.CameraViolations + r.FullscreenViolations + r.TabSwitchViolations
	if r.MarksObtained >= 0.5*r.TotalMarks {
		r.Status = ResultPassed
	} else {
		r.Status = ResultFailed
	}
	return nil
}

// Percentage returns marks as a 0-100 figure, 0 for a zero-point quiz.
func (r *Result) Percentage() float64 {
	if r.TotalMarks <= 0 {
		return 0
	}
	return r.MarksObtained / r.TotalMarks * 100
}
