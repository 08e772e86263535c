package model

import (
	"time"

	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptNotStarted AttemptStatus = "not_started"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
	AttemptTerminated AttemptStatus = "terminated"
)

type ViolationType string

const (
	ViolationCameraOff      ViolationType = "camera_off"
	ViolationFullscreenExit ViolationType = "fullscreen_exit"
	ViolationTabSwitch      ViolationType = "tab_switch"
)

// StudentQuiz is one student's attempt at one quiz. The (user, quiz) pair is
// unique; status transitions are guarded by conditional updates so concurrent
// starts resolve to a single winner.
type StudentQuiz struct {
	ID     uint          `gorm:"primarykey" json:"id"`
	UserID uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_student_quiz,priority:1"`
	QuizID uint          `json:"quiz_id" gorm:"not null;uniqueIndex:idx_student_quiz,priority:2"`
	Quiz   Quiz          `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Status AttemptStatus `json:"status" gorm:"not null;default:'not_started';index"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	CameraEnabled  bool        `json:"camera_enabled" gorm:"default:false"`
	IsFullscreen   bool        `json:"is_fullscreen" gorm:"default:false"`
	TabSwitchCount int         `json:"tab_switch_count" gorm:"default:0"`
	Violations     []Violation `json:"violations,omitempty" gorm:"foreignKey:StudentQuizID;constraint:OnDelete:CASCADE"`

	IPAddress string         `json:"ip_address,omitempty" gorm:"size:45"`
	UserAgent string         `json:"user_agent,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Violation struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	StudentQuizID uint          `json:"student_quiz_id" gorm:"not null;index"`
	Type          ViolationType `json:"type" gorm:"not null;index"`
	Details       string        `json:"details,omitempty" gorm:"type:text"`
	OccurredAt    time.Time     `json:"occurred_at" gorm:"not null"`
}

// Overrun reports whether the attempt has exceeded the quiz duration.
// Elapsed time is compared in whole minutes, floor-rounded.
func (sq *StudentQuiz) Overrun(quiz *Quiz, now time.Time) bool {
	if sq.StartedAt == nil {
		return false
	}
	elapsedMin := int(now.Sub(*sq.StartedAt).Minutes())
	return elapsedMin > quiz.DurationMin
}
