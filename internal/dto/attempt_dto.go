package dto

import "time"

type AnswerSubmitDTO struct {
	QuestionID       uint `json:"question_id" binding:"required"`
	SelectedOptionID uint `json:"selected_option_id" binding:"required"`
	TimeSpentSec     int  `json:"time_spent_sec" binding:"omitempty,gte=0"`
}

type MonitorEventDTO struct {
	Type          string `json:"type" binding:"required,oneof=camera_off fullscreen_exit tab_switch heartbeat"`
	Details       string `json:"details,omitempty"`
	CameraEnabled *bool  `json:"camera_enabled,omitempty"`
	IsFullscreen  *bool  `json:"is_fullscreen,omitempty"`
}

type ViolationDTO struct {
	Type       string    `json:"type"`
	Details    string    `json:"details,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AttemptResponseDTO struct {
	ID             uint           `json:"id"`
	QuizID         uint           `json:"quiz_id"`
	UserID         uint           `json:"user_id"`
	Status         string         `json:"status"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	CameraEnabled  bool           `json:"camera_enabled"`
	IsFullscreen   bool           `json:"is_fullscreen"`
	TabSwitchCount int            `json:"tab_switch_count"`
	Violations     []ViolationDTO `json:"violations,omitempty"`
}

// StartResponseDTO tells the student when their attempt clock runs out.
type StartResponseDTO struct {
	Attempt  AttemptResponseDTO `json:"attempt"`
	Deadline time.Time          `json:"deadline"`
}
