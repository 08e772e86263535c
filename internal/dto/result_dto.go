package dto

import "time"

type ResultAnswerDTO struct {
	QuestionID       uint    `json:"question_id"`
	SelectedOptionID uint    `json:"selected_option_id,omitempty"`
	IsCorrect        bool    `json:"is_correct"`
	Points           float64 `json:"points"`
}

type ResultResponseDTO struct {
	ID            uint              `json:"id"`
	UserID        uint              `json:"user_id"`
	QuizID        uint              `json:"quiz_id"`
	QuizTitle     string            `json:"quiz_title,omitempty"`
	StudentName   string            `json:"student_name,omitempty"`
	StudentID     string            `json:"student_id,omitempty"`
	TotalMarks    float64           `json:"total_marks"`
	MarksObtained float64           `json:"marks_obtained"`
	Percentage    float64           `json:"percentage"`
	Status        string            `json:"status"`
	StartedAt     *time.Time        `json:"started_at,omitempty"`
	EndedAt       *time.Time        `json:"ended_at,omitempty"`
	TimeSpentSec  int               `json:"time_spent_sec"`
	SubmittedBy   string            `json:"submitted_by,omitempty"`
	Violations    ViolationTotals   `json:"violations"`
	Answers       []ResultAnswerDTO `json:"answers,omitempty"`
	Feedback      string            `json:"feedback,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type ViolationTotals struct {
	Camera     int `json:"camera"`
	Fullscreen int `json:"fullscreen"`
	TabSwitch  int `json:"tab_switch"`
	Total      int `json:"total"`
}

type FeedbackDTO struct {
	Feedback string `json:"feedback" binding:"required"`
}
