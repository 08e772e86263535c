package dto

import "time"

type OptionCreateDTO struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionCreateDTO struct {
	ClassID      uint              `json:"class_id" binding:"required"`
	Text         string            `json:"text" binding:"required"`
	Options      []OptionCreateDTO `json:"options" binding:"required,min=2,dive"`
	Points       float64           `json:"points" binding:"required,gt=0"`
	Difficulty   string            `json:"difficulty" binding:"required,difficulty"`
	Category     string            `json:"category,omitempty"`
	TimeLimitSec *int              `json:"time_limit_sec,omitempty" binding:"omitempty,gt=0"`
}

type QuestionUpdateDTO struct {
	Text         string            `json:"text,omitempty"`
	Options      []OptionCreateDTO `json:"options,omitempty" binding:"omitempty,min=2,dive"`
	Points       *float64          `json:"points,omitempty" binding:"omitempty,gt=0"`
	Difficulty   string            `json:"difficulty,omitempty" binding:"omitempty,difficulty"`
	Category     *string           `json:"category,omitempty"`
	TimeLimitSec *int              `json:"time_limit_sec,omitempty"`
}

type OptionResponseDTO struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionResponseDTO struct {
	ID           uint                `json:"id"`
	ClassID      uint                `json:"class_id"`
	Text         string              `json:"text"`
	Options      []OptionResponseDTO `json:"options"`
	Points       float64             `json:"points"`
	Difficulty   string              `json:"difficulty"`
	Category     string              `json:"category,omitempty"`
	TimeLimitSec *int                `json:"time_limit_sec,omitempty"`
	TimesUsed    int                 `json:"times_used"`
	TimesCorrect int                 `json:"times_correct"`
	CreatedAt    time.Time           `json:"created_at"`
}

// StudentOptionDTO deliberately omits the correctness flag.
type StudentOptionDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type StudentQuestionDTO struct {
	ID           uint               `json:"id"`
	Text         string             `json:"text"`
	Options      []StudentOptionDTO `json:"options"`
	Points       float64            `json:"points"`
	TimeLimitSec *int               `json:"time_limit_sec,omitempty"`
}
