package dto

import "time"

type QuizSettingsDTO struct {
	RequireCamera     bool `json:"require_camera"`
	RequireFullscreen bool `json:"require_fullscreen"`
	AllowTabChange    bool `json:"allow_tab_change"`
	ShuffleQuestions  bool `json:"shuffle_questions"`
}

type QuizCreateDTO struct {
	Title       string          `json:"title" binding:"required"`
	ClassID     uint            `json:"class_id" binding:"required"`
	QuestionIDs []uint          `json:"question_ids" binding:"required,min=1"`
	DurationMin int             `json:"duration_min" binding:"required,gt=0"`
	StartTime   time.Time       `json:"start_time" binding:"required"`
	EndTime     time.Time       `json:"end_time" binding:"required,gtfield=StartTime"`
	Settings    QuizSettingsDTO `json:"settings"`
}

type QuizUpdateDTO struct {
	Title       string           `json:"title,omitempty"`
	QuestionIDs []uint           `json:"question_ids,omitempty" binding:"omitempty,min=1"`
	DurationMin *int             `json:"duration_min,omitempty" binding:"omitempty,gt=0"`
	StartTime   *time.Time       `json:"start_time,omitempty"`
	EndTime     *time.Time       `json:"end_time,omitempty"`
	Settings    *QuizSettingsDTO `json:"settings,omitempty"`
}

type QuizResponseDTO struct {
	ID          uint                  `json:"id"`
	Title       string                `json:"title"`
	ClassID     uint                  `json:"class_id"`
	DurationMin int                   `json:"duration_min"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     time.Time             `json:"end_time"`
	Status      string                `json:"status"`
	Settings    QuizSettingsDTO       `json:"settings"`
	Questions   []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

type QuizSummaryDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	ClassID     uint      `json:"class_id"`
	DurationMin int       `json:"duration_min"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

// StudentQuizViewDTO is what a student sees before/while taking the quiz:
// questions without correctness flags.
type StudentQuizViewDTO struct {
	ID          uint                 `json:"id"`
	Title       string               `json:"title"`
	DurationMin int                  `json:"duration_min"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     time.Time            `json:"end_time"`
	Settings    QuizSettingsDTO      `json:"settings"`
	Questions   []StudentQuestionDTO `json:"questions"`
}
