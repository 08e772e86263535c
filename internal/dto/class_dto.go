package dto

import "time"

type ClassCreateDTO struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
}

type ClassUpdateDTO struct {
	Name        string     `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}

type ClassResponseDTO struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	CreatedBy   uint             `json:"created_by"`
	Students    []ProfileDTO     `json:"students,omitempty"`
	Quizzes     []QuizSummaryDTO `json:"quizzes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ClassSummaryDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	StudentCount int       `json:"student_count,omitempty"`
}

type EnrollDTO struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1,dive,required"`
}
