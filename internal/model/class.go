package model

import (
	"time"

	"gorm.io/gorm"
)

type Class struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description,omitempty"`
	StartTime   time.Time      `json:"start_time" gorm:"not null"`
	EndTime     time.Time      `json:"end_time" gorm:"not null"`
	CreatedBy   uint           `json:"created_by" gorm:"not null;index"`
	Creator     User           `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Students    []User         `json:"students,omitempty" gorm:"many2many:class_students;"`
	Quizzes     []Quiz         `json:"quizzes,omitempty" gorm:"foreignKey:ClassID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
