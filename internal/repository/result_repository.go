package repository

import (
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	Create(result *model.Result) error
	Update(result *model.Result) error
	FindByUserAndQuiz(userID, quizID uint) (*model.Result, error)
	FindByQuiz(quizID uint) ([]model.Result, error)
	FindAllByUser(userID uint) ([]model.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *model.Result) error {
	// Snapshot answers are created through the association.
	return r.db.Create(result).Error
}

func (r *resultRepository) Update(result *model.Result) error {
	return r.db.Save(result).Error
}

func (r *resultRepository) FindByUserAndQuiz(userID, quizID uint) (*model.Result, error) {
	var result model.Result
	err := r.db.Preload("Answers").Preload("Quiz").
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindByQuiz(quizID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.db.Preload("User").Preload("Answers").
		Where("quiz_id = ?", quizID).
		Order("marks_obtained DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) FindAllByUser(userID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.db.Preload("Quiz").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
