package repository

import (
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindByClassID(classID uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
	InUse(id uint) (bool, error)
	IncrementUsage(id uint, correct bool) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	// Creates the options alongside via the association.
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("Options").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByClassID(classID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Preload("Options").
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

// InUse reports whether any quiz still references the question.
func (r *questionRepository) InUse(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.QuizQuestion{}).Where("question_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *questionRepository) IncrementUsage(id uint, correct bool) error {
	updates := map[string]interface{}{"times_used": gorm.Expr("times_used + 1")}
	if correct {
		updates["times_correct"] = gorm.Expr("times_correct + 1")
	}
	return r.db.Model(&model.Question{}).Where("id = ?", id).Updates(updates).Error
}
