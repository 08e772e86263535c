package repository

import (
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type ClassRepository interface {
	Create(class *model.Class) error
	Update(class *model.Class) error
	Delete(id uint) error
	FindByID(id uint) (*model.Class, error)
	FindByIDWithStudents(id uint) (*model.Class, error)
	FindAll() ([]model.Class, error)
	FindAllForStudent(userID uint) ([]model.Class, error)
	AddStudent(classID, userID uint) error
	RemoveStudent(classID, userID uint) error
	IsEnrolled(classID, userID uint) (bool, error)
	CountQuizzesInStatus(classID uint, statuses ...model.QuizStatus) (int64, error)
}

type classRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(class *model.Class) error {
	return r.db.Create(class).Error
}

func (r *classRepository) Update(class *model.Class) error {
	return r.db.Save(class).Error
}

// Delete removes the class together with its quizzes and their question
// links. The business rule forbidding deletion while a quiz is live is
// enforced at the service layer.
func (r *classRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("class_id = ?", id).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.QuizQuestion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("class_id = ?", id).Delete(&model.Quiz{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM class_students WHERE class_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Class{}, id).Error
	})
}

func (r *classRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	if err := r.db.First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) FindByIDWithStudents(id uint) (*model.Class, error) {
	var class model.Class
	if err := r.db.Preload("Students").Preload("Quizzes").First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepository) FindAll() ([]model.Class, error) {
	var classes []model.Class
	if err := r.db.Order("created_at DESC").Find(&classes).Error; err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) FindAllForStudent(userID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.
		Joins("JOIN class_students ON class_students.class_id = classes.id AND class_students.user_id = ?", userID).
		Order("classes.start_time DESC").
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *classRepository) AddStudent(classID, userID uint) error {
	return r.db.Model(&model.Class{ID: classID}).Association("Students").Append(&model.User{ID: userID})
}

func (r *classRepository) RemoveStudent(classID, userID uint) error {
	return r.db.Model(&model.Class{ID: classID}).Association("Students").Delete(&model.User{ID: userID})
}

func (r *classRepository) IsEnrolled(classID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("class_students").
		Where("class_id = ? AND user_id = ?", classID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *classRepository) CountQuizzesInStatus(classID uint, statuses ...model.QuizStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Quiz{}).
		Where("class_id = ? AND status IN ?", classID, statuses).
		Count(&count).Error
	return count, err
}
