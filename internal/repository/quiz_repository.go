package repository

import (
	"time"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz, questionIDs []uint) error
	Update(quiz *model.Quiz) error
	ReplaceQuestions(quizID uint, questionIDs []uint) error
	Delete(id uint) error
	FindByID(id uint) (*model.Quiz, error)
	FindByIDWithClass(id uint) (*model.Quiz, error)
	FindByClassID(classID uint) ([]model.Quiz, error)
	FindQuestions(quizID uint) ([]model.Question, error)
	HasQuestion(quizID, questionID uint) (bool, error)
	UpdateStatus(id uint, status model.QuizStatus) error
	SweepPublish(now time.Time) (int64, error)
	SweepComplete(now time.Time) (int64, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		return createQuizQuestions(tx, quiz.ID, questionIDs)
	})
}

func (r *quizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *quizRepository) ReplaceQuestions(quizID uint, questionIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return createQuizQuestions(tx, quizID, questionIDs)
	})
}

func createQuizQuestions(tx *gorm.DB, quizID uint, questionIDs []uint) error {
	for i, qid := range questionIDs {
		link := model.QuizQuestion{QuizID: quizID, QuestionID: qid, Position: i + 1}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *quizRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithClass(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.Preload("Class").First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByClassID(classID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Where("class_id = ?", classID).Order("start_time DESC").Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

// FindQuestions returns the quiz's questions with options, in quiz order.
func (r *quizRepository) FindQuestions(quizID uint) ([]model.Question, error) {
	var links []model.QuizQuestion
	err := r.db.Preload("Question.Options").
		Where("quiz_id = ?", quizID).
		Order("position ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	questions := make([]model.Question, 0, len(links))
	for _, l := range links {
		questions = append(questions, l.Question)
	}
	return questions, nil
}

func (r *quizRepository) HasQuestion(quizID, questionID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.QuizQuestion{}).
		Where("quiz_id = ? AND question_id = ?", quizID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *quizRepository) UpdateStatus(id uint, status model.QuizStatus) error {
	return r.db.Model(&model.Quiz{}).Where("id = ?", id).Update("status", status).Error
}

// SweepPublish moves draft quizzes whose window has opened to published.
// Idempotent: a second sweep with the same clock matches no rows.
func (r *quizRepository) SweepPublish(now time.Time) (int64, error) {
	res := r.db.Model(&model.Quiz{}).
		Where("status = ? AND start_time <= ? AND end_time > ?", model.QuizDraft, now, now).
		Update("status", model.QuizPublished)
	return res.RowsAffected, res.Error
}

// SweepComplete moves quizzes past their window to completed.
func (r *quizRepository) SweepComplete(now time.Time) (int64, error) {
	res := r.db.Model(&model.Quiz{}).
		Where("status IN ? AND end_time <= ?",
			[]model.QuizStatus{model.QuizDraft, model.QuizPublished, model.QuizInProgress}, now).
		Update("status", model.QuizCompleted)
	return res.RowsAffected, res.Error
}
