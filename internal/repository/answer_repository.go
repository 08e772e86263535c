package repository

import (
	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	Upsert(answer *model.Answer) error
	FindByUserAndQuiz(userID, quizID uint) ([]model.Answer, error)
	DeleteByUserAndQuiz(userID, quizID uint) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Upsert writes the answer for a (user, quiz, question) triple. A repeat save
// updates the existing row and bumps change_count by one, atomically, instead
// of inserting a duplicate.
func (r *answerRepository) Upsert(answer *model.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"selected_option_id": answer.SelectedOptionID,
			"is_correct":         answer.IsCorrect,
			"time_spent_sec":     answer.TimeSpentSec,
			"submitted_at":       answer.SubmittedAt,
			"change_count":       gorm.Expr("answers.change_count + 1"),
		}),
	}).Create(answer).Error
}

func (r *answerRepository) FindByUserAndQuiz(userID, quizID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) DeleteByUserAndQuiz(userID, quizID uint) error {
	return r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(&model.Answer{}).Error
}
