package repository

import (
	"errors"
	"time"

	"github.com/lshigami/Quokka/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentQuizRepository interface {
	FindByUserAndQuiz(userID, quizID uint) (*model.StudentQuiz, error)
	FindOrCreate(userID, quizID uint) (*model.StudentQuiz, error)
	FindByQuiz(quizID uint) ([]model.StudentQuiz, error)
	TryStart(userID, quizID uint, now time.Time, ip, userAgent string) (bool, error)
	Transition(id uint, from, to model.AttemptStatus, endedAt *time.Time) (bool, error)
	UpdateMonitoring(id uint, cameraEnabled, isFullscreen *bool, tabSwitchDelta int) error
	AddViolation(v *model.Violation) error
	CountViolations(id uint) (map[model.ViolationType]int, error)
	Delete(id uint) error
}

type studentQuizRepository struct {
	db *gorm.DB
}

func NewStudentQuizRepository(db *gorm.DB) StudentQuizRepository {
	return &studentQuizRepository{db: db}
}

func (r *studentQuizRepository) FindByUserAndQuiz(userID, quizID uint) (*model.StudentQuiz, error) {
	var sq model.StudentQuiz
	err := r.db.Preload("Violations").
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		First(&sq).Error
	if err != nil {
		return nil, err
	}
	return &sq, nil
}

// FindOrCreate provisions the not_started row lazily. The unique index on
// (user_id, quiz_id) makes concurrent provisioning safe.
func (r *studentQuizRepository) FindOrCreate(userID, quizID uint) (*model.StudentQuiz, error) {
	sq, err := r.FindByUserAndQuiz(userID, quizID)
	if err == nil {
		return sq, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.StudentQuiz{UserID: userID, QuizID: quizID, Status: model.AttemptNotStarted}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	return r.FindByUserAndQuiz(userID, quizID)
}

func (r *studentQuizRepository) FindByQuiz(quizID uint) ([]model.StudentQuiz, error) {
	var attempts []model.StudentQuiz
	err := r.db.Preload("Violations").
		Where("quiz_id = ?", quizID).
		Order("updated_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// TryStart is the compare-and-swap start transition: exactly one of any number
// of concurrent callers sees rows affected = 1.
func (r *studentQuizRepository) TryStart(userID, quizID uint, now time.Time, ip, userAgent string) (bool, error) {
	res := r.db.Model(&model.StudentQuiz{}).
		Where("user_id = ? AND quiz_id = ? AND status = ?", userID, quizID, model.AttemptNotStarted).
		Updates(map[string]interface{}{
			"status":     model.AttemptInProgress,
			"started_at": now,
			"ip_address": ip,
			"user_agent": userAgent,
		})
	return res.RowsAffected == 1, res.Error
}

// Transition performs a guarded status change and reports whether it won.
func (r *studentQuizRepository) Transition(id uint, from, to model.AttemptStatus, endedAt *time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if endedAt != nil {
		updates["ended_at"] = *endedAt
	}
	res := r.db.Model(&model.StudentQuiz{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (r *studentQuizRepository) UpdateMonitoring(id uint, cameraEnabled, isFullscreen *bool, tabSwitchDelta int) error {
	updates := map[string]interface{}{}
	if cameraEnabled != nil {
		updates["camera_enabled"] = *cameraEnabled
	}
	if isFullscreen != nil {
		updates["is_fullscreen"] = *isFullscreen
	}
	if tabSwitchDelta > 0 {
		updates["tab_switch_count"] = gorm.Expr("tab_switch_count + ?", tabSwitchDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&model.StudentQuiz{}).Where("id = ?", id).Updates(updates).Error
}

func (r *studentQuizRepository) AddViolation(v *model.Violation) error {
	return r.db.Create(v).Error
}

func (r *studentQuizRepository) CountViolations(id uint) (map[model.ViolationType]int, error) {
	var rows []struct {
		Type  model.ViolationType
		Count int
	}
	err := r.db.Model(&model.Violation{}).
		Select("type, COUNT(*) as count").
		Where("student_quiz_id = ?", id).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.ViolationType]int, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

func (r *studentQuizRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_quiz_id = ?", id).Delete(&model.Violation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.StudentQuiz{}, id).Error
	})
}
