package service

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test; cache=shared keeps it alive
	// across the connection pool.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Class{},
		&model.Question{},
		&model.Option{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.StudentQuiz{},
		&model.Violation{},
		&model.Answer{},
		&model.Result{},
		&model.ResultAnswer{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, studentID string) *model.User {
	t.Helper()
	user := model.User{
		StudentID:    studentID,
		Email:        studentID + "@example.edu",
		Name:         "Student " + studentID,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedAdmin(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	admin := model.User{
		StudentID:    "admin",
		Email:        "admin@example.edu",
		Name:         "Admin",
		PasswordHash: "x",
		IsAdmin:      true,
	}
	require.NoError(t, db.Create(&admin).Error)
	return &admin
}

func seedClass(t *testing.T, db *gorm.DB, createdBy uint) *model.Class {
	t.Helper()
	now := time.Now()
	class := model.Class{
		Name:      "Operating Systems",
		StartTime: now.Add(-24 * time.Hour),
		EndTime:   now.Add(30 * 24 * time.Hour),
		CreatedBy: createdBy,
	}
	require.NoError(t, db.Create(&class).Error)
	return &class
}

// seedQuestion creates a question with the first option correct.
func seedQuestion(t *testing.T, db *gorm.DB, classID, createdBy uint, points float64) *model.Question {
	t.Helper()
	question := model.Question{
		ClassID:   classID,
		Text:      "Which scheduler runs first?",
		Points:    points,
		CreatedBy: createdBy,
		Options: []model.Option{
			{Text: "Long-term", IsCorrect: true},
			{Text: "Short-term"},
			{Text: "Medium-term"},
		},
	}
	require.NoError(t, db.Create(&question).Error)
	return &question
}

func seedQuiz(t *testing.T, db *gorm.DB, classID, createdBy uint, status model.QuizStatus, start, end time.Time, questionIDs ...uint) *model.Quiz {
	t.Helper()
	quiz := model.Quiz{
		Title:          "Midterm",
		ClassID:        classID,
		DurationMin:    30,
		StartTime:      start,
		EndTime:        end,
		Status:         status,
		AllowTabChange: true,
		CreatedBy:      createdBy,
	}
	require.NoError(t, db.Create(&quiz).Error)
	for i, qid := range questionIDs {
		require.NoError(t, db.Create(&model.QuizQuestion{QuizID: quiz.ID, QuestionID: qid, Position: i + 1}).Error)
	}
	return &quiz
}
