package service

import (
	"testing"
	"time"

	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSweepPublishesQuizzesInWindow(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	now := time.Now()

	draftOpen := seedQuiz(t, db, class.ID, admin.ID, model.QuizDraft, now.Add(-10*time.Minute), now.Add(time.Hour))
	alreadyPublished := seedQuiz(t, db, class.ID, admin.ID, model.QuizPublished, now.Add(-10*time.Minute), now.Add(time.Hour))
	draftFuture := seedQuiz(t, db, class.ID, admin.ID, model.QuizDraft, now.Add(time.Hour), now.Add(2*time.Hour))

	scheduler := NewQuizStatusScheduler(repository.NewQuizRepository(db))
	scheduler.Sweep(now)

	assert.Equal(t, model.QuizPublished, quizStatus(t, db, draftOpen.ID), "a forgotten draft goes live when its window opens")
	assert.Equal(t, model.QuizPublished, quizStatus(t, db, alreadyPublished.ID))
	assert.Equal(t, model.QuizDraft, quizStatus(t, db, draftFuture.ID))
}

func TestSweepCompletesPastWindowQuizzes(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	now := time.Now()

	ended := seedQuiz(t, db, class.ID, admin.ID, model.QuizPublished, now.Add(-2*time.Hour), now.Add(-time.Hour))
	neverPublished := seedQuiz(t, db, class.ID, admin.ID, model.QuizDraft, now.Add(-2*time.Hour), now.Add(-time.Hour))
	running := seedQuiz(t, db, class.ID, admin.ID, model.QuizPublished, now.Add(-time.Hour), now.Add(time.Hour))

	scheduler := NewQuizStatusScheduler(repository.NewQuizRepository(db))
	scheduler.Sweep(now)

	assert.Equal(t, model.QuizCompleted, quizStatus(t, db, ended.ID))
	assert.Equal(t, model.QuizCompleted, quizStatus(t, db, neverPublished.ID))
	assert.Equal(t, model.QuizPublished, quizStatus(t, db, running.ID))
}

func TestSweepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	class := seedClass(t, db, admin.ID)
	now := time.Now()

	seedQuiz(t, db, class.ID, admin.ID, model.QuizDraft, now.Add(-10*time.Minute), now.Add(time.Hour))
	seedQuiz(t, db, class.ID, admin.ID, model.QuizPublished, now.Add(-2*time.Hour), now.Add(-time.Hour))

	repo := repository.NewQuizRepository(db)
	n, err := repo.SweepPublish(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.SweepComplete(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Same clock, nothing left to move.
	n, err = repo.SweepPublish(now)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = repo.SweepComplete(now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func quizStatus(t *testing.T, db *gorm.DB, quizID uint) model.QuizStatus {
	t.Helper()
	var quiz model.Quiz
	require.NoError(t, db.First(&quiz, quizID).Error)
	return quiz.Status
}
