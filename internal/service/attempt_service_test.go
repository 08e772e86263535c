package service

import (
	"testing"
	"time"

	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type attemptFixture struct {
	db       *gorm.DB
	svc      AttemptService
	sqRepo   repository.StudentQuizRepository
	student  *model.User
	admin    *model.User
	class    *model.Class
	q1, q2   *model.Question
	openQuiz *model.Quiz
}

func newAttemptFixture(t *testing.T) *attemptFixture {
	t.Helper()
	db := newTestDB(t)

	admin := seedAdmin(t, db)
	student := seedStudent(t, db, "2112001")
	class := seedClass(t, db, admin.ID)
	q1 := seedQuestion(t, db, class.ID, admin.ID, 5)
	q2 := seedQuestion(t, db, class.ID, admin.ID, 5)

	now := time.Now()
	quiz := seedQuiz(t, db, class.ID, admin.ID, model.QuizPublished,
		now.Add(-time.Hour), now.Add(time.Hour), q1.ID, q2.ID)

	sqRepo := repository.NewStudentQuizRepository(db)
	svc := NewAttemptService(
		sqRepo,
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewResultRepository(db),
		NewGradingService(),
	)

	return &attemptFixture{
		db: db, svc: svc, sqRepo: sqRepo,
		student: student, admin: admin, class: class,
		q1: q1, q2: q2, openQuiz: quiz,
	}
}

func (f *attemptFixture) correctOption(t *testing.T, q *model.Question) uint {
	t.Helper()
	opt := q.CorrectOption()
	require.NotNil(t, opt)
	return opt.ID
}

func TestStartQuizOutsideWindow(t *testing.T) {
	f := newAttemptFixture(t)
	now := time.Now()

	early := seedQuiz(t, f.db, f.class.ID, f.admin.ID, model.QuizPublished,
		now.Add(time.Hour), now.Add(2*time.Hour), f.q1.ID)
	_, err := f.svc.StartQuiz(f.student, early, "10.0.0.1", "go-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not started")

	late := seedQuiz(t, f.db, f.class.ID, f.admin.ID, model.QuizCompleted,
		now.Add(-2*time.Hour), now.Add(-time.Hour), f.q1.ID)
	_, err = f.svc.StartQuiz(f.student, late, "10.0.0.1", "go-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ended")
}

func TestStartQuizHappyPathAndDeadline(t *testing.T) {
	f := newAttemptFixture(t)

	start, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)
	assert.Equal(t, string(model.AttemptInProgress), start.Attempt.Status)
	require.NotNil(t, start.Attempt.StartedAt)

	// 30 min duration fits inside the window, so the deadline is start+30m.
	wantDeadline := start.Attempt.StartedAt.Add(30 * time.Minute)
	assert.WithinDuration(t, wantDeadline, start.Deadline, time.Second)
}

func TestStartQuizDeadlineClampedToWindowEnd(t *testing.T) {
	f := newAttemptFixture(t)
	now := time.Now()

	closing := seedQuiz(t, f.db, f.class.ID, f.admin.ID, model.QuizPublished,
		now.Add(-time.Hour), now.Add(10*time.Minute), f.q1.ID)
	start, err := f.svc.StartQuiz(f.student, closing, "10.0.0.1", "go-test")
	require.NoError(t, err)
	assert.WithinDuration(t, closing.EndTime, start.Deadline, time.Second)
}

func TestStartQuizSecondStartRejected(t *testing.T) {
	f := newAttemptFixture(t)

	_, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)

	_, err = f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already")
}

func TestSaveAnswerUpsertBumpsChangeCount(t *testing.T) {
	f := newAttemptFixture(t)
	_, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)

	first := dto.AnswerSubmitDTO{QuestionID: f.q1.ID, SelectedOptionID: f.correctOption(t, f.q1)}
	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, first)
	require.NoError(t, err)

	changed := dto.AnswerSubmitDTO{QuestionID: f.q1.ID, SelectedOptionID: f.q1.Options[1].ID}
	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, changed)
	require.NoError(t, err)

	var answers []model.Answer
	require.NoError(t, f.db.Where("user_id = ? AND quiz_id = ?", f.student.ID, f.openQuiz.ID).Find(&answers).Error)
	require.Len(t, answers, 1, "re-answering must update, not insert")
	assert.Equal(t, f.q1.Options[1].ID, answers[0].SelectedOptionID)
	assert.Equal(t, 1, answers[0].ChangeCount)
	assert.False(t, answers[0].IsCorrect)
}

func TestSaveAnswerRejectsForeignOptionAndQuestion(t *testing.T) {
	f := newAttemptFixture(t)
	_, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)

	// Option belongs to a different question.
	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, dto.AnswerSubmitDTO{
		QuestionID:       f.q1.ID,
		SelectedOptionID: f.correctOption(t, f.q2),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")

	// Question is not on the quiz at all.
	stray := seedQuestion(t, f.db, f.class.ID, f.admin.ID, 1)
	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, dto.AnswerSubmitDTO{
		QuestionID:       stray.ID,
		SelectedOptionID: f.correctOption(t, stray),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not part of this quiz")
}

func TestSaveAnswerWithoutStartRejected(t *testing.T) {
	f := newAttemptFixture(t)

	_, err := f.svc.SaveAnswer(f.student, f.openQuiz, dto.AnswerSubmitDTO{
		QuestionID:       f.q1.ID,
		SelectedOptionID: f.correctOption(t, f.q1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not been started")
}

func TestOverrunTerminatesOnNextTouch(t *testing.T) {
	f := newAttemptFixture(t)
	_, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)

	// Backdate the start past the 30-minute duration.
	past := time.Now().Add(-31 * time.Minute)
	require.NoError(t, f.db.Model(&model.StudentQuiz{}).
		Where("user_id = ? AND quiz_id = ?", f.student.ID, f.openQuiz.ID).
		Update("started_at", past).Error)

	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, dto.AnswerSubmitDTO{
		QuestionID:       f.q1.ID,
		SelectedOptionID: f.correctOption(t, f.q1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Time limit exceeded")

	sq, err := f.sqRepo.FindByUserAndQuiz(f.student.ID, f.openQuiz.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptTerminated, sq.Status)
}

func TestWindowCloseTerminatesOpenAttempt(t *testing.T) {
	f := newAttemptFixture(t)
	now := time.Now()

	// Long duration, but the window closed half an hour ago: the window, not
	// the duration, must end this attempt.
	quiz := &model.Quiz{
		Title:          "Late",
		ClassID:        f.class.ID,
		DurationMin:    240,
		StartTime:      now.Add(-3 * time.Hour),
		EndTime:        now.Add(-30 * time.Minute),
		Status:         model.QuizCompleted,
		AllowTabChange: true,
		CreatedBy:      f.admin.ID,
	}
	require.NoError(t, f.db.Create(quiz).Error)
	require.NoError(t, f.db.Create(&model.QuizQuestion{QuizID: quiz.ID, QuestionID: f.q1.ID, Position: 1}).Error)

	started := now.Add(-2 * time.Hour)
	sq := model.StudentQuiz{
		UserID:    f.student.ID,
		QuizID:    quiz.ID,
		Status:    model.AttemptInProgress,
		StartedAt: &started,
	}
	require.NoError(t, f.db.Create(&sq).Error)

	_, err := f.svc.SubmitQuiz(f.student, quiz)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ended")

	// No result was written and the attempt is terminated.
	var results int64
	require.NoError(t, f.db.Model(&model.Result{}).
		Where("user_id = ? AND quiz_id = ?", f.student.ID, quiz.ID).
		Count(&results).Error)
	assert.Zero(t, results)

	reloaded, err := f.sqRepo.FindByUserAndQuiz(f.student.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptTerminated, reloaded.Status)

	// Follow-up traffic sees the terminated attempt.
	_, err = f.svc.SaveAnswer(f.student, quiz, dto.AnswerSubmitDTO{
		QuestionID:       f.q1.ID,
		SelectedOptionID: f.correctOption(t, f.q1),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminated")
}

func TestSubmitQuizGradesAndFreezesResult(t *testing.T) {
	f := newAttemptFixture(t)
	_, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)

	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, dto.AnswerSubmitDTO{
		QuestionID:       f.q1.ID,
		SelectedOptionID: f.correctOption(t, f.q1),
	})
	require.NoError(t, err)
	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, dto.AnswerSubmitDTO{
		QuestionID:       f.q2.ID,
		SelectedOptionID: f.q2.Options[1].ID, // wrong
	})
	require.NoError(t, err)

	result, err := f.svc.SubmitQuiz(f.student, f.openQuiz)
	require.NoError(t, err)
	assert.Equal(t, 10.0, result.TotalMarks)
	assert.Equal(t, 5.0, result.MarksObtained)
	assert.Equal(t, 50.0, result.Percentage)
	assert.Equal(t, string(model.ResultPassed), result.Status)
	assert.Len(t, result.Answers, 2)

	sq, err := f.sqRepo.FindByUserAndQuiz(f.student.ID, f.openQuiz.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptSubmitted, sq.Status)

	// Question usage stats were updated for the answered questions.
	var q1Reload model.Question
	require.NoError(t, f.db.First(&q1Reload, f.q1.ID).Error)
	assert.Equal(t, 1, q1Reload.TimesUsed)
	assert.Equal(t, 1, q1Reload.TimesCorrect)

	// A second submit must fail: the attempt is no longer in progress.
	_, err = f.svc.SubmitQuiz(f.student, f.openQuiz)
	require.Error(t, err)
}

func TestSubmitQuizHardPenaltyZeroesScore(t *testing.T) {
	f := newAttemptFixture(t)

	// Proctoring is strict for this quiz.
	require.NoError(t, f.db.Model(f.openQuiz).Updates(map[string]interface{}{
		"require_fullscreen": true,
		"allow_tab_change":   false,
	}).Error)
	f.openQuiz.RequireFullscreen = true
	f.openQuiz.AllowTabChange = false

	_, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)
	_, err = f.svc.SaveAnswer(f.student, f.openQuiz, dto.AnswerSubmitDTO{
		QuestionID:       f.q1.ID,
		SelectedOptionID: f.correctOption(t, f.q1),
	})
	require.NoError(t, err)

	_, err = f.svc.RecordMonitoringEvent(f.student, f.openQuiz, dto.MonitorEventDTO{Type: "fullscreen_exit"})
	require.NoError(t, err)
	_, err = f.svc.RecordMonitoringEvent(f.student, f.openQuiz, dto.MonitorEventDTO{Type: "tab_switch"})
	require.NoError(t, err)

	result, err := f.svc.SubmitQuiz(f.student, f.openQuiz)
	require.NoError(t, err)
	assert.Zero(t, result.MarksObtained)
	assert.Equal(t, string(model.ResultFailed), result.Status)
	assert.Equal(t, 1, result.Violations.Fullscreen)
	assert.Equal(t, 1, result.Violations.TabSwitch)
	assert.Equal(t, 2, result.Violations.Total)
}

func TestMonitoringEventsRespectQuizSettings(t *testing.T) {
	f := newAttemptFixture(t)
	// Defaults: camera not required, fullscreen not required, tab change allowed.
	_, err := f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)

	_, err = f.svc.RecordMonitoringEvent(f.student, f.openQuiz, dto.MonitorEventDTO{Type: "camera_off"})
	require.NoError(t, err)
	_, err = f.svc.RecordMonitoringEvent(f.student, f.openQuiz, dto.MonitorEventDTO{Type: "fullscreen_exit"})
	require.NoError(t, err)
	attempt, err := f.svc.RecordMonitoringEvent(f.student, f.openQuiz, dto.MonitorEventDTO{Type: "tab_switch"})
	require.NoError(t, err)

	// Tab switches are always counted, but none of the events above is a
	// violation under these settings.
	assert.Equal(t, 1, attempt.TabSwitchCount)
	assert.Empty(t, attempt.Violations)
}

func TestTerminateAttemptOnlyInProgress(t *testing.T) {
	f := newAttemptFixture(t)

	err := f.svc.TerminateAttempt(f.openQuiz.ID, f.student.ID)
	require.Error(t, err, "no attempt yet")

	_, err = f.svc.StartQuiz(f.student, f.openQuiz, "10.0.0.1", "go-test")
	require.NoError(t, err)

	require.NoError(t, f.svc.TerminateAttempt(f.openQuiz.ID, f.student.ID))
	sq, err := f.sqRepo.FindByUserAndQuiz(f.student.ID, f.openQuiz.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptTerminated, sq.Status)

	// Terminating a terminated attempt fails.
	err = f.svc.TerminateAttempt(f.openQuiz.ID, f.student.ID)
	require.Error(t, err)
}
