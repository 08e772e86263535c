package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService owns the per-student session state machine:
// not_started -> in_progress -> {submitted, terminated}.
type AttemptService interface {
	StartQuiz(user *model.User, quiz *model.Quiz, ip, userAgent string) (*dto.StartResponseDTO, error)
	SaveAnswer(user *model.User, quiz *model.Quiz, req dto.AnswerSubmitDTO) (*dto.AttemptResponseDTO, error)
	RecordMonitoringEvent(user *model.User, quiz *model.Quiz, req dto.MonitorEventDTO) (*dto.AttemptResponseDTO, error)
	SubmitQuiz(user *model.User, quiz *model.Quiz) (*dto.ResultResponseDTO, error)
	TerminateAttempt(quizID, studentUserID uint) error
	GetAttempt(userID, quizID uint) (*dto.AttemptResponseDTO, error)
	ListAttempts(quizID uint) ([]dto.AttemptResponseDTO, error)
}

type attemptService struct {
	studentQuizRepo repository.StudentQuizRepository
	quizRepo        repository.QuizRepository
	questionRepo    repository.QuestionRepository
	answerRepo      repository.AnswerRepository
	resultRepo      repository.ResultRepository
	grading         GradingService
}

func NewAttemptService(
	studentQuizRepo repository.StudentQuizRepository,
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.ResultRepository,
	grading GradingService,
) AttemptService {
	return &attemptService{
		studentQuizRepo: studentQuizRepo,
		quizRepo:        quizRepo,
		questionRepo:    questionRepo,
		answerRepo:      answerRepo,
		resultRepo:      resultRepo,
		grading:         grading,
	}
}

// StartQuiz transitions not_started -> in_progress with a conditional update,
// so two racing start requests elect exactly one winner. Re-starting an
// attempt in any other state is rejected.
func (s *attemptService) StartQuiz(user *model.User, quiz *model.Quiz, ip, userAgent string) (*dto.StartResponseDTO, error) {
	now := time.Now()
	if !quiz.WindowOpen(now) {
		return nil, windowError(quiz, now)
	}

	sq, err := s.studentQuizRepo.FindOrCreate(user.ID, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("provisioning attempt: %w", err)
	}
	if sq.Status != model.AttemptNotStarted {
		return nil, apperror.BusinessRule(fmt.Sprintf("Quiz already %s", sq.Status))
	}

	won, err := s.studentQuizRepo.TryStart(user.ID, quiz.ID, now, ip, userAgent)
	if err != nil {
		return nil, fmt.Errorf("starting attempt: %w", err)
	}
	if !won {
		// Lost the race to a concurrent start.
		return nil, apperror.BusinessRule("Quiz already started")
	}
	log.Info().Uint("userID", user.ID).Uint("quizID", quiz.ID).Msg("Attempt started")

	sq, err = s.studentQuizRepo.FindByUserAndQuiz(user.ID, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading attempt: %w", err)
	}

	deadline := sq.StartedAt.Add(time.Duration(quiz.DurationMin) * time.Minute)
	if deadline.After(quiz.EndTime) {
		deadline = quiz.EndTime
	}
	return &dto.StartResponseDTO{Attempt: *toAttemptDTO(sq), Deadline: deadline}, nil
}

func (s *attemptService) SaveAnswer(user *model.User, quiz *model.Quiz, req dto.AnswerSubmitDTO) (*dto.AttemptResponseDTO, error) {
	sq, err := s.inProgressAttempt(user.ID, quiz)
	if err != nil {
		return nil, err
	}

	inQuiz, err := s.quizRepo.HasQuestion(quiz.ID, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("checking question membership: %w", err)
	}
	if !inQuiz {
		return nil, apperror.NotFound("Question is not part of this quiz")
	}

	question, err := s.questionRepo.FindByID(req.QuestionID)
	if err != nil {
		return nil, apperror.NotFound("Question not found").WithCause(err)
	}

	var selected *model.Option
	for i := range question.Options {
		if question.Options[i].ID == req.SelectedOptionID {
			selected = &question.Options[i]
			break
		}
	}
	if selected == nil {
		return nil, apperror.Validation("Selected option does not belong to the question")
	}

	answer := model.Answer{
		UserID:           user.ID,
		QuizID:           quiz.ID,
		QuestionID:       question.ID,
		SelectedOptionID: selected.ID,
		IsCorrect:        selected.IsCorrect,
		TimeSpentSec:     req.TimeSpentSec,
		SubmittedAt:      time.Now(),
	}
	if err := s.answerRepo.Upsert(&answer); err != nil {
		return nil, fmt.Errorf("saving answer: %w", err)
	}

	return toAttemptDTO(sq), nil
}

// RecordMonitoringEvent appends an integrity signal to the attempt. Events
// are legal only while in_progress; a detected time-limit overrun terminates
// the attempt instead.
func (s *attemptService) RecordMonitoringEvent(user *model.User, quiz *model.Quiz, req dto.MonitorEventDTO) (*dto.AttemptResponseDTO, error) {
	sq, err := s.inProgressAttempt(user.ID, quiz)
	if err != nil {
		return nil, err
	}

	tabSwitchDelta := 0
	var violation *model.Violation
	switch req.Type {
	case "camera_off":
		if quiz.RequireCamera {
			violation = &model.Violation{Type: model.ViolationCameraOff}
		}
	case "fullscreen_exit":
		if quiz.RequireFullscreen {
			violation = &model.Violation{Type: model.ViolationFullscreenExit}
		}
	case "tab_switch":
		tabSwitchDelta = 1
		if !quiz.AllowTabChange {
			violation = &model.Violation{Type: model.ViolationTabSwitch}
		}
	case "heartbeat":
		// Flag refresh only.
	}

	if err := s.studentQuizRepo.UpdateMonitoring(sq.ID, req.CameraEnabled, req.IsFullscreen, tabSwitchDelta); err != nil {
		return nil, fmt.Errorf("updating monitoring state: %w", err)
	}
	if violation != nil {
		violation.StudentQuizID = sq.ID
		violation.Details = req.Details
		violation.OccurredAt = time.Now()
		if err := s.studentQuizRepo.AddViolation(violation); err != nil {
			return nil, fmt.Errorf("recording violation: %w", err)
		}
		log.Info().Uint("userID", user.ID).Uint("quizID", quiz.ID).
			Str("type", string(violation.Type)).Msg("Violation recorded")
	}

	sq, err = s.studentQuizRepo.FindByUserAndQuiz(user.ID, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading attempt: %w", err)
	}
	return toAttemptDTO(sq), nil
}

// SubmitQuiz grades the attempt and freezes a Result. Submitting after the
// time limit terminates the attempt instead of grading it.
func (s *attemptService) SubmitQuiz(user *model.User, quiz *model.Quiz) (*dto.ResultResponseDTO, error) {
	sq, err := s.inProgressAttempt(user.ID, quiz)
	if err != nil {
		return nil, err
	}

	questions, err := s.quizRepo.FindQuestions(quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	answers, err := s.answerRepo.FindByUserAndQuiz(user.ID, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("loading answers: %w", err)
	}
	violations, err := s.studentQuizRepo.CountViolations(sq.ID)
	if err != nil {
		return nil, fmt.Errorf("counting violations: %w", err)
	}

	outcome := s.grading.Grade(questions, answers, violations)

	now := time.Now()
	won, err := s.studentQuizRepo.Transition(sq.ID, model.AttemptInProgress, model.AttemptSubmitted, &now)
	if err != nil {
		return nil, fmt.Errorf("finalizing attempt: %w", err)
	}
	if !won {
		return nil, apperror.BusinessRule("Attempt is no longer in progress")
	}

	result := model.Result{
		UserID:               user.ID,
		QuizID:               quiz.ID,
		TotalMarks:           outcome.TotalMarks,
		MarksObtained:        outcome.MarksObtained,
		StartedAt:            sq.StartedAt,
		EndedAt:              &now,
		SubmittedBy:          user.StudentID,
		CameraViolations:     violations[model.ViolationCameraOff],
		FullscreenViolations: violations[model.ViolationFullscreenExit],
		TabSwitchViolations:  violations[model.ViolationTabSwitch],
	}
	if sq.StartedAt != nil {
		result.TimeSpentSec = int(now.Sub(*sq.StartedAt).Seconds())
	}
	for _, ga := range outcome.Answers {
		result.Answers = append(result.Answers, model.ResultAnswer{
			QuestionID:       ga.QuestionID,
			SelectedOptionID: ga.SelectedOptionID,
			IsCorrect:        ga.IsCorrect,
			Points:           ga.Points,
		})
	}

	if err := s.resultRepo.Create(&result); err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Uint("quizID", quiz.ID).Msg("SubmitQuiz: failed to write result")
		return nil, fmt.Errorf("writing result: %w", err)
	}

	for _, ga := range outcome.Answers {
		if ga.SelectedOptionID == 0 {
			continue
		}
		if err := s.questionRepo.IncrementUsage(ga.QuestionID, ga.IsCorrect); err != nil {
			log.Warn().Err(err).Uint("questionID", ga.QuestionID).Msg("SubmitQuiz: failed to update question stats")
		}
	}

	log.Info().Uint("userID", user.ID).Uint("quizID", quiz.ID).
		Float64("marks", result.MarksObtained).Float64("total", result.TotalMarks).
		Msg("Attempt submitted")
	return toResultDTO(&result, s.grading), nil
}

// TerminateAttempt is the explicit admin termination.
func (s *attemptService) TerminateAttempt(quizID, studentUserID uint) error {
	sq, err := s.studentQuizRepo.FindByUserAndQuiz(studentUserID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Attempt not found")
		}
		return fmt.Errorf("loading attempt: %w", err)
	}
	now := time.Now()
	won, err := s.studentQuizRepo.Transition(sq.ID, model.AttemptInProgress, model.AttemptTerminated, &now)
	if err != nil {
		return fmt.Errorf("terminating attempt: %w", err)
	}
	if !won {
		return apperror.BusinessRule(fmt.Sprintf("Attempt is %s, only in-progress attempts can be terminated", sq.Status))
	}
	log.Info().Uint("userID", studentUserID).Uint("quizID", quizID).Msg("Attempt terminated by admin")
	return nil
}

func (s *attemptService) GetAttempt(userID, quizID uint) (*dto.AttemptResponseDTO, error) {
	sq, err := s.studentQuizRepo.FindByUserAndQuiz(userID, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Attempt not found")
		}
		return nil, fmt.Errorf("loading attempt: %w", err)
	}
	return toAttemptDTO(sq), nil
}

func (s *attemptService) ListAttempts(quizID uint) ([]dto.AttemptResponseDTO, error) {
	attempts, err := s.studentQuizRepo.FindByQuiz(quizID)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	dtos := make([]dto.AttemptResponseDTO, 0, len(attempts))
	for i := range attempts {
		dtos = append(dtos, *toAttemptDTO(&attempts[i]))
	}
	return dtos, nil
}

// inProgressAttempt loads the attempt and enforces the in_progress guard,
// terminating it first when the quiz window has closed or the duration has
// been overrun.
func (s *attemptService) inProgressAttempt(userID uint, quiz *model.Quiz) (*model.StudentQuiz, error) {
	sq, err := s.studentQuizRepo.FindByUserAndQuiz(userID, quiz.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BusinessRule("Quiz has not been started")
		}
		return nil, fmt.Errorf("loading attempt: %w", err)
	}
	if sq.Status != model.AttemptInProgress {
		return nil, apperror.BusinessRule(fmt.Sprintf("Attempt is %s", sq.Status))
	}

	now := time.Now()
	if !now.Before(quiz.EndTime) {
		if _, err := s.studentQuizRepo.Transition(sq.ID, model.AttemptInProgress, model.AttemptTerminated, &now); err != nil {
			return nil, fmt.Errorf("terminating attempt past window: %w", err)
		}
		log.Info().Uint("userID", userID).Uint("quizID", quiz.ID).Msg("Attempt terminated: quiz window closed")
		return nil, apperror.BusinessRule("Quiz has ended")
	}
	if sq.Overrun(quiz, now) {
		if _, err := s.studentQuizRepo.Transition(sq.ID, model.AttemptInProgress, model.AttemptTerminated, &now); err != nil {
			return nil, fmt.Errorf("terminating overrun attempt: %w", err)
		}
		log.Info().Uint("userID", userID).Uint("quizID", quiz.ID).Msg("Attempt terminated: time limit exceeded")
		return nil, apperror.BusinessRule("Time limit exceeded, attempt terminated")
	}
	return sq, nil
}

func windowError(quiz *model.Quiz, now time.Time) error {
	if now.Before(quiz.StartTime) {
		return apperror.BusinessRule("Quiz has not started yet")
	}
	return apperror.BusinessRule("Quiz has ended")
}

func toAttemptDTO(sq *model.StudentQuiz) *dto.AttemptResponseDTO {
	var resp dto.AttemptResponseDTO
	if err := copier.Copy(&resp, sq); err != nil {
		log.Error().Err(err).Msg("Failed to copy attempt to DTO")
	}
	resp.Violations = make([]dto.ViolationDTO, 0, len(sq.Violations))
	for _, v := range sq.Violations {
		resp.Violations = append(resp.Violations, dto.ViolationDTO{
			Type:       string(v.Type),
			Details:    v.Details,
			OccurredAt: v.OccurredAt,
		})
	}
	return &resp
}

func toResultDTO(result *model.Result, grading GradingService) *dto.ResultResponseDTO {
	var resp dto.ResultResponseDTO
	if err := copier.Copy(&resp, result); err != nil {
		log.Error().Err(err).Msg("Failed to copy result to DTO")
	}
	resp.Percentage = grading.Percentage(result.MarksObtained, result.TotalMarks)
	resp.Violations = dto.ViolationTotals{
		Camera:     result.CameraViolations,
		Fullscreen: result.FullscreenViolations,
		TabSwitch:  result.TabSwitchViolations,
		Total:      result.TotalViolations,
	}
	if result.Quiz.ID != 0 {
		resp.QuizTitle = result.Quiz.Title
	}
	if result.User.ID != 0 {
		resp.StudentName = result.User.Name
		resp.StudentID = result.User.StudentID
	}
	resp.Answers = make([]dto.ResultAnswerDTO, 0, len(result.Answers))
	for _, a := range result.Answers {
		resp.Answers = append(resp.Answers, dto.ResultAnswerDTO{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			IsCorrect:        a.IsCorrect,
			Points:           a.Points,
		})
	}
	return &resp
}
