package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuizService interface {
	CreateQuiz(creatorID uint, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error)
	UpdateQuiz(quizID uint, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error)
	DeleteQuiz(quizID uint) error
	GetQuiz(quizID uint) (*dto.QuizResponseDTO, error)
	ListByClass(classID uint) ([]dto.QuizSummaryDTO, error)
	PublishQuiz(quizID uint) (*dto.QuizResponseDTO, error)
	StudentView(quizID uint) (*dto.StudentQuizViewDTO, error)
}

type quizService struct {
	quizRepo     repository.QuizRepository
	classRepo    repository.ClassRepository
	questionRepo repository.QuestionRepository
}

func NewQuizService(quizRepo repository.QuizRepository, classRepo repository.ClassRepository, questionRepo repository.QuestionRepository) QuizService {
	return &quizService{quizRepo: quizRepo, classRepo: classRepo, questionRepo: questionRepo}
}

func (s *quizService) CreateQuiz(creatorID uint, req dto.QuizCreateDTO) (*dto.QuizResponseDTO, error) {
	if _, err := s.classRepo.FindByID(req.ClassID); err != nil {
		return nil, classNotFound(err)
	}
	if err := s.checkQuestions(req.ClassID, req.QuestionIDs); err != nil {
		return nil, err
	}

	quiz := model.Quiz{
		Title:             req.Title,
		ClassID:           req.ClassID,
		DurationMin:       req.DurationMin,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            model.QuizDraft,
		RequireCamera:     req.Settings.RequireCamera,
		RequireFullscreen: req.Settings.RequireFullscreen,
		AllowTabChange:    req.Settings.AllowTabChange,
		ShuffleQuestions:  req.Settings.ShuffleQuestions,
		CreatedBy:         creatorID,
	}
	if err := s.quizRepo.Create(&quiz, req.QuestionIDs); err != nil {
		log.Error().Err(err).Uint("classID", req.ClassID).Msg("CreateQuiz: repository error")
		return nil, fmt.Errorf("creating quiz: %w", err)
	}
	return s.toQuizDTO(&quiz, false)
}

func (s *quizService) UpdateQuiz(quizID uint, req dto.QuizUpdateDTO) (*dto.QuizResponseDTO, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, quizNotFound(err)
	}
	if quiz.Status != model.QuizDraft && quiz.Status != model.QuizPublished {
		return nil, apperror.BusinessRule(fmt.Sprintf("Cannot edit a quiz that is %s", quiz.Status))
	}
	// Once published, the question set and timing are frozen; only the title
	// and proctoring settings may still change.
	if quiz.Status == model.QuizPublished &&
		(len(req.QuestionIDs) > 0 || req.DurationMin != nil || req.StartTime != nil || req.EndTime != nil) {
		return nil, apperror.BusinessRule("Cannot change questions or timing of a published quiz")
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.DurationMin != nil {
		quiz.DurationMin = *req.DurationMin
	}
	if req.StartTime != nil {
		quiz.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		quiz.EndTime = *req.EndTime
	}
	if !quiz.EndTime.After(quiz.StartTime) {
		return nil, apperror.Validation("Quiz end time must be after start time")
	}
	if req.Settings != nil {
		quiz.RequireCamera = req.Settings.RequireCamera
		quiz.RequireFullscreen = req.Settings.RequireFullscreen
		quiz.AllowTabChange = req.Settings.AllowTabChange
		quiz.ShuffleQuestions = req.Settings.ShuffleQuestions
	}

	if len(req.QuestionIDs) > 0 {
		if err := s.checkQuestions(quiz.ClassID, req.QuestionIDs); err != nil {
			return nil, err
		}
		if err := s.quizRepo.ReplaceQuestions(quiz.ID, req.QuestionIDs); err != nil {
			return nil, fmt.Errorf("replacing quiz questions: %w", err)
		}
	}

	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, fmt.Errorf("updating quiz: %w", err)
	}
	return s.toQuizDTO(quiz, false)
}

func (s *quizService) DeleteQuiz(quizID uint) error {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return quizNotFound(err)
	}
	if quiz.Status == model.QuizInProgress ||
		(quiz.Status == model.QuizPublished && quiz.WindowOpen(time.Now())) {
		return apperror.BusinessRule("Cannot delete a quiz while it is running")
	}
	if err := s.quizRepo.Delete(quizID); err != nil {
		return fmt.Errorf("deleting quiz: %w", err)
	}
	log.Info().Uint("quizID", quizID).Msg("Quiz deleted")
	return nil
}

func (s *quizService) GetQuiz(quizID uint) (*dto.QuizResponseDTO, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, quizNotFound(err)
	}
	return s.toQuizDTO(quiz, true)
}

func (s *quizService) ListByClass(classID uint) ([]dto.QuizSummaryDTO, error) {
	quizzes, err := s.quizRepo.FindByClassID(classID)
	if err != nil {
		return nil, fmt.Errorf("listing quizzes: %w", err)
	}
	summaries := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for i := range quizzes {
		var summary dto.QuizSummaryDTO
		if err := copier.Copy(&summary, &quizzes[i]); err != nil {
			log.Error().Err(err).Uint("quizID", quizzes[i].ID).Msg("Failed to copy quiz summary")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// PublishQuiz makes a draft visible to students ahead of its window. The
// scheduler publishes forgotten drafts at window open and completes quizzes
// at window close.
func (s *quizService) PublishQuiz(quizID uint) (*dto.QuizResponseDTO, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, quizNotFound(err)
	}
	if quiz.Status != model.QuizDraft {
		return nil, apperror.BusinessRule(fmt.Sprintf("Only draft quizzes can be published, quiz is %s", quiz.Status))
	}
	if !quiz.EndTime.After(time.Now()) {
		return nil, apperror.BusinessRule("Cannot publish a quiz whose window has already ended")
	}
	if err := s.quizRepo.UpdateStatus(quiz.ID, model.QuizPublished); err != nil {
		return nil, fmt.Errorf("publishing quiz: %w", err)
	}
	quiz.Status = model.QuizPublished
	log.Info().Uint("quizID", quiz.ID).Msg("Quiz published")
	return s.toQuizDTO(quiz, false)
}

// StudentView renders the quiz for a taker: no correctness flags, questions
// shuffled per attempt when the quiz asks for it.
func (s *quizService) StudentView(quizID uint) (*dto.StudentQuizViewDTO, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, quizNotFound(err)
	}
	if quiz.Status == model.QuizDraft {
		return nil, apperror.NotFound("Quiz not found")
	}

	questions, err := s.quizRepo.FindQuestions(quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("loading quiz questions: %w", err)
	}
	if quiz.ShuffleQuestions {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	view := dto.StudentQuizViewDTO{
		ID:          quiz.ID,
		Title:       quiz.Title,
		DurationMin: quiz.DurationMin,
		StartTime:   quiz.StartTime,
		EndTime:     quiz.EndTime,
		Settings:    settingsDTO(quiz),
		Questions:   make([]dto.StudentQuestionDTO, 0, len(questions)),
	}
	for i := range questions {
		q := &questions[i]
		sq := dto.StudentQuestionDTO{
			ID:           q.ID,
			Text:         q.Text,
			Points:       q.Points,
			TimeLimitSec: q.TimeLimitSec,
		}
		for _, opt := range q.Options {
			sq.Options = append(sq.Options, dto.StudentOptionDTO{ID: opt.ID, Text: opt.Text})
		}
		view.Questions = append(view.Questions, sq)
	}
	return &view, nil
}

func (s *quizService) checkQuestions(classID uint, questionIDs []uint) error {
	seen := make(map[uint]struct{}, len(questionIDs))
	for _, qid := range questionIDs {
		if _, dup := seen[qid]; dup {
			return apperror.Validation(fmt.Sprintf("Question %d listed twice", qid))
		}
		seen[qid] = struct{}{}

		question, err := s.questionRepo.FindByID(qid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Validation(fmt.Sprintf("Question %d does not exist", qid))
			}
			return fmt.Errorf("loading question %d: %w", qid, err)
		}
		if question.ClassID != classID {
			return apperror.Validation(fmt.Sprintf("Question %d belongs to another class", qid))
		}
	}
	return nil
}

func (s *quizService) toQuizDTO(quiz *model.Quiz, withQuestions bool) (*dto.QuizResponseDTO, error) {
	var resp dto.QuizResponseDTO
	if err := copier.Copy(&resp, quiz); err != nil {
		log.Error().Err(err).Msg("Failed to copy quiz to DTO")
	}
	resp.Settings = settingsDTO(quiz)

	if withQuestions {
		questions, err := s.quizRepo.FindQuestions(quiz.ID)
		if err != nil {
			return nil, fmt.Errorf("loading quiz questions: %w", err)
		}
		for i := range questions {
			resp.Questions = append(resp.Questions, *toQuestionDTO(&questions[i]))
		}
	}
	return &resp, nil
}

func settingsDTO(quiz *model.Quiz) dto.QuizSettingsDTO {
	return dto.QuizSettingsDTO{
		RequireCamera:     quiz.RequireCamera,
		RequireFullscreen: quiz.RequireFullscreen,
		AllowTabChange:    quiz.AllowTabChange,
		ShuffleQuestions:  quiz.ShuffleQuestions,
	}
}

func quizNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Quiz not found")
	}
	return fmt.Errorf("loading quiz: %w", err)
}
