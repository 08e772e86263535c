package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuestionService interface {
	CreateQuestion(creatorID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	UpdateQuestion(questionID uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error)
	DeleteQuestion(questionID uint) error
	GetQuestion(questionID uint) (*dto.QuestionResponseDTO, error)
	ListByClass(classID uint) ([]dto.QuestionResponseDTO, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	classRepo    repository.ClassRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, classRepo repository.ClassRepository) QuestionService {
	return &questionService{questionRepo: questionRepo, classRepo: classRepo}
}

func (s *questionService) CreateQuestion(creatorID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if _, err := s.classRepo.FindByID(req.ClassID); err != nil {
		return nil, classNotFound(err)
	}
	if err := validateOptions(req.Options); err != nil {
		return nil, err
	}

	question := model.Question{
		ClassID:      req.ClassID,
		Text:         req.Text,
		Points:       req.Points,
		Difficulty:   model.Difficulty(req.Difficulty),
		Category:     req.Category,
		CreatedBy:    creatorID,
		TimeLimitSec: req.TimeLimitSec,
	}
	for _, opt := range req.Options {
		question.Options = append(question.Options, model.Option{Text: opt.Text, IsCorrect: opt.IsCorrect})
	}

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Uint("classID", req.ClassID).Msg("CreateQuestion: repository error")
		return nil, fmt.Errorf("creating question: %w", err)
	}
	return toQuestionDTO(&question), nil
}

func (s *questionService) UpdateQuestion(questionID uint, req dto.QuestionUpdateDTO) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, questionNotFound(err)
	}

	if len(req.Options) > 0 {
		// Option identities are referenced by answers; once the question has
		// been used in a quiz its options are frozen.
		used, err := s.questionRepo.InUse(questionID)
		if err != nil {
			return nil, fmt.Errorf("checking question usage: %w", err)
		}
		if used {
			return nil, apperror.BusinessRule("Cannot change options of a question used by a quiz")
		}
		if err := validateOptions(req.Options); err != nil {
			return nil, err
		}
		question.Options = nil
		for _, opt := range req.Options {
			question.Options = append(question.Options, model.Option{QuestionID: question.ID, Text: opt.Text, IsCorrect: opt.IsCorrect})
		}
	}

	if req.Text != "" {
		question.Text = req.Text
	}
	if req.Points != nil {
		question.Points = *req.Points
	}
	if req.Difficulty != "" {
		question.Difficulty = model.Difficulty(req.Difficulty)
	}
	if req.Category != nil {
		question.Category = *req.Category
	}
	if req.TimeLimitSec != nil {
		question.TimeLimitSec = req.TimeLimitSec
	}

	if err := s.questionRepo.Update(question); err != nil {
		return nil, fmt.Errorf("updating question: %w", err)
	}
	return toQuestionDTO(question), nil
}

func (s *questionService) DeleteQuestion(questionID uint) error {
	if _, err := s.questionRepo.FindByID(questionID); err != nil {
		return questionNotFound(err)
	}
	used, err := s.questionRepo.InUse(questionID)
	if err != nil {
		return fmt.Errorf("checking question usage: %w", err)
	}
	if used {
		return apperror.BusinessRule("Cannot delete a question referenced by a quiz")
	}
	return s.questionRepo.Delete(questionID)
}

func (s *questionService) GetQuestion(questionID uint) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		return nil, questionNotFound(err)
	}
	return toQuestionDTO(question), nil
}

func (s *questionService) ListByClass(classID uint) ([]dto.QuestionResponseDTO, error) {
	questions, err := s.questionRepo.FindByClassID(classID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	dtos := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		dtos = append(dtos, *toQuestionDTO(&questions[i]))
	}
	return dtos, nil
}

func validateOptions(options []dto.OptionCreateDTO) error {
	if len(options) < 2 {
		return apperror.Validation("A question needs at least two options")
	}
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return apperror.Validation("A question needs at least one correct option")
	}
	return nil
}

func questionNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Question not found")
	}
	return fmt.Errorf("loading question: %w", err)
}

func toQuestionDTO(question *model.Question) *dto.QuestionResponseDTO {
	var resp dto.QuestionResponseDTO
	if err := copier.Copy(&resp, question); err != nil {
		log.Error().Err(err).Msg("Failed to copy question to DTO")
	}
	return &resp
}
