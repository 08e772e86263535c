package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/repository"
	"gorm.io/gorm"
)

type ResultService interface {
	GetStudentResult(userID, quizID uint) (*dto.ResultResponseDTO, error)
	ListStudentResults(userID uint) ([]dto.ResultResponseDTO, error)
	ListQuizResults(quizID uint) ([]dto.ResultResponseDTO, error)
	AddFeedback(quizID, studentUserID uint, feedback string) (*dto.ResultResponseDTO, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
	quizRepo   repository.QuizRepository
	grading    GradingService
}

func NewResultService(resultRepo repository.ResultRepository, quizRepo repository.QuizRepository, grading GradingService) ResultService {
	return &resultService{resultRepo: resultRepo, quizRepo: quizRepo, grading: grading}
}

func (s *resultService) GetStudentResult(userID, quizID uint) (*dto.ResultResponseDTO, error) {
	result, err := s.resultRepo.FindByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, resultNotFound(err)
	}
	return toResultDTO(result, s.grading), nil
}

func (s *resultService) ListStudentResults(userID uint) ([]dto.ResultResponseDTO, error) {
	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	dtos := make([]dto.ResultResponseDTO, 0, len(results))
	for i := range results {
		// The per-quiz listing keeps answers out of the payload.
		resp := toResultDTO(&results[i], s.grading)
		resp.Answers = nil
		dtos = append(dtos, *resp)
	}
	return dtos, nil
}

func (s *resultService) ListQuizResults(quizID uint) ([]dto.ResultResponseDTO, error) {
	if _, err := s.quizRepo.FindByID(quizID); err != nil {
		return nil, quizNotFound(err)
	}
	results, err := s.resultRepo.FindByQuiz(quizID)
	if err != nil {
		return nil, fmt.Errorf("listing quiz results: %w", err)
	}
	dtos := make([]dto.ResultResponseDTO, 0, len(results))
	for i := range results {
		dtos = append(dtos, *toResultDTO(&results[i], s.grading))
	}
	return dtos, nil
}

func (s *resultService) AddFeedback(quizID, studentUserID uint, feedback string) (*dto.ResultResponseDTO, error) {
	result, err := s.resultRepo.FindByUserAndQuiz(studentUserID, quizID)
	if err != nil {
		return nil, resultNotFound(err)
	}
	result.Feedback = feedback
	if err := s.resultRepo.Update(result); err != nil {
		return nil, fmt.Errorf("saving feedback: %w", err)
	}
	return toResultDTO(result, s.grading), nil
}

func resultNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Result not found")
	}
	return fmt.Errorf("loading result: %w", err)
}
