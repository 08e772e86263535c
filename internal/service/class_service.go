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

type ClassService interface {
	CreateClass(creatorID uint, req dto.ClassCreateDTO) (*dto.ClassResponseDTO, error)
	UpdateClass(classID uint, req dto.ClassUpdateDTO) (*dto.ClassResponseDTO, error)
	DeleteClass(classID uint) error
	GetClass(classID uint) (*dto.ClassResponseDTO, error)
	ListClasses() ([]dto.ClassSummaryDTO, error)
	ListClassesForStudent(userID uint) ([]dto.ClassSummaryDTO, error)
	EnrollStudents(classID uint, studentIDs []string) (*dto.ImportSummaryDTO, error)
	UnenrollStudent(classID uint, studentID string) error
}

type classService struct {
	classRepo repository.ClassRepository
	userRepo  repository.UserRepository
}

func NewClassService(classRepo repository.ClassRepository, userRepo repository.UserRepository) ClassService {
	return &classService{classRepo: classRepo, userRepo: userRepo}
}

func (s *classService) CreateClass(creatorID uint, req dto.ClassCreateDTO) (*dto.ClassResponseDTO, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperror.Validation("Class end time must be after start time")
	}

	class := model.Class{
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedBy:   creatorID,
	}
	if err := s.classRepo.Create(&class); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("CreateClass: repository error")
		return nil, fmt.Errorf("creating class: %w", err)
	}
	return toClassDTO(&class), nil
}

func (s *classService) UpdateClass(classID uint, req dto.ClassUpdateDTO) (*dto.ClassResponseDTO, error) {
	class, err := s.classRepo.FindByID(classID)
	if err != nil {
		return nil, classNotFound(err)
	}

	if req.Name != "" {
		class.Name = req.Name
	}
	if req.Description != nil {
		class.Description = *req.Description
	}
	if req.StartTime != nil {
		class.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		class.EndTime = *req.EndTime
	}
	if !class.EndTime.After(class.StartTime) {
		return nil, apperror.Validation("Class end time must be after start time")
	}

	if err := s.classRepo.Update(class); err != nil {
		return nil, fmt.Errorf("updating class: %w", err)
	}
	return toClassDTO(class), nil
}

// DeleteClass refuses while any quiz is live; otherwise the class and its
// quizzes go together.
func (s *classService) DeleteClass(classID uint) error {
	if _, err := s.classRepo.FindByID(classID); err != nil {
		return classNotFound(err)
	}

	live, err := s.classRepo.CountQuizzesInStatus(classID, model.QuizPublished, model.QuizInProgress)
	if err != nil {
		return fmt.Errorf("checking quiz statuses: %w", err)
	}
	if live > 0 {
		return apperror.BusinessRule("Cannot delete a class with published or in-progress quizzes")
	}

	if err := s.classRepo.Delete(classID); err != nil {
		return fmt.Errorf("deleting class: %w", err)
	}
	log.Info().Uint("classID", classID).Msg("Class deleted")
	return nil
}

func (s *classService) GetClass(classID uint) (*dto.ClassResponseDTO, error) {
	class, err := s.classRepo.FindByIDWithStudents(classID)
	if err != nil {
		return nil, classNotFound(err)
	}
	return toClassDTO(class), nil
}

func (s *classService) ListClasses() ([]dto.ClassSummaryDTO, error) {
	classes, err := s.classRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("listing classes: %w", err)
	}
	return toClassSummaries(classes), nil
}

func (s *classService) ListClassesForStudent(userID uint) ([]dto.ClassSummaryDTO, error) {
	classes, err := s.classRepo.FindAllForStudent(userID)
	if err != nil {
		return nil, fmt.Errorf("listing classes for student: %w", err)
	}
	return toClassSummaries(classes), nil
}

// EnrollStudents resolves each student id independently; failures land in the
// summary's error list without aborting the rest.
func (s *classService) EnrollStudents(classID uint, studentIDs []string) (*dto.ImportSummaryDTO, error) {
	if _, err := s.classRepo.FindByID(classID); err != nil {
		return nil, classNotFound(err)
	}

	summary := dto.ImportSummaryDTO{Success: []string{}, Errors: []dto.ImportRowError{}}
	for i, sid := range studentIDs {
		user, err := s.userRepo.FindByStudentID(sid)
		if err != nil {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: i + 1, Message: fmt.Sprintf("student %s not found", sid)})
			continue
		}
		if err := s.classRepo.AddStudent(classID, user.ID); err != nil {
			summary.Errors = append(summary.Errors, dto.ImportRowError{Row: i + 1, Message: fmt.Sprintf("enrolling %s: %v", sid, err)})
			continue
		}
		summary.Success = append(summary.Success, sid)
	}
	return &summary, nil
}

func (s *classService) UnenrollStudent(classID uint, studentID string) error {
	user, err := s.userRepo.FindByStudentID(studentID)
	if err != nil {
		return apperror.NotFound("Student not found").WithCause(err)
	}
	return s.classRepo.RemoveStudent(classID, user.ID)
}

func classNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Class not found")
	}
	return fmt.Errorf("loading class: %w", err)
}

func toClassDTO(class *model.Class) *dto.ClassResponseDTO {
	var resp dto.ClassResponseDTO
	if err := copier.Copy(&resp, class); err != nil {
		log.Error().Err(err).Msg("Failed to copy class to DTO")
	}
	return &resp
}

func toClassSummaries(classes []model.Class) []dto.ClassSummaryDTO {
	summaries := make([]dto.ClassSummaryDTO, 0, len(classes))
	for i := range classes {
		var summary dto.ClassSummaryDTO
		if err := copier.Copy(&summary, &classes[i]); err != nil {
			log.Error().Err(err).Uint("classID", classes[i].ID).Msg("Failed to copy class summary")
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
