package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.ProfileDTO, error)
	Login(ctx context.Context, req dto.LoginDTO) (*TokenPair, *dto.ProfileDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(userID uint) (*dto.ProfileDTO, error)
	UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.ProfileDTO, error)
	ListStudents() ([]dto.ProfileDTO, error)
	GetStudent(studentID string) (*dto.ProfileDTO, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenService) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Register(req dto.RegisterDTO) (*dto.ProfileDTO, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperror.BusinessRule("Email is already registered")
	}
	if _, err := s.userRepo.FindByStudentID(req.StudentID); err == nil {
		return nil, apperror.BusinessRule("Student ID is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := model.User{
		StudentID:    req.StudentID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Register: failed to create user")
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return toProfileDTO(&user), nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginDTO) (*TokenPair, *dto.ProfileDTO, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.InvalidCredential("Invalid email or password")
		}
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, apperror.InvalidCredential("Invalid email or password")
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to issue tokens")
		return nil, nil, err
	}
	return pair, toProfileDTO(user), nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	pair, userID, err := s.tokens.Rotate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	log.Debug().Uint("userID", userID).Msg("Refresh: rotated token pair")
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *authService) GetProfile(userID uint) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperror.NotFound("User not found").WithCause(err)
	}
	return toProfileDTO(user), nil
}

func (s *authService) UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperror.NotFound("User not found").WithCause(err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return toProfileDTO(user), nil
}

func (s *authService) ListStudents() ([]dto.ProfileDTO, error) {
	users, err := s.userRepo.FindAllStudents()
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	profiles := make([]dto.ProfileDTO, 0, len(users))
	for i := range users {
		profiles = append(profiles, *toProfileDTO(&users[i]))
	}
	return profiles, nil
}

func (s *authService) GetStudent(studentID string) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.FindByStudentID(studentID)
	if err != nil {
		return nil, apperror.NotFound("Student not found").WithCause(err)
	}
	return toProfileDTO(user), nil
}

func toProfileDTO(user *model.User) *dto.ProfileDTO {
	var profile dto.ProfileDTO
	if err := copier.Copy(&profile, user); err != nil {
		log.Error().Err(err).Msg("Failed to copy user to profile DTO")
	}
	return &profile
}
