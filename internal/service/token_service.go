package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/apperror"
	"github.com/lshigami/Quokka/internal/model"
)

// TokenPair is what a successful login or refresh produces. The refresh token
// is delivered to the client only via an HTTP-only cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}

type Claims struct {
	UserID  uint   `json:"uid"`
	IsAdmin bool   `json:"adm"`
	TokenID string `json:"jti"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(ctx context.Context, user *model.User) (*TokenPair, error)
	ParseAccess(tokenString string) (*Claims, error)
	// Rotate validates a refresh token against the store, revokes it and
	// issues a fresh pair. A reused or unknown token fails.
	Rotate(ctx context.Context, refreshToken string) (*TokenPair, uint, error)
	Revoke(ctx context.Context, refreshToken string) error
}

type tokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	store         RefreshTokenStore
}

func NewTokenService(cfg *config.Config, store RefreshTokenStore) TokenService {
	return &tokenService{
		accessSecret:  []byte(cfg.Auth.AccessSecret),
		refreshSecret: []byte(cfg.Auth.RefreshSecret),
		accessTTL:     cfg.Auth.AccessTTL,
		refreshTTL:    cfg.Auth.RefreshTTL,
		store:         store,
	}
}

func (s *tokenService) Issue(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := time.Now()

	access, err := s.sign(s.accessSecret, &Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		TokenID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.StudentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refreshID := uuid.NewString()
	refresh, err := s.sign(s.refreshSecret, &Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		TokenID: refreshID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.StudentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	if err := s.store.Save(ctx, refreshID, user.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, RefreshTTL: s.refreshTTL}, nil
}

func (s *tokenService) ParseAccess(tokenString string) (*Claims, error) {
	return s.parse(tokenString, s.accessSecret)
}

func (s *tokenService) Rotate(ctx context.Context, refreshToken string) (*TokenPair, uint, error) {
	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, 0, err
	}

	known, err := s.store.Exists(ctx, claims.TokenID)
	if err != nil {
		return nil, 0, fmt.Errorf("checking refresh token: %w", err)
	}
	if !known {
		return nil, 0, apperror.InvalidCredential("Refresh token revoked or unknown")
	}
	if err := s.store.Delete(ctx, claims.TokenID); err != nil {
		return nil, 0, fmt.Errorf("revoking refresh token: %w", err)
	}

	user := &model.User{ID: claims.UserID, StudentID: claims.Subject, IsAdmin: claims.IsAdmin}
	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, 0, err
	}
	return pair, claims.UserID, nil
}

func (s *tokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, claims.TokenID)
}

func (s *tokenService) sign(secret []byte, claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *tokenService) parse(tokenString string, secret []byte) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.InvalidCredential("Invalid or expired token").WithCause(err)
	}
	return &claims, nil
}
