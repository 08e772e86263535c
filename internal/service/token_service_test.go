package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/Quokka/config"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTokenStore stands in for redis in tests.
type memoryTokenStore struct {
	tokens map[string]uint
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: make(map[string]uint)}
}

func (s *memoryTokenStore) Save(_ context.Context, tokenID string, userID uint, _ time.Duration) error {
	s.tokens[tokenID] = userID
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.tokens[tokenID]
	return ok, nil
}

func (s *memoryTokenStore) Delete(_ context.Context, tokenID string) error {
	delete(s.tokens, tokenID)
	return nil
}

func newTestTokenService(store RefreshTokenStore) TokenService {
	cfg := &config.Config{}
	cfg.Auth.AccessSecret = "access-secret"
	cfg.Auth.RefreshSecret = "refresh-secret"
	cfg.Auth.AccessTTL = time.Hour
	cfg.Auth.RefreshTTL = 24 * time.Hour
	return NewTokenService(cfg, store)
}

func TestIssueAndParseAccess(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	user := &model.User{ID: 7, StudentID: "2112001", IsAdmin: true}

	pair, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Len(t, store.tokens, 1, "refresh token id registered in the store")

	claims, err := svc.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "2112001", claims.Subject)
	assert.True(t, claims.IsAdmin)
}

func TestParseAccessRejectsRefreshToken(t *testing.T) {
	svc := newTestTokenService(newMemoryTokenStore())
	pair, err := svc.Issue(context.Background(), &model.User{ID: 7, StudentID: "2112001"})
	require.NoError(t, err)

	_, err = svc.ParseAccess(pair.RefreshToken)
	assert.Error(t, err, "tokens signed with the refresh secret must not pass access parsing")
}

func TestParseAccessRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(newMemoryTokenStore())

	_, err := svc.ParseAccess("not-a-jwt")
	assert.Error(t, err)
}

func TestRotateIssuesNewPairAndRevokesOld(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	pair, err := svc.Issue(context.Background(), &model.User{ID: 7, StudentID: "2112001"})
	require.NoError(t, err)

	next, userID, err := svc.Rotate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	assert.Len(t, store.tokens, 1, "old id revoked, new id stored")

	// Replaying the rotated-out token fails.
	_, _, err = svc.Rotate(context.Background(), pair.RefreshToken)
	assert.Error(t, err)

	// The new token still works.
	_, userID, err = svc.Rotate(context.Background(), next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestRevokeInvalidatesRefreshToken(t *testing.T) {
	store := newMemoryTokenStore()
	svc := newTestTokenService(store)
	pair, err := svc.Issue(context.Background(), &model.User{ID: 7, StudentID: "2112001"})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), pair.RefreshToken))
	assert.Empty(t, store.tokens)

	_, _, err = svc.Rotate(context.Background(), pair.RefreshToken)
	assert.Error(t, err)
}
