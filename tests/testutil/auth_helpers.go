package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskman-app/taskman-api/middleware"
	"github.com/taskman-app/taskman-api/models"
)

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-secret"

// NewTokenService creates a token service signing with TestJWTSecret.
func NewTokenService() *middleware.TokenService {
	return middleware.NewTokenService(TestJWTSecret)
}

// BearerToken issues a token for the user, ready for an Authorization header.
func BearerToken(t *testing.T, tokens *middleware.TokenService, user *models.User) string {
	t.Helper()

	token, err := tokens.Issue(user)
	require.NoError(t, err, "Failed to issue test token")
	return "Bearer " + token
}
