package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresAt, err := svc.GenerateAccessToken("u-1", "u1@example.com", user.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	claims, err := decoded.AsMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims[ClaimUserID])
	assert.Equal(t, "manager", claims[ClaimRole])
	assert.Equal(t, TokenTypeAccess, claims[ClaimType])
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("u-1", "u1@example.com", user.RoleEmployee)
	assert.Error(t, err)
}
