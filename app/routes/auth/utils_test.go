package auth

import (
	"testing"

	"lakeside-academy/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.AppConfig = &config.Config{SecretKey: "test-secret"}
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "parent@example.com", "Maria", "Santos", []string{"guardian"})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "parent@example.com", claims.Email)
	assert.Equal(t, []string{"guardian"}, claims.Roles)
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	token, err := GenerateJWT("user-1", "parent@example.com", "Maria", "Santos", []string{"guardian"})
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestPrincipalHasRole(t *testing.T) {
	p := &Principal{Roles: []string{"registrar"}}
	assert.True(t, p.HasRole("registrar"))
	assert.True(t, p.HasRole("super_admin", "registrar"))
	assert.False(t, p.HasRole("guardian"))
	assert.True(t, p.IsStaff())

	guardian := &Principal{Roles: []string{"guardian"}}
	assert.False(t, guardian.IsStaff())
}
