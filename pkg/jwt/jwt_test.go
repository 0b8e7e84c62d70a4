package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/service-stock-api/pkg/jwt"
)

const secret = "test-secret-32-bytes-long-enough!!"

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := jwt.Generate(secret, "user-1", "branch-a", "csc", "service-stock", 5)
	require.NoError(t, err)

	userID, holderID, role, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "branch-a", holderID)
	assert.Equal(t, "csc", role)
}

func TestParse_RechazaRefreshToken(t *testing.T) {
	refresh, err := jwt.GenerateRefresh(secret, "user-1", "branch-a", "csc", "service-stock", 5)
	require.NoError(t, err)

	_, _, _, err = jwt.Parse(secret, refresh)
	assert.Error(t, err, "un refresh token no autentica requests")

	claims, err := jwt.ParseRefresh(secret, refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestParseRefresh_RechazaAccessToken(t *testing.T) {
	access, err := jwt.Generate(secret, "user-1", "branch-a", "csc", "service-stock", 5)
	require.NoError(t, err)
	_, err = jwt.ParseRefresh(secret, access)
	assert.Error(t, err)
}

func TestParse_ExpiradoYFirmaIncorrecta(t *testing.T) {
	expired, err := jwt.Generate(secret, "user-1", "branch-a", "csc", "service-stock", -1)
	require.NoError(t, err)
	_, _, _, err = jwt.Parse(secret, expired)
	assert.Error(t, err)

	token, err := jwt.Generate(secret, "user-1", "branch-a", "csc", "service-stock", 5)
	require.NoError(t, err)
	_, _, _, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)

	_, err = jwt.Generate("", "user-1", "branch-a", "csc", "service-stock", 5)
	assert.Error(t, err)
}
