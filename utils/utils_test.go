package authUtils

import (
	"strings"
	"testing"

	"civicconnect-be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("64f1b2c3d4e5f60718293a4b", models.RoleSectorHead)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2c3d4e5f60718293a4b", userID)
	assert.Equal(t, models.RoleSectorHead, role)
}

func TestTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateToken("64f1b2c3d4e5f60718293a4b", models.RoleCitizen)
	assert.Error(t, err)

	_, _, err = ParseToken("anything")
	assert.Error(t, err)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken("64f1b2c3d4e5f60718293a4b", models.RoleCitizen)
	require.NoError(t, err)

	_, _, err = ParseToken(token + "x")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, _, err = ParseToken(token)
	assert.Error(t, err)
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := RandomHex(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIssuesToCSV(t *testing.T) {
	out, err := IssuesToCSV(
		[]string{"id", "category", "status"},
		[][]string{
			{"1", "Water", "Pending"},
			{"2", "Roads, East", "Closed"},
		},
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,category,status", lines[0])
	assert.Contains(t, lines[2], `"Roads, East"`)
}
