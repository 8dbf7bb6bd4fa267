package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"igamedb",
	time.Hour,
)
var userID = uuid.NewString()
var email = "player@example.com"

func Test_GenerateSessionToken(t *testing.T) {
	token, err := jwtService.GenerateSessionToken(userID, email)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, email, claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_GenerateSessionToken_UniqueJTI(t *testing.T) {
	first, err := jwtService.GenerateSessionToken(userID, email)
	require.NoError(t, err)
	second, err := jwtService.GenerateSessionToken(userID, email)
	require.NoError(t, err)

	firstClaims, err := jwtService.ValidateToken(first)
	require.NoError(t, err)
	secondClaims, err := jwtService.ValidateToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	expired := NewJWTService("test-signing-key", "igamedb", -time.Hour)

	token, err := expired.GenerateSessionToken(userID, email)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("a-different-key", "igamedb", time.Hour)

	token, err := other.GenerateSessionToken(userID, email)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
}

func Test_AdapterMapsClaims(t *testing.T) {
	token, err := jwtService.GenerateSessionToken(userID, email)
	require.NoError(t, err)

	adapter := NewJWTServiceAdapter(jwtService)
	claims, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, email, claims.Email)
	assert.NotEmpty(t, claims.JTI)
}
