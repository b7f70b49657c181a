package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndParseToken(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	token, err := CreateToken("secret", "abc-123", 42, expires)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims.SessionID)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, expires.Unix(), claims.ExpiresAt.Unix())
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := CreateToken("secret", "abc", 1, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := CreateToken("secret", "abc", 1, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractToken(req)
	assert.ErrorIs(t, err, ErrMissingToken)

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	got, err := ExtractToken(req)
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", got)

	req.Header.Set("Authorization", "Bearer from-header")
	got, err = ExtractToken(req)
	require.NoError(t, err)
	assert.Equal(t, "from-header", got)

	req.Header.Set("Authorization", "Token nope")
	_, err = ExtractToken(req)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
