package domain

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestTokenPair_IsZero(t *testing.T) {
	assert.True(t, TokenPair{}.IsZero())
	assert.False(t, TokenPair{AccessToken: "a"}.IsZero())
	assert.False(t, TokenPair{RefreshToken: "r"}.IsZero())
}

func TestTokenPair_AccessTokenExpiry(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	pair := TokenPair{AccessToken: mintToken(t, jwt.MapClaims{
		"sub": "user-7",
		"exp": exp.Unix(),
	})}

	got, ok := pair.AccessTokenExpiry()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestTokenPair_AccessTokenExpiry_MissingClaim(t *testing.T) {
	pair := TokenPair{AccessToken: mintToken(t, jwt.MapClaims{"sub": "user-7"})}
	_, ok := pair.AccessTokenExpiry()
	assert.False(t, ok)
}

func TestTokenPair_AccessTokenExpiry_OpaqueToken(t *testing.T) {
	_, ok := TokenPair{AccessToken: "not-a-jwt"}.AccessTokenExpiry()
	assert.False(t, ok, "opaque tokens simply report no expiry")

	_, ok = TokenPair{}.AccessTokenExpiry()
	assert.False(t, ok)
}

func TestTokenPair_TokenSubject(t *testing.T) {
	pair := TokenPair{AccessToken: mintToken(t, jwt.MapClaims{"sub": "user-7"})}
	sub, ok := pair.TokenSubject()
	require.True(t, ok)
	assert.Equal(t, "user-7", sub)

	_, ok = TokenPair{AccessToken: mintToken(t, jwt.MapClaims{"exp": time.Now().Unix()})}.TokenSubject()
	assert.False(t, ok)
}
