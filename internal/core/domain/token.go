package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair holds the credential pair issued by the gateway.
// The access token authorizes individual requests; the refresh token is
// exchanged for a new pair once the access token expires.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IsZero reports whether no credentials are present.
func (p TokenPair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// AccessTokenExpiry returns the expiry claim of the access token, if the
// token is a JWT carrying one. The signature is deliberately not verified:
// the value is informational (status display, proactive refresh hints) and
// the gateway remains the authority on validity.
func (p TokenPair) AccessTokenExpiry() (time.Time, bool) {
	if p.AccessToken == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(p.AccessToken, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenSubject returns the subject claim of the access token, when present.
func (p TokenPair) TokenSubject() (string, bool) {
	if p.AccessToken == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(p.AccessToken, claims); err != nil {
		return "", false
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
