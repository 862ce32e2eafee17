package domain

import (
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "MessageAndBizCode",
			err:  &APIError{Status: 403, Msg: "quota exceeded", BizCode: "QUOTA_EXCEEDED"},
			want: "api error 403 (QUOTA_EXCEEDED): quota exceeded",
		},
		{
			name: "MessageOnly",
			err:  &APIError{Status: 409, Msg: "name already in use"},
			want: "api error 409: name already in use",
		},
		{
			name: "NoMessageFallsBackToStatusText",
			err:  &APIError{Status: 502},
			want: "api error 502: Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAPIError_Unauthorized(t *testing.T) {
	assert.True(t, (&APIError{Status: http.StatusUnauthorized}).Unauthorized())
	assert.False(t, (&APIError{Status: http.StatusForbidden}).Unauthorized())
}

func TestRefreshError_MatchesSessionExpired(t *testing.T) {
	cause := &APIError{Status: 401, Msg: "invalid refresh token"}
	err := error(&RefreshError{Cause: cause})

	assert.ErrorIs(t, err, ErrSessionExpired, "every refresh failure reads as an expired session")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr, "the concrete cause stays reachable")
	assert.Equal(t, 401, apiErr.Status)
}

func TestRefreshError_NoRefreshToken(t *testing.T) {
	err := error(&RefreshError{Cause: ErrNoRefreshToken})
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	err := error(&NetworkError{Method: "GET", URL: "https://api.example.com/x", Err: cause})

	var opErr *net.OpError
	assert.ErrorAs(t, err, &opErr)
	assert.Contains(t, err.Error(), "GET https://api.example.com/x")
}
