package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skylight.app/cli/internal/core/domain"
)

func TestHTTPTokenExchanger_Exchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, domain.RefreshTokenPath, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body domain.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "refresh-1", body.RefreshToken)

		fmt.Fprint(w, `{"success":true,"data":{"tokens":{"access_token":"access-2","refresh_token":"refresh-2"}}}`)
	}))
	defer server.Close()

	exchanger := NewHTTPTokenExchanger(server.URL, "sky-test")
	pair, err := exchanger.Exchange(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", pair.AccessToken)
	assert.Equal(t, "refresh-2", pair.RefreshToken)
}

func TestHTTPTokenExchanger_RejectedRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"msg":"invalid refresh token"}`)
	}))
	defer server.Close()

	exchanger := NewHTTPTokenExchanger(server.URL, "sky-test")
	_, err := exchanger.Exchange(context.Background(), "refresh-1")
	require.Error(t, err)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid refresh token", apiErr.Msg)
}

func TestHTTPTokenExchanger_Unauthorized401(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"success":false,"msg":"token revoked"}`)
	}))
	defer server.Close()

	exchanger := NewHTTPTokenExchanger(server.URL, "sky-test")
	_, err := exchanger.Exchange(context.Background(), "refresh-1")

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token revoked", apiErr.Msg)
}

func TestHTTPTokenExchanger_SuccessWithoutTokensIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{}}`)
	}))
	defer server.Close()

	exchanger := NewHTTPTokenExchanger(server.URL, "sky-test")
	_, err := exchanger.Exchange(context.Background(), "refresh-1")
	assert.ErrorContains(t, err, "without tokens")
}

func TestHTTPTokenExchanger_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, domain.LoginPath, r.URL.Path)

		var body domain.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "kai@example.com", body.Email)
		require.Equal(t, "hunter2", body.Password)

		fmt.Fprint(w, `{"success":true,"data":{"tokens":{"access_token":"access-1","refresh_token":"refresh-1"}}}`)
	}))
	defer server.Close()

	exchanger := NewHTTPTokenExchanger(server.URL, "sky-test")
	pair, err := exchanger.Login(context.Background(), "kai@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "access-1", pair.AccessToken)
}

func TestHTTPTokenExchanger_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NewServeMux())
	serverURL := server.URL
	server.Close()

	exchanger := NewHTTPTokenExchanger(serverURL, "sky-test")
	_, err := exchanger.Exchange(context.Background(), "refresh-1")

	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
