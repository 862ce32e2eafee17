package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"skylight.app/cli/internal/core/domain"
	"skylight.app/cli/internal/core/ports"
)

// HTTPTokenExchanger performs the auth exchanges against the gateway: the
// refresh-token exchange used by the refresh coordinator and the password
// login used by the CLI. Both endpoints share the same response envelope.
type HTTPTokenExchanger struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewHTTPTokenExchanger creates an exchanger with its own plain HTTP client.
// It deliberately does not go through the gateway client: a 401 from these
// endpoints must never trigger a refresh. No deadline is imposed on the
// exchange itself; a stalled refresh holds its waiters.
func NewHTTPTokenExchanger(baseURL, userAgent string) *HTTPTokenExchanger {
	return &HTTPTokenExchanger{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{},
	}
}

// Exchange trades a refresh token for a new token pair.
func (e *HTTPTokenExchanger) Exchange(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	return e.post(ctx, domain.RefreshTokenPath, domain.RefreshRequest{RefreshToken: refreshToken})
}

// Login trades credentials for a token pair.
func (e *HTTPTokenExchanger) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	return e.post(ctx, domain.LoginPath, domain.LoginRequest{Email: email, Password: password})
}

func (e *HTTPTokenExchanger) post(ctx context.Context, path string, payload interface{}) (domain.TokenPair, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return domain.TokenPair{}, &domain.NetworkError{Method: http.MethodPost, URL: e.baseURL + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope domain.AuthEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if !envelope.Success || resp.StatusCode != http.StatusOK {
		msg := envelope.Msg
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return domain.TokenPair{}, &domain.APIError{Status: resp.StatusCode, Msg: msg, Body: raw}
	}

	tokens := envelope.Data.Tokens
	if tokens.AccessToken == "" {
		return domain.TokenPair{}, fmt.Errorf("gateway returned success without tokens")
	}
	return tokens, nil
}

var _ ports.TokenExchanger = (*HTTPTokenExchanger)(nil)
