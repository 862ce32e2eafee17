package httpinfra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"skylight.app/cli/internal/application/services"
	"skylight.app/cli/internal/core/domain"
	"skylight.app/cli/internal/core/ports"
	"skylight.app/cli/internal/infrastructure/auth"
)

// GatewayClient is the resilient authenticated client for the Skylight API
// gateway. Every request is held until auth state hydration, tagged with the
// profile identity, and sent with the current bearer token. A 401 on an
// ordinary endpoint triggers a single-flight token refresh and a transparent
// replay of the original request; 401s from the login and refresh endpoints
// pass through untouched. All other non-2xx responses go through the error
// classifier.
type GatewayClient struct {
	baseURL    *url.URL
	userAgent  string
	httpClient *http.Client

	identity   *auth.ClientIdentity
	state      ports.AuthStateStore
	gate       *services.HydrationGate
	refresher  *services.RefreshCoordinator
	classifier *services.ErrorClassifier
	clones     *CloneRegistry
	logger     ports.Logger
}

// NewGatewayClient wires the client and seeds its cookie jar with the
// identity cookie. No client-side timeout is imposed; callers control
// lifetime through context if they need to.
func NewGatewayClient(
	baseURL string,
	userAgent string,
	identity *auth.ClientIdentity,
	state ports.AuthStateStore,
	gate *services.HydrationGate,
	refresher *services.RefreshCoordinator,
	classifier *services.ErrorClassifier,
	logger ports.Logger,
) (*GatewayClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("gateway URL %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	jar.SetCookies(parsed, []*http.Cookie{identity.Cookie()})

	return &GatewayClient{
		baseURL:    parsed,
		userAgent:  userAgent,
		httpClient: &http.Client{Jar: jar},
		identity:   identity,
		state:      state,
		gate:       gate,
		refresher:  refresher,
		classifier: classifier,
		clones:     NewCloneRegistry(),
		logger:     logger,
	}, nil
}

// NewRequest builds a gateway request for path relative to the base URL.
// JSON bodies are passed as bytes so the transport can re-open them for
// replay.
func (c *GatewayClient) NewRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do sends a request through the full pipeline. On success it returns the
// response with its body open; on any failure it returns a typed error
// (NetworkError, APIError, or RefreshError) with the body already consumed.
func (c *GatewayClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.gate.Await(ctx); err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	req.Header.Set(domain.HeaderClientID, c.identity.ID())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if pair, ok := c.state.CurrentTokens(); ok && pair.AccessToken != "" {
		req.Header.Set(domain.HeaderAuthorization, "Bearer "+pair.AccessToken)
	}

	id := uuid.NewString()
	if err := c.clones.Register(id, req); err != nil {
		// Tolerated: a streaming body cannot be snapshotted. The request
		// will only be replayed if its method is safe without one.
		c.logger.Log(ports.LogLevelDebug, "request not clonable", map[string]interface{}{
			"method": req.Method,
			"path":   req.URL.Path,
		})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.clones.Abandon(id)
		return nil, &domain.NetworkError{Method: req.Method, URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && !isAuthEndpoint(req.URL.Path) {
		return c.recoverUnauthorized(ctx, id, req, resp)
	}

	c.clones.Abandon(id)
	return c.finish(req, resp)
}

// recoverUnauthorized handles a 401 on an ordinary endpoint: join the
// refresh window, then replay the snapshotted clone with the new token. The
// replayed response stands in for the original 401.
func (c *GatewayClient) recoverUnauthorized(ctx context.Context, id string, req *http.Request, resp *http.Response) (*http.Response, error) {
	originalBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	token, err := c.refresher.AwaitToken(ctx)
	if err != nil {
		c.clones.Abandon(id)
		return nil, err
	}

	replay, ok := c.clones.Consume(id)
	if !ok {
		replay, ok = reconstructSafe(req)
		if !ok {
			// No pristine copy and the method is not safe to resend
			// without one: surface the original 401 instead.
			c.logger.Log(ports.LogLevelWarn, "cannot replay request after refresh", map[string]interface{}{
				"method": req.Method,
				"path":   req.URL.Path,
			})
			env := domain.ParseErrorEnvelope(originalBody)
			return nil, &domain.APIError{
				Status:  http.StatusUnauthorized,
				Msg:     env.Msg,
				BizCode: env.BizCode,
				Body:    originalBody,
			}
		}
	}

	replay.Header.Set(domain.HeaderAuthorization, "Bearer "+token)
	replayed, err := c.httpClient.Do(replay)
	if err != nil {
		return nil, &domain.NetworkError{Method: replay.Method, URL: replay.URL.String(), Err: err}
	}
	return c.finish(replay, replayed)
}

// finish settles a response: 2xx passes through with the body open, anything
// else is drained and classified.
func (c *GatewayClient) finish(req *http.Request, resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return nil, c.classifier.Classify(req.Header, resp.StatusCode, body)
}

// isAuthEndpoint reports whether a 401 from path means the submitted
// credentials were bad, in which case refreshing cannot help.
func isAuthEndpoint(path string) bool {
	return strings.HasSuffix(path, domain.LoginPath) || strings.HasSuffix(path, domain.RefreshTokenPath)
}

// reconstructSafe rebuilds a replayable request from the original when no
// clone is available. Only safe for methods that carry no body.
func reconstructSafe(req *http.Request) (*http.Request, bool) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return nil, false
	}
	clone := req.Clone(req.Context())
	clone.Body = nil
	clone.GetBody = nil
	clone.ContentLength = 0
	return clone, true
}
