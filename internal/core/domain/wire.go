package domain

import "encoding/json"

// Header names used on every gateway request.
const (
	HeaderClientID      = "X-Client-Id"
	HeaderAuthorization = "Authorization"
	HeaderNoToast       = "X-No-Toast"
)

// IdentityCookieName is the cookie carrying the per-profile client identity.
const IdentityCookieName = "client_id"

// Gateway endpoints with special 401 semantics: a 401 from either means the
// submitted credentials themselves were bad, so a token refresh cannot help
// and the response is passed through to the caller untouched.
const (
	LoginPath        = "/login"
	RefreshTokenPath = "/refresh-token"
)

// RefreshRequest is the body of the refresh-token exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginRequest is the body of the password login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthEnvelope is the response envelope shared by the login and
// refresh-token endpoints.
type AuthEnvelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	Data    struct {
		Tokens TokenPair `json:"tokens"`
	} `json:"data"`
}

// ErrorEnvelope is the generic error body the gateway attaches to non-2xx
// responses. Both fields are optional; BizCode, when present, keys a
// localized message in the catalog as "errors.<biz_code>".
type ErrorEnvelope struct {
	Msg     string `json:"msg,omitempty"`
	BizCode string `json:"biz_code,omitempty"`
}

// ParseErrorEnvelope decodes a gateway error body. A body that is empty or
// not valid JSON yields an empty envelope rather than an error; the caller
// falls back to HTTP status text in that case.
func ParseErrorEnvelope(body []byte) ErrorEnvelope {
	var env ErrorEnvelope
	if len(body) == 0 {
		return env
	}
	_ = json.Unmarshal(body, &env)
	return env
}
