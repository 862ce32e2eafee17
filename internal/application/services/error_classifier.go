package services

import (
	"net/http"

	"skylight.app/cli/internal/core/domain"
	"skylight.app/cli/internal/core/ports"
)

// ErrorClassifier turns non-2xx gateway responses into APIError values and,
// unless the request opted out, forwards a user-facing message to the
// notifier. It is a side-effecting observer: the caller always receives the
// classified error for programmatic handling, whether or not a notification
// was produced.
type ErrorClassifier struct {
	catalog  ports.MessageCatalog
	notifier ports.Notifier
	logger   ports.Logger
}

// NewErrorClassifier wires the classifier to its catalog and notifier.
func NewErrorClassifier(catalog ports.MessageCatalog, notifier ports.Notifier, logger ports.Logger) *ErrorClassifier {
	return &ErrorClassifier{catalog: catalog, notifier: notifier, logger: logger}
}

// Classify builds the APIError for a non-2xx response and emits a
// notification unless reqHeaders carries X-No-Toast: "true". The message
// shown to the user is resolved in order: catalog entry for
// "errors.<biz_code>", the raw envelope message, then HTTP status text.
func (c *ErrorClassifier) Classify(reqHeaders http.Header, status int, body []byte) *domain.APIError {
	env := domain.ParseErrorEnvelope(body)
	apiErr := &domain.APIError{
		Status:  status,
		Msg:     env.Msg,
		BizCode: env.BizCode,
		Body:    body,
	}

	if suppressed(reqHeaders) {
		c.logger.Log(ports.LogLevelDebug, "notification suppressed by request", map[string]interface{}{
			"status":   status,
			"biz_code": env.BizCode,
		})
		return apiErr
	}

	c.notifier.Notify(c.userMessage(apiErr), levelFor(status))
	return apiErr
}

// userMessage resolves the text shown to the user for an API error.
func (c *ErrorClassifier) userMessage(apiErr *domain.APIError) string {
	if apiErr.BizCode != "" {
		if msg, ok := c.catalog.Translate("errors." + apiErr.BizCode); ok {
			return msg
		}
	}
	if apiErr.Msg != "" {
		return apiErr.Msg
	}
	return http.StatusText(apiErr.Status)
}

func suppressed(h http.Header) bool {
	return h.Get(domain.HeaderNoToast) == "true"
}

func levelFor(status int) ports.NotifyLevel {
	if status >= http.StatusInternalServerError {
		return ports.NotifyError
	}
	return ports.NotifyWarning
}
