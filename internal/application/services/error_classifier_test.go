package services

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skylight.app/cli/internal/core/domain"
	"skylight.app/cli/internal/core/ports"
)

// recordingNotifier captures every notification for assertions.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []string
	levels        []ports.NotifyLevel
}

func (n *recordingNotifier) Notify(message string, level ports.NotifyLevel) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, message)
	n.levels = append(n.levels, level)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notifications...)
}

// mapCatalog is a fixed-entry message catalog.
type mapCatalog map[string]string

func (c mapCatalog) Translate(key string) (string, bool) {
	msg, ok := c[key]
	return msg, ok
}

func TestErrorClassifier_Classify(t *testing.T) {
	catalog := mapCatalog{
		"errors.QUOTA_EXCEEDED": "You have reached your storage quota.",
	}

	tests := []struct {
		name         string
		headers      http.Header
		status       int
		body         string
		wantMsg      string
		wantBizCode  string
		wantNotified string
	}{
		{
			name:         "BizCodeWithCatalogEntry_NotifiesTranslatedText",
			status:       http.StatusForbidden,
			body:         `{"msg":"quota exceeded for tenant 42","biz_code":"QUOTA_EXCEEDED"}`,
			wantMsg:      "quota exceeded for tenant 42",
			wantBizCode:  "QUOTA_EXCEEDED",
			wantNotified: "You have reached your storage quota.",
		},
		{
			name:         "BizCodeWithoutCatalogEntry_FallsBackToRawMessage",
			status:       http.StatusConflict,
			body:         `{"msg":"name already in use","biz_code":"UNKNOWN_CODE"}`,
			wantMsg:      "name already in use",
			wantBizCode:  "UNKNOWN_CODE",
			wantNotified: "name already in use",
		},
		{
			name:         "NoEnvelope_FallsBackToStatusText",
			status:       http.StatusBadGateway,
			body:         "<html>upstream exploded</html>",
			wantNotified: "Bad Gateway",
		},
		{
			name:         "EmptyBody_FallsBackToStatusText",
			status:       http.StatusServiceUnavailable,
			wantNotified: "Service Unavailable",
		},
		{
			name:    "SuppressionHeader_NoNotification",
			headers: http.Header{domain.HeaderNoToast: []string{"true"}},
			status:  http.StatusForbidden,
			body:    `{"msg":"quota exceeded","biz_code":"QUOTA_EXCEEDED"}`,
			wantMsg: "quota exceeded", wantBizCode: "QUOTA_EXCEEDED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			classifier := NewErrorClassifier(catalog, notifier, nopLogger{})

			headers := tt.headers
			if headers == nil {
				headers = http.Header{}
			}

			apiErr := classifier.Classify(headers, tt.status, []byte(tt.body))
			require.NotNil(t, apiErr, "the caller always receives the classified error")
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Msg)
			assert.Equal(t, tt.wantBizCode, apiErr.BizCode)

			if tt.wantNotified == "" {
				assert.Empty(t, notifier.all(), "suppressed call must not notify")
			} else {
				require.Len(t, notifier.all(), 1)
				assert.Equal(t, tt.wantNotified, notifier.all()[0])
			}
		})
	}
}

func TestErrorClassifier_NotifyLevelTracksStatus(t *testing.T) {
	notifier := &recordingNotifier{}
	classifier := NewErrorClassifier(mapCatalog{}, notifier, nopLogger{})

	classifier.Classify(http.Header{}, http.StatusUnprocessableEntity, nil)
	classifier.Classify(http.Header{}, http.StatusInternalServerError, nil)

	require.Len(t, notifier.levels, 2)
	assert.Equal(t, ports.NotifyWarning, notifier.levels[0])
	assert.Equal(t, ports.NotifyError, notifier.levels[1])
}

func TestErrorClassifier_SuppressionRequiresExactValue(t *testing.T) {
	notifier := &recordingNotifier{}
	classifier := NewErrorClassifier(mapCatalog{}, notifier, nopLogger{})

	headers := http.Header{}
	headers.Set(domain.HeaderNoToast, "yes")
	classifier.Classify(headers, http.StatusForbidden, nil)

	assert.Len(t, notifier.all(), 1, "only the literal \"true\" opts out")
}
