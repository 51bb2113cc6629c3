package handler

import (
	"crypto/hmac"
	"strings"
)

// ValidateWebhookRequest checks the shared-secret header configured on the
// assistant platform's fulfillment settings. Header names match case-insensitively.
func ValidateWebhookRequest(headers map[string]string, headerName, token string) bool {
	if token == "" {
		return false
	}

	got, ok := HeaderValue(headers, headerName)
	if !ok {
		return false
	}

	// constant-time comparison
	return hmac.Equal([]byte(got), []byte(token))
}

// HeaderValue looks up a header ignoring case
func HeaderValue(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
