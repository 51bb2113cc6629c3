package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWebhookRequest(t *testing.T) {
	const header = "X-Webhook-Token"
	const token = "s3cret"

	tests := []struct {
		name    string
		headers map[string]string
		token   string
		want    bool
	}{
		{
			name:    "valid token",
			headers: map[string]string{header: token},
			token:   token,
			want:    true,
		},
		{
			name:    "header name in different case",
			headers: map[string]string{"x-webhook-token": token},
			token:   token,
			want:    true,
		},
		{
			name:    "wrong token",
			headers: map[string]string{header: "guess"},
			token:   token,
			want:    false,
		},
		{
			name:    "token prefix",
			headers: map[string]string{header: "s3c"},
			token:   token,
			want:    false,
		},
		{
			name:    "missing header",
			headers: map[string]string{"Content-Type": "application/json"},
			token:   token,
			want:    false,
		},
		{
			name:    "nil headers",
			headers: nil,
			token:   token,
			want:    false,
		},
		{
			name:    "empty configured token never validates",
			headers: map[string]string{header: ""},
			token:   "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateWebhookRequest(tt.headers, header, tt.token)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderValue(t *testing.T) {
	headers := map[string]string{"Content-Type": "application/json"}

	v, ok := HeaderValue(headers, "content-type")
	assert.True(t, ok)
	assert.Equal(t, "application/json", v)

	_, ok = HeaderValue(headers, "Accept")
	assert.False(t, ok)
}
