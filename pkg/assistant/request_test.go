package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const v1RunMethodBody = `{
  "id": "7a1c0d2e",
  "sessionId": "1515599183624",
  "result": {
    "source": "agent",
    "resolvedQuery": "run method 42",
    "action": "runMethod_intent",
    "parameters": {"method_ID": "42"},
    "metadata": {"intentName": "Run Method"}
  },
  "originalRequest": {
    "source": "google",
    "data": {
      "inputs": [{
        "intent": "actions.intent.TEXT",
        "arguments": [{"name": "text", "textValue": "run method 42", "rawText": "run method 42"}]
      }]
    }
  }
}`

const v2GoToViewBody = `{
  "responseId": "b3d1",
  "session": "projects/demo/agent/sessions/abc",
  "queryResult": {
    "queryText": "show me the dashboard",
    "action": "goToView_intent",
    "parameters": {"view": "dashboard"},
    "intent": {"displayName": "Go To View"}
  },
  "originalDetectIntentRequest": {
    "source": "google",
    "payload": {
      "inputs": [{"arguments": [{"name": "device", "textValue": "phone"}]}]
    }
  }
}`

func TestParseV1(t *testing.T) {
	req, err := Parse([]byte(v1RunMethodBody))
	require.NoError(t, err)

	assert.Equal(t, ProtocolV1, req.Protocol)
	assert.Equal(t, "runMethod_intent", req.Intent)
	assert.Equal(t, "Run Method", req.IntentName)
	assert.Equal(t, "1515599183624", req.Session)
	assert.Equal(t, "run method 42", req.Query)
	assert.Contains(t, req.Parameters, "method_ID")
	require.Len(t, req.RawArguments, 1)
	assert.Equal(t, "text", req.RawArguments[0].Name)
}

func TestParseV2(t *testing.T) {
	req, err := Parse([]byte(v2GoToViewBody))
	require.NoError(t, err)

	assert.Equal(t, ProtocolV2, req.Protocol)
	assert.Equal(t, "goToView_intent", req.Intent)
	assert.Equal(t, "Go To View", req.IntentName)
	assert.Equal(t, "projects/demo/agent/sessions/abc", req.Session)
	require.Len(t, req.RawArguments, 1)
	assert.Equal(t, "phone", req.RawArguments[0].TextValue)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "empty body", body: "", wantErr: ErrMalformedRequest},
		{name: "not json", body: "hello", wantErr: ErrMalformedRequest},
		{name: "json array", body: `[{"result":{}}]`, wantErr: ErrMalformedRequest},
		{name: "truncated", body: `{"result": {"action": "input.welcome"`, wantErr: ErrMalformedRequest},
		{name: "no result", body: `{"id": "1"}`, wantErr: ErrMalformedRequest},
		{name: "v1 no action", body: `{"result": {"parameters": {}}}`, wantErr: ErrMissingIntent},
		{name: "v1 blank action", body: `{"result": {"action": "  "}}`, wantErr: ErrMissingIntent},
		{name: "v2 null queryResult", body: `{"queryResult": null}`, wantErr: ErrMalformedRequest},
		{name: "v2 no action", body: `{"queryResult": {"queryText": "hi"}}`, wantErr: ErrMissingIntent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProtocolString(t *testing.T) {
	assert.Equal(t, "v1", ProtocolV1.String())
	assert.Equal(t, "v2", ProtocolV2.String())
	assert.Equal(t, "unknown", Protocol(0).String())
}
