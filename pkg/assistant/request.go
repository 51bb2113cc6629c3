// Package assistant decodes fulfillment webhook requests from API.AI / Dialogflow
// and encodes the final spoken reply in the shape the platform expects.
package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedRequest is returned when the body is not a fulfillment request
	ErrMalformedRequest = errors.New("malformed fulfillment request")
	// ErrMissingIntent is returned when the request carries no action
	ErrMissingIntent = errors.New("fulfillment request has no intent")
)

// Protocol identifies the webhook payload version
type Protocol int

const (
	// ProtocolV1 is the API.AI v1 webhook format
	ProtocolV1 Protocol = iota + 1
	// ProtocolV2 is the Dialogflow v2 webhook format
	ProtocolV2
)

func (p Protocol) String() string {
	switch p {
	case ProtocolV1:
		return "v1"
	case ProtocolV2:
		return "v2"
	}
	return "unknown"
}

// Request is a decoded fulfillment request
type Request struct {
	Protocol   Protocol
	Intent     string
	IntentName string
	Session    string
	Query      string
	Parameters map[string]json.RawMessage
	// RawArguments are Actions on Google arguments carried in the original request
	RawArguments []RawArgument
}

// RawArgument is an Actions on Google argument
type RawArgument struct {
	Name      string          `json:"name"`
	TextValue string          `json:"textValue"`
	RawText   string          `json:"rawText"`
	Extension json.RawMessage `json:"extension,omitempty"`
}

type v1Request struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Result    *struct {
		ResolvedQuery string                     `json:"resolvedQuery"`
		Action        string                     `json:"action"`
		Parameters    map[string]json.RawMessage `json:"parameters"`
		Metadata      struct {
			IntentName string `json:"intentName"`
		} `json:"metadata"`
	} `json:"result"`
	OriginalRequest *originalRequest `json:"originalRequest"`
}

type v2Request struct {
	ResponseID  string `json:"responseId"`
	Session     string `json:"session"`
	QueryResult *struct {
		QueryText  string                     `json:"queryText"`
		Action     string                     `json:"action"`
		Parameters map[string]json.RawMessage `json:"parameters"`
		Intent     struct {
			DisplayName string `json:"displayName"`
		} `json:"intent"`
	} `json:"queryResult"`
	OriginalDetectIntentRequest *originalRequest `json:"originalDetectIntentRequest"`
}

type originalRequest struct {
	Source string `json:"source"`
	Data   *struct {
		Inputs []struct {
			Intent    string        `json:"intent"`
			Arguments []RawArgument `json:"arguments"`
		} `json:"inputs"`
	} `json:"data"`
	Payload *struct {
		Inputs []struct {
			Intent    string        `json:"intent"`
			Arguments []RawArgument `json:"arguments"`
		} `json:"inputs"`
	} `json:"payload"`
}

func (o *originalRequest) arguments() []RawArgument {
	if o == nil {
		return nil
	}
	var args []RawArgument
	if o.Data != nil {
		for _, in := range o.Data.Inputs {
			args = append(args, in.Arguments...)
		}
	}
	if o.Payload != nil {
		for _, in := range o.Payload.Inputs {
			args = append(args, in.Arguments...)
		}
	}
	return args
}

// Parse decodes a v1 or v2 fulfillment request body
func Parse(body []byte) (*Request, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, ErrMalformedRequest
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	if _, ok := probe["queryResult"]; ok {
		return parseV2(body)
	}
	return parseV1(body)
}

func parseV1(body []byte) (*Request, error) {
	var in v1Request
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if in.Result == nil {
		return nil, fmt.Errorf("%w: missing result", ErrMalformedRequest)
	}

	req := &Request{
		Protocol:     ProtocolV1,
		Intent:       strings.TrimSpace(in.Result.Action),
		IntentName:   in.Result.Metadata.IntentName,
		Session:      in.SessionID,
		Query:        in.Result.ResolvedQuery,
		Parameters:   in.Result.Parameters,
		RawArguments: in.OriginalRequest.arguments(),
	}
	if req.Intent == "" {
		return nil, ErrMissingIntent
	}
	return req, nil
}

func parseV2(body []byte) (*Request, error) {
	var in v2Request
	if err := json.Unmarshal(body, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if in.QueryResult == nil {
		return nil, fmt.Errorf("%w: missing queryResult", ErrMalformedRequest)
	}

	req := &Request{
		Protocol:     ProtocolV2,
		Intent:       strings.TrimSpace(in.QueryResult.Action),
		IntentName:   in.QueryResult.Intent.DisplayName,
		Session:      in.Session,
		Query:        in.QueryResult.QueryText,
		Parameters:   in.QueryResult.Parameters,
		RawArguments: in.OriginalDetectIntentRequest.arguments(),
	}
	if req.Intent == "" {
		return nil, ErrMissingIntent
	}
	return req, nil
}
