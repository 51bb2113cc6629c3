package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoReply is returned when a conversation ends without Tell being called
var ErrNoReply = errors.New("conversation has no reply")

// Conversation is a single request/reply exchange with the assistant platform
type Conversation struct {
	req     *Request
	logger  zerolog.Logger
	reply   string
	replied bool
}

// NewConversation wraps a decoded request
func NewConversation(req *Request, logger zerolog.Logger) *Conversation {
	return &Conversation{
		req:    req,
		logger: logger,
	}
}

// Request returns the decoded request
func (c *Conversation) Request() *Request {
	return c.req
}

// Intent returns the action the platform matched
func (c *Conversation) Intent() string {
	return c.req.Intent
}

// Argument returns the value of a named parameter. Parameters are checked
// before raw Actions on Google arguments. Strings are trimmed; blank and null
// values count as absent.
func (c *Conversation) Argument(name string) (string, bool) {
	if raw, ok := c.req.Parameters[name]; ok {
		if v, ok := renderValue(raw); ok {
			return v, true
		}
	}
	for _, arg := range c.req.RawArguments {
		if arg.Name != name {
			continue
		}
		if v := strings.TrimSpace(arg.TextValue); v != "" {
			return v, true
		}
		if v := strings.TrimSpace(arg.RawText); v != "" {
			return v, true
		}
	}
	return "", false
}

// Tell sets the final reply and ends the conversation. Only the first call counts.
func (c *Conversation) Tell(text string) {
	if c.replied {
		c.logger.Warn().
			Str("intent", c.req.Intent).
			Str("ignored", text).
			Msg("Reply already set, ignoring")
		return
	}
	c.reply = text
	c.replied = true
}

// Replied reports whether Tell has been called
func (c *Conversation) Replied() bool {
	return c.replied
}

// Reply returns the text passed to Tell
func (c *Conversation) Reply() string {
	return c.reply
}

func renderValue(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", false
		}
		return s, true
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", false
		}
		if buf.String() == "{}" || buf.String() == "[]" {
			return "", false
		}
		return buf.String(), true
	case 't', 'f':
		b, err := strconv.ParseBool(string(raw))
		if err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", false
		}
		return n.String(), true
	}
}

// v1 response
type v1Response struct {
	Speech      string        `json:"speech"`
	DisplayText string        `json:"displayText"`
	ContextOut  []interface{} `json:"contextOut"`
	Data        struct {
		Google googleData `json:"google"`
	} `json:"data"`
}

// v2 response
type v2Response struct {
	FulfillmentText string `json:"fulfillmentText"`
	Payload         struct {
		Google googleData `json:"google"`
	} `json:"payload"`
}

type googleData struct {
	ExpectUserResponse bool          `json:"expectUserResponse"`
	IsSsml             bool          `json:"isSsml"`
	NoInputPrompts     []interface{} `json:"noInputPrompts"`
}

// Response encodes the reply for the request's protocol and returns the body
// with the headers the platform expects.
func (c *Conversation) Response() ([]byte, map[string]string, error) {
	if !c.replied {
		return nil, nil, ErrNoReply
	}

	headers := map[string]string{"Content-Type": "application/json"}
	google := googleData{NoInputPrompts: []interface{}{}}

	var payload interface{}
	switch c.req.Protocol {
	case ProtocolV2:
		resp := v2Response{FulfillmentText: c.reply}
		resp.Payload.Google = google
		payload = resp
	default:
		resp := v1Response{
			Speech:      c.reply,
			DisplayText: c.reply,
			ContextOut:  []interface{}{},
		}
		resp.Data.Google = google
		payload = resp
		headers["Google-Assistant-API-Version"] = "v1"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal response: %w", err)
	}
	return body, headers, nil
}
