package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/savaki/ga-webhook/pkg/assistant"
	"github.com/savaki/ga-webhook/pkg/handler"
)

// Routes
const (
	TestPath    = "/test"
	WebhookPath = "/ga-webhook"
)

// TestReply is the body served on TestPath
const TestReply = "Hello World!"

// Dispatcher routes a conversation to its intent handler
type Dispatcher interface {
	Dispatch(ctx context.Context, conv *assistant.Conversation) error
}

// Request is a transport-neutral HTTP request
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// Response is a transport-neutral HTTP response
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// Options configures a Server
type Options struct {
	// AuthHeader and AuthToken enable shared-secret checks when AuthToken is set
	AuthHeader string
	AuthToken  string
	// LogRequests logs raw request bodies at debug level
	LogRequests bool
}

// Server serves the test endpoint and the fulfillment webhook. It is built
// once at startup and shared by every request.
type Server struct {
	router Dispatcher
	opts   Options
	logger zerolog.Logger
}

// NewServer creates a new webhook server
func NewServer(router Dispatcher, opts Options, logger zerolog.Logger) *Server {
	return &Server{
		router: router,
		opts:   opts,
		logger: logger,
	}
}

// Handle serves a single request
func (s *Server) Handle(ctx context.Context, req Request) Response {
	path := strings.TrimSuffix(req.Path, "/")

	switch {
	case req.Method == http.MethodGet && path == TestPath:
		return textResponse(http.StatusOK, TestReply)
	case req.Method == http.MethodPost && path == WebhookPath:
		return s.handleWebhook(ctx, req)
	case path == TestPath || path == WebhookPath:
		return errorResponse(http.StatusMethodNotAllowed, "method not allowed")
	}

	return errorResponse(http.StatusNotFound, "not found")
}

func (s *Server) handleWebhook(ctx context.Context, req Request) Response {
	if s.opts.AuthToken != "" && !handler.ValidateWebhookRequest(req.Headers, s.opts.AuthHeader, s.opts.AuthToken) {
		s.logger.Warn().Msg("Invalid webhook token")
		return errorResponse(http.StatusUnauthorized, "unauthorized")
	}

	if s.opts.LogRequests {
		s.logger.Debug().RawJSON("body", jsonOrString(req.Body)).Msg("Received fulfillment request")
	}

	parsed, err := assistant.Parse(req.Body)
	if err != nil {
		s.logger.Info().Err(err).Msg("Rejected fulfillment request")
		if errors.Is(err, assistant.ErrMissingIntent) {
			return errorResponse(http.StatusBadRequest, "missing intent")
		}
		return errorResponse(http.StatusBadRequest, "invalid request body")
	}

	logger := s.logger.With().
		Str("intent", parsed.Intent).
		Str("session", parsed.Session).
		Str("protocol", parsed.Protocol.String()).
		Logger()

	conv := assistant.NewConversation(parsed, logger)
	if err := s.router.Dispatch(ctx, conv); err != nil {
		if errors.Is(err, handler.ErrUnknownIntent) {
			logger.Info().Msg("No handler for intent")
			return errorResponse(http.StatusBadRequest, "no matching intent handler for: "+parsed.Intent)
		}
		logger.Error().Err(err).Msg("Failed to handle intent")
		return errorResponse(http.StatusInternalServerError, "failed to handle intent")
	}

	body, headers, err := conv.Response()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build response")
		return errorResponse(http.StatusInternalServerError, "failed to build response")
	}

	logger.Info().Str("reply", conv.Reply()).Msg("Handled intent")
	return Response{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       body,
	}
}

// textResponse returns a plain text response
func textResponse(status int, text string) Response {
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       []byte(text),
	}
}

// errorResponse returns a JSON error response
func errorResponse(status int, message string) Response {
	data, _ := json.Marshal(map[string]string{"error": message})
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       data,
	}
}

// jsonOrString keeps valid JSON as-is and quotes anything else for logging
func jsonOrString(body []byte) []byte {
	if json.Valid(body) {
		return body
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
