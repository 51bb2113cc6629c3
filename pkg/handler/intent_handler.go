package handler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/savaki/ga-webhook/pkg/assistant"
	"github.com/savaki/ga-webhook/pkg/models"
)

// Replies sent back to the assistant
const (
	WelcomeReply = "Welcome to the Sample Action that controls your app"
	ErrorReply   = "There was an error with your request."
)

// Argument names the platform extracts for our intents
const (
	ArgMethodID = "method_ID"
	ArgView     = "view"
)

// ViewStore inserts navigation records into the application's data layer
type ViewStore interface {
	InsertView(ctx context.Context, rec *models.NavRecord) error
}

// MethodCaller triggers a named remote method with a single argument
type MethodCaller interface {
	Call(ctx context.Context, method, arg string) (string, error)
}

// IntentHandler holds the per-intent handlers and their collaborators
type IntentHandler struct {
	views         ViewStore
	methods       MethodCaller
	runMethodName string
	navTTL        time.Duration
	logger        zerolog.Logger
}

// NewIntentHandler creates a new intent handler
func NewIntentHandler(views ViewStore, methods MethodCaller, runMethodName string, navTTL time.Duration, logger zerolog.Logger) *IntentHandler {
	return &IntentHandler{
		views:         views,
		methods:       methods,
		runMethodName: runMethodName,
		navTTL:        navTTL,
		logger:        logger,
	}
}

// Welcome greets the user. Arguments are ignored.
func (h *IntentHandler) Welcome(_ context.Context, conv *assistant.Conversation) {
	conv.Tell(WelcomeReply)
}

// RunMethod triggers the configured remote method with the method_ID argument
func (h *IntentHandler) RunMethod(ctx context.Context, conv *assistant.Conversation) {
	id, ok := conv.Argument(ArgMethodID)
	if !ok {
		h.logger.Info().
			Str("intent", conv.Intent()).
			Str("argument", ArgMethodID).
			Msg("Missing argument")
		conv.Tell(ErrorReply)
		return
	}

	// The reply does not depend on the outcome of the call.
	executionArn, err := h.methods.Call(ctx, h.runMethodName, id)
	if err != nil {
		h.logger.Error().Err(err).
			Str("method", h.runMethodName).
			Str("method_id", id).
			Msg("Failed to call remote method")
	} else {
		h.logger.Info().
			Str("method", h.runMethodName).
			Str("method_id", id).
			Str("execution_arn", executionArn).
			Msg("Remote method started")
	}

	conv.Tell("Ok method " + id + " is now running!")
}

// GoToView records the requested view so the app navigates to it
func (h *IntentHandler) GoToView(ctx context.Context, conv *assistant.Conversation) {
	view, ok := conv.Argument(ArgView)
	if !ok {
		h.logger.Info().
			Str("intent", conv.Intent()).
			Str("argument", ArgView).
			Msg("Missing argument")
		conv.Tell(ErrorReply)
		return
	}

	rec := models.NewNavRecord(view, conv.Request().Session)
	rec.ExpireAfter(h.navTTL)
	if err := h.views.InsertView(ctx, rec); err != nil {
		h.logger.Error().Err(err).
			Str("view", view).
			Str("record_id", rec.ID).
			Msg("Failed to insert view")
	}

	conv.Tell("Ok you can now see " + view + " on your device")
}
