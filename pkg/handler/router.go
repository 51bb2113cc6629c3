package handler

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/savaki/ga-webhook/pkg/assistant"
)

// ErrUnknownIntent is returned when no handler is registered for an intent
var ErrUnknownIntent = errors.New("no matching intent handler")

// Intent is an action name sent by the assistant platform
type Intent string

// Registered intents
const (
	IntentWelcome   Intent = "input.welcome"
	IntentRunMethod Intent = "runMethod_intent"
	IntentGoToView  Intent = "goToView_intent"
)

// HandlerFunc handles one intent and must call Tell exactly once
type HandlerFunc func(ctx context.Context, conv *assistant.Conversation)

// Router dispatches conversations to intent handlers. The table is fixed at
// construction and only read afterwards, so a Router is safe for concurrent use.
type Router struct {
	handlers map[Intent]HandlerFunc
	logger   zerolog.Logger
}

// NewRouter creates a router with the intent table for h
func NewRouter(h *IntentHandler, logger zerolog.Logger) *Router {
	return newRouter(map[Intent]HandlerFunc{
		IntentWelcome:   h.Welcome,
		IntentRunMethod: h.RunMethod,
		IntentGoToView:  h.GoToView,
	}, logger)
}

func newRouter(handlers map[Intent]HandlerFunc, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// Intents lists the registered intents in sorted order
func (r *Router) Intents() []Intent {
	intents := make([]Intent, 0, len(r.handlers))
	for intent := range r.handlers {
		intents = append(intents, intent)
	}
	sort.Slice(intents, func(i, j int) bool { return intents[i] < intents[j] })
	return intents
}

// Dispatch runs the handler registered for the conversation's intent
func (r *Router) Dispatch(ctx context.Context, conv *assistant.Conversation) error {
	intent := Intent(conv.Intent())
	fn, ok := r.handlers[intent]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIntent, intent)
	}

	r.logger.Debug().
		Str("intent", string(intent)).
		Str("session", conv.Request().Session).
		Msg("Dispatching intent")

	fn(ctx, conv)

	if !conv.Replied() {
		return fmt.Errorf("%w: %s", assistant.ErrNoReply, intent)
	}
	return nil
}
