package app

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/rs/zerolog"
	"github.com/savaki/ga-webhook/pkg/config"
	"github.com/savaki/ga-webhook/pkg/dynamodb"
	"github.com/savaki/ga-webhook/pkg/handler"
	"github.com/savaki/ga-webhook/pkg/postgres"
	"github.com/savaki/ga-webhook/pkg/stepfunctions"
	"github.com/savaki/ga-webhook/pkg/webhook"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewServer wires the record store, method caller, intent router and webhook
// server from configuration. The returned closer releases the record store.
func NewServer(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger zerolog.Logger) (*webhook.Server, io.Closer, error) {
	if cfg.MethodStateMachineArn == "" {
		return nil, nil, fmt.Errorf("METHOD_STATE_MACHINE_ARN is required")
	}

	views, closer, err := NewViewStore(ctx, cfg, awsCfg, logger)
	if err != nil {
		return nil, nil, err
	}
	methods := stepfunctions.NewClient(awsCfg, cfg.MethodStateMachineArn)

	return Build(cfg, views, methods, logger), closer, nil
}

// Build assembles the server from already constructed collaborators
func Build(cfg *config.Config, views handler.ViewStore, methods handler.MethodCaller, logger zerolog.Logger) *webhook.Server {
	intents := handler.NewIntentHandler(views, methods, cfg.RunMethodName, cfg.GetNavDataTTL(), logger)
	router := handler.NewRouter(intents, logger)

	logger.Info().
		Interface("intents", router.Intents()).
		Str("store", cfg.StoreBackend).
		Bool("auth", cfg.AuthEnabled()).
		Msg("Registered intent handlers")

	return webhook.NewServer(router, webhook.Options{
		AuthHeader:  cfg.WebhookAuthHeader,
		AuthToken:   cfg.WebhookAuthToken,
		LogRequests: cfg.LogRequests,
	}, logger)
}

// NewViewStore creates the record store selected by STORE_BACKEND
func NewViewStore(ctx context.Context, cfg *config.Config, awsCfg aws.Config, logger zerolog.Logger) (handler.ViewStore, io.Closer, error) {
	switch cfg.StoreBackend {
	case config.StoreDynamoDB:
		client := dynamodb.NewClientWithConfig(awsCfg)
		return dynamodb.NewViewRepository(client, cfg.NavDataTable, logger), nopCloser{}, nil
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect record store: %w", err)
		}
		repo := postgres.NewViewRepository(db, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
