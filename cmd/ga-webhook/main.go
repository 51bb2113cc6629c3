package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/savaki/ga-webhook/pkg/app"
	appconfig "github.com/savaki/ga-webhook/pkg/config"
	"github.com/savaki/ga-webhook/pkg/logging"
)

const serviceName = "ga-webhook"

func main() {
	ctx := context.Background()
	logger := logging.New(os.Getenv("LOG_LEVEL"), serviceName)

	// Load configuration once per cold start
	cfg, err := appconfig.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.ValidateLambda(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid Lambda config")
	}
	logger = logging.New(cfg.LogLevel, serviceName)

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	// The record store lives as long as the execution environment; lambda.Start
	// never returns, so there is no point at which to close it.
	server, _, err := app.NewServer(ctx, cfg, awsCfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create server")
	}

	logger.Info().Str("environment", cfg.Environment).Msg("Starting webhook handler")
	lambda.Start(server.HandleAPIGateway)
}
