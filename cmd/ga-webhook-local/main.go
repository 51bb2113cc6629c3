package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/labstack/echo/v4"
	"github.com/savaki/ga-webhook/pkg/app"
	appconfig "github.com/savaki/ga-webhook/pkg/config"
	"github.com/savaki/ga-webhook/pkg/logging"
	"golang.org/x/sync/errgroup"
)

const serviceName = "ga-webhook-local"

func main() {
	logger := logging.New(os.Getenv("LOG_LEVEL"), serviceName)
	mainCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := appconfig.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	logger = logging.New(cfg.LogLevel, serviceName)

	awsCfg, err := config.LoadDefaultConfig(mainCtx, config.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	server, closer, err := app.NewServer(mainCtx, cfg, awsCfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create server")
	}
	defer closer.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	server.Register(e)

	group, groupCtx := errgroup.WithContext(mainCtx)
	addr := ":" + strconv.Itoa(cfg.Port)

	group.Go(func() error {
		logger.Info().Str("addr", addr).Msg("Starting web server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info().Msg("Shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Server stopped")
}
