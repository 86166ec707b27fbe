package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eprcore/registration-portal/internal/application/registration"
	"github.com/eprcore/registration-portal/internal/application/resubmission"
	"github.com/eprcore/registration-portal/internal/config"
	"github.com/eprcore/registration-portal/internal/infrastructure/backend"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/logging"
	"github.com/eprcore/registration-portal/internal/infrastructure/monitoring/prometheus"
	"github.com/eprcore/registration-portal/internal/infrastructure/session"
	httpapi "github.com/eprcore/registration-portal/internal/interfaces/http"
)

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (env-only when omitted)")
	return cmd
}

func serve(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	logger.Info("starting registration portal",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	redisClient, err := session.NewRedisClient(cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	store := session.NewStore(redisClient, cfg.Redis, logger)

	submissions, err := backend.NewSubmissionClient(cfg.SubmissionAPI, logger)
	if err != nil {
		return err
	}
	payments, err := backend.NewPaymentClient(cfg.PaymentAPI, logger)
	if err != nil {
		return err
	}

	metrics := prometheus.NewMetrics()
	periods := cfg.SubmissionPeriods()

	regService := registration.NewService(
		store, submissions, payments, payments, periods,
		metrics.Journey("registration"), logger,
	)
	resubService := resubmission.NewService(
		store, submissions, payments, periods,
		cfg.Features.ShowRegulatorDecision, logger,
	)

	handlers := httpapi.NewHandlers(regService, resubService, logger)
	router := httpapi.NewRouter(cfg.Server, handlers, metrics, logger)
	server := httpapi.NewServer(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logging.Int("port", cfg.Server.Port))
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", logging.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown did not complete cleanly", logging.Err(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
