package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"callinsight/pkg/analytics"
	"callinsight/pkg/config"
	"callinsight/pkg/httpapi"
	"callinsight/pkg/messaging"
	"callinsight/pkg/metrics"
	"callinsight/pkg/version"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	cfg.SetupLogger(logger)

	logger.WithField("version", version.Version).Info("Starting conversation analytics service")

	metrics.EnableMetrics(cfg.HTTP.EnableMetrics)
	metrics.Init(logger)

	engineCfg, err := cfg.BuildEngineConfig(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build engine configuration")
	}

	// Configuration errors are fatal here; the engine refuses to start
	// with weights that do not sum to 1 or missing lexicons.
	engine, err := analytics.NewEngine(logger, engineCfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize analytics engine")
	}

	batch := analytics.NewBatchProcessor(logger, engine, cfg.Batch.Workers)
	logger.WithField("workers", batch.Workers()).Info("Batch processor ready")

	var publisher httpapi.ReportPublisher
	if cfg.Messaging.Enabled() {
		amqpPublisher := messaging.NewAMQPPublisher(logger, messaging.AMQPConfig{
			URL:       cfg.Messaging.AMQPURL,
			QueueName: cfg.Messaging.AMQPQueueName,
		})
		if err := amqpPublisher.Connect(); err != nil {
			logger.WithError(err).Warn("AMQP connection failed, report delivery disabled until reconnect")
		}
		defer amqpPublisher.Disconnect()
		publisher = amqpPublisher
	} else {
		logger.Info("AMQP_URL not set, report delivery disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.HTTP.Enabled {
		logger.Warn("HTTP server disabled, nothing to serve")
		<-ctx.Done()
		return
	}

	server := httpapi.NewServer(logger, cfg, engine, batch, publisher)
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Error("HTTP server exited with error")
		os.Exit(1)
	}

	logger.Info("Shutdown complete")
}
