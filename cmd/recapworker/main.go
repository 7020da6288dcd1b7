package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	identifierrepo "museumtix/internal/identifier/repository"
	identifiersvc "museumtix/internal/identifier/service"
	recaprepo "museumtix/internal/recaps/repository"
	recapsvc "museumtix/internal/recaps/service"
	"museumtix/pkg/config"
	"museumtix/pkg/kafka"
	kafka_config "museumtix/pkg/kafka/config"
	kafkamiddleware "museumtix/pkg/kafka/middleware"
)

const ServiceName = "recap-worker"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting recap worker")

	sequenceRepo := identifierrepo.NewMongoSequenceRepository(cfg)
	identifierService := identifiersvc.NewIdentifierService(sequenceRepo, cfg)
	recapRepo := recaprepo.NewMongoRecapRepository(cfg)
	recapService := recapsvc.NewRecapService(recapRepo, identifierService, cfg)

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.TicketSaleTopic,
		cfg.RecapConsumerGroup,
		cfg.EventsDLQTopic,
		recapService.HandleTicketsSold,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.ConsumerLogging(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Recap worker stopped")
}
