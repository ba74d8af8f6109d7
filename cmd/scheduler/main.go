package main

import (
	"context"

	"vizit/internal/analytics"
	"vizit/internal/availability"
	bookingshandler "vizit/internal/bookings/handler"
	"vizit/internal/bookings/repository"
	"vizit/internal/bookings/service"
	"vizit/internal/bookings/validator"
	"vizit/pkg/app"
	"vizit/pkg/client"
	"vizit/pkg/config"
	"vizit/pkg/contracts"
	"vizit/pkg/kafka"
	kafkaconfig "vizit/pkg/kafka/config"
)

const ServiceName = "scheduler"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting visit scheduler service")

	producer := initEventProducer(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close event producer", "error", err)
			}
		}()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg, producer)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, producer *kafka.Producer) []contracts.Handler {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	claimRepo := repository.NewMongoSlotClaimRepository(cfg)

	if err := bookingRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}

	propertyClient := client.NewPropertyClient(cfg.PropertyServiceURL, cfg.PropertyServiceTimeout)

	var events service.EventPublisher
	if producer != nil {
		events = producer
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		claimRepo,
		bookingValidator,
		propertyClient,
		events,
		cfg,
	)
	availabilityService := availability.NewAvailabilityService(bookingRepo, cfg)
	analyticsService := analytics.NewAnalyticsService(analytics.NewMongoAnalyticsRepository(cfg), cfg)

	cfg.Log.Info("Scheduler services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		availability.NewAvailabilityHandler(availabilityService, cfg.Log),
		analytics.NewAnalyticsHandler(analyticsService, cfg.Log),
	}
}

func initEventProducer(cfg *config.Config) *kafka.Producer {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking event publishing disabled")
		return nil
	}

	kafkaCfg := kafkaconfig.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.EventsTopic, cfg.EventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event producer", "error", err)
	}

	cfg.Log.Info("Booking event publishing enabled",
		"topic", cfg.EventsTopic,
		"dlq_topic", cfg.EventsDLQ,
	)
	return producer
}
