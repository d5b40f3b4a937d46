package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"booking-service/internal/api"
	"booking-service/internal/config"
	"booking-service/internal/events"
	"booking-service/internal/notify"
	"booking-service/internal/repository"
	"booking-service/internal/tracing"
)

const serviceName = "notification-worker"

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	api.SetupGlobalHandler(serviceName, cfg.SlogLevel())

	shutdownTracer, err := tracing.InitTracerProvider(context.Background(), serviceName, cfg.OtelEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("Error shutting down tracer provider", "error", err)
		}
	}()

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	slog.Info("Notification worker connected to the database.")

	apnsClient, err := notify.NewAPNSClient(cfg)
	if err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	var pusher notify.Pusher
	if apnsClient != nil {
		pusher = apnsClient
	}
	worker := notify.NewWorker(repository.NewPostgresDeviceTokenRepository(db), pusher, cfg.APNSTopic)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.EventBroker {
	case "amqp":
		consumer, err := events.NewAmqpConsumer(cfg.AmqpURL, cfg.AmqpExchange, cfg.AmqpQueue)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer consumer.Close()

		slog.Info("Notification worker started, waiting for events...", "broker", "amqp")
		if err := consumer.Run(ctx, worker.Handle); err != nil {
			slog.Error("AMQP consumer stopped", "error", err)
		}
	default:
		subscriber, err := events.SubscribeNats(cfg.NatsURL, worker.Handle)
		if err != nil {
			log.Fatalf("Failed to subscribe to NATS: %v", err)
		}
		defer subscriber.Close()

		slog.Info("Notification worker started, waiting for events...", "broker", "nats")
		<-ctx.Done()
	}

	slog.Info("Shutting down notification worker...")
}
