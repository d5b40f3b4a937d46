package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"booking-service/internal/api"
	"booking-service/internal/config"
	"booking-service/internal/events"
	"booking-service/internal/jwt"
	"booking-service/internal/keylock"
	"booking-service/internal/repository"
	"booking-service/internal/s3"
	"booking-service/internal/service"
	"booking-service/internal/tracing"
	_ "booking-service/migrations"
)

const (
	serviceName     = "booking-service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
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

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations(cfg)
		return
	}

	db := connectDB(cfg)
	defer db.Close()

	eventPublisher, err := newPublisher(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to event broker %s: %v", cfg.EventBroker, err)
	}
	dispatcher := service.NewDispatcher(eventPublisher)
	slog.Info("Connected to event broker", "broker", cfg.EventBroker)

	presigner, err := s3.NewFilePresigner(context.Background(), cfg.S3Config)
	if err != nil {
		log.Fatalf("Failed to initialize S3 presigner: %v", err)
	}

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	locks := keylock.New()

	ledgerStore := repository.NewPostgresLedgerStore(db)
	userRepo := repository.NewPostgresUserRepository(db)
	deviceTokenRepo := repository.NewPostgresDeviceTokenRepository(db)
	coachRepo := repository.NewPostgresCoachRepository(db)
	courseRepo := repository.NewPostgresCourseRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	packageRepo := repository.NewPostgresCreditPackageRepository(db)

	authService := service.NewAuthService(userRepo, deviceTokenRepo, tokens)
	bookingService := service.NewBookingService(ledgerStore, locks, dispatcher, cfg.StoreTimeout)
	creditService := service.NewCreditService(ledgerStore, packageRepo, locks, dispatcher, cfg.StoreTimeout)
	coachService := service.NewCoachService(coachRepo, presigner)
	courseService := service.NewCourseService(courseRepo, skillRepo)

	handlers := api.NewHandlers(authService, bookingService, creditService, coachService, courseService)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())
	app.Use(api.RateLimiter(cfg.RateLimitMax, cfg.RateLimitExpiration))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": serviceName})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api.SetupRoutes(app, handlers,
		api.AuthMiddleware(tokens),
		api.CoachOnly(coachService),
		api.InternalAuthMiddleware(cfg.InternalSharedSecret),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Listening", "service", serviceName, "port", cfg.AppPort)
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			slog.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down", "service", serviceName)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		slog.Error("Error shutting down server", "error", err)
	}

	// Requests are closed; flush events committed before the signal.
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := dispatcher.Close(drainCtx); err != nil {
		slog.Error("Error closing event publisher", "error", err)
	}
}

func newPublisher(cfg *config.Config) (events.EventPublisher, error) {
	switch cfg.EventBroker {
	case "nats":
		return events.NewNatsPublisher(cfg.NatsURL)
	case "amqp":
		return events.NewAmqpPublisher(cfg.AmqpURL, cfg.AmqpExchange)
	default:
		return nil, fmt.Errorf("unknown EVENT_BROKER %q", cfg.EventBroker)
	}
}

func connectDB(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	slog.Info("Successfully connected to the database.")
	return db
}

func handleMigrations(cfg *config.Config) {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
