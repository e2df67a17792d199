package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqpAdapter "github.com/bytebites/orders/internal/adapter/amqp"
	httpAdapter "github.com/bytebites/orders/internal/adapter/http"
	"github.com/bytebites/orders/internal/adapter/logger"
	"github.com/bytebites/orders/internal/adapter/postgres"
	"github.com/bytebites/orders/internal/adapter/rabbitmq"
	"github.com/bytebites/orders/internal/adapter/restaurant"
	"github.com/bytebites/orders/internal/app/order"
	"github.com/bytebites/orders/internal/config"
	"github.com/bytebites/orders/internal/interfaces"
	"github.com/rs/zerolog"
)

func main() {
	mode := flag.String("mode", "order-service", "Service mode: order-service, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count (notification-subscriber)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	switch *mode {
	case "order-service":
		runOrderService(ctx, cfg, lgr)
	case "notification-subscriber":
		runNotificationSubscriber(ctx, cfg, lgr, *prefetch)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runOrderService(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		lgr.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()

	lgr.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.Database).
		Msg("connected to PostgreSQL")

	// The message bus is optional: order processing must keep working
	// without it, so a failed connection degrades to the nop publisher.
	var publisher interfaces.EventPublisher = interfaces.NopPublisher{}
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		lgr.Warn().Err(err).Msg("RabbitMQ unavailable, events will not be published")
	} else {
		defer mqConn.Close()
		publisher = rabbitmq.NewPublisher(mqConn, cfg.Messaging, lgr)
		lgr.Info().Str("host", cfg.RabbitMQ.Host).Msg("connected to RabbitMQ")
	}

	orderRepo := postgres.NewOrderRepository(db)
	authority := restaurant.NewClient(cfg.RestaurantService, lgr)
	orderService := order.NewService(orderRepo, authority, publisher, lgr)
	orderHandler := httpAdapter.NewOrderHandler(orderService, lgr)

	mux := http.NewServeMux()
	orderHandler.Register(mux)

	var handler http.Handler = mux
	handler = httpAdapter.LoggingMiddleware(lgr)(handler)
	handler = httpAdapter.RequestIDMiddleware()(handler)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info().Int("port", cfg.Server.Port).Msg("order service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info().Msg("shutting down order service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error().Err(err).Msg("error during shutdown")
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error().Err(err).Msg("server error")
	}
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr zerolog.Logger, prefetch int) {
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		lgr.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer mqConn.Close()

	lgr.Info().Str("host", cfg.RabbitMQ.Host).Msg("connected to RabbitMQ")

	consumer := rabbitmq.NewConsumer(mqConn, cfg.Messaging, prefetch, lgr)
	handler := amqpAdapter.NewEventHandler(cfg.Messaging, lgr)

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lgr.Info().Msg("notification subscriber started")

	go func() {
		if err := consumer.ConsumeOrderEvents(consumeCtx, handler.HandleEvent); err != nil && consumeCtx.Err() == nil {
			lgr.Error().Err(err).Msg("error consuming events")
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info().Msg("shutting down notification subscriber")
	cancel()
}
