package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/vprokhorov/airbook/config"
	"github.com/vprokhorov/airbook/internal/bootstrap"
	"github.com/vprokhorov/airbook/internal/cache"
	"github.com/vprokhorov/airbook/internal/kafka"
	"github.com/vprokhorov/airbook/internal/repository"
	"github.com/vprokhorov/airbook/internal/service/flights"
	"github.com/vprokhorov/airbook/internal/service/orders"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.AvailabilityTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	orderService := orders.NewOrderService(
		orderRepo,
		flightRepo,
		redisCache,
		producer,
		cfg.Kafka.OrdersTopic,
		time.Duration(cfg.Booking.SeatLockTTLSeconds)*time.Second,
		orders.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, orderService); err != nil {
		logrus.WithError(err).Fatal("server error")
	}
}
