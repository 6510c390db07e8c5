package service

import (
	redisx "github.com/nicoreyes-dev/airgo/internal/redis"
	postgres "github.com/nicoreyes-dev/airgo/internal/repository/postgres"
	redis "github.com/nicoreyes-dev/airgo/internal/repository/redis"
	"github.com/nicoreyes-dev/airgo/internal/seatmap"
	"github.com/nicoreyes-dev/airgo/internal/service/fleet"
	"github.com/nicoreyes-dev/airgo/internal/service/flights"
	"github.com/nicoreyes-dev/airgo/internal/service/passengers"
	"github.com/nicoreyes-dev/airgo/internal/service/reports"
	"github.com/nicoreyes-dev/airgo/internal/service/reservations"
)

type Services struct {
	Fleet        *fleet.Service
	Flights      *flights.Service
	Passengers   *passengers.Service
	Reservations *reservations.Service
	Reports      *reports.Service
}

type Config struct {
	Flights      flights.Config
	Reservations reservations.Config
	Seating      seatmap.Policy
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redisx.FlightsPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Fleet:        fleet.New(store, cfg.Seating),
		Flights:      flights.New(store.Flights(), cache, pubsub, cfg.Flights),
		Passengers:   passengers.New(store.Passengers()),
		Reservations: reservations.New(store.Reservations(), cache, pubsub, limiter, cfg.Reservations),
		Reports:      reports.New(store.Reports()),
	}
}
