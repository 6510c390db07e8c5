package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	redisx "github.com/nicoreyes-dev/airgo/internal/redis"
	"github.com/nicoreyes-dev/airgo/internal/repository"
	redisrepo "github.com/nicoreyes-dev/airgo/internal/repository/redis"
)

// Repo is the storage surface the booking flow needs. Methods that change
// state run their own serializable transaction.
type Repo interface {
	Create(ctx context.Context, in domain.NewReservation, holdTTL time.Duration) (*domain.Reservation, error)
	ByCode(ctx context.Context, code string) (*domain.Reservation, error)
	ByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Detail(ctx context.Context, code string) (*domain.ReservationDetail, error)
	Confirm(ctx context.Context, code string) (*domain.Reservation, error)
	Pay(ctx context.Context, code, method string) (*domain.Reservation, *domain.Ticket, error)
	Cancel(ctx context.Context, code string, c domain.Cancellation) (*domain.Reservation, error)
	Complete(ctx context.Context, code string) (*domain.Reservation, error)
	ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Reservation, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error)
	TicketByBarcode(ctx context.Context, barcode string) (*domain.Ticket, error)
	TicketByReservation(ctx context.Context, reservationID int64) (*domain.Ticket, error)
	UseTicket(ctx context.Context, barcode string) (*domain.Ticket, error)
}

type Config struct {
	HoldTTL time.Duration
}

type Service struct {
	repo    Repo
	cache   *redisrepo.Cache
	pubsub  *redisx.FlightsPubSub
	limiter *redisrepo.SlidingWindowLimiter
	cfg     Config
}

func New(
	repo Repo,
	cache *redisrepo.Cache,
	pubsub *redisx.FlightsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if cfg.HoldTTL <= 0 {
		cfg.HoldTTL = 24 * time.Hour
	}

	return &Service{
		repo:    repo,
		cache:   cache,
		pubsub:  pubsub,
		limiter: limiter,
		cfg:     cfg,
	}
}

// Create books a seat for a passenger on a flight. The reservation starts
// pending and must be confirmed or paid before the hold TTL runs out.
//
// Returns:
//   - reservations.ErrRateLimited when rlKey exceeded its booking budget.
//   - reservations.ErrFlightNotBookable when the flight is closed or departed.
//   - reservations.ErrSeatTaken when another active reservation holds the seat.
//   - reservations.ErrDuplicateReservation when the passenger already holds
//     an active reservation on the flight.
func (s *Service) Create(ctx context.Context, in domain.NewReservation, rlKey string) (*domain.Reservation, error) {
	const op = "service.reservations.Create"

	if in.FlightID <= 0 || in.PassengerID <= 0 || in.SeatID <= 0 {
		return nil, fmt.Errorf("%s: flight, passenger and seat are required", op)
	}

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: retry in %s: %w", op, retry, ErrRateLimited)
		}
	}

	res, err := s.repo.Create(ctx, in, s.cfg.HoldTTL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.flightChanged(ctx, res.FlightID)

	return res, nil
}

// Confirm moves a pending reservation to confirmed.
func (s *Service) Confirm(ctx context.Context, code string) (*domain.Reservation, error) {
	const op = "service.reservations.Confirm"

	res, err := s.repo.Confirm(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.flightChanged(ctx, res.FlightID)

	return res, nil
}

// ProcessPayment moves a reservation to paid and returns the issued
// ticket. Paying again is an invalid transition; the ticket is issued
// exactly once.
func (s *Service) ProcessPayment(ctx context.Context, code, method string) (*domain.Reservation, *domain.Ticket, error) {
	const op = "service.reservations.ProcessPayment"

	if method == "" {
		method = "card"
	}

	res, ticket, err := s.repo.Pay(ctx, code, method)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.flightChanged(ctx, res.FlightID)

	return res, ticket, nil
}

// Cancel cancels a pending, confirmed or paid reservation and frees the
// seat for other passengers.
func (s *Service) Cancel(ctx context.Context, code string, c domain.Cancellation) (*domain.Reservation, error) {
	const op = "service.reservations.Cancel"

	if c.Reason == "" {
		c.Reason = "passenger_request"
	}

	res, err := s.repo.Cancel(ctx, code, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	s.flightChanged(ctx, res.FlightID)

	return res, nil
}

// Complete closes out a paid reservation after the flight has landed.
func (s *Service) Complete(ctx context.Context, code string) (*domain.Reservation, error) {
	const op = "service.reservations.Complete"

	res, err := s.repo.Complete(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return res, nil
}

func (s *Service) ByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	const op = "service.reservations.ByCode"

	res, err := s.repo.ByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return res, nil
}

func (s *Service) ByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	const op = "service.reservations.ByID"

	res, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return res, nil
}

func (s *Service) Detail(ctx context.Context, code string) (*domain.ReservationDetail, error) {
	const op = "service.reservations.Detail"

	detail, err := s.repo.Detail(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return detail, nil
}

func (s *Service) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Reservation, error) {
	const op = "service.reservations.ListByPassenger"

	out, err := s.repo.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return out, nil
}

func (s *Service) ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error) {
	const op = "service.reservations.ListByFlight"

	out, err := s.repo.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return out, nil
}

func (s *Service) TicketByBarcode(ctx context.Context, barcode string) (*domain.Ticket, error) {
	const op = "service.reservations.TicketByBarcode"

	t, err := s.repo.TicketByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return t, nil
}

// TicketForReservation returns the ticket issued for a reservation code.
func (s *Service) TicketForReservation(ctx context.Context, code string) (*domain.Ticket, error) {
	const op = "service.reservations.TicketForReservation"

	res, err := s.repo.ByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	t, err := s.repo.TicketByReservation(ctx, res.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return t, nil
}

// CheckIn marks the ticket as used at the gate.
func (s *Service) CheckIn(ctx context.Context, barcode string) (*domain.Ticket, error) {
	const op = "service.reservations.CheckIn"

	t, err := s.repo.UseTicket(ctx, barcode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}

	return t, nil
}

func (s *Service) flightChanged(ctx context.Context, flightID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlight(ctx, flightID)
	}

	if s.pubsub != nil {
		_ = s.pubsub.PublishFlightChanged(ctx, flightID)
	}
}

// translate maps storage errors onto the service's error surface.
func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrSeatNotFound):
		return ErrSeatNotFound
	case errors.Is(err, repository.ErrPassengerNotFound):
		return ErrPassengerNotFound
	case errors.Is(err, repository.ErrFlightNotBookable):
		return ErrFlightNotBookable
	case errors.Is(err, repository.ErrSeatTaken):
		return ErrSeatTaken
	case errors.Is(err, repository.ErrSeatUnavailable):
		return ErrSeatUnavailable
	case errors.Is(err, repository.ErrSeatNotOnAirplane):
		return ErrSeatNotOnAirplane
	case errors.Is(err, repository.ErrDuplicateReservation):
		return ErrDuplicateReservation
	case errors.Is(err, repository.ErrExpired):
		return ErrReservationExpired
	case errors.Is(err, repository.ErrInvalidState):
		return ErrInvalidTransition
	case errors.Is(err, repository.ErrNotFound):
		return ErrReservationNotFound
	default:
		return err
	}
}
