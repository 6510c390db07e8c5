package flights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	redisx "github.com/nicoreyes-dev/airgo/internal/redis"
	"github.com/nicoreyes-dev/airgo/internal/repository"
	postgresrepo "github.com/nicoreyes-dev/airgo/internal/repository/postgres"
	redisrepo "github.com/nicoreyes-dev/airgo/internal/repository/redis"
)

type Repo interface {
	Create(ctx context.Context, f *domain.Flight) (*domain.Flight, error)
	Get(ctx context.Context, id int64) (*domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
	SetStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error)
	Search(ctx context.Context, p postgresrepo.SearchParams) ([]domain.Flight, error)
	Availability(ctx context.Context, flightID int64) (*domain.FlightAvailability, error)
	AvailableSeats(ctx context.Context, flightID int64) ([]domain.Seat, error)
}

type Config struct {
	CacheTTL       time.Duration
	SearchCacheTTL time.Duration
}

type Service struct {
	repo   Repo
	cache  *redisrepo.Cache
	pubsub *redisx.FlightsPubSub
	cfg    Config
}

func New(repo Repo, cache *redisrepo.Cache, pubsub *redisx.FlightsPubSub, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Second
	}

	if cfg.SearchCacheTTL <= 0 {
		cfg.SearchCacheTTL = 30 * time.Second
	}

	return &Service{
		repo:   repo,
		cache:  cache,
		pubsub: pubsub,
		cfg:    cfg,
	}
}

// Create schedules a new flight.
func (s *Service) Create(ctx context.Context, f *domain.Flight) (*domain.Flight, error) {
	const op = "service.flights.Create"

	if f.Number == "" || f.Origin == "" || f.Destination == "" || f.AirplaneID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidFlight)
	}

	if f.Origin == f.Destination {
		return nil, fmt.Errorf("%s: origin equals destination: %w", op, ErrInvalidFlight)
	}

	if !f.Arrival.After(f.Departure) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSchedule)
	}

	if f.BasePriceCents < 0 {
		return nil, fmt.Errorf("%s: negative base price: %w", op, ErrInvalidFlight)
	}

	if f.Status == "" {
		f.Status = domain.FlightScheduled
	}

	created, err := s.repo.Create(ctx, f)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateNumber)
		case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidState):
			return nil, fmt.Errorf("%s: %w", op, ErrNoAirplane)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

// Get returns a flight by ID, served through the summary cache.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	const op = "service.flights.Get"

	f, err := cached(ctx, s.cache, redisx.KeyFlightSummary(id), s.cfg.CacheTTL,
		func(ctx context.Context) (*domain.Flight, error) {
			return s.repo.Get(ctx, id)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	const op = "service.flights.GetByNumber"

	f, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// Search lists flights matching route, date range and status filters.
// Results are cached briefly per filter combination; search entries are
// not invalidated on writes, the short TTL bounds their staleness.
func (s *Service) Search(ctx context.Context, p postgresrepo.SearchParams) ([]domain.Flight, error) {
	const op = "service.flights.Search"

	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 50
	}

	out, err := cached(ctx, s.cache, redisx.KeyFlightSearch(searchKey(p)), s.cfg.SearchCacheTTL,
		func(ctx context.Context) ([]domain.Flight, error) {
			return s.repo.Search(ctx, p)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// searchKey folds the filter combination into a short cache signature.
func searchKey(p postgresrepo.SearchParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%d|%d|%d|%d",
		strings.ToLower(p.Origin), strings.ToLower(p.Destination),
		p.From.Unix(), p.To.Unix(), p.Limit, p.Offset)
	for _, st := range p.Statuses {
		b.WriteByte('|')
		b.WriteString(string(st))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}

// SetStatus updates the operational status and drops the flight's cache.
func (s *Service) SetStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	const op = "service.flights.SetStatus"

	if !status.Valid() {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, status, ErrInvalidFlight)
	}

	f, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		_ = s.cache.InvalidateFlight(ctx, id)
	}

	if s.pubsub != nil {
		_ = s.pubsub.PublishFlightChanged(ctx, id)
	}

	return f, nil
}

// Availability reports seat counts for a flight through the cache.
// Pending holds count as held until they expire.
func (s *Service) Availability(ctx context.Context, flightID int64) (*domain.FlightAvailability, error) {
	const op = "service.flights.Availability"

	a, err := cached(ctx, s.cache, redisx.KeyFlightAvailability(flightID), s.cfg.CacheTTL,
		func(ctx context.Context) (*domain.FlightAvailability, error) {
			return s.repo.Availability(ctx, flightID)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// AvailableSeats lists the bookable seats for a flight through the cache.
func (s *Service) AvailableSeats(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	const op = "service.flights.AvailableSeats"

	seats, err := cached(ctx, s.cache, redisx.KeyFlightSeats(flightID), s.cfg.CacheTTL,
		func(ctx context.Context) ([]domain.Seat, error) {
			return s.repo.AvailableSeats(ctx, flightID)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seats, nil
}

// cached reads through the flight cache, or hits the loader directly when
// the service runs without one.
func cached[T any](
	ctx context.Context,
	c *redisrepo.Cache,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	if c == nil {
		return loader(ctx)
	}
	return redisrepo.GetOrSetJSON(ctx, c, key, ttl, loader)
}

// Invalidate drops all cached projections for a flight. Used by the
// pub/sub subscriber when another instance changes flight inventory.
func (s *Service) Invalidate(ctx context.Context, flightID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlight(ctx, flightID)
	}
}
