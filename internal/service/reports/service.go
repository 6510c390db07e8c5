package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrInvalidRange   = errors.New("invalid report range")
)

type Repo interface {
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
	Income(ctx context.Context, from, to time.Time) (*domain.IncomeReport, error)
	Occupancy(ctx context.Context, flightID int64) (*domain.FlightOccupancy, error)
	PopularFlights(ctx context.Context, limit int) ([]domain.PopularFlight, error)
	FrequentPassengers(ctx context.Context, limit int) ([]domain.FrequentPassenger, error)
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	const op = "service.reports.Dashboard"

	stats, err := s.repo.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

// Income defaults to the last 30 days when no range is given.
func (s *Service) Income(ctx context.Context, from, to time.Time) (*domain.IncomeReport, error) {
	const op = "service.reports.Income"

	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidRange)
	}

	report, err := s.repo.Income(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return report, nil
}

func (s *Service) Occupancy(ctx context.Context, flightID int64) (*domain.FlightOccupancy, error) {
	const op = "service.reports.Occupancy"

	o, err := s.repo.Occupancy(ctx, flightID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrFlightNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (s *Service) PopularFlights(ctx context.Context, limit int) ([]domain.PopularFlight, error) {
	const op = "service.reports.PopularFlights"

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	out, err := s.repo.PopularFlights(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) FrequentPassengers(ctx context.Context, limit int) ([]domain.FrequentPassenger, error) {
	const op = "service.reports.FrequentPassengers"

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	out, err := s.repo.FrequentPassengers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}
