package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
	postgresrepo "github.com/nicoreyes-dev/airgo/internal/repository/postgres"
	"github.com/nicoreyes-dev/airgo/internal/seatmap"
	"github.com/nicoreyes-dev/airgo/internal/uow"
)

// Service manages airplanes and their generated seat maps. Creating an
// airplane and generating its seats is one transaction, so a plane is
// never visible without a complete cabin.
type Service struct {
	store  *postgresrepo.Store
	uow    *uow.UoW
	policy seatmap.Policy
}

func New(store *postgresrepo.Store, policy seatmap.Policy) *Service {
	if len(policy.Bands) == 0 {
		policy = seatmap.DefaultPolicy()
	}

	return &Service{
		store:  store,
		uow:    uow.NewUoW(store),
		policy: policy,
	}
}

// CreateAirplane registers an airplane and generates its full seat map.
func (s *Service) CreateAirplane(ctx context.Context, model string, rows, columns int) (*domain.Airplane, error) {
	const op = "service.fleet.CreateAirplane"

	if model == "" {
		return nil, fmt.Errorf("%s: model is required: %w", op, ErrInvalidLayout)
	}

	if err := seatmap.Validate(rows, columns); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(ErrInvalidLayout, err))
	}

	plane := &domain.Airplane{
		Model:    model,
		Capacity: rows * columns,
		Rows:     rows,
		Columns:  columns,
		Active:   true,
	}

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		id, err := s.store.Fleet().With(tx).CreateAirplane(ctx, plane)
		if err != nil {
			return err
		}

		plane.ID = id

		seats, err := seatmap.Generate(id, rows, columns, s.policy)
		if err != nil {
			return err
		}

		return s.store.Fleet().With(tx).BatchInsertSeats(ctx, seats)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plane, nil
}

// UpdateLayout resizes the cabin. New positions get seats, seats outside
// the new layout are removed, existing seats keep their identity.
func (s *Service) UpdateLayout(ctx context.Context, id int64, rows, columns int) (*domain.Airplane, error) {
	const op = "service.fleet.UpdateLayout"

	if err := seatmap.Validate(rows, columns); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(ErrInvalidLayout, err))
	}

	var plane *domain.Airplane

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		fleet := s.store.Fleet().With(tx)

		p, err := fleet.GetAirplane(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAirplaneNotFound
			}
			return err
		}

		if err := fleet.UpdateLayout(ctx, id, rows, columns, rows*columns); err != nil {
			return err
		}

		seats, err := seatmap.Generate(id, rows, columns, s.policy)
		if err != nil {
			return err
		}

		// Existing positions survive the insert via ON CONFLICT DO NOTHING.
		if err := fleet.BatchInsertSeats(ctx, seats); err != nil {
			return err
		}

		columnLetters := make([]string, 0, columns)
		for i := 0; i < columns; i++ {
			columnLetters = append(columnLetters, seatmap.ColumnLetter(i))
		}

		if _, err := fleet.DeleteSeatsOutside(ctx, id, rows, columnLetters); err != nil {
			return err
		}

		p.Rows = rows
		p.Columns = columns
		p.Capacity = rows * columns
		plane = p

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plane, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Airplane, error) {
	const op = "service.fleet.Get"

	plane, err := s.store.Fleet().GetAirplane(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrAirplaneNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plane, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]domain.Airplane, error) {
	const op = "service.fleet.List"

	planes, err := s.store.Fleet().ListAirplanes(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return planes, nil
}

func (s *Service) Seats(ctx context.Context, airplaneID int64) ([]domain.Seat, error) {
	const op = "service.fleet.Seats"

	if _, err := s.Get(ctx, airplaneID); err != nil {
		return nil, err
	}

	seats, err := s.store.Fleet().ListSeats(ctx, airplaneID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return seats, nil
}

// SetSeatStatus flips the physical state of one seat, e.g. into or out of
// maintenance.
func (s *Service) SetSeatStatus(ctx context.Context, seatID int64, status domain.SeatStatus) error {
	const op = "service.fleet.SetSeatStatus"

	switch status {
	case domain.SeatAvailable, domain.SeatReserved, domain.SeatOccupied, domain.SeatMaintenance:
	default:
		return fmt.Errorf("%s: %q: %w", op, status, ErrInvalidStatus)
	}

	if err := s.store.Fleet().SetSeatStatus(ctx, seatID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrSeatNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AirplaneStats summarizes the cabin of one airplane.
type AirplaneStats struct {
	Airplane      domain.Airplane `json:"airplane"`
	TotalSeats    int             `json:"total_seats"`
	Occupied      int             `json:"occupied"`
	Maintenance   int             `json:"maintenance"`
	OccupancyRate float64         `json:"occupancy_rate"`
}

func (s *Service) Stats(ctx context.Context, airplaneID int64) (*AirplaneStats, error) {
	const op = "service.fleet.Stats"

	plane, err := s.Get(ctx, airplaneID)
	if err != nil {
		return nil, err
	}

	total, occupied, maintenance, err := s.store.Fleet().SeatCounts(ctx, airplaneID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := &AirplaneStats{
		Airplane:    *plane,
		TotalSeats:  total,
		Occupied:    occupied,
		Maintenance: maintenance,
	}
	if total > 0 {
		stats.OccupancyRate = float64(occupied) / float64(total)
	}

	return stats, nil
}
