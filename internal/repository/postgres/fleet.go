package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
)

type FleetRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *FleetRepo) With(db DB) *FleetRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *FleetRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *FleetRepo) CreateAirplane(ctx context.Context, a *domain.Airplane) (int64, error) {
	const op = "postgres.FleetRepo.CreateAirplane"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO airplanes(model, capacity, rows, columns, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.Model, a.Capacity, a.Rows, a.Columns, a.Active,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *FleetRepo) UpdateLayout(ctx context.Context, id int64, rows, columns, capacity int) error {
	const op = "postgres.FleetRepo.UpdateLayout"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE airplanes
		 SET rows = $2, columns = $3, capacity = $4, updated_at = now()
		 WHERE id = $1`,
		id, rows, columns, capacity,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

func (r *FleetRepo) GetAirplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	const op = "postgres.FleetRepo.GetAirplane"

	db := r.handle()

	var a domain.Airplane
	err := db.QueryRow(ctx,
		`SELECT id, model, capacity, rows, columns, active, created_at, updated_at
		 FROM airplanes WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Model, &a.Capacity, &a.Rows, &a.Columns, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &a, nil
}

func (r *FleetRepo) ListAirplanes(ctx context.Context, activeOnly bool) ([]domain.Airplane, error) {
	const op = "postgres.FleetRepo.ListAirplanes"

	db := r.handle()

	q := `SELECT id, model, capacity, rows, columns, active, created_at, updated_at
	      FROM airplanes ORDER BY model`
	if activeOnly {
		q = `SELECT id, model, capacity, rows, columns, active, created_at, updated_at
		     FROM airplanes WHERE active ORDER BY model`
	}

	rows, err := db.Query(ctx, q)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Airplane
	for rows.Next() {
		var a domain.Airplane
		if err := rows.Scan(&a.ID, &a.Model, &a.Capacity, &a.Rows, &a.Columns, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// BatchInsertSeats bulk-inserts seats, skipping seat numbers that already
// exist on the airplane. Re-running generation is therefore idempotent.
func (r *FleetRepo) BatchInsertSeats(ctx context.Context, seats []domain.Seat) error {
	const op = "postgres.FleetRepo.BatchInsertSeats"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, s := range seats {
		batch.Queue(
			`INSERT INTO seats(airplane_id, seat_number, row, col, type, status, extra_price_cents)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (airplane_id, seat_number) DO NOTHING`,
			s.AirplaneID, s.Number, s.Row, s.Column, s.Type, s.Status, s.ExtraPriceCents,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// DeleteSeatsOutside removes seats that fall outside the current layout
// after a rows/columns change. Seats referenced by reservations are kept by
// the foreign key, surfacing as a conflict.
func (r *FleetRepo) DeleteSeatsOutside(ctx context.Context, airplaneID int64, rows int, columns []string) (int64, error) {
	const op = "postgres.FleetRepo.DeleteSeatsOutside"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`DELETE FROM seats
		 WHERE airplane_id = $1 AND (row > $2 OR NOT (col = ANY($3)))`,
		airplaneID, rows, columns,
	)
	if err != nil {
		var pge *pgconn.PgError
		if errors.As(err, &pge) && pge.Code == "23503" {
			return 0, fmt.Errorf("%s: %w", op, repository.ErrConflict)
		}
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *FleetRepo) ListSeats(ctx context.Context, airplaneID int64) ([]domain.Seat, error) {
	const op = "postgres.FleetRepo.ListSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, airplane_id, seat_number, row, col, type, status, extra_price_cents
		 FROM seats
		 WHERE airplane_id = $1
		 ORDER BY row, col`,
		airplaneID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Seat
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.AirplaneID, &s.Number, &s.Row, &s.Column, &s.Type, &s.Status, &s.ExtraPriceCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *FleetRepo) SetSeatStatus(ctx context.Context, seatID int64, status domain.SeatStatus) error {
	const op = "postgres.FleetRepo.SetSeatStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE seats SET status = $2 WHERE id = $1`,
		seatID, status,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// SeatCounts returns total seats and seats per status for an airplane.
func (r *FleetRepo) SeatCounts(ctx context.Context, airplaneID int64) (total, occupied, maintenance int, err error) {
	const op = "postgres.FleetRepo.SeatCounts"

	db := r.handle()

	err = db.QueryRow(ctx,
		`SELECT
		 	COUNT(*),
		 	COALESCE(SUM(CASE WHEN status = 'occupied' THEN 1 ELSE 0 END), 0),
		 	COALESCE(SUM(CASE WHEN status = 'maintenance' THEN 1 ELSE 0 END), 0)
		 FROM seats
		 WHERE airplane_id = $1`,
		airplaneID,
	).Scan(&total, &occupied, &maintenance)
	if err != nil {
		return 0, 0, 0, wrapDBErr(op, err)
	}

	return total, occupied, maintenance, nil
}
