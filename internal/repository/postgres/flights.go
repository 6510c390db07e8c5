package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
)

type FlightRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *FlightRepo) With(db DB) *FlightRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *FlightRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const flightColumns = `id, airplane_id, flight_number, origin, destination,
	departure_at, arrival_at, status, base_price_cents, active, manager_id, created_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(
		&f.ID, &f.AirplaneID, &f.Number, &f.Origin, &f.Destination,
		&f.Departure, &f.Arrival, &f.Status, &f.BasePriceCents, &f.Active,
		&f.ManagerID, &f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FlightRepo) Create(ctx context.Context, f *domain.Flight) (*domain.Flight, error) {
	const op = "postgres.FlightRepo.Create"

	db := r.handle()

	var active bool
	if err := db.QueryRow(ctx,
		`SELECT active FROM airplanes WHERE id = $1`, f.AirplaneID).Scan(&active); err != nil {
		return nil, wrapDBErr(op, err)
	}
	if !active {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrInvalidState)
	}

	created, err := scanFlight(db.QueryRow(ctx,
		`INSERT INTO flights(airplane_id, flight_number, origin, destination,
		 	departure_at, arrival_at, status, base_price_cents, active, manager_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+flightColumns,
		f.AirplaneID, f.Number, f.Origin, f.Destination,
		f.Departure, f.Arrival, f.Status, f.BasePriceCents, f.Active, f.ManagerID,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return created, nil
}

func (r *FlightRepo) Get(ctx context.Context, id int64) (*domain.Flight, error) {
	const op = "postgres.FlightRepo.Get"

	db := r.handle()

	f, err := scanFlight(db.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return f, nil
}

func (r *FlightRepo) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	const op = "postgres.FlightRepo.GetByNumber"

	db := r.handle()

	f, err := scanFlight(db.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE flight_number = $1`, number))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return f, nil
}

func (r *FlightRepo) SetStatus(ctx context.Context, id int64, status domain.FlightStatus) (*domain.Flight, error) {
	const op = "postgres.FlightRepo.SetStatus"

	db := r.handle()

	f, err := scanFlight(db.QueryRow(ctx,
		`UPDATE flights SET status = $2 WHERE id = $1 RETURNING `+flightColumns,
		id, status,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return f, nil
}

// SearchParams filters the flight search. Zero values are skipped. When
// Statuses is empty the search defaults to flights open for booking.
type SearchParams struct {
	Origin      string
	Destination string
	From        time.Time
	To          time.Time
	Statuses    []domain.FlightStatus
	Limit       int
	Offset      int
}

// buildSearch assembles the WHERE clause for Search. Split out so the
// filter composition is testable without a database.
func buildSearch(p SearchParams) (string, []any) {
	conds := []string{"active"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if p.Origin != "" {
		conds = append(conds, "origin ILIKE "+arg("%"+p.Origin+"%"))
	}
	if p.Destination != "" {
		conds = append(conds, "destination ILIKE "+arg("%"+p.Destination+"%"))
	}
	if !p.From.IsZero() {
		conds = append(conds, "departure_at >= "+arg(p.From))
	}
	if !p.To.IsZero() {
		conds = append(conds, "departure_at < "+arg(p.To))
	}

	statuses := p.Statuses
	if len(statuses) == 0 {
		statuses = []domain.FlightStatus{domain.FlightScheduled, domain.FlightBoarding}
	}
	list := make([]string, 0, len(statuses))
	for _, s := range statuses {
		list = append(list, string(s))
	}
	conds = append(conds, "status = ANY("+arg(list)+")")

	q := `SELECT ` + flightColumns + `
	 FROM flights
	 WHERE ` + strings.Join(conds, " AND ") + `
	 ORDER BY departure_at ASC
	 LIMIT ` + arg(p.Limit) + ` OFFSET ` + arg(p.Offset)

	return q, args
}

func (r *FlightRepo) Search(ctx context.Context, p SearchParams) ([]domain.Flight, error) {
	const op = "postgres.FlightRepo.Search"

	db := r.handle()

	q, args := buildSearch(p)

	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// availabilityQuery is anchored on the flights row so a missing flight
// yields no rows instead of a pair of zero counts.
const availabilityQuery = `SELECT f.id,
	(SELECT COUNT(*) FROM seats s
	 WHERE s.airplane_id = f.airplane_id AND s.status <> 'maintenance'),
	(SELECT COUNT(*) FROM reservations r
	 WHERE r.flight_id = f.id
	   AND (r.status IN ('confirmed', 'paid')
	        OR (r.status = 'pending' AND r.expires_at > now())))
 FROM flights f
 WHERE f.id = $1`

// Availability counts the airplane's seats against reservations in a
// holding status (confirmed, paid, or pending and unexpired) for the flight.
func (r *FlightRepo) Availability(ctx context.Context, flightID int64) (*domain.FlightAvailability, error) {
	const op = "postgres.FlightRepo.Availability"

	db := r.handle()

	var a domain.FlightAvailability

	err := db.QueryRow(ctx, availabilityQuery, flightID).
		Scan(&a.FlightID, &a.TotalSeats, &a.Held)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	a.Available = a.TotalSeats - a.Held
	if a.Available < 0 {
		a.Available = 0
	}

	return &a, nil
}

// AvailableSeats lists the seats of the flight's airplane that are not in
// maintenance and not held by a reservation in a holding status.
func (r *FlightRepo) AvailableSeats(ctx context.Context, flightID int64) ([]domain.Seat, error) {
	const op = "postgres.FlightRepo.AvailableSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT s.id, s.airplane_id, s.seat_number, s.row, s.col, s.type, s.status, s.extra_price_cents
		 FROM seats s
		 JOIN flights f ON f.airplane_id = s.airplane_id
		 WHERE f.id = $1
		   AND s.status <> 'maintenance'
		   AND NOT EXISTS (
		 	SELECT 1 FROM reservations r
		 	WHERE r.flight_id = $1 AND r.seat_id = s.id
		 	  AND (r.status IN ('confirmed', 'paid')
		 	       OR (r.status = 'pending' AND r.expires_at > now())))
		 ORDER BY s.row, s.col`,
		flightID,
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
