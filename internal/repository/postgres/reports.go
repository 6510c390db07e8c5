package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicoreyes-dev/airgo/internal/domain"
)

type ReportRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReportRepo) With(db DB) *ReportRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReportRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *ReportRepo) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	const op = "postgres.ReportRepo.Dashboard"

	db := r.handle()

	var stats domain.DashboardStats
	err := db.QueryRow(ctx,
		`SELECT
		 	(SELECT count(*) FROM airplanes WHERE active),
		 	(SELECT count(*) FROM flights
		 	 WHERE active AND status IN ('scheduled', 'boarding', 'in_flight', 'delayed')),
		 	(SELECT count(*) FROM passengers),
		 	(SELECT count(*) FROM tickets WHERE status = 'issued')`,
	).Scan(&stats.Airplanes, &stats.ActiveFlights, &stats.Passengers, &stats.IssuedTickets)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT status, count(*) FROM reservations GROUP BY status`)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	stats.ReservationsByStatus = make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapDBErr(op, err)
		}
		stats.ReservationsByStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &stats, nil
}

// Income aggregates revenue from paid and completed reservations whose
// flights depart inside [from, to).
func (r *ReportRepo) Income(ctx context.Context, from, to time.Time) (*domain.IncomeReport, error) {
	const op = "postgres.ReportRepo.Income"

	db := r.handle()

	report := &domain.IncomeReport{From: from, To: to}

	err := db.QueryRow(ctx,
		`SELECT COALESCE(sum(r.total_cents), 0), count(*)
		 FROM reservations r
		 JOIN flights f ON f.id = r.flight_id
		 WHERE r.status IN ('paid', 'completed')
		   AND f.departure_at >= $1 AND f.departure_at < $2`,
		from, to,
	).Scan(&report.TotalCents, &report.Count)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if report.Count > 0 {
		report.AverageCents = report.TotalCents / report.Count
	}

	rows, err := db.Query(ctx,
		`SELECT date_trunc('day', f.departure_at), sum(r.total_cents), count(*)
		 FROM reservations r
		 JOIN flights f ON f.id = r.flight_id
		 WHERE r.status IN ('paid', 'completed')
		   AND f.departure_at >= $1 AND f.departure_at < $2
		 GROUP BY 1
		 ORDER BY 1`,
		from, to,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	for rows.Next() {
		var b domain.IncomeBucket
		if err := rows.Scan(&b.Day, &b.TotalCents, &b.Count); err != nil {
			return nil, wrapDBErr(op, err)
		}
		report.ByDay = append(report.ByDay, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	typeRows, err := db.Query(ctx,
		`SELECT s.type, sum(r.total_cents), count(*)
		 FROM reservations r
		 JOIN flights f ON f.id = r.flight_id
		 JOIN seats s ON s.id = r.seat_id
		 WHERE r.status IN ('paid', 'completed')
		   AND f.departure_at >= $1 AND f.departure_at < $2
		 GROUP BY s.type
		 ORDER BY s.type`,
		from, to,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer typeRows.Close()

	for typeRows.Next() {
		var s domain.SeatTypeSlice
		if err := typeRows.Scan(&s.SeatType, &s.TotalCents, &s.Count); err != nil {
			return nil, wrapDBErr(op, err)
		}
		report.BySeatType = append(report.BySeatType, s)
	}
	if err := typeRows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return report, nil
}

// occupancyQuery measures confirmed and paid reservations against the
// airplane's full capacity. Pending holds and closed-out trips do not
// count, and seats in maintenance still belong to the denominator.
const occupancyQuery = `SELECT f.id, f.flight_number, f.origin, f.destination, a.capacity,
	(SELECT count(*) FROM reservations r
	 WHERE r.flight_id = f.id AND r.status IN ('confirmed', 'paid'))
 FROM flights f
 JOIN airplanes a ON a.id = f.airplane_id
 WHERE f.id = $1`

func (r *ReportRepo) Occupancy(ctx context.Context, flightID int64) (*domain.FlightOccupancy, error) {
	const op = "postgres.ReportRepo.Occupancy"

	db := r.handle()

	var o domain.FlightOccupancy
	err := db.QueryRow(ctx, occupancyQuery, flightID).
		Scan(&o.FlightID, &o.Number, &o.Origin, &o.Destination, &o.TotalSeats, &o.Held)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if o.TotalSeats > 0 {
		o.Rate = float64(o.Held) / float64(o.TotalSeats)
	}

	return &o, nil
}

func (r *ReportRepo) PopularFlights(ctx context.Context, limit int) ([]domain.PopularFlight, error) {
	const op = "postgres.ReportRepo.PopularFlights"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT f.id, f.flight_number, f.origin, f.destination, count(r.id)
		 FROM flights f
		 JOIN reservations r ON r.flight_id = f.id AND r.status <> 'cancelled'
		 GROUP BY f.id
		 ORDER BY count(r.id) DESC, f.id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.PopularFlight
	for rows.Next() {
		var p domain.PopularFlight
		if err := rows.Scan(&p.FlightID, &p.Number, &p.Origin, &p.Destination, &p.Reservations); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// frequentPassengersQuery ranks by confirmed and paid reservations.
const frequentPassengersQuery = `SELECT p.id, p.name, p.email,
	count(r.id), COALESCE(sum(r.total_cents), 0)
 FROM passengers p
 JOIN reservations r ON r.passenger_id = p.id AND r.status IN ('confirmed', 'paid')
 GROUP BY p.id
 ORDER BY count(r.id) DESC, p.id
 LIMIT $1`

func (r *ReportRepo) FrequentPassengers(ctx context.Context, limit int) ([]domain.FrequentPassenger, error) {
	const op = "postgres.ReportRepo.FrequentPassengers"

	db := r.handle()

	rows, err := db.Query(ctx, frequentPassengersQuery, limit)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.FrequentPassenger
	for rows.Next() {
		var f domain.FrequentPassenger
		if err := rows.Scan(&f.PassengerID, &f.Name, &f.Email, &f.Trips, &f.SpentCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
