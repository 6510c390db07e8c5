package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nicoreyes-dev/airgo/internal/codes"
	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
)

// codeAttempts bounds the retry-until-unique loops for reservation codes
// and ticket barcodes. The keyspace (36^6, 16^12) makes more than one
// retry vanishingly rare.
const codeAttempts = 5

type ReservationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReservationRepo) With(db DB) *ReservationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReservationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// inTx runs fn inside a serializable transaction, unless the repo is
// already bound to one via With.
func (r *ReservationRepo) inTx(ctx context.Context, fn func(ctx context.Context, db DB) error) error {
	if r.db != nil {
		return fn(ctx, r.db)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}

	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const reservationColumns = `id, flight_id, passenger_id, seat_id, code, status, total_cents,
	reserved_at, expires_at, notes, payment_method, payment_notes, cancel_reason, cancel_comments`

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID, &res.FlightID, &res.PassengerID, &res.SeatID, &res.Code,
		&res.Status, &res.TotalCents, &res.ReservedAt, &res.ExpiresAt, &res.Notes,
		&res.PaymentMethod, &res.PaymentNotes, &res.CancelReason, &res.CancelComments,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create creates a pending reservation inside one serializable transaction.
//
// The transaction first lapses expired pending reservations for the flight
// so their seats become bookable again, then re-validates every
// precondition against current data. The partial unique indexes on
// (flight, seat) and (flight, passenger) catch the concurrent writer the
// checks cannot see.
//
// Returns:
//   - repository.ErrNotFound if the flight does not exist.
//   - repository.ErrSeatNotFound / ErrPassengerNotFound for the other ids.
//   - repository.ErrFlightNotBookable if the flight is closed or departed.
//   - repository.ErrSeatNotOnAirplane if the seat belongs to another airplane.
//   - repository.ErrSeatUnavailable if the seat is under maintenance.
//   - repository.ErrSeatTaken if a non-cancelled reservation holds the seat.
//   - repository.ErrDuplicateReservation if the passenger already holds one.
func (r *ReservationRepo) Create(
	ctx context.Context,
	in domain.NewReservation,
	holdTTL time.Duration,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Create"

	var out *domain.Reservation

	err := r.inTx(ctx, func(ctx context.Context, db DB) error {
		// Lapse stale pendings first so an expired hold does not block the
		// seat or trip the partial unique index.
		if _, err := db.Exec(ctx,
			`UPDATE reservations
			 SET status = 'cancelled', cancel_reason = 'expired'
			 WHERE flight_id = $1 AND status = 'pending' AND expires_at <= now()`,
			in.FlightID,
		); err != nil {
			return err
		}

		flight, err := scanFlight(db.QueryRow(ctx,
			`SELECT `+flightColumns+` FROM flights WHERE id = $1`, in.FlightID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrNotFound
			}
			return err
		}

		now := time.Now()
		if !flight.Bookable(now) {
			return repository.ErrFlightNotBookable
		}

		var seat domain.Seat
		if err := db.QueryRow(ctx,
			`SELECT id, airplane_id, seat_number, row, col, type, status, extra_price_cents
			 FROM seats WHERE id = $1`,
			in.SeatID,
		).Scan(&seat.ID, &seat.AirplaneID, &seat.Number, &seat.Row, &seat.Column,
			&seat.Type, &seat.Status, &seat.ExtraPriceCents); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrSeatNotFound
			}
			return err
		}

		if seat.AirplaneID != flight.AirplaneID {
			return repository.ErrSeatNotOnAirplane
		}
		if seat.Status == domain.SeatMaintenance {
			return repository.ErrSeatUnavailable
		}

		var seatHeld bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS (
			 	SELECT 1 FROM reservations
			 	WHERE flight_id = $1 AND seat_id = $2 AND status <> 'cancelled')`,
			in.FlightID, in.SeatID,
		).Scan(&seatHeld); err != nil {
			return err
		}
		if seatHeld {
			return repository.ErrSeatTaken
		}

		var passengerExists bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM passengers WHERE id = $1)`,
			in.PassengerID,
		).Scan(&passengerExists); err != nil {
			return err
		}
		if !passengerExists {
			return repository.ErrPassengerNotFound
		}

		var passengerHolds bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS (
			 	SELECT 1 FROM reservations
			 	WHERE flight_id = $1 AND passenger_id = $2 AND status <> 'cancelled')`,
			in.FlightID, in.PassengerID,
		).Scan(&passengerHolds); err != nil {
			return err
		}
		if passengerHolds {
			return repository.ErrDuplicateReservation
		}

		code, err := r.uniqueCode(ctx, db)
		if err != nil {
			return err
		}

		res, err := scanReservation(db.QueryRow(ctx,
			`INSERT INTO reservations(flight_id, passenger_id, seat_id, code, status,
			 	total_cents, expires_at, notes)
			 VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7)
			 RETURNING `+reservationColumns,
			in.FlightID, in.PassengerID, in.SeatID, code,
			domain.TotalPrice(flight, &seat), now.Add(holdTTL), in.Notes,
		))
		if err != nil {
			return err
		}

		out = res
		return nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ReservationRepo) uniqueCode(ctx context.Context, db DB) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code := codes.ReservationCode()

		var exists bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM reservations WHERE code = $1)`, code,
		).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", repository.ErrCodesExhausted
}

func (r *ReservationRepo) uniqueBarcode(ctx context.Context, db DB) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		barcode := codes.Barcode()

		var exists bool
		if err := db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM tickets WHERE barcode = $1)`, barcode,
		).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return barcode, nil
		}
	}

	return "", repository.ErrCodesExhausted
}

func (r *ReservationRepo) ByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ByCode"

	db := r.handle()

	res, err := scanReservation(db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE code = $1`, code))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

func (r *ReservationRepo) ByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ByID"

	db := r.handle()

	res, err := scanReservation(db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return res, nil
}

// classifyMiss explains why a guarded transition updated zero rows.
func classifyMiss(ctx context.Context, db DB, code string) error {
	var status domain.ReservationStatus
	var expires time.Time

	err := db.QueryRow(ctx,
		`SELECT status, expires_at FROM reservations WHERE code = $1`, code,
	).Scan(&status, &expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}

	res := domain.Reservation{Status: status, ExpiresAt: expires}
	if res.IsExpired(time.Now()) {
		return repository.ErrExpired
	}

	return repository.ErrInvalidState
}

// Confirm moves a pending, unexpired reservation to confirmed. The status
// check and the update are a single guarded statement so two concurrent
// transitions cannot both pass.
//
// Returns:
//   - repository.ErrNotFound if the code does not resolve.
//   - repository.ErrExpired if the pending hold lapsed.
//   - repository.ErrInvalidState for any other status.
func (r *ReservationRepo) Confirm(ctx context.Context, code string) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Confirm"

	var out *domain.Reservation

	err := r.inTx(ctx, func(ctx context.Context, db DB) error {
		res, err := scanReservation(db.QueryRow(ctx,
			`UPDATE reservations
			 SET status = 'confirmed'
			 WHERE code = $1 AND status = 'pending' AND expires_at > now()
			 RETURNING `+reservationColumns,
			code,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return classifyMiss(ctx, db, code)
			}
			return err
		}

		out = res
		return nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Pay moves a pending (unexpired) or confirmed reservation to paid and
// issues the ticket in the same transaction if one does not exist yet.
func (r *ReservationRepo) Pay(
	ctx context.Context,
	code string,
	method string,
) (*domain.Reservation, *domain.Ticket, error) {
	const op = "postgres.ReservationRepo.Pay"

	var outRes *domain.Reservation
	var outTicket *domain.Ticket

	err := r.inTx(ctx, func(ctx context.Context, db DB) error {
		res, err := scanReservation(db.QueryRow(ctx,
			`UPDATE reservations
			 SET status = 'paid', payment_method = $2
			 WHERE code = $1
			   AND (status = 'confirmed'
			        OR (status = 'pending' AND expires_at > now()))
			 RETURNING `+reservationColumns,
			code, method,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return classifyMiss(ctx, db, code)
			}
			return err
		}

		ticket, err := r.ticketByReservation(ctx, db, res.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		if ticket == nil {
			barcode, err := r.uniqueBarcode(ctx, db)
			if err != nil {
				return err
			}

			ticket = &domain.Ticket{}
			if err := db.QueryRow(ctx,
				`INSERT INTO tickets(reservation_id, barcode, status)
				 VALUES ($1, $2, 'issued')
				 RETURNING id, reservation_id, barcode, status, issued_at`,
				res.ID, barcode,
			).Scan(&ticket.ID, &ticket.ReservationID, &ticket.Barcode, &ticket.Status, &ticket.IssuedAt); err != nil {
				return err
			}
		}

		outRes = res
		outTicket = ticket
		return nil
	})
	if err != nil {
		return nil, nil, wrapDBErr(op, err)
	}

	return outRes, outTicket, nil
}

// Cancel moves a pending, confirmed or paid reservation to cancelled and
// records the reason. The ticket, if any, is kept but flipped to cancelled.
// A cancelled reservation no longer matches the partial unique indexes, so
// the seat is immediately bookable again.
func (r *ReservationRepo) Cancel(
	ctx context.Context,
	code string,
	c domain.Cancellation,
) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Cancel"

	var out *domain.Reservation

	err := r.inTx(ctx, func(ctx context.Context, db DB) error {
		res, err := scanReservation(db.QueryRow(ctx,
			`UPDATE reservations
			 SET status = 'cancelled', cancel_reason = $2, cancel_comments = $3
			 WHERE code = $1
			   AND (status IN ('confirmed', 'paid')
			        OR (status = 'pending' AND expires_at > now()))
			 RETURNING `+reservationColumns,
			code, c.Reason, c.Comments,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return classifyMiss(ctx, db, code)
			}
			return err
		}

		if _, err := db.Exec(ctx,
			`UPDATE tickets SET status = 'cancelled'
			 WHERE reservation_id = $1 AND status = 'issued'`,
			res.ID,
		); err != nil {
			return err
		}

		out = res
		return nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Complete closes out a paid reservation after the flight.
func (r *ReservationRepo) Complete(ctx context.Context, code string) (*domain.Reservation, error) {
	const op = "postgres.ReservationRepo.Complete"

	var out *domain.Reservation

	err := r.inTx(ctx, func(ctx context.Context, db DB) error {
		res, err := scanReservation(db.QueryRow(ctx,
			`UPDATE reservations
			 SET status = 'completed'
			 WHERE code = $1 AND status = 'paid'
			 RETURNING `+reservationColumns,
			code,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return classifyMiss(ctx, db, code)
			}
			return err
		}

		out = res
		return nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ReservationRepo) ListByPassenger(ctx context.Context, passengerID int64) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListByPassenger"

	return r.list(ctx, op,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE passenger_id = $1
		 ORDER BY reserved_at DESC`,
		passengerID,
	)
}

func (r *ReservationRepo) ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error) {
	const op = "postgres.ReservationRepo.ListByFlight"

	return r.list(ctx, op,
		`SELECT `+reservationColumns+`
		 FROM reservations
		 WHERE flight_id = $1
		 ORDER BY reserved_at DESC`,
		flightID,
	)
}

func (r *ReservationRepo) list(ctx context.Context, op, q string, args ...any) ([]domain.Reservation, error) {
	db := r.handle()

	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

func (r *ReservationRepo) ticketByReservation(ctx context.Context, db DB, reservationID int64) (*domain.Ticket, error) {
	var t domain.Ticket
	err := db.QueryRow(ctx,
		`SELECT id, reservation_id, barcode, status, issued_at
		 FROM tickets WHERE reservation_id = $1`,
		reservationID,
	).Scan(&t.ID, &t.ReservationID, &t.Barcode, &t.Status, &t.IssuedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ReservationRepo) TicketByReservation(ctx context.Context, reservationID int64) (*domain.Ticket, error) {
	const op = "postgres.ReservationRepo.TicketByReservation"

	t, err := r.ticketByReservation(ctx, r.handle(), reservationID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

func (r *ReservationRepo) TicketByBarcode(ctx context.Context, barcode string) (*domain.Ticket, error) {
	const op = "postgres.ReservationRepo.TicketByBarcode"

	db := r.handle()

	var t domain.Ticket
	err := db.QueryRow(ctx,
		`SELECT id, reservation_id, barcode, status, issued_at
		 FROM tickets WHERE barcode = $1`,
		barcode,
	).Scan(&t.ID, &t.ReservationID, &t.Barcode, &t.Status, &t.IssuedAt)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &t, nil
}

// UseTicket marks an issued ticket as used at check-in.
func (r *ReservationRepo) UseTicket(ctx context.Context, barcode string) (*domain.Ticket, error) {
	const op = "postgres.ReservationRepo.UseTicket"

	var out *domain.Ticket

	err := r.inTx(ctx, func(ctx context.Context, db DB) error {
		var t domain.Ticket
		err := db.QueryRow(ctx,
			`UPDATE tickets
			 SET status = 'used'
			 WHERE barcode = $1 AND status = 'issued'
			 RETURNING id, reservation_id, barcode, status, issued_at`,
			barcode,
		).Scan(&t.ID, &t.ReservationID, &t.Barcode, &t.Status, &t.IssuedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				var exists bool
				if err := db.QueryRow(ctx,
					`SELECT EXISTS (SELECT 1 FROM tickets WHERE barcode = $1)`, barcode,
				).Scan(&exists); err != nil {
					return err
				}
				if !exists {
					return repository.ErrNotFound
				}
				return repository.ErrInvalidState
			}
			return err
		}

		out = &t
		return nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Detail loads a reservation with its flight, passenger, seat and ticket.
func (r *ReservationRepo) Detail(ctx context.Context, code string) (*domain.ReservationDetail, error) {
	const op = "postgres.ReservationRepo.Detail"

	db := r.handle()

	res, err := scanReservation(db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE code = $1`, code))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	detail := &domain.ReservationDetail{Reservation: *res}

	flight, err := scanFlight(db.QueryRow(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE id = $1`, res.FlightID))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	detail.Flight = *flight

	passenger, err := scanPassenger(db.QueryRow(ctx,
		`SELECT `+passengerColumns+` FROM passengers WHERE id = $1`, res.PassengerID))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	detail.Passenger = *passenger

	var seat domain.Seat
	if err := db.QueryRow(ctx,
		`SELECT id, airplane_id, seat_number, row, col, type, status, extra_price_cents
		 FROM seats WHERE id = $1`,
		res.SeatID,
	).Scan(&seat.ID, &seat.AirplaneID, &seat.Number, &seat.Row, &seat.Column,
		&seat.Type, &seat.Status, &seat.ExtraPriceCents); err != nil {
		return nil, wrapDBErr(op, err)
	}
	detail.Seat = seat

	ticket, err := r.ticketByReservation(ctx, db, res.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, wrapDBErr(op, err)
	}
	detail.Ticket = ticket

	return detail, nil
}
