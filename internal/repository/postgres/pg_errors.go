package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nicoreyes-dev/airgo/internal/repository"
)

// Index names from migrations/0001_init.sql. The partial unique indexes are
// the authoritative double-booking guard; their violations are mapped back
// to the same errors the in-transaction checks produce.
const (
	idxReservationSeatActive      = "reservations_flight_seat_active"
	idxReservationPassengerActive = "reservations_flight_passenger_active"
	idxReservationCode            = "reservations_code_key"
	idxTicketBarcode              = "tickets_barcode_key"
	idxPassengerEmail             = "passengers_email_key"
)

func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
	}

	return false
}

func translateDBErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}

	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		switch pge.Code {
		// unique_violation
		case "23505":
			switch pge.ConstraintName {
			case idxReservationSeatActive:
				return repository.ErrSeatTaken
			case idxReservationPassengerActive:
				return repository.ErrDuplicateReservation
			case idxPassengerEmail:
				return repository.ErrEmailTaken
			}
			return repository.ErrConflict
		// foreign_key_violation: the referenced row does not exist, or a
		// delete is blocked by dependent rows
		case "23503":
			return repository.ErrNotFound
		}
	}

	return err
}

// wrapDBErr maps common DB errors to repository-level errors and wraps them
// with the provided operation name.
func wrapDBErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, translateDBErr(err))
}
