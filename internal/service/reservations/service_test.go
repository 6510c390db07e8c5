package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoreyes-dev/airgo/internal/codes"
	"github.com/nicoreyes-dev/airgo/internal/domain"
	"github.com/nicoreyes-dev/airgo/internal/repository"
)

// fakeRepo mirrors the storage rules in memory: the same guard conditions,
// the same sentinel errors, no database.
type fakeRepo struct {
	now        time.Time
	flights    map[int64]*domain.Flight
	seats      map[int64]*domain.Seat
	passengers map[int64]bool
	byCode     map[string]*domain.Reservation
	tickets    map[int64]*domain.Ticket // keyed by reservation ID
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		now:        time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		flights:    make(map[int64]*domain.Flight),
		seats:      make(map[int64]*domain.Seat),
		passengers: make(map[int64]bool),
		byCode:     make(map[string]*domain.Reservation),
		tickets:    make(map[int64]*domain.Ticket),
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) Create(_ context.Context, in domain.NewReservation, holdTTL time.Duration) (*domain.Reservation, error) {
	for _, r := range f.byCode {
		if r.FlightID == in.FlightID && r.IsExpired(f.now) {
			r.Status = domain.ReservationCancelled
			r.CancelReason = "expired"
		}
	}

	flight, ok := f.flights[in.FlightID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !flight.Bookable(f.now) {
		return nil, repository.ErrFlightNotBookable
	}

	seat, ok := f.seats[in.SeatID]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	if seat.AirplaneID != flight.AirplaneID {
		return nil, repository.ErrSeatNotOnAirplane
	}
	if seat.Status == domain.SeatMaintenance {
		return nil, repository.ErrSeatUnavailable
	}

	if !f.passengers[in.PassengerID] {
		return nil, repository.ErrPassengerNotFound
	}

	for _, r := range f.byCode {
		if r.FlightID != in.FlightID || r.Status == domain.ReservationCancelled {
			continue
		}
		if r.SeatID == in.SeatID {
			return nil, repository.ErrSeatTaken
		}
		if r.PassengerID == in.PassengerID {
			return nil, repository.ErrDuplicateReservation
		}
	}

	res := &domain.Reservation{
		ID:          f.id(),
		FlightID:    in.FlightID,
		PassengerID: in.PassengerID,
		SeatID:      in.SeatID,
		Code:        codes.ReservationCode(),
		Status:      domain.ReservationPending,
		TotalCents:  domain.TotalPrice(flight, seat),
		ReservedAt:  f.now,
		ExpiresAt:   f.now.Add(holdTTL),
		Notes:       in.Notes,
	}
	f.byCode[res.Code] = res

	return res, nil
}

func (f *fakeRepo) classify(code string) error {
	r, ok := f.byCode[code]
	if !ok {
		return repository.ErrNotFound
	}
	if r.IsExpired(f.now) {
		return repository.ErrExpired
	}
	return repository.ErrInvalidState
}

func (f *fakeRepo) ByCode(_ context.Context, code string) (*domain.Reservation, error) {
	r, ok := f.byCode[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) ByID(_ context.Context, id int64) (*domain.Reservation, error) {
	for _, r := range f.byCode {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) Detail(ctx context.Context, code string) (*domain.ReservationDetail, error) {
	r, err := f.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	d := &domain.ReservationDetail{
		Reservation: *r,
		Flight:      *f.flights[r.FlightID],
		Seat:        *f.seats[r.SeatID],
	}
	if t, ok := f.tickets[r.ID]; ok {
		d.Ticket = t
	}
	return d, nil
}

func (f *fakeRepo) Confirm(_ context.Context, code string) (*domain.Reservation, error) {
	r, ok := f.byCode[code]
	if !ok || r.Status != domain.ReservationPending || r.IsExpired(f.now) {
		return nil, f.classify(code)
	}
	r.Status = domain.ReservationConfirmed
	return r, nil
}

func (f *fakeRepo) Pay(_ context.Context, code, method string) (*domain.Reservation, *domain.Ticket, error) {
	r, ok := f.byCode[code]
	payable := ok && (r.Status == domain.ReservationConfirmed ||
		(r.Status == domain.ReservationPending && !r.IsExpired(f.now)))
	if !payable {
		return nil, nil, f.classify(code)
	}

	r.Status = domain.ReservationPaid
	r.PaymentMethod = method

	t, ok := f.tickets[r.ID]
	if !ok {
		t = &domain.Ticket{
			ID:            f.id(),
			ReservationID: r.ID,
			Barcode:       codes.Barcode(),
			Status:        domain.TicketIssued,
			IssuedAt:      f.now,
		}
		f.tickets[r.ID] = t
	}

	return r, t, nil
}

func (f *fakeRepo) Cancel(_ context.Context, code string, c domain.Cancellation) (*domain.Reservation, error) {
	r, ok := f.byCode[code]
	if !ok || !r.CanCancel(f.now) {
		return nil, f.classify(code)
	}
	r.Status = domain.ReservationCancelled
	r.CancelReason = c.Reason
	r.CancelComments = c.Comments
	if t, ok := f.tickets[r.ID]; ok && t.Status == domain.TicketIssued {
		t.Status = domain.TicketCancelled
	}
	return r, nil
}

func (f *fakeRepo) Complete(_ context.Context, code string) (*domain.Reservation, error) {
	r, ok := f.byCode[code]
	if !ok || r.Status != domain.ReservationPaid {
		return nil, f.classify(code)
	}
	r.Status = domain.ReservationCompleted
	return r, nil
}

func (f *fakeRepo) ListByPassenger(_ context.Context, passengerID int64) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.byCode {
		if r.PassengerID == passengerID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByFlight(_ context.Context, flightID int64) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for _, r := range f.byCode {
		if r.FlightID == flightID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) TicketByBarcode(_ context.Context, barcode string) (*domain.Ticket, error) {
	for _, t := range f.tickets {
		if t.Barcode == barcode {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) TicketByReservation(_ context.Context, reservationID int64) (*domain.Ticket, error) {
	t, ok := f.tickets[reservationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) UseTicket(_ context.Context, barcode string) (*domain.Ticket, error) {
	for _, t := range f.tickets {
		if t.Barcode == barcode {
			if t.Status != domain.TicketIssued {
				return nil, repository.ErrInvalidState
			}
			t.Status = domain.TicketUsed
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- fixtures ---

const (
	flightID    = int64(1)
	seatA       = int64(10)
	seatB       = int64(11)
	seatBroken  = int64(12)
	seatOther   = int64(13)
	passengerID = int64(100)
	passenger2  = int64(101)
)

func fixture(t *testing.T) (*fakeRepo, *Service) {
	t.Helper()

	repo := newFakeRepo()
	repo.flights[flightID] = &domain.Flight{
		ID:             flightID,
		AirplaneID:     1,
		Number:         "AG101",
		Origin:         "Lima",
		Destination:    "Cusco",
		Departure:      repo.now.Add(48 * time.Hour),
		Arrival:        repo.now.Add(49 * time.Hour),
		Status:         domain.FlightScheduled,
		BasePriceCents: 150_00,
		Active:         true,
	}
	repo.seats[seatA] = &domain.Seat{ID: seatA, AirplaneID: 1, Number: "1A", Type: domain.SeatFirst, Status: domain.SeatAvailable, ExtraPriceCents: 100_00}
	repo.seats[seatB] = &domain.Seat{ID: seatB, AirplaneID: 1, Number: "6A", Type: domain.SeatEconomy, Status: domain.SeatAvailable}
	repo.seats[seatBroken] = &domain.Seat{ID: seatBroken, AirplaneID: 1, Number: "6B", Type: domain.SeatEconomy, Status: domain.SeatMaintenance}
	repo.seats[seatOther] = &domain.Seat{ID: seatOther, AirplaneID: 2, Number: "1A", Type: domain.SeatFirst, Status: domain.SeatAvailable}
	repo.passengers[passengerID] = true
	repo.passengers[passenger2] = true

	svc := New(repo, nil, nil, nil, Config{HoldTTL: 24 * time.Hour})

	return repo, svc
}

func TestCreatePendingReservation(t *testing.T) {
	repo, svc := fixture(t)

	res, err := svc.Create(context.Background(), domain.NewReservation{
		FlightID:    flightID,
		PassengerID: passengerID,
		SeatID:      seatA,
		Notes:       "window please",
	}, "")
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationPending, res.Status)
	assert.Equal(t, int64(250_00), res.TotalCents)
	assert.Equal(t, repo.now.Add(24*time.Hour), res.ExpiresAt)
	assert.Len(t, res.Code, 6)
	assert.Equal(t, "window please", res.Notes)
}

func TestCreateSeatTaken(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passenger2, SeatID: seatA}, "")
	assert.ErrorIs(t, err, ErrSeatTaken)
}

func TestCreateDuplicatePassenger(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatB}, "")
	assert.ErrorIs(t, err, ErrDuplicateReservation)
}

func TestCreateSeatUnderMaintenance(t *testing.T) {
	_, svc := fixture(t)

	_, err := svc.Create(context.Background(), domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatBroken}, "")
	assert.ErrorIs(t, err, ErrSeatUnavailable)
}

func TestCreateSeatOnWrongAirplane(t *testing.T) {
	_, svc := fixture(t)

	_, err := svc.Create(context.Background(), domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatOther}, "")
	assert.ErrorIs(t, err, ErrSeatNotOnAirplane)
}

func TestCreateFlightNotBookable(t *testing.T) {
	repo, svc := fixture(t)
	repo.flights[flightID].Status = domain.FlightCancelled

	_, err := svc.Create(context.Background(), domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	assert.ErrorIs(t, err, ErrFlightNotBookable)
}

func TestCreateDepartedFlight(t *testing.T) {
	repo, svc := fixture(t)
	repo.flights[flightID].Departure = repo.now.Add(-time.Hour)

	_, err := svc.Create(context.Background(), domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	assert.ErrorIs(t, err, ErrFlightNotBookable)
}

func TestCreateUnknownFlight(t *testing.T) {
	_, svc := fixture(t)

	_, err := svc.Create(context.Background(), domain.NewReservation{FlightID: 999, PassengerID: passengerID, SeatID: seatA}, "")
	assert.ErrorIs(t, err, ErrFlightNotFound)
}

func TestCreateUnknownSeat(t *testing.T) {
	_, svc := fixture(t)

	_, err := svc.Create(context.Background(), domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: 999}, "")
	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.NotErrorIs(t, err, ErrFlightNotFound)
}

func TestCreateUnknownPassenger(t *testing.T) {
	_, svc := fixture(t)

	_, err := svc.Create(context.Background(), domain.NewReservation{FlightID: flightID, PassengerID: 999, SeatID: seatA}, "")
	assert.ErrorIs(t, err, ErrPassengerNotFound)
	assert.NotErrorIs(t, err, ErrFlightNotFound)
}

func TestLifecycleConfirmPayComplete(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	res, err = svc.Confirm(ctx, res.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, res.Status)

	res, ticket, err := svc.ProcessPayment(ctx, res.Code, "card")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPaid, res.Status)
	assert.Equal(t, "card", res.PaymentMethod)
	require.NotNil(t, ticket)
	assert.Equal(t, domain.TicketIssued, ticket.Status)
	assert.Len(t, ticket.Barcode, 12)

	// paying a paid reservation is an invalid transition
	_, _, err = svc.ProcessPayment(ctx, res.Code, "card")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	res, err = svc.Complete(ctx, res.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCompleted, res.Status)

	// the completed state is terminal
	_, err = svc.Confirm(ctx, res.Code)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Cancel(ctx, res.Code, domain.Cancellation{})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPayPendingDirectly(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	res, ticket, err := svc.ProcessPayment(ctx, res.Code, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPaid, res.Status)
	assert.Equal(t, "card", res.PaymentMethod)
	require.NotNil(t, ticket)
}

func TestConfirmExpiredReservation(t *testing.T) {
	repo, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	repo.now = repo.now.Add(25 * time.Hour)

	_, err = svc.Confirm(ctx, res.Code)
	assert.ErrorIs(t, err, ErrReservationExpired)

	_, _, err = svc.ProcessPayment(ctx, res.Code, "card")
	assert.ErrorIs(t, err, ErrReservationExpired)
}

func TestCancelFreesSeat(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, res.Code, domain.Cancellation{Reason: "change_of_plans", Comments: "rebooking later"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, cancelled.Status)
	assert.Equal(t, "change_of_plans", cancelled.CancelReason)

	// the same seat and the same passenger can book again
	_, err = svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	assert.NoError(t, err)
}

func TestCancelDefaultsReason(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, res.Code, domain.Cancellation{})
	require.NoError(t, err)
	assert.Equal(t, "passenger_request", cancelled.CancelReason)
}

func TestCancelPaidKeepsTicketCancelled(t *testing.T) {
	repo, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	res, _, err = svc.ProcessPayment(ctx, res.Code, "card")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, res.Code, domain.Cancellation{Reason: "refund"})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketCancelled, repo.tickets[res.ID].Status)
}

func TestExpiredHoldLapsesOnNextCreate(t *testing.T) {
	repo, svc := fixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	repo.now = repo.now.Add(25 * time.Hour)
	repo.flights[flightID].Departure = repo.now.Add(24 * time.Hour)

	// another passenger takes the seat once the hold lapsed
	_, err = svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passenger2, SeatID: seatA}, "")
	require.NoError(t, err)

	lapsed, err := svc.ByCode(ctx, first.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, lapsed.Status)
	assert.Equal(t, "expired", lapsed.CancelReason)
}

func TestCheckIn(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	_, ticket, err := svc.ProcessPayment(ctx, res.Code, "card")
	require.NoError(t, err)

	used, err := svc.CheckIn(ctx, ticket.Barcode)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketUsed, used.Status)

	// a ticket is only good once
	_, err = svc.CheckIn(ctx, ticket.Barcode)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.CheckIn(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestTicketForReservation(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	// no ticket before payment
	_, err = svc.TicketForReservation(ctx, res.Code)
	assert.ErrorIs(t, err, ErrTicketNotFound)

	_, issued, err := svc.ProcessPayment(ctx, res.Code, "card")
	require.NoError(t, err)

	got, err := svc.TicketForReservation(ctx, res.Code)
	require.NoError(t, err)
	assert.Equal(t, issued.Barcode, got.Barcode)
}

func TestDetailIncludesTicket(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	d, err := svc.Detail(ctx, res.Code)
	require.NoError(t, err)
	assert.Nil(t, d.Ticket)
	assert.Equal(t, "AG101", d.Flight.Number)
	assert.Equal(t, "1A", d.Seat.Number)

	_, _, err = svc.ProcessPayment(ctx, res.Code, "card")
	require.NoError(t, err)

	d, err = svc.Detail(ctx, res.Code)
	require.NoError(t, err)
	require.NotNil(t, d.Ticket)
}

func TestUnknownCode(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	_, err := svc.Confirm(ctx, "ABC123")
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.ByCode(ctx, "ABC123")
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.ByID(ctx, 42)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestByID(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, domain.NewReservation{FlightID: flightID, PassengerID: passengerID, SeatID: seatA}, "")
	require.NoError(t, err)

	got, err := svc.ByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Code, got.Code)
}
