package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationTransitions(t *testing.T) {
	all := []ReservationStatus{
		ReservationPending,
		ReservationConfirmed,
		ReservationPaid,
		ReservationCancelled,
		ReservationCompleted,
	}

	// pending may skip confirmation when the passenger pays outright
	allowed := map[ReservationStatus]map[ReservationStatus]bool{
		ReservationPending:   {ReservationConfirmed: true, ReservationPaid: true, ReservationCancelled: true},
		ReservationConfirmed: {ReservationPaid: true, ReservationCancelled: true},
		ReservationPaid:      {ReservationCompleted: true, ReservationCancelled: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestReservationTerminal(t *testing.T) {
	assert.False(t, ReservationPending.Terminal())
	assert.False(t, ReservationConfirmed.Terminal())
	assert.False(t, ReservationPaid.Terminal())
	assert.True(t, ReservationCancelled.Terminal())
	assert.True(t, ReservationCompleted.Terminal())
}

func TestReservationIsExpired(t *testing.T) {
	now := time.Now()

	pending := Reservation{Status: ReservationPending, ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, pending.IsExpired(now))

	pending.ExpiresAt = now.Add(time.Minute)
	assert.False(t, pending.IsExpired(now))

	// only pending reservations expire
	paid := Reservation{Status: ReservationPaid, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, paid.IsExpired(now))

	confirmed := Reservation{Status: ReservationConfirmed, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, confirmed.IsExpired(now))
}

func TestReservationCanCancel(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	cases := []struct {
		status  ReservationStatus
		expires time.Time
		want    bool
	}{
		{ReservationPending, future, true},
		{ReservationPending, now.Add(-time.Minute), false},
		{ReservationConfirmed, future, true},
		{ReservationPaid, future, true},
		{ReservationCancelled, future, false},
		{ReservationCompleted, future, false},
	}

	for _, tc := range cases {
		r := Reservation{Status: tc.status, ExpiresAt: tc.expires}
		assert.Equal(t, tc.want, r.CanCancel(now), "status=%s", tc.status)
	}
}

func TestReservationHolding(t *testing.T) {
	now := time.Now()

	r := Reservation{Status: ReservationPending, ExpiresAt: now.Add(time.Minute)}
	assert.True(t, r.Holding(now))

	r.ExpiresAt = now.Add(-time.Minute)
	assert.False(t, r.Holding(now))

	for _, s := range []ReservationStatus{ReservationConfirmed, ReservationPaid} {
		r := Reservation{Status: s, ExpiresAt: now.Add(-time.Hour)}
		assert.True(t, r.Holding(now), "status=%s", s)
	}

	for _, s := range []ReservationStatus{ReservationCancelled, ReservationCompleted} {
		r := Reservation{Status: s}
		assert.False(t, r.Holding(now), "status=%s", s)
	}
}

func TestFlightBookable(t *testing.T) {
	now := time.Now()

	f := Flight{
		Status:    FlightScheduled,
		Active:    true,
		Departure: now.Add(2 * time.Hour),
	}
	assert.True(t, f.Bookable(now))

	f.Status = FlightBoarding
	assert.True(t, f.Bookable(now))

	f.Status = FlightCancelled
	assert.False(t, f.Bookable(now))

	f.Status = FlightScheduled
	f.Active = false
	assert.False(t, f.Bookable(now))

	f.Active = true
	f.Departure = now.Add(-time.Minute)
	assert.False(t, f.Bookable(now))
}

func TestFlightDuration(t *testing.T) {
	dep := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f := Flight{Departure: dep, Arrival: dep.Add(90 * time.Minute)}
	assert.Equal(t, 90*time.Minute, f.Duration())
}

func TestFlightStatusValid(t *testing.T) {
	for _, s := range []FlightStatus{
		FlightScheduled, FlightBoarding, FlightInFlight,
		FlightLanded, FlightCancelled, FlightDelayed,
	} {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, FlightStatus("teleporting").Valid())
	assert.False(t, FlightStatus("").Valid())
}

func TestPassengerAge(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	p := Passenger{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 36, p.Age(now))

	// birthday tomorrow
	p.BirthDate = time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 35, p.Age(now))

	// born in the future counts as zero
	p.BirthDate = now.AddDate(1, 0, 0)
	assert.Equal(t, 0, p.Age(now))
}

func TestPassengerProfileComplete(t *testing.T) {
	p := Passenger{
		Name:         "Ada Lovelace",
		DocumentType: DocumentPassport,
		Document:     "X1234567",
		Email:        "ada@example.com",
		Phone:        "+44 20 0000 0000",
		BirthDate:    time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
	}
	require.True(t, p.ProfileComplete())

	incomplete := p
	incomplete.Phone = ""
	assert.False(t, incomplete.ProfileComplete())

	incomplete = p
	incomplete.BirthDate = time.Time{}
	assert.False(t, incomplete.ProfileComplete())
}

func TestTotalPrice(t *testing.T) {
	f := &Flight{BasePriceCents: 150_00}
	s := &Seat{ExtraPriceCents: 100_00}
	assert.Equal(t, int64(250_00), TotalPrice(f, s))

	s.ExtraPriceCents = 0
	assert.Equal(t, int64(150_00), TotalPrice(f, s))
}
