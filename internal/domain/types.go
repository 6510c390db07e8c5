package domain

import "time"

type SeatType string

const (
	SeatFirst    SeatType = "first"
	SeatBusiness SeatType = "business"
	SeatEconomy  SeatType = "economy"
)

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatReserved    SeatStatus = "reserved"
	SeatOccupied    SeatStatus = "occupied"
	SeatMaintenance SeatStatus = "maintenance"
)

type FlightStatus string

const (
	FlightScheduled FlightStatus = "scheduled"
	FlightBoarding  FlightStatus = "boarding"
	FlightInFlight  FlightStatus = "in_flight"
	FlightLanded    FlightStatus = "landed"
	FlightCancelled FlightStatus = "cancelled"
	FlightDelayed   FlightStatus = "delayed"
)

// Valid reports whether the status is one the schedule understands.
func (s FlightStatus) Valid() bool {
	switch s {
	case FlightScheduled, FlightBoarding, FlightInFlight,
		FlightLanded, FlightCancelled, FlightDelayed:
		return true
	default:
		return false
	}
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPaid      ReservationStatus = "paid"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

type TicketStatus string

const (
	TicketIssued    TicketStatus = "issued"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
	TicketExpired   TicketStatus = "expired"
)

type DocumentType string

const (
	DocumentDNI      DocumentType = "dni"
	DocumentPassport DocumentType = "passport"
	DocumentIDCard   DocumentType = "cedula"
	DocumentLicense  DocumentType = "license"
)

type Airplane struct {
	ID        int64
	Model     string
	Capacity  int
	Rows      int
	Columns   int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Seat struct {
	ID              int64
	AirplaneID      int64
	Number          string // row + column letter, e.g. "12A"
	Row             int
	Column          string
	Type            SeatType
	Status          SeatStatus
	ExtraPriceCents int64
}

type Flight struct {
	ID             int64
	AirplaneID     int64
	Number         string
	Origin         string
	Destination    string
	Departure      time.Time
	Arrival        time.Time
	Status         FlightStatus
	BasePriceCents int64
	Active         bool
	ManagerID      *int64
	CreatedAt      time.Time
}

// Duration is derived from the timetable, never stored.
func (f *Flight) Duration() time.Duration {
	return f.Arrival.Sub(f.Departure)
}

// Bookable reports whether new reservations may be taken for the flight.
func (f *Flight) Bookable(now time.Time) bool {
	if !f.Active {
		return false
	}
	if f.Status != FlightScheduled && f.Status != FlightBoarding {
		return false
	}
	return f.Departure.After(now)
}

type Passenger struct {
	ID           int64
	UserID       *int64
	Name         string
	DocumentType DocumentType
	Document     string
	Email        string
	Phone        string
	BirthDate    time.Time
	Active       bool
}

func (p *Passenger) Age(now time.Time) int {
	years := now.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func (p *Passenger) ProfileComplete() bool {
	return p.Name != "" &&
		p.Document != "" &&
		p.DocumentType != "" &&
		p.Email != "" &&
		p.Phone != "" &&
		!p.BirthDate.IsZero()
}

type Reservation struct {
	ID             int64
	FlightID       int64
	PassengerID    int64
	SeatID         int64
	Code           string
	Status         ReservationStatus
	TotalCents     int64
	ReservedAt     time.Time
	ExpiresAt      time.Time
	Notes          string
	PaymentMethod  string
	PaymentNotes   string
	CancelReason   string
	CancelComments string
}

// IsExpired reports whether a pending reservation outlived its hold window.
// Only pending reservations expire; later states are kept by payment or
// explicit cancellation.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.Status == ReservationPending && now.After(r.ExpiresAt)
}

// CanCancel reports whether the reservation may still be cancelled.
func (r *Reservation) CanCancel(now time.Time) bool {
	switch r.Status {
	case ReservationPending, ReservationConfirmed, ReservationPaid:
		return !r.IsExpired(now)
	default:
		return false
	}
}

// Holding reports whether the reservation keeps its seat unavailable to
// other passengers at the given instant.
func (r *Reservation) Holding(now time.Time) bool {
	switch r.Status {
	case ReservationConfirmed, ReservationPaid:
		return true
	case ReservationPending:
		return !now.After(r.ExpiresAt)
	default:
		return false
	}
}

// Payment implies confirmation, so pending may go straight to paid.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationPaid, ReservationCancelled},
	ReservationConfirmed: {ReservationPaid, ReservationCancelled},
	ReservationPaid:      {ReservationCompleted, ReservationCancelled},
}

// CanTransition reports whether the reservation status graph allows
// moving from one status to another.
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	for _, next := range reservationTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s ReservationStatus) Terminal() bool {
	return len(reservationTransitions[s]) == 0
}

// TotalPrice computes the reservation price at creation time.
func TotalPrice(flight *Flight, seat *Seat) int64 {
	return flight.BasePriceCents + seat.ExtraPriceCents
}

// NewReservation carries validated inputs for creating a reservation.
type NewReservation struct {
	FlightID    int64
	PassengerID int64
	SeatID      int64
	Notes       string
}

// Cancellation carries the reason recorded when cancelling a reservation.
type Cancellation struct {
	Reason   string
	Comments string
}

type Ticket struct {
	ID            int64
	ReservationID int64
	Barcode       string
	Status        TicketStatus
	IssuedAt      time.Time
}

// ReservationDetail is a reservation joined with its flight, passenger and
// seat for read paths.
type ReservationDetail struct {
	Reservation Reservation
	Flight      Flight
	Passenger   Passenger
	Seat        Seat
	Ticket      *Ticket
}

// FlightAvailability is the seat inventory snapshot for one flight.
type FlightAvailability struct {
	FlightID   int64
	TotalSeats int
	Held       int
	Available  int
}
