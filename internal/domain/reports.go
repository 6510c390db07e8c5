package domain

import "time"

// DashboardStats is the operational summary shown on the landing page.
type DashboardStats struct {
	Airplanes            int64            `json:"airplanes"`
	ActiveFlights        int64            `json:"active_flights"`
	Passengers           int64            `json:"passengers"`
	ReservationsByStatus map[string]int64 `json:"reservations_by_status"`
	IssuedTickets        int64            `json:"issued_tickets"`
}

// IncomeReport aggregates paid and completed reservations over a period.
type IncomeReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalCents   int64           `json:"total_cents"`
	Count        int64           `json:"count"`
	AverageCents int64           `json:"average_cents"`
	ByDay        []IncomeBucket  `json:"by_day"`
	BySeatType   []SeatTypeSlice `json:"by_seat_type"`
}

type IncomeBucket struct {
	Day        time.Time `json:"day"`
	TotalCents int64     `json:"total_cents"`
	Count      int64     `json:"count"`
}

type SeatTypeSlice struct {
	SeatType   SeatType `json:"seat_type"`
	TotalCents int64    `json:"total_cents"`
	Count      int64    `json:"count"`
}

// FlightOccupancy reports how full a flight is: confirmed and paid
// reservations against the airplane's capacity.
type FlightOccupancy struct {
	FlightID    int64   `json:"flight_id"`
	Number      string  `json:"number"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	TotalSeats  int64   `json:"total_seats"`
	Held        int64   `json:"held"`
	Rate        float64 `json:"rate"`
}

// PopularFlight ranks flights by non-cancelled reservations.
type PopularFlight struct {
	FlightID     int64  `json:"flight_id"`
	Number       string `json:"number"`
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	Reservations int64  `json:"reservations"`
}

// FrequentPassenger ranks passengers by confirmed and paid reservations.
type FrequentPassenger struct {
	PassengerID int64  `json:"passenger_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Trips       int64  `json:"trips"`
	SpentCents  int64  `json:"spent_cents"`
}
