package httpgin

import (
	"time"

	"github.com/nicoreyes-dev/airgo/internal/domain"
)

type CreateAirplaneRequest struct {
	Model   string `json:"model" binding:"required"`
	Rows    int    `json:"rows" binding:"required,gt=0"`
	Columns int    `json:"columns" binding:"required,gt=0,lte=26"`
}

type UpdateLayoutRequest struct {
	Rows    int `json:"rows" binding:"required,gt=0"`
	Columns int `json:"columns" binding:"required,gt=0,lte=26"`
}

type SetSeatStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateFlightRequest struct {
	AirplaneID     int64  `json:"airplane_id" binding:"required"`
	Number         string `json:"number" binding:"required"`
	Origin         string `json:"origin" binding:"required"`
	Destination    string `json:"destination" binding:"required"`
	DepartureAt    string `json:"departure_at" binding:"required"`
	ArrivalAt      string `json:"arrival_at" binding:"required"`
	BasePriceCents int64  `json:"base_price_cents" binding:"gte=0"`
}

type SetFlightStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreatePassengerRequest struct {
	Name         string `json:"name" binding:"required"`
	DocumentType string `json:"document_type"`
	Document     string `json:"document" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	BirthDate    string `json:"birth_date" binding:"required"`
}

type CreateReservationRequest struct {
	FlightID    int64  `json:"flight_id" binding:"required"`
	PassengerID int64  `json:"passenger_id" binding:"required"`
	SeatID      int64  `json:"seat_id" binding:"required"`
	Notes       string `json:"notes"`
}

type PayReservationRequest struct {
	Method string `json:"method"`
}

type CancelReservationRequest struct {
	Reason   string `json:"reason"`
	Comments string `json:"comments"`
}

type PassengerHistoryResponse struct {
	Passenger    *domain.Passenger    `json:"passenger"`
	Total        int                  `json:"total"`
	Active       int                  `json:"active"`
	Reservations []domain.Reservation `json:"reservations"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
