package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nicoreyes-dev/airgo/internal/domain"
	redisx "github.com/nicoreyes-dev/airgo/internal/redis"
	postgresrepo "github.com/nicoreyes-dev/airgo/internal/repository/postgres"
	redisrepo "github.com/nicoreyes-dev/airgo/internal/repository/redis"
	"github.com/nicoreyes-dev/airgo/internal/service"
	"github.com/nicoreyes-dev/airgo/internal/service/fleet"
	"github.com/nicoreyes-dev/airgo/internal/service/flights"
	"github.com/nicoreyes-dev/airgo/internal/service/passengers"
	"github.com/nicoreyes-dev/airgo/internal/service/reports"
	"github.com/nicoreyes-dev/airgo/internal/service/reservations"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/flights", handleSearchFlights(svcs))
	r.GET("/flights/:id", handleGetFlight(svcs))
	r.GET("/flights/:id/availability", handleGetAvailability(svcs))
	r.GET("/flights/:id/seats", handleListAvailableSeats(svcs))
	r.GET("/flights/number/:number", handleGetFlightByNumber(svcs))

	r.POST("/passengers", handleRegisterPassenger(svcs))
	r.GET("/passengers/:id", handleGetPassenger(svcs))
	r.PUT("/passengers/:id", handleUpdatePassenger(svcs))
	r.GET("/passengers/:id/reservations", handlePassengerHistory(svcs))

	r.POST("/reservations", handleCreateReservation(svcs, idem))
	r.GET("/reservations/:code", handleGetReservation(svcs))
	r.POST("/reservations/:code/confirm", handleConfirmReservation(svcs))
	r.POST("/reservations/:code/pay", handlePayReservation(svcs))
	r.POST("/reservations/:code/cancel", handleCancelReservation(svcs))
	r.GET("/reservations/:code/ticket", handleReservationTicket(svcs))

	r.GET("/tickets/:barcode", handleGetTicket(svcs))
	r.POST("/tickets/:barcode/use", handleUseTicket(svcs))

	// Admin-API
	// TODO: add admin middleware
	admin := r.Group("/admin")
	{
		admin.POST("/airplanes", handleCreateAirplane(svcs))
		admin.GET("/airplanes", handleListAirplanes(svcs))
		admin.GET("/airplanes/:id", handleGetAirplane(svcs))
		admin.PUT("/airplanes/:id/layout", handleUpdateLayout(svcs))
		admin.GET("/airplanes/:id/seats", handleListAirplaneSeats(svcs))
		admin.GET("/airplanes/:id/stats", handleAirplaneStats(svcs))
		admin.PATCH("/seats/:id/status", handleSetSeatStatus(svcs))

		admin.POST("/flights", handleCreateFlight(svcs))
		admin.PATCH("/flights/:id/status", handleSetFlightStatus(svcs))
		admin.GET("/flights/:id/reservations", handleFlightReservations(svcs))

		admin.GET("/passengers", handleListPassengers(svcs))
		admin.POST("/reservations/:code/complete", handleCompleteReservation(svcs))

		admin.GET("/reports/dashboard", handleDashboard(svcs))
		admin.GET("/reports/income", handleIncomeReport(svcs))
		admin.GET("/reports/occupancy/:id", handleOccupancy(svcs))
		admin.GET("/reports/popular-flights", handlePopularFlights(svcs))
		admin.GET("/reports/frequent-passengers", handleFrequentPassengers(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Search flights
// @Param    origin       query  string  false "origin substring"
// @Param    destination  query  string  false "destination substring"
// @Param    from         query  string  false "departure from (RFC3339)"
// @Param    to           query  string  false "departure to (RFC3339)"
// @Param    status       query  string  false "comma separated statuses"
// @Success  200  {array}   domain.Flight
// @Router   /flights [get]
func handleSearchFlights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := postgresrepo.SearchParams{
			Origin:      c.Query("origin"),
			Destination: c.Query("destination"),
			Limit:       parseIntDefault(c.Query("limit"), 50),
			Offset:      parseIntDefault(c.Query("offset"), 0),
		}

		if s := c.Query("from"); s != "" {
			t, err := parseRFC3339(s)
			if err != nil {
				badRequest(c, "invalid from (RFC3339)")
				return
			}
			p.From = t
		}
		if s := c.Query("to"); s != "" {
			t, err := parseRFC3339(s)
			if err != nil {
				badRequest(c, "invalid to (RFC3339)")
				return
			}
			p.To = t
		}
		if s := c.Query("status"); s != "" {
			for _, part := range strings.Split(s, ",") {
				p.Statuses = append(p.Statuses, domain.FlightStatus(strings.TrimSpace(part)))
			}
		}

		out, err := svcs.Flights.Search(c.Request.Context(), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Get flight
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  domain.Flight
// @Failure  404  {object}  ErrorResponse
// @Router   /flights/{id} [get]
func handleGetFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		f, err := svcs.Flights.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, f, "public, max-age=60", true)
	}
}

// @Summary  Get flight by number
// @Param    number  path  string  true  "Flight number"
// @Success  200  {object}  domain.Flight
// @Router   /flights/number/{number} [get]
func handleGetFlightByNumber(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := svcs.Flights.GetByNumber(c.Request.Context(), c.Param("number"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, f, "public, max-age=60", true)
	}
}

// @Summary  Seat availability counters
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {object}  domain.FlightAvailability
// @Router   /flights/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		a, err := svcs.Flights.Availability(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, a, "public, max-age=15", true)
	}
}

// @Summary  List bookable seats
// @Param    id  path  int  true  "Flight ID"
// @Success  200  {array}  domain.Seat
// @Router   /flights/{id}/seats [get]
func handleListAvailableSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Flights.AvailableSeats(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, seats, "public, max-age=15", true)
	}
}

// @Summary  Register passenger
// @Param    req body  CreatePassengerRequest true "payload"
// @Success  201 {object} domain.Passenger
// @Failure  409 {object} ErrorResponse
// @Router   /passengers [post]
func handleRegisterPassenger(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePassengerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		birth, err := parseDate(req.BirthDate)
		if err != nil {
			badRequest(c, "invalid birth_date (YYYY-MM-DD)")
			return
		}
		p, err := svcs.Passengers.Register(c.Request.Context(), &domain.Passenger{
			Name:         req.Name,
			DocumentType: domain.DocumentType(req.DocumentType),
			Document:     req.Document,
			Email:        req.Email,
			Phone:        req.Phone,
			BirthDate:    birth,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// @Summary  Get passenger
// @Param    id  path  int  true  "Passenger ID"
// @Success  200 {object} domain.Passenger
// @Router   /passengers/{id} [get]
func handleGetPassenger(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		p, err := svcs.Passengers.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary  Update passenger
// @Param    id  path  int  true  "Passenger ID"
// @Param    req body  CreatePassengerRequest true "payload"
// @Success  200 {object} domain.Passenger
// @Router   /passengers/{id} [put]
func handleUpdatePassenger(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreatePassengerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		birth, err := parseDate(req.BirthDate)
		if err != nil {
			badRequest(c, "invalid birth_date (YYYY-MM-DD)")
			return
		}
		p, err := svcs.Passengers.Update(c.Request.Context(), &domain.Passenger{
			ID:           id,
			Name:         req.Name,
			DocumentType: domain.DocumentType(req.DocumentType),
			Document:     req.Document,
			Email:        req.Email,
			Phone:        req.Phone,
			BirthDate:    birth,
			Active:       true,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary  Passenger reservation history
// @Param    id  path  int  true  "Passenger ID"
// @Success  200 {object} PassengerHistoryResponse
// @Router   /passengers/{id}/reservations [get]
func handlePassengerHistory(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		p, err := svcs.Passengers.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		out, err := svcs.Reservations.ListByPassenger(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}

		now := time.Now()
		active := 0
		for i := range out {
			if out[i].Holding(now) {
				active++
			}
		}

		c.JSON(http.StatusOK, PassengerHistoryResponse{
			Passenger:    p,
			Total:        len(out),
			Active:       active,
			Reservations: out,
		})
	}
}

// @Summary  Create reservation (idempotent)
// @Param    req body  CreateReservationRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Reservation
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "seat taken / duplicate / idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /reservations [post]
func handleCreateReservation(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReservationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisx.KeyIdemReservation(idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		rlKey := "ip:" + c.ClientIP()

		res, err := svcs.Reservations.Create(c.Request.Context(), domain.NewReservation{
			FlightID:    req.FlightID,
			PassengerID: req.PassengerID,
			SeatID:      req.SeatID,
			Notes:       req.Notes,
		}, rlKey)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			if errors.Is(err, reservations.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
				return
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(res)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, res)
	}
}

// @Summary  Get reservation with flight, passenger, seat and ticket
// @Param    code  path  string  true  "Reservation code"
// @Success  200 {object} domain.ReservationDetail
// @Router   /reservations/{code} [get]
func handleGetReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := svcs.Reservations.Detail(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// @Summary  Confirm reservation
// @Param    code  path  string  true  "Reservation code"
// @Success  200 {object} domain.Reservation
// @Failure  409 {object} ErrorResponse "expired / invalid state"
// @Router   /reservations/{code}/confirm [post]
func handleConfirmReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svcs.Reservations.Confirm(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Pay reservation and issue ticket
// @Param    code  path  string  true  "Reservation code"
// @Param    req   body  PayReservationRequest false "payload"
// @Success  200 {object} map[string]any
// @Failure  409 {object} ErrorResponse "expired / invalid state"
// @Router   /reservations/{code}/pay [post]
func handlePayReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PayReservationRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err.Error())
				return
			}
		}
		res, ticket, err := svcs.Reservations.ProcessPayment(c.Request.Context(), c.Param("code"), req.Method)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservation": res, "ticket": ticket})
	}
}

// @Summary  Cancel reservation
// @Param    code  path  string  true  "Reservation code"
// @Param    req   body  CancelReservationRequest false "payload"
// @Success  200 {object} domain.Reservation
// @Router   /reservations/{code}/cancel [post]
func handleCancelReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CancelReservationRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err.Error())
				return
			}
		}
		res, err := svcs.Reservations.Cancel(c.Request.Context(), c.Param("code"), domain.Cancellation{
			Reason:   req.Reason,
			Comments: req.Comments,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Get the ticket of a reservation
// @Param    code  path  string  true  "Reservation code"
// @Success  200 {object} domain.Ticket
// @Router   /reservations/{code}/ticket [get]
func handleReservationTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svcs.Reservations.TicketForReservation(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Get ticket by barcode
// @Param    barcode  path  string  true  "Ticket barcode"
// @Success  200 {object} domain.Ticket
// @Router   /tickets/{barcode} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svcs.Reservations.TicketByBarcode(c.Request.Context(), c.Param("barcode"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Use ticket at check-in
// @Param    barcode  path  string  true  "Ticket barcode"
// @Success  200 {object} domain.Ticket
// @Failure  409 {object} ErrorResponse "already used or not issued"
// @Router   /tickets/{barcode}/use [post]
func handleUseTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := svcs.Reservations.CheckIn(c.Request.Context(), c.Param("barcode"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Create airplane with generated seat map
// @Param    req body  CreateAirplaneRequest true "payload"
// @Success  201 {object} domain.Airplane
// @Router   /admin/airplanes [post]
func handleCreateAirplane(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAirplaneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		plane, err := svcs.Fleet.CreateAirplane(c.Request.Context(), req.Model, req.Rows, req.Columns)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, plane)
	}
}

// @Summary  List airplanes
// @Param    active  query  bool  false "only active"
// @Success  200 {array} domain.Airplane
// @Router   /admin/airplanes [get]
func handleListAirplanes(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		activeOnly := c.Query("active") == "true"
		planes, err := svcs.Fleet.List(c.Request.Context(), activeOnly)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, planes)
	}
}

// @Summary  Get airplane
// @Param    id  path  int  true  "Airplane ID"
// @Success  200 {object} domain.Airplane
// @Router   /admin/airplanes/{id} [get]
func handleGetAirplane(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		plane, err := svcs.Fleet.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, plane)
	}
}

// @Summary  Resize cabin layout
// @Param    id  path  int  true  "Airplane ID"
// @Param    req body  UpdateLayoutRequest true "payload"
// @Success  200 {object} domain.Airplane
// @Router   /admin/airplanes/{id}/layout [put]
func handleUpdateLayout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateLayoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		plane, err := svcs.Fleet.UpdateLayout(c.Request.Context(), id, req.Rows, req.Columns)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, plane)
	}
}

// @Summary  List airplane seats
// @Param    id  path  int  true  "Airplane ID"
// @Success  200 {array} domain.Seat
// @Router   /admin/airplanes/{id}/seats [get]
func handleListAirplaneSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		seats, err := svcs.Fleet.Seats(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, seats)
	}
}

// @Summary  Airplane cabin stats
// @Param    id  path  int  true  "Airplane ID"
// @Success  200 {object} fleet.AirplaneStats
// @Router   /admin/airplanes/{id}/stats [get]
func handleAirplaneStats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		stats, err := svcs.Fleet.Stats(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// @Summary  Set seat status
// @Param    id  path  int  true  "Seat ID"
// @Param    req body  SetSeatStatusRequest true "payload"
// @Success  204
// @Router   /admin/seats/{id}/status [patch]
func handleSetSeatStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetSeatStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Fleet.SetSeatStatus(c.Request.Context(), id, domain.SeatStatus(req.Status)); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Schedule flight
// @Param    req body  CreateFlightRequest true "payload"
// @Success  201 {object} domain.Flight
// @Router   /admin/flights [post]
func handleCreateFlight(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateFlightRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		departure, err := parseRFC3339(req.DepartureAt)
		if err != nil {
			badRequest(c, "invalid departure_at (RFC3339)")
			return
		}
		arrival, err := parseRFC3339(req.ArrivalAt)
		if err != nil {
			badRequest(c, "invalid arrival_at (RFC3339)")
			return
		}
		f, err := svcs.Flights.Create(c.Request.Context(), &domain.Flight{
			AirplaneID:     req.AirplaneID,
			Number:         req.Number,
			Origin:         req.Origin,
			Destination:    req.Destination,
			Departure:      departure,
			Arrival:        arrival,
			BasePriceCents: req.BasePriceCents,
			Active:         true,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, f)
	}
}

// @Summary  Set flight status
// @Param    id  path  int  true  "Flight ID"
// @Param    req body  SetFlightStatusRequest true "payload"
// @Success  200 {object} domain.Flight
// @Router   /admin/flights/{id}/status [patch]
func handleSetFlightStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetFlightStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		f, err := svcs.Flights.SetStatus(c.Request.Context(), id, domain.FlightStatus(req.Status))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// @Summary  List flight reservations
// @Param    id  path  int  true  "Flight ID"
// @Success  200 {array} domain.Reservation
// @Router   /admin/flights/{id}/reservations [get]
func handleFlightReservations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Reservations.ListByFlight(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  List or look up passengers
// @Param    document  query  string  false "document number"
// @Param    email     query  string  false "email"
// @Success  200 {array} domain.Passenger
// @Router   /admin/passengers [get]
func handleListPassengers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if doc := c.Query("document"); doc != "" {
			p, err := svcs.Passengers.GetByDocument(ctx, doc)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, []any{p})
			return
		}
		if email := c.Query("email"); email != "" {
			p, err := svcs.Passengers.GetByEmail(ctx, email)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, []any{p})
			return
		}

		limit := parseIntDefault(c.Query("limit"), 50)
		offset := parseIntDefault(c.Query("offset"), 0)
		out, err := svcs.Passengers.List(ctx, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Complete a paid reservation after landing
// @Param    code  path  string  true  "Reservation code"
// @Success  200 {object} domain.Reservation
// @Router   /admin/reservations/{code}/complete [post]
func handleCompleteReservation(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svcs.Reservations.Complete(c.Request.Context(), c.Param("code"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Operational dashboard
// @Success  200 {object} domain.DashboardStats
// @Router   /admin/reports/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svcs.Reports.Dashboard(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// @Summary  Income report
// @Param    from  query  string  false "RFC3339 or YYYY-MM-DD"
// @Param    to    query  string  false "RFC3339 or YYYY-MM-DD"
// @Success  200 {object} domain.IncomeReport
// @Router   /admin/reports/income [get]
func handleIncomeReport(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var from, to time.Time
		if s := c.Query("from"); s != "" {
			t, err := parseDate(s)
			if err != nil {
				badRequest(c, "invalid from")
				return
			}
			from = t
		}
		if s := c.Query("to"); s != "" {
			t, err := parseDate(s)
			if err != nil {
				badRequest(c, "invalid to")
				return
			}
			to = t
		}
		report, err := svcs.Reports.Income(c.Request.Context(), from, to)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// @Summary  Flight occupancy
// @Param    id  path  int  true  "Flight ID"
// @Success  200 {object} domain.FlightOccupancy
// @Router   /admin/reports/occupancy/{id} [get]
func handleOccupancy(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		o, err := svcs.Reports.Occupancy(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  Popular flights
// @Param    limit  query  int  false "top N"
// @Success  200 {array} domain.PopularFlight
// @Router   /admin/reports/popular-flights [get]
func handlePopularFlights(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Reports.PopularFlights(c.Request.Context(), parseIntDefault(c.Query("limit"), 10))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Frequent passengers
// @Param    limit  query  int  false "top N"
// @Success  200 {array} domain.FrequentPassenger
// @Router   /admin/reports/frequent-passengers [get]
func handleFrequentPassengers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Reports.FrequentPassengers(c.Request.Context(), parseIntDefault(c.Query("limit"), 10))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// fleet service
	case errors.Is(err, fleet.ErrAirplaneNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "airplane not found"})
	case errors.Is(err, fleet.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
	case errors.Is(err, fleet.ErrInvalidLayout), errors.Is(err, fleet.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	// flights service
	case errors.Is(err, flights.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
	case errors.Is(err, flights.ErrDuplicateNumber):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "flight number already exists"})
	case errors.Is(err, flights.ErrNoAirplane):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, flights.ErrInvalidSchedule), errors.Is(err, flights.ErrInvalidFlight):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	// passengers service
	case errors.Is(err, passengers.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "passenger not found"})
	case errors.Is(err, passengers.ErrDuplicateDocument):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "document already registered"})
	case errors.Is(err, passengers.ErrInvalidPassenger):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	// reservations service
	case errors.Is(err, reservations.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
	case errors.Is(err, reservations.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "seat not found"})
	case errors.Is(err, reservations.ErrPassengerNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "passenger not found"})
	case errors.Is(err, reservations.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "reservation not found"})
	case errors.Is(err, reservations.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
	case errors.Is(err, reservations.ErrSeatTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat is already reserved"})
	case errors.Is(err, reservations.ErrSeatUnavailable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "seat is unavailable"})
	case errors.Is(err, reservations.ErrSeatNotOnAirplane):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "seat does not belong to this flight"})
	case errors.Is(err, reservations.ErrDuplicateReservation):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "passenger already has a reservation on this flight"})
	case errors.Is(err, reservations.ErrFlightNotBookable):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "flight is not open for booking"})
	case errors.Is(err, reservations.ErrReservationExpired):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "reservation has expired"})
	case errors.Is(err, reservations.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid reservation state"})
	// reports service
	case errors.Is(err, reports.ErrFlightNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "flight not found"})
	case errors.Is(err, reports.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
