package redisx

import "fmt"

const ns = "airgo:v1"

func KeyFlightSummary(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:summary", ns, flightID)
}

func KeyFlightAvailability(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:availability", ns, flightID)
}

func KeyFlightSeats(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:seats", ns, flightID)
}

func KeyFlightSearch(sig string) string {
	return fmt.Sprintf("%s:flights:search:%s", ns, sig)
}

func KeyIdemReservation(key string) string {
	return fmt.Sprintf("%s:idem:reservation:%s", ns, key)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelFlightsChanged() string {
	return ns + ":flights:changed"
}
