// Package codes generates the human-facing identifiers of the booking
// workflow: reservation codes and ticket barcodes. Both are random
// candidates; uniqueness is enforced by the caller against the store.
package codes

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

const (
	reservationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	reservationLen      = 6
	barcodeLen          = 12
)

// ReservationCode returns a 6-character uppercase alphanumeric candidate.
func ReservationCode() string {
	b := make([]byte, reservationLen)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = reservationAlphabet[int(b[i])%len(reservationAlphabet)]
	}
	return string(b)
}

// Barcode returns a 12-character uppercase hex candidate derived from a UUID.
func Barcode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(hex[:barcodeLen])
}
