package codes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := ReservationCode()
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(reservationAlphabet, r), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	// 100 draws from a 36^6 space should not all collide
	assert.Greater(t, len(seen), 90)
}

func TestBarcode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		b := Barcode()
		assert.Len(t, b, 12)
		assert.Equal(t, strings.ToUpper(b), b)
		for _, r := range b {
			assert.True(t, strings.ContainsRune("0123456789ABCDEF", r), "unexpected rune %q", r)
		}
		seen[b] = true
	}
	assert.Len(t, seen, 100)
}
