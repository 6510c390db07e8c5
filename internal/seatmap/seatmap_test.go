package seatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoreyes-dev/airgo/internal/domain"
)

func TestGenerateLayout(t *testing.T) {
	seats, err := Generate(7, 3, 2, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, seats, 6)

	numbers := make(map[string]bool, len(seats))
	for _, s := range seats {
		assert.Equal(t, int64(7), s.AirplaneID)
		assert.Equal(t, domain.SeatAvailable, s.Status)
		assert.False(t, numbers[s.Number], "duplicate seat number %s", s.Number)
		numbers[s.Number] = true
	}

	assert.Equal(t, "1A", seats[0].Number)
	assert.Equal(t, "1B", seats[1].Number)
	assert.Equal(t, "2A", seats[2].Number)
	assert.Equal(t, "3B", seats[5].Number)
}

func TestGenerateClassBands(t *testing.T) {
	seats, err := Generate(1, 8, 1, DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, seats, 8)

	wantTypes := []domain.SeatType{
		domain.SeatFirst, domain.SeatFirst,
		domain.SeatBusiness, domain.SeatBusiness, domain.SeatBusiness,
		domain.SeatEconomy, domain.SeatEconomy, domain.SeatEconomy,
	}
	wantExtras := []int64{10000, 10000, 5000, 5000, 5000, 0, 0, 0}

	for i, s := range seats {
		assert.Equal(t, wantTypes[i], s.Type, "row %d", s.Row)
		assert.Equal(t, wantExtras[i], s.ExtraPriceCents, "row %d", s.Row)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(1, 4, 3, DefaultPolicy())
	require.NoError(t, err)
	b, err := Generate(1, 4, 3, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(1, 1))
	assert.NoError(t, Validate(60, 26))
	assert.Error(t, Validate(0, 4))
	assert.Error(t, Validate(-1, 4))
	assert.Error(t, Validate(10, 0))
	assert.Error(t, Validate(10, 27))
}

func TestBandFor(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, domain.SeatFirst, p.BandFor(1).Type)
	assert.Equal(t, domain.SeatFirst, p.BandFor(2).Type)
	assert.Equal(t, domain.SeatBusiness, p.BandFor(3).Type)
	assert.Equal(t, domain.SeatBusiness, p.BandFor(5).Type)
	assert.Equal(t, domain.SeatEconomy, p.BandFor(6).Type)
	assert.Equal(t, domain.SeatEconomy, p.BandFor(500).Type)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", ColumnLetter(0))
	assert.Equal(t, "Z", ColumnLetter(25))
}
