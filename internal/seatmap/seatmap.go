// Package seatmap generates the seat inventory of an airplane from its
// rows/columns layout and a class policy.
package seatmap

import (
	"fmt"

	"github.com/nicoreyes-dev/airgo/internal/domain"
)

const columnLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxColumns is bounded by single-letter seat numbers.
const MaxColumns = len(columnLetters)

// Band assigns a seat type and price premium to every row up to and
// including ThroughRow. Bands are evaluated in order; the last band should
// cover the remaining rows with ThroughRow = 0 (unbounded).
type Band struct {
	Type            domain.SeatType
	ThroughRow      int
	ExtraPriceCents int64
}

// Policy is the ordered set of class bands applied during generation.
type Policy struct {
	Bands []Band
}

// DefaultPolicy mirrors the standard cabin split: rows 1-2 first class,
// 3-5 business, the rest economy.
func DefaultPolicy() Policy {
	return Policy{Bands: []Band{
		{Type: domain.SeatFirst, ThroughRow: 2, ExtraPriceCents: 10000},
		{Type: domain.SeatBusiness, ThroughRow: 5, ExtraPriceCents: 5000},
		{Type: domain.SeatEconomy, ThroughRow: 0, ExtraPriceCents: 0},
	}}
}

// BandFor returns the band covering the given row.
func (p Policy) BandFor(row int) Band {
	for _, b := range p.Bands {
		if b.ThroughRow == 0 || row <= b.ThroughRow {
			return b
		}
	}
	// an exhausted policy treats everything as economy
	return Band{Type: domain.SeatEconomy}
}

// ColumnLetter returns the letter for a zero-based column index.
func ColumnLetter(i int) string {
	return string(columnLetters[i])
}

// Validate checks that a layout can be generated.
func Validate(rows, columns int) error {
	if rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", rows)
	}
	if columns <= 0 || columns > MaxColumns {
		return fmt.Errorf("columns must be between 1 and %d, got %d", MaxColumns, columns)
	}
	return nil
}

// Generate produces one seat per (row, column) pair with its type and
// price premium assigned by the policy. Seat numbers are "1A", "1B", "2A",
// and so on. The result is deterministic for a given layout and policy.
func Generate(airplaneID int64, rows, columns int, p Policy) ([]domain.Seat, error) {
	if err := Validate(rows, columns); err != nil {
		return nil, err
	}

	seats := make([]domain.Seat, 0, rows*columns)
	for row := 1; row <= rows; row++ {
		band := p.BandFor(row)
		for col := 0; col < columns; col++ {
			letter := ColumnLetter(col)
			seats = append(seats, domain.Seat{
				AirplaneID:      airplaneID,
				Number:          fmt.Sprintf("%d%s", row, letter),
				Row:             row,
				Column:          letter,
				Type:            band.Type,
				Status:          domain.SeatAvailable,
				ExtraPriceCents: band.ExtraPriceCents,
			})
		}
	}

	return seats, nil
}
