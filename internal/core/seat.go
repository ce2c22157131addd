// Package core provides the value types shared between the turn engine and
// its consumers: seats, snapshots, run modes and runtime configuration.
// It contains no Bubble Tea or storage code so engine logic stays pure.
package core

import "fmt"

// NumSeats is the fixed number of players at the table.
const NumSeats = 4

// Seat identifies one of the four fixed player positions, 0..3.
// Turn order is fixed seat rotation.
type Seat int

// Seat winds in turn order.
const (
	SeatEast Seat = iota
	SeatSouth
	SeatWest
	SeatNorth
)

var (
	windNames  = [NumSeats]string{"East", "South", "West", "North"}
	windGlyphs = [NumSeats]string{"東", "南", "西", "北"}
)

// Next returns the seat that plays after s.
func (s Seat) Next() Seat {
	return (s + 1) % NumSeats
}

// Valid reports whether s is in [0, NumSeats).
func (s Seat) Valid() bool {
	return s >= 0 && s < NumSeats
}

// Wind returns the seat wind name (East, South, West, North).
func (s Seat) Wind() string {
	if !s.Valid() {
		return "Unknown"
	}
	return windNames[s]
}

// Glyph returns the CJK wind character for the seat.
func (s Seat) Glyph() string {
	if !s.Valid() {
		return "?"
	}
	return windGlyphs[s]
}

// String returns a human-readable seat label.
func (s Seat) String() string {
	return fmt.Sprintf("%d(%s)", int(s), s.Wind())
}
