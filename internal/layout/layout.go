// Package layout maps absolute table seats onto the four visual positions,
// rotated so the local player always sits near.
package layout

// Seat is the absolute table slot, 1..4, fixed for the life of a table.
type Seat int

type Position string

const (
	Near  Position = "near"
	Left  Position = "left"
	Far   Position = "far"
	Right Position = "right"
)

const NumSeats = 4

// Rotate produces the position→seat bijection for all four seats: the anchor
// seat sits near, the rest follow in clockwise turn order (left, far, right).
// The anchor is the local seat when it is occupied; otherwise the first
// occupied seat; otherwise the local seat itself, falling back to seat 1.
// Pure function of its arguments, so repeated renders cannot drift.
func Rotate(local Seat, occupied map[Seat]bool) map[Position]Seat {
	anchor := Seat(0)
	if local >= 1 && local <= NumSeats && occupied[local] {
		anchor = local
	} else {
		for s := Seat(1); s <= NumSeats; s++ {
			if occupied[s] {
				anchor = s
				break
			}
		}
	}
	if anchor == 0 {
		anchor = local
	}
	if anchor < 1 || anchor > NumSeats {
		anchor = 1
	}

	out := make(map[Position]Seat, NumSeats)
	for s := Seat(1); s <= NumSeats; s++ {
		switch ((s - anchor) + NumSeats) % NumSeats {
		case 0:
			out[Near] = s
		case 1:
			out[Left] = s
		case 2:
			out[Far] = s
		case 3:
			out[Right] = s
		}
	}
	return out
}
