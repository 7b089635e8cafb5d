// Package table holds the display-only table state that precedes or outlives
// the authoritative table cards: the local player's optimistic play, and the
// just-finished trick that the authority has already cleared.
package table

import (
	"time"

	"SjavsClient/internal/deck"
	"SjavsClient/internal/layout"
)

type Tracker struct {
	recent       map[layout.Seat]deck.Card
	recentExpire time.Time
	optimistic   map[layout.Seat]deck.Card
}

func NewTracker() *Tracker {
	return &Tracker{
		recent:     make(map[layout.Seat]deck.Card),
		optimistic: make(map[layout.Seat]deck.Card),
	}
}

// RecordOptimistic inserts the local player's predicted card so the table
// shows it before the next snapshot confirms the play.
func (t *Tracker) RecordOptimistic(seat layout.Seat, card deck.Card) {
	t.optimistic[seat] = card
}

// Prune drops the optimistic entry for every seat the authority reported a
// table card for. Confirmed data wins over prediction, even when the
// reported card differs from the predicted one.
func (t *Tracker) Prune(reported map[layout.Seat]deck.Card) {
	for seat := range reported {
		delete(t.optimistic, seat)
	}
}

// SetRecent replaces the recent trick wholesale from a snapshot. The tracker
// never merges across snapshots; it only holds the latest report.
func (t *Tracker) SetRecent(cards map[layout.Seat]deck.Card, expire time.Time) {
	t.recent = make(map[layout.Seat]deck.Card, len(cards))
	for seat, card := range cards {
		t.recent[seat] = card
	}
	t.recentExpire = expire
}

// Compose builds the seat→card set to display. Authoritative table cards win
// outright; with an empty table the recent trick substitutes until its expiry
// (checked against now, so delayed renders age out correctly); optimistic
// entries fill any seat still showing nothing.
func (t *Tracker) Compose(reported map[layout.Seat]deck.Card, now time.Time) map[layout.Seat]deck.Card {
	out := make(map[layout.Seat]deck.Card, layout.NumSeats)
	for seat, card := range reported {
		out[seat] = card
	}
	if len(out) == 0 && len(t.recent) > 0 && now.Before(t.recentExpire) {
		for seat, card := range t.recent {
			out[seat] = card
		}
	}
	for seat, card := range t.optimistic {
		if _, ok := out[seat]; !ok {
			out[seat] = card
		}
	}
	return out
}

// Reset clears optimistic plays. Called on entry to the deal phase.
func (t *Tracker) Reset() {
	t.optimistic = make(map[layout.Seat]deck.Card)
}
