package game

import (
	"fmt"

	"SjavsClient/internal/deck"
	"SjavsClient/internal/gateway"
	"SjavsClient/internal/layout"
	"SjavsClient/internal/meld"
)

// Slot is one of the four rotated table positions, ready for display.
type Slot struct {
	Seat      layout.Seat
	Name      string
	Card      deck.Card // empty when the seat shows no card
	Turn      bool
	Me        bool
	Highlight bool
}

// MeldView mirrors the declaration coordinator for display.
type MeldView struct {
	State    meld.State
	Value    int
	Suits    []deck.Suit
	HasValue bool
}

// View is the render-ready projection of everything the loop knows. It is
// rebuilt wholesale on every merge; renderers must not hold on to it across
// ticks.
type View struct {
	Phase       string
	Trump       deck.Suit
	Scoreboard  map[string]int
	Players     []gateway.Player
	CurrentTurn layout.Seat
	MyTurn      bool
	Hand        []deck.Card
	Slots       map[layout.Position]Slot
	Meld        MeldView
	DealActions bool
}

func (l *Loop) buildView() View {
	now := l.sched.Now()

	occupied := make(map[layout.Seat]bool, len(l.players))
	names := make(map[layout.Seat]string, len(l.players))
	for _, p := range l.players {
		occupied[layout.Seat(p.ID)] = true
		names[layout.Seat(p.ID)] = p.Name
	}

	// Optimistic entries were already pruned during the merge, so composing
	// here can never resurrect a stale prediction.
	cards := l.tracker.Compose(l.reported, now)

	slots := make(map[layout.Position]Slot, layout.NumSeats)
	for pos, seat := range layout.Rotate(l.seat, occupied) {
		name := names[seat]
		if name == "" {
			name = fmt.Sprintf("Seat %d", seat)
		}
		s := Slot{
			Seat: seat,
			Name: name,
			Card: cards[seat],
			Turn: occupied[seat] && seat == l.currentTurn,
			Me:   seat == l.seat,
		}
		if s.Card != "" && seat == l.lastWinner && now.Before(l.highlightUntil) {
			s.Highlight = true
		}
		slots[pos] = s
	}

	myTurn := l.seat == l.currentTurn
	mv := MeldView{State: l.meld.State()}
	if best, ok := l.meld.Best(); ok {
		mv.HasValue = true
		mv.Value = best.Value
		mv.Suits = best.Suits
	}

	return View{
		Phase:       l.phase,
		Trump:       l.trump,
		Scoreboard:  l.scoreboard,
		Players:     l.players,
		CurrentTurn: l.currentTurn,
		MyTurn:      myTurn,
		Hand:        append([]deck.Card(nil), l.hand...),
		Slots:       slots,
		Meld:        mv,
		DealActions: l.phase == "deal" && myTurn,
	}
}
