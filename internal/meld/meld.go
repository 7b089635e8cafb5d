// Package meld drives the declaration sub-protocol: ask the authority for
// the hand's best combination, then answer the follow-up suit question
// automatically once the player has declared.
package meld

import (
	"regexp"
	"strconv"

	"SjavsClient/internal/deck"
)

// DeclareThreshold is the lowest combination value worth declaring.
const DeclareThreshold = 5

// PhaseDeclaration is the authority's phase name this package keys off.
const PhaseDeclaration = "declaration"

// Result is the parsed best-combination reply.
type Result struct {
	Value int
	Suits []deck.Suit
}

var bestPattern = regexp.MustCompile(`^(\d+)([A-Za-z]*)`)

// Parse reads the authority's reply: a leading integer followed by the suit
// letters the value is achievable in, e.g. "6CD". ok is false when no
// leading integer is present; parsing never fails harder than that.
func Parse(msg string) (Result, bool) {
	m := bestPattern.FindStringSubmatch(msg)
	if m == nil {
		return Result{}, false
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		// Only reachable on absurdly long digit runs; treat as unparseable.
		return Result{}, false
	}
	res := Result{Value: value}
	for i := 0; i < len(m[2]); i++ {
		if s := deck.ParseSuit(m[2][i : i+1]); s != deck.NoSuit {
			res.Suits = append(res.Suits, s)
		}
	}
	return res, true
}

// preferredSuit picks clubs when available, else the first candidate.
func preferredSuit(suits []deck.Suit) deck.Suit {
	for _, s := range suits {
		if s == deck.Clubs {
			return s
		}
	}
	if len(suits) > 0 {
		return suits[0]
	}
	return deck.NoSuit
}

// State is the coordinator's externally visible position in the protocol.
type State string

const (
	StateIdle         State = "idle"
	StateRequested    State = "requested"
	StateNoMeld       State = "ready-no-meld"
	StateAwaitingSuit State = "ready-awaiting-suit"
	StateDeclarable   State = "ready-declarable"
)

// Coordinator tracks one hand's declaration round trip. It never talks to
// the network itself; the reconciliation loop asks it what to send and
// feeds results back, so every transition is synchronous and total.
type Coordinator struct {
	requested    bool
	ready        bool
	hasValue     bool
	value        int
	suits        []deck.Suit
	pendingSuit  deck.Suit
	autoSuitSent bool
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

func (c *Coordinator) State() State {
	switch {
	case !c.requested:
		return StateIdle
	case !c.ready:
		return StateRequested
	case c.pendingSuit != deck.NoSuit && !c.autoSuitSent:
		return StateAwaitingSuit
	case c.hasValue && c.value >= DeclareThreshold:
		return StateDeclarable
	default:
		return StateNoMeld
	}
}

// Best reports the parsed combination once a well-formed reply has arrived.
func (c *Coordinator) Best() (Result, bool) {
	if !c.ready || !c.hasValue {
		return Result{}, false
	}
	return Result{Value: c.value, Suits: c.suits}, true
}

func (c *Coordinator) PendingSuit() (deck.Suit, bool) {
	return c.pendingSuit, c.pendingSuit != deck.NoSuit
}

func (c *Coordinator) AutoSuitSent() bool {
	return c.autoSuitSent
}

// ShouldRequest reports whether a best-combination query should go out now:
// declaration phase, the local player's turn, a dealt hand, a full table,
// and no request already outstanding.
func (c *Coordinator) ShouldRequest(phase string, myTurn bool, handSize, playerCount int) bool {
	if c.requested || phase != PhaseDeclaration || !myTurn {
		return false
	}
	return handSize >= 5 && playerCount >= 4
}

// MarkRequested records that the query is in flight.
func (c *Coordinator) MarkRequested() {
	c.requested = true
	c.ready = false
}

// RequestFailed reverts to idle so the next snapshot can retry.
func (c *Coordinator) RequestFailed() {
	c.requested = false
	c.ready = false
}

// HandleResult applies the authority's reply. A malformed reply still counts
// as received and degrades to the no-meld display state.
func (c *Coordinator) HandleResult(msg string) {
	c.ready = true
	res, ok := Parse(msg)
	if !ok {
		c.hasValue = false
		c.value = 0
		c.suits = nil
		return
	}
	c.hasValue = true
	c.value = res.Value
	c.suits = res.Suits
	if res.Value >= DeclareThreshold {
		c.pendingSuit = preferredSuit(res.Suits)
		c.autoSuitSent = false
	} else {
		c.pendingSuit = deck.NoSuit
	}
}

// AutoSuit reports the suit-selection command to emit, if any: declaration
// phase, local turn, no trump established, a pending suit not yet sent.
// Emitting marks the suit sent and clears it, so it fires exactly once.
func (c *Coordinator) AutoSuit(phase string, trumpSet, myTurn bool) (deck.Suit, bool) {
	if c.pendingSuit == deck.NoSuit || c.autoSuitSent {
		return deck.NoSuit, false
	}
	if phase != PhaseDeclaration || trumpSet || !myTurn {
		return deck.NoSuit, false
	}
	suit := c.pendingSuit
	c.autoSuitSent = true
	c.pendingSuit = deck.NoSuit
	return suit, true
}

// Declare arms the suit auto-send and returns the value to declare. Valid
// only in the declarable state on the local player's turn.
func (c *Coordinator) Declare(myTurn bool) (int, bool) {
	if !myTurn || c.State() != StateDeclarable {
		return 0, false
	}
	c.pendingSuit = preferredSuit(c.suits)
	c.autoSuitSent = false
	return c.value, true
}

// Pass gives up the declaration. Valid in any ready state on the local turn.
func (c *Coordinator) Pass(myTurn bool) bool {
	if !myTurn || !c.ready {
		return false
	}
	c.pendingSuit = deck.NoSuit
	c.autoSuitSent = false
	return true
}

// EnterDeal resets everything for the next hand.
func (c *Coordinator) EnterDeal() {
	*c = Coordinator{}
}

// LeaveDeclaration clears the suit round-trip fields but keeps the computed
// best value and suits on screen until the next deal.
func (c *Coordinator) LeaveDeclaration() {
	c.pendingSuit = deck.NoSuit
	c.autoSuitSent = false
}
