package meld

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"SjavsClient/internal/deck"
)

func Test_Parse(t *testing.T) {
	res, ok := Parse("6CD")
	assert.True(t, ok)
	assert.Equal(t, 6, res.Value)
	assert.Equal(t, []deck.Suit{deck.Clubs, deck.Diamonds}, res.Suits)

	res, ok = Parse("0")
	assert.True(t, ok)
	assert.Equal(t, 0, res.Value)
	assert.Empty(t, res.Suits)

	res, ok = Parse("12s")
	assert.True(t, ok)
	assert.Equal(t, 12, res.Value)
	assert.Equal(t, []deck.Suit{deck.Spades}, res.Suits)

	// Trailing noise after the suits is tolerated, as in "6CD something".
	res, ok = Parse("6CD extra")
	assert.True(t, ok)
	assert.Equal(t, 6, res.Value)
}

func Test_Parse_Unparseable(t *testing.T) {
	for _, msg := range []string{"", "no meld", "CD6", "error: not your turn"} {
		_, ok := Parse(msg)
		assert.False(t, ok, "expected %q to be unparseable", msg)
	}
}

func Test_RequestEntryCondition(t *testing.T) {
	c := NewCoordinator()
	assert.Equal(t, StateIdle, c.State())

	// All conditions met.
	assert.True(t, c.ShouldRequest(PhaseDeclaration, true, 8, 4))

	// Each condition individually broken.
	assert.False(t, c.ShouldRequest("trick", true, 8, 4))
	assert.False(t, c.ShouldRequest(PhaseDeclaration, false, 8, 4))
	assert.False(t, c.ShouldRequest(PhaseDeclaration, true, 4, 4))
	assert.False(t, c.ShouldRequest(PhaseDeclaration, true, 8, 3))

	// Outstanding request blocks a second one.
	c.MarkRequested()
	assert.Equal(t, StateRequested, c.State())
	assert.False(t, c.ShouldRequest(PhaseDeclaration, true, 8, 4))
}

func Test_RequestFailureRevertsToIdle(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.RequestFailed()
	assert.Equal(t, StateIdle, c.State())
	assert.True(t, c.ShouldRequest(PhaseDeclaration, true, 8, 4))
}

func Test_DeclarationRoundTrip(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("6CD")

	best, ok := c.Best()
	assert.True(t, ok)
	assert.Equal(t, 6, best.Value)
	assert.Equal(t, []deck.Suit{deck.Clubs, deck.Diamonds}, best.Suits)

	// Clubs preferred over diamonds.
	suit, ok := c.PendingSuit()
	assert.True(t, ok)
	assert.Equal(t, deck.Clubs, suit)
	assert.Equal(t, StateAwaitingSuit, c.State())

	// Still our turn, no trump yet: suit command fires exactly once.
	emit, ok := c.AutoSuit(PhaseDeclaration, false, true)
	assert.True(t, ok)
	assert.Equal(t, deck.Clubs, emit)
	assert.True(t, c.AutoSuitSent())

	_, ok = c.AutoSuit(PhaseDeclaration, false, true)
	assert.False(t, ok)
	assert.Equal(t, StateDeclarable, c.State())
}

func Test_PreferredSuitWithoutClubs(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("7HS")
	suit, ok := c.PendingSuit()
	assert.True(t, ok)
	assert.Equal(t, deck.Hearts, suit)
}

func Test_NoMeldResponse(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("0")
	assert.Equal(t, StateNoMeld, c.State())

	_, ok := c.PendingSuit()
	assert.False(t, ok)
	_, ok = c.AutoSuit(PhaseDeclaration, false, true)
	assert.False(t, ok)
}

func Test_MalformedResponseDegradesToNoMeld(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("???")
	assert.Equal(t, StateNoMeld, c.State())
	_, ok := c.Best()
	assert.False(t, ok)
}

func Test_AutoSuitGates(t *testing.T) {
	fresh := func() *Coordinator {
		c := NewCoordinator()
		c.MarkRequested()
		c.HandleResult("6C")
		return c
	}

	_, ok := fresh().AutoSuit("trick", false, true)
	assert.False(t, ok)
	_, ok = fresh().AutoSuit(PhaseDeclaration, true, true)
	assert.False(t, ok)
	_, ok = fresh().AutoSuit(PhaseDeclaration, false, false)
	assert.False(t, ok)

	// A blocked attempt must not consume the pending suit.
	c := fresh()
	_, _ = c.AutoSuit(PhaseDeclaration, false, false)
	suit, ok := c.AutoSuit(PhaseDeclaration, false, true)
	assert.True(t, ok)
	assert.Equal(t, deck.Clubs, suit)
}

func Test_DeclareRearmsSuit(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("6CD")
	_, _ = c.AutoSuit(PhaseDeclaration, false, true)
	assert.Equal(t, StateDeclarable, c.State())

	value, ok := c.Declare(true)
	assert.True(t, ok)
	assert.Equal(t, 6, value)
	assert.Equal(t, StateAwaitingSuit, c.State())

	suit, ok := c.AutoSuit(PhaseDeclaration, false, true)
	assert.True(t, ok)
	assert.Equal(t, deck.Clubs, suit)
}

func Test_DeclareGuards(t *testing.T) {
	c := NewCoordinator()
	_, ok := c.Declare(true)
	assert.False(t, ok)

	c.MarkRequested()
	c.HandleResult("4C")
	_, ok = c.Declare(true)
	assert.False(t, ok, "below-threshold value is not declarable")

	c2 := NewCoordinator()
	c2.MarkRequested()
	c2.HandleResult("6C")
	_, _ = c2.AutoSuit(PhaseDeclaration, false, true)
	_, ok = c2.Declare(false)
	assert.False(t, ok, "not our turn")
}

func Test_PassClearsSuitRoundTrip(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("6CD")

	assert.False(t, c.Pass(false))
	assert.True(t, c.Pass(true))
	_, ok := c.PendingSuit()
	assert.False(t, ok)
	_, ok = c.AutoSuit(PhaseDeclaration, false, true)
	assert.False(t, ok)
}

func Test_LeaveDeclarationKeepsBest(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("6CD")

	c.LeaveDeclaration()
	_, ok := c.PendingSuit()
	assert.False(t, ok)
	assert.False(t, c.AutoSuitSent())

	best, ok := c.Best()
	assert.True(t, ok)
	assert.Equal(t, 6, best.Value)
}

func Test_EnterDealResetsEverything(t *testing.T) {
	c := NewCoordinator()
	c.MarkRequested()
	c.HandleResult("6CD")

	c.EnterDeal()
	assert.Equal(t, StateIdle, c.State())
	_, ok := c.Best()
	assert.False(t, ok)
	assert.True(t, c.ShouldRequest(PhaseDeclaration, true, 8, 4))
}
