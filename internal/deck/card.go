package deck

import "sort"

// Card is the two-character wire code: value then suit, e.g. "AS" or "tc".
// Values run A K Q J T 9 8 7, suits are C D H S.
type Card string

type Suit byte

const (
	Clubs    Suit = 'C'
	Diamonds Suit = 'D'
	Hearts   Suit = 'H'
	Spades   Suit = 'S'
	NoSuit   Suit = 0
)

// Display order when no trump is set. The trump suit moves to the front.
var baseSuitOrder = []Suit{Spades, Hearts, Diamonds, Clubs}

var valueOrder = []byte{'A', 'K', 'Q', 'J', 'T', '9', '8', '7'}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func (c Card) Value() byte {
	if len(c) < 1 {
		return 0
	}
	return upper(c[0])
}

func (c Card) Suit() Suit {
	if len(c) < 2 {
		return NoSuit
	}
	return Suit(upper(c[1]))
}

// ParseSuit reads a single-letter suit, tolerating lower case. Anything
// outside C/D/H/S comes back as NoSuit.
func ParseSuit(s string) Suit {
	if len(s) == 0 {
		return NoSuit
	}
	switch Suit(upper(s[0])) {
	case Clubs:
		return Clubs
	case Diamonds:
		return Diamonds
	case Hearts:
		return Hearts
	case Spades:
		return Spades
	}
	return NoSuit
}

func valueRank(v byte) int {
	for i, o := range valueOrder {
		if o == v {
			return i
		}
	}
	// Unknown values sort after every real one.
	return len(valueOrder)
}

func suitRank(s Suit, trump Suit) int {
	rank := 0
	if trump != NoSuit {
		if s == trump {
			return 0
		}
		rank = 1
	}
	for _, o := range baseSuitOrder {
		if o == trump {
			continue
		}
		if o == s {
			return rank
		}
		rank++
	}
	return rank
}

// Sort orders a hand for display: trump suit first when set, otherwise
// S H D C, Ace high within each suit. The input slice is left untouched.
func Sort(hand []Card, trump Suit) []Card {
	out := make([]Card, len(hand))
	copy(out, hand)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := suitRank(out[i].Suit(), trump), suitRank(out[j].Suit(), trump)
		if si != sj {
			return si < sj
		}
		return valueRank(out[i].Value()) < valueRank(out[j].Value())
	})
	return out
}
