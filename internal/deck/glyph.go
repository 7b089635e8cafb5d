package deck

// Unicode playing-card block bases per suit (U+1F0A0..).
var glyphBase = map[Suit]rune{
	Spades:   0x1F0A0,
	Hearts:   0x1F0B0,
	Diamonds: 0x1F0C0,
	Clubs:    0x1F0D0,
}

var glyphOffset = map[byte]rune{
	'A': 0x1,
	'K': 0xE,
	'Q': 0xD,
	'J': 0xB,
	'T': 0xA,
	'9': 0x9,
	'8': 0x8,
	'7': 0x7,
}

// Glyph maps a card to its playing-card glyph and whether it renders in a
// warm color (hearts and diamonds). Malformed codes fall back to the raw
// value plus a suit symbol; display formatting never fails.
func Glyph(c Card) (string, bool) {
	if len(c) < 2 {
		return string(c), false
	}
	v := c.Value()
	s := c.Suit()
	warm := s == Hearts || s == Diamonds
	base, okBase := glyphBase[s]
	off, okOff := glyphOffset[v]
	if okBase && okOff {
		return string(base + off), warm
	}
	return string(rune(v)) + SuitSymbol(s), warm
}

func SuitSymbol(s Suit) string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	}
	return string(rune(s))
}
