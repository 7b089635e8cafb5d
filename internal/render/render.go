// Package render draws the table view for a terminal. Purely presentational;
// everything it shows comes out of a game.View.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"SjavsClient/internal/deck"
	"SjavsClient/internal/game"
	"SjavsClient/internal/layout"
	"SjavsClient/internal/meld"
)

var (
	warmCard = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	coldCard = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB"))
	turnName = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Bold(true)
	meName   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Bold(true)
	winGlow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")).Reverse(true)
	dimText  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	slotBox  = lipgloss.NewStyle().Width(20).Align(lipgloss.Center)
)

// Faroese suit names, as the table shows them.
var trumpNames = map[deck.Suit]string{
	deck.Clubs:    "♣ Kleyvari",
	deck.Diamonds: "♦ Rútari",
	deck.Hearts:   "♥ Hjartari",
	deck.Spades:   "♠ Spaðari",
}

func CardText(c deck.Card) string {
	glyph, warm := deck.Glyph(c)
	if warm {
		return warmCard.Render(glyph)
	}
	return coldCard.Render(glyph)
}

func TrumpText(s deck.Suit) string {
	if s == deck.NoSuit {
		return "Trump: —"
	}
	name, ok := trumpNames[s]
	if !ok {
		name = deck.SuitSymbol(s)
	}
	return "Trump: " + name
}

func scoreboardLine(board map[string]int) string {
	if len(board) == 0 {
		return ""
	}
	teams := make([]string, 0, len(board))
	for team := range board {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	parts := make([]string, 0, len(teams))
	for _, team := range teams {
		parts = append(parts, fmt.Sprintf("%s: %d", team, board[team]))
	}
	return strings.Join(parts, "   ")
}

func slotText(s game.Slot) string {
	name := s.Name
	switch {
	case s.Me:
		name = meName.Render(name)
	case s.Turn:
		name = turnName.Render(name)
	}
	card := " "
	if s.Card != "" {
		if s.Highlight {
			glyph, _ := deck.Glyph(s.Card)
			card = winGlow.Render(glyph)
		} else {
			card = CardText(s.Card)
		}
	}
	return slotBox.Render(name + "\n" + card)
}

func handLine(hand []deck.Card) string {
	if len(hand) == 0 {
		return dimText.Render("No cards available.")
	}
	parts := make([]string, 0, len(hand))
	for _, c := range hand {
		parts = append(parts, CardText(c)+" "+string(c))
	}
	return strings.Join(parts, "  ")
}

func meldLine(v game.View) string {
	if v.Phase != meld.PhaseDeclaration {
		return ""
	}
	m := v.Meld
	switch m.State {
	case meld.StateIdle:
		return dimText.Render("Awaiting cards...")
	case meld.StateRequested:
		return dimText.Render("Calculating meld...")
	case meld.StateAwaitingSuit:
		return fmt.Sprintf("Declared %d %s – waiting for confirmation.", m.Value, suitSymbols(m.Suits))
	case meld.StateDeclarable:
		return fmt.Sprintf("Best meld: %d %s (declare or pass)", m.Value, suitSymbols(m.Suits))
	default:
		return "No meld of 5 or more."
	}
}

func suitSymbols(suits []deck.Suit) string {
	parts := make([]string, 0, len(suits))
	for _, s := range suits {
		parts = append(parts, deck.SuitSymbol(s))
	}
	return strings.Join(parts, " ")
}

func playersLines(v game.View) []string {
	lines := make([]string, 0, len(v.Players))
	for _, p := range v.Players {
		mark := "✔"
		if !p.OK {
			mark = "✖"
		}
		line := fmt.Sprintf("%d: %s %s %.1fs", p.ID, p.Name, mark, p.Ping)
		if layout.Seat(p.ID) == v.CurrentTurn {
			line = turnName.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

// Table renders the whole view as one block of text.
func Table(v game.View) string {
	var b strings.Builder

	header := fmt.Sprintf("Phase: %s   %s", v.Phase, TrumpText(v.Trump))
	if score := scoreboardLine(v.Scoreboard); score != "" {
		header += "   " + score
	}
	b.WriteString(header + "\n\n")

	empty := slotBox.Render("")
	b.WriteString(lipgloss.JoinVertical(lipgloss.Center,
		slotText(v.Slots[layout.Far]),
		lipgloss.JoinHorizontal(lipgloss.Center,
			slotText(v.Slots[layout.Left]), empty, slotText(v.Slots[layout.Right])),
		slotText(v.Slots[layout.Near]),
	))
	b.WriteString("\n\nHand: " + handLine(v.Hand))

	if line := meldLine(v); line != "" {
		b.WriteString("\n" + line)
	}
	if v.DealActions {
		b.WriteString("\n" + dimText.Render("Deal actions available: split <10-22> | banka"))
	}
	if len(v.Players) > 0 {
		b.WriteString("\n\n" + strings.Join(playersLines(v), "\n"))
	}
	return b.String()
}
