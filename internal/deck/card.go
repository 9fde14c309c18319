// Package deck provides playing card types shared by the log parser and the
// hand model. Cards are parsed from the unicode notation PokerNow prints
// (e.g. "10♥", "A♠") and render back to the same notation.
package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank. Ten renders as "10" to
// match the PokerNow log notation rather than the shorthand "T".
func (r Rank) String() string {
	switch r {
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return string(rune('0' + int(r)))
		}
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Value returns the numeric value of the card for comparison. Aces are high.
func (c Card) Value() int {
	return int(c.Rank)
}

// suitRunes maps every suit symbol the log may emit to a Suit. The hollow
// variants appear when a table uses the four-color deck setting.
var suitRunes = map[rune]Suit{
	'♠': Spades, '♤': Spades,
	'♥': Hearts, '♡': Hearts,
	'♦': Diamonds, '♢': Diamonds,
	'♣': Clubs, '♧': Clubs,
}

// ParseSuit converts a suit symbol to a Suit, normalizing hollow variants.
func ParseSuit(r rune) (Suit, bool) {
	s, ok := suitRunes[r]
	return s, ok
}

// ParseRank converts a rank token ("2".."10", "J", "Q", "K", "A") to a Rank.
func ParseRank(s string) (Rank, bool) {
	switch s {
	case "10":
		return Ten, true
	case "J":
		return Jack, true
	case "Q":
		return Queen, true
	case "K":
		return King, true
	case "A":
		return Ace, true
	default:
		if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
			return Rank(s[0] - '0'), true
		}
		return 0, false
	}
}

// ParseCard parses a card in log notation, e.g. "10♥" or "A♤".
func ParseCard(s string) (Card, error) {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("card %q too short", s)
	}
	suit, ok := ParseSuit(runes[len(runes)-1])
	if !ok {
		return Card{}, fmt.Errorf("card %q has unknown suit %q", s, string(runes[len(runes)-1]))
	}
	rank, ok := ParseRank(string(runes[:len(runes)-1]))
	if !ok {
		return Card{}, fmt.Errorf("card %q has unknown rank %q", s, string(runes[:len(runes)-1]))
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MarshalText implements encoding.TextMarshaler so cards serialize as "A♠".
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Card) UnmarshalText(text []byte) error {
	card, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = card
	return nil
}
