package game

import (
	"fmt"
	"time"

	"github.com/pokernow/analyzer/internal/deck"
)

// SeatInfo captures a player's state at the start of a hand, taken from the
// "Player stacks" snapshot the log prints before the blinds.
type SeatInfo struct {
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	Stack    float64 `json:"stack"`
	Position int     `json:"position"`
}

// Hand is one complete hand of play reconstructed from the log. It is
// mutated by the builder while open and frozen once the next hand starts;
// only the identity merger rewrites its keys afterwards.
type Hand struct {
	ID        string    `json:"hand_id"`
	Number    int       `json:"hand_number"`
	Timestamp time.Time `json:"timestamp"`

	Dealer  *Identity           `json:"dealer,omitempty"`
	Players map[string]SeatInfo `json:"players"`

	SmallBlind float64 `json:"small_blind"`
	BigBlind   float64 `json:"big_blind"`

	Flop  []deck.Card `json:"flop"`
	Turn  *deck.Card  `json:"turn,omitempty"`
	River *deck.Card  `json:"river,omitempty"`

	Actions   map[Street][]Action    `json:"actions"`
	Showdowns map[string][]deck.Card `json:"showdowns"`

	// PotSize tracks the largest single collected amount. Side pots are not
	// modeled separately; the max collect is the pot for analysis purposes.
	PotSize float64            `json:"pot_size"`
	Winners map[string]float64 `json:"winners"`
}

// NewHand creates an open hand for the builder to accumulate events into.
func NewHand(id string, number int, timestamp time.Time, dealer *Identity) *Hand {
	return &Hand{
		ID:        id,
		Number:    number,
		Timestamp: timestamp,
		Dealer:    dealer,
		Players:   make(map[string]SeatInfo),
		Actions: map[Street][]Action{
			StreetPreflop: {},
			StreetFlop:    {},
			StreetTurn:    {},
			StreetRiver:   {},
		},
		Showdowns: make(map[string][]deck.Card),
		Winners:   make(map[string]float64),
	}
}

// AddPlayer registers a seated player and their starting stack.
func (h *Hand) AddPlayer(id Identity, stack float64, position int) {
	h.Players[id.Key()] = SeatInfo{
		Name:     id.Name,
		ID:       id.ID,
		Stack:    stack,
		Position: position,
	}
}

// AddAction appends an action to its street's ordered list.
func (h *Hand) AddAction(a Action) {
	h.Actions[a.Street] = append(h.Actions[a.Street], a)
}

// SetWinner records a pot collection. The pot size is the running maximum of
// collected amounts, not the sum, since the log reports each pot separately.
func (h *Hand) SetWinner(id Identity, amount float64) {
	h.Winners[id.Key()] = amount
	if amount > h.PotSize {
		h.PotSize = amount
	}
}

// AddShowdown records cards a player revealed at showdown.
func (h *Hand) AddShowdown(id Identity, cards []deck.Card) {
	h.Showdowns[id.Key()] = cards
}

// Board returns the full community board dealt so far.
func (h *Hand) Board() []deck.Card {
	board := append([]deck.Card(nil), h.Flop...)
	if h.Turn != nil {
		board = append(board, *h.Turn)
	}
	if h.River != nil {
		board = append(board, *h.River)
	}
	return board
}

// WentToFlop reports whether the hand reached the flop.
func (h *Hand) WentToFlop() bool { return len(h.Flop) > 0 }

// WentToTurn reports whether the hand reached the turn.
func (h *Hand) WentToTurn() bool { return h.Turn != nil }

// WentToRiver reports whether the hand reached the river.
func (h *Hand) WentToRiver() bool { return h.River != nil }

// WentToShowdown reports whether any player revealed cards.
func (h *Hand) WentToShowdown() bool { return len(h.Showdowns) > 0 }

// ActionsBy returns all of a player's actions in street order.
func (h *Hand) ActionsBy(key string) []Action {
	var out []Action
	for _, street := range Streets {
		for _, a := range h.Actions[street] {
			if a.Key() == key {
				out = append(out, a)
			}
		}
	}
	return out
}

// FoldedBy reports whether the player folded at or before the given street.
func (h *Hand) FoldedBy(key string, before Street) bool {
	for _, street := range Streets {
		if street == before {
			return false
		}
		for _, a := range h.Actions[street] {
			if a.Key() == key && a.Kind == ActionFold {
				return true
			}
		}
	}
	return false
}

// PlayerVPIP reports whether the player voluntarily put chips in preflop.
func (h *Hand) PlayerVPIP(key string) bool {
	for _, a := range h.Actions[StreetPreflop] {
		if a.Key() == key && a.Kind.IsVoluntary() {
			return true
		}
	}
	return false
}

// PlayerPFR reports whether the player raised preflop.
func (h *Hand) PlayerPFR(key string) bool {
	for _, a := range h.Actions[StreetPreflop] {
		if a.Key() == key && (a.Kind == ActionRaise || a.Kind == ActionBet) {
			return true
		}
	}
	return false
}

func (h *Hand) String() string {
	return fmt.Sprintf("Hand #%d (%s): %d players, pot %.1f", h.Number, h.ID, len(h.Players), h.PotSize)
}
