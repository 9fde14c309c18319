package game

import "time"

// Street represents a betting street
type Street string

const (
	StreetPreflop Street = "preflop"
	StreetFlop    Street = "flop"
	StreetTurn    Street = "turn"
	StreetRiver   Street = "river"
)

// Streets lists the betting streets in play order.
var Streets = []Street{StreetPreflop, StreetFlop, StreetTurn, StreetRiver}

// ActionKind represents the kind of action a player took
type ActionKind string

const (
	ActionFold       ActionKind = "fold"
	ActionCheck      ActionKind = "check"
	ActionCall       ActionKind = "call"
	ActionBet        ActionKind = "bet"
	ActionRaise      ActionKind = "raise"
	ActionAllIn      ActionKind = "all_in"
	ActionSmallBlind ActionKind = "small_blind"
	ActionBigBlind   ActionKind = "big_blind"
)

// IsAggressive returns true for actions that put chips in voluntarily and
// apply pressure (bet, raise, all-in). Blinds are not aggressive.
func (k ActionKind) IsAggressive() bool {
	return k == ActionBet || k == ActionRaise || k == ActionAllIn
}

// IsPassive returns true for calls. Checks are deliberately excluded so the
// aggression factor matches the conventional definition.
func (k ActionKind) IsPassive() bool {
	return k == ActionCall
}

// IsBlind returns true for forced blind posts.
func (k ActionKind) IsBlind() bool {
	return k == ActionSmallBlind || k == ActionBigBlind
}

// IsVoluntary returns true for actions that voluntarily commit chips
// (call, bet, raise, all-in), the VPIP condition.
func (k ActionKind) IsVoluntary() bool {
	return k == ActionCall || k.IsAggressive()
}

// Action records one player action on one street of one hand. Amount is 0
// for non-committing actions (fold, check).
type Action struct {
	Kind      ActionKind `json:"action_type"`
	Player    Identity   `json:"player"`
	Amount    float64    `json:"amount"`
	Street    Street     `json:"street"`
	Timestamp time.Time  `json:"timestamp"`
}

// Key returns the acting player's "name @ id" key.
func (a Action) Key() string {
	return a.Player.Key()
}
