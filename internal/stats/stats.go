// Package stats derives per-player poker statistics from reconstructed
// hands. Counters are accumulated by replaying hand action lists; the
// percentage and ratio metrics are computed on demand from the counters so
// partially merged datasets stay correct.
package stats

import (
	"github.com/pokernow/analyzer/internal/game"
)

// PlayerStatistics holds raw opportunity/occurrence counters for one
// player. All derived metrics are methods so that counters from several
// datasets can be summed before deriving.
type PlayerStatistics struct {
	Name string `json:"name"`
	ID   string `json:"player_id"`

	HandsPlayed int `json:"hands_played"`
	VPIPHands   int `json:"vpip_hands"`
	PFRHands    int `json:"pfr_hands"`

	ThreeBets    int `json:"three_bets"`
	ThreeBetOpps int `json:"three_bet_opportunities"`

	CBets          int `json:"cbets"`
	CBetOpps       int `json:"cbet_opportunities"`
	FoldsToCBet    int `json:"folds_to_cbet"`
	FoldToCBetOpps int `json:"fold_to_cbet_opportunities"`

	StealAttempts int `json:"steal_attempts"`
	StealOpps     int `json:"steal_opportunities"`

	SawFlop  int `json:"saw_flop"`
	SawTurn  int `json:"saw_turn"`
	SawRiver int `json:"saw_river"`

	Showdowns     int     `json:"showdowns"`
	ShowdownsWon  int     `json:"showdowns_won"`
	HandsWon      int     `json:"hands_won"`
	TotalWinnings float64 `json:"total_winnings"`

	AggressiveActions int `json:"aggressive_actions"`
	PassiveActions    int `json:"passive_actions"`

	PreflopFolds  int `json:"preflop_folds"`
	PostflopFolds int `json:"postflop_folds"`

	// BigBlindsNet is profit expressed in big blinds, summed over the hands
	// where both the blind size and the hand profit were known.
	BigBlindsNet  float64 `json:"big_blinds_net"`
	BigBlindHands int     `json:"big_blind_hands"`
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// VPIP is the percentage of hands where the player voluntarily put chips
// in preflop. Blinds alone do not count.
func (s *PlayerStatistics) VPIP() float64 { return pct(s.VPIPHands, s.HandsPlayed) }

// PFR is the percentage of hands where the player raised preflop.
func (s *PlayerStatistics) PFR() float64 { return pct(s.PFRHands, s.HandsPlayed) }

// AggressionFactor is (bets+raises)/calls, undefined when the player
// never called.
func (s *PlayerStatistics) AggressionFactor() Ratio {
	if s.PassiveActions == 0 {
		if s.AggressiveActions == 0 {
			return Finite(0)
		}
		return Undefined()
	}
	return Finite(float64(s.AggressiveActions) / float64(s.PassiveActions))
}

// ThreeBetPct is the percentage of facing-a-raise spots where the player
// re-raised.
func (s *PlayerStatistics) ThreeBetPct() float64 { return pct(s.ThreeBets, s.ThreeBetOpps) }

// CBetPct is the percentage of flops where, as the sole preflop raiser,
// the player continued with a bet.
func (s *PlayerStatistics) CBetPct() float64 { return pct(s.CBets, s.CBetOpps) }

// FoldToCBetPct is the percentage of faced continuation bets the player
// folded to.
func (s *PlayerStatistics) FoldToCBetPct() float64 { return pct(s.FoldsToCBet, s.FoldToCBetOpps) }

// StealPct is the percentage of unopened-pot button spots where the
// player open-raised.
func (s *PlayerStatistics) StealPct() float64 { return pct(s.StealAttempts, s.StealOpps) }

// WTSD is went-to-showdown as a percentage of flops seen.
func (s *PlayerStatistics) WTSD() float64 { return pct(s.Showdowns, s.SawFlop) }

// WSD is won-at-showdown as a percentage of showdowns reached.
func (s *PlayerStatistics) WSD() float64 { return pct(s.ShowdownsWon, s.Showdowns) }

// WinRate is the percentage of played hands the player won a pot in.
func (s *PlayerStatistics) WinRate() float64 { return pct(s.HandsWon, s.HandsPlayed) }

// BB100 is big blinds won per hundred hands, over the hands where it was
// measurable.
func (s *PlayerStatistics) BB100() float64 {
	if s.BigBlindHands == 0 {
		return 0
	}
	return s.BigBlindsNet / float64(s.BigBlindHands) * 100
}

// Add accumulates another set of counters into this one. Used when merging
// datasets for the same underlying player.
func (s *PlayerStatistics) Add(o *PlayerStatistics) {
	s.HandsPlayed += o.HandsPlayed
	s.VPIPHands += o.VPIPHands
	s.PFRHands += o.PFRHands
	s.ThreeBets += o.ThreeBets
	s.ThreeBetOpps += o.ThreeBetOpps
	s.CBets += o.CBets
	s.CBetOpps += o.CBetOpps
	s.FoldsToCBet += o.FoldsToCBet
	s.FoldToCBetOpps += o.FoldToCBetOpps
	s.StealAttempts += o.StealAttempts
	s.StealOpps += o.StealOpps
	s.SawFlop += o.SawFlop
	s.SawTurn += o.SawTurn
	s.SawRiver += o.SawRiver
	s.Showdowns += o.Showdowns
	s.ShowdownsWon += o.ShowdownsWon
	s.HandsWon += o.HandsWon
	s.TotalWinnings += o.TotalWinnings
	s.AggressiveActions += o.AggressiveActions
	s.PassiveActions += o.PassiveActions
	s.PreflopFolds += o.PreflopFolds
	s.PostflopFolds += o.PostflopFolds
	s.BigBlindsNet += o.BigBlindsNet
	s.BigBlindHands += o.BigBlindHands
}

// Calculate replays every hand and produces counters per player key. The
// players map supplies per-hand profits for the BB/100 metric and may be
// nil.
func Calculate(hands []*game.Hand, players map[string]*game.Player) map[string]*PlayerStatistics {
	result := make(map[string]*PlayerStatistics)

	get := func(key string, seat game.SeatInfo) *PlayerStatistics {
		s, ok := result[key]
		if !ok {
			s = &PlayerStatistics{Name: seat.Name, ID: seat.ID}
			result[key] = s
		}
		return s
	}

	for _, hand := range hands {
		for key, seat := range hand.Players {
			s := get(key, seat)
			s.HandsPlayed++

			if hand.PlayerVPIP(key) {
				s.VPIPHands++
			}
			if hand.PlayerPFR(key) {
				s.PFRHands++
			}

			countActions(s, hand, key)
			countStreets(s, hand, key)
			countShowdown(s, hand, key)
			countProfit(s, hand, key, players)
		}

		countThreeBets(result, hand)
		countContinuationBets(result, hand)
		countSteals(result, hand)
	}

	return result
}

func countActions(s *PlayerStatistics, hand *game.Hand, key string) {
	folded := false
	for _, a := range hand.ActionsBy(key) {
		switch {
		case a.Kind.IsAggressive():
			s.AggressiveActions++
		case a.Kind.IsPassive():
			s.PassiveActions++
		case a.Kind == game.ActionFold && !folded:
			folded = true
			if a.Street == game.StreetPreflop {
				s.PreflopFolds++
			} else {
				s.PostflopFolds++
			}
		}
	}
}

func countStreets(s *PlayerStatistics, hand *game.Hand, key string) {
	if hand.WentToFlop() && !hand.FoldedBy(key, game.StreetFlop) {
		s.SawFlop++
	}
	if hand.WentToTurn() && !hand.FoldedBy(key, game.StreetTurn) {
		s.SawTurn++
	}
	if hand.WentToRiver() && !hand.FoldedBy(key, game.StreetRiver) {
		s.SawRiver++
	}
}

func countShowdown(s *PlayerStatistics, hand *game.Hand, key string) {
	if _, ok := hand.Showdowns[key]; ok {
		s.Showdowns++
		if hand.Winners[key] > 0 {
			s.ShowdownsWon++
		}
	}
	if amount := hand.Winners[key]; amount > 0 {
		s.HandsWon++
		s.TotalWinnings += amount
	}
}

func countProfit(s *PlayerStatistics, hand *game.Hand, key string, players map[string]*game.Player) {
	if players == nil || hand.BigBlind <= 0 {
		return
	}
	player, ok := players[key]
	if !ok {
		return
	}
	profit, ok := player.HandProfits[hand.ID]
	if !ok {
		return
	}
	s.BigBlindsNet += profit / hand.BigBlind
	s.BigBlindHands++
}

// isRaising reports whether the action escalates the betting.
func isRaising(k game.ActionKind) bool {
	return k == game.ActionBet || k == game.ActionRaise || k == game.ActionAllIn
}

// countThreeBets walks the preflop betting. Any player whose turn comes
// while exactly one raise is in front of them has a 3-bet opportunity;
// raising there is a 3-bet.
func countThreeBets(result map[string]*PlayerStatistics, hand *game.Hand) {
	raises := 0
	credited := make(map[string]bool)
	for _, a := range hand.Actions[game.StreetPreflop] {
		if a.Kind.IsBlind() {
			continue
		}
		key := a.Key()
		if raises == 1 && !credited[key] {
			if s, ok := result[key]; ok {
				s.ThreeBetOpps++
				if isRaising(a.Kind) {
					s.ThreeBets++
				}
			}
			credited[key] = true
		}
		if isRaising(a.Kind) {
			raises++
		}
	}
}

// preflopRaisers returns the set of players who raised preflop.
func preflopRaisers(hand *game.Hand) map[string]bool {
	raisers := make(map[string]bool)
	for _, a := range hand.Actions[game.StreetPreflop] {
		if isRaising(a.Kind) {
			raisers[a.Key()] = true
		}
	}
	return raisers
}

// countContinuationBets credits every preflop raiser who saw the flop with
// a c-bet opportunity, taken by betting or raising there. Fold-to-c-bet is
// narrower: it requires a sole preflop raiser whose continuation actually
// came, and is credited to every other flop-seeing player, taken by a flop
// fold.
func countContinuationBets(result map[string]*PlayerStatistics, hand *game.Hand) {
	if !hand.WentToFlop() {
		return
	}
	raisers := preflopRaisers(hand)

	continued := make(map[string]bool)
	for key := range raisers {
		if hand.FoldedBy(key, game.StreetFlop) {
			continue
		}
		s, ok := result[key]
		if !ok {
			continue
		}
		s.CBetOpps++
		for _, a := range hand.Actions[game.StreetFlop] {
			if a.Key() == key && isRaising(a.Kind) {
				s.CBets++
				continued[key] = true
				break
			}
		}
	}

	if len(raisers) != 1 {
		return
	}
	var raiser string
	for key := range raisers {
		raiser = key
	}
	if !continued[raiser] {
		return
	}

	for key := range hand.Players {
		if key == raiser || hand.FoldedBy(key, game.StreetFlop) {
			continue
		}
		s, ok := result[key]
		if !ok {
			continue
		}
		s.FoldToCBetOpps++
		for _, a := range hand.Actions[game.StreetFlop] {
			if a.Key() == key && a.Kind == game.ActionFold {
				s.FoldsToCBet++
				break
			}
		}
	}
}

// countSteals credits the dealer with one steal opportunity per hand, taken
// with any preflop raise.
func countSteals(result map[string]*PlayerStatistics, hand *game.Hand) {
	if hand.Dealer == nil {
		return
	}
	s, ok := result[hand.Dealer.Key()]
	if !ok {
		return
	}
	s.StealOpps++
	for _, a := range hand.Actions[game.StreetPreflop] {
		if a.Key() == hand.Dealer.Key() && isRaising(a.Kind) {
			s.StealAttempts++
			return
		}
	}
}
