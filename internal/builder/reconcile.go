package builder

import (
	"math"

	"github.com/pokernow/analyzer/internal/game"
	"github.com/pokernow/analyzer/internal/ledger"
)

// mergeLedger overlays aggregated ledger totals onto the reconstructed
// players. Ledger rows for players never seen in the log are reported but
// otherwise ignored.
func (b *Builder) mergeLedger(entries []ledger.Entry) {
	totals := ledger.Aggregate(entries)

	if ok, sum := ledger.VerifyZeroSum(totals); !ok {
		b.logger.Warn("ledger does not sum to zero", "sum", sum)
	}

	for key, t := range totals {
		player, ok := b.players[key]
		if !ok {
			b.logger.Warn("ledger player never appeared in log", "player", key)
			continue
		}
		player.SetLedgerTotals(t.BuyIn, t.BuyOut, t.FinalStack, t.Sessions)
	}
}

// computeHandProfits derives each player's per-hand profit from stack
// deltas between consecutive appearances. For a hand H with starting
// stack S, the profit is the player's stack at their next appearance
// minus any buy-in credited for that next hand, minus S. A buy-in after
// a gap in appearances means the stack was cashed out in between, so the
// interval nets to -S. The last appearance closes against the ledger's
// final stack.
func (b *Builder) computeHandProfits() {
	// Index of hand positions per player, in replay order.
	appearances := make(map[string][]int)
	for i, hand := range b.hands {
		for key := range hand.Players {
			appearances[key] = append(appearances[key], i)
		}
	}

	for key, idxs := range appearances {
		player, ok := b.players[key]
		if !ok {
			continue
		}
		for n, idx := range idxs {
			hand := b.hands[idx]
			if _, done := player.HandProfits[hand.ID]; done {
				continue
			}
			stackBefore := hand.Players[key].Stack

			var stackAfter float64
			if n+1 < len(idxs) {
				next := b.hands[idxs[n+1]]
				stackAfter = next.Players[key].Stack
				if buyIn := player.HandBuyIns[next.ID]; buyIn > 0 {
					if idxs[n+1] == idx+1 {
						// Contiguous: the add-on landed mid-interval, so
						// only the pre-buy-in stack counts.
						stackAfter -= buyIn
					} else {
						// Gap plus a fresh buy-in: the old stack left
						// the table with the player.
						stackAfter = 0
					}
				}
			} else {
				stackAfter = player.FinalStack
			}
			player.HandProfits[hand.ID] = stackAfter - stackBefore
		}
	}
}

// checkConsistency compares each player's summed per-hand profit against
// the ledger net. Small divergences pass quietly; multi-session players
// diverge legitimately when chips moved between their sessions, so those
// are only reported at info level.
func (b *Builder) checkConsistency() {
	for key, player := range b.players {
		calculated := player.ProfitFromHands()
		diff := math.Abs(calculated - player.TotalProfit)

		var pct float64
		if player.TotalProfit != 0 {
			pct = diff / math.Abs(player.TotalProfit) * 100
		}

		switch {
		case diff < b.opts.AbsTolerance || pct < b.opts.PctTolerance:
			b.logger.Debug("stack check passed",
				"player", key, "hands", calculated, "ledger", player.TotalProfit)
		case player.Sessions > 1:
			b.logger.Info("stack check divergence across sessions",
				"player", key, "sessions", player.Sessions,
				"hands", calculated, "ledger", player.TotalProfit, "diff", diff)
		default:
			b.logger.Warn("stack check flagged",
				"player", key, "hands", calculated, "ledger", player.TotalProfit, "diff", diff)
		}
	}
}

// ProfitSummary is a convenience for reporting layers that want the
// reconciled per-player outcome without reaching into Player internals.
type ProfitSummary struct {
	Player       game.Identity
	HandsPlayed  int
	HandProfit   float64
	LedgerProfit float64
}

// Summaries returns per-player reconciliation results in no particular
// order.
func Summaries(players map[string]*game.Player) []ProfitSummary {
	out := make([]ProfitSummary, 0, len(players))
	for _, p := range players {
		out = append(out, ProfitSummary{
			Player:       p.Identity(),
			HandsPlayed:  p.HandsPlayed,
			HandProfit:   p.ProfitFromHands(),
			LedgerProfit: p.TotalProfit,
		})
	}
	return out
}
