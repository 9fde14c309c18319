package game

// Player accumulates a player's participation across the hands of a log,
// plus the financial aggregates loaded from the ledger. TotalProfit is
// authoritative from the ledger (buy-out + final stack - buy-in); the
// per-hand profit map is a best-effort decomposition of it.
type Player struct {
	Name string `json:"name"`
	ID   string `json:"player_id"`

	HandsPlayed int     `json:"hands_played"`
	TotalProfit float64 `json:"total_profit"`

	TotalBuyIn  float64 `json:"total_buy_in"`
	TotalBuyOut float64 `json:"total_buy_out"`
	FinalStack  float64 `json:"final_stack"`
	Sessions    int     `json:"sessions"`

	HandIDs        []string           `json:"hand_ids"`
	StartingStacks map[string]float64 `json:"starting_stacks"`
	HandProfits    map[string]float64 `json:"hand_profits"`
	HandBuyIns     map[string]float64 `json:"hand_buyins"`
}

// NewPlayer creates an empty player record for an identity.
func NewPlayer(id Identity) *Player {
	return &Player{
		Name:           id.Name,
		ID:             id.ID,
		StartingStacks: make(map[string]float64),
		HandProfits:    make(map[string]float64),
		HandBuyIns:     make(map[string]float64),
	}
}

// Identity returns the player's identity value.
func (p *Player) Identity() Identity {
	return Identity{Name: p.Name, ID: p.ID}
}

// Key returns the "name @ id" map key for this player.
func (p *Player) Key() string {
	return p.Identity().Key()
}

// AddHand records participation in a hand with the starting stack from the
// hand's stack snapshot. Repeated calls for the same hand id are no-ops.
func (p *Player) AddHand(handID string, startingStack float64) {
	for _, id := range p.HandIDs {
		if id == handID {
			return
		}
	}
	p.HandIDs = append(p.HandIDs, handID)
	p.HandsPlayed++
	p.StartingStacks[handID] = startingStack
}

// CreditBuyIn adds a buy-in amount against a hand.
func (p *Player) CreditBuyIn(handID string, amount float64) {
	p.HandBuyIns[handID] += amount
}

// SetLedgerTotals applies the authoritative financial aggregates from the
// ledger and derives the total profit from them.
func (p *Player) SetLedgerTotals(buyIn, buyOut, finalStack float64, sessions int) {
	p.TotalBuyIn = buyIn
	p.TotalBuyOut = buyOut
	p.FinalStack = finalStack
	p.Sessions = sessions
	p.TotalProfit = buyOut + finalStack - buyIn
}

// ProfitFromHands sums the per-hand profit decomposition. For players with a
// single continuous session this tracks TotalProfit closely; multi-session
// players are allowed to diverge.
func (p *Player) ProfitFromHands() float64 {
	var total float64
	for _, profit := range p.HandProfits {
		total += profit
	}
	return total
}

// BuyInsFromHands sums the per-hand buy-in credits.
func (p *Player) BuyInsFromHands() float64 {
	var total float64
	for _, buyIn := range p.HandBuyIns {
		total += buyIn
	}
	return total
}
