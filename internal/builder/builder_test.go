package builder

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokernow/analyzer/internal/deck"
	"github.com/pokernow/analyzer/internal/game"
	"github.com/pokernow/analyzer/internal/ledger"
	"github.com/pokernow/analyzer/internal/parser"
)

var (
	alice = game.Identity{Name: "Alice", ID: "abc123"}
	bob   = game.Identity{Name: "Bob", ID: "def456"}
)

func testBuilder() *Builder {
	return New(log.New(io.Discard), DefaultOptions())
}

func at(sec int) time.Time {
	return time.Date(2025, 3, 14, 20, 0, sec, 0, time.UTC)
}

func handStart(id string, sec int, dealer *game.Identity) parser.Event {
	return parser.Event{Kind: parser.EventHandStart, HandID: id, Timestamp: at(sec), Dealer: dealer}
}

func stacks(sec int, seats ...parser.SeatStack) parser.Event {
	return parser.Event{Kind: parser.EventPlayerStacks, Timestamp: at(sec), Stacks: seats}
}

func seat(pos int, id game.Identity, stack float64) parser.SeatStack {
	return parser.SeatStack{Position: pos, Player: id, Stack: stack}
}

func playerEvent(kind parser.EventKind, id game.Identity, amount float64, sec int) parser.Event {
	p := id
	return parser.Event{Kind: kind, Player: &p, Amount: amount, Timestamp: at(sec)}
}

func cards(s ...string) []deck.Card {
	out := make([]deck.Card, len(s))
	for i, c := range s {
		card, err := deck.ParseCard(c)
		if err != nil {
			panic(err)
		}
		out[i] = card
	}
	return out
}

func TestBuildSingleHand(t *testing.T) {
	events := []parser.Event{
		handStart("42", 0, &bob),
		stacks(1, seat(1, alice, 100), seat(2, bob, 200)),
		playerEvent(parser.EventSmallBlind, alice, 1, 2),
		playerEvent(parser.EventBigBlind, bob, 2, 3),
		playerEvent(parser.EventCall, alice, 2, 4),
		playerEvent(parser.EventCheck, bob, 0, 5),
		{Kind: parser.EventFlop, Cards: cards("A♠", "K♥", "2♦"), Timestamp: at(6)},
		playerEvent(parser.EventBet, bob, 4, 7),
		playerEvent(parser.EventFold, alice, 0, 8),
		playerEvent(parser.EventCollected, bob, 6, 9),
		{Kind: parser.EventHandEnd, Timestamp: at(10)},
	}

	hands, players, err := New(log.New(io.Discard), DefaultOptions()).Build(events, nil)
	require.NoError(t, err)
	require.Len(t, hands, 1)

	hand := hands[0]
	assert.Equal(t, "42", hand.ID)
	assert.Equal(t, 42, hand.Number)
	require.NotNil(t, hand.Dealer)
	assert.Equal(t, bob, *hand.Dealer)

	assert.Equal(t, 1.0, hand.SmallBlind)
	assert.Equal(t, 2.0, hand.BigBlind)
	assert.Equal(t, 100.0, hand.Players[alice.Key()].Stack)
	assert.Equal(t, 2, hand.Players[bob.Key()].Position)

	// Blinds plus call and check preflop, bet and fold on the flop.
	assert.Len(t, hand.Actions[game.StreetPreflop], 4)
	require.Len(t, hand.Actions[game.StreetFlop], 2)
	assert.Equal(t, game.ActionBet, hand.Actions[game.StreetFlop][0].Kind)
	assert.Equal(t, bob.Key(), hand.Actions[game.StreetFlop][0].Key())

	assert.True(t, hand.WentToFlop())
	assert.False(t, hand.WentToTurn())
	assert.Equal(t, 6.0, hand.PotSize)
	assert.Equal(t, 6.0, hand.Winners[bob.Key()])

	require.Contains(t, players, alice.Key())
	assert.Equal(t, 1, players[alice.Key()].HandsPlayed)
}

func TestBuildBoardReprints(t *testing.T) {
	b := testBuilder()
	b.Apply(handStart("1", 0, nil))
	b.Apply(stacks(1, seat(1, alice, 100)))
	b.Apply(parser.Event{Kind: parser.EventFlop, Cards: cards("A♠", "K♥", "2♦")})
	// Turn and river lines reprint the whole board; the new card is last.
	b.Apply(parser.Event{Kind: parser.EventTurn, Cards: cards("A♠", "K♥", "2♦", "9♣")})
	b.Apply(parser.Event{Kind: parser.EventRiver, Cards: cards("A♠", "K♥", "2♦", "9♣", "Q♠")})
	b.Apply(parser.Event{Kind: parser.EventHandEnd})

	require.Len(t, b.hands, 1)
	hand := b.hands[0]
	assert.Equal(t, cards("A♠", "K♥", "2♦"), hand.Flop)
	require.NotNil(t, hand.Turn)
	assert.Equal(t, "9♣", hand.Turn.String())
	require.NotNil(t, hand.River)
	assert.Equal(t, "Q♠", hand.River.String())
	assert.Len(t, hand.Board(), 5)
}

func TestBuildMissingHandEnd(t *testing.T) {
	events := []parser.Event{
		handStart("1", 0, nil),
		stacks(1, seat(1, alice, 100)),
		// No end marker before the next start.
		handStart("2", 5, nil),
		stacks(6, seat(1, alice, 90)),
	}

	hands, _, err := New(log.New(io.Discard), DefaultOptions()).Build(events, nil)
	require.NoError(t, err)
	require.Len(t, hands, 2)
	assert.Equal(t, "1", hands[0].ID)
	assert.Equal(t, "2", hands[1].ID)
}

func TestBuildNoInput(t *testing.T) {
	_, _, err := testBuilder().Build(nil, nil)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestInitialJoinNotCreditedOnFirstHand(t *testing.T) {
	b := testBuilder()
	b.Apply(playerEvent(parser.EventPlayerJoin, alice, 100, 0))
	b.Apply(handStart("1", 1, nil))
	b.Apply(stacks(2, seat(1, alice, 100)))

	player := b.players[alice.Key()]
	require.NotNil(t, player)
	assert.Empty(t, player.HandBuyIns)
	assert.Empty(t, b.pending[alice.Key()])
}

func TestAddOnCredited(t *testing.T) {
	b := testBuilder()
	b.Apply(playerEvent(parser.EventPlayerJoin, alice, 100, 0))
	b.Apply(handStart("1", 1, nil))
	b.Apply(stacks(2, seat(1, alice, 100)))
	b.Apply(parser.Event{Kind: parser.EventHandEnd})

	b.Apply(playerEvent(parser.EventPlayerAdding, alice, 50, 3))
	b.Apply(handStart("2", 4, nil))
	b.Apply(stacks(5, seat(1, alice, 150)))

	player := b.players[alice.Key()]
	assert.Equal(t, 50.0, player.HandBuyIns["2"])
}

func TestRejoinAfterQuitCredited(t *testing.T) {
	b := testBuilder()
	b.Apply(playerEvent(parser.EventPlayerJoin, alice, 100, 0))
	b.Apply(handStart("1", 1, nil))
	b.Apply(stacks(2, seat(1, alice, 100)))
	b.Apply(parser.Event{Kind: parser.EventHandEnd})

	b.Apply(playerEvent(parser.EventPlayerQuit, alice, 0, 3))
	b.Apply(playerEvent(parser.EventPlayerJoin, alice, 80, 4))
	b.Apply(handStart("2", 5, nil))
	b.Apply(stacks(6, seat(1, alice, 80)))

	player := b.players[alice.Key()]
	assert.Equal(t, 80.0, player.HandBuyIns["2"])
}

func TestSitBackAfterStandUpNotCredited(t *testing.T) {
	b := testBuilder()
	b.Apply(playerEvent(parser.EventPlayerJoin, alice, 100, 0))
	b.Apply(handStart("1", 1, nil))
	b.Apply(stacks(2, seat(1, alice, 100)))
	b.Apply(parser.Event{Kind: parser.EventHandEnd})

	b.Apply(playerEvent(parser.EventPlayerLeave, alice, 0, 3))
	b.Apply(playerEvent(parser.EventPlayerJoin, alice, 100, 4))
	b.Apply(handStart("2", 5, nil))
	b.Apply(stacks(6, seat(1, alice, 100)))

	player := b.players[alice.Key()]
	assert.Empty(t, player.HandBuyIns)
}

func ledgerRow(id game.Identity, buyIn, buyOut, stack float64) ledger.Entry {
	return ledger.Entry{
		Nickname: id.Name,
		PlayerID: id.ID,
		BuyIn:    buyIn,
		BuyOut:   buyOut,
		Stack:    stack,
	}
}

func TestBuildHandProfits(t *testing.T) {
	events := []parser.Event{
		handStart("1", 0, nil),
		stacks(1, seat(1, alice, 100), seat(2, bob, 100)),
		parser.Event{Kind: parser.EventHandEnd},
		handStart("2", 2, nil),
		stacks(3, seat(1, alice, 110), seat(2, bob, 90)),
		parser.Event{Kind: parser.EventHandEnd},
		handStart("3", 4, nil),
		stacks(5, seat(1, alice, 95), seat(2, bob, 105)),
		parser.Event{Kind: parser.EventHandEnd},
	}
	entries := []ledger.Entry{
		ledgerRow(alice, 100, 0, 120),
		ledgerRow(bob, 100, 0, 80),
	}

	_, players, err := New(log.New(io.Discard), DefaultOptions()).Build(events, entries)
	require.NoError(t, err)

	a := players[alice.Key()]
	assert.Equal(t, 10.0, a.HandProfits["1"])
	assert.Equal(t, -15.0, a.HandProfits["2"])
	assert.Equal(t, 25.0, a.HandProfits["3"]) // closes against the ledger stack
	assert.Equal(t, 20.0, a.ProfitFromHands())
	assert.Equal(t, 20.0, a.TotalProfit)

	b := players[bob.Key()]
	assert.Equal(t, -20.0, b.ProfitFromHands())
}

func TestBuildProfitWithContiguousAddOn(t *testing.T) {
	events := []parser.Event{
		handStart("1", 0, nil),
		stacks(1, seat(1, alice, 100)),
		parser.Event{Kind: parser.EventHandEnd},
		playerEvent(parser.EventPlayerAdding, alice, 50, 2),
		handStart("2", 3, nil),
		stacks(4, seat(1, alice, 140)),
		parser.Event{Kind: parser.EventHandEnd},
	}
	entries := []ledger.Entry{ledgerRow(alice, 150, 0, 140)}

	_, players, err := New(log.New(io.Discard), DefaultOptions()).Build(events, entries)
	require.NoError(t, err)

	a := players[alice.Key()]
	// Stack went 100 -> 140 but 50 of that is the add-on.
	assert.Equal(t, -10.0, a.HandProfits["1"])
	assert.Equal(t, 0.0, a.HandProfits["2"])
}

func TestBuildProfitAfterGapWithRebuy(t *testing.T) {
	events := []parser.Event{
		handStart("1", 0, nil),
		stacks(1, seat(1, alice, 100), seat(2, bob, 100)),
		parser.Event{Kind: parser.EventHandEnd},
		playerEvent(parser.EventPlayerQuit, alice, 0, 2),
		// Alice sits out hand 2 entirely.
		handStart("2", 3, nil),
		stacks(4, seat(2, bob, 100)),
		parser.Event{Kind: parser.EventHandEnd},
		playerEvent(parser.EventPlayerJoin, alice, 60, 5),
		handStart("3", 6, nil),
		stacks(7, seat(1, alice, 60), seat(2, bob, 100)),
		parser.Event{Kind: parser.EventHandEnd},
	}
	entries := []ledger.Entry{
		ledgerRow(alice, 160, 100, 60),
		ledgerRow(bob, 100, 0, 100),
	}

	_, players, err := New(log.New(io.Discard), DefaultOptions()).Build(events, entries)
	require.NoError(t, err)

	a := players[alice.Key()]
	// The rebuy after a gap means the hand-1 stack was cashed out between
	// appearances, so the interval nets to the full starting stack.
	assert.Equal(t, -100.0, a.HandProfits["1"])
	assert.Equal(t, 0.0, a.HandProfits["3"])
}

func TestBuildLedgerMerge(t *testing.T) {
	events := []parser.Event{
		handStart("1", 0, nil),
		stacks(1, seat(1, alice, 100)),
		parser.Event{Kind: parser.EventHandEnd},
	}
	entries := []ledger.Entry{
		ledgerRow(alice, 100, 50, 75),
		// Ledger-only player must not create a phantom record.
		ledgerRow(bob, 100, 0, 0),
	}

	_, players, err := New(log.New(io.Discard), DefaultOptions()).Build(events, entries)
	require.NoError(t, err)

	a := players[alice.Key()]
	assert.Equal(t, 100.0, a.TotalBuyIn)
	assert.Equal(t, 50.0, a.TotalBuyOut)
	assert.Equal(t, 75.0, a.FinalStack)
	assert.Equal(t, 25.0, a.TotalProfit)
	assert.NotContains(t, players, bob.Key())
}

func TestSummaries(t *testing.T) {
	players := map[string]*game.Player{}
	p := game.NewPlayer(alice)
	p.AddHand("1", 100)
	p.SetLedgerTotals(100, 0, 130, 1)
	players[alice.Key()] = p

	sums := Summaries(players)
	require.Len(t, sums, 1)
	assert.Equal(t, alice, sums[0].Player)
	assert.Equal(t, 30.0, sums[0].LedgerProfit)
}
