package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokernow/analyzer/internal/deck"
	"github.com/pokernow/analyzer/internal/game"
)

func TestClassifyEntry(t *testing.T) {
	p := New()

	tests := []struct {
		name  string
		entry string
		kind  EventKind
		check func(t *testing.T, ev Event)
	}{
		{
			name:  "hand start",
			entry: `-- starting hand #91 (id: pu8envt0lo0k)  (No Limit Texas Hold'em) (dealer: "ldl @ Fyu1zC3WxZ") --`,
			kind:  EventHandStart,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, "91", ev.HandID)
				require.NotNil(t, ev.Dealer)
				assert.Equal(t, game.Identity{Name: "ldl", ID: "Fyu1zC3WxZ"}, *ev.Dealer)
			},
		},
		{
			name:  "hand end",
			entry: `-- ending hand #91 --`,
			kind:  EventHandEnd,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, "91", ev.HandID)
			},
		},
		{
			name:  "small blind",
			entry: `"ldl @ Fyu1zC3WxZ" posts a small blind of 1`,
			kind:  EventSmallBlind,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, 1.0, ev.Amount)
				require.NotNil(t, ev.Player)
				assert.Equal(t, "ldl", ev.Player.Name)
			},
		},
		{
			name:  "big blind",
			entry: `"jx @ y1rG7j-rqe" posts a big blind of 2`,
			kind:  EventBigBlind,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, 2.0, ev.Amount)
			},
		},
		{
			name:  "raise",
			entry: `"ldl @ Fyu1zC3WxZ" raises to 7`,
			kind:  EventRaise,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, 7.0, ev.Amount)
			},
		},
		{
			name:  "fold",
			entry: `"jx @ y1rG7j-rqe" folds`,
			kind:  EventFold,
		},
		{
			name:  "check",
			entry: `"jx @ y1rG7j-rqe" checks`,
			kind:  EventCheck,
		},
		{
			name:  "call with digits in id",
			entry: `"jx @ y1rG7j-rqe" calls 20`,
			kind:  EventCall,
			check: func(t *testing.T, ev Event) {
				// The "1" and "7" inside the id must not be parsed as the amount.
				assert.Equal(t, 20.0, ev.Amount)
			},
		},
		{
			name:  "collected",
			entry: `"ldl @ Fyu1zC3WxZ" collected 40 from pot`,
			kind:  EventCollected,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, 40.0, ev.Amount)
			},
		},
		{
			name:  "uncalled bet",
			entry: `Uncalled bet of 5 returned to "ldl @ Fyu1zC3WxZ"`,
			kind:  EventUncalledBet,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, 5.0, ev.Amount)
				require.NotNil(t, ev.Player)
				assert.Equal(t, "ldl", ev.Player.Name)
			},
		},
		{
			name:  "show",
			entry: `"ldl @ Fyu1zC3WxZ" shows a A♠, K♥.`,
			kind:  EventShow,
			check: func(t *testing.T, ev Event) {
				require.Len(t, ev.Cards, 2)
				assert.Equal(t, "A♠", ev.Cards[0].String())
				assert.Equal(t, "K♥", ev.Cards[1].String())
			},
		},
		{
			name:  "flop",
			entry: `Flop:  [10♥, J♣, J♠]`,
			kind:  EventFlop,
			check: func(t *testing.T, ev Event) {
				require.Len(t, ev.Cards, 3)
				assert.Equal(t, "10♥", ev.Cards[0].String())
			},
		},
		{
			name:  "turn reprints the board",
			entry: `Turn: 10♥, J♣, J♠ [J♦]`,
			kind:  EventTurn,
			check: func(t *testing.T, ev Event) {
				require.Len(t, ev.Cards, 4)
				assert.Equal(t, "J♦", ev.Cards[len(ev.Cards)-1].String())
			},
		},
		{
			name:  "river reprints the board",
			entry: `River: 10♥, J♣, J♠, J♦ [5♠]`,
			kind:  EventRiver,
			check: func(t *testing.T, ev Event) {
				require.Len(t, ev.Cards, 5)
				assert.Equal(t, "5♠", ev.Cards[len(ev.Cards)-1].String())
			},
		},
		{
			name:  "player stacks",
			entry: `Player stacks: #2 "ldl @ Fyu1zC3WxZ" (379) | #4 "jx @ y1rG7j-rqe" (253)`,
			kind:  EventPlayerStacks,
			check: func(t *testing.T, ev Event) {
				require.Len(t, ev.Stacks, 2)
				assert.Equal(t, 2, ev.Stacks[0].Position)
				assert.Equal(t, "ldl", ev.Stacks[0].Player.Name)
				assert.Equal(t, 379.0, ev.Stacks[0].Stack)
				assert.Equal(t, 253.0, ev.Stacks[1].Stack)
			},
		},
		{
			name:  "join",
			entry: `The player "yx @ abc123" joined the game with a stack of 200.`,
			kind:  EventPlayerJoin,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, 200.0, ev.Amount)
			},
		},
		{
			name:  "stand up",
			entry: `The player "yx @ abc123" stand up with the stack of 158.`,
			kind:  EventPlayerLeave,
		},
		{
			name:  "quit",
			entry: `The player "yx @ abc123" quits the game with a stack of 0.`,
			kind:  EventPlayerQuit,
		},
		{
			name:  "adding chips",
			entry: `The player "yx @ abc123" adding 100 chips to the stack.`,
			kind:  EventPlayerAdding,
			check: func(t *testing.T, ev Event) {
				assert.Equal(t, 100.0, ev.Amount)
			},
		},
		{
			name:  "approved",
			entry: `The admin approved the player "yx @ abc123" participation with a stack of 200.`,
			kind:  EventPlayerApproved,
		},
		{
			name:  "unrecognized",
			entry: `Your hand is K♦, 9♦`,
			kind:  EventUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := p.ClassifyEntry(tt.entry)
			assert.Equal(t, tt.kind, ev.Kind)
			if tt.check != nil {
				tt.check(t, ev)
			}
		})
	}
}

func TestParseReversesRows(t *testing.T) {
	// Logs are emitted newest-first; Parse must return chronological order.
	input := strings.Join([]string{
		`entry,at,order`,
		`"-- ending hand #1 --",2025-10-24T17:34:00.000Z,176132724000000`,
		`"""ldl @ Fyu1zC3WxZ"" posts a small blind of 1",2025-10-24T17:33:57.000Z,176132723700000`,
		`"-- starting hand #1 (id: abc) (dealer: ""ldl @ Fyu1zC3WxZ"") --",2025-10-24T17:33:56.000Z,176132723600000`,
	}, "\n")

	events, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, EventHandStart, events[0].Kind)
	assert.Equal(t, EventSmallBlind, events[1].Kind)
	assert.Equal(t, EventHandEnd, events[2].Kind)

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.Before(events[i-1].Timestamp),
			"timestamps must be non-decreasing after reversal")
	}
}

func TestParseSkipsCorruptRows(t *testing.T) {
	input := strings.Join([]string{
		`entry,at,order`,
		`"""a @ b"" checks",not-a-timestamp,1`,
		`,2025-10-24T17:33:56.000Z,2`,
		`"""a @ b"" folds",2025-10-24T17:33:56.000Z,3`,
	}, "\n")

	events, err := New().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventFold, events[0].Kind)
}

func TestExtractAmountStripsIdentities(t *testing.T) {
	p := New()
	ev := p.ClassifyEntry(`"player7 @ 99xYz" bets 35`)
	assert.Equal(t, EventBet, ev.Kind)
	assert.Equal(t, 35.0, ev.Amount)
}

func TestExtractCardsHollowSuits(t *testing.T) {
	p := New()
	ev := p.ClassifyEntry(`Flop:  [10♡, J♧, A♤]`)
	require.Len(t, ev.Cards, 3)
	assert.Equal(t, deck.Hearts, ev.Cards[0].Suit)
	assert.Equal(t, deck.Clubs, ev.Cards[1].Suit)
	assert.Equal(t, deck.Spades, ev.Cards[2].Suit)
}
