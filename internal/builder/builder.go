// Package builder replays classified log events into Hand and Player
// aggregates. The builder is a two-state machine: idle, or accumulating
// into exactly one open hand. It also reconciles buy-ins, rebuys and
// departures against the ledger to assign per-hand profit.
package builder

import (
	"errors"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/pokernow/analyzer/internal/game"
	"github.com/pokernow/analyzer/internal/ledger"
	"github.com/pokernow/analyzer/internal/parser"
)

// ErrNoInput is returned when a log produced no hands and no players at all.
var ErrNoInput = errors.New("builder: no parseable input")

// chipKind classifies a pending chip-delta event awaiting the next stack
// snapshot.
type chipKind int

const (
	// chipInitialJoin is a player's first ever join. Not credited on their
	// first hand: the starting stack already reflects it.
	chipInitialJoin chipKind = iota
	// chipRejoin is a join after a quit; the stack was zeroed so the full
	// amount is a fresh buy-in.
	chipRejoin
	// chipAddOn is extra chips added mid-session, always credited.
	chipAddOn
)

type chipEvent struct {
	kind   chipKind
	amount float64
}

// departure remembers how a player last left the table, which decides
// whether their next join is a rebuy or just sitting back down.
type departure int

const (
	departureNone departure = iota
	departureStandUp
	departureQuit
)

// Options tunes the post-build stack consistency check.
type Options struct {
	// AbsTolerance passes the check when the absolute difference between
	// the per-hand profit sum and the ledger profit is below it.
	AbsTolerance float64
	// PctTolerance passes the check when the difference is below this
	// percentage of the ledger profit.
	PctTolerance float64
}

// DefaultOptions returns the standard consistency thresholds.
func DefaultOptions() Options {
	return Options{AbsTolerance: 10, PctTolerance: 1}
}

// Builder replays events into hands and players. Zero value is not usable;
// construct with New. A Builder processes one log and is not reused.
type Builder struct {
	logger *log.Logger
	opts   Options

	hands   []*game.Hand
	players map[string]*game.Player

	current *game.Hand
	street  game.Street

	pending       map[string][]chipEvent
	lastDeparture map[string]departure
}

// New creates a builder. A nil logger discards all diagnostics.
func New(logger *log.Logger, opts Options) *Builder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.AbsTolerance == 0 && opts.PctTolerance == 0 {
		opts = DefaultOptions()
	}
	return &Builder{
		logger:        logger,
		opts:          opts,
		players:       make(map[string]*game.Player),
		street:        game.StreetPreflop,
		pending:       make(map[string][]chipEvent),
		lastDeparture: make(map[string]departure),
	}
}

// Build replays the full event list, merges in the ledger totals and
// back-computes per-hand profits. The ledger entries may be nil when no
// ledger file was available; financial fields then stay at their zero
// defaults. It returns ErrNoInput when nothing at all was reconstructed.
func (b *Builder) Build(events []parser.Event, entries []ledger.Entry) ([]*game.Hand, map[string]*game.Player, error) {
	for _, ev := range events {
		b.Apply(ev)
	}
	b.finalizeHand()

	if len(b.hands) == 0 && len(b.players) == 0 {
		return nil, nil, ErrNoInput
	}

	if len(entries) > 0 {
		b.mergeLedger(entries)
	} else {
		b.logger.Warn("no ledger data, player financial fields left at defaults")
	}
	b.computeHandProfits()
	b.checkConsistency()

	return b.hands, b.players, nil
}

// Apply advances the state machine by one event. Exported so individual
// transitions can be tested in isolation.
func (b *Builder) Apply(ev parser.Event) {
	switch ev.Kind {
	case parser.EventHandStart:
		b.handleHandStart(ev)
	case parser.EventHandEnd:
		b.finalizeHand()
	case parser.EventPlayerStacks:
		b.handleStacks(ev)
	case parser.EventSmallBlind:
		b.handleBlind(ev, game.ActionSmallBlind)
	case parser.EventBigBlind:
		b.handleBlind(ev, game.ActionBigBlind)
	case parser.EventFlop:
		b.handleFlop(ev)
	case parser.EventTurn:
		b.handleTurn(ev)
	case parser.EventRiver:
		b.handleRiver(ev)
	case parser.EventFold, parser.EventCheck, parser.EventCall,
		parser.EventBet, parser.EventRaise, parser.EventAllIn:
		b.handleAction(ev)
	case parser.EventShow:
		b.handleShow(ev)
	case parser.EventCollected:
		b.handleCollected(ev)
	case parser.EventPlayerApproved:
		// Approvals pair with a join event; crediting both would double
		// count, so only the join is tracked.
	case parser.EventPlayerJoin:
		b.handleJoin(ev)
	case parser.EventPlayerQuit:
		b.handleDeparture(ev, departureQuit)
	case parser.EventPlayerLeave:
		b.handleDeparture(ev, departureStandUp)
	case parser.EventPlayerAdding:
		b.handleAdding(ev)
	}
}

func (b *Builder) handleHandStart(ev parser.Event) {
	// A new start while a hand is still open means the end marker was
	// lost; close the open hand rather than dropping it.
	b.finalizeHand()

	handID := ev.HandID
	if handID == "" {
		handID = "unknown"
	}
	number := len(b.hands) + 1
	if n, err := strconv.Atoi(handID); err == nil {
		number = n
	}

	b.current = game.NewHand(handID, number, ev.Timestamp, ev.Dealer)
	b.street = game.StreetPreflop
}

func (b *Builder) finalizeHand() {
	if b.current == nil {
		return
	}
	b.hands = append(b.hands, b.current)
	b.current = nil
	b.street = game.StreetPreflop
}

func (b *Builder) handleStacks(ev parser.Event) {
	if b.current == nil {
		return
	}
	for _, seat := range ev.Stacks {
		key := seat.Player.Key()
		b.current.AddPlayer(seat.Player, seat.Stack, seat.Position)

		player, ok := b.players[key]
		if !ok {
			player = game.NewPlayer(seat.Player)
			b.players[key] = player
		}
		player.AddHand(b.current.ID, seat.Stack)

		b.flushPending(player, key)
	}
}

// flushPending credits queued chip events against the current hand. The
// very first stack snapshot a player ever gets skips the initial join:
// that buy-in is already reflected in the starting stack.
func (b *Builder) flushPending(player *game.Player, key string) {
	queued := b.pending[key]
	if len(queued) == 0 {
		return
	}
	firstHand := len(player.HandIDs) == 1

	var buyIn float64
	for _, evt := range queued {
		if evt.kind == chipInitialJoin && firstHand {
			continue
		}
		buyIn += evt.amount
	}
	if buyIn > 0 {
		player.CreditBuyIn(b.current.ID, buyIn)
	}
	b.pending[key] = nil
}

func (b *Builder) handleBlind(ev parser.Event, kind game.ActionKind) {
	if b.current == nil {
		return
	}
	if kind == game.ActionSmallBlind {
		b.current.SmallBlind = ev.Amount
	} else {
		b.current.BigBlind = ev.Amount
	}
	if ev.Player == nil {
		return
	}
	b.current.AddAction(game.Action{
		Kind:      kind,
		Player:    *ev.Player,
		Amount:    ev.Amount,
		Street:    game.StreetPreflop,
		Timestamp: ev.Timestamp,
	})
}

func (b *Builder) handleFlop(ev parser.Event) {
	if b.current == nil {
		return
	}
	cards := ev.Cards
	if len(cards) > 3 {
		cards = cards[:3]
	}
	b.current.Flop = cards
	b.street = game.StreetFlop
}

func (b *Builder) handleTurn(ev parser.Event) {
	if b.current == nil {
		return
	}
	// The log reprints the whole board; the turn card is the last match.
	if len(ev.Cards) > 0 {
		card := ev.Cards[len(ev.Cards)-1]
		b.current.Turn = &card
	}
	b.street = game.StreetTurn
}

func (b *Builder) handleRiver(ev parser.Event) {
	if b.current == nil {
		return
	}
	if len(ev.Cards) > 0 {
		card := ev.Cards[len(ev.Cards)-1]
		b.current.River = &card
	}
	b.street = game.StreetRiver
}

var eventActionKinds = map[parser.EventKind]game.ActionKind{
	parser.EventFold:  game.ActionFold,
	parser.EventCheck: game.ActionCheck,
	parser.EventCall:  game.ActionCall,
	parser.EventBet:   game.ActionBet,
	parser.EventRaise: game.ActionRaise,
	parser.EventAllIn: game.ActionAllIn,
}

func (b *Builder) handleAction(ev parser.Event) {
	if b.current == nil || ev.Player == nil {
		return
	}
	kind, ok := eventActionKinds[ev.Kind]
	if !ok {
		return
	}
	b.current.AddAction(game.Action{
		Kind:      kind,
		Player:    *ev.Player,
		Amount:    ev.Amount,
		Street:    b.street,
		Timestamp: ev.Timestamp,
	})
}

func (b *Builder) handleShow(ev parser.Event) {
	if b.current == nil || ev.Player == nil || len(ev.Cards) == 0 {
		return
	}
	b.current.AddShowdown(*ev.Player, ev.Cards)
}

func (b *Builder) handleCollected(ev parser.Event) {
	if b.current == nil || ev.Player == nil {
		return
	}
	b.current.SetWinner(*ev.Player, ev.Amount)
}

func (b *Builder) handleJoin(ev parser.Event) {
	if ev.Player == nil {
		return
	}
	key := ev.Player.Key()

	switch {
	case b.players[key] == nil && len(b.pending[key]) == 0:
		// First sighting: an initial buy-in.
		b.pending[key] = append(b.pending[key], chipEvent{kind: chipInitialJoin, amount: ev.Amount})
		b.lastDeparture[key] = departureNone
	case b.lastDeparture[key] == departureQuit:
		// Cashed out earlier; this stack is entirely new money.
		b.pending[key] = append(b.pending[key], chipEvent{kind: chipRejoin, amount: ev.Amount})
		b.lastDeparture[key] = departureNone
	default:
		// Sitting back down after a stand-up; the stack was preserved.
	}
}

func (b *Builder) handleDeparture(ev parser.Event, kind departure) {
	if ev.Player == nil {
		return
	}
	b.lastDeparture[ev.Player.Key()] = kind
}

func (b *Builder) handleAdding(ev parser.Event) {
	if ev.Player == nil {
		return
	}
	key := ev.Player.Key()
	b.pending[key] = append(b.pending[key], chipEvent{kind: chipAddOn, amount: ev.Amount})
}
