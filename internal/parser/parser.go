// Package parser reads PokerNow session logs and classifies each row into a
// typed event. Classification never fails: rows that match no known pattern
// become EventUnknown and are preserved for audit.
package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pokernow/analyzer/internal/deck"
	"github.com/pokernow/analyzer/internal/game"
)

// EventKind tags a classified log event.
type EventKind string

const (
	EventHandStart      EventKind = "hand_start"
	EventHandEnd        EventKind = "hand_end"
	EventPlayerStacks   EventKind = "player_stacks"
	EventSmallBlind     EventKind = "small_blind"
	EventBigBlind       EventKind = "big_blind"
	EventFold           EventKind = "fold"
	EventCheck          EventKind = "check"
	EventCall           EventKind = "call"
	EventBet            EventKind = "bet"
	EventRaise          EventKind = "raise"
	EventAllIn          EventKind = "all_in"
	EventFlop           EventKind = "flop"
	EventTurn           EventKind = "turn"
	EventRiver          EventKind = "river"
	EventShow           EventKind = "show"
	EventCollected      EventKind = "collected"
	EventUncalledBet    EventKind = "uncalled_bet"
	EventPlayerJoin     EventKind = "player_join"
	EventPlayerLeave    EventKind = "player_leave"
	EventPlayerQuit     EventKind = "player_quit"
	EventPlayerApproved EventKind = "player_approved"
	EventPlayerAdding   EventKind = "player_adding"
	EventUnknown        EventKind = "unknown"
)

// SeatStack is one entry of a "Player stacks:" snapshot row.
type SeatStack struct {
	Position int
	Player   game.Identity
	Stack    float64
}

// Event is a single classified log record. Payload fields are populated
// according to Kind; events are immutable once classified.
type Event struct {
	Kind      EventKind
	Entry     string
	Timestamp time.Time
	Order     int64

	Player *game.Identity
	Amount float64
	Cards  []deck.Card
	Stacks []SeatStack
	HandID string
	Dealer *game.Identity
}

// Parser classifies raw PokerNow log rows. Safe for reuse across files.
type Parser struct {
	playerRe    *regexp.Regexp
	amountRe    *regexp.Regexp
	handNumRe   *regexp.Regexp
	handTokenRe *regexp.Regexp
	stackRe     *regexp.Regexp
	cardRe      *regexp.Regexp
}

// New creates a log parser.
func New() *Parser {
	return &Parser{
		playerRe:    regexp.MustCompile(`"([^"]+) @ ([^"]+)"`),
		amountRe:    regexp.MustCompile(`\d+(?:\.\d+)?`),
		handNumRe:   regexp.MustCompile(`#(\d+)`),
		handTokenRe: regexp.MustCompile(`\(id: ([a-z0-9]+)\)`),
		stackRe:     regexp.MustCompile(`#(\d+) "([^@]+) @ ([^"]+)" \((\d+(?:\.\d+)?)\)`),
		cardRe:      regexp.MustCompile(`(10|[2-9JQKA])([♠♥♦♣♤♡♢♧])`),
	}
}

// ParseFile reads a PokerNow CSV log and returns its events in chronological
// order. The log is written newest-first, so the rows are reversed once
// after reading; everything downstream assumes non-decreasing timestamps.
func (p *Parser) ParseFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads CSV rows with columns entry,at,order from r and classifies
// them. Structurally corrupt rows (missing entry, bad timestamp) are skipped.
func (p *Parser) Parse(r io.Reader) ([]Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read log header: %w", err)
	}
	cols := columnIndex(header)

	var events []Event
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip rows the CSV reader cannot make sense of.
			continue
		}
		ev, ok := p.parseRow(row, cols)
		if !ok {
			continue
		}
		events = append(events, ev)
	}

	reverse(events)
	return events, nil
}

// ClassifyEntry classifies one free-text log entry without timestamp or
// ordering context. The first matching marker wins; the marker order below
// is significant (e.g. "raises to" must be tested before the all-in text).
func (p *Parser) ClassifyEntry(entry string) Event {
	lower := strings.ToLower(entry)
	ev := Event{Kind: EventUnknown, Entry: entry}

	switch {
	case strings.Contains(lower, "-- starting hand #"):
		ev.Kind = EventHandStart
		ev.HandID = p.extractHandID(entry)
		ev.Dealer = p.extractPlayerAfter(entry, "dealer:")

	case strings.Contains(lower, "-- ending hand #"):
		ev.Kind = EventHandEnd
		ev.HandID = p.extractHandID(entry)

	case strings.Contains(lower, "player stacks:"):
		ev.Kind = EventPlayerStacks
		ev.Stacks = p.extractStacks(entry)

	case strings.Contains(lower, "posts a small blind of"):
		ev.Kind = EventSmallBlind
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "posts a big blind of"):
		ev.Kind = EventBigBlind
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(entry, `" folds`):
		ev.Kind = EventFold
		ev.Player = p.extractPlayer(entry)

	case strings.Contains(entry, `" checks`):
		ev.Kind = EventCheck
		ev.Player = p.extractPlayer(entry)

	case strings.Contains(entry, `" calls`):
		ev.Kind = EventCall
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(entry, `" bets`):
		ev.Kind = EventBet
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(entry, `" raises to`):
		ev.Kind = EventRaise
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "all-in") || strings.Contains(lower, "all in"):
		ev.Kind = EventAllIn
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "flop:"):
		ev.Kind = EventFlop
		ev.Cards = p.extractCards(entry)

	case strings.Contains(lower, "turn:"):
		ev.Kind = EventTurn
		ev.Cards = p.extractCards(entry)

	case strings.Contains(lower, "river:"):
		ev.Kind = EventRiver
		ev.Cards = p.extractCards(entry)

	case strings.Contains(entry, `" shows`):
		ev.Kind = EventShow
		ev.Player = p.extractPlayer(entry)
		ev.Cards = p.extractCards(entry)

	case strings.Contains(entry, `" collected`) && strings.Contains(lower, "from pot"):
		ev.Kind = EventCollected
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "uncalled bet of"):
		ev.Kind = EventUncalledBet
		ev.Player = p.extractPlayerAfter(entry, "returned to")
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "stand up with the stack of"):
		ev.Kind = EventPlayerLeave
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "quits the game with a stack of"):
		ev.Kind = EventPlayerQuit
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "approved the player") && strings.Contains(lower, "with a stack of"):
		ev.Kind = EventPlayerApproved
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "joined the game with a stack of"):
		ev.Kind = EventPlayerJoin
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)

	case strings.Contains(lower, "adding") && strings.Contains(lower, "chips"):
		ev.Kind = EventPlayerAdding
		ev.Player = p.extractPlayer(entry)
		ev.Amount = p.extractAmount(entry)
	}

	return ev
}

func (p *Parser) parseRow(row []string, cols map[string]int) (Event, bool) {
	entry := field(row, cols, "entry")
	at := field(row, cols, "at")
	if entry == "" || at == "" {
		return Event{}, false
	}

	timestamp, err := parseTimestamp(at)
	if err != nil {
		return Event{}, false
	}

	order, _ := strconv.ParseInt(field(row, cols, "order"), 10, 64)

	ev := p.ClassifyEntry(entry)
	ev.Timestamp = timestamp
	ev.Order = order
	return ev, true
}

func (p *Parser) extractPlayer(entry string) *game.Identity {
	match := p.playerRe.FindStringSubmatch(entry)
	if match == nil {
		return nil
	}
	return &game.Identity{Name: match[1], ID: match[2]}
}

// extractPlayerAfter finds the first "name @ id" token after the given
// keyword, falling back to the first token in the whole entry.
func (p *Parser) extractPlayerAfter(entry, keyword string) *game.Identity {
	pos := strings.Index(strings.ToLower(entry), strings.ToLower(keyword))
	if pos >= 0 {
		if id := p.extractPlayer(entry[pos:]); id != nil {
			return id
		}
	}
	return p.extractPlayer(entry)
}

// extractAmount finds the first numeric token after removing every player
// identity substring, so digits inside names and ids are never mistaken
// for amounts.
func (p *Parser) extractAmount(entry string) float64 {
	stripped := p.playerRe.ReplaceAllString(entry, "")
	match := p.amountRe.FindString(stripped)
	if match == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return amount
}

func (p *Parser) extractHandID(entry string) string {
	if match := p.handNumRe.FindStringSubmatch(entry); match != nil {
		return match[1]
	}
	if match := p.handTokenRe.FindStringSubmatch(entry); match != nil {
		return match[1]
	}
	return ""
}

// extractCards finds every rank+suit pair in the entry, in order.
func (p *Parser) extractCards(entry string) []deck.Card {
	var cards []deck.Card
	for _, match := range p.cardRe.FindAllStringSubmatch(entry, -1) {
		card, err := deck.ParseCard(match[0])
		if err != nil {
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

func (p *Parser) extractStacks(entry string) []SeatStack {
	var stacks []SeatStack
	for _, match := range p.stackRe.FindAllStringSubmatch(entry, -1) {
		position, _ := strconv.Atoi(match[1])
		stack, _ := strconv.ParseFloat(match[4], 64)
		stacks = append(stacks, SeatStack{
			Position: position,
			Player:   game.Identity{Name: match[2], ID: match[3]},
			Stack:    stack,
		})
	}
	return stacks
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.000Z07:00", s)
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}

func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func reverse(events []Event) {
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}
