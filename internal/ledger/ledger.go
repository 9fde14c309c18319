// Package ledger parses the PokerNow ledger export, the authoritative
// per-session financial record. The ledger is trusted as ground truth for
// player profit; hand-by-hand replay only decomposes it.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pokernow/analyzer/internal/game"
)

// ZeroSumTolerance is the floating point slack allowed when checking that
// all player nets sum to zero.
const ZeroSumTolerance = 0.01

// Entry is one ledger row: a single player session.
type Entry struct {
	Nickname     string
	PlayerID     string
	SessionStart string
	SessionEnd   string
	BuyIn        float64
	BuyOut       float64
	Stack        float64
	Net          float64
}

// Identity returns the player identity for this entry.
func (e Entry) Identity() game.Identity {
	return game.Identity{Name: e.Nickname, ID: e.PlayerID}
}

// Totals aggregates every session of one player.
type Totals struct {
	Identity game.Identity
	BuyIn    float64
	BuyOut   float64
	Net      float64
	Sessions int

	// FinalStack is the last nonzero ending stack seen. It is a
	// point-in-time balance, never a sum; rows are session-chronological.
	FinalStack float64
}

// ParseFile reads a ledger CSV from disk.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads ledger rows. Rows missing the player columns are skipped;
// unparseable numeric fields read as zero.
func Parse(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var entries []Entry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		get := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		entry := Entry{
			Nickname:     get("player_nickname"),
			PlayerID:     get("player_id"),
			SessionStart: get("session_start_at"),
			SessionEnd:   get("session_end_at"),
			BuyIn:        parseFloat(get("buy_in")),
			BuyOut:       parseFloat(get("buy_out")),
			Stack:        parseFloat(get("stack")),
			Net:          parseFloat(get("net")),
		}
		if entry.Nickname == "" && entry.PlayerID == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Aggregate computes per-player totals across all sessions.
func Aggregate(entries []Entry) map[string]*Totals {
	totals := make(map[string]*Totals)
	for _, entry := range entries {
		key := entry.Identity().Key()
		t, ok := totals[key]
		if !ok {
			t = &Totals{Identity: entry.Identity()}
			totals[key] = t
		}
		t.BuyIn += entry.BuyIn
		t.BuyOut += entry.BuyOut
		t.Net += entry.Net
		t.Sessions++
		if entry.Stack > 0 {
			t.FinalStack = entry.Stack
		}
	}
	return totals
}

// VerifyZeroSum checks that all player nets cancel out. A cash game is zero
// sum by definition; a nonzero total indicates an incomplete ledger and is
// reported as a warning by callers, never an error.
func VerifyZeroSum(totals map[string]*Totals) (bool, float64) {
	var sum float64
	for _, t := range totals {
		sum += t.Net
	}
	return math.Abs(sum) < ZeroSumTolerance, sum
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
