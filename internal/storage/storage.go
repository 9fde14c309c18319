// Package storage persists analyzed datasets as JSON files in a per-session
// output directory. Writes go through atomic renames so a crashed run never
// leaves a half-written dataset behind.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pokernow/analyzer/internal/fileutil"
	"github.com/pokernow/analyzer/internal/game"
)

const (
	HandsFile   = "hands.json"
	PlayersFile = "players.json"
	SummaryFile = "summary.json"
)

// Summary is the top level description of one analyzed session.
type Summary struct {
	Source      string    `json:"source"`
	Date        string    `json:"date"`
	GeneratedAt time.Time `json:"generated_at"`
	HandCount   int       `json:"hand_count"`
	PlayerCount int       `json:"player_count"`
	FirstHand   time.Time `json:"first_hand,omitzero"`
	LastHand    time.Time `json:"last_hand,omitzero"`
}

// NewSummary derives a summary from an analyzed dataset.
func NewSummary(source, date string, hands []*game.Hand, players map[string]*game.Player) Summary {
	s := Summary{
		Source:      source,
		Date:        date,
		GeneratedAt: time.Now().UTC(),
		HandCount:   len(hands),
		PlayerCount: len(players),
	}
	if len(hands) > 0 {
		s.FirstHand = hands[0].Timestamp
		s.LastHand = hands[len(hands)-1].Timestamp
	}
	return s
}

// Save writes the dataset's three JSON files into dir, creating it first.
func Save(dir string, hands []*game.Hand, players map[string]*game.Player, summary Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, HandsFile), hands); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, PlayersFile), players); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, SummaryFile), summary)
}

// LoadHands reads the hand list from a dataset directory.
func LoadHands(dir string) ([]*game.Hand, error) {
	var hands []*game.Hand
	if err := readJSON(filepath.Join(dir, HandsFile), &hands); err != nil {
		return nil, err
	}
	return hands, nil
}

// LoadPlayers reads the player map from a dataset directory.
func LoadPlayers(dir string) (map[string]*game.Player, error) {
	var players map[string]*game.Player
	if err := readJSON(filepath.Join(dir, PlayersFile), &players); err != nil {
		return nil, err
	}
	return players, nil
}

// LoadSummary reads the dataset summary.
func LoadSummary(dir string) (Summary, error) {
	var s Summary
	if err := readJSON(filepath.Join(dir, SummaryFile), &s); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// IsDataset reports whether dir contains a saved dataset.
func IsDataset(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, SummaryFile))
	return err == nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
