package display

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pokernow/analyzer/internal/stats"
	"github.com/pokernow/analyzer/internal/storage"
)

func TestStatsTableSortsByProfit(t *testing.T) {
	rows := []StatsRow{
		{Name: "Bob", Stats: &stats.PlayerStatistics{HandsPlayed: 50}, Profit: -20},
		{Name: "Alice", Stats: &stats.PlayerStatistics{HandsPlayed: 50, VPIPHands: 10}, Profit: 35},
	}

	out := StatsTable(DefaultStyles(), rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "VPIP%")
	assert.Contains(t, lines[1], "Alice")
	assert.Contains(t, lines[2], "Bob")
	assert.Contains(t, lines[1], "20.0") // 10/50 VPIP
}

func TestStatsTableTruncatesLongNames(t *testing.T) {
	rows := []StatsRow{
		{Name: strings.Repeat("x", 40), Stats: &stats.PlayerStatistics{}, Profit: 0},
	}
	out := StatsTable(DefaultStyles(), rows)
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, strings.Repeat("x", 21))
}

func TestSessionSummary(t *testing.T) {
	s := storage.Summary{
		Date:        "20250314",
		HandCount:   120,
		PlayerCount: 6,
		FirstHand:   time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC),
		LastHand:    time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC),
	}
	out := SessionSummary(DefaultStyles(), s)
	assert.Contains(t, out, "20250314: 120 hands, 6 players")
	assert.Contains(t, out, "20:00")
}
