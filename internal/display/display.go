// Package display renders analyzer output for the terminal.
package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pokernow/analyzer/internal/stats"
	"github.com/pokernow/analyzer/internal/storage"
)

// Styles holds the lipgloss styles used for terminal output
type Styles struct {
	Title    lipgloss.Style
	Header   lipgloss.Style
	Row      lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Muted    lipgloss.Style
}

// DefaultStyles returns the standard color scheme
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Row:      lipgloss.NewStyle(),
		Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// statsColumns defines the stats table layout. Widths fit the widest
// header plus typical values.
var statsColumns = []struct {
	name  string
	width int
}{
	{"Player", 20},
	{"Hands", 6},
	{"VPIP%", 6},
	{"PFR%", 6},
	{"3Bet%", 6},
	{"AF", 5},
	{"CBet%", 6},
	{"WTSD%", 6},
	{"W$SD%", 6},
	{"Win%", 6},
	{"BB/100", 8},
	{"Profit", 10},
}

// StatsRow pairs a player's statistics with their ledger profit.
type StatsRow struct {
	Name   string
	Stats  *stats.PlayerStatistics
	Profit float64
}

// StatsTable renders per-player statistics sorted by profit descending.
func StatsTable(styles Styles, rows []StatsRow) string {
	sorted := append([]StatsRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Profit > sorted[j].Profit })

	var b strings.Builder

	var headers []string
	for _, col := range statsColumns {
		headers = append(headers, pad(col.name, col.width))
	}
	b.WriteString(styles.Header.Render(strings.Join(headers, " ")))
	b.WriteByte('\n')

	for _, row := range sorted {
		s := row.Stats
		cells := []string{
			pad(truncate(row.Name, 20), 20),
			pad(fmt.Sprintf("%d", s.HandsPlayed), 6),
			pad(fmt.Sprintf("%.1f", s.VPIP()), 6),
			pad(fmt.Sprintf("%.1f", s.PFR()), 6),
			pad(fmt.Sprintf("%.1f", s.ThreeBetPct()), 6),
			pad(s.AggressionFactor().String(), 5),
			pad(fmt.Sprintf("%.1f", s.CBetPct()), 6),
			pad(fmt.Sprintf("%.1f", s.WTSD()), 6),
			pad(fmt.Sprintf("%.1f", s.WSD()), 6),
			pad(fmt.Sprintf("%.1f", s.WinRate()), 6),
			pad(fmt.Sprintf("%.1f", s.BB100()), 8),
		}
		line := styles.Row.Render(strings.Join(cells, " "))

		profit := fmt.Sprintf("%+.1f", row.Profit)
		switch {
		case row.Profit > 0:
			profit = styles.Positive.Render(pad(profit, 10))
		case row.Profit < 0:
			profit = styles.Negative.Render(pad(profit, 10))
		default:
			profit = styles.Muted.Render(pad(profit, 10))
		}

		b.WriteString(line + " " + profit + "\n")
	}

	return b.String()
}

// SessionSummary renders a one-line description of a dataset.
func SessionSummary(styles Styles, s storage.Summary) string {
	line := fmt.Sprintf("%s: %d hands, %d players", s.Date, s.HandCount, s.PlayerCount)
	if !s.FirstHand.IsZero() {
		line += styles.Muted.Render(
			fmt.Sprintf("  (%s - %s)", s.FirstHand.Format("15:04"), s.LastHand.Format("15:04")))
	}
	return line
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
