// Package merge combines analyzed datasets from multiple sessions into a
// single view, collapsing alias identities of the same underlying player.
package merge

import (
	"io"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/pokernow/analyzer/internal/deck"
	"github.com/pokernow/analyzer/internal/game"
)

var dateTokenRe = regexp.MustCompile(`\d{4,8}`)

// DateToken derives a session date label from a log or dataset path. An
// 8-digit run in the file name is taken verbatim as YYYYMMDD; a 4-digit
// run is treated as MMDD of the given year. Anything else falls back to
// the parent directory name.
func DateToken(path, year string) string {
	base := filepath.Base(path)
	switch token := dateTokenRe.FindString(base); len(token) {
	case 8:
		return token
	case 4:
		return year + token
	default:
		return filepath.Base(filepath.Dir(path))
	}
}

// Dataset is one session's analyzed output, keyed by its date label.
type Dataset struct {
	Date    string
	Hands   []*game.Hand
	Players map[string]*game.Player
}

// Resolver maps every identity seen across datasets to its canonical
// identity. The returned map is keyed by the original "name @ id" key.
type Resolver interface {
	Resolve(ids []game.Identity) map[string]game.Identity
}

var trailingDigitsRe = regexp.MustCompile(`\d+$`)

// normalizeName strips the numeric suffix PokerNow appends to duplicate
// nicknames, so "Alice2" and "Alice" compare equal.
func normalizeName(name string) string {
	return trailingDigitsRe.ReplaceAllString(name, "")
}

// SuffixResolver merges identities that share a stable player id, using
// the suffix-stripped nickname as the canonical name. Identities whose
// normalized names collide but whose ids differ are reported and left
// separate: a shared nickname is not proof of a shared player.
type SuffixResolver struct {
	logger *log.Logger
}

// NewSuffixResolver creates the default resolver. A nil logger discards
// ambiguity reports.
func NewSuffixResolver(logger *log.Logger) *SuffixResolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SuffixResolver{logger: logger}
}

// Resolve groups the identities by stable id and picks one canonical name
// per group.
func (r *SuffixResolver) Resolve(ids []game.Identity) map[string]game.Identity {
	byID := make(map[string][]game.Identity)
	seen := make(map[string]bool)
	for _, id := range ids {
		key := id.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		byID[id.ID] = append(byID[id.ID], id)
	}

	resolved := make(map[string]game.Identity, len(seen))
	nameOwners := make(map[string]map[string]bool)

	for stableID, group := range byID {
		// Shortest normalized name wins; ties break alphabetically so the
		// choice is deterministic regardless of dataset order.
		names := make([]string, 0, len(group))
		for _, id := range group {
			names = append(names, normalizeName(id.Name))
		}
		sort.Slice(names, func(i, j int) bool {
			if len(names[i]) != len(names[j]) {
				return len(names[i]) < len(names[j])
			}
			return names[i] < names[j]
		})
		canonical := game.Identity{Name: names[0], ID: stableID}

		for _, id := range group {
			resolved[id.Key()] = canonical

			norm := normalizeName(id.Name)
			if nameOwners[norm] == nil {
				nameOwners[norm] = make(map[string]bool)
			}
			nameOwners[norm][stableID] = true
		}
	}

	for name, owners := range nameOwners {
		if len(owners) > 1 {
			r.logger.Warn("nickname shared by distinct player ids, not merged",
				"name", name, "ids", len(owners))
		}
	}

	return resolved
}

// Merger accumulates datasets and produces a combined one. Hand ids are
// prefixed with their dataset's date label so ids from different sessions
// cannot collide.
type Merger struct {
	logger   *log.Logger
	resolver Resolver
	datasets []Dataset
}

// NewMerger creates a merger. A nil resolver uses the suffix resolver.
func NewMerger(logger *log.Logger, resolver Resolver) *Merger {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if resolver == nil {
		resolver = NewSuffixResolver(logger)
	}
	return &Merger{logger: logger, resolver: resolver}
}

// Add queues a dataset for merging.
func (m *Merger) Add(ds Dataset) {
	m.datasets = append(m.datasets, ds)
}

// Result merges all queued datasets. Datasets are processed in date order
// so that "latest final stack wins" is well defined. The input datasets
// are not modified.
func (m *Merger) Result() Dataset {
	ordered := append([]Dataset(nil), m.datasets...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	var ids []game.Identity
	for _, ds := range ordered {
		for _, p := range ds.Players {
			ids = append(ids, p.Identity())
		}
		for _, h := range ds.Hands {
			for _, seat := range h.Players {
				ids = append(ids, game.Identity{Name: seat.Name, ID: seat.ID})
			}
		}
	}
	canon := m.resolver.Resolve(ids)

	out := Dataset{
		Date:    "merged",
		Players: make(map[string]*game.Player),
	}

	for _, ds := range ordered {
		prefix := ds.Date + "-"
		for _, h := range ds.Hands {
			out.Hands = append(out.Hands, rewriteHand(h, prefix, canon))
		}
		for _, p := range ds.Players {
			mergePlayer(out.Players, p, prefix, canon)
		}
	}

	m.logger.Info("merged datasets",
		"datasets", len(ordered), "hands", len(out.Hands), "players", len(out.Players))
	return out
}

func resolveKey(canon map[string]game.Identity, key string) game.Identity {
	if id, ok := canon[key]; ok {
		return id
	}
	return game.ParseKey(key)
}

// rewriteHand deep-copies a hand with the date-prefixed id and every
// identity rewritten to its canonical form.
func rewriteHand(h *game.Hand, prefix string, canon map[string]game.Identity) *game.Hand {
	var dealer *game.Identity
	if h.Dealer != nil {
		d := resolveKey(canon, h.Dealer.Key())
		dealer = &d
	}

	out := game.NewHand(prefix+h.ID, h.Number, h.Timestamp, dealer)
	out.SmallBlind, out.BigBlind = h.SmallBlind, h.BigBlind
	out.Flop = append([]deck.Card(nil), h.Flop...)
	out.Turn, out.River = h.Turn, h.River
	out.PotSize = h.PotSize

	for key, seat := range h.Players {
		id := resolveKey(canon, key)
		out.AddPlayer(id, seat.Stack, seat.Position)
	}
	for _, street := range game.Streets {
		for _, a := range h.Actions[street] {
			a.Player = resolveKey(canon, a.Key())
			out.AddAction(a)
		}
	}
	for key, cards := range h.Showdowns {
		out.Showdowns[resolveKey(canon, key).Key()] = cards
	}
	for key, amount := range h.Winners {
		id := resolveKey(canon, key)
		out.Winners[id.Key()] += amount
		// SetWinner would recompute the max; the pot size was already
		// copied from the source hand.
	}
	return out
}

// mergePlayer folds one player record into the merged map under their
// canonical identity. Hand-keyed maps are re-keyed with the dataset's date
// prefix; financial totals sum except the final stack, where the latest
// dataset wins.
func mergePlayer(players map[string]*game.Player, p *game.Player, prefix string, canon map[string]game.Identity) {
	id := resolveKey(canon, p.Key())
	target, ok := players[id.Key()]
	if !ok {
		target = game.NewPlayer(id)
		players[id.Key()] = target
	}

	for _, handID := range p.HandIDs {
		target.AddHand(prefix+handID, p.StartingStacks[handID])
	}
	for handID, profit := range p.HandProfits {
		target.HandProfits[prefix+handID] = profit
	}
	for handID, buyIn := range p.HandBuyIns {
		target.HandBuyIns[prefix+handID] += buyIn
	}

	target.TotalBuyIn += p.TotalBuyIn
	target.TotalBuyOut += p.TotalBuyOut
	target.TotalProfit += p.TotalProfit
	target.Sessions += p.Sessions
	target.FinalStack = p.FinalStack
}
