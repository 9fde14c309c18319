package game

import "strings"

// Identity identifies a player by display name plus the stable id PokerNow
// assigns per table. Used as the map key everywhere in place of ad hoc
// string concatenation.
type Identity struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Key renders the identity in the log's "name @ id" form. Hand and Player
// maps are keyed by this string so they survive JSON round-trips.
func (i Identity) Key() string {
	return i.Name + " @ " + i.ID
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.Name == "" && i.ID == ""
}

// ParseKey splits a "name @ id" key back into an Identity. The name itself
// may contain " @ ", so the split is on the last occurrence.
func ParseKey(key string) Identity {
	idx := strings.LastIndex(key, " @ ")
	if idx < 0 {
		return Identity{Name: key}
	}
	return Identity{Name: key[:idx], ID: key[idx+3:]}
}
