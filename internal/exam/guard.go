package exam

import "levelcat/internal/api"

// DefaultMaxPlays is the replay budget applied when an audio item does not
// specify one.
const DefaultMaxPlays = 2

// PlaybackGuard mediates between user-triggered play events and the
// server-metered replay budget for one audio item. Rapid or overlapping
// play events must not double-spend plays: at most one authorization
// round-trip is in flight at a time, and the server-reported count is
// authoritative. A guard is created when an audio item is presented and
// discarded when the item changes.
type PlaybackGuard struct {
	itemID         string
	playsObserved  int
	maxPlays       int
	requestPending bool
	blocked        bool
}

// NewPlaybackGuard creates a guard for the given item with a fresh budget.
func NewPlaybackGuard(itemID string, maxPlays int) *PlaybackGuard {
	if maxPlays <= 0 {
		maxPlays = DefaultMaxPlays
	}
	return &PlaybackGuard{itemID: itemID, maxPlays: maxPlays}
}

// Attempt reports whether a play authorization request should be issued
// for this event. Attempts while blocked, while a request is pending, or
// once the observed count has reached the budget are dropped locally and
// contribute no network call. A true return latches requestPending.
func (g *PlaybackGuard) Attempt() bool {
	if g.blocked || g.requestPending || g.playsObserved >= g.maxPlays {
		return false
	}
	g.requestPending = true
	return true
}

// Settle applies the outcome of an authorization round-trip. Results for a
// superseded item are discarded. The pending latch clears on both success
// and failure; any failure blocks the item until it changes.
func (g *PlaybackGuard) Settle(itemID string, res *api.PlayResult, err error) {
	if itemID != g.itemID {
		return
	}
	g.requestPending = false
	if err != nil {
		g.blocked = true
		return
	}
	g.playsObserved = res.Plays
	if res.MaxPlays > 0 {
		g.maxPlays = res.MaxPlays
	}
}

// ItemID returns the identity the guard was created for.
func (g *PlaybackGuard) ItemID() string { return g.itemID }

// Plays returns the server-confirmed replay count.
func (g *PlaybackGuard) Plays() int { return g.playsObserved }

// MaxPlays returns the replay budget.
func (g *PlaybackGuard) MaxPlays() int { return g.maxPlays }

// Blocked reports whether further plays are permanently refused for this
// item.
func (g *PlaybackGuard) Blocked() bool { return g.blocked }

// Pending reports whether an authorization round-trip is in flight.
func (g *PlaybackGuard) Pending() bool { return g.requestPending }

// Exhausted reports whether the local budget is visibly spent.
func (g *PlaybackGuard) Exhausted() bool { return g.playsObserved >= g.maxPlays }
