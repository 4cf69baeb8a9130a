/*
This file defines the two session kinds owned by the Store: the two-player
Room and the single-player Solitary session. Fields are mutated only while
the session mutex is held (see Store.WithRoom / Store.WithSolitary).
*/
package game

import "sync"

// InitialLives is the number of lives each room player starts with.
const InitialLives = 3

// Room is a paired two-player session identified by a short code. Roles are
// named rather than positional: the first entrant is the Creator, the second
// the Opponent.
type Room struct {
	Code string

	Creator  string
	Opponent string // empty until the second player joins

	// CurrentTurn holds the player whose move is awaited. Empty until the
	// room has two players.
	CurrentTurn string

	// Lives remaining per player.
	Lives map[string]int

	// UsedCities in play order; used mirrors it for O(1) membership checks.
	UsedCities []string
	used       map[string]struct{}

	// sideUsed marks a player who has spent their one out-of-turn message
	// during the opponent's current turn.
	sideUsed map[string]bool

	// closed is set during termination so that a racing timer fire or
	// message finds the room dead even while still holding a pointer to it.
	closed bool

	mu sync.Mutex
}

func newRoom(code, creator string) *Room {
	return &Room{
		Code:     code,
		Creator:  creator,
		Lives:    map[string]int{creator: InitialLives},
		used:     make(map[string]struct{}),
		sideUsed: make(map[string]bool),
	}
}

// Full reports whether both seats are taken.
func (r *Room) Full() bool {
	return r.Opponent != ""
}

// HasPlayer reports whether player occupies a seat in the room.
func (r *Room) HasPlayer(player string) bool {
	return player == r.Creator || (r.Opponent != "" && player == r.Opponent)
}

// OpponentOf returns the other seat's player, or "" if the room is not full
// or player is not seated.
func (r *Room) OpponentOf(player string) string {
	switch player {
	case r.Creator:
		return r.Opponent
	case r.Opponent:
		return r.Creator
	}
	return ""
}

// IsUsed reports whether the normalized city name was already played here.
func (r *Room) IsUsed(name string) bool {
	_, ok := r.used[name]
	return ok
}

// RecordCity appends a played city to the room history.
func (r *Room) RecordCity(name string) {
	r.UsedCities = append(r.UsedCities, name)
	r.used[name] = struct{}{}
}

// RequiredLetter returns the letter the next city must start with, derived
// from the last city played in the room, or 0 when no city has been played.
func (r *Room) RequiredLetter() rune {
	if len(r.UsedCities) == 0 {
		return 0
	}
	return EffectiveLastLetter(r.UsedCities[len(r.UsedCities)-1])
}

// Solitary is a single-player session against the automated opponent.
type Solitary struct {
	Player string

	UsedCities []string
	used       map[string]struct{}

	// closed is set when the session ends so a concurrently resolved pointer
	// is never mutated after removal.
	closed bool

	mu sync.Mutex
}

func newSolitary(player string) *Solitary {
	return &Solitary{
		Player: player,
		used:   make(map[string]struct{}),
	}
}

// IsUsed reports whether the normalized city name was already played in this
// session, by either side.
func (s *Solitary) IsUsed(name string) bool {
	_, ok := s.used[name]
	return ok
}

// RecordCity appends a played city to the session history.
func (s *Solitary) RecordCity(name string) {
	s.UsedCities = append(s.UsedCities, name)
	s.used[name] = struct{}{}
}

// RequiredLetter returns the letter the player's next city must start with.
// The letter always derives from the last city played in the session,
// regardless of which side played it; 0 means the chain is unconstrained.
func (s *Solitary) RequiredLetter() rune {
	if len(s.UsedCities) == 0 {
		return 0
	}
	return EffectiveLastLetter(s.UsedCities[len(s.UsedCities)-1])
}
