/*
This file defines the Store, the in-memory registry that exclusively owns all
mutable game state: active rooms, solitary sessions, and pending room-code
entry flags.

Locking discipline: the store mutex guards only the registry maps; each room
or solitary session carries its own mutex serializing every mutation of its
state, whether message-driven or timer-driven. A session mutex is never
acquired while the store mutex is held (the reverse nesting, used during room
termination, is allowed).
*/
package game

import (
	"sync"

	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/randx"
)

// Store is the registry of active sessions. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu sync.RWMutex

	rooms    map[string]*Room
	byPlayer map[string]string // player -> room code

	solitary map[string]*Solitary

	// pendingJoin marks players who issued /join_room and whose next
	// non-command message is a room code.
	pendingJoin map[string]struct{}
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		rooms:       make(map[string]*Room),
		byPlayer:    make(map[string]string),
		solitary:    make(map[string]*Solitary),
		pendingJoin: make(map[string]struct{}),
	}
}

// CreateRoom registers a new room with a fresh non-colliding code and the
// creator seated. Fails with ErrAlreadyInGame when the creator is still
// seated in another active room.
func (s *Store) CreateRoom(creator string) (*Room, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seated := s.byPlayer[creator]; seated {
		return nil, errs.NewError(errs.ErrAlreadyInGame)
	}

	code, err := randx.RoomCode()
	if err != nil {
		return nil, errs.NewError(errs.ErrUnknown)
	}
	for s.rooms[code] != nil {
		code, err = randx.RoomCode()
		if err != nil {
			return nil, errs.NewError(errs.ErrUnknown)
		}
	}

	room := newRoom(code, creator)
	s.rooms[code] = room
	s.byPlayer[creator] = code

	return room, nil
}

// JoinRoom seats joiner in the room identified by code, initializes their
// lives, and hands the first turn to the creator. Fails with ErrRoomNotFound,
// ErrRoomFull, or ErrAlreadyInGame; validation failures leave all state
// untouched.
func (s *Store) JoinRoom(code, joiner string) (*Room, *errs.CustomError) {
	s.mu.RLock()
	room := s.rooms[code]
	_, seated := s.byPlayer[joiner]
	s.mu.RUnlock()

	if room == nil {
		return nil, errs.NewError(errs.ErrRoomNotFound, code)
	}
	if seated {
		return nil, errs.NewError(errs.ErrAlreadyInGame)
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return nil, errs.NewError(errs.ErrRoomNotFound, code)
	}
	if room.Full() {
		return nil, errs.NewError(errs.ErrRoomFull, code)
	}

	room.Opponent = joiner
	room.Lives[joiner] = InitialLives
	room.CurrentTurn = room.Creator

	s.mu.Lock()
	s.byPlayer[joiner] = code
	s.mu.Unlock()

	return room, nil
}

// WithRoom runs fn with the room's mutex held, after re-checking that the
// room still exists and was not closed by a concurrent termination. It
// returns false when no live room carries the code, which makes a timer that
// fires into a removed room a no-op.
func (s *Store) WithRoom(code string, fn func(*Room)) bool {
	s.mu.RLock()
	room := s.rooms[code]
	s.mu.RUnlock()

	if room == nil {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return false
	}

	fn(room)
	return true
}

// WithRoomFor is WithRoom keyed by a seated player instead of a room code.
func (s *Store) WithRoomFor(player string, fn func(*Room)) bool {
	s.mu.RLock()
	code, ok := s.byPlayer[player]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	return s.WithRoom(code, fn)
}

// CloseRoom marks the room dead and removes it with its player index entries.
// Callers must hold the room's mutex; the closed flag makes any concurrently
// resolved pointer to the room inert.
func (s *Store) CloseRoom(room *Room) {
	room.closed = true

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, room.Code)
	delete(s.byPlayer, room.Creator)
	if room.Opponent != "" {
		delete(s.byPlayer, room.Opponent)
	}
}

// InRoom reports whether player is seated in an active room.
func (s *Store) InRoom(player string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byPlayer[player]
	return ok
}

// WithSolitary runs fn with the player's solitary session mutex held,
// creating the session first when create is set. It returns false when the
// player has no session and create is unset. A session closed while we waited
// for its mutex is resolved again from scratch.
func (s *Store) WithSolitary(player string, create bool, fn func(*Solitary)) bool {
	for {
		s.mu.Lock()
		session := s.solitary[player]
		if session == nil {
			if !create {
				s.mu.Unlock()
				return false
			}
			session = newSolitary(player)
			s.solitary[player] = session
		}
		s.mu.Unlock()

		session.mu.Lock()
		if session.closed {
			session.mu.Unlock()
			continue
		}

		fn(session)
		session.mu.Unlock()
		return true
	}
}

// CloseSolitary marks the session dead and drops it from the registry.
// Callers must hold the session's mutex.
func (s *Store) CloseSolitary(session *Solitary) {
	session.closed = true

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.solitary, session.Player)
}

// RemoveSolitary drops the player's solitary session without requiring its
// mutex, reporting whether one existed. Used by the explicit /stop path.
func (s *Store) RemoveSolitary(player string) bool {
	s.mu.Lock()
	session, ok := s.solitary[player]
	if ok {
		delete(s.solitary, player)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}

	session.mu.Lock()
	session.closed = true
	session.mu.Unlock()
	return true
}

// MarkPendingJoin records that the player's next plain message is a room code.
func (s *Store) MarkPendingJoin(player string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingJoin[player] = struct{}{}
}

// TakePendingJoin consumes the pending-join flag, reporting whether it was set.
func (s *Store) TakePendingJoin(player string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pendingJoin[player]; !ok {
		return false
	}
	delete(s.pendingJoin, player)
	return true
}

// Counts returns the number of active rooms and solitary sessions.
func (s *Store) Counts() (rooms, solitary int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms), len(s.solitary)
}
