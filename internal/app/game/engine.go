/*
This file defines the Engine, the game orchestrator. Every inbound chat
message enters through HandleMessage; timer expiries enter through the same
per-session serialization via the store. The engine owns no state itself:
it validates, mutates store-owned sessions under their locks, emits outbound
messages through the Sender, and (re)arms turn timers.
*/
package game

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/logx"
	"goroda/internal/pkg/metrics"
	"goroda/internal/pkg/randx"
)

// Termination reasons reported in logs and metrics.
const (
	reasonStopped        = "stopped"
	reasonLivesExhausted = "lives_exhausted"
	reasonNoContinuation = "no_continuation"
	reasonSolitaryWin    = "solitary_win"
)

// Engine drives both game modes from inbound messages and timer expiries.
type Engine struct {
	store   *Store
	dir     CityDirectory
	sender  Sender
	timers  *TimerService
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewEngine constructs an Engine with its own timer service.
func NewEngine(store *Store, dir CityDirectory, sender Sender, m *metrics.Metrics, turnDuration time.Duration) *Engine {
	if turnDuration <= 0 {
		turnDuration = DefaultTurnDuration
	}

	e := &Engine{
		store:   store,
		dir:     dir,
		sender:  sender,
		metrics: m,
		logger:  logx.Logger().With().Str("component", "game").Logger(),
	}
	e.timers = NewTimerService(turnDuration, e.handleTimeout)

	return e
}

// Shutdown cancels all armed turn timers.
func (e *Engine) Shutdown() {
	e.timers.StopAll()
}

// HandleMessage is the sole inbound trigger: it routes a player's text to
// command handling, pending room-code entry, the player's room, or their
// solitary session, in that order.
func (e *Engine) HandleMessage(player, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	e.metrics.InboundMessagesTotal.Inc()

	if strings.HasPrefix(text, "/") && e.handleCommand(player, text) {
		return
	}

	if e.store.TakePendingJoin(player) {
		e.joinRoom(player, randx.NormalizeRoomCode(text))
		return
	}

	if e.store.WithRoomFor(player, func(room *Room) {
		e.playRoomTurn(room, player, text)
	}) {
		return
	}

	e.handleSolitaryMessage(player, text)
}

// handleCommand dispatches the textual command surface. Unrecognized
// commands report false and fall through to game-message handling.
func (e *Engine) handleCommand(player, text string) bool {
	command := strings.ToLower(strings.Fields(text)[0])

	// Any recognized command other than /join_room abandons a pending
	// room-code entry.
	if command != "/join_room" {
		e.store.TakePendingJoin(player)
	}

	switch command {
	case "/start", "/help":
		e.sender.Send(player, textWelcome, false)
	case "/rules":
		e.sender.Send(player, textRules, true)
	case "/stop":
		e.stop(player)
	case "/create_room":
		e.createRoom(player)
	case "/join_room":
		e.store.MarkPendingJoin(player)
		e.sender.Send(player, textEnterRoomCode, false)
	default:
		return false
	}

	return true
}

func (e *Engine) createRoom(player string) {
	room, cerr := e.store.CreateRoom(player)
	if cerr != nil {
		e.sendError(player, cerr)
		return
	}

	e.logger.Info().Str("room_code", room.Code).Str("creator", player).Msg("Room created")
	e.syncGauges()
	e.sender.Send(player, fmt.Sprintf(textRoomCreated, room.Code), false)
}

func (e *Engine) joinRoom(player, code string) {
	if !randx.IsValidRoomCode(code) {
		e.sendError(player, errs.NewError(errs.ErrRoomNotFound, code))
		return
	}

	room, cerr := e.store.JoinRoom(code, player)
	if cerr != nil {
		e.sendError(player, cerr)
		return
	}

	e.logger.Info().Str("room_code", code).Str("joiner", player).Msg("Room is full, game starting")
	e.sender.Send(player, fmt.Sprintf(textJoinedRoom, code), false)
	e.sender.Send(room.Creator, textOpponentJoined, false)
	e.timers.Arm(code)
}

// stop terminates the sender's room if they are seated, otherwise their
// solitary session. A player with neither gets no reply.
func (e *Engine) stop(player string) {
	stopped := e.store.WithRoomFor(player, func(room *Room) {
		e.terminateRoom(room, reasonStopped)
		e.sender.Send(room.Creator, textRoomGameOver, false)
		if room.Opponent != "" {
			e.sender.Send(room.Opponent, textRoomGameOver, false)
		}
	})
	if stopped {
		return
	}

	if e.store.RemoveSolitary(player) {
		e.syncGauges()
		e.sender.Send(player, textSolitaryGameOver, false)
	}
}

// terminateRoom cancels the room's timer and removes it from the store.
// Callers hold the room's mutex and send their own notices.
func (e *Engine) terminateRoom(room *Room, reason string) {
	e.timers.Cancel(room.Code)
	e.store.CloseRoom(room)

	e.logger.Info().Str("room_code", room.Code).Str("reason", reason).Msg("Room terminated")
	e.metrics.GamesFinishedTotal.WithLabelValues(reason).Inc()
	e.syncGauges()
}

// playRoomTurn handles a message from a seated player, under the room lock.
func (e *Engine) playRoomTurn(room *Room, player, text string) {
	if !room.Full() {
		e.sender.Send(player, fmt.Sprintf(textWaitingForOpponent, room.Code), false)
		return
	}

	if player != room.CurrentTurn {
		// Side channel: one message per opponent turn, forwarded verbatim
		// and exempt from the word-chain rules.
		if room.sideUsed[player] {
			e.sendError(player, errs.NewError(errs.ErrSideChannelExhausted))
			return
		}
		room.sideUsed[player] = true
		e.sender.Send(room.OpponentOf(player), fmt.Sprintf(textSideForwarded, text), false)
		e.sender.Send(player, textSideAck, false)
		return
	}

	opponent := room.OpponentOf(player)
	room.sideUsed[opponent] = false

	candidate := Normalize(text)
	if cerr := e.validateMove(candidate, room.IsUsed, room.RequiredLetter()); cerr != nil {
		e.metrics.MovesTotal.WithLabelValues("room", "rejected").Inc()
		e.sendError(player, cerr)
		return
	}

	room.RecordCity(candidate)
	room.CurrentTurn = opponent
	e.metrics.MovesTotal.WithLabelValues("room", "accepted").Inc()

	info := e.describe(candidate)
	e.sender.Send(room.Creator, info, true)
	e.sender.Send(room.Opponent, info, true)

	required := EffectiveLastLetter(candidate)

	// The mover wins outright when the directory holds no unused
	// continuation for the opponent.
	if _, ok := e.dir.RandomUnused(required, room.IsUsed); !ok {
		e.sender.Send(player, textNoContinuationWon, false)
		e.sender.Send(opponent, textNoContinuationLost, false)
		e.terminateRoom(room, reasonNoContinuation)
		return
	}

	e.sender.Send(opponent, fmt.Sprintf(textYourTurn, string(required)), false)
	e.sender.Send(player, fmt.Sprintf(textOpponentTurn, string(required)), false)
	e.timers.Arm(room.Code)
}

// handleSolitaryMessage runs one solitary exchange: validate and record the
// player's city, then answer with a random unused continuation or concede.
func (e *Engine) handleSolitaryMessage(player, text string) {
	e.store.WithSolitary(player, true, func(session *Solitary) {
		candidate := Normalize(text)
		if cerr := e.validateMove(candidate, session.IsUsed, session.RequiredLetter()); cerr != nil {
			e.metrics.MovesTotal.WithLabelValues("solitary", "rejected").Inc()
			e.sendError(player, cerr)
			return
		}

		session.RecordCity(candidate)
		e.metrics.MovesTotal.WithLabelValues("solitary", "accepted").Inc()
		e.sender.Send(player, e.describe(candidate), true)

		reply, ok := e.dir.RandomUnused(EffectiveLastLetter(candidate), session.IsUsed)
		if !ok {
			e.store.CloseSolitary(session)
			e.metrics.GamesFinishedTotal.WithLabelValues(reasonSolitaryWin).Inc()
			e.syncGauges()
			e.sender.Send(player, textSolitaryWin, false)
			e.sender.Send(player, textSolitaryGameOver, false)
			return
		}

		session.RecordCity(reply)
		e.sender.Send(player, e.describe(reply), true)
		e.sender.Send(player, fmt.Sprintf(textYourTurn, string(EffectiveLastLetter(reply))), false)
	})
	e.syncGauges()
}

// handleTimeout is the timer service callback: the current player loses a
// life and the turn flips, or the room terminates when lives run out. A fire
// racing room termination finds no live room and is dropped.
func (e *Engine) handleTimeout(code string, seq uint64) {
	handled := e.store.WithRoom(code, func(room *Room) {
		// A move completed between the fire and this lock acquisition may
		// have superseded the countdown; claiming the generation under the
		// room lock keeps such a stale fire from charging the next player.
		if !e.timers.Claim(code, seq) {
			e.logger.Debug().Str("room_code", code).Msg("Superseded timer fire, dropped")
			return
		}

		timedOut := room.CurrentTurn
		opponent := room.OpponentOf(timedOut)
		if timedOut == "" || opponent == "" {
			return
		}

		room.Lives[timedOut]--
		lives := room.Lives[timedOut]
		e.metrics.TurnTimeoutsTotal.Inc()
		e.logger.Info().Str("room_code", code).Str("player", timedOut).Int("lives", lives).Msg("Turn timed out")

		e.sender.Send(timedOut, fmt.Sprintf(textTimeoutSelf, lives), false)
		e.sender.Send(opponent, fmt.Sprintf(textTimeoutOpponent, lives), false)

		if lives <= 0 {
			e.sender.Send(timedOut, textLivesLost, false)
			e.sender.Send(opponent, textLivesWon, false)
			e.terminateRoom(room, reasonLivesExhausted)
			return
		}

		room.CurrentTurn = opponent
		room.sideUsed[opponent] = false
		e.timers.Arm(code)
	})

	if !handled {
		e.logger.Debug().Str("room_code", code).Msg("Timer fired for removed room, dropped")
	}
}

// validateMove applies the shared move validation: length, repetition, chain
// letter, and directory membership. required of 0 means the chain is
// unconstrained. Failures leave all state untouched.
func (e *Engine) validateMove(candidate string, isUsed func(string) bool, required rune) *errs.CustomError {
	if utf8.RuneCountInString(candidate) < 2 {
		return errs.NewError(errs.ErrCityTooShort)
	}
	if isUsed(candidate) {
		return errs.NewError(errs.ErrCityAlreadyUsed, candidate)
	}
	if required != 0 && !ValidContinuation(candidate, required) {
		return errs.NewError(errs.ErrWrongLetter, string(required))
	}
	if !e.dir.Lookup(candidate) {
		return errs.NewError(errs.ErrCityUnknown)
	}
	return nil
}

// describe fetches the rich info card for an accepted city. A transient
// upstream failure degrades to a user-visible notice; the move itself stands.
func (e *Engine) describe(name string) string {
	info, err := e.dir.Describe(name)
	if err != nil {
		e.logger.Warn().Err(err).Str("city", name).Msg("City info fetch failed")
		return errs.NewError(errs.ErrCityInfoUnavailable).Message
	}
	return info
}

// sendError delivers a validation failure to the offending player only.
func (e *Engine) sendError(player string, cerr *errs.CustomError) {
	e.sender.SendError(player, cerr.Code, cerr.Message)
}

func (e *Engine) syncGauges() {
	rooms, solitary := e.store.Counts()
	e.metrics.ActiveRooms.Set(float64(rooms))
	e.metrics.ActiveSolitary.Set(float64(solitary))
}
