package game

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"goroda/internal/pkg/errs"
	"goroda/internal/pkg/metrics"
)

// recordingSender is a test double for the Sender interface.
type recordingSender struct {
	mu     sync.Mutex
	texts  []sentText
	errors []sentError
}

type sentText struct {
	player string
	text   string
	rich   bool
}

type sentError struct {
	player string
	code   int
}

func (s *recordingSender) Send(player, text string, rich bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, sentText{player, text, rich})
}

func (s *recordingSender) SendError(player string, code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, sentError{player, code})
}

func (s *recordingSender) textsFor(player string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.texts {
		if m.player == player {
			out = append(out, m.text)
		}
	}
	return out
}

func (s *recordingSender) lastErrorFor(player string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.errors) - 1; i >= 0; i-- {
		if s.errors[i].player == player {
			return s.errors[i].code, true
		}
	}
	return 0, false
}

func (s *recordingSender) received(player, substr string) bool {
	for _, text := range s.textsFor(player) {
		if strings.Contains(text, substr) {
			return true
		}
	}
	return false
}

// fakeDirectory is a deterministic test double for the CityDirectory
// interface: RandomUnused picks the first matching city in listed order.
type fakeDirectory struct {
	cities       []string
	failDescribe bool
}

func (d *fakeDirectory) Lookup(name string) bool {
	for _, c := range d.cities {
		if c == name {
			return true
		}
	}
	return false
}

func (d *fakeDirectory) RandomUnused(letter rune, used func(string) bool) (string, bool) {
	for _, c := range d.cities {
		if ValidContinuation(c, letter) && !used(c) {
			return c, true
		}
	}
	return "", false
}

func (d *fakeDirectory) Describe(name string) (string, error) {
	if d.failDescribe {
		return "", errTestDescribe
	}
	return "<b>" + name + "</b>", nil
}

var errTestDescribe = errs.NewError(errs.ErrCityInfoUnavailable)

func newTestEngine(dir *fakeDirectory) (*Engine, *recordingSender) {
	sender := &recordingSender{}
	// The hour-long window keeps real timers from firing; timeout paths are
	// driven through fireTurnTimer.
	engine := NewEngine(NewStore(), dir, sender, metrics.New(prometheus.NewRegistry()), time.Hour)
	return engine, sender
}

// testRoomCode returns the code of the single room in the engine's store.
func testRoomCode(t *testing.T, e *Engine) string {
	t.Helper()
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()
	if len(e.store.rooms) != 1 {
		t.Fatalf("expected exactly one room, got %d", len(e.store.rooms))
	}
	for code := range e.store.rooms {
		return code
	}
	return ""
}

// pairUp creates a room for creator and seats joiner in it, returning the code.
func pairUp(t *testing.T, e *Engine, creator, joiner string) string {
	t.Helper()
	e.HandleMessage(creator, "/create_room")
	code := testRoomCode(t, e)
	e.HandleMessage(joiner, "/join_room")
	e.HandleMessage(joiner, code)
	return code
}

// armedSeq reads the generation of the countdown currently armed for code.
func armedSeq(t *testing.T, e *Engine, code string) uint64 {
	t.Helper()
	e.timers.mu.Lock()
	defer e.timers.mu.Unlock()
	entry, ok := e.timers.armed[code]
	if !ok {
		t.Fatalf("no armed timer for room %s", code)
	}
	return entry.seq
}

// fireTurnTimer delivers the armed countdown for code the way an elapsed
// timer would.
func fireTurnTimer(t *testing.T, e *Engine, code string) {
	t.Helper()
	e.handleTimeout(code, armedSeq(t, e, code))
}

func TestCommands(t *testing.T) {
	engine, sender := newTestEngine(&fakeDirectory{})

	engine.HandleMessage("p", "/start")
	if !sender.received("p", "Добро пожаловать") {
		t.Fatal("/start should send the welcome text")
	}

	engine.HandleMessage("p", "/rules")
	sender.mu.Lock()
	last := sender.texts[len(sender.texts)-1]
	sender.mu.Unlock()
	if !last.rich || !strings.Contains(last.text, "Правила игры") {
		t.Fatal("/rules should send the rich rules text")
	}
}

func TestSolitaryExchange(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана", "Тверь"}}
	engine, sender := newTestEngine(dir)

	engine.HandleMessage("p", "мОсКвА")

	// The player's city and the reply both produce info cards.
	if !sender.received("p", "<b>Москва</b>") {
		t.Fatal("accepted move should produce an info card")
	}
	if !sender.received("p", "<b>Астана</b>") {
		t.Fatal("the automated opponent should answer with an А city")
	}
	// Астана ends in А, the prompt names the next required letter.
	if !sender.received("p", "Назовите город на букву 'А'") {
		t.Fatalf("player should be prompted for the next letter, got %v", sender.textsFor("p"))
	}

	engine.store.WithSolitary("p", false, func(s *Solitary) {
		if len(s.UsedCities) != 2 {
			t.Fatalf("expected 2 used cities, got %v", s.UsedCities)
		}
	})
}

func TestSolitaryRejections(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана", "Тверь"}}
	engine, sender := newTestEngine(dir)

	engine.HandleMessage("p", "Москва") // bot answers Астана, required letter А

	cases := []struct {
		input string
		code  int
	}{
		{"Я", errs.ErrCityTooShort},
		{"Москва", errs.ErrCityAlreadyUsed},
		{"Тверь", errs.ErrWrongLetter},
		{"Абвгд", errs.ErrCityUnknown},
	}

	for _, c := range cases {
		engine.HandleMessage("p", c.input)
		code, ok := sender.lastErrorFor("p")
		if !ok || code != c.code {
			t.Errorf("input %q: expected error code %d, got %d", c.input, c.code, code)
		}
	}

	// Rejections never advance the chain.
	engine.store.WithSolitary("p", false, func(s *Solitary) {
		if len(s.UsedCities) != 2 {
			t.Fatalf("rejected moves must not be recorded, got %v", s.UsedCities)
		}
	})
}

func TestSolitaryPlayerWins(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Тверь"}}
	engine, sender := newTestEngine(dir)

	// No city starts with А, the automated opponent concedes immediately.
	engine.HandleMessage("p", "Москва")

	if !sender.received("p", "Вы выиграли") {
		t.Fatal("player should win when no continuation exists")
	}
	if !sender.received("p", "Игра окончена") {
		t.Fatal("the session should announce its end")
	}

	// The finished session is gone; the next city starts a fresh chain.
	engine.HandleMessage("p", "Тверь")
	if _, ok := sender.lastErrorFor("p"); ok {
		t.Fatal("a fresh session has no required letter, Тверь should be accepted")
	}
}

func TestDescribeFailureKeepsMove(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана"}, failDescribe: true}
	engine, sender := newTestEngine(dir)

	engine.HandleMessage("p", "Москва")

	unavailable := errs.NewError(errs.ErrCityInfoUnavailable).Message
	if !sender.received("p", unavailable) {
		t.Fatal("a failed info fetch should degrade to the unavailable notice")
	}
	engine.store.WithSolitary("p", false, func(s *Solitary) {
		if !s.IsUsed("Москва") {
			t.Fatal("the move must stand despite the failed info fetch")
		}
	})
}

func TestRoomGameFlow(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана", "Тверь", "Архангельск", "Калуга"}}
	engine, sender := newTestEngine(dir)

	code := pairUp(t, engine, "alice", "bob")

	if !sender.received("alice", "Другой игрок присоединился") {
		t.Fatal("creator should learn the opponent joined")
	}
	if !sender.received("bob", "Вы присоединились к комнате "+code) {
		t.Fatal("joiner should get the join confirmation")
	}

	// Creator moves first.
	engine.HandleMessage("alice", "Москва")
	if !sender.received("bob", "<b>Москва</b>") {
		t.Fatal("both players should receive the info card")
	}
	if !sender.received("bob", "Ваш ход! Назовите город на букву 'А'") {
		t.Fatal("the opponent should be prompted on the required letter")
	}

	// Out-of-turn play is treated as a side message, not a move.
	engine.HandleMessage("alice", "привет!")
	if !sender.received("bob", "Сообщение от вашего соперника: привет!") {
		t.Fatal("side message should be forwarded verbatim")
	}
	if !sender.received("alice", "Ваше сообщение отправлено сопернику.") {
		t.Fatal("sender should get the side-message acknowledgement")
	}

	// Only one side message per opponent turn.
	engine.HandleMessage("alice", "ещё одно")
	if code, ok := sender.lastErrorFor("alice"); !ok || code != errs.ErrSideChannelExhausted {
		t.Fatal("second side message in the same turn should be rejected")
	}

	// Bob's move flips the turn and resets Alice's side allowance.
	engine.HandleMessage("bob", "Астана")
	engine.HandleMessage("bob", "снова я") // bob is now out of turn
	if !sender.received("alice", "Сообщение от вашего соперника: снова я") {
		t.Fatal("side allowance should reset when the turn flips")
	}

	// Wrong letter is rejected with state untouched.
	engine.HandleMessage("alice", "Тверь")
	if code, ok := sender.lastErrorFor("alice"); !ok || code != errs.ErrWrongLetter {
		t.Fatal("Тверь does not start with А and must be rejected")
	}

	engine.HandleMessage("alice", "Архангельск")
	found := engine.store.WithRoom(code, func(r *Room) {
		if r.CurrentTurn != "bob" {
			t.Errorf("turn should be back with bob, got %s", r.CurrentTurn)
		}
		if len(r.UsedCities) != 3 {
			t.Errorf("expected 3 played cities, got %v", r.UsedCities)
		}
	})
	if !found {
		t.Fatal("room should still be live")
	}
}

func TestRoomNoContinuationWin(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана"}}
	engine, sender := newTestEngine(dir)

	code := pairUp(t, engine, "alice", "bob")

	engine.HandleMessage("alice", "Москва")
	// Астана leaves no unused А city: bob wins outright.
	engine.HandleMessage("bob", "Астана")

	if !sender.received("bob", "Вы победили") {
		t.Fatal("the mover should win when no continuation remains")
	}
	if !sender.received("alice", "Вы проиграли") {
		t.Fatal("the opponent should be told they lost")
	}
	if engine.store.WithRoom(code, func(*Room) {}) {
		t.Fatal("the room should be terminated")
	}
	if engine.store.InRoom("alice") || engine.store.InRoom("bob") {
		t.Fatal("players should be unseated after the win")
	}
}

func TestRoomTimeoutCostsLifeAndFlipsTurn(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана"}}
	engine, sender := newTestEngine(dir)

	code := pairUp(t, engine, "alice", "bob")

	fireTurnTimer(t, engine, code)

	if !sender.received("alice", "Время вышло! У вас осталось 2 жизней") {
		t.Fatal("the timed out player should lose a life")
	}
	if !sender.received("bob", "Время противника вышло") {
		t.Fatal("the opponent should be notified of the timeout")
	}
	engine.store.WithRoom(code, func(r *Room) {
		if r.Lives["alice"] != 2 {
			t.Errorf("expected 2 lives for alice, got %d", r.Lives["alice"])
		}
		if r.CurrentTurn != "bob" {
			t.Errorf("turn should flip to bob, got %s", r.CurrentTurn)
		}
	})
}

func TestTimerFireSupersededByMoveIsDropped(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана"}}
	engine, sender := newTestEngine(dir)

	code := pairUp(t, engine, "alice", "bob")

	// The countdown for alice's turn fires, but alice's move reaches the
	// room lock first: the move flips the turn to bob and re-arms the
	// countdown, so the expiry delivered afterwards carries a stale
	// generation and must not charge bob.
	staleSeq := armedSeq(t, engine, code)
	engine.HandleMessage("alice", "Москва")
	engine.handleTimeout(code, staleSeq)

	engine.store.WithRoom(code, func(r *Room) {
		if r.Lives["bob"] != InitialLives {
			t.Errorf("stale expiry charged bob, lives=%d", r.Lives["bob"])
		}
		if r.Lives["alice"] != InitialLives {
			t.Errorf("stale expiry charged alice, lives=%d", r.Lives["alice"])
		}
		if r.CurrentTurn != "bob" {
			t.Errorf("turn should stay with bob, got %s", r.CurrentTurn)
		}
	})
	if sender.received("bob", "Время вышло") {
		t.Fatal("no timeout notice should reach bob")
	}

	// The generation re-armed for bob's turn still expires normally.
	fireTurnTimer(t, engine, code)
	if !sender.received("bob", "Время вышло! У вас осталось 2 жизней") {
		t.Fatal("the current generation should still charge the turn holder")
	}
}

func TestRoomLivesExhausted(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана"}}
	engine, sender := newTestEngine(dir)

	code := pairUp(t, engine, "alice", "bob")

	// Timeouts alternate between the players; alice runs out first.
	for i := 0; i < 5; i++ {
		fireTurnTimer(t, engine, code)
	}

	if !sender.received("alice", "У вас закончились жизни") {
		t.Fatal("alice should lose after her third timeout")
	}
	if !sender.received("bob", "Противник потерял все жизни") {
		t.Fatal("bob should be told he won")
	}
	if engine.store.WithRoom(code, func(*Room) {}) {
		t.Fatal("the room should be terminated")
	}

	// A late fire into the removed room is a silent no-op.
	engine.handleTimeout(code, 1)
}

func TestTimeoutResetsSideAllowance(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана"}}
	engine, sender := newTestEngine(dir)

	code := pairUp(t, engine, "alice", "bob")

	// Bob spends his side message during alice's turn.
	engine.HandleMessage("bob", "поторопись")
	if !sender.received("alice", "Сообщение от вашего соперника: поторопись") {
		t.Fatal("side message should be forwarded")
	}

	// Alice times out, the turn passes to bob; now alice holds a fresh
	// side allowance for bob's turn.
	fireTurnTimer(t, engine, code)
	engine.HandleMessage("alice", "думай быстрее")
	if !sender.received("bob", "Сообщение от вашего соперника: думай быстрее") {
		t.Fatal("timeout turn flip should grant the new waiter a side message")
	}
}

func TestJoinRoomRejections(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва"}}
	engine, sender := newTestEngine(dir)

	engine.HandleMessage("bob", "/join_room")
	engine.HandleMessage("bob", "nonsense")
	if code, ok := sender.lastErrorFor("bob"); !ok || code != errs.ErrRoomNotFound {
		t.Fatal("a malformed room code should report room not found")
	}

	// The flag was consumed: the next message is a regular move again.
	engine.HandleMessage("bob", "Москва")
	if !sender.received("bob", "<b>Москва</b>") {
		t.Fatal("after the failed join the player should be back in solitary play")
	}
}

func TestWaitingRoomBlocksPlay(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва"}}
	engine, sender := newTestEngine(dir)

	engine.HandleMessage("alice", "/create_room")
	code := testRoomCode(t, engine)

	engine.HandleMessage("alice", "Москва")
	if !sender.received("alice", "ещё ждёт второго игрока") {
		t.Fatal("moves in a half-empty room should only produce the waiting notice")
	}
	engine.store.WithRoom(code, func(r *Room) {
		if len(r.UsedCities) != 0 {
			t.Fatal("no city may be recorded before the opponent joins")
		}
	})
}

func TestStop(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва", "Астана"}}
	engine, sender := newTestEngine(dir)

	// Room stop notifies both players and frees the seats.
	code := pairUp(t, engine, "alice", "bob")
	engine.HandleMessage("alice", "/stop")
	if !sender.received("alice", "Игра окончена") || !sender.received("bob", "Игра окончена") {
		t.Fatal("both players should be told the game is over")
	}
	if engine.store.WithRoom(code, func(*Room) {}) {
		t.Fatal("the stopped room should be removed")
	}

	// Solitary stop ends the session.
	engine.HandleMessage("carol", "Москва")
	engine.HandleMessage("carol", "/stop")
	if !sender.received("carol", "Игра окончена") {
		t.Fatal("solitary player should get the game over notice")
	}
	if engine.store.WithSolitary("carol", false, func(*Solitary) {}) {
		t.Fatal("the stopped solitary session should be removed")
	}
}

func TestCreateRoomWhileSeated(t *testing.T) {
	dir := &fakeDirectory{cities: []string{"Москва"}}
	engine, sender := newTestEngine(dir)

	engine.HandleMessage("alice", "/create_room")
	engine.HandleMessage("alice", "/create_room")
	if code, ok := sender.lastErrorFor("alice"); !ok || code != errs.ErrAlreadyInGame {
		t.Fatal("a seated player must not open a second room")
	}
}
