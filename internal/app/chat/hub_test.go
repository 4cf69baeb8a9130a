package chat

import (
	"encoding/binary"
	"encoding/json"
	"sync"
	"testing"
)

// recordingGame is a test double for the GameHandler interface.
type recordingGame struct {
	mu       sync.Mutex
	messages []string
}

func (g *recordingGame) HandleMessage(playerID, text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages = append(g.messages, playerID+":"+text)
}

// newTestClient builds a client without a live connection; only the queueing
// paths are exercised.
func newTestClient(hub *Hub, playerID string) *Client {
	return NewClient(hub, nil, playerID, "Tester")
}

// drain reads one queued frame off the client's send channel.
func drain(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("queued frame is not valid JSON: %v", err)
		}
		return msg
	default:
		t.Fatal("no frame queued")
		return Message{}
	}
}

func TestHubSend(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "p1")
	hub.Register(client)

	hub.Send("p1", "Ваш ход!", false)

	msg := drain(t, client)
	if msg.Type != TypeText {
		t.Fatalf("expected %s frame, got %s", TypeText, msg.Type)
	}
	if msg.Text != "Ваш ход!" {
		t.Fatalf("unexpected text %q", msg.Text)
	}
	if msg.ID == "" || msg.Timestamp == 0 {
		t.Fatal("outbound frames carry an ID and a timestamp")
	}
	if msg.Rich {
		t.Fatal("plain text must not be marked rich")
	}
}

func TestHubSendRich(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "p1")
	hub.Register(client)

	hub.Send("p1", "<b>Москва</b>", true)

	if msg := drain(t, client); !msg.Rich {
		t.Fatal("info cards must be marked rich")
	}
}

func TestHubSendError(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "p1")
	hub.Register(client)

	hub.SendError("p1", 2203, "Не та буква.")

	msg := drain(t, client)
	if msg.Type != TypeError {
		t.Fatalf("expected %s frame, got %s", TypeError, msg.Type)
	}
	if msg.Code != 2203 {
		t.Fatalf("expected code 2203, got %d", msg.Code)
	}
}

func TestHubDropsForDisconnectedPlayer(t *testing.T) {
	hub := NewHub()

	// Must not panic or block.
	hub.Send("ghost", "hello", false)
	hub.SendError("ghost", 5000, "oops")
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "p1")
	hub.Register(client)

	if hub.ConnectedCount() != 1 {
		t.Fatalf("expected 1 connection, got %d", hub.ConnectedCount())
	}

	hub.unregister(client)

	if hub.ConnectedCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", hub.ConnectedCount())
	}
	if _, ok := <-client.send; ok {
		t.Fatal("unregister should close the send channel")
	}

	// Unregistering twice is harmless.
	hub.unregister(client)
}

func TestHubRegisterKicksPrevious(t *testing.T) {
	hub := NewHub()
	old := newTestClient(hub, "p1")
	replacement := newTestClient(hub, "p1")

	hub.Register(old)
	hub.Register(replacement)

	if hub.ConnectedCount() != 1 {
		t.Fatalf("expected 1 connection after replacement, got %d", hub.ConnectedCount())
	}

	// The kicked connection's send channel closes with the 4001 close frame
	// staged for its write pump; the registering goroutine itself never
	// touches the old connection.
	if _, ok := <-old.send; ok {
		t.Fatal("kick should close the previous send channel")
	}
	if len(old.closeFrame) < 2 {
		t.Fatal("kick should stage a close frame for the write pump")
	}
	if code := binary.BigEndian.Uint16(old.closeFrame[:2]); code != WsCloseCodeSessionKicked {
		t.Fatalf("expected close code %d, got %d", WsCloseCodeSessionKicked, code)
	}
	if reason := string(old.closeFrame[2:]); reason == "" {
		t.Fatal("close frame should carry the kick reason")
	}

	hub.Send("p1", "Ваш ход!", false)
	if msg := drain(t, replacement); msg.Text != "Ваш ход!" {
		t.Fatal("replacement connection should receive after the kick")
	}
}

func TestHubStaleUnregisterKeepsNewcomer(t *testing.T) {
	hub := NewHub()
	old := newTestClient(hub, "p1")
	replacement := newTestClient(hub, "p1")

	hub.Register(old)

	// Simulate the replacement having already taken the registry slot.
	hub.mu.Lock()
	hub.clients["p1"] = replacement
	hub.mu.Unlock()

	// The old connection's teardown must not evict the newcomer.
	hub.unregister(old)

	hub.Send("p1", "still here", false)
	if msg := drain(t, replacement); msg.Text != "still here" {
		t.Fatal("replacement connection should keep receiving")
	}
}

func TestHubShutdown(t *testing.T) {
	hub := NewHub()
	c1 := newTestClient(hub, "p1")
	c2 := newTestClient(hub, "p2")
	hub.Register(c1)
	hub.Register(c2)

	hub.Shutdown()

	if hub.ConnectedCount() != 0 {
		t.Fatal("shutdown should empty the registry")
	}
	for _, c := range []*Client{c1, c2} {
		if _, ok := <-c.send; ok {
			t.Fatal("shutdown should close every send channel")
		}
	}
}

func TestProcessInboundMessage(t *testing.T) {
	game := &recordingGame{}
	hub := NewHub()
	hub.Bind(game)
	client := newTestClient(hub, "p1")

	client.processInboundMessage([]byte(`{"type":"TEXT","text":"  Москва  "}`))
	client.processInboundMessage([]byte(`{"type":"TEXT","text":"   "}`))
	client.processInboundMessage([]byte(`{"type":"PING","text":"x"}`))
	client.processInboundMessage([]byte(`not json`))

	game.mu.Lock()
	defer game.mu.Unlock()
	if len(game.messages) != 1 {
		t.Fatalf("expected exactly one forwarded message, got %v", game.messages)
	}
	if game.messages[0] != "p1:Москва" {
		t.Fatalf("text should be trimmed before forwarding, got %q", game.messages[0])
	}
}
