package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

type testServer struct {
	*httptest.Server
	users *core.Registry
	chats *core.Manager
}

func startTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	users := core.NewRegistry()
	chats := core.NewManager(users, nil)
	logger := zerolog.Nop()

	server := NewServer(users, chats, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testServer{Server: ts, users: users, chats: chats}
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse id %q: %v", s, err)
	}
	return id
}

func (ts *testServer) wsURL() string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dial(ctx context.Context, t *testing.T, ts *testServer) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, ts.wsURL(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	code, payload := readReply(ctx, t, conn)
	if code != proto.ReplyUserCreated {
		t.Fatalf("first reply = %d, want user created", code)
	}
	return conn, payload
}

func send(ctx context.Context, t *testing.T, conn *websocket.Conn, line string) {
	t.Helper()
	if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

func readReply(ctx context.Context, t *testing.T, conn *websocket.Conn) (proto.Reply, string) {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	code, payload, err := proto.ParseReply(string(data))
	if err != nil {
		t.Fatalf("parse reply %q: %v", data, err)
	}
	return code, payload
}

func roundTrip(ctx context.Context, t *testing.T, conn *websocket.Conn, line string) (proto.Reply, string) {
	t.Helper()
	send(ctx, t, conn, line)
	return readReply(ctx, t, conn)
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t, nil)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketPersonalChat(t *testing.T) {
	ts := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA, idA := dial(ctx, t, ts)
	connB, idB := dial(ctx, t, ts)

	if !ts.users.Exists(mustUUID(t, idA)) || !ts.users.Exists(mustUUID(t, idB)) {
		t.Fatalf("connections were not registered")
	}

	code, chatID := roundTrip(ctx, t, connA, "1 "+idB+" ChatWithMe")
	if code != proto.ReplyChatCreated {
		t.Fatalf("create chat reply = %d", code)
	}

	if code, _ := roundTrip(ctx, t, connA, "7 "+chatID+" Hello,  world"); code != proto.ReplyMessageSent {
		t.Fatalf("send A reply = %d", code)
	}
	if code, _ := roundTrip(ctx, t, connB, "7 "+chatID+" Hi!"); code != proto.ReplyMessageSent {
		t.Fatalf("send B reply = %d", code)
	}

	code, payload := roundTrip(ctx, t, connB, "10 "+chatID)
	if code != proto.ReplyHistory {
		t.Fatalf("history reply = %d", code)
	}
	items := proto.SplitList(payload, 3)
	if len(items) != 2 {
		t.Fatalf("history has %d items: %q", len(items), payload)
	}
	if items[0][1] != idA || items[0][2] != "Hello,  world" {
		t.Fatalf("unexpected first entry: %v", items[0])
	}
	if items[1][1] != idB || items[1][2] != "Hi!" {
		t.Fatalf("unexpected second entry: %v", items[1])
	}

	code, payload = roundTrip(ctx, t, connA, "999")
	if code != proto.ReplyError || payload != "1" {
		t.Fatalf("unknown command reply = %d %q", code, payload)
	}

	// The connection survives an error reply.
	if code, _ := roundTrip(ctx, t, connA, "12"); code != proto.ReplyChatsList {
		t.Fatalf("list chats reply = %d", code)
	}
}

func TestWebSocketLogoutOnClose(t *testing.T) {
	ts := startTestServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _ := dial(ctx, t, ts)
	code, id := roundTrip(ctx, t, conn, "14 Maximus")
	if code != proto.ReplySignUpSuccess {
		t.Fatalf("sign up reply = %d", code)
	}
	user := mustUUID(t, id)
	if !ts.users.IsLoggedIn(user) {
		t.Fatalf("user not logged in after sign up")
	}

	conn.Close(websocket.StatusNormalClosure, "bye")

	deadline := time.Now().Add(2 * time.Second)
	for ts.users.IsLoggedIn(user) {
		if time.Now().After(deadline) {
			t.Fatalf("user still logged in after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The name can be signed into again from a fresh connection.
	other, _ := dial(ctx, t, ts)
	code, got := roundTrip(ctx, t, other, "15 Maximus")
	if code != proto.ReplySignInSuccess || got != id {
		t.Fatalf("sign in reply = %d %q", code, got)
	}
}

func TestWebSocketReadLimit(t *testing.T) {
	ts := startTestServer(t, func(cfg *config.Config) { cfg.MaxMessageBytes = 64 })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _ := dial(ctx, t, ts)
	send(ctx, t, conn, "0 "+strings.Repeat("x", 128))

	_, _, err := conn.Read(ctx)
	if err == nil {
		t.Fatalf("expected connection to be closed")
	}
	if status := websocket.CloseStatus(err); status != websocket.StatusMessageTooBig {
		t.Fatalf("close status = %v, want %v (err %v)", status, websocket.StatusMessageTooBig, err)
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	ts := startTestServer(t, func(cfg *config.Config) { cfg.AllowedOrigins = []string{"chat.example.com"} })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	header := http.Header{}
	header.Set("Origin", "https://evil.example.org")
	_, resp, err := websocket.Dial(ctx, ts.wsURL(), &websocket.DialOptions{HTTPHeader: header})
	if err == nil {
		t.Fatalf("expected cross-origin handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected response: %+v", resp)
	}

	header.Set("Origin", "https://chat.example.com")
	conn, _, err := websocket.Dial(ctx, ts.wsURL(), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		t.Fatalf("allowed origin rejected: %v", err)
	}
	conn.Close(websocket.StatusNormalClosure, "done")
}
