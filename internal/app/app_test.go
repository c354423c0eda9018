package app

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	return &cfg
}

func TestNewSeedsUsers(t *testing.T) {
	logger := zerolog.Nop()
	a, err := New(testConfig(), &logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	users := a.Users().Users()
	if len(users) != 2 || users[0].Name != "Maximus" || users[1].Name != "Patroculus" {
		t.Fatalf("unexpected seeded users: %+v", users)
	}
	for _, u := range users {
		if u.LoggedIn {
			t.Fatalf("seeded user %q should start logged out", u.Name)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testConfig()
	cfg.LogLevel = "chatty"

	if _, err := New(cfg, &logger); err == nil {
		t.Fatalf("expected invalid config error")
	}
}

func TestRunReportsBindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	logger := zerolog.Nop()
	cfg := testConfig()
	cfg.Addr = ln.Addr().String()
	a, err := New(cfg, &logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	if err := a.Run(context.Background()); err == nil {
		t.Fatalf("expected bind failure")
	}
}

func TestServeShutsDownSessions(t *testing.T) {
	logger := zerolog.Nop()
	a, err := New(testConfig(), &logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	dialCtx, dialCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dialCancel()

	conn, _, err := websocket.Dial(dialCtx, "ws://"+ln.Addr().String()+"/ws", nil)
	if err != nil {
		cancel()
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if _, data, err := conn.Read(dialCtx); err != nil || !strings.HasPrefix(string(data), "0 ") {
		cancel()
		t.Fatalf("first frame %q, err %v", data, err)
	}

	if err := conn.Write(dialCtx, websocket.MessageText, []byte("15 Maximus")); err != nil {
		cancel()
		t.Fatalf("write: %v", err)
	}
	_, data, err := conn.Read(dialCtx)
	if err != nil {
		cancel()
		t.Fatalf("read: %v", err)
	}
	code, id, _ := proto.ParseReply(string(data))
	if code != proto.ReplySignInSuccess {
		cancel()
		t.Fatalf("sign in reply %q", data)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}

	// The open session is cancelled with the run context and logs its user out.
	if _, _, err := conn.Read(dialCtx); err == nil {
		t.Fatalf("expected session to be closed")
	}
	maximus, ok := a.Users().FindByName("Maximus")
	if !ok || maximus.String() != id {
		t.Fatalf("unexpected user id %s", id)
	}
	deadline := time.Now().Add(2 * time.Second)
	for a.Users().IsLoggedIn(maximus) {
		if time.Now().After(deadline) {
			t.Fatalf("user still logged in after shutdown")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
