package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"

	"github.com/vovakirdan/roomchat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "tester", "name to sign up with")
	room := flag.String("room", "smoke", "open group name")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	c := &client{conn: conn}

	code, anon, err := c.read(ctx)
	if err != nil {
		return err
	}
	if code != proto.ReplyUserCreated {
		return fmt.Errorf("expected user_created, got %s", code)
	}
	fmt.Printf("Connected as anonymous user %s\n", anon)

	code, me, err := c.call(ctx, fmt.Sprintf("%d %s", proto.CmdSignUp, *user))
	if err != nil {
		return err
	}
	if code == proto.ReplySignUpFail {
		if code, me, err = c.call(ctx, fmt.Sprintf("%d %s", proto.CmdSignIn, *user)); err != nil {
			return err
		}
	}
	if code != proto.ReplySignUpSuccess && code != proto.ReplySignInSuccess {
		return fmt.Errorf("could not bind to %q: %s", *user, code)
	}
	fmt.Printf("Acting as %s (%s)\n", *user, me)

	code, chat, err := c.call(ctx, fmt.Sprintf("%d %s", proto.CmdCreateOpenGroup, *room))
	if err != nil {
		return err
	}
	if code != proto.ReplyChatCreated {
		return fmt.Errorf("create group: %s", code)
	}
	fmt.Printf("Created open group %q: %s\n", *room, chat)

	if code, payload, err := c.call(ctx, fmt.Sprintf("%d %s %s", proto.CmdSendMessage, chat, *text)); err != nil {
		return err
	} else if code != proto.ReplyMessageSent {
		return fmt.Errorf("send message: %s %s", code, payload)
	}

	code, payload, err := c.call(ctx, fmt.Sprintf("%d %s", proto.CmdGetHistory, chat))
	if err != nil {
		return err
	}
	if code != proto.ReplyHistory {
		return fmt.Errorf("history: %s", code)
	}
	for _, item := range proto.SplitList(payload, 3) {
		if len(item) == 3 {
			fmt.Printf("History: id=%s author=%s text=%q\n", item[0], item[1], item[2])
			if item[2] == *text {
				return nil
			}
		}
	}
	return fmt.Errorf("sent message not found in history %q", payload)
}

type client struct {
	conn *websocket.Conn
}

func (c *client) call(ctx context.Context, line string) (proto.Reply, string, error) {
	if err := c.conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
		return 0, "", fmt.Errorf("send: %w", err)
	}
	return c.read(ctx)
}

func (c *client) read(ctx context.Context) (proto.Reply, string, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("read: %w", err)
	}
	code, payload, err := proto.ParseReply(string(data))
	if err != nil {
		return 0, "", err
	}
	if code == proto.ReplyError {
		kind, _ := proto.ParseErrorKind(payload)
		fmt.Printf("Error reply: %s\n", kind)
	}
	return code, payload, nil
}
