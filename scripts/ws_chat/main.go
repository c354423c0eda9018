package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"

	"github.com/vovakirdan/roomchat-server/internal/proto"
)

const usage = `Type text and press Enter to send it to the current chat.
Commands:
  /chat <id>      switch the current chat
  /history        show the current chat history
  /raw <line>     send a raw protocol line
Ctrl+C to exit.`

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "", "existing name to sign in with (anonymous when empty)")
	chat := flag.String("chat", "", "chat id to talk in")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(line string) {
		if writeErr := conn.Write(ctx, websocket.MessageText, []byte(line)); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	if *user != "" {
		send(fmt.Sprintf("%d %s", proto.CmdSignIn, *user))
	}

	fmt.Printf("Connected to %s\n", *addr)
	fmt.Println(usage)

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, send, *chat)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		code, payload, err := proto.ParseReply(string(data))
		if err != nil {
			log.Printf("bad reply %q: %v", data, err)
			continue
		}

		switch code {
		case proto.ReplyHistory:
			for _, item := range proto.SplitList(payload, 3) {
				if len(item) == 3 {
					fmt.Printf("  %s: %s\n", item[1], item[2])
				}
			}
		case proto.ReplyUsersList:
			for _, item := range proto.SplitList(payload, 2) {
				if len(item) == 2 {
					fmt.Printf("  %s %s\n", item[0], item[1])
				}
			}
		case proto.ReplyError:
			kind, _ := proto.ParseErrorKind(payload)
			fmt.Printf("error: %s\n", kind)
		default:
			fmt.Printf("%s %s\n", code, payload)
		}
	}
}

func writeLoop(ctx context.Context, send func(string), chat string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			switch {
			case strings.HasPrefix(text, "/chat "):
				chat = strings.TrimSpace(strings.TrimPrefix(text, "/chat "))
				fmt.Printf("current chat: %s\n", chat)
			case text == "/history":
				if chat == "" {
					fmt.Println("no current chat")
					continue
				}
				send(fmt.Sprintf("%d %s", proto.CmdGetHistory, chat))
			case strings.HasPrefix(text, "/raw "):
				send(strings.TrimPrefix(text, "/raw "))
			default:
				if chat == "" {
					fmt.Println("no current chat, use /chat <id> or /raw")
					continue
				}
				send(fmt.Sprintf("%d %s %s", proto.CmdSendMessage, chat, text))
			}
		}
	}
}
