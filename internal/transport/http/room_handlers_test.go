package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/vovakirdan/roomchat-server/internal/config"
)

func enableAPI(cfg *config.Config) { cfg.APIEnabled = true }

func getJSON(t *testing.T, ts *testServer, path string, out any) int {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestAPIDisabledByDefault(t *testing.T) {
	ts := startTestServer(t, nil)

	if status := getJSON(t, ts, "/api/users", nil); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestListUsers(t *testing.T) {
	ts := startTestServer(t, enableAPI)
	maximus := ts.users.Register("Maximus")
	ts.users.Register("Patroculus")
	ts.users.SetLoggedIn(maximus, true)

	var users []UserResponse
	if status := getJSON(t, ts, "/api/users", &users); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(users) != 2 || users[0].Name != "Maximus" || users[1].Name != "Patroculus" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if users[0].ID != maximus.String() || !users[0].LoggedIn || users[1].LoggedIn {
		t.Fatalf("unexpected user fields: %+v", users)
	}

	users = nil
	if status := getJSON(t, ts, "/api/users?q=patro", &users); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(users) != 1 || users[0].Name != "Patroculus" {
		t.Fatalf("unexpected filtered users: %+v", users)
	}
}

func TestGetChat(t *testing.T) {
	ts := startTestServer(t, enableAPI)
	admin := ts.users.Register("admin")
	member := ts.users.Register("member")

	group, err := ts.chats.CreateCloseGroup("Secret", admin)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if err := ts.chats.AddParticipant(group, admin, member); err != nil {
		t.Fatalf("add participant: %v", err)
	}
	if _, err := ts.chats.SendMessage(group, member, "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	var chat ChatResponse
	if status := getJSON(t, ts, "/api/chats/"+group.String(), &chat); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if chat.Name != "Secret" || chat.Kind != "close_group" || chat.MessageCount != 1 {
		t.Fatalf("unexpected chat: %+v", chat)
	}
	if chat.AdminID == nil || *chat.AdminID != admin.String() {
		t.Fatalf("unexpected admin: %v", chat.AdminID)
	}
	if len(chat.Participants) != 2 || chat.Participants[1] != member.String() {
		t.Fatalf("unexpected participants: %v", chat.Participants)
	}

	personal, err := ts.chats.CreatePersonalChat("dm", admin, member)
	if err != nil {
		t.Fatalf("create personal chat: %v", err)
	}
	chat = ChatResponse{}
	if status := getJSON(t, ts, "/api/chats/"+personal.String(), &chat); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if chat.Kind != "personal" || chat.AdminID != nil {
		t.Fatalf("unexpected personal chat: %+v", chat)
	}
}

func TestGetChatErrors(t *testing.T) {
	ts := startTestServer(t, enableAPI)

	if status := getJSON(t, ts, "/api/chats/not-a-uuid", nil); status != http.StatusBadRequest {
		t.Fatalf("malformed id status = %d, want 400", status)
	}
	if status := getJSON(t, ts, "/api/chats/"+uuid.NewString(), nil); status != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", status)
	}
}
