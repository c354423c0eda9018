package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomchat-server/internal/core"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LoggedIn bool   `json:"logged_in"`
}

// ChatResponse represents a chat snapshot in API responses.
type ChatResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	AdminID      *string  `json:"admin_id,omitempty"`
	Participants []string `json:"participants"`
	MessageCount int      `json:"message_count"`
	CreatedAt    string   `json:"created_at"`
}

func userResponse(u core.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		LoggedIn: u.LoggedIn,
	}
}

func chatResponse(info core.ChatInfo) ChatResponse {
	resp := ChatResponse{
		ID:   info.ID.String(),
		Name: info.Name,
		Kind: info.Kind.String(),
		Participants: lo.Map(info.Participants, func(id core.UserID, _ int) string {
			return id.String()
		}),
		MessageCount: info.MessageCount,
		CreatedAt:    info.CreatedAt.Format(time.RFC3339),
	}
	if info.AdminID != uuid.Nil {
		resp.AdminID = lo.ToPtr(info.AdminID.String())
	}
	return resp
}
