package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/vovakirdan/roomchat-server/internal/core"
)

// UserHandlers provides HTTP handlers for user introspection.
type UserHandlers struct {
	users *core.Registry
	log   *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(users *core.Registry, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		users: users,
		log:   logger,
	}
}

// ListUsers returns registered users in registration order.
// GET /api/users?q=query filters by a case-insensitive name substring.
func (h *UserHandlers) ListUsers(c *gin.Context) {
	users := h.users.Users()

	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		users = lo.Filter(users, func(u core.User, _ int) bool {
			return strings.Contains(strings.ToLower(u.Name), q)
		})
	}

	h.log.Debug().Int("user_count", len(users)).Msg("users listed")
	c.JSON(http.StatusOK, lo.Map(users, func(u core.User, _ int) UserResponse {
		return userResponse(u)
	}))
}
