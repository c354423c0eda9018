package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/core"
)

// ChatHandlers provides HTTP handlers for chat introspection.
type ChatHandlers struct {
	chats *core.Manager
	log   *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance.
func NewChatHandlers(chats *core.Manager, logger *zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{
		chats: chats,
		log:   logger,
	}
}

// GetChat returns a snapshot of one chat.
// GET /api/chats/:id
func (h *ChatHandlers) GetChat(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.log.Debug().Err(err).Str("chat_id", c.Param("id")).Msg("invalid chat id")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid chat id"})
		return
	}

	info, ok := h.chats.Chat(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "chat not found"})
		return
	}

	c.JSON(http.StatusOK, chatResponse(info))
}
