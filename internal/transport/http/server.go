package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/dispatch"
	applog "github.com/vovakirdan/roomchat-server/internal/log"
)

// NewServer builds an HTTP server exposing the WebSocket endpoint and,
// when enabled, the read-only introspection API.
func NewServer(users *core.Registry, chats *core.Manager, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(applog.Component(logger, "http")))

	router.GET("/health", healthHandler)

	disp := dispatch.New(users, chats, applog.Component(logger, "dispatch"))
	router.GET("/ws", gin.WrapH(NewWSHandler(users, disp, cfg, applog.Component(logger, "session"))))

	if cfg.APIEnabled {
		userHandlers := NewUserHandlers(users, logger)
		chatHandlers := NewChatHandlers(chats, logger)

		api := router.Group("/api")
		api.GET("/users", userHandlers.ListUsers)
		api.GET("/chats/:id", chatHandlers.GetChat)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
