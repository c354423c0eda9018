package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/roomchat-server/internal/config"
	"github.com/vovakirdan/roomchat-server/internal/core"
	applog "github.com/vovakirdan/roomchat-server/internal/log"
	transporthttp "github.com/vovakirdan/roomchat-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	users           *core.Registry
	chats           *core.Manager
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	return NewWithClock(cfg, clock.New(), logger)
}

// NewWithClock is New with an explicit clock for message timestamps.
func NewWithClock(cfg *config.Config, clk clock.Clock, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	users := core.NewRegistry()
	for _, name := range cfg.SeedUsers {
		if _, taken := users.FindByName(name); taken {
			return nil, fmt.Errorf("seed user %q: %w", name, core.ErrNameTaken)
		}
		id := users.Register(name)
		logger.Debug().Str("user_id", id.String()).Str("name", name).Msg("seed user registered")
	}
	logger.Info().Int("count", len(cfg.SeedUsers)).Msg("users seeded")

	chats := core.NewManager(users, clk)
	server := transporthttp.NewServer(users, chats, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		users:           users,
		chats:           chats,
		log:             applog.Component(logger, "app"),
	}, nil
}

// Users exposes the user registry.
func (a *App) Users() *core.Registry { return a.users }

// Chats exposes the chat manager.
func (a *App) Chats() *core.Manager { return a.chats }

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln until ctx is cancelled.
// Open sessions observe the cancellation through their request context.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	a.server.BaseContext = func(net.Listener) context.Context { return ctx }

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.log.Info().
		Int("users", a.users.Count()).
		Int("chats", a.chats.ChatCount()).
		Msg("server stopped")
	return err
}
