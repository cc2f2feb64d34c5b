package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/townsquare-server/internal/config"
	"github.com/vovakirdan/townsquare-server/internal/core"
	"github.com/vovakirdan/townsquare-server/internal/store"
	"github.com/vovakirdan/townsquare-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/townsquare-server/internal/transport/http"
	"github.com/vovakirdan/townsquare-server/internal/videotoken"
	"github.com/vovakirdan/townsquare-server/internal/videotoken/livekit"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	registry        *core.TownRegistry
	store           store.MessageStore
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("message store initialized")

	var engine videotoken.Engine
	if cfg.Video.APIKey != "" && cfg.Video.APISecret != "" {
		engine = livekit.New(cfg.Video.APIKey, cfg.Video.APISecret, cfg.Video.TokenTTL)
		logger.Info().Msg("using livekit video token engine")
	} else {
		engine = videotoken.NewDevEngine(cfg.Video.DevSecret, cfg.Video.TokenTTL)
		logger.Warn().Msg("livekit credentials not configured, signing video tokens locally")
	}

	rules := core.DefaultChatRules(cfg.Chat.MaxMessageLength, cfg.Chat.BannedWords)
	registry := core.NewTownRegistry(engine, rules)
	server := transporthttp.NewServer(registry, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		registry:        registry,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the message store and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
