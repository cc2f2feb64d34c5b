package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/townsquare-server/internal/config"
	"github.com/vovakirdan/townsquare-server/internal/core"
	"github.com/vovakirdan/townsquare-server/internal/store"
)

// NewServer builds the HTTP server: town directory REST API, chat API, and
// the websocket subscription endpoint.
func NewServer(registry *core.TownRegistry, messages store.MessageStore, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	router.GET("/health", healthHandler)

	townHandlers := NewTownHandlers(registry, logger)
	chatHandlers := NewChatHandlers(registry, messages, logger)

	api := router.Group("/api")
	api.POST("/towns", townHandlers.CreateTown)
	api.GET("/towns", townHandlers.ListTowns)
	api.PATCH("/towns/:id", townHandlers.UpdateTown)
	api.DELETE("/towns/:id", townHandlers.DeleteTown)
	api.POST("/towns/:id/join", townHandlers.JoinTown)
	api.POST("/towns/:id/chat", chatHandlers.SendChat)
	api.GET("/towns/:id/chat", chatHandlers.History)

	router.GET("/ws", gin.WrapH(NewWSHandler(registry, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
