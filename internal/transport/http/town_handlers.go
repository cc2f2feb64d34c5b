package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/townsquare-server/internal/core"
)

// TownHandlers provides HTTP handlers for the town directory endpoints.
type TownHandlers struct {
	registry *core.TownRegistry
	log      *zerolog.Logger
}

// NewTownHandlers creates a new town handlers instance.
func NewTownHandlers(registry *core.TownRegistry, logger *zerolog.Logger) *TownHandlers {
	return &TownHandlers{registry: registry, log: logger}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateTownRequest represents the create town request body.
type CreateTownRequest struct {
	FriendlyName     string `json:"friendlyName" binding:"required,min=1,max=64"`
	IsPubliclyListed bool   `json:"isPubliclyListed"`
}

// CreateTownResponse returns the new town id and its one-time update password.
type CreateTownResponse struct {
	TownID             string `json:"townID"`
	TownUpdatePassword string `json:"townUpdatePassword"`
}

// CreateTown handles town creation.
// POST /api/towns
func (h *TownHandlers) CreateTown(c *gin.Context) {
	var req CreateTownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create town request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "friendlyName must be specified"})
		return
	}

	town, password, err := h.registry.CreateTown(req.FriendlyName, req.IsPubliclyListed)
	if err != nil {
		h.log.Error().Err(err).Str("friendly_name", req.FriendlyName).Msg("failed to create town")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("town_id", town.ID()).Str("friendly_name", req.FriendlyName).Bool("public", req.IsPubliclyListed).Msg("town created")
	c.JSON(http.StatusCreated, CreateTownResponse{
		TownID:             town.ID(),
		TownUpdatePassword: password,
	})
}

// ListTownsResponse wraps the public town listing.
type ListTownsResponse struct {
	Towns []core.TownSummary `json:"towns"`
}

// ListTowns handles listing publicly visible towns.
// GET /api/towns
func (h *TownHandlers) ListTowns(c *gin.Context) {
	c.JSON(http.StatusOK, ListTownsResponse{Towns: h.registry.ListTowns()})
}

// UpdateTownRequest represents the update town request body. Only supplied
// fields change.
type UpdateTownRequest struct {
	Password         string  `json:"townUpdatePassword" binding:"required"`
	FriendlyName     *string `json:"friendlyName"`
	IsPubliclyListed *bool   `json:"isPubliclyListed"`
}

// UpdateTown handles partial town updates.
// PATCH /api/towns/:id
func (h *TownHandlers) UpdateTown(c *gin.Context) {
	var req UpdateTownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid update town request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if !h.registry.UpdateTown(c.Param("id"), req.Password, req.FriendlyName, req.IsPubliclyListed) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid password or update values specified. Please double check your town update password."})
		return
	}

	h.log.Info().Str("town_id", c.Param("id")).Msg("town updated")
	c.Status(http.StatusNoContent)
}

// DeleteTownRequest represents the delete town request body.
type DeleteTownRequest struct {
	Password string `json:"townUpdatePassword" binding:"required"`
}

// DeleteTown handles town deletion and teardown.
// DELETE /api/towns/:id
func (h *TownHandlers) DeleteTown(c *gin.Context) {
	var req DeleteTownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid delete town request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if !h.registry.DeleteTown(c.Param("id"), req.Password) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid password. Please double check your town update password."})
		return
	}

	h.log.Info().Str("town_id", c.Param("id")).Msg("town deleted")
	c.Status(http.StatusNoContent)
}

// JoinTownRequest represents the join request body.
type JoinTownRequest struct {
	UserName string `json:"userName" binding:"required,min=1,max=64"`
}

// JoinTownResponse carries everything a freshly joined client needs.
type JoinTownResponse struct {
	PlayerID         string         `json:"playerID"`
	SessionToken     string         `json:"sessionToken"`
	VideoToken       string         `json:"videoToken"`
	CurrentPlayers   []*core.Player `json:"currentPlayers"`
	FriendlyName     string         `json:"friendlyName"`
	IsPubliclyListed bool           `json:"isPubliclyListed"`
}

// JoinTown handles a player's request to join a town.
// POST /api/towns/:id/join
func (h *TownHandlers) JoinTown(c *gin.Context) {
	var req JoinTownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid join town request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "userName must be specified"})
		return
	}

	townID := c.Param("id")
	town, ok := h.registry.GetTown(townID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no such town"})
		return
	}

	player := core.NewPlayer(req.UserName)
	session, err := town.Join(c.Request.Context(), player)
	if err != nil {
		if errors.Is(err, core.ErrTownDestroyed) {
			c.JSON(http.StatusGone, ErrorResponse{Error: "town destroyed"})
			return
		}
		h.log.Error().Err(err).Str("town_id", townID).Str("user_name", req.UserName).Msg("failed to join town")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "could not join town"})
		return
	}

	h.log.Info().Str("town_id", townID).Str("player_id", player.ID).Str("user_name", req.UserName).Msg("player joined")
	c.JSON(http.StatusOK, JoinTownResponse{
		PlayerID:         player.ID,
		SessionToken:     session.Token,
		VideoToken:       session.VideoToken,
		CurrentPlayers:   town.Players(),
		FriendlyName:     town.FriendlyName(),
		IsPubliclyListed: town.IsPubliclyListed(),
	})
}
