package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/townsquare-server/internal/core"
	"github.com/vovakirdan/townsquare-server/internal/store"
)

// ChatHandlers provides HTTP handlers for the chat send and history
// endpoints. The sender of a message is always resolved from the
// authenticated session token, never from the request body.
type ChatHandlers struct {
	registry *core.TownRegistry
	messages store.MessageStore
	log      *zerolog.Logger
}

// NewChatHandlers creates a new chat handlers instance.
func NewChatHandlers(registry *core.TownRegistry, messages store.MessageStore, logger *zerolog.Logger) *ChatHandlers {
	return &ChatHandlers{registry: registry, messages: messages, log: logger}
}

// SendChatRequest represents the chat send request body.
type SendChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendChatResponse returns the sanitized body and the message id.
type SendChatResponse struct {
	Message string `json:"message"`
	Offset  string `json:"offset"`
}

// SendChat handles a chat message: authenticates the session, trims the
// body, runs it through the town's rules, broadcasts, and hands the message
// off for storage.
// POST /api/towns/:id/chat
func (h *ChatHandlers) SendChat(c *gin.Context) {
	var req SendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid chat send request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "message must be specified"})
		return
	}

	townID := c.Param("id")
	town, ok := h.registry.GetTown(townID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no such town"})
		return
	}

	session, ok := town.SessionByToken(bearerToken(c))
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid session token"})
		return
	}

	msg := core.NewChatMessage(session.Player, strings.TrimSpace(req.Message))
	if err := town.SendChat(msg); err != nil {
		if core.IsMessageRejected(err) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		h.log.Warn().Err(err).Str("town_id", townID).Msg("chat send failed")
		c.JSON(http.StatusGone, ErrorResponse{Error: "town destroyed"})
		return
	}

	// Broadcast succeeded; storage is a hand-off and must not undo the send.
	if err := h.messages.SaveMessage(c.Request.Context(), store.ChatRecord{
		ID:         msg.ID,
		TownID:     townID,
		SenderID:   msg.Sender.ID,
		SenderName: msg.Sender.UserName,
		Body:       msg.Body,
		SentAt:     msg.SentAt,
	}); err != nil {
		h.log.Error().Err(err).Str("town_id", townID).Str("message_id", msg.ID).Msg("failed to store chat message")
	}

	c.JSON(http.StatusOK, SendChatResponse{Message: msg.Body, Offset: msg.ID})
}

// HistoryMessage is one stored message in a history response.
type HistoryMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderID"`
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// HistoryResponse pages stored messages, newest first. Offset is the id of
// the oldest returned message and seeds the next page.
type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
	Offset   string           `json:"offset"`
	Limit    int              `json:"limit"`
}

// History handles reading stored chat messages for a town.
// GET /api/towns/:id/chat?before=<messageID>&limit=<n>
func (h *ChatHandlers) History(c *gin.Context) {
	townID := c.Param("id")
	town, ok := h.registry.GetTown(townID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no such town"})
		return
	}

	if _, ok := town.SessionByToken(bearerToken(c)); !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid session token"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 200"})
		return
	}

	records, err := h.messages.ListMessages(c.Request.Context(), townID, c.Query("before"), limit)
	if err != nil {
		h.log.Error().Err(err).Str("town_id", townID).Msg("failed to list chat messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	resp := HistoryResponse{Messages: make([]HistoryMessage, 0, len(records)), Limit: limit}
	for _, rec := range records {
		resp.Messages = append(resp.Messages, HistoryMessage{
			ID:         rec.ID,
			SenderID:   rec.SenderID,
			SenderName: rec.SenderName,
			Message:    rec.Body,
			Timestamp:  rec.SentAt.Unix(),
		})
		resp.Offset = rec.ID
	}
	c.JSON(http.StatusOK, resp)
}
