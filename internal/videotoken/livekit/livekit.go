package livekit

import (
	"context"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"

	"github.com/vovakirdan/townsquare-server/internal/videotoken"
)

// Engine implements videotoken.Engine using LiveKit as the media backend.
// LiveKit creates rooms on demand when the first participant joins, so
// minting is purely local token signing.
type Engine struct {
	apiKey    string
	apiSecret string
	ttl       time.Duration
}

// New creates a LiveKit engine. ttl <= 0 defaults to one hour.
func New(apiKey, apiSecret string, ttl time.Duration) *Engine {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Engine{apiKey: apiKey, apiSecret: apiSecret, ttl: ttl}
}

// Mint issues a join token for the participant scoped to the town's room.
func (e *Engine) Mint(_ context.Context, townID, participantID string) (string, error) {
	at := auth.NewAccessToken(e.apiKey, e.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     townID,
	}
	at.SetVideoGrant(grant).
		SetIdentity(participantID).
		SetValidFor(e.ttl)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

var _ videotoken.Engine = (*Engine)(nil)
