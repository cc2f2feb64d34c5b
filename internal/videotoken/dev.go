package videotoken

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevEngine signs video tokens locally with a shared HMAC secret. It stands
// in for a real media provider when no LiveKit credentials are configured,
// which keeps local development and tests independent of external services.
type DevEngine struct {
	secret []byte
	ttl    time.Duration
}

// NewDevEngine builds a dev engine. ttl <= 0 defaults to one hour.
func NewDevEngine(secret string, ttl time.Duration) *DevEngine {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DevEngine{secret: []byte(secret), ttl: ttl}
}

// Mint issues an HS256 token naming the town and participant.
func (e *DevEngine) Mint(_ context.Context, townID, participantID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"room":     townID,
		"identity": participantID,
		"iat":      now.Unix(),
		"exp":      now.Add(e.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.secret)
	if err != nil {
		return "", fmt.Errorf("sign dev video token: %w", err)
	}
	return token, nil
}

var _ Engine = (*DevEngine)(nil)
