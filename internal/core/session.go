package core

import "github.com/vovakirdan/townsquare-server/internal/utils"

// PlayerSession ties a player to the secret token that authenticates their
// later requests, plus the video token minted for them at join time.
type PlayerSession struct {
	Token      string
	Player     *Player
	VideoToken string
}

// NewPlayerSession constructs a session for the player with a fresh token.
func NewPlayerSession(player *Player) (*PlayerSession, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return nil, err
	}
	return &PlayerSession{Token: token, Player: player}, nil
}
