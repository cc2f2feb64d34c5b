package core

import "github.com/google/uuid"

// Facing is the direction a player's avatar faces.
type Facing string

const (
	FacingFront Facing = "front"
	FacingBack  Facing = "back"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// Valid reports whether f is one of the four known directions.
func (f Facing) Valid() bool {
	switch f {
	case FacingFront, FacingBack, FacingLeft, FacingRight:
		return true
	}
	return false
}

// Location is a player's position on the town map. Coordinates have no
// bounds; clients own the map geometry.
type Location struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Facing Facing  `json:"rotation"`
	Moving bool    `json:"moving"`
}

// Player is one participant in a town. The zero Location (origin, facing
// front, standing still) applies until the first movement arrives.
type Player struct {
	ID       string   `json:"_id"`
	UserName string   `json:"_userName"`
	Location Location `json:"location"`
}

// NewPlayer constructs a player with a fresh id at the default location.
func NewPlayer(userName string) *Player {
	return &Player{
		ID:       uuid.NewString(),
		UserName: userName,
		Location: Location{Facing: FacingFront},
	}
}
