package http

import (
	"github.com/vovakirdan/townsquare-server/internal/core"
	"github.com/vovakirdan/townsquare-server/internal/proto"
)

func playerData(p *core.Player) proto.PlayerData {
	return proto.PlayerData{
		ID:       p.ID,
		UserName: p.UserName,
		Location: proto.LocationData{
			X:        p.Location.X,
			Y:        p.Location.Y,
			Rotation: string(p.Location.Facing),
			Moving:   p.Location.Moving,
		},
	}
}

func messageData(msg core.ChatMessage) proto.MessageData {
	return proto.MessageData{
		ID:     msg.ID,
		Sender: playerData(msg.Sender),
		Body:   msg.Body,
		TS:     msg.SentAt.Unix(),
	}
}

// locationFromWire validates inbound movement data. Coordinates are accepted
// as-is; only the facing value is checked.
func locationFromWire(d proto.LocationData) (core.Location, bool) {
	facing := core.Facing(d.Rotation)
	if !facing.Valid() {
		return core.Location{}, false
	}
	return core.Location{
		X:      d.X,
		Y:      d.Y,
		Facing: facing,
		Moving: d.Moving,
	}, true
}
