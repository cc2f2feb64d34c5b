package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	// InboundTypePlayerMovement reports the connected player's new location.
	InboundTypePlayerMovement = "playerMovement"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	// Outbound event names.
	EventNewPlayer        = "newPlayer"
	EventPlayerMoved      = "playerMoved"
	EventMessageSent      = "messageSent"
	EventPlayerDisconnect = "playerDisconnect"
	// EventTownClosing carries no payload and is followed by a forced close.
	EventTownClosing = "townClosing"
)

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// LocationData is a player position on the wire.
type LocationData struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation string  `json:"rotation"`
	Moving   bool    `json:"moving"`
}

// PlayerData identifies a player in outbound events.
type PlayerData struct {
	ID       string       `json:"id"`
	UserName string       `json:"userName"`
	Location LocationData `json:"location"`
}

// MessageData is a broadcast chat message.
type MessageData struct {
	ID     string     `json:"id"`
	Sender PlayerData `json:"sender"`
	Body   string     `json:"message"`
	TS     int64      `json:"timestamp"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
