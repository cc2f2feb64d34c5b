package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/townsquare-server/internal/core"
	"github.com/vovakirdan/townsquare-server/internal/proto"
)

// errTownClosing signals that the town was destroyed while the connection
// was subscribed; the connection is closed after townClosing is delivered.
var errTownClosing = errors.New("town closing")

// WSHandler upgrades HTTP connections and bridges them to a town: it owns
// the handshake authentication, subscribes a listener that maps town events
// onto wire messages, and feeds inbound wire events into the controller.
type WSHandler struct {
	registry *core.TownRegistry
	log      *zerolog.Logger
}

// NewWSHandler builds the websocket subscription handler.
func NewWSHandler(registry *core.TownRegistry, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{registry: registry, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	townID := r.URL.Query().Get("townID")
	token := r.URL.Query().Get("token")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// Authenticate the handshake: both the town and the session token must
	// resolve, otherwise the connection is terminated and no state is
	// created.
	town, ok := h.registry.GetTown(townID)
	var session *core.PlayerSession
	if ok {
		session, ok = town.SessionByToken(token)
	}
	if !ok {
		h.log.Debug().Str("town_id", townID).Msg("ws handshake rejected")
		conn.Close(websocket.StatusPolicyViolation, "invalid town or session token")
		return
	}

	listener := newSocketListener()
	if err := town.AddListener(listener); err != nil {
		conn.Close(websocket.StatusGoingAway, "town closing")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, town, session)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, listener)
	}()

	err = <-errCh

	// Listener removal precedes session teardown so this connection never
	// receives its own disconnect event. Both calls are no-ops if the town
	// is already gone.
	_ = town.RemoveListener(listener)
	_ = town.EndSession(session)

	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if errors.Is(err, errTownClosing) {
		status = websocket.StatusGoingAway
		reason = "town closing"
		err = nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("player_id", session.Player.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, town *core.TownController, session *core.PlayerSession) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		switch inbound.Type {
		case proto.InboundTypePlayerMovement:
			var data proto.LocationData
			if err := json.Unmarshal(inbound.Data, &data); err != nil {
				if writeErr := h.writeProtoError(ctx, conn, core.ErrCodeBadRequest, "malformed movement payload"); writeErr != nil {
					return writeErr
				}
				continue
			}
			loc, ok := locationFromWire(data)
			if !ok {
				if writeErr := h.writeProtoError(ctx, conn, core.ErrCodeBadRequest, "unknown rotation value"); writeErr != nil {
					return writeErr
				}
				continue
			}
			if err := town.UpdateLocation(session.Player, loc); err != nil {
				return err
			}
		default:
			if writeErr := h.writeProtoError(ctx, conn, "invalid_message", "unknown message type"); writeErr != nil {
				return writeErr
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, listener *socketListener) error {
	for {
		select {
		case out := <-listener.events:
			if err := wsjson.Write(ctx, conn, out); err != nil {
				h.log.Error().Err(err).Msg("write ws event")
				return err
			}
		case <-listener.closing:
			// Deliver whatever is still queued, townClosing included, then
			// force the close.
			for {
				select {
				case out := <-listener.events:
					if err := wsjson.Write(ctx, conn, out); err != nil {
						return err
					}
				default:
					return errTownClosing
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeProtoError(ctx context.Context, conn *websocket.Conn, code, msg string) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg},
	})
}

// socketListener adapts town events to the wire protocol. Notifications run
// inside the controller's critical section, so pushes never block: a slow
// consumer drops events rather than stalling the town.
type socketListener struct {
	events  chan proto.Outbound
	closing chan struct{}
	once    sync.Once
}

func newSocketListener() *socketListener {
	return &socketListener{
		events:  make(chan proto.Outbound, 32),
		closing: make(chan struct{}),
	}
}

func (l *socketListener) push(out proto.Outbound) {
	select {
	case l.events <- out:
	default:
		// Drop if slow consumer.
	}
}

func (l *socketListener) OnPlayerJoined(player *core.Player) {
	l.push(proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventNewPlayer, Data: playerData(player)})
}

func (l *socketListener) OnPlayerMoved(player *core.Player) {
	l.push(proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventPlayerMoved, Data: playerData(player)})
}

func (l *socketListener) OnMessageSent(msg core.ChatMessage) {
	l.push(proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventMessageSent, Data: messageData(msg)})
}

func (l *socketListener) OnPlayerDisconnected(player *core.Player) {
	l.push(proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventPlayerDisconnect, Data: playerData(player)})
}

func (l *socketListener) OnTownDestroyed() {
	l.push(proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventTownClosing})
	l.once.Do(func() { close(l.closing) })
}

var _ core.TownListener = (*socketListener)(nil)
