package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/townsquare-server/internal/utils"
	"github.com/vovakirdan/townsquare-server/internal/videotoken"
)

// TownController owns the players, sessions, and listeners of one town and
// performs event fan-out. All mutating operations serialize on one mutex per
// controller; the mutex is held through the listener notification that
// follows a mutation so listeners always observe a consistent, already-mutated
// state. Listener implementations must therefore not block and must not call
// back into the controller.
//
// Towns are independent: there is no shared state between controllers.
type TownController struct {
	id    string
	video videotoken.Engine

	mu           sync.Mutex
	friendlyName string
	isPublic     bool
	players      []*Player
	sessions     map[string]*PlayerSession
	listeners    []TownListener
	rules        []ChatRule
	destroyed    bool
}

// NewTownController constructs a live controller with a fresh town id.
func NewTownController(friendlyName string, isPublic bool, video videotoken.Engine, rules []ChatRule) *TownController {
	return &TownController{
		id:           utils.NewID(),
		video:        video,
		friendlyName: friendlyName,
		isPublic:     isPublic,
		sessions:     make(map[string]*PlayerSession),
		rules:        rules,
	}
}

// ID returns the town id.
func (t *TownController) ID() string { return t.id }

// FriendlyName returns the town's display name.
func (t *TownController) FriendlyName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.friendlyName
}

// IsPubliclyListed reports whether the town appears in public listings.
func (t *TownController) IsPubliclyListed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isPublic
}

// Players returns a snapshot of the current player set. Entries are copies:
// locations keep changing under the controller lock after this returns.
func (t *TownController) Players() []*Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	players := make([]*Player, len(t.players))
	for i, p := range t.players {
		cp := *p
		players[i] = &cp
	}
	return players
}

// Occupancy returns the number of live sessions.
func (t *TownController) Occupancy() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// SessionByToken resolves a session token. Absence is a normal outcome.
func (t *TownController) SessionByToken(token string) (*PlayerSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[token]
	return s, ok
}

// SetChatRules replaces the town's rule sequence. Order is significant: the
// first violated rule decides the failure message.
func (t *TownController) SetChatRules(rules []ChatRule) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = rules
}

// rename applies partial updates from the registry.
func (t *TownController) rename(friendlyName *string, isPublic *bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if friendlyName != nil {
		t.friendlyName = *friendlyName
	}
	if isPublic != nil {
		t.isPublic = *isPublic
	}
}

// Join creates a session for the player, mints a video token for
// (townID, playerID), adds the player, and notifies every listener. A video
// provider failure is fatal: no session or player state is retained. The
// provider call runs before the controller lock is taken so a slow provider
// does not stall the town.
func (t *TownController) Join(ctx context.Context, player *Player) (*PlayerSession, error) {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return nil, ErrTownDestroyed
	}
	t.mu.Unlock()

	session, err := NewPlayerSession(player)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	videoToken, err := t.video.Mint(ctx, t.id, player.ID)
	if err != nil {
		return nil, coreError(ErrCodeVideoTokenFailed, fmt.Sprintf("video token: %v", err))
	}
	session.VideoToken = videoToken

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return nil, ErrTownDestroyed
	}
	t.sessions[session.Token] = session
	t.players = append(t.players, player)
	for _, l := range t.listeners {
		l.OnPlayerJoined(player)
	}
	return session, nil
}

// SendChat evaluates the town's rules in order against the message body. The
// first violated rule aborts the send with that rule's failure message and no
// listener is notified. If every rule passes, each listener receives the
// message exactly once, in registration order.
func (t *TownController) SendChat(msg ChatMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTownDestroyed
	}
	for _, rule := range t.rules {
		if rule.Check(msg.Body) {
			return coreError(ErrCodeMessageRejected, rule.FailureMessage)
		}
	}
	for _, l := range t.listeners {
		l.OnMessageSent(msg)
	}
	return nil
}

// UpdateLocation overwrites the player's location and notifies every
// listener. Positions carry no policy: coordinates are not bounds-checked.
func (t *TownController) UpdateLocation(player *Player, loc Location) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTownDestroyed
	}
	player.Location = loc
	for _, l := range t.listeners {
		l.OnPlayerMoved(player)
	}
	return nil
}

// EndSession removes the session and its player, then notifies every
// listener of the disconnect. Ending a session the town no longer tracks is
// a no-op, so racing disconnects never notify twice.
func (t *TownController) EndSession(session *PlayerSession) error {
	if session == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTownDestroyed
	}
	if _, ok := t.sessions[session.Token]; !ok {
		return nil
	}
	delete(t.sessions, session.Token)
	for i, p := range t.players {
		if p == session.Player {
			t.players = append(t.players[:i], t.players[i+1:]...)
			break
		}
	}
	for _, l := range t.listeners {
		l.OnPlayerDisconnected(session.Player)
	}
	return nil
}

// AddListener subscribes a listener to the town's events.
func (t *TownController) AddListener(listener TownListener) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTownDestroyed
	}
	t.listeners = append(t.listeners, listener)
	return nil
}

// RemoveListener unsubscribes a listener. Identity is reference-based;
// removing a listener that is not registered is a no-op.
func (t *TownController) RemoveListener(listener TownListener) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTownDestroyed
	}
	for i, l := range t.listeners {
		if l == listener {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			break
		}
	}
	return nil
}

// Destroy notifies every listener exactly once that the town is closing,
// then clears all sessions, players, and listeners. Every later call on the
// controller fails with ErrTownDestroyed.
func (t *TownController) Destroy() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrTownDestroyed
	}
	t.destroyed = true
	for _, l := range t.listeners {
		l.OnTownDestroyed()
	}
	t.listeners = nil
	t.players = nil
	t.sessions = make(map[string]*PlayerSession)
	return nil
}
