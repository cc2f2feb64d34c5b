package core

import (
	"context"
	"errors"
	"testing"
)

// recordingListener captures every notification. The controller serializes
// notifications, so plain slices are enough.
type recordingListener struct {
	joined       []*Player
	moved        []*Player
	messages     []ChatMessage
	disconnected []*Player
	destroyed    int
}

func (l *recordingListener) OnPlayerJoined(p *Player)      { l.joined = append(l.joined, p) }
func (l *recordingListener) OnPlayerMoved(p *Player)       { l.moved = append(l.moved, p) }
func (l *recordingListener) OnMessageSent(m ChatMessage)   { l.messages = append(l.messages, m) }
func (l *recordingListener) OnPlayerDisconnected(p *Player) {
	l.disconnected = append(l.disconnected, p)
}
func (l *recordingListener) OnTownDestroyed() { l.destroyed++ }

type mintCall struct {
	TownID        string
	ParticipantID string
}

// fakeVideoEngine records mint calls and optionally fails.
type fakeVideoEngine struct {
	calls []mintCall
	err   error
}

func (f *fakeVideoEngine) Mint(_ context.Context, townID, participantID string) (string, error) {
	f.calls = append(f.calls, mintCall{TownID: townID, ParticipantID: participantID})
	if f.err != nil {
		return "", f.err
	}
	return "video-" + participantID, nil
}

var errVideoDown = errors.New("video provider unavailable")

func newTestTown(t *testing.T, rules []ChatRule) (*TownController, *fakeVideoEngine) {
	t.Helper()
	engine := &fakeVideoEngine{}
	if rules == nil {
		rules = DefaultChatRules(0, nil)
	}
	return NewTownController("test town", false, engine, rules), engine
}

func mustJoin(t *testing.T, town *TownController, userName string) (*Player, *PlayerSession) {
	t.Helper()
	player := NewPlayer(userName)
	session, err := town.Join(context.Background(), player)
	if err != nil {
		t.Fatalf("join %s: %v", userName, err)
	}
	return player, session
}

// countingRule returns a rule that records how often it ran.
func countingRule(name string, violates bool, failureMessage string, count *int) ChatRule {
	return ChatRule{
		Name: name,
		Check: func(string) bool {
			*count++
			return violates
		},
		FailureMessage: failureMessage,
	}
}
