package core

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/townsquare-server/internal/utils"
	"github.com/vovakirdan/townsquare-server/internal/videotoken"
)

// TownSummary is one row of the public town listing.
type TownSummary struct {
	ID           string `json:"townID"`
	FriendlyName string `json:"friendlyName"`
	Occupancy    int    `json:"currentOccupancy"`
}

// TownRegistry is the process-wide directory of town controllers. It is
// constructed explicitly and injected into whatever accepts connections; it
// is never a package global.
type TownRegistry struct {
	video videotoken.Engine
	rules []ChatRule

	// dummyHash keeps the password check path uniform when the town id is
	// unknown, so a caller cannot tell a missing town from a wrong password.
	dummyHash []byte

	mu    sync.RWMutex
	towns map[string]*townEntry
}

type townEntry struct {
	controller   *TownController
	passwordHash []byte
}

// NewTownRegistry constructs an empty registry. New towns mint video tokens
// through video and start with the given chat rules.
func NewTownRegistry(video videotoken.Engine, rules []ChatRule) *TownRegistry {
	dummy, err := bcrypt.GenerateFromPassword([]byte("townsquare-no-such-town"), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on invalid cost, which DefaultCost is not.
		panic(err)
	}
	return &TownRegistry{
		video:     video,
		rules:     rules,
		dummyHash: dummy,
		towns:     make(map[string]*townEntry),
	}
}

// CreateTown registers a new town and returns its controller together with
// the one-time plaintext update password. Only the bcrypt hash is retained.
func (r *TownRegistry) CreateTown(friendlyName string, isPublic bool) (*TownController, string, error) {
	password, err := utils.NewSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate update password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash update password: %w", err)
	}

	controller := NewTownController(friendlyName, isPublic, r.video, r.rules)

	r.mu.Lock()
	r.towns[controller.ID()] = &townEntry{controller: controller, passwordHash: hash}
	r.mu.Unlock()

	return controller, password, nil
}

// GetTown resolves a town id. Absence is a normal outcome, not an error.
func (r *TownRegistry) GetTown(townID string) (*TownController, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.towns[townID]
	if !ok {
		return nil, false
	}
	return entry.controller, true
}

// ListTowns returns a summary of every publicly listed town.
func (r *TownRegistry) ListTowns() []TownSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	towns := make([]TownSummary, 0, len(r.towns))
	for _, entry := range r.towns {
		c := entry.controller
		if !c.IsPubliclyListed() {
			continue
		}
		towns = append(towns, TownSummary{
			ID:           c.ID(),
			FriendlyName: c.FriendlyName(),
			Occupancy:    c.Occupancy(),
		})
	}
	return towns
}

// UpdateTown applies partial updates to a town's display name and listing
// visibility. Returns false, mutating nothing, when the town is unknown or
// the password does not match.
func (r *TownRegistry) UpdateTown(townID, password string, friendlyName *string, isPublic *bool) bool {
	r.mu.RLock()
	entry, ok := r.towns[townID]
	r.mu.RUnlock()
	if !r.authorize(entry, ok, password) {
		return false
	}
	entry.controller.rename(friendlyName, isPublic)
	return true
}

// DeleteTown removes a town and tears down its controller. Returns false,
// mutating nothing, when the town is unknown or the password does not match.
func (r *TownRegistry) DeleteTown(townID, password string) bool {
	r.mu.RLock()
	entry, ok := r.towns[townID]
	r.mu.RUnlock()
	// The bcrypt compare is slow; keep it outside the write lock so lookups
	// and creates are not stalled behind it.
	if !r.authorize(entry, ok, password) {
		return false
	}

	r.mu.Lock()
	if current, still := r.towns[townID]; !still || current != entry {
		// Lost a race with another delete.
		r.mu.Unlock()
		return false
	}
	delete(r.towns, townID)
	r.mu.Unlock()

	// Teardown happens outside the registry lock; the controller serializes
	// itself.
	_ = entry.controller.Destroy()
	return true
}

// authorize runs the bcrypt comparison on the same path whether or not the
// town exists.
func (r *TownRegistry) authorize(entry *townEntry, ok bool, password string) bool {
	hash := r.dummyHash
	if ok {
		hash = entry.passwordHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return false
	}
	return ok
}
