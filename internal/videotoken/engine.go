package videotoken

import "context"

// Engine abstracts the external video provider. The core consumes it through
// this single capability: mint an access token scoped to one participant in
// one town. Retries and timeouts belong to the implementation; the core
// treats any error as a fatal join failure.
type Engine interface {
	Mint(ctx context.Context, townID, participantID string) (string, error)
}
