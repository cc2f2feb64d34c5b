package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeTownNotFound     = "town_not_found"
	ErrCodeSessionNotFound  = "session_not_found"
	ErrCodeMessageRejected  = "message_rejected"
	ErrCodeTownDestroyed    = "town_destroyed"
	ErrCodeVideoTokenFailed = "video_token_failed"
	ErrCodeBadRequest       = "bad_request"
)

var (
	ErrTownNotFound    = errors.New("town not found")
	ErrSessionNotFound = errors.New("session not found")
	// ErrTownDestroyed is returned by every operation on a controller after
	// teardown. Distinct from a registry miss: the town existed and is gone.
	ErrTownDestroyed = errors.New("town destroyed")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

// IsMessageRejected reports whether err is a chat-policy rejection. Policy
// rejections are an expected outcome, not a fault.
func IsMessageRejected(err error) bool {
	var ce *CoreError
	return errors.As(err, &ce) && ce.Code == ErrCodeMessageRejected
}
