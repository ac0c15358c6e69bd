package services

import "errors"

// Error kinds surfaced by the engine. Controllers match them with
// errors.Is and map them to HTTP codes; anything else is internal.
var (
	// ErrNotFound: a room, message or user reference does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrNotAParticipant: the caller is not a member of the room they are
	// trying to read or write.
	ErrNotAParticipant = errors.New("not a participant of this room")

	// ErrInvalidOperation: the operation is invalid for its target, such
	// as opening a direct room with oneself.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidContent: blank or over-length message body.
	ErrInvalidContent = errors.New("invalid message content")

	// ErrConflict: a duplicate create slipped past an idempotent path.
	// The directory recovers from duplicates internally; seeing this
	// outside the retry means a bug, not a user error.
	ErrConflict = errors.New("conflict")
)
