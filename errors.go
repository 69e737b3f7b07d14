package flshm

import "errors"

// Errors returned by the flshm package.
var (
	// ErrOpen is wrapped by every error returned from Open and OpenKeys.
	ErrOpen = errors.New("flshm: open failed")

	// ErrClosed is returned when a closed segment is used.
	ErrClosed = errors.New("flshm: segment closed")

	// ErrLock is wrapped by lock and unlock failures.
	ErrLock = errors.New("flshm: lock failed")

	// ErrSegmentTooSmall is returned when an existing segment is smaller than Size.
	ErrSegmentTooSmall = errors.New("flshm: segment too small")

	// ErrMessageTooLarge is returned when an encoded message exceeds MaxMessageSize.
	ErrMessageTooLarge = errors.New("flshm: message too large")

	// ErrMalformedMessage is returned when the message region cannot be decoded.
	ErrMalformedMessage = errors.New("flshm: malformed message")

	ErrInvalidTick       = errors.New("flshm: invalid tick")
	ErrInvalidVersion    = errors.New("flshm: invalid version")
	ErrInvalidSandbox    = errors.New("flshm: invalid sandbox")
	ErrInvalidAMFVersion = errors.New("flshm: invalid amf version")
	ErrStringTooLong     = errors.New("flshm: string too long")

	// Registry errors.
	ErrInvalidName        = errors.New("flshm: invalid connection name")
	ErrConnectionExists   = errors.New("flshm: connection already registered")
	ErrConnectionsFull    = errors.New("flshm: connection registry full")
	ErrConnectionNotFound = errors.New("flshm: connection not registered")
)
