package transport

import "errors"

// ErrClientClosed is returned for any request in flight when Close runs,
// and for any request submitted afterward.
var ErrClientClosed = errors.New("transport: client closed")

// ErrInvalidPayload is returned when a Request's Payload doesn't match
// the type its MessageType expects.
var ErrInvalidPayload = errors.New("transport: invalid payload for message type")

// ErrUnknownMessageType is returned for a Request whose Type has no
// registered handler.
var ErrUnknownMessageType = errors.New("transport: unknown message type")
