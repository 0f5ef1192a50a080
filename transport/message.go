// Package transport frames the engine's parse/validate operations as a
// request/response protocol so a host can run them off its own thread: a
// worker goroutine services requests sequentially while the caller's
// goroutine dispatches them and waits on a per-request timeout.
package transport

import "github.com/google/uuid"

// MessageType selects which engine operation a Request invokes.
type MessageType int

const (
	MessageParse MessageType = iota
	MessageValidate
	MessageParseAndValidate
)

func (t MessageType) String() string {
	switch t {
	case MessageParse:
		return "parse"
	case MessageValidate:
		return "validate"
	case MessageParseAndValidate:
		return "parseAndValidate"
	default:
		return "unknown"
	}
}

// Request is one framed call: an id for correlation, a type selecting the
// operation, and an opaque payload the worker unmarshals per Type.
type Request struct {
	ID      uuid.UUID
	Type    MessageType
	Payload interface{}
}

// Response answers a Request by ID: either Result is set, or Err is.
type Response struct {
	ID     uuid.UUID
	Type   MessageType
	Result interface{}
	Err    error
}

// NewRequest builds a Request with a fresh id.
func NewRequest(t MessageType, payload interface{}) Request {
	return Request{ID: uuid.New(), Type: t, Payload: payload}
}
