package transport

import "github.com/brightfield/csvimport"

// ParsePayload mirrors csvimport.Parse's arguments.
type ParsePayload struct {
	Text    string
	Options csvimport.ParseOptions
}

// ValidatePayload mirrors csvimport.Validate's arguments.
type ValidatePayload struct {
	Rows   [][]string
	Schema *csvimport.Schema
}

// ParseAndValidatePayload mirrors a parse immediately followed by a
// validate against a fixed schema, the worker's combined-request type.
type ParseAndValidatePayload struct {
	Text    string
	Options csvimport.ParseOptions
	Schema  *csvimport.Schema
}

// EngineHandler dispatches a Request to the matching csvimport operation
// by Type, the worker-side implementation a host wires into NewClient.
func EngineHandler(req Request) (interface{}, error) {
	switch req.Type {
	case MessageParse:
		p, ok := req.Payload.(ParsePayload)
		if !ok {
			return nil, ErrInvalidPayload
		}
		return csvimport.Parse(p.Text, p.Options)

	case MessageValidate:
		p, ok := req.Payload.(ValidatePayload)
		if !ok {
			return nil, ErrInvalidPayload
		}
		return csvimport.Validate(p.Rows, p.Schema), nil

	case MessageParseAndValidate:
		p, ok := req.Payload.(ParseAndValidatePayload)
		if !ok {
			return nil, ErrInvalidPayload
		}
		parsed, err := csvimport.Parse(p.Text, p.Options)
		if err != nil {
			return nil, err
		}
		return csvimport.Validate(parsed.Rows, p.Schema), nil

	default:
		return nil, ErrUnknownMessageType
	}
}
