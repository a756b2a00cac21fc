package routeros

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord indicates a router record that cannot produce a client:
// missing host or user, or an unknown API type. Raised before any network
// I/O so misconfiguration fails fast.
var ErrInvalidRecord = errors.New("invalid router record")

// emptyResultMarker is the trap message the binary sentence API emits when a
// lookup command matches nothing. Callers treat it as an empty result set,
// not a failure.
const emptyResultMarker = "no such item"

// ProtocolError is a fault reported by the device or the transport while
// executing a command. Status carries the upstream HTTP status when the REST
// variant has one; zero means no upstream status is available and callers
// should respond with a generic bad-gateway status.
type ProtocolError struct {
	Status  int
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("device returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("device error: %s", e.Message)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// restErrorMessage extracts the most descriptive message from a REST error
// body. The JSON API nests detail under "detail" or "message" next to a
// numeric "error" code; both absent, the raw body is the best available
// description. Decode is best-effort because the body is already an error.
func restErrorMessage(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	if payload.Detail != "" {
		return payload.Detail
	}
	if payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// isEmptyResult reports whether err is the device's empty-result trap.
func isEmptyResult(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), emptyResultMarker)
}
