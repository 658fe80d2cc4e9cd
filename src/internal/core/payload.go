// FILE: src/internal/core/payload.go
package core

// Payload is one serialized event ready for HTTP delivery. Ownership moves
// from the layer through the queue to the worker; it is never shared.
type Payload interface {
	// Destination returns the webhook URL to POST to
	Destination() string

	// Body returns the serialized JSON request body
	Body() []byte
}
