// Package ids generates the opaque identifiers used for rooms and combat
// unit instances. The source generated these from timestamps and random
// suffixes; per the entity-storage design note this rewrite uses real
// UUIDs instead so ids are collision-free without needing a shared
// counter, and stay opaque at the wire boundary.
package ids

import "github.com/google/uuid"

// NewRoomID returns a fresh, unique room identifier.
func NewRoomID() string {
	return "room-" + uuid.NewString()
}

// NewUnitInstanceID returns a fresh, unique combat unit instance id.
func NewUnitInstanceID() string {
	return "unit-" + uuid.NewString()
}

// NewSessionID returns a fresh, unique per-connection session id. Session
// identity is normally the transport layer's responsibility (see spec
// §1); internal/net/ws stands in for that assumed collaborator and uses
// this to mint one at connect time.
func NewSessionID() string {
	return "session-" + uuid.NewString()
}
