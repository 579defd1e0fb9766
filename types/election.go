package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ElectionID identifies an election. It is a random UUID generated when the
// election is set up.
type ElectionID uuid.UUID

// NewElectionID returns a new random election identifier.
func NewElectionID() ElectionID {
	return ElectionID(uuid.New())
}

// ParseElectionID parses the textual (hex or canonical UUID) form of an
// election id.
func ParseElectionID(s string) (ElectionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ElectionID{}, fmt.Errorf("invalid election id %q: %w", s, err)
	}
	return ElectionID(id), nil
}

// Bytes returns the 16 bytes of the identifier.
func (e ElectionID) Bytes() []byte {
	return e[:]
}

// String returns the canonical UUID representation.
func (e ElectionID) String() string {
	return uuid.UUID(e).String()
}

// MarshalText implements encoding.TextMarshaler.
func (e ElectionID) MarshalText() ([]byte, error) {
	return uuid.UUID(e).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *ElectionID) UnmarshalText(data []byte) error {
	return (*uuid.UUID)(e).UnmarshalText(data)
}
