package adaptor

import (
	"bytes"
	"net"

	"github.com/google/uuid"
)

// Adaptor is one tracked network interface.
type Adaptor struct {
	ID           uuid.UUID // Assigned on first sighting, stable for the record's life
	Name         string
	HardwareAddr net.HardwareAddr
	IfIndex      uint32 // 0 when unknown

	// UserData is owned by the caller. See the package documentation for
	// registry-allocated buffers.
	UserData any
}

// Equal reports whether a and b describe the same interface: same name,
// hardware address and interface index. ID and UserData are ignored.
func Equal(a, b *Adaptor) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name &&
		a.IfIndex == b.IfIndex &&
		bytes.Equal(a.HardwareAddr, b.HardwareAddr)
}

// Sighting is one interface reported by an Enumerator.
type Sighting struct {
	Name         string
	HardwareAddr net.HardwareAddr
	IfIndex      uint32
}

// Enumerator lists the interfaces currently present on the host.
type Enumerator interface {
	Interfaces() ([]Sighting, error)
}

// EnumeratorFunc adapts a function to the Enumerator interface.
type EnumeratorFunc func() ([]Sighting, error)

// Interfaces implements Enumerator.
func (f EnumeratorFunc) Interfaces() ([]Sighting, error) { return f() }

// State is the reconciliation state of a record within a refresh cycle.
type State uint8

const (
	// Confirmed records were sighted in the current cycle (or no cycle is open).
	Confirmed State = iota
	// Unconfirmed records have not been sighted since the last MarkAll.
	Unconfirmed
)

func (s State) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Unconfirmed:
		return "unconfirmed"
	default:
		return "unknown"
	}
}
