// Package netenum lists the host's network interfaces as adaptor sightings.
package netenum

import (
	"fmt"
	"net"

	"github.com/joshuapare/hostkit/host/adaptor"
)

// System enumerates interfaces through the operating system.
type System struct {
	SkipLoopback bool // Drop interfaces flagged loopback
	SkipDown     bool // Drop interfaces that are not administratively up

	list func() ([]net.Interface, error) // net.Interfaces when nil
}

var _ adaptor.Enumerator = (*System)(nil)

// Interfaces implements adaptor.Enumerator.
func (s *System) Interfaces() ([]adaptor.Sighting, error) {
	list := s.list
	if list == nil {
		list = net.Interfaces
	}
	ifaces, err := list()
	if err != nil {
		return nil, fmt.Errorf("netenum: %w", err)
	}

	out := make([]adaptor.Sighting, 0, len(ifaces))
	for _, ifc := range ifaces {
		if s.SkipLoopback && ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		if s.SkipDown && ifc.Flags&net.FlagUp == 0 {
			continue
		}
		idx := uint32(0)
		if ifc.Index > 0 {
			idx = uint32(ifc.Index)
		}
		out = append(out, adaptor.Sighting{
			Name:         ifc.Name,
			HardwareAddr: ifc.HardwareAddr,
			IfIndex:      idx,
		})
	}
	return out, nil
}

// Static replays a fixed list of sightings. Useful for dry runs and tests.
type Static []adaptor.Sighting

// Interfaces implements adaptor.Enumerator.
func (s Static) Interfaces() ([]adaptor.Sighting, error) {
	out := make([]adaptor.Sighting, len(s))
	copy(out, s)
	return out, nil
}
