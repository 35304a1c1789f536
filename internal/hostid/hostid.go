// Package hostid reads the hardware identifiers the device fingerprint is
// derived from.
package hostid

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DefaultMachineIDPath is the systemd machine ID location.
const DefaultMachineIDPath = "/etc/machine-id"

// ErrNoInterface indicates no hardware network interface was found.
var ErrNoInterface = errors.New("hostid: no hardware network interface")

// Host implements cfgstore.Identity from the local system.
type Host struct {
	MachineIDPath string

	// Interfaces lists candidate interfaces. Defaults to net.Interfaces.
	Interfaces func() ([]net.Interface, error)
}

// New returns a Host reading the default machine ID path.
func New() *Host {
	return &Host{MachineIDPath: DefaultMachineIDPath, Interfaces: net.Interfaces}
}

// UniqueID returns the 16 machine ID bytes.
func (h *Host) UniqueID() ([]byte, error) {
	raw, err := os.ReadFile(h.MachineIDPath)
	if err != nil {
		return nil, fmt.Errorf("hostid: %w", err)
	}
	return ParseMachineID(string(raw))
}

// ParseMachineID decodes a machine ID: 32 hex characters, optionally
// in UUID form.
func ParseMachineID(s string) ([]byte, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("hostid: machine id: %w", err)
	}
	return id[:], nil
}

// MAC returns the address of the first non-loopback interface with a
// 6-byte hardware address, by interface index.
func (h *Host) MAC() (net.HardwareAddr, error) {
	list := h.Interfaces
	if list == nil {
		list = net.Interfaces
	}
	ifaces, err := list()
	if err != nil {
		return nil, fmt.Errorf("hostid: %w", err)
	}
	sort.Slice(ifaces, func(i, j int) bool { return ifaces[i].Index < ifaces[j].Index })

	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagLoopback != 0 || len(ifc.HardwareAddr) != 6 {
			continue
		}
		return ifc.HardwareAddr, nil
	}
	return nil, ErrNoInterface
}
