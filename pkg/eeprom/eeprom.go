// Package eeprom provides byte-addressed non-volatile storage backends.
//
// A Device has no notion of records or types: callers address it by offset,
// write raw bytes, and call Commit to make pending writes durable. Two
// backends are provided: Image, a RAM-shadowed region that is optionally
// mirrored to a file, and AT24, a 24Cxx serial EEPROM on an I2C bus.
package eeprom

import (
	"errors"
	"fmt"
)

// Erased is the value read back from storage that was never written.
const Erased = 0xFF

// ErrOutOfRange indicates an access outside the device capacity.
var ErrOutOfRange = errors.New("eeprom: address out of range")

// Device is a fixed-capacity, byte-addressed non-volatile store.
type Device interface {
	// Size returns the capacity in bytes.
	Size() int

	// Read fills p with the bytes starting at addr.
	Read(addr int, p []byte) error

	// Write stores p starting at addr. The data may only become durable
	// after Commit.
	Write(addr int, p []byte) error

	// Commit flushes pending writes to the backing medium.
	Commit() error
}

func checkRange(size, addr, n int) error {
	if addr < 0 || n < 0 || addr+n > size {
		return fmt.Errorf("%w: [%d, %d) exceeds %d bytes", ErrOutOfRange, addr, addr+n, size)
	}
	return nil
}
