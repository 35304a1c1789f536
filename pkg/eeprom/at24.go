package eeprom

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// AT24 defaults for a 24C32 (4 KiB, 32-byte pages, 16-bit addressing).
const (
	DefaultAT24Addr       = 0x50
	DefaultAT24Size       = 4096
	DefaultAT24PageSize   = 32
	DefaultAT24WriteCycle = 5 * time.Millisecond
)

// AT24Opts configures an AT24 device. Zero fields take the 24C32 defaults.
type AT24Opts struct {
	Addr       uint16           // 7-bit bus address
	Size       int              // Capacity in bytes
	PageSize   int              // Page write boundary in bytes
	AddrBytes  int              // Word address width: 1 (<= 256 bytes) or 2
	WriteCycle time.Duration    // Internal write time after each page
	Speed      physic.Frequency // Bus speed; 0 leaves the bus untouched
}

// AT24 is a 24Cxx serial EEPROM. Writes go straight to the chip page by
// page, so Commit has nothing left to flush.
type AT24 struct {
	mu   sync.Mutex
	dev  *i2c.Dev
	opts AT24Opts

	sleep func(time.Duration)
}

// NewAT24 returns an AT24 device on bus.
func NewAT24(bus i2c.Bus, opts *AT24Opts) (*AT24, error) {
	o := AT24Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Addr == 0 {
		o.Addr = DefaultAT24Addr
	}
	if o.Size == 0 {
		o.Size = DefaultAT24Size
	}
	if o.PageSize == 0 {
		o.PageSize = DefaultAT24PageSize
	}
	if o.AddrBytes == 0 {
		o.AddrBytes = 2
	}
	if o.WriteCycle == 0 {
		o.WriteCycle = DefaultAT24WriteCycle
	}

	if o.AddrBytes != 1 && o.AddrBytes != 2 {
		return nil, errors.New("eeprom: address width must be 1 or 2 bytes")
	}
	if o.AddrBytes == 1 && o.Size > 256 {
		return nil, errors.New("eeprom: 1-byte addressing supports at most 256 bytes")
	}
	if o.PageSize <= 0 || o.Size%o.PageSize != 0 {
		return nil, errors.New("eeprom: size must be a multiple of the page size")
	}

	if o.Speed != 0 {
		if err := bus.SetSpeed(o.Speed); err != nil {
			return nil, fmt.Errorf("eeprom: set bus speed: %w", err)
		}
	}

	return &AT24{
		dev:   &i2c.Dev{Bus: bus, Addr: o.Addr},
		opts:  o,
		sleep: time.Sleep,
	}, nil
}

// Size returns the capacity in bytes.
func (d *AT24) Size() int {
	return d.opts.Size
}

// String implements fmt.Stringer.
func (d *AT24) String() string {
	return fmt.Sprintf("eeprom.AT24{%s, 0x%02x, %dB}", d.dev.Bus, d.opts.Addr, d.opts.Size)
}

func (d *AT24) wordAddr(addr int) []byte {
	if d.opts.AddrBytes == 1 {
		return []byte{byte(addr)}
	}
	return []byte{byte(addr >> 8), byte(addr)}
}

// Read performs a sequential read starting at addr.
func (d *AT24) Read(addr int, p []byte) error {
	if err := checkRange(d.opts.Size, addr, len(p)); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.dev.Tx(d.wordAddr(addr), p); err != nil {
		return fmt.Errorf("eeprom: read at 0x%04x: %w", addr, err)
	}
	return nil
}

// Write splits p on page boundaries and waits out the write cycle after
// each page.
func (d *AT24) Write(addr int, p []byte) error {
	if err := checkRange(d.opts.Size, addr, len(p)); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for len(p) > 0 {
		room := d.opts.PageSize - addr%d.opts.PageSize
		n := len(p)
		if n > room {
			n = room
		}

		w := append(d.wordAddr(addr), p[:n]...)
		if err := d.dev.Tx(w, nil); err != nil {
			return fmt.Errorf("eeprom: write at 0x%04x: %w", addr, err)
		}
		d.sleep(d.opts.WriteCycle)

		addr += n
		p = p[n:]
	}
	return nil
}

// Commit is a no-op: every page is durable once its write cycle ends.
func (d *AT24) Commit() error {
	return nil
}
