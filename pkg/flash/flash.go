// Package flash drives the capture illumination LED over a GPIO pin.
package flash

import (
	"fmt"
	"log/slog"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Driver is a two-state flash output. It satisfies framebuf.Flash and,
// through Out, the cfgstore reset indicator.
type Driver struct {
	mu     sync.Mutex
	pin    gpio.PinOut
	on     bool
	logger *slog.Logger
}

// New drives pin low and returns a Driver for it. logger may be nil.
func New(pin gpio.PinOut, logger *slog.Logger) (*Driver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Driver{pin: pin, logger: logger.With("component", "flash")}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("flash: init %s: %w", pin, err)
	}
	return d, nil
}

// Set switches the flash.
func (d *Driver) Set(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.pin.Out(gpio.Level(on)); err != nil {
		return fmt.Errorf("flash: set %v: %w", on, err)
	}
	d.on = on
	d.logger.Debug("flash", "on", on)
	return nil
}

func (d *Driver) On() error  { return d.Set(true) }
func (d *Driver) Off() error { return d.Set(false) }

// Out sets the raw pin level.
func (d *Driver) Out(l gpio.Level) error { return d.Set(bool(l)) }

// Status reports whether the flash is currently on.
func (d *Driver) Status() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.on
}

func (d *Driver) String() string { return fmt.Sprintf("flash(%s)", d.pin) }
