// Package config provides configuration helpers for go-printcam commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults for the environment settings.
const (
	DefaultCamera      = "sim"
	DefaultEEPROM      = "/var/lib/printcam/eeprom.bin"
	DefaultResetPin    = ""
	DefaultFlashPin    = ""
	DefaultMaxAttempts = 20
	DefaultLogLevel    = "info"
)

// SimCamera selects the simulated camera.
const SimCamera = "sim"

// Camera returns the capture device from PRINTCAM_CAMERA: a V4L2 device
// path such as /dev/video0, or "sim".
func Camera() string {
	return env("PRINTCAM_CAMERA", DefaultCamera)
}

// EEPROM returns the configuration store location from PRINTCAM_EEPROM:
// a file path, or i2c:<bus>:<addr> for an AT24 part.
func EEPROM() string {
	return env("PRINTCAM_EEPROM", DefaultEEPROM)
}

// ResetPin returns the GPIO name of the factory reset button, or "" for none.
func ResetPin() string {
	return env("PRINTCAM_RESET_PIN", DefaultResetPin)
}

// FlashPin returns the GPIO name of the flash LED, or "" for none.
func FlashPin() string {
	return env("PRINTCAM_FLASH_PIN", DefaultFlashPin)
}

// MaxCaptureAttempts returns the frame retry budget from
// PRINTCAM_MAX_CAPTURE_ATTEMPTS. Zero or negative means unbounded.
func MaxCaptureAttempts() int {
	if v := os.Getenv("PRINTCAM_MAX_CAPTURE_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return DefaultMaxAttempts
}

// LogLevel returns LOG_LEVEL, used until the persisted level is loaded.
func LogLevel() string {
	return env("LOG_LEVEL", DefaultLogLevel)
}

// I2CTarget is a parsed i2c:<bus>:<addr> store location.
type I2CTarget struct {
	Bus  string
	Addr uint16
}

// ParseI2C parses i2c:<bus>:<addr>. The address accepts 0x notation.
// ok is false when s is not an i2c location at all.
func ParseI2C(s string) (t I2CTarget, ok bool, err error) {
	rest, found := strings.CutPrefix(s, "i2c:")
	if !found {
		return I2CTarget{}, false, nil
	}
	bus, addr, found := strings.Cut(rest, ":")
	if !found {
		return I2CTarget{}, true, fmt.Errorf("config: %q: want i2c:<bus>:<addr>", s)
	}
	a, err := strconv.ParseUint(addr, 0, 16)
	if err != nil || a > 0x7F {
		return I2CTarget{}, true, fmt.Errorf("config: %q: bad i2c address", s)
	}
	return I2CTarget{Bus: bus, Addr: uint16(a)}, true, nil
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
