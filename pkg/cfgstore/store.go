// Package cfgstore maps typed device configuration onto a flat,
// byte-addressed non-volatile store.
//
// Every value lives at a fixed offset described by a Field (see Layout).
// Saves are committed one field at a time; there is no multi-field
// transaction, so a power loss between two saves can leave one of them
// applied and the other not. Loads never fail: unreadable or corrupted
// values decode as the zero value of their type and are logged.
package cfgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/teslashibe/go-printcam/pkg/eeprom"
)

// Sentinel errors for the cfgstore package.
var (
	// ErrValueTooLong indicates a string does not fit its field.
	ErrValueTooLong = errors.New("cfgstore: value too long for field")

	// ErrKindMismatch indicates a typed accessor was used on a field of another kind.
	ErrKindMismatch = errors.New("cfgstore: field kind mismatch")

	// ErrStoreTooSmall indicates the device cannot hold the layout.
	ErrStoreTooSmall = errors.New("cfgstore: device smaller than layout")
)

// Identity supplies the hardware identifiers the fingerprint is derived from.
type Identity interface {
	UniqueID() ([]byte, error)
	MAC() (net.HardwareAddr, error)
}

// Options configures a Store.
type Options struct {
	Logger        *slog.Logger
	Identity      Identity
	ShowSensitive bool // log secrets in clear text
}

// Store is the typed view over an eeprom.Device.
// All methods are safe for concurrent use.
type Store struct {
	mu            sync.Mutex
	dev           eeprom.Device
	ident         Identity
	logger        *slog.Logger
	showSensitive bool

	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Store over dev. opts may be nil.
func New(dev eeprom.Device, opts *Options) (*Store, error) {
	if dev.Size() < StoreSize {
		return nil, fmt.Errorf("%w: %d < %d bytes", ErrStoreTooSmall, dev.Size(), StoreSize)
	}

	s := &Store{
		dev:    dev,
		logger: slog.Default().With("component", "cfgstore"),
		sleep:  sleepCtx,
	}
	if opts != nil {
		if opts.Logger != nil {
			s.logger = opts.Logger.With("component", "cfgstore")
		}
		s.ident = opts.Identity
		s.showSensitive = opts.ShowSensitive
	}
	return s, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// display renders a loaded value for diagnostics.
func (s *Store) display(f Field, v any) any {
	if f.Sensitive && !s.showSensitive {
		if str, ok := v.(string); ok {
			return strings.Repeat("*", len(str))
		}
	}
	return v
}

// write stores raw bytes for one field and commits them.
func (s *Store) write(f Field, p []byte) error {
	if err := s.dev.Write(f.Offset, p); err != nil {
		return fmt.Errorf("cfgstore: write %s: %w", f.Name, err)
	}
	if err := s.dev.Commit(); err != nil {
		return fmt.Errorf("cfgstore: commit %s: %w", f.Name, err)
	}
	return nil
}

// read returns n raw bytes at the field offset; on failure it logs and
// returns zeros.
func (s *Store) read(f Field, off, n int) []byte {
	p := make([]byte, n)
	if err := s.dev.Read(f.Offset+off, p); err != nil {
		s.logger.Error("read failed", "field", f.Name, "error", err)
		return make([]byte, n)
	}
	return p
}

func (s *Store) checkKind(f Field, want Kind) error {
	if f.Kind != want {
		return fmt.Errorf("%w: %s is %s, not %s", ErrKindMismatch, f.Name, f.Kind, want)
	}
	return nil
}
