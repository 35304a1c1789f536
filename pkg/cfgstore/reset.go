package cfgstore

import (
	"context"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ResetInput is the factory-reset button. It is active low.
type ResetInput interface {
	Read() gpio.Level
}

// Indicator is an output toggled while a factory reset is pending,
// typically the flash LED.
type Indicator interface {
	Out(l gpio.Level) error
}

// ResetOpts configures CheckReset.
type ResetOpts struct {
	// WaitWindow is how long the button must stay held.
	WaitWindow time.Duration
	// PollInterval is how often the button is sampled during the window.
	PollInterval time.Duration
	// BlinkInterval is the indicator half-period while waiting for release.
	BlinkInterval time.Duration

	Indicator Indicator
	// Restart is called after the defaults have been written.
	Restart func()
}

// DefaultResetOpts returns the standard timing: a 10 s hold sampled every 100 ms.
func DefaultResetOpts() ResetOpts {
	return ResetOpts{
		WaitWindow:    10 * time.Second,
		PollInterval:  100 * time.Millisecond,
		BlinkInterval: 100 * time.Millisecond,
	}
}

// CheckReset samples the reset button at boot. If it is held for the
// whole wait window the indicator blinks until release, factory defaults
// are written and Restart is called. It reports whether a reset happened.
// A release before the window ends leaves the store untouched.
func (s *Store) CheckReset(ctx context.Context, in ResetInput, opts ResetOpts) (bool, error) {
	def := DefaultResetOpts()
	if opts.WaitWindow <= 0 {
		opts.WaitWindow = def.WaitWindow
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.BlinkInterval <= 0 {
		opts.BlinkInterval = def.BlinkInterval
	}

	if in.Read() != gpio.Low {
		return false, nil
	}
	s.logger.Warn("reset button held, waiting", "window", opts.WaitWindow)

	for waited := time.Duration(0); waited < opts.WaitWindow; waited += opts.PollInterval {
		if err := s.sleep(ctx, opts.PollInterval); err != nil {
			return false, err
		}
		if in.Read() != gpio.Low {
			s.logger.Info("reset button released, reset cancelled")
			return false, nil
		}
	}

	s.logger.Warn("factory reset confirmed, release the button")
	level := gpio.High
	for in.Read() == gpio.Low {
		s.indicate(opts.Indicator, level)
		level = !level
		if err := s.sleep(ctx, opts.BlinkInterval); err != nil {
			s.indicate(opts.Indicator, gpio.Low)
			return false, err
		}
	}
	s.indicate(opts.Indicator, gpio.Low)

	if err := s.WriteDefaults(); err != nil {
		return true, err
	}
	s.logger.Warn("factory reset done, restarting")
	if opts.Restart != nil {
		opts.Restart()
	}
	return true, nil
}

func (s *Store) indicate(ind Indicator, l gpio.Level) {
	if ind == nil {
		return
	}
	if err := ind.Out(l); err != nil {
		s.logger.Debug("indicator", "error", err)
	}
}
