package framebuf

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the framebuf package.
var (
	// ErrStreaming indicates a photo was requested while the stream is active.
	ErrStreaming = errors.New("framebuf: stream active")

	// ErrNoFrame indicates the pool had no buffer to give.
	ErrNoFrame = errors.New("framebuf: no frame available")

	// ErrPersistentCorruption indicates every attempt in the retry budget
	// produced a corrupt frame.
	ErrPersistentCorruption = errors.New("framebuf: frames persistently corrupt")

	errNilBuffer = errors.New("framebuf: pool returned a nil buffer")
)

// Pool hands out hardware frame buffers. Get returns an error only when
// no buffer could be obtained at all.
type Pool interface {
	Get() (*Frame, error)
	Return(f *Frame)
}

// Flash switches the capture illumination.
type Flash interface {
	Set(on bool) error
}

// State is the arbiter's position in the capture cycle.
type State int32

const (
	StateIdle State = iota
	StateAcquiring
	StateValidating
	StateHeld
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateValidating:
		return "validating"
	case StateHeld:
		return "held"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options configures an Arbiter.
type Options struct {
	// MaxAttempts bounds the validate/retry loop. Zero or negative retries
	// until a valid frame or a pool error.
	MaxAttempts int
	Flash       Flash
	Logger      *slog.Logger
}

// DefaultOptions returns options with a retry budget of 20 frames.
func DefaultOptions() Options {
	return Options{MaxAttempts: 20}
}

// PhotoOptions controls a single photo capture.
type PhotoOptions struct {
	Flash     bool
	FlashTime time.Duration // lead and trail time around the capture
}

// Counters is a snapshot of capture activity.
type Counters struct {
	Photos       uint64
	StreamFrames uint64
	Retries      uint64 // corrupt frames discarded
	Failures     uint64
}

// Arbiter owns the single frame buffer lock. At most one frame is out of
// the pool at a time, held by whoever holds the lock.
type Arbiter struct {
	mu sync.Mutex // frame buffer lock

	pool        Pool
	flash       Flash
	maxAttempts int
	logger      *slog.Logger
	sleep       func(time.Duration)

	streaming atomic.Bool
	state     atomic.Int32

	photos       atomic.Uint64
	streamFrames atomic.Uint64
	retries      atomic.Uint64
	failures     atomic.Uint64

	stats Stats
}

// NewArbiter returns an Arbiter over pool. A nil opts uses DefaultOptions.
func NewArbiter(pool Pool, opts *Options) *Arbiter {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	a := &Arbiter{
		pool:        pool,
		flash:       o.Flash,
		maxAttempts: o.MaxAttempts,
		logger:      slog.Default().With("component", "framebuf"),
		sleep:       time.Sleep,
	}
	if o.Logger != nil {
		a.logger = o.Logger.With("component", "framebuf")
	}
	return a
}

// CapturePhoto takes a single photo. It fails with ErrStreaming while the
// stream is active, otherwise it blocks until the frame buffer is free.
// On success the returned Lease keeps the buffer and the lock until
// Release.
func (a *Arbiter) CapturePhoto(opts PhotoOptions) (*Lease, error) {
	if a.Streaming() {
		return nil, ErrStreaming
	}

	a.mu.Lock()
	useFlash := opts.Flash && a.flash != nil
	if useFlash {
		a.setFlash(true)
		a.sleep(opts.FlashTime)
	}

	// The first frame after idle is stale; drop it.
	if warm, err := a.get(); err != nil {
		a.logger.Warn("warm-up frame unavailable", "error", err)
	} else {
		a.pool.Return(warm)
	}

	f, err := a.acquire()
	if err != nil {
		if useFlash {
			a.setFlash(false)
		}
		a.failures.Add(1)
		a.unlock()
		a.logger.Error("photo capture failed", "error", err)
		return nil, err
	}

	if useFlash {
		a.sleep(opts.FlashTime)
		a.setFlash(false)
	}
	a.photos.Add(1)
	a.state.Store(int32(StateHeld))
	a.logger.Debug("photo captured", "id", f.ID, "len", f.Len())
	return &Lease{a: a, frame: f}, nil
}

// WithPhoto captures a photo, passes it to fn and always releases it.
// The frame must not be retained after fn returns.
func (a *Arbiter) WithPhoto(opts PhotoOptions, fn func(*Frame) error) error {
	l, err := a.CapturePhoto(opts)
	if err != nil {
		return err
	}
	defer l.Release()
	return fn(l.Frame())
}

// CaptureStream copies one validated frame into out and releases the
// buffer before returning. On failure out is reset.
func (a *Arbiter) CaptureStream(out *Frame) error {
	a.mu.Lock()
	defer a.unlock()

	f, err := a.acquire()
	if err != nil {
		a.failures.Add(1)
		out.Reset()
		return err
	}
	f.CopyTo(out)
	a.pool.Return(f)

	a.streamFrames.Add(1)
	a.stats.RecordFrameSize(out.Len())
	return nil
}

// acquire runs the validate/retry loop. Callers hold a.mu.
func (a *Arbiter) acquire() (*Frame, error) {
	for attempt := 1; ; attempt++ {
		a.state.Store(int32(StateAcquiring))
		f, err := a.get()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoFrame, err)
		}

		a.state.Store(int32(StateValidating))
		if f.Valid() {
			f.ID = uuid.New()
			if f.Timestamp.IsZero() {
				f.Timestamp = time.Now()
			}
			return f, nil
		}

		a.retries.Add(1)
		a.logger.Debug("discarding corrupt frame",
			"len", f.Len(), "control", f.ControlByte(), "attempt", attempt)
		a.pool.Return(f)

		if a.maxAttempts > 0 && attempt >= a.maxAttempts {
			return nil, fmt.Errorf("%w after %d attempts", ErrPersistentCorruption, attempt)
		}
	}
}

// get fetches a buffer; a nil buffer counts as an empty pool.
func (a *Arbiter) get() (*Frame, error) {
	f, err := a.pool.Get()
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errNilBuffer
	}
	return f, nil
}

func (a *Arbiter) unlock() {
	a.state.Store(int32(StateIdle))
	a.mu.Unlock()
}

func (a *Arbiter) setFlash(on bool) {
	if err := a.flash.Set(on); err != nil {
		a.logger.Warn("flash switch failed", "on", on, "error", err)
	}
}

// SetStreaming marks the stream path active or inactive. Photos are
// refused while it is set.
func (a *Arbiter) SetStreaming(on bool) {
	if a.streaming.Swap(on) == on {
		return
	}
	if on {
		a.stats.Reset()
		a.logger.Info("stream started")
	} else {
		a.logger.Info("stream stopped")
	}
}

func (a *Arbiter) Streaming() bool { return a.streaming.Load() }

// State returns the current capture state for diagnostics.
func (a *Arbiter) State() State { return State(a.state.Load()) }

// Stats returns the stream statistics.
func (a *Arbiter) Stats() *Stats { return &a.stats }

func (a *Arbiter) Counters() Counters {
	return Counters{
		Photos:       a.photos.Load(),
		StreamFrames: a.streamFrames.Load(),
		Retries:      a.retries.Load(),
		Failures:     a.failures.Load(),
	}
}

// Lease is a held photo. It keeps the frame buffer and the arbiter lock
// until Release.
type Lease struct {
	a     *Arbiter
	frame *Frame
	once  sync.Once
}

// Frame returns the captured frame. It is invalid after Release.
func (l *Lease) Frame() *Frame { return l.frame }

// Release returns the buffer to the pool and frees the lock. Only the
// first call has an effect.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.a.pool.Return(l.frame)
		l.a.unlock()
	})
}
