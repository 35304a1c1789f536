// Package sim is a software stand-in for the camera hardware. A Device
// renders synthetic JPEG frames and records the sensor settings pushed to
// it, so the firmware runs and tests without a camera attached.
package sim

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-printcam/pkg/camera"
	"github.com/teslashibe/go-printcam/pkg/framebuf"
)

// Sentinel errors for the sim package.
var (
	ErrNotStarted = errors.New("sim: sensor not initialized")
	ErrBusy       = errors.New("sim: frame buffer already handed out")
	ErrInitFailed = errors.New("sim: injected init failure")
)

// Corruption selects how a frame is damaged.
type Corruption int

const (
	Intact Corruption = iota
	Truncated      // shorter than framebuf.MinFrameLen
	BadControlByte // control byte not clear
)

// Options configures a Device.
type Options struct {
	// Corrupt decides the damage for the n-th frame (from 1). Nil means
	// every frame is intact.
	Corrupt func(n int) Corruption

	// FailInit makes every Init call fail.
	FailInit bool

	Logger *slog.Logger
}

// CorruptEvery damages every k-th frame by flipping its control byte.
func CorruptEvery(k int) func(n int) Corruption {
	return func(n int) Corruption {
		if k > 0 && n%k == 0 {
			return BadControlByte
		}
		return Intact
	}
}

// Device is a simulated sensor with a single frame buffer.
type Device struct {
	mu      sync.Mutex
	opts    Options
	started bool
	size    camera.FrameSize
	quality uint8
	params  map[camera.Param]int
	frames  int
	out     bool
	inits   int
	deinits int
	logger  *slog.Logger
}

// New returns a simulated device. opts may be nil.
func New(opts *Options) *Device {
	d := &Device{
		params: make(map[camera.Param]int),
		logger: slog.Default().With("component", "sim"),
	}
	if opts != nil {
		d.opts = *opts
		if opts.Logger != nil {
			d.logger = opts.Logger.With("component", "sim")
		}
	}
	return d
}

func (d *Device) Init(size camera.FrameSize, quality uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inits++
	if d.opts.FailInit {
		return ErrInitFailed
	}
	d.size, d.quality, d.started = size, quality, true
	d.logger.Debug("sensor init", "frame_size", size, "quality", quality)
	return nil
}

func (d *Device) Deinit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deinits++
	d.started = false
	return nil
}

func (d *Device) Set(p camera.Param, value int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return ErrNotStarted
	}
	d.params[p] = value
	if p == camera.ParamQuality {
		d.quality = uint8(value)
	}
	return nil
}

// Param returns the last value set for p.
func (d *Device) Param(p camera.Param) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.params[p]
	return v, ok
}

// Stats reports how often the sensor was started and stopped.
func (d *Device) Stats() (inits, deinits int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inits, d.deinits
}

// Get renders the next frame. Only one frame can be out at a time.
func (d *Device) Get() (*framebuf.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil, ErrNotStarted
	}
	if d.out {
		return nil, ErrBusy
	}
	d.frames++
	w, h := d.size.Dims()

	data, err := render(w, h, d.frames, d.quality)
	if err != nil {
		return nil, err
	}
	if d.opts.Corrupt != nil {
		switch d.opts.Corrupt(d.frames) {
		case Truncated:
			data = data[:framebuf.MinFrameLen/2]
		case BadControlByte:
			data[framebuf.ControlByteOffset] = 0xFF
		}
	}

	d.out = true
	return &framebuf.Frame{
		Data:      data,
		Width:     w,
		Height:    h,
		Timestamp: time.Now(),
		Handle:    d.frames,
	}, nil
}

func (d *Device) Return(f *framebuf.Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out = false
	f.Handle = nil
}

// render draws a moving gradient and encodes it as JFIF.
func render(w, h, n int, quality uint8) ([]byte, error) {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x + y + n*4)})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return nil, fmt.Errorf("sim: encode: %w", err)
	}
	return withJFIF(buf.Bytes()), nil
}

// jpegQuality maps the 10..63 lower-is-better scale to image/jpeg's 1..100.
func jpegQuality(q uint8) int {
	v := 100 - (int(q)-camera.MinQuality)*90/(camera.MaxQuality-camera.MinQuality)
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

// jfifAPP0 is a JFIF 1.01 header with a 1:1 aspect ratio of 256:256.
// Its density low byte lands at offset 15 of the file, which is zero in a
// well-formed frame.
var jfifAPP0 = []byte{
	0xFF, 0xE0, 0x00, 0x10,
	'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01, // version
	0x00,       // units: aspect ratio only
	0x01, 0x00, // X density
	0x01, 0x00, // Y density
	0x00, 0x00, // no thumbnail
}

// withJFIF inserts the APP0 segment after SOI. image/jpeg writes none.
func withJFIF(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(jfifAPP0))
	out = append(out, b[:2]...)
	out = append(out, jfifAPP0...)
	return append(out, b[2:]...)
}
