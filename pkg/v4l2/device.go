// Package v4l2 drives a UVC/V4L2 camera through github.com/blackjack/webcam.
// A Device is both the sensor the camera controller configures and the
// frame pool the arbiter draws from.
package v4l2

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/blackjack/webcam"

	"github.com/teslashibe/go-printcam/pkg/camera"
	"github.com/teslashibe/go-printcam/pkg/framebuf"
)

// Sentinel errors for the v4l2 package.
var (
	ErrNoMJPEG      = errors.New("v4l2: device has no MJPEG format")
	ErrNotStreaming = errors.New("v4l2: device not streaming")
	ErrTimeout      = errors.New("v4l2: timed out waiting for frame")
)

// Options configures a Device.
type Options struct {
	Buffers uint32 // driver buffer count
	Timeout uint32 // seconds to wait for a frame
	Logger  *slog.Logger
}

// DefaultOptions returns a single driver buffer, like the original
// single-frame-buffer hardware, and a 5 s frame timeout.
func DefaultOptions() Options {
	return Options{Buffers: 1, Timeout: 5}
}

// Device is an open V4L2 capture device.
type Device struct {
	mu        sync.Mutex
	cam       *webcam.Webcam
	path      string
	format    webcam.PixelFormat
	width     int
	height    int
	buffers   uint32
	timeout   uint32
	streaming bool
	ranges    map[webcam.ControlID]webcam.Control
	logger    *slog.Logger
}

// Open opens the device at path and selects its MJPEG format. The device
// does not stream until Init.
func Open(path string, opts *Options) (*Device, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.Buffers == 0 {
		o.Buffers = 1
	}
	if o.Timeout == 0 {
		o.Timeout = 5
	}

	cam, err := webcam.Open(path)
	if err != nil {
		return nil, fmt.Errorf("v4l2: open %s: %w", path, err)
	}

	d := &Device{
		cam:     cam,
		path:    path,
		buffers: o.Buffers,
		timeout: o.Timeout,
		logger:  slog.Default().With("component", "v4l2"),
	}
	if o.Logger != nil {
		d.logger = o.Logger.With("component", "v4l2")
	}

	found := false
	for f, desc := range cam.GetSupportedFormats() {
		if strings.Contains(strings.ToUpper(desc), "JPEG") {
			d.format, found = f, true
			break
		}
	}
	if !found {
		cam.Close()
		return nil, fmt.Errorf("%w: %s", ErrNoMJPEG, path)
	}
	d.ranges = cam.GetControls()
	d.logger.Info("camera opened", "path", path, "controls", len(d.ranges))
	return d, nil
}

// Init sets the resolution and quality and starts streaming.
func (d *Device) Init(size camera.FrameSize, quality uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, h := size.Dims()
	_, gw, gh, err := d.cam.SetImageFormat(d.format, uint32(w), uint32(h))
	if err != nil {
		return fmt.Errorf("v4l2: set format %dx%d: %w", w, h, err)
	}
	d.width, d.height = int(gw), int(gh)
	if d.width != w || d.height != h {
		d.logger.Warn("driver adjusted frame size", "want", size.String(), "width", d.width, "height", d.height)
	}

	if err := d.cam.SetBufferCount(d.buffers); err != nil {
		return fmt.Errorf("v4l2: buffer count: %w", err)
	}
	if err := d.setLocked(camera.ParamQuality, int(quality)); err != nil {
		d.logger.Debug("jpeg quality not settable", "error", err)
	}
	if err := d.cam.StartStreaming(); err != nil {
		return fmt.Errorf("v4l2: start streaming: %w", err)
	}
	d.streaming = true
	return nil
}

// Deinit stops streaming.
func (d *Device) Deinit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.streaming {
		return nil
	}
	d.streaming = false
	if err := d.cam.StopStreaming(); err != nil {
		return fmt.Errorf("v4l2: stop streaming: %w", err)
	}
	return nil
}

// Set writes one sensor parameter. Parameters without a V4L2 control
// are accepted and ignored.
func (d *Device) Set(p camera.Param, value int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.setLocked(p, value)
}

func (d *Device) setLocked(p camera.Param, value int) error {
	m, ok := controls[p]
	if !ok {
		d.logger.Debug("no control for parameter", "param", p)
		return nil
	}
	r, ok := d.ranges[m.id]
	if !ok {
		d.logger.Debug("control not supported by device", "param", p)
		return nil
	}
	v := m.conv(value, r.Min, r.Max)
	if err := d.cam.SetControl(m.id, v); err != nil {
		return fmt.Errorf("v4l2: set %s=%d: %w", p, v, err)
	}
	return nil
}

// Get waits for the next frame. The frame data is the driver buffer and
// stays valid until Return.
func (d *Device) Get() (*framebuf.Frame, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.streaming {
		return nil, ErrNotStreaming
	}
	err := d.cam.WaitForFrame(d.timeout)
	switch err.(type) {
	case nil:
	case *webcam.Timeout:
		return nil, ErrTimeout
	default:
		return nil, fmt.Errorf("v4l2: wait: %w", err)
	}

	data, index, err := d.cam.GetFrame()
	if err != nil {
		return nil, fmt.Errorf("v4l2: get frame: %w", err)
	}
	return &framebuf.Frame{
		Data:      data,
		Width:     d.width,
		Height:    d.height,
		Timestamp: time.Now(),
		Handle:    index,
	}, nil
}

// Return hands the driver buffer back.
func (d *Device) Return(f *framebuf.Frame) {
	index, ok := f.Handle.(uint32)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.cam.ReleaseFrame(index); err != nil {
		d.logger.Warn("release frame failed", "index", index, "error", err)
	}
	f.Handle = nil
}

// Close stops streaming and closes the device.
func (d *Device) Close() error {
	if err := d.Deinit(); err != nil {
		d.logger.Warn("deinit on close", "error", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cam.Close()
}

func (d *Device) String() string { return "v4l2(" + d.path + ")" }
