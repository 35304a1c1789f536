package camera

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-printcam/pkg/cfgstore"
	"github.com/teslashibe/go-printcam/pkg/framebuf"
)

// Sentinel errors for the camera package.
var (
	// ErrSensorInit indicates the sensor failed to start. The device is
	// restarted when this happens.
	ErrSensorInit = errors.New("camera: sensor init failed")

	// ErrInvalidSetting indicates a value outside its allowed range.
	ErrInvalidSetting = errors.New("camera: invalid setting")
)

// Options configures a Controller.
type Options struct {
	Logger *slog.Logger

	// Restart is called when the sensor cannot be initialized.
	Restart func()

	// OnLogLevel is called when the persisted log level changes.
	OnLogLevel func(level cfgstore.LogLevel)
}

// Controller holds the working camera settings, persists every change
// and re-applies the full sensor configuration after it.
type Controller struct {
	mu       sync.Mutex
	settings cfgstore.CameraSettings

	store  *cfgstore.Store
	arb    *framebuf.Arbiter
	sensor Sensor

	restart    func()
	onLogLevel func(cfgstore.LogLevel)
	logger     *slog.Logger
}

// NewController wires a controller. opts may be nil.
func NewController(store *cfgstore.Store, arb *framebuf.Arbiter, sensor Sensor, opts *Options) *Controller {
	c := &Controller{
		store:  store,
		arb:    arb,
		sensor: sensor,
		logger: slog.Default().With("component", "camera"),
	}
	if opts != nil {
		if opts.Logger != nil {
			c.logger = opts.Logger.With("component", "camera")
		}
		c.restart = opts.Restart
		c.onLogLevel = opts.OnLogLevel
	}
	return c
}

// Init loads the persisted settings, starts the sensor and applies them.
func (c *Controller) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("loading camera settings")
	c.settings = c.store.LoadCameraSettings()
	if err := c.startSensor(); err != nil {
		return err
	}
	return c.apply()
}

// startSensor calls Init on the sensor. Failure is fatal.
func (c *Controller) startSensor() error {
	size := frameSizeOf(c.settings.FrameSize, c.logger)
	if err := c.sensor.Init(size, c.settings.PhotoQuality); err != nil {
		c.logger.Error("sensor init failed, restarting", "error", err)
		if c.restart != nil {
			c.restart()
		}
		return fmt.Errorf("%w: %w", ErrSensorInit, err)
	}
	c.logger.Info("sensor started", "frame_size", size, "quality", c.settings.PhotoQuality)
	return nil
}

func (c *Controller) reinit() error {
	if err := c.sensor.Deinit(); err != nil {
		c.logger.Warn("sensor deinit failed", "error", err)
	}
	if err := c.startSensor(); err != nil {
		return err
	}
	return c.apply()
}

// apply pushes the whole ordered configuration. A failed parameter does
// not stop the rest.
func (c *Controller) apply() error {
	c.logger.Info("applying camera settings")
	var errs []error
	for _, s := range Sequence(c.settings) {
		if err := c.sensor.Set(s.Param, s.Value); err != nil {
			c.logger.Warn("sensor rejected setting", "param", s.Param, "value", s.Value, "error", err)
			errs = append(errs, fmt.Errorf("camera: set %s: %w", s.Param, err))
		}
	}
	return errors.Join(errs...)
}

type applyMode int

const (
	applyNone applyMode = iota
	applySettings
	applyReinit
)

// commit persists one change, updates the working copy and re-applies.
// The working copy is untouched when the save fails.
func (c *Controller) commit(save func() error, mutate func(*cfgstore.CameraSettings), mode applyMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := save(); err != nil {
		return err
	}
	mutate(&c.settings)

	switch mode {
	case applySettings:
		return c.apply()
	case applyReinit:
		return c.reinit()
	}
	return nil
}

func checkRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrInvalidSetting, name, v, lo, hi)
	}
	return nil
}

// SetPhotoQuality changes the JPEG quality and restarts the sensor.
func (c *Controller) SetPhotoQuality(v uint8) error {
	if err := checkRange("photo_quality", int(v), MinQuality, MaxQuality); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SavePhotoQuality(v) },
		func(s *cfgstore.CameraSettings) { s.PhotoQuality = v }, applyReinit)
}

// SetFrameSize changes the resolution and restarts the sensor.
func (c *Controller) SetFrameSize(v FrameSize) error {
	if !v.Valid() {
		return fmt.Errorf("%w: frame size %d", ErrInvalidSetting, uint8(v))
	}
	return c.commit(func() error { return c.store.SaveFrameSize(uint8(v)) },
		func(s *cfgstore.CameraSettings) { s.FrameSize = uint8(v) }, applyReinit)
}

func (c *Controller) SetBrightness(v int8) error {
	if err := checkRange("brightness", int(v), MinLevel, MaxLevel); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveBrightness(v) },
		func(s *cfgstore.CameraSettings) { s.Brightness = v }, applySettings)
}

func (c *Controller) SetContrast(v int8) error {
	if err := checkRange("contrast", int(v), MinLevel, MaxLevel); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveContrast(v) },
		func(s *cfgstore.CameraSettings) { s.Contrast = v }, applySettings)
}

func (c *Controller) SetSaturation(v int8) error {
	if err := checkRange("saturation", int(v), MinLevel, MaxLevel); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveSaturation(v) },
		func(s *cfgstore.CameraSettings) { s.Saturation = v }, applySettings)
}

// SetAWB toggles automatic white balance.
func (c *Controller) SetAWB(v bool) error {
	return c.commit(func() error { return c.store.SaveAWB(v) },
		func(s *cfgstore.CameraSettings) { s.AWB = v }, applySettings)
}

func (c *Controller) SetAWBGain(v bool) error {
	return c.commit(func() error { return c.store.SaveAWBGain(v) },
		func(s *cfgstore.CameraSettings) { s.AWBGain = v }, applySettings)
}

// SetWBMode selects the white balance preset: 0 auto, 1 sunny, 2 cloudy,
// 3 office, 4 home. Only used with AWB gain enabled.
func (c *Controller) SetWBMode(v uint8) error {
	if err := checkRange("wb_mode", int(v), 0, MaxWBMode); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveAWBMode(v) },
		func(s *cfgstore.CameraSettings) { s.WBMode = v }, applySettings)
}

func (c *Controller) SetExposureCtrl(v bool) error {
	return c.commit(func() error { return c.store.SaveExposureCtrl(v) },
		func(s *cfgstore.CameraSettings) { s.ExposureCtrl = v }, applySettings)
}

func (c *Controller) SetAEC2(v bool) error {
	return c.commit(func() error { return c.store.SaveAEC2(v) },
		func(s *cfgstore.CameraSettings) { s.AEC2 = v }, applySettings)
}

func (c *Controller) SetAELevel(v int8) error {
	if err := checkRange("ae_level", int(v), MinLevel, MaxLevel); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveAELevel(v) },
		func(s *cfgstore.CameraSettings) { s.AELevel = v }, applySettings)
}

// SetAECValue sets the manual exposure time.
func (c *Controller) SetAECValue(v uint16) error {
	if err := checkRange("aec_value", int(v), 0, MaxAECValue); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveAECValue(v) },
		func(s *cfgstore.CameraSettings) { s.AECValue = v }, applySettings)
}

func (c *Controller) SetGainCtrl(v bool) error {
	return c.commit(func() error { return c.store.SaveGainCtrl(v) },
		func(s *cfgstore.CameraSettings) { s.GainCtrl = v }, applySettings)
}

func (c *Controller) SetAGCGain(v uint8) error {
	if err := checkRange("agc_gain", int(v), 0, MaxAGCGain); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveAGCGain(v) },
		func(s *cfgstore.CameraSettings) { s.AGCGain = v }, applySettings)
}

func (c *Controller) SetBPC(v bool) error {
	return c.commit(func() error { return c.store.SaveBPC(v) },
		func(s *cfgstore.CameraSettings) { s.BPC = v }, applySettings)
}

func (c *Controller) SetWPC(v bool) error {
	return c.commit(func() error { return c.store.SaveWPC(v) },
		func(s *cfgstore.CameraSettings) { s.WPC = v }, applySettings)
}

func (c *Controller) SetRawGamma(v bool) error {
	return c.commit(func() error { return c.store.SaveRawGamma(v) },
		func(s *cfgstore.CameraSettings) { s.RawGamma = v }, applySettings)
}

func (c *Controller) SetLensCorrect(v bool) error {
	return c.commit(func() error { return c.store.SaveLensCorrect(v) },
		func(s *cfgstore.CameraSettings) { s.LensCorrect = v }, applySettings)
}

func (c *Controller) SetHMirror(v bool) error {
	return c.commit(func() error { return c.store.SaveHMirror(v) },
		func(s *cfgstore.CameraSettings) { s.HMirror = v }, applySettings)
}

func (c *Controller) SetVFlip(v bool) error {
	return c.commit(func() error { return c.store.SaveVFlip(v) },
		func(s *cfgstore.CameraSettings) { s.VFlip = v }, applySettings)
}

// SetFlashEnable is persisted only; the flash is used on the next photo.
func (c *Controller) SetFlashEnable(v bool) error {
	return c.commit(func() error { return c.store.SaveFlashEnable(v) },
		func(s *cfgstore.CameraSettings) { s.FlashEnable = v }, applyNone)
}

// SetFlashTime sets the lead and trail time in milliseconds.
func (c *Controller) SetFlashTime(ms uint16) error {
	if err := checkRange("flash_time", int(ms), 0, MaxFlashTime); err != nil {
		return err
	}
	return c.commit(func() error { return c.store.SaveFlashTime(ms) },
		func(s *cfgstore.CameraSettings) { s.FlashTime = ms }, applyNone)
}

// Settings returns a copy of the working settings.
func (c *Controller) Settings() cfgstore.CameraSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// FrameSizeDims returns the current resolution in pixels.
func (c *Controller) FrameSizeDims() (width, height int) {
	return FrameSize(c.Settings().FrameSize).Dims()
}

// Update applies several settings at once, keyed by JSON name. A "preset"
// key replaces the whole set before the other keys are applied. Nothing
// is written unless every value validates.
func (c *Controller) Update(params map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings
	if v, ok := params["preset"]; ok {
		name, _ := v.(string)
		preset := GetPreset(name)
		if preset == nil {
			return fmt.Errorf("%w: unknown preset %q", ErrInvalidSetting, name)
		}
		next = *preset
	}

	var bad []string
	for key, value := range params {
		// frame_width and frame_height are derived from frame_size.
		if key == "preset" || key == "frame_width" || key == "frame_height" {
			continue
		}
		if err := setByName(&next, key, value); err != nil {
			bad = append(bad, err.Error())
		}
	}
	bad = append(bad, Validate(next)...)
	if len(bad) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, bad)
	}
	if next == c.settings {
		return nil
	}

	if err := c.store.SaveCameraSettings(next); err != nil {
		return err
	}
	prev := c.settings
	c.settings = next

	if prev.PhotoQuality != next.PhotoQuality || prev.FrameSize != next.FrameSize {
		return c.reinit()
	}
	return c.apply()
}

func setByName(s *cfgstore.CameraSettings, key string, value interface{}) error {
	switch key {
	case "photo_quality", "frame_size", "brightness", "contrast", "saturation",
		"wb_mode", "ae_level", "aec_value", "agc_gain", "flash_time":
		v, ok := toInt(value)
		if !ok {
			return fmt.Errorf("%s must be a number", key)
		}
		return setInt(s, key, v)
	}

	v, ok := toBool(value)
	if !ok {
		return fmt.Errorf("%s: unknown setting or not a boolean", key)
	}
	switch key {
	case "awb":
		s.AWB = v
	case "awb_gain":
		s.AWBGain = v
	case "exposure_ctrl":
		s.ExposureCtrl = v
	case "aec2":
		s.AEC2 = v
	case "gain_ctrl":
		s.GainCtrl = v
	case "bpc":
		s.BPC = v
	case "wpc":
		s.WPC = v
	case "raw_gamma":
		s.RawGamma = v
	case "lens_correct":
		s.LensCorrect = v
	case "hmirror":
		s.HMirror = v
	case "vflip":
		s.VFlip = v
	case "flash_enable":
		s.FlashEnable = v
	default:
		return fmt.Errorf("%s: unknown setting", key)
	}
	return nil
}

// setInt stores v after a coarse bounds check for the field type; the
// real ranges are checked by Validate.
func setInt(s *cfgstore.CameraSettings, key string, v int) error {
	switch key {
	case "brightness", "contrast", "saturation", "ae_level":
		if v < -128 || v > 127 {
			return fmt.Errorf("%s out of range", key)
		}
	case "aec_value", "flash_time":
		if v < 0 || v > 0xFFFF {
			return fmt.Errorf("%s out of range", key)
		}
	default:
		if v < 0 || v > 0xFF {
			return fmt.Errorf("%s out of range", key)
		}
	}

	switch key {
	case "photo_quality":
		s.PhotoQuality = uint8(v)
	case "frame_size":
		s.FrameSize = uint8(v)
	case "brightness":
		s.Brightness = int8(v)
	case "contrast":
		s.Contrast = int8(v)
	case "saturation":
		s.Saturation = int8(v)
	case "wb_mode":
		s.WBMode = uint8(v)
	case "ae_level":
		s.AELevel = int8(v)
	case "aec_value":
		s.AECValue = uint16(v)
	case "agc_gain":
		s.AGCGain = uint8(v)
	case "flash_time":
		s.FlashTime = uint16(v)
	}
	return nil
}

// SettingsMap returns the current settings as a map for JSON serialization.
func (c *Controller) SettingsMap() map[string]interface{} {
	s := c.Settings()

	data, _ := json.Marshal(s)
	var result map[string]interface{}
	json.Unmarshal(data, &result)

	w, h := FrameSize(s.FrameSize).Dims()
	result["frame_width"] = w
	result["frame_height"] = h
	return result
}

// Helper functions for type conversion

func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val != float64(int(val)) {
			return 0, false
		}
		return int(val), true
	case json.Number:
		i, err := val.Int64()
		if err == nil {
			return int(i), true
		}
	}
	return 0, false
}

func toBool(v interface{}) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case int, int64, float64, json.Number:
		i, ok := toInt(val)
		if !ok || (i != 0 && i != 1) {
			return false, false
		}
		return i == 1, true
	}
	return false, false
}

// CapturePhoto takes a photo with the persisted flash settings. The
// caller must Release the lease.
func (c *Controller) CapturePhoto() (*framebuf.Lease, error) {
	s := c.Settings()
	return c.arb.CapturePhoto(framebuf.PhotoOptions{
		Flash:     s.FlashEnable,
		FlashTime: time.Duration(s.FlashTime) * time.Millisecond,
	})
}

// WithPhoto captures a photo and hands it to fn, always releasing it.
func (c *Controller) WithPhoto(fn func(*framebuf.Frame) error) error {
	l, err := c.CapturePhoto()
	if err != nil {
		return err
	}
	defer l.Release()
	return fn(l.Frame())
}

func (c *Controller) CaptureStream(out *framebuf.Frame) error { return c.arb.CaptureStream(out) }

func (c *Controller) SetStreaming(on bool) { c.arb.SetStreaming(on) }

func (c *Controller) Streaming() bool { return c.arb.Streaming() }

// StreamStats returns running averages for the stream path.
func (c *Controller) StreamStats() *framebuf.Stats { return c.arb.Stats() }

func (c *Controller) Counters() framebuf.Counters { return c.arb.Counters() }
