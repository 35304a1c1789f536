// Package camera owns the working camera settings and pushes them to the
// image sensor. Every change is persisted through cfgstore before it is
// applied; captures are delegated to the frame buffer arbiter.
package camera

import (
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-printcam/pkg/cfgstore"
)

// FrameSize is the persisted sensor resolution index.
type FrameSize uint8

const (
	FrameQVGA FrameSize = iota // 320x240
	FrameCIF                   // 352x288
	FrameVGA                   // 640x480
	FrameSVGA                  // 800x600
	FrameXGA                   // 1024x768
	FrameSXGA                  // 1280x1024
	FrameUXGA                  // 1600x1200
)

var frameDims = [...]struct {
	name string
	w, h int
}{
	FrameQVGA: {"QVGA", 320, 240},
	FrameCIF:  {"CIF", 352, 288},
	FrameVGA:  {"VGA", 640, 480},
	FrameSVGA: {"SVGA", 800, 600},
	FrameXGA:  {"XGA", 1024, 768},
	FrameSXGA: {"SXGA", 1280, 1024},
	FrameUXGA: {"UXGA", 1600, 1200},
}

// Valid reports whether f is a known frame size.
func (f FrameSize) Valid() bool { return int(f) < len(frameDims) }

// Dims returns the width and height in pixels. Unknown sizes report QVGA.
func (f FrameSize) Dims() (width, height int) {
	if !f.Valid() {
		f = FrameQVGA
	}
	d := frameDims[f]
	return d.w, d.h
}

func (f FrameSize) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FrameSize(%d)", uint8(f))
	}
	return frameDims[f].name
}

// frameSizeOf converts a persisted value, falling back to QVGA.
func frameSizeOf(v uint8, logger *slog.Logger) FrameSize {
	f := FrameSize(v)
	if !f.Valid() {
		logger.Warn("bad frame size, using default", "value", v, "default", FrameQVGA)
		return FrameQVGA
	}
	return f
}

// Param identifies one sensor register setting.
type Param int

const (
	ParamFrameSize Param = iota
	ParamQuality
	ParamBrightness
	ParamContrast
	ParamSaturation
	ParamSpecialEffect
	ParamWhiteBalance
	ParamAWBGain
	ParamWBMode
	ParamExposureCtrl
	ParamAEC2
	ParamAELevel
	ParamAECValue
	ParamGainCtrl
	ParamAGCGain
	ParamGainCeiling
	ParamBPC
	ParamWPC
	ParamRawGamma
	ParamLensCorrect
	ParamHMirror
	ParamVFlip
	ParamDCW
	ParamColorBar
)

var paramNames = [...]string{
	ParamFrameSize:     "frame_size",
	ParamQuality:       "quality",
	ParamBrightness:    "brightness",
	ParamContrast:      "contrast",
	ParamSaturation:    "saturation",
	ParamSpecialEffect: "special_effect",
	ParamWhiteBalance:  "whitebal",
	ParamAWBGain:       "awb_gain",
	ParamWBMode:        "wb_mode",
	ParamExposureCtrl:  "exposure_ctrl",
	ParamAEC2:          "aec2",
	ParamAELevel:       "ae_level",
	ParamAECValue:      "aec_value",
	ParamGainCtrl:      "gain_ctrl",
	ParamAGCGain:       "agc_gain",
	ParamGainCeiling:   "gainceiling",
	ParamBPC:           "bpc",
	ParamWPC:           "wpc",
	ParamRawGamma:      "raw_gma",
	ParamLensCorrect:   "lenc",
	ParamHMirror:       "hmirror",
	ParamVFlip:         "vflip",
	ParamDCW:           "dcw",
	ParamColorBar:      "colorbar",
}

func (p Param) String() string {
	if p < 0 || int(p) >= len(paramNames) {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return paramNames[p]
}

// Sensor is the image sensor driver.
type Sensor interface {
	Init(size FrameSize, quality uint8) error
	Deinit() error
	Set(p Param, value int) error
}

// Setting is one entry of the ordered sensor configuration.
type Setting struct {
	Param Param
	Value int
}

// Sequence returns the full ordered list of sensor settings for s.
// Parameters with no persisted field are pinned to fixed values.
func Sequence(s cfgstore.CameraSettings) []Setting {
	return []Setting{
		{ParamFrameSize, int(s.FrameSize)},
		{ParamQuality, int(s.PhotoQuality)},
		{ParamBrightness, int(s.Brightness)},
		{ParamContrast, int(s.Contrast)},
		{ParamSaturation, int(s.Saturation)},
		{ParamSpecialEffect, 0},
		{ParamWhiteBalance, b2i(s.AWB)},
		{ParamAWBGain, b2i(s.AWBGain)},
		{ParamWBMode, int(s.WBMode)},
		{ParamExposureCtrl, b2i(s.ExposureCtrl)},
		{ParamAEC2, b2i(s.AEC2)},
		{ParamAELevel, int(s.AELevel)},
		{ParamAECValue, int(s.AECValue)},
		{ParamGainCtrl, b2i(s.GainCtrl)},
		{ParamAGCGain, int(s.AGCGain)},
		{ParamGainCeiling, 0},
		{ParamBPC, b2i(s.BPC)},
		{ParamWPC, b2i(s.WPC)},
		{ParamRawGamma, b2i(s.RawGamma)},
		{ParamLensCorrect, b2i(s.LensCorrect)},
		{ParamHMirror, b2i(s.HMirror)},
		{ParamVFlip, b2i(s.VFlip)},
		{ParamDCW, 1},
		{ParamColorBar, 0},
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Setting ranges.
const (
	MinQuality   = 10 // lower is better JPEG quality
	MaxQuality   = 63
	MinLevel     = -2 // brightness, contrast, saturation, AE level
	MaxLevel     = 2
	MaxWBMode    = 4
	MaxAECValue  = 1200
	MaxAGCGain   = 30
	MaxFlashTime = 10000 // milliseconds
)

// Validate checks the settings are within sensor ranges.
// Returns a list of validation errors, or nil if valid.
func Validate(s cfgstore.CameraSettings) []string {
	var errs []string

	if s.PhotoQuality < MinQuality || s.PhotoQuality > MaxQuality {
		errs = append(errs, "photo_quality must be between 10 and 63")
	}
	if !FrameSize(s.FrameSize).Valid() {
		errs = append(errs, "frame_size must be between 0 and 6")
	}

	levels := []struct {
		name string
		v    int8
	}{
		{"brightness", s.Brightness},
		{"contrast", s.Contrast},
		{"saturation", s.Saturation},
		{"ae_level", s.AELevel},
	}
	for _, l := range levels {
		if l.v < MinLevel || l.v > MaxLevel {
			errs = append(errs, l.name+" must be between -2 and 2")
		}
	}

	if s.WBMode > MaxWBMode {
		errs = append(errs, "wb_mode must be between 0 and 4")
	}
	if s.AECValue > MaxAECValue {
		errs = append(errs, "aec_value must be between 0 and 1200")
	}
	if s.AGCGain > MaxAGCGain {
		errs = append(errs, "agc_gain must be between 0 and 30")
	}
	if s.FlashTime > MaxFlashTime {
		errs = append(errs, "flash_time must be at most 10000 ms")
	}

	return errs
}

// Capabilities describes the supported setting ranges.
func Capabilities() map[string]interface{} {
	sizes := make([]string, len(frameDims))
	for i, d := range frameDims {
		sizes[i] = fmt.Sprintf("%s %dx%d", d.name, d.w, d.h)
	}
	return map[string]interface{}{
		"frame_sizes":   sizes,
		"quality_range": []int{MinQuality, MaxQuality},
		"level_range":   []int{MinLevel, MaxLevel},
		"max_wb_mode":   MaxWBMode,
		"max_aec_value": MaxAECValue,
		"max_agc_gain":  MaxAGCGain,
		"max_flash_ms":  MaxFlashTime,
		"presets":       PresetNames(),
	}
}
