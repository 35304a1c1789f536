package v4l2

import (
	"github.com/blackjack/webcam"

	"github.com/teslashibe/go-printcam/pkg/camera"
)

// V4L2 control IDs (linux/v4l2-controls.h).
const (
	cidBase       webcam.ControlID = 0x00980900
	cidBrightness                  = cidBase + 0
	cidContrast                    = cidBase + 1
	cidSaturation                  = cidBase + 2
	cidAutoWB                      = cidBase + 12
	cidAutogain                    = cidBase + 18
	cidGain                        = cidBase + 19
	cidHFlip                       = cidBase + 20
	cidVFlip                       = cidBase + 21

	cidExposureAuto webcam.ControlID = 0x009a0901
	cidExposureAbs  webcam.ControlID = 0x009a0902
	cidJPEGQuality  webcam.ControlID = 0x009d0903
)

// V4L2_CID_EXPOSURE_AUTO menu values.
const (
	exposureManual   = 1
	exposureAperture = 3
)

// conv maps a setting value into a control's [min, max] range.
type conv func(v int, min, max int32) int32

type mapping struct {
	id   webcam.ControlID
	conv conv
}

// controls maps sensor parameters onto V4L2 controls. Parameters not
// listed have no UVC equivalent and are ignored.
var controls = map[camera.Param]mapping{
	camera.ParamQuality:      {cidJPEGQuality, quality},
	camera.ParamBrightness:   {cidBrightness, level},
	camera.ParamContrast:     {cidContrast, level},
	camera.ParamSaturation:   {cidSaturation, level},
	camera.ParamWhiteBalance: {cidAutoWB, direct},
	camera.ParamExposureCtrl: {cidExposureAuto, exposureMode},
	camera.ParamAECValue:     {cidExposureAbs, scale(0, camera.MaxAECValue)},
	camera.ParamGainCtrl:     {cidAutogain, direct},
	camera.ParamAGCGain:      {cidGain, scale(0, camera.MaxAGCGain)},
	camera.ParamHMirror:      {cidHFlip, direct},
	camera.ParamVFlip:        {cidVFlip, direct},
}

func direct(v int, _, _ int32) int32 { return int32(v) }

// quality turns the 10..63 lower-is-better scale into a 0..100 JPEG quality.
func quality(v int, _, _ int32) int32 {
	if v < camera.MinQuality {
		v = camera.MinQuality
	}
	if v > camera.MaxQuality {
		v = camera.MaxQuality
	}
	span := camera.MaxQuality - camera.MinQuality
	return int32(100 - (v-camera.MinQuality)*90/span)
}

func level(v int, min, max int32) int32 {
	return scale(camera.MinLevel, camera.MaxLevel)(v, min, max)
}

func exposureMode(v int, _, _ int32) int32 {
	if v != 0 {
		return exposureAperture
	}
	return exposureManual
}

// scale returns a conv mapping [lo, hi] linearly onto the control range.
func scale(lo, hi int) conv {
	return func(v int, min, max int32) int32 {
		if v < lo {
			v = lo
		}
		if v > hi {
			v = hi
		}
		if max <= min {
			return min
		}
		return min + int32(int64(v-lo)*int64(max-min)/int64(hi-lo))
	}
}
