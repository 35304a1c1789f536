package camera

import "github.com/teslashibe/go-printcam/pkg/cfgstore"

// Preset names for common configurations
const (
	PresetDefault  = "default"
	PresetPreview  = "preview"
	PresetHD       = "hd"
	PresetMax      = "max"
	PresetNight    = "night"
	PresetBright   = "bright"
	PresetInverted = "inverted"
)

// Presets returns all available preset settings.
func Presets() map[string]cfgstore.CameraSettings {
	return map[string]cfgstore.CameraSettings{
		PresetDefault:  cfgstore.DefaultCameraSettings(),
		PresetPreview:  PreviewSettings(),
		PresetHD:       HDSettings(),
		PresetMax:      MaxSettings(),
		PresetNight:    NightSettings(),
		PresetBright:   BrightSettings(),
		PresetInverted: InvertedSettings(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		PresetPreview,
		PresetHD,
		PresetMax,
		PresetNight,
		PresetBright,
		PresetInverted,
	}
}

// GetPreset returns a preset by name, or nil if not found.
func GetPreset(name string) *cfgstore.CameraSettings {
	if s, ok := Presets()[name]; ok {
		return &s
	}
	return nil
}

// PreviewSettings is a small, fast frame for live view.
func PreviewSettings() cfgstore.CameraSettings {
	s := cfgstore.DefaultCameraSettings()
	s.FrameSize = uint8(FrameVGA)
	s.PhotoQuality = 20
	return s
}

// HDSettings returns SXGA at good quality.
func HDSettings() cfgstore.CameraSettings {
	s := cfgstore.DefaultCameraSettings()
	s.FrameSize = uint8(FrameSXGA)
	s.PhotoQuality = 12
	return s
}

// MaxSettings returns the full sensor resolution at the best quality.
// Frames are large; expect a lower stream rate.
func MaxSettings() cfgstore.CameraSettings {
	s := cfgstore.DefaultCameraSettings()
	s.FrameSize = uint8(FrameUXGA)
	s.PhotoQuality = MinQuality
	return s
}

// NightSettings favours exposure over noise for a dark enclosure.
func NightSettings() cfgstore.CameraSettings {
	s := cfgstore.DefaultCameraSettings()
	s.AEC2 = true
	s.AELevel = 2
	s.Brightness = 1
	s.AGCGain = MaxAGCGain
	s.FlashEnable = true
	return s
}

// BrightSettings keeps highlights under a strong enclosure light.
func BrightSettings() cfgstore.CameraSettings {
	s := cfgstore.DefaultCameraSettings()
	s.AELevel = -1
	s.Brightness = -1
	return s
}

// InvertedSettings is for a camera mounted upside down.
func InvertedSettings() cfgstore.CameraSettings {
	s := cfgstore.DefaultCameraSettings()
	s.HMirror = true
	s.VFlip = true
	return s
}
