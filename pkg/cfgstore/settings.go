package cfgstore

import "errors"

// LogLevel is the persisted verbosity of the device log.
type LogLevel uint8

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the level name understood by internal/log.
// Unknown values read as "info".
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelDebug:
		return "debug"
	default:
		return "info"
	}
}

// CameraSettings is the persisted sensor configuration.
type CameraSettings struct {
	PhotoQuality uint8 `json:"photo_quality"` // 10-63, lower is better
	FrameSize    uint8 `json:"frame_size"`    // index into the frame size table, 0-6
	Brightness   int8  `json:"brightness"`    // -2 to 2
	Contrast     int8  `json:"contrast"`      // -2 to 2
	Saturation   int8  `json:"saturation"`    // -2 to 2

	AWB     bool  `json:"awb"`
	AWBGain bool  `json:"awb_gain"`
	WBMode  uint8 `json:"wb_mode"` // 0 auto, 1 sunny, 2 cloudy, 3 office, 4 home

	ExposureCtrl bool   `json:"exposure_ctrl"`
	AEC2         bool   `json:"aec2"`
	AELevel      int8   `json:"ae_level"`  // -2 to 2
	AECValue     uint16 `json:"aec_value"` // 0 to 1200

	GainCtrl bool  `json:"gain_ctrl"`
	AGCGain  uint8 `json:"agc_gain"` // 0 to 30

	BPC         bool `json:"bpc"`
	WPC         bool `json:"wpc"`
	RawGamma    bool `json:"raw_gamma"`
	LensCorrect bool `json:"lens_correct"`
	HMirror     bool `json:"hmirror"`
	VFlip       bool `json:"vflip"`

	FlashEnable bool   `json:"flash_enable"`
	FlashTime   uint16 `json:"flash_time"` // milliseconds
}

// Snapshot is every persisted value except the sentinels' raw bytes.
type Snapshot struct {
	FirstBootDone   bool
	RefreshInterval uint8
	Token           string
	Fingerprint     string
	Camera          CameraSettings

	WifiSSID     string
	WifiPassword string
	WifiActive   bool

	BasicAuthUsername string
	BasicAuthPassword string
	BasicAuthEnabled  bool

	MDNSRecord string
	LogLevel   LogLevel
	Hostname   string
}

// Factory defaults.
const (
	DefaultRefreshInterval   = 10
	DefaultBasicAuthUsername = "admin"
	DefaultBasicAuthPassword = "admin"
	DefaultMDNSRecord        = "printcam"
	DefaultHostname          = "connect.prusa3d.com"
)

// DefaultCameraSettings returns the factory camera configuration.
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		PhotoQuality: 10,
		FrameSize:    4,
		AWB:          true,
		AWBGain:      true,
		ExposureCtrl: true,
		AECValue:     300,
		GainCtrl:     true,
		WPC:          true,
		RawGamma:     true,
		LensCorrect:  true,
		FlashTime:    200,
	}
}

// FactoryDefaults returns the configuration written on first boot and on
// factory reset. The fingerprint is computed separately.
func FactoryDefaults() Snapshot {
	return Snapshot{
		RefreshInterval:   DefaultRefreshInterval,
		Camera:            DefaultCameraSettings(),
		BasicAuthUsername: DefaultBasicAuthUsername,
		BasicAuthPassword: DefaultBasicAuthPassword,
		MDNSRecord:        DefaultMDNSRecord,
		LogLevel:          LogLevelInfo,
		Hostname:          DefaultHostname,
	}
}

// LoadCameraSettings reads every camera field.
func (s *Store) LoadCameraSettings() CameraSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCamera()
}

// SaveCameraSettings writes every camera field, one commit per field.
// It keeps going after a failed field and returns all failures.
func (s *Store) SaveCameraSettings(c CameraSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putCamera(c)
}

func (s *Store) getCamera() CameraSettings {
	return CameraSettings{
		PhotoQuality: s.getUint8(FieldPhotoQuality),
		FrameSize:    s.getUint8(FieldFrameSize),
		Brightness:   s.getInt8(FieldBrightness),
		Contrast:     s.getInt8(FieldContrast),
		Saturation:   s.getInt8(FieldSaturation),
		AWB:          s.getBool(FieldAWB),
		AWBGain:      s.getBool(FieldAWBGain),
		WBMode:       s.getUint8(FieldAWBMode),
		ExposureCtrl: s.getBool(FieldExposureCtrl),
		AEC2:         s.getBool(FieldAEC2),
		AELevel:      s.getInt8(FieldAELevel),
		AECValue:     s.getUint16(FieldAECValue),
		GainCtrl:     s.getBool(FieldGainCtrl),
		AGCGain:      s.getUint8(FieldAGCGain),
		BPC:          s.getBool(FieldBPC),
		WPC:          s.getBool(FieldWPC),
		RawGamma:     s.getBool(FieldRawGamma),
		LensCorrect:  s.getBool(FieldLensCorrect),
		HMirror:      s.getBool(FieldHMirror),
		VFlip:        s.getBool(FieldVFlip),
		FlashEnable:  s.getUint8(FieldFlashEnable) != 0,
		FlashTime:    s.getUint16(FieldFlashTime),
	}
}

func (s *Store) putCamera(c CameraSettings) error {
	var flash uint8
	if c.FlashEnable {
		flash = 1
	}
	return errors.Join(
		s.putUint8(FieldPhotoQuality, c.PhotoQuality),
		s.putUint8(FieldFrameSize, c.FrameSize),
		s.putInt8(FieldBrightness, c.Brightness),
		s.putInt8(FieldContrast, c.Contrast),
		s.putInt8(FieldSaturation, c.Saturation),
		s.putBool(FieldHMirror, c.HMirror),
		s.putBool(FieldVFlip, c.VFlip),
		s.putBool(FieldLensCorrect, c.LensCorrect),
		s.putBool(FieldExposureCtrl, c.ExposureCtrl),
		s.putBool(FieldAWB, c.AWB),
		s.putBool(FieldAWBGain, c.AWBGain),
		s.putUint8(FieldAWBMode, c.WBMode),
		s.putBool(FieldBPC, c.BPC),
		s.putBool(FieldWPC, c.WPC),
		s.putBool(FieldRawGamma, c.RawGamma),
		s.putUint8(FieldFlashEnable, flash),
		s.putUint16(FieldFlashTime, c.FlashTime),
		s.putBool(FieldAEC2, c.AEC2),
		s.putInt8(FieldAELevel, c.AELevel),
		s.putUint16(FieldAECValue, c.AECValue),
		s.putBool(FieldGainCtrl, c.GainCtrl),
		s.putUint8(FieldAGCGain, c.AGCGain),
	)
}
