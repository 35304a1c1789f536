package cfgstore

// Kind is the encoding of a persisted field.
type Kind uint8

const (
	KindBool   Kind = iota // one byte, nonzero is true
	KindUint8              // one byte
	KindInt8               // one byte, two's complement
	KindUint16             // two bytes, big-endian
	KindString             // length byte followed by raw characters
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindUint8:
		return "uint8"
	case KindInt8:
		return "int8"
	case KindUint16:
		return "uint16"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Field describes where and how one value lives in the store.
// For strings, Cap includes the length byte, so the longest storable
// value is Cap-1 bytes.
type Field struct {
	Name      string
	Offset    int
	Cap       int
	Kind      Kind
	Sensitive bool // masked in diagnostics
}

// MaxLen returns the longest string the field can hold.
func (f Field) MaxLen() int {
	if f.Kind != KindString {
		return 0
	}
	return f.Cap - 1
}

// End returns the offset one past the field's last byte.
func (f Field) End() int {
	return f.Offset + f.Cap
}

// StoreSize is the capacity the layout is laid out against.
const StoreSize = 512

// Sentinel values.
const (
	FirstBootDone = 0x5A // store has been initialized
	WifiSaved     = 0xA5 // WiFi credentials have been saved at least once
	WifiNotSaved  = 0x00
)

// The persisted layout. Offsets are part of the on-device format: never
// reorder or resize an existing field, append new ones after Hostname.
var (
	FieldFirstBoot       = Field{Name: "first_boot", Offset: 0, Cap: 1, Kind: KindUint8}
	FieldRefreshInterval = Field{Name: "refresh_interval", Offset: 1, Cap: 1, Kind: KindUint8}
	FieldToken           = Field{Name: "token", Offset: 2, Cap: 41, Kind: KindString, Sensitive: true}
	FieldFingerprint     = Field{Name: "fingerprint", Offset: 43, Cap: 101, Kind: KindString}

	FieldPhotoQuality = Field{Name: "photo_quality", Offset: 144, Cap: 1, Kind: KindUint8}
	FieldFrameSize    = Field{Name: "frame_size", Offset: 145, Cap: 1, Kind: KindUint8}
	FieldBrightness   = Field{Name: "brightness", Offset: 146, Cap: 1, Kind: KindInt8}
	FieldContrast     = Field{Name: "contrast", Offset: 147, Cap: 1, Kind: KindInt8}
	FieldSaturation   = Field{Name: "saturation", Offset: 148, Cap: 1, Kind: KindInt8}
	FieldHMirror      = Field{Name: "hmirror", Offset: 149, Cap: 1, Kind: KindBool}
	FieldVFlip        = Field{Name: "vflip", Offset: 150, Cap: 1, Kind: KindBool}
	FieldLensCorrect  = Field{Name: "lens_correct", Offset: 151, Cap: 1, Kind: KindBool}
	FieldExposureCtrl = Field{Name: "exposure_ctrl", Offset: 152, Cap: 1, Kind: KindBool}
	FieldAWB          = Field{Name: "awb", Offset: 153, Cap: 1, Kind: KindBool}
	FieldAWBGain      = Field{Name: "awb_gain", Offset: 154, Cap: 1, Kind: KindBool}
	FieldAWBMode      = Field{Name: "awb_mode", Offset: 155, Cap: 1, Kind: KindUint8}
	FieldBPC          = Field{Name: "bpc", Offset: 156, Cap: 1, Kind: KindBool}
	FieldWPC          = Field{Name: "wpc", Offset: 157, Cap: 1, Kind: KindBool}
	FieldRawGamma     = Field{Name: "raw_gamma", Offset: 158, Cap: 1, Kind: KindBool}

	FieldWifiSSID     = Field{Name: "wifi_ssid", Offset: 159, Cap: 34, Kind: KindString}
	FieldWifiPassword = Field{Name: "wifi_password", Offset: 193, Cap: 65, Kind: KindString, Sensitive: true}
	FieldWifiActive   = Field{Name: "wifi_active", Offset: 258, Cap: 1, Kind: KindUint8}

	FieldBasicAuthUsername = Field{Name: "basic_auth_username", Offset: 259, Cap: 21, Kind: KindString}
	FieldBasicAuthPassword = Field{Name: "basic_auth_password", Offset: 280, Cap: 21, Kind: KindString, Sensitive: true}
	FieldBasicAuthEnabled  = Field{Name: "basic_auth_enabled", Offset: 301, Cap: 1, Kind: KindBool}

	FieldFlashEnable = Field{Name: "flash_enable", Offset: 302, Cap: 1, Kind: KindUint8}
	FieldFlashTime   = Field{Name: "flash_time", Offset: 303, Cap: 2, Kind: KindUint16}
	FieldMDNSRecord  = Field{Name: "mdns_record", Offset: 305, Cap: 33, Kind: KindString}

	FieldAEC2     = Field{Name: "aec2", Offset: 338, Cap: 1, Kind: KindBool}
	FieldAELevel  = Field{Name: "ae_level", Offset: 339, Cap: 1, Kind: KindInt8}
	FieldAECValue = Field{Name: "aec_value", Offset: 340, Cap: 2, Kind: KindUint16}
	FieldGainCtrl = Field{Name: "gain_ctrl", Offset: 342, Cap: 1, Kind: KindBool}
	FieldAGCGain  = Field{Name: "agc_gain", Offset: 343, Cap: 1, Kind: KindUint8}
	FieldLogLevel = Field{Name: "log_level", Offset: 344, Cap: 1, Kind: KindUint8}
	FieldHostname = Field{Name: "hostname", Offset: 345, Cap: 51, Kind: KindString}
)

// Layout returns every persisted field in offset order.
func Layout() []Field {
	return []Field{
		FieldFirstBoot,
		FieldRefreshInterval,
		FieldToken,
		FieldFingerprint,
		FieldPhotoQuality,
		FieldFrameSize,
		FieldBrightness,
		FieldContrast,
		FieldSaturation,
		FieldHMirror,
		FieldVFlip,
		FieldLensCorrect,
		FieldExposureCtrl,
		FieldAWB,
		FieldAWBGain,
		FieldAWBMode,
		FieldBPC,
		FieldWPC,
		FieldRawGamma,
		FieldWifiSSID,
		FieldWifiPassword,
		FieldWifiActive,
		FieldBasicAuthUsername,
		FieldBasicAuthPassword,
		FieldBasicAuthEnabled,
		FieldFlashEnable,
		FieldFlashTime,
		FieldMDNSRecord,
		FieldAEC2,
		FieldAELevel,
		FieldAECValue,
		FieldGainCtrl,
		FieldAGCGain,
		FieldLogLevel,
		FieldHostname,
	}
}
