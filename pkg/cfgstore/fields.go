package cfgstore

// Per-field accessors. Each Save commits immediately.

// SaveRefreshInterval stores the photo upload interval in seconds.
func (s *Store) SaveRefreshInterval(v uint8) error { return s.SaveUint8(FieldRefreshInterval, v) }

// LoadRefreshInterval reads the photo upload interval in seconds.
func (s *Store) LoadRefreshInterval() uint8 { return s.LoadUint8(FieldRefreshInterval) }

// SaveToken stores the cloud service token.
func (s *Store) SaveToken(v string) error { return s.SaveString(FieldToken, v) }

func (s *Store) LoadToken() string { return s.LoadString(FieldToken) }

func (s *Store) SaveFingerprint(v string) error { return s.SaveString(FieldFingerprint, v) }

func (s *Store) LoadFingerprint() string { return s.LoadString(FieldFingerprint) }

// SavePhotoQuality stores the JPEG quality (10-63, lower is better).
func (s *Store) SavePhotoQuality(v uint8) error { return s.SaveUint8(FieldPhotoQuality, v) }

// LoadPhotoQuality reads the JPEG quality (10-63, lower is better).
func (s *Store) LoadPhotoQuality() uint8 { return s.LoadUint8(FieldPhotoQuality) }

// SaveFrameSize stores the frame size index.
func (s *Store) SaveFrameSize(v uint8) error { return s.SaveUint8(FieldFrameSize, v) }

func (s *Store) LoadFrameSize() uint8 { return s.LoadUint8(FieldFrameSize) }

func (s *Store) SaveBrightness(v int8) error { return s.SaveInt8(FieldBrightness, v) }

func (s *Store) LoadBrightness() int8 { return s.LoadInt8(FieldBrightness) }

func (s *Store) SaveContrast(v int8) error { return s.SaveInt8(FieldContrast, v) }

func (s *Store) LoadContrast() int8 { return s.LoadInt8(FieldContrast) }

func (s *Store) SaveSaturation(v int8) error { return s.SaveInt8(FieldSaturation, v) }

func (s *Store) LoadSaturation() int8 { return s.LoadInt8(FieldSaturation) }

func (s *Store) SaveHMirror(v bool) error { return s.SaveBool(FieldHMirror, v) }

func (s *Store) LoadHMirror() bool { return s.LoadBool(FieldHMirror) }

// SaveVFlip stores the vertical flip.
func (s *Store) SaveVFlip(v bool) error { return s.SaveBool(FieldVFlip, v) }

// LoadVFlip reads the vertical flip.
func (s *Store) LoadVFlip() bool { return s.LoadBool(FieldVFlip) }

// SaveLensCorrect stores the lens correction.
func (s *Store) SaveLensCorrect(v bool) error { return s.SaveBool(FieldLensCorrect, v) }

func (s *Store) LoadLensCorrect() bool { return s.LoadBool(FieldLensCorrect) }

func (s *Store) SaveExposureCtrl(v bool) error { return s.SaveBool(FieldExposureCtrl, v) }

func (s *Store) LoadExposureCtrl() bool { return s.LoadBool(FieldExposureCtrl) }

// SaveAWB stores the automatic white balance.
func (s *Store) SaveAWB(v bool) error { return s.SaveBool(FieldAWB, v) }

// LoadAWB reads the automatic white balance.
func (s *Store) LoadAWB() bool { return s.LoadBool(FieldAWB) }

// SaveAWBGain stores the automatic white balance gain.
func (s *Store) SaveAWBGain(v bool) error { return s.SaveBool(FieldAWBGain, v) }

func (s *Store) LoadAWBGain() bool { return s.LoadBool(FieldAWBGain) }

func (s *Store) SaveAWBMode(v uint8) error { return s.SaveUint8(FieldAWBMode, v) }

func (s *Store) LoadAWBMode() uint8 { return s.LoadUint8(FieldAWBMode) }

// SaveBPC stores the bad pixel correction.
func (s *Store) SaveBPC(v bool) error { return s.SaveBool(FieldBPC, v) }

// LoadBPC reads the bad pixel correction.
func (s *Store) LoadBPC() bool { return s.LoadBool(FieldBPC) }

// SaveWPC stores the white pixel correction.
func (s *Store) SaveWPC(v bool) error { return s.SaveBool(FieldWPC, v) }

func (s *Store) LoadWPC() bool { return s.LoadBool(FieldWPC) }

func (s *Store) SaveRawGamma(v bool) error { return s.SaveBool(FieldRawGamma, v) }

func (s *Store) LoadRawGamma() bool { return s.LoadBool(FieldRawGamma) }

func (s *Store) SaveWifiSSID(v string) error { return s.SaveString(FieldWifiSSID, v) }

func (s *Store) LoadWifiSSID() string { return s.LoadString(FieldWifiSSID) }

func (s *Store) SaveWifiPassword(v string) error { return s.SaveString(FieldWifiPassword, v) }

func (s *Store) LoadWifiPassword() string { return s.LoadString(FieldWifiPassword) }

func (s *Store) SaveBasicAuthUsername(v string) error { return s.SaveString(FieldBasicAuthUsername, v) }

func (s *Store) LoadBasicAuthUsername() string { return s.LoadString(FieldBasicAuthUsername) }

func (s *Store) SaveBasicAuthPassword(v string) error { return s.SaveString(FieldBasicAuthPassword, v) }

func (s *Store) LoadBasicAuthPassword() string { return s.LoadString(FieldBasicAuthPassword) }

func (s *Store) SaveBasicAuthEnabled(v bool) error { return s.SaveBool(FieldBasicAuthEnabled, v) }

func (s *Store) LoadBasicAuthEnabled() bool { return s.LoadBool(FieldBasicAuthEnabled) }

func (s *Store) SaveFlashTime(v uint16) error { return s.SaveUint16(FieldFlashTime, v) }

func (s *Store) LoadFlashTime() uint16 { return s.LoadUint16(FieldFlashTime) }

// SaveMDNSRecord stores the mDNS host record.
func (s *Store) SaveMDNSRecord(v string) error { return s.SaveString(FieldMDNSRecord, v) }

// LoadMDNSRecord reads the mDNS host record.
func (s *Store) LoadMDNSRecord() string { return s.LoadString(FieldMDNSRecord) }

func (s *Store) SaveAEC2(v bool) error { return s.SaveBool(FieldAEC2, v) }

func (s *Store) LoadAEC2() bool { return s.LoadBool(FieldAEC2) }

func (s *Store) SaveAELevel(v int8) error { return s.SaveInt8(FieldAELevel, v) }

func (s *Store) LoadAELevel() int8 { return s.LoadInt8(FieldAELevel) }

// SaveAECValue stores the manual exposure value.
func (s *Store) SaveAECValue(v uint16) error { return s.SaveUint16(FieldAECValue, v) }

// LoadAECValue reads the manual exposure value.
func (s *Store) LoadAECValue() uint16 { return s.LoadUint16(FieldAECValue) }

// SaveGainCtrl stores the automatic gain control.
func (s *Store) SaveGainCtrl(v bool) error { return s.SaveBool(FieldGainCtrl, v) }

func (s *Store) LoadGainCtrl() bool { return s.LoadBool(FieldGainCtrl) }

func (s *Store) SaveAGCGain(v uint8) error { return s.SaveUint8(FieldAGCGain, v) }

func (s *Store) LoadAGCGain() uint8 { return s.LoadUint8(FieldAGCGain) }

// SaveHostname stores the cloud service hostname.
func (s *Store) SaveHostname(v string) error { return s.SaveString(FieldHostname, v) }

// LoadHostname reads the cloud service hostname.
func (s *Store) LoadHostname() string { return s.LoadString(FieldHostname) }

// SaveFlashEnable stores the flash enable flag. It is persisted as a
// uint8 rather than a bool, matching the existing layout.
func (s *Store) SaveFlashEnable(v bool) error {
	var b uint8
	if v {
		b = 1
	}
	return s.SaveUint8(FieldFlashEnable, b)
}

func (s *Store) LoadFlashEnable() bool { return s.LoadUint8(FieldFlashEnable) != 0 }

// SaveWifiActive marks whether WiFi credentials have been saved.
func (s *Store) SaveWifiActive(saved bool) error {
	v := uint8(WifiNotSaved)
	if saved {
		v = WifiSaved
	}
	return s.SaveUint8(FieldWifiActive, v)
}

// WifiActive reports whether WiFi credentials have ever been saved.
func (s *Store) WifiActive() bool {
	return s.LoadUint8(FieldWifiActive) == WifiSaved
}

// SaveWifiCredentials stores SSID and password and marks WiFi as
// configured. The three writes are independent commits; the flag is
// written last so an interrupted save is not reported as configured.
func (s *Store) SaveWifiCredentials(ssid, password string) error {
	if err := s.SaveWifiSSID(ssid); err != nil {
		return err
	}
	if err := s.SaveWifiPassword(password); err != nil {
		return err
	}
	return s.SaveWifiActive(true)
}

func (s *Store) SaveLogLevel(v LogLevel) error { return s.SaveUint8(FieldLogLevel, uint8(v)) }

// LoadLogLevel reads the persisted log level.
func (s *Store) LoadLogLevel() LogLevel { return LogLevel(s.LoadUint8(FieldLogLevel)) }
