package cfgstore

import "errors"

// CheckFirstBoot reports whether the store has never been initialized.
// Anything other than FirstBootDone in the sentinel byte counts, which
// covers blank memory as well as garbage.
func (s *Store) CheckFirstBoot() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	flag := s.getUint8(FieldFirstBoot)
	if flag == FirstBootDone {
		s.logger.Info("store already initialized", "flag", flag)
		return false
	}
	s.logger.Warn("first start", "flag", flag)
	return true
}

// Init populates factory defaults on first boot. The sentinel is written
// last, so a crash part way through is treated as a first boot again on
// the next start.
func (s *Store) Init() (firstBoot bool, err error) {
	if !s.CheckFirstBoot() {
		return false, nil
	}

	s.logger.Warn("writing factory configuration")
	if err := s.WriteDefaults(); err != nil {
		return true, err
	}
	if err := s.SaveUint8(FieldFirstBoot, FirstBootDone); err != nil {
		return true, err
	}
	return true, nil
}

// WriteDefaults writes every field's factory default and recomputes the
// fingerprint. Each field is its own commit; a failed field does not stop
// the rest, and all failures are returned together. A fingerprint failure
// is logged but not returned, since the identifiers it needs may simply
// be unavailable on this host.
func (s *Store) WriteDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := FactoryDefaults()
	errs := []error{
		s.putUint8(FieldRefreshInterval, d.RefreshInterval),
		s.putString(FieldToken, d.Token),
	}
	if _, err := s.putFingerprint(); err != nil {
		s.logger.Warn("fingerprint not updated", "error", err)
	}
	errs = append(errs,
		s.putCamera(d.Camera),
		s.putUint8(FieldWifiActive, WifiNotSaved),
		s.putString(FieldWifiPassword, d.WifiPassword),
		s.putString(FieldWifiSSID, d.WifiSSID),
		s.putString(FieldBasicAuthUsername, d.BasicAuthUsername),
		s.putString(FieldBasicAuthPassword, d.BasicAuthPassword),
		s.putBool(FieldBasicAuthEnabled, d.BasicAuthEnabled),
		s.putString(FieldMDNSRecord, d.MDNSRecord),
		s.putUint8(FieldLogLevel, uint8(d.LogLevel)),
		s.putString(FieldHostname, d.Hostname),
	)

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("factory configuration incomplete", "error", err)
		return err
	}
	s.logger.Warn("factory configuration written")
	return nil
}

// ReadAll loads every field and logs it. Secrets are masked unless the
// store was opened with ShowSensitive.
func (s *Store) ReadAll() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		FirstBootDone:     s.getUint8(FieldFirstBoot) == FirstBootDone,
		RefreshInterval:   s.getUint8(FieldRefreshInterval),
		Token:             s.getString(FieldToken),
		Fingerprint:       s.getString(FieldFingerprint),
		Camera:            s.getCamera(),
		WifiSSID:          s.getString(FieldWifiSSID),
		WifiPassword:      s.getString(FieldWifiPassword),
		WifiActive:        s.getUint8(FieldWifiActive) == WifiSaved,
		BasicAuthUsername: s.getString(FieldBasicAuthUsername),
		BasicAuthPassword: s.getString(FieldBasicAuthPassword),
		BasicAuthEnabled:  s.getBool(FieldBasicAuthEnabled),
		MDNSRecord:        s.getString(FieldMDNSRecord),
		LogLevel:          LogLevel(s.getUint8(FieldLogLevel)),
		Hostname:          s.getString(FieldHostname),
	}

	c := snap.Camera
	s.logger.Info("loaded configuration",
		"refresh_interval", snap.RefreshInterval,
		"token", s.display(FieldToken, snap.Token),
		"fingerprint", snap.Fingerprint,
		"wifi_ssid", snap.WifiSSID,
		"wifi_password", s.display(FieldWifiPassword, snap.WifiPassword),
		"wifi_active", snap.WifiActive,
		"basic_auth_username", snap.BasicAuthUsername,
		"basic_auth_password", s.display(FieldBasicAuthPassword, snap.BasicAuthPassword),
		"basic_auth_enabled", snap.BasicAuthEnabled,
		"mdns_record", snap.MDNSRecord,
		"log_level", snap.LogLevel.String(),
		"hostname", snap.Hostname,
	)
	s.logger.Info("loaded camera configuration",
		"photo_quality", c.PhotoQuality,
		"frame_size", c.FrameSize,
		"brightness", c.Brightness,
		"contrast", c.Contrast,
		"saturation", c.Saturation,
		"awb", c.AWB,
		"awb_gain", c.AWBGain,
		"wb_mode", c.WBMode,
		"exposure_ctrl", c.ExposureCtrl,
		"aec2", c.AEC2,
		"ae_level", c.AELevel,
		"aec_value", c.AECValue,
		"gain_ctrl", c.GainCtrl,
		"agc_gain", c.AGCGain,
		"bpc", c.BPC,
		"wpc", c.WPC,
		"raw_gamma", c.RawGamma,
		"lens_correct", c.LensCorrect,
		"hmirror", c.HMirror,
		"vflip", c.VFlip,
		"flash_enable", c.FlashEnable,
		"flash_time", c.FlashTime,
	)
	return snap
}
