package camera

import "github.com/teslashibe/go-printcam/pkg/cfgstore"

// Pass-through accessors for the non-camera configuration an upper
// layer needs.

func (c *Controller) Token() string              { return c.store.LoadToken() }
func (c *Controller) SetToken(v string) error    { return c.store.SaveToken(v) }
func (c *Controller) Fingerprint() string        { return c.store.LoadFingerprint() }
func (c *Controller) Hostname() string           { return c.store.LoadHostname() }
func (c *Controller) SetHostname(v string) error { return c.store.SaveHostname(v) }

// UpdateFingerprint recomputes the device fingerprint from host identity.
func (c *Controller) UpdateFingerprint() (string, error) { return c.store.UpdateFingerprint() }

// BasicAuth returns the web credentials and whether they are enforced.
func (c *Controller) BasicAuth() (user, password string, enabled bool) {
	return c.store.LoadBasicAuthUsername(), c.store.LoadBasicAuthPassword(), c.store.LoadBasicAuthEnabled()
}

// SetBasicAuth stores the web credentials. Each value is its own commit.
func (c *Controller) SetBasicAuth(user, password string, enabled bool) error {
	if err := c.store.SaveBasicAuthUsername(user); err != nil {
		return err
	}
	if err := c.store.SaveBasicAuthPassword(password); err != nil {
		return err
	}
	return c.store.SaveBasicAuthEnabled(enabled)
}

// WifiCredentials returns the saved network and whether any was saved.
func (c *Controller) WifiCredentials() (ssid, password string, saved bool) {
	return c.store.LoadWifiSSID(), c.store.LoadWifiPassword(), c.store.WifiActive()
}

// SetWifiCredentials saves both values and marks WiFi as configured.
func (c *Controller) SetWifiCredentials(ssid, password string) error {
	return c.store.SaveWifiCredentials(ssid, password)
}

func (c *Controller) RefreshInterval() uint8 { return c.store.LoadRefreshInterval() }

// SetRefreshInterval sets the upload interval in seconds.
func (c *Controller) SetRefreshInterval(sec uint8) error { return c.store.SaveRefreshInterval(sec) }

func (c *Controller) LogLevel() cfgstore.LogLevel { return c.store.LoadLogLevel() }

// SetLogLevel persists the level and applies it to the running logger.
func (c *Controller) SetLogLevel(l cfgstore.LogLevel) error {
	if l > cfgstore.LogLevelDebug {
		return checkRange("log_level", int(l), 0, int(cfgstore.LogLevelDebug))
	}
	if err := c.store.SaveLogLevel(l); err != nil {
		return err
	}
	if c.onLogLevel != nil {
		c.onLogLevel(l)
	}
	return nil
}
