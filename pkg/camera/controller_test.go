package camera

import (
	"errors"
	"sync"
	"testing"

	"github.com/teslashibe/go-printcam/pkg/cfgstore"
	"github.com/teslashibe/go-printcam/pkg/eeprom"
	"github.com/teslashibe/go-printcam/pkg/framebuf"
)

// mockSensor records sensor calls.
type mockSensor struct {
	mu        sync.Mutex
	inits     []FrameSize
	qualities []uint8
	deinits   int
	sets      []Setting
	initErr   error
	deinitErr error
}

func (m *mockSensor) Init(size FrameSize, quality uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inits = append(m.inits, size)
	m.qualities = append(m.qualities, quality)
	return m.initErr
}

func (m *mockSensor) Deinit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deinits++
	return m.deinitErr
}

func (m *mockSensor) Set(p Param, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = append(m.sets, Setting{p, value})
	return nil
}

func (m *mockSensor) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inits, m.qualities, m.deinits, m.sets = nil, nil, 0, nil
}

// lastApply returns the most recent full sequence of Set calls.
func (m *mockSensor) lastApply(t *testing.T) []Setting {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(Sequence(cfgstore.CameraSettings{}))
	if len(m.sets) < n {
		t.Fatalf("sensor saw %d sets, want at least %d", len(m.sets), n)
	}
	return m.sets[len(m.sets)-n:]
}

type okPool struct{}

func (okPool) Get() (*framebuf.Frame, error) {
	return &framebuf.Frame{Data: make([]byte, 256)}, nil
}

func (okPool) Return(*framebuf.Frame) {}

type recordingFlash struct {
	mu    sync.Mutex
	calls []bool
}

func (f *recordingFlash) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, on)
	return nil
}

func newTestStore(t *testing.T, img *eeprom.Image) *cfgstore.Store {
	t.Helper()
	s, err := cfgstore.New(img, nil)
	if err != nil {
		t.Fatalf("cfgstore.New: %v", err)
	}
	if _, err := s.Init(); err != nil {
		t.Fatalf("store Init: %v", err)
	}
	return s
}

func newTestController(t *testing.T, img *eeprom.Image, sensor Sensor, flash framebuf.Flash) *Controller {
	t.Helper()
	arb := framebuf.NewArbiter(okPool{}, &framebuf.Options{MaxAttempts: 5, Flash: flash})
	c := NewController(newTestStore(t, img), arb, sensor, nil)
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c
}

func TestController_InitAppliesDefaults(t *testing.T) {
	sensor := &mockSensor{}
	newTestController(t, eeprom.NewImage(cfgstore.StoreSize), sensor, nil)

	def := cfgstore.DefaultCameraSettings()
	if len(sensor.inits) != 1 || sensor.inits[0] != FrameSize(def.FrameSize) {
		t.Errorf("inits: got %v, want [%v]", sensor.inits, FrameSize(def.FrameSize))
	}
	got := sensor.lastApply(t)
	want := Sequence(def)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("set %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSetPhotoQuality_PersistsAcrossRestart(t *testing.T) {
	img := eeprom.NewImage(cfgstore.StoreSize)
	sensor := &mockSensor{}
	c := newTestController(t, img, sensor, nil)
	sensor.reset()

	if err := c.SetPhotoQuality(15); err != nil {
		t.Fatalf("SetPhotoQuality: %v", err)
	}

	if sensor.deinits != 1 {
		t.Errorf("deinits: got %d, want 1", sensor.deinits)
	}
	if len(sensor.qualities) != 1 || sensor.qualities[0] != 15 {
		t.Errorf("init qualities: got %v, want [15]", sensor.qualities)
	}
	want := cfgstore.DefaultCameraSettings()
	want.PhotoQuality = 15
	got := sensor.lastApply(t)
	for i, s := range Sequence(want) {
		if got[i] != s {
			t.Errorf("set %d: got %+v, want %+v", i, got[i], s)
		}
	}

	// Simulated restart: a new store and controller over the same memory.
	restarted := newTestController(t, img, &mockSensor{}, nil)
	if q := restarted.Settings().PhotoQuality; q != 15 {
		t.Errorf("quality after restart: got %d, want 15", q)
	}
}

func TestSetters_RejectOutOfRange(t *testing.T) {
	img := eeprom.NewImage(cfgstore.StoreSize)
	sensor := &mockSensor{}
	c := newTestController(t, img, sensor, nil)
	sensor.reset()
	before := c.Settings()

	tests := []struct {
		name string
		set  func() error
	}{
		{"quality low", func() error { return c.SetPhotoQuality(9) }},
		{"quality high", func() error { return c.SetPhotoQuality(64) }},
		{"frame size", func() error { return c.SetFrameSize(7) }},
		{"brightness", func() error { return c.SetBrightness(3) }},
		{"contrast", func() error { return c.SetContrast(-3) }},
		{"wb mode", func() error { return c.SetWBMode(5) }},
		{"aec value", func() error { return c.SetAECValue(1201) }},
		{"agc gain", func() error { return c.SetAGCGain(31) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.set(); !errors.Is(err, ErrInvalidSetting) {
				t.Errorf("got %v, want ErrInvalidSetting", err)
			}
		})
	}

	if c.Settings() != before {
		t.Error("working copy changed")
	}
	if len(sensor.sets) != 0 || len(sensor.inits) != 0 {
		t.Error("sensor was touched")
	}
	if got := newTestStore(t, img).LoadCameraSettings(); got != before {
		t.Errorf("store changed: got %+v", got)
	}
}

func TestSetBrightness_AppliesWithoutReinit(t *testing.T) {
	sensor := &mockSensor{}
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), sensor, nil)
	sensor.reset()

	if err := c.SetBrightness(-2); err != nil {
		t.Fatalf("SetBrightness: %v", err)
	}
	if sensor.deinits != 0 || len(sensor.inits) != 0 {
		t.Error("sensor was re-initialized")
	}
	if n := len(sensor.sets); n != len(Sequence(c.Settings())) {
		t.Errorf("sets: got %d, want one full apply", n)
	}
	if got := sensor.lastApply(t)[2]; got != (Setting{ParamBrightness, -2}) {
		t.Errorf("brightness set: got %+v", got)
	}
}

func TestSetFlash_PersistOnly(t *testing.T) {
	sensor := &mockSensor{}
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), sensor, nil)
	sensor.reset()

	if err := c.SetFlashEnable(true); err != nil {
		t.Fatal(err)
	}
	if err := c.SetFlashTime(350); err != nil {
		t.Fatal(err)
	}
	if len(sensor.sets) != 0 {
		t.Errorf("flash setters touched the sensor: %v", sensor.sets)
	}
	s := c.Settings()
	if !s.FlashEnable || s.FlashTime != 350 {
		t.Errorf("settings: got enable=%v time=%d", s.FlashEnable, s.FlashTime)
	}
}

func TestInit_SensorFailureRestarts(t *testing.T) {
	img := eeprom.NewImage(cfgstore.StoreSize)
	restarted := false
	sensor := &mockSensor{initErr: errors.New("sccb timeout")}
	c := NewController(newTestStore(t, img), framebuf.NewArbiter(okPool{}, nil), sensor,
		&Options{Restart: func() { restarted = true }})

	if err := c.Init(); !errors.Is(err, ErrSensorInit) {
		t.Fatalf("got %v, want ErrSensorInit", err)
	}
	if !restarted {
		t.Error("Restart not called")
	}
	if len(sensor.sets) != 0 {
		t.Error("settings applied after failed init")
	}
}

func TestReinit_DeinitFailureIgnored(t *testing.T) {
	sensor := &mockSensor{}
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), sensor, nil)
	sensor.deinitErr = errors.New("busy")

	if err := c.SetFrameSize(FrameVGA); err != nil {
		t.Fatalf("SetFrameSize: %v", err)
	}
	if got := sensor.inits[len(sensor.inits)-1]; got != FrameVGA {
		t.Errorf("reinit size: got %v, want %v", got, FrameVGA)
	}
}

func TestUpdate_Batch(t *testing.T) {
	img := eeprom.NewImage(cfgstore.StoreSize)
	sensor := &mockSensor{}
	c := newTestController(t, img, sensor, nil)
	sensor.reset()

	err := c.Update(map[string]interface{}{
		"brightness": float64(1),
		"hmirror":    true,
		"aec_value":  600,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n := len(sensor.sets); n != len(Sequence(c.Settings())) {
		t.Errorf("sets: got %d, want exactly one apply", n)
	}
	s := newTestStore(t, img).LoadCameraSettings()
	if s.Brightness != 1 || !s.HMirror || s.AECValue != 600 {
		t.Errorf("persisted: got %+v", s)
	}
}

func TestUpdate_AllOrNothing(t *testing.T) {
	img := eeprom.NewImage(cfgstore.StoreSize)
	sensor := &mockSensor{}
	c := newTestController(t, img, sensor, nil)
	sensor.reset()
	before := c.Settings()

	tests := []map[string]interface{}{
		{"brightness": 1, "contrast": 9},
		{"hmirror": true, "no_such_field": 1},
		{"vflip": "yes"},
		{"photo_quality": 12.5},
		{"preset": "disco"},
	}
	for _, params := range tests {
		if err := c.Update(params); !errors.Is(err, ErrInvalidSetting) {
			t.Errorf("Update(%v): got %v, want ErrInvalidSetting", params, err)
		}
	}
	if c.Settings() != before {
		t.Error("working copy changed")
	}
	if got := newTestStore(t, img).LoadCameraSettings(); got != before {
		t.Error("store changed")
	}
	if len(sensor.sets) != 0 {
		t.Error("sensor was touched")
	}
}

func TestUpdate_PresetReinits(t *testing.T) {
	sensor := &mockSensor{}
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), sensor, nil)
	sensor.reset()

	if err := c.Update(map[string]interface{}{"preset": PresetMax, "vflip": true}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	s := c.Settings()
	if FrameSize(s.FrameSize) != FrameUXGA || !s.VFlip {
		t.Errorf("settings: got %+v", s)
	}
	if sensor.deinits != 1 {
		t.Errorf("deinits: got %d, want 1", sensor.deinits)
	}
	if w, h := c.FrameSizeDims(); w != 1600 || h != 1200 {
		t.Errorf("dims: got %dx%d, want 1600x1200", w, h)
	}
}

func TestCapturePhoto_UsesFlashSettings(t *testing.T) {
	flash := &recordingFlash{}
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), &mockSensor{}, flash)

	if err := c.WithPhoto(func(*framebuf.Frame) error { return nil }); err != nil {
		t.Fatalf("WithPhoto: %v", err)
	}
	if len(flash.calls) != 0 {
		t.Errorf("flash used while disabled: %v", flash.calls)
	}

	if err := c.SetFlashEnable(true); err != nil {
		t.Fatal(err)
	}
	if err := c.SetFlashTime(0); err != nil {
		t.Fatal(err)
	}
	l, err := c.CapturePhoto()
	if err != nil {
		t.Fatalf("CapturePhoto: %v", err)
	}
	l.Release()
	if len(flash.calls) != 2 || !flash.calls[0] || flash.calls[1] {
		t.Errorf("flash calls: got %v, want [true false]", flash.calls)
	}
}

func TestCapturePhoto_RefusedWhileStreaming(t *testing.T) {
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), &mockSensor{}, nil)
	c.SetStreaming(true)
	if _, err := c.CapturePhoto(); !errors.Is(err, framebuf.ErrStreaming) {
		t.Errorf("got %v, want ErrStreaming", err)
	}

	var out framebuf.Frame
	if err := c.CaptureStream(&out); err != nil {
		t.Fatalf("CaptureStream: %v", err)
	}
	if c.StreamStats().AverageFrameSize() == 0 {
		t.Error("stream frame size not recorded")
	}
}

func TestSetLogLevel_NotifiesLogger(t *testing.T) {
	img := eeprom.NewImage(cfgstore.StoreSize)
	var got []cfgstore.LogLevel
	c := NewController(newTestStore(t, img), framebuf.NewArbiter(okPool{}, nil), &mockSensor{},
		&Options{OnLogLevel: func(l cfgstore.LogLevel) { got = append(got, l) }})

	if err := c.SetLogLevel(cfgstore.LogLevelDebug); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLogLevel(cfgstore.LogLevel(7)); !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("got %v, want ErrInvalidSetting", err)
	}
	if len(got) != 1 || got[0] != cfgstore.LogLevelDebug {
		t.Errorf("hook calls: got %v", got)
	}
	if c.LogLevel() != cfgstore.LogLevelDebug {
		t.Errorf("persisted: got %v", c.LogLevel())
	}
}

func TestCredentials_PassThrough(t *testing.T) {
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), &mockSensor{}, nil)

	if user, pass, enabled := c.BasicAuth(); user != "admin" || pass != "admin" || enabled {
		t.Errorf("default basic auth: got %q %q %v", user, pass, enabled)
	}
	if err := c.SetBasicAuth("op", "s3cret", true); err != nil {
		t.Fatal(err)
	}
	if user, pass, enabled := c.BasicAuth(); user != "op" || pass != "s3cret" || !enabled {
		t.Errorf("basic auth: got %q %q %v", user, pass, enabled)
	}

	if _, _, saved := c.WifiCredentials(); saved {
		t.Error("wifi saved before credentials were set")
	}
	if err := c.SetWifiCredentials("farm", "pw123456"); err != nil {
		t.Fatal(err)
	}
	if ssid, pw, saved := c.WifiCredentials(); ssid != "farm" || pw != "pw123456" || !saved {
		t.Errorf("wifi: got %q %q %v", ssid, pw, saved)
	}

	if err := c.SetToken("tok"); err != nil || c.Token() != "tok" {
		t.Errorf("token: got %q, err %v", c.Token(), err)
	}
}

func TestSettingsMap_RoundTripsThroughUpdate(t *testing.T) {
	sensor := &mockSensor{}
	c := newTestController(t, eeprom.NewImage(cfgstore.StoreSize), sensor, nil)
	sensor.reset()

	if err := c.Update(c.SettingsMap()); err != nil {
		t.Fatalf("Update(SettingsMap()): %v", err)
	}
	if len(sensor.sets) != 0 || len(sensor.inits) != 0 {
		t.Error("unchanged settings touched the sensor")
	}

	m := c.SettingsMap()
	m["frame_size"] = float64(FrameQVGA)
	m["hmirror"] = true
	if err := c.Update(m); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := c.SettingsMap()
	if got["frame_size"] != float64(FrameQVGA) || got["hmirror"] != true {
		t.Errorf("settings map: got frame_size=%v hmirror=%v", got["frame_size"], got["hmirror"])
	}
	w, h := FrameQVGA.Dims()
	if got["frame_width"] != w || got["frame_height"] != h {
		t.Errorf("dims: got %vx%v, want %dx%d", got["frame_width"], got["frame_height"], w, h)
	}
	if len(sensor.inits) != 1 || sensor.inits[0] != FrameQVGA {
		t.Errorf("inits: got %v, want [%v]", sensor.inits, FrameQVGA)
	}
}
