package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/teslashibe/go-printcam/internal/config"
	"github.com/teslashibe/go-printcam/internal/hostid"
	plog "github.com/teslashibe/go-printcam/internal/log"
	"github.com/teslashibe/go-printcam/pkg/camera"
	"github.com/teslashibe/go-printcam/pkg/cfgstore"
	"github.com/teslashibe/go-printcam/pkg/eeprom"
	"github.com/teslashibe/go-printcam/pkg/flash"
	"github.com/teslashibe/go-printcam/pkg/framebuf"
	"github.com/teslashibe/go-printcam/pkg/sim"
	"github.com/teslashibe/go-printcam/pkg/v4l2"
)

// Config holds the process configuration.
type Config struct {
	Camera        string
	EEPROM        string
	ResetPin      string
	FlashPin      string
	MaxAttempts   int
	LogLevel      string
	ShowSensitive bool

	PhotoInterval time.Duration
	OutDir        string
	Stream        bool
}

// hardware is a frame pool that is also the sensor.
type hardware interface {
	framebuf.Pool
	camera.Sensor
}

// App owns every component for the life of the process.
type App struct {
	cfg    Config
	logger *slog.Logger

	store  *cfgstore.Store
	arb    *framebuf.Arbiter
	ctrl   *camera.Controller
	flash  *flash.Driver
	hw     hardware
	closer func() error
}

// New returns an unstarted App.
func New(cfg Config) *App {
	plog.Init(cfg.LogLevel)
	plog.Info("printcam starting", "camera", cfg.Camera, "eeprom", cfg.EEPROM)
	return &App{cfg: cfg, logger: plog.With("component", "app")}
}

// restart exits so the service manager starts a fresh process.
func (a *App) restart() {
	plog.Error("restarting device")
	os.Exit(1)
}

// Init brings up the store, the reset check and the camera.
func (a *App) Init(ctx context.Context) error {
	if _, err := host.Init(); err != nil {
		plog.Warn("periph host init failed, GPIO and I2C unavailable", "error", err)
	}

	dev, err := a.openEEPROM()
	if err != nil {
		return err
	}
	a.store, err = cfgstore.New(dev, &cfgstore.Options{
		Logger:        plog.L(),
		Identity:      hostid.New(),
		ShowSensitive: a.cfg.ShowSensitive,
	})
	if err != nil {
		return err
	}
	if _, err := a.store.Init(); err != nil {
		a.logger.Error("config store init incomplete", "error", err)
	}

	if a.cfg.FlashPin != "" {
		pin := gpioreg.ByName(a.cfg.FlashPin)
		if pin == nil {
			return fmt.Errorf("flash pin %q not found", a.cfg.FlashPin)
		}
		if a.flash, err = flash.New(pin, plog.L()); err != nil {
			return err
		}
	}

	if err := a.checkReset(ctx); err != nil {
		return err
	}

	snap := a.store.ReadAll()
	plog.SetLevel(snap.LogLevel.String())

	if err := a.openCamera(); err != nil {
		return err
	}

	opts := &framebuf.Options{MaxAttempts: a.cfg.MaxAttempts, Logger: plog.L()}
	if a.flash != nil {
		opts.Flash = a.flash
	}
	a.arb = framebuf.NewArbiter(a.hw, opts)
	a.ctrl = camera.NewController(a.store, a.arb, a.hw, &camera.Options{
		Logger:     plog.L(),
		Restart:    a.restart,
		OnLogLevel: func(l cfgstore.LogLevel) { plog.SetLevel(l.String()) },
	})
	return a.ctrl.Init()
}

func (a *App) openEEPROM() (eeprom.Device, error) {
	t, isI2C, err := config.ParseI2C(a.cfg.EEPROM)
	if err != nil {
		return nil, err
	}
	if !isI2C {
		a.logger.Info("config store file", "path", a.cfg.EEPROM)
		return eeprom.OpenImage(a.cfg.EEPROM, cfgstore.StoreSize)
	}

	bus, err := i2creg.Open(t.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", t.Bus, err)
	}
	dev, err := eeprom.NewAT24(bus, &eeprom.AT24Opts{Addr: t.Addr, Speed: 400 * physic.KiloHertz})
	if err != nil {
		bus.Close()
		return nil, err
	}
	a.logger.Info("config store eeprom", "device", dev.String())
	return dev, nil
}

func (a *App) checkReset(ctx context.Context) error {
	if a.cfg.ResetPin == "" {
		return nil
	}
	pin := gpioreg.ByName(a.cfg.ResetPin)
	if pin == nil {
		return fmt.Errorf("reset pin %q not found", a.cfg.ResetPin)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("reset pin: %w", err)
	}

	opts := cfgstore.DefaultResetOpts()
	opts.Restart = a.restart
	if a.flash != nil {
		opts.Indicator = a.flash
	}
	_, err := a.store.CheckReset(ctx, pin, opts)
	return err
}

func (a *App) openCamera() error {
	if a.cfg.Camera == config.SimCamera {
		a.logger.Info("using simulated camera")
		a.hw = sim.New(&sim.Options{Logger: plog.L()})
		return nil
	}
	d, err := v4l2.Open(a.cfg.Camera, &v4l2.Options{Buffers: 1, Timeout: 5, Logger: plog.L()})
	if err != nil {
		return err
	}
	a.hw = d
	a.closer = d.Close
	return nil
}

// Run takes photos or streams until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	w, h := a.ctrl.FrameSizeDims()
	a.logger.Info("camera ready", "width", w, "height", h, "fingerprint", a.ctrl.Fingerprint())
	plog.Debug("camera capabilities", "caps", camera.Capabilities())

	if a.cfg.Stream {
		return a.streamLoop(ctx)
	}
	if a.cfg.PhotoInterval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(a.cfg.PhotoInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.takePhoto(); err != nil {
				a.logger.Error("photo failed", "error", err)
			}
		}
	}
}

func (a *App) takePhoto() error {
	return a.ctrl.WithPhoto(func(f *framebuf.Frame) error {
		path := filepath.Join(a.cfg.OutDir, f.ID.String()+".jpg")
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return err
		}
		a.logger.Info("photo saved", "path", path, "bytes", f.Len())
		return nil
	})
}

func (a *App) streamLoop(ctx context.Context) error {
	a.ctrl.SetStreaming(true)
	defer a.ctrl.SetStreaming(false)

	var frame framebuf.Frame
	last := time.Now()
	report := time.NewTicker(5 * time.Second)
	defer report.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-report.C:
			stats := a.ctrl.StreamStats()
			a.logger.Info("stream",
				"avg_fps", fmt.Sprintf("%.1f", stats.AverageFPS()),
				"avg_bytes", int(stats.AverageFrameSize()),
				"counters", a.ctrl.Counters())
		default:
		}

		if err := a.ctrl.CaptureStream(&frame); err != nil {
			a.logger.Warn("stream frame failed", "error", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}
		now := time.Now()
		if dt := now.Sub(last).Seconds(); dt > 0 {
			a.ctrl.StreamStats().RecordFPS(1 / dt)
		}
		last = now
	}
}

// Shutdown stops the camera and switches the flash off.
func (a *App) Shutdown() {
	if a.ctrl != nil {
		a.ctrl.SetStreaming(false)
	}
	if a.flash != nil {
		if err := a.flash.Off(); err != nil {
			a.logger.Warn("flash off failed", "error", err)
		}
	}
	if a.closer != nil {
		if err := a.closer(); err != nil {
			a.logger.Warn("camera close failed", "error", err)
		}
	}
	a.logger.Info("shutdown complete")
}
