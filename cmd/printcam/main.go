// Printcam - print farm camera firmware
// Boots the config store, the camera and the frame buffer arbiter, then
// optionally takes photos or runs a stream loop for bench testing.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/teslashibe/go-printcam/internal/config"
)

func main() {
	cfg := parseFlags()

	app := New(cfg)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Init(ctx); err != nil {
		log.Fatalf("❌ Initialization failed: %v", err)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags parses command line flags and returns configuration.
// Flags override the PRINTCAM_* environment.
func parseFlags() Config {
	cfg := Config{
		Camera:      config.Camera(),
		EEPROM:      config.EEPROM(),
		ResetPin:    config.ResetPin(),
		FlashPin:    config.FlashPin(),
		MaxAttempts: config.MaxCaptureAttempts(),
		LogLevel:    config.LogLevel(),
	}

	flag.StringVar(&cfg.Camera, "camera", cfg.Camera, "V4L2 device path, or \"sim\"")
	flag.StringVar(&cfg.EEPROM, "eeprom", cfg.EEPROM, "config store: file path or i2c:<bus>:<addr>")
	flag.StringVar(&cfg.ResetPin, "reset-pin", cfg.ResetPin, "factory reset button GPIO (empty to disable)")
	flag.StringVar(&cfg.FlashPin, "flash-pin", cfg.FlashPin, "flash LED GPIO (empty to disable)")
	flag.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "corrupt frame retry budget (0 = unbounded)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "startup log level: debug, info, warn, error")
	flag.BoolVar(&cfg.ShowSensitive, "show-secrets", false, "log stored secrets in clear text")
	flag.DurationVar(&cfg.PhotoInterval, "photo-every", 0, "take a photo at this interval (0 = off)")
	flag.StringVar(&cfg.OutDir, "out", ".", "directory for captured photos")
	flag.BoolVar(&cfg.Stream, "stream", false, "run the stream loop instead of idling")
	flag.Parse()

	if cfg.PhotoInterval > 0 && cfg.PhotoInterval < 100*time.Millisecond {
		cfg.PhotoInterval = 100 * time.Millisecond
	}
	return cfg
}
