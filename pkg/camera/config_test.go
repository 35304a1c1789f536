package camera

import (
	"log/slog"
	"testing"

	"github.com/teslashibe/go-printcam/pkg/cfgstore"
)

func TestFrameSize_Dims(t *testing.T) {
	tests := []struct {
		size FrameSize
		w, h int
	}{
		{FrameQVGA, 320, 240},
		{FrameCIF, 352, 288},
		{FrameVGA, 640, 480},
		{FrameSVGA, 800, 600},
		{FrameXGA, 1024, 768},
		{FrameSXGA, 1280, 1024},
		{FrameUXGA, 1600, 1200},
		{FrameSize(7), 320, 240},
		{FrameSize(255), 320, 240},
	}
	for _, tt := range tests {
		w, h := tt.size.Dims()
		if w != tt.w || h != tt.h {
			t.Errorf("%v: got %dx%d, want %dx%d", tt.size, w, h, tt.w, tt.h)
		}
	}
}

func TestFrameSizeOf_FallsBack(t *testing.T) {
	if got := frameSizeOf(9, slog.Default()); got != FrameQVGA {
		t.Errorf("got %v, want %v", got, FrameQVGA)
	}
	if got := frameSizeOf(uint8(FrameSXGA), slog.Default()); got != FrameSXGA {
		t.Errorf("got %v, want %v", got, FrameSXGA)
	}
}

func TestSequence_Order(t *testing.T) {
	want := []Param{
		ParamFrameSize, ParamQuality, ParamBrightness, ParamContrast,
		ParamSaturation, ParamSpecialEffect, ParamWhiteBalance, ParamAWBGain,
		ParamWBMode, ParamExposureCtrl, ParamAEC2, ParamAELevel, ParamAECValue,
		ParamGainCtrl, ParamAGCGain, ParamGainCeiling, ParamBPC, ParamWPC,
		ParamRawGamma, ParamLensCorrect, ParamHMirror, ParamVFlip, ParamDCW,
		ParamColorBar,
	}
	got := Sequence(cfgstore.DefaultCameraSettings())
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Param != want[i] {
			t.Errorf("step %d: got %v, want %v", i, got[i].Param, want[i])
		}
	}
	if got[22].Value != 1 || got[23].Value != 0 || got[5].Value != 0 {
		t.Error("fixed parameters have wrong values")
	}
}

func TestValidate(t *testing.T) {
	if errs := Validate(cfgstore.DefaultCameraSettings()); len(errs) != 0 {
		t.Errorf("defaults invalid: %v", errs)
	}
	for _, name := range PresetNames() {
		if errs := Validate(*GetPreset(name)); len(errs) != 0 {
			t.Errorf("preset %s invalid: %v", name, errs)
		}
	}

	bad := cfgstore.DefaultCameraSettings()
	bad.PhotoQuality = 5
	bad.Saturation = -3
	bad.AGCGain = 40
	if errs := Validate(bad); len(errs) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(errs), errs)
	}
}

func TestCapabilities(t *testing.T) {
	caps := Capabilities()

	sizes, ok := caps["frame_sizes"].([]string)
	if !ok || len(sizes) != len(frameDims) {
		t.Fatalf("frame_sizes: got %v", caps["frame_sizes"])
	}
	if sizes[FrameQVGA] != "QVGA 320x240" {
		t.Errorf("frame_sizes[QVGA]: got %q", sizes[FrameQVGA])
	}
	q, ok := caps["quality_range"].([]int)
	if !ok || q[0] != MinQuality || q[1] != MaxQuality {
		t.Errorf("quality_range: got %v", caps["quality_range"])
	}
	if presets, _ := caps["presets"].([]string); len(presets) != len(PresetNames()) {
		t.Errorf("presets: got %v", caps["presets"])
	}
}
