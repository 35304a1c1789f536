package v4l2

import (
	"testing"

	"github.com/teslashibe/go-printcam/pkg/camera"
)

func TestQuality(t *testing.T) {
	tests := []struct {
		in   int
		want int32
	}{
		{10, 100},
		{63, 10},
		{5, 100},
		{80, 10},
	}
	for _, tt := range tests {
		if got := quality(tt.in, 0, 100); got != tt.want {
			t.Errorf("quality(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
	if quality(20, 0, 100) <= quality(30, 0, 100) {
		t.Error("lower setting must give higher JPEG quality")
	}
}

func TestLevel_ScalesToRange(t *testing.T) {
	tests := []struct {
		in       int
		min, max int32
		want     int32
	}{
		{-2, 0, 255, 0},
		{2, 0, 255, 255},
		{0, 0, 256, 128},
		{-2, -64, 64, -64},
		{1, -64, 64, 32},
		{9, -64, 64, 64},
		{1, 5, 5, 5},
	}
	for _, tt := range tests {
		if got := level(tt.in, tt.min, tt.max); got != tt.want {
			t.Errorf("level(%d, %d, %d): got %d, want %d", tt.in, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestControls_Mapping(t *testing.T) {
	if _, ok := controls[camera.ParamDCW]; ok {
		t.Error("DCW has no V4L2 control")
	}
	m, ok := controls[camera.ParamExposureCtrl]
	if !ok {
		t.Fatal("exposure control not mapped")
	}
	if got := m.conv(1, 0, 3); got != exposureAperture {
		t.Errorf("auto exposure on: got %d, want %d", got, exposureAperture)
	}
	if got := m.conv(0, 0, 3); got != exposureManual {
		t.Errorf("auto exposure off: got %d, want %d", got, exposureManual)
	}
	if m := controls[camera.ParamHMirror]; m.id != cidHFlip || m.conv(1, 0, 1) != 1 {
		t.Error("hmirror mapping")
	}
	if m := controls[camera.ParamAGCGain]; m.conv(camera.MaxAGCGain, 0, 100) != 100 {
		t.Error("agc gain should reach the control maximum")
	}
}
