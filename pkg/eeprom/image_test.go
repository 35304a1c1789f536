package eeprom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewImage_Blank(t *testing.T) {
	img := NewImage(64)

	if img.Size() != 64 {
		t.Fatalf("Size: got %d, want 64", img.Size())
	}
	buf := make([]byte, 64)
	if err := img.Read(0, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	for i, b := range buf {
		if b != Erased {
			t.Fatalf("byte %d: got 0x%02x, want 0x%02x", i, b, Erased)
		}
	}
}

func TestImage_WriteRead(t *testing.T) {
	img := NewImage(16)

	if err := img.Write(4, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := make([]byte, 5)
	if err := img.Read(3, got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []byte{Erased, 1, 2, 3, Erased}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got 0x%02x, want 0x%02x", i, got[i], want[i])
		}
	}
}

func TestImage_OutOfRange(t *testing.T) {
	img := NewImage(8)

	tests := []struct {
		name string
		addr int
		n    int
	}{
		{"negative address", -1, 1},
		{"past end", 8, 1},
		{"straddles end", 6, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := img.Write(tt.addr, make([]byte, tt.n)); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Write: got %v, want ErrOutOfRange", err)
			}
			if err := img.Read(tt.addr, make([]byte, tt.n)); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Read: got %v, want ErrOutOfRange", err)
			}
		})
	}
}

func TestOpenImage_PersistsOnCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nvs", "config.bin")

	img, err := OpenImage(path, 32)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if err := img.Write(0, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	// Nothing on disk until Commit.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file before Commit, stat err = %v", err)
	}

	if err := img.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	reopened, err := OpenImage(path, 32)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := make([]byte, 5)
	if err := reopened.Read(0, got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestOpenImage_PadsShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	if err := os.WriteFile(path, []byte{0x01, 0x02}, 0644); err != nil {
		t.Fatal(err)
	}

	img, err := OpenImage(path, 4)
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	want := []byte{0x01, 0x02, Erased, Erased}
	got := img.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got 0x%02x, want 0x%02x", i, got[i], want[i])
		}
	}
}

func TestImage_Erase(t *testing.T) {
	img := NewImage(4)
	img.Write(0, []byte{0, 0, 0, 0})
	img.Erase()

	for i, b := range img.Bytes() {
		if b != Erased {
			t.Errorf("byte %d: got 0x%02x after Erase", i, b)
		}
	}
}
