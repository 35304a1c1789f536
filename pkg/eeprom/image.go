package eeprom

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Image is a RAM-shadowed storage region. Writes land in memory and Commit
// persists the whole region to its file, if one is attached, using a
// temp-file-and-rename so a crash never leaves a torn image on disk.
type Image struct {
	mu    sync.Mutex
	data  []byte
	path  string
	dirty bool
}

// NewImage returns a blank, memory-only image of the given size.
func NewImage(size int) *Image {
	data := make([]byte, size)
	for i := range data {
		data[i] = Erased
	}
	return &Image{data: data}
}

// OpenImage returns an image backed by the file at path. A missing file
// yields a blank image that is created on the first Commit. A file of a
// different size is truncated or padded with erased bytes.
func OpenImage(path string, size int) (*Image, error) {
	img := NewImage(size)
	img.path = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("eeprom: create directory: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return img, nil
		}
		return nil, fmt.Errorf("eeprom: read image: %w", err)
	}
	copy(img.data, raw)
	return img, nil
}

// Size returns the capacity in bytes.
func (m *Image) Size() int {
	return len(m.data)
}

// Path returns the backing file, or "" for a memory-only image.
func (m *Image) Path() string {
	return m.path
}

// Read fills p with the bytes starting at addr.
func (m *Image) Read(addr int, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkRange(len(m.data), addr, len(p)); err != nil {
		return err
	}
	copy(p, m.data[addr:])
	return nil
}

// Write stores p starting at addr in the RAM shadow.
func (m *Image) Write(addr int, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkRange(len(m.data), addr, len(p)); err != nil {
		return err
	}
	copy(m.data[addr:], p)
	m.dirty = true
	return nil
}

// Commit persists the image to its file. It is a no-op for memory-only
// images and when nothing changed since the last commit.
func (m *Image) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty || m.path == "" {
		m.dirty = false
		return nil
	}

	tmpPath := m.path + ".tmp"
	if err := os.WriteFile(tmpPath, m.data, 0644); err != nil {
		return fmt.Errorf("eeprom: write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("eeprom: rename temp file: %w", err)
	}

	m.dirty = false
	return nil
}

// Erase resets every byte to Erased. The change is pending until Commit.
func (m *Image) Erase() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.data {
		m.data[i] = Erased
	}
	m.dirty = true
}

// Bytes returns a copy of the current contents.
func (m *Image) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}
