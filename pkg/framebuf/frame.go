// Package framebuf arbitrates exclusive access to the single hardware
// frame buffer shared by the photo and stream paths.
package framebuf

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MinFrameLen is the length a frame must exceed to be considered whole.
	MinFrameLen = 100

	// ControlByteOffset is where a well-formed payload carries 0x00.
	ControlByteOffset = 15
)

// Frame is one captured image payload.
type Frame struct {
	ID        uuid.UUID // assigned once the frame passes validation
	Data      []byte
	Width     int
	Height    int
	Timestamp time.Time

	// Handle is private to the Pool that produced the frame.
	Handle any
}

// Len returns the payload length.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// ControlByte returns the byte at ControlByteOffset, or 0xFF when the
// payload is too short to have one.
func (f *Frame) ControlByte() byte {
	if f.Len() <= ControlByteOffset {
		return 0xFF
	}
	return f.Data[ControlByteOffset]
}

// Valid reports whether the frame is long enough and has a clear control
// byte. Corrupt captures from the sensor fail one or both checks.
func (f *Frame) Valid() bool {
	return f.Len() > MinFrameLen && f.ControlByte() == 0x00
}

// CopyTo deep-copies f into out, reusing out's buffer where it can.
// The pool handle is not copied.
func (f *Frame) CopyTo(out *Frame) {
	out.ID = f.ID
	out.Data = append(out.Data[:0], f.Data...)
	out.Width = f.Width
	out.Height = f.Height
	out.Timestamp = f.Timestamp
	out.Handle = nil
}

// Reset empties the frame.
func (f *Frame) Reset() {
	*f = Frame{}
}
