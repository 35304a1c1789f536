package framebuf

import "sync"

// Stats keeps running averages for the stream path. Each sample is
// folded in as avg = (avg + v) / 2.
type Stats struct {
	mu        sync.Mutex
	frameSize float64
	fps       float64
}

func (s *Stats) RecordFrameSize(n int) {
	s.mu.Lock()
	s.frameSize = (s.frameSize + float64(n)) / 2
	s.mu.Unlock()
}

func (s *Stats) RecordFPS(fps float64) {
	s.mu.Lock()
	s.fps = (s.fps + fps) / 2
	s.mu.Unlock()
}

// AverageFrameSize returns the running frame size in bytes.
func (s *Stats) AverageFrameSize() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameSize
}

// AverageFPS returns the running frame rate.
func (s *Stats) AverageFPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

// Reset clears both averages, typically when a stream starts.
func (s *Stats) Reset() {
	s.mu.Lock()
	s.frameSize, s.fps = 0, 0
	s.mu.Unlock()
}
