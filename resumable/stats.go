package resumable

import (
	"time"
)

// Stats tracks what a session transferred.
type Stats struct {
	sum            time.Duration
	uploadedChunks int
	skippedChunks  int
	bytesSent      int64
}

// NewStats creates a new Stats instance.
func NewStats() *Stats {
	return &Stats{}
}

// Update records a successful chunk upload.
func (s *Stats) Update(d time.Duration, size int64) {
	s.sum += d
	s.uploadedChunks++
	s.bytesSent += size
}

// Skip records a chunk the server already had.
func (s *Stats) Skip() {
	s.skippedChunks++
}

// Average returns the average upload duration for uploaded chunks.
func (s *Stats) Average() time.Duration {
	if s.uploadedChunks == 0 {
		return 0
	}
	return s.sum / time.Duration(s.uploadedChunks)
}

// UploadedCount returns the number of uploaded chunks.
func (s *Stats) UploadedCount() int {
	return s.uploadedChunks
}

// SkippedCount returns the number of chunks the server already had.
func (s *Stats) SkippedCount() int {
	return s.skippedChunks
}

// BytesSent returns the number of file bytes uploaded.
func (s *Stats) BytesSent() int64 {
	return s.bytesSent
}

// TotalDuration returns the sum of all upload durations.
func (s *Stats) TotalDuration() time.Duration {
	return s.sum
}
