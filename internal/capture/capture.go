// Package capture owns the record/idle lifecycle for incoming voice audio.
//
// The microphone itself lives on the client; audio arrives here as a byte
// stream. The session still carries the full lifecycle contract: permission
// check before recording, explicit start/stop transitions, and a finalized
// uniquely-named file under the recordings directory on stop.
package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPermissionDenied       = errors.New("microphone permission denied")
	ErrAlreadyRecording       = errors.New("a recording is already in progress")
	ErrNoActiveRecording      = errors.New("no active recording to stop")
	ErrMissingRecordingOutput = errors.New("finalized recording file not found")
)

// PermissionFunc reports whether recording is allowed. A nil func allows.
type PermissionFunc func() bool

// Session is the Idle -> Recording -> Idle state machine. Starting while
// Recording is rejected without touching the in-progress recording; stopping
// while Idle is rejected explicitly.
type Session struct {
	audioDir   string
	permission PermissionFunc

	mu        sync.Mutex
	recording bool
	tmpPath   string
	tmpFile   *os.File
}

func NewSession(audioDir string, permission PermissionFunc) *Session {
	return &Session{audioDir: audioDir, permission: permission}
}

// Recording reports whether a capture is in progress.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// RequestStart transitions Idle -> Recording and opens a temporary file that
// subsequent Write calls append to.
func (s *Session) RequestStart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		return ErrAlreadyRecording
	}
	if s.permission != nil && !s.permission() {
		return ErrPermissionDenied
	}
	tmpPath := filepath.Join(os.TempDir(), "rec_"+uuid.NewString()+".wav")
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("open temp recording: %w", err)
	}
	s.tmpPath = tmpPath
	s.tmpFile = f
	s.recording = true
	return nil
}

// Write appends a chunk of audio to the in-progress recording.
func (s *Session) Write(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return ErrNoActiveRecording
	}
	if _, err := s.tmpFile.Write(chunk); err != nil {
		return fmt.Errorf("write recording chunk: %w", err)
	}
	return nil
}

// RequestStop transitions Recording -> Idle and finalizes the temporary file
// into a uniquely-named file under the recordings directory, creating the
// directory on first use. Returns the finalized path.
func (s *Session) RequestStop() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return "", ErrNoActiveRecording
	}
	s.recording = false
	tmpPath := s.tmpPath
	if err := s.tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close temp recording: %w", err)
	}
	s.tmpFile = nil
	s.tmpPath = ""

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio directory: %w", err)
	}
	finalPath := filepath.Join(s.audioDir, fmt.Sprintf("audio_%d.wav", time.Now().UnixMilli()))
	if err := os.Rename(tmpPath, finalPath); err != nil {
		// rename fails across filesystems; fall back to copy
		if copyErr := copyFile(tmpPath, finalPath); copyErr != nil {
			return "", fmt.Errorf("finalize recording: %w", copyErr)
		}
		_ = os.Remove(tmpPath)
	}
	if _, err := os.Stat(finalPath); err != nil {
		return "", ErrMissingRecordingOutput
	}
	return finalPath, nil
}

// Abort discards an in-progress recording, for callers abandoning a capture
// (e.g. the client disconnected mid-recording). Idle aborts are no-ops.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.recording {
		return
	}
	s.recording = false
	_ = s.tmpFile.Close()
	_ = os.Remove(s.tmpPath)
	s.tmpFile = nil
	s.tmpPath = ""
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
