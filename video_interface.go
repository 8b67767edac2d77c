// video_interface.go - video backend interface for Cobalt8

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import "fmt"

// VideoError provides detailed error context for video operations
type VideoError struct {
	Operation string // What operation was being attempted
	Details   string // Additional error context
	Err       error  // Underlying error if any
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

// DisplayConfig contains backend-independent display configuration.
// Width and Height are always the CHIP-8 grid; Scale is the integer
// upscale applied by the backend.
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int
	RefreshRate int // Target refresh rate in Hz
	Title       string
	VSync       bool
}

// VideoOutput is the minimal interface the machine drives once per
// frame. Backends receive raw RGBA pixels for the 64x32 grid and are
// responsible for scaling and presentation; they deliver host key events
// back through the key handler and hard resets through the reset handler.
type VideoOutput interface {
	// Lifecycle management
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error // Takes raw RGBA pixels only

	GetFrameCount() uint64
	GetRefreshRate() int

	// Input and control callbacks
	SetKeyHandler(fn func(key byte, down bool))
	SetHardResetHandler(fn func())
}

// Predefined video backend types
const (
	VIDEO_BACKEND_EBITEN   = iota // Pure Go Ebiten windowed backend
	VIDEO_BACKEND_TERMINAL        // ANSI half-block rendering to stdout
	VIDEO_BACKEND_HEADLESS        // Frame-counting no-op, used by tests
)

// NewVideoOutput creates a new video output instance using the specified
// backend. The key map translates host key runes to keypad indices.
func NewVideoOutput(backend int, keyMap map[rune]byte) (VideoOutput, error) {
	switch backend {
	case VIDEO_BACKEND_EBITEN:
		return NewEbitenOutput(keyMap)
	case VIDEO_BACKEND_TERMINAL:
		return NewTerminalOutput(keyMap)
	case VIDEO_BACKEND_HEADLESS:
		return NewHeadlessOutput(), nil
	}
	return nil, &VideoError{
		Operation: "backend creation",
		Details:   fmt.Sprintf("unknown backend type: %d", backend),
	}
}

// ParseVideoBackend maps the -video flag value to a backend constant.
func ParseVideoBackend(name string) (int, error) {
	switch name {
	case "ebiten", "":
		return VIDEO_BACKEND_EBITEN, nil
	case "terminal":
		return VIDEO_BACKEND_TERMINAL, nil
	case "headless":
		return VIDEO_BACKEND_HEADLESS, nil
	}
	return 0, &VideoError{
		Operation: "backend selection",
		Details:   fmt.Sprintf("unknown backend name: %q", name),
	}
}
