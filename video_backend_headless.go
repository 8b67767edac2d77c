// video_backend_headless.go - frame-counting no-op video backend

package main

import (
	"sync"
	"sync/atomic"
)

// HeadlessOutput satisfies VideoOutput without presenting anything.
// Tests and benchmarks drive the machine through it and inspect the last
// delivered frame.
type HeadlessOutput struct {
	started    bool
	config     DisplayConfig
	frameCount uint64

	mutex      sync.Mutex
	lastFrame  []byte
	keyHandler func(byte, bool)
	resetFn    func()
}

func NewHeadlessOutput() *HeadlessOutput {
	return &HeadlessOutput{
		config: DisplayConfig{
			Width:       DISPLAY_WIDTH,
			Height:      DISPLAY_HEIGHT,
			Scale:       1,
			RefreshRate: FRAME_RATE,
		},
	}
}

func (h *HeadlessOutput) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessOutput) Stop() error {
	h.started = false
	return nil
}

func (h *HeadlessOutput) Close() error {
	h.started = false
	return nil
}

func (h *HeadlessOutput) IsStarted() bool {
	return h.started
}

func (h *HeadlessOutput) SetDisplayConfig(config DisplayConfig) error {
	h.config = config
	return nil
}

func (h *HeadlessOutput) GetDisplayConfig() DisplayConfig {
	return h.config
}

func (h *HeadlessOutput) UpdateFrame(buffer []byte) error {
	h.mutex.Lock()
	if len(h.lastFrame) != len(buffer) {
		h.lastFrame = make([]byte, len(buffer))
	}
	copy(h.lastFrame, buffer)
	h.mutex.Unlock()
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

// LastFrame returns a copy of the most recently delivered RGBA frame.
func (h *HeadlessOutput) LastFrame() []byte {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return append([]byte(nil), h.lastFrame...)
}

func (h *HeadlessOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&h.frameCount)
}

func (h *HeadlessOutput) GetRefreshRate() int {
	if h.config.RefreshRate == 0 {
		return FRAME_RATE
	}
	return h.config.RefreshRate
}

func (h *HeadlessOutput) SetKeyHandler(fn func(byte, bool)) {
	h.mutex.Lock()
	h.keyHandler = fn
	h.mutex.Unlock()
}

func (h *HeadlessOutput) SetHardResetHandler(fn func()) {
	h.mutex.Lock()
	h.resetFn = fn
	h.mutex.Unlock()
}

// PressKey injects a host key event, standing in for real input in tests.
func (h *HeadlessOutput) PressKey(key byte, down bool) {
	h.mutex.Lock()
	fn := h.keyHandler
	h.mutex.Unlock()
	if fn != nil {
		fn(key, down)
	}
}
