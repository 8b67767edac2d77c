// machine.go - cycle driver wiring the CPU to its peripherals

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const (
	FRAME_RATE     = 60
	FRAME_INTERVAL = time.Second / FRAME_RATE
	TIMER_INTERVAL = time.Second / TIMER_RATE

	// A frame delta above this means the host stalled (debugger, window
	// drag); running the backlog would fast-forward the program, so the
	// excess is discarded instead.
	MAX_FRAME_DELTA = 250 * time.Millisecond
)

// activeMachine lets backend callbacks (window close, terminal escape)
// stop the session without threading the machine through every handler.
var activeMachine *Machine

// Machine owns the full emulation session: CPU, memory, display, keypad,
// timers, and the frame loop that drives them. Instructions run at the
// configured cycle rate while timer decay stays pinned to 60 Hz; the two
// cadences accumulate wall-clock time independently so changing the CPU
// speed never changes timer behavior.
type Machine struct {
	cpu     *CPU
	mem     *Memory
	display *DisplayBuffer
	keypad  *Keypad
	video   VideoOutput
	beeper  *Beeper
	cfg     Config

	program  []byte
	frameBuf []byte

	lastFrame  time.Time
	cycleDebt  float64
	timerDebt  time.Duration
	frameMutex sync.Mutex
	fault      error

	running atomic.Bool
}

func NewMachine(cfg Config) (*Machine, error) {
	mem := NewMemory()
	display := NewDisplayBuffer()
	keypad := NewKeypad()

	video, err := NewVideoOutput(cfg.VideoBackend, cfg.KeyMap)
	if err != nil {
		return nil, err
	}

	m := &Machine{
		cpu:      NewCPU(mem, display, keypad, cfg.Quirks),
		mem:      mem,
		display:  display,
		keypad:   keypad,
		video:    video,
		cfg:      cfg,
		frameBuf: make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
	}
	if !cfg.Mute {
		m.beeper = NewBeeper(SAMPLE_RATE)
	}

	video.SetKeyHandler(keypad.SetKey)
	video.SetHardResetHandler(func() { m.Reset() })
	return m, nil
}

// Beeper exposes the tone generator so the audio backend can pull
// samples from it. Nil when muted.
func (m *Machine) Beeper() *Beeper {
	return m.beeper
}

// LoadProgram loads a raw ROM image at PROG_START and keeps a copy so
// Reset can restore the session to its just-loaded state.
func (m *Machine) LoadProgram(image []byte) error {
	m.frameMutex.Lock()
	defer m.frameMutex.Unlock()
	if err := m.mem.LoadProgram(image); err != nil {
		return err
	}
	m.program = append([]byte(nil), image...)
	return nil
}

// Reset reinitializes every component to its documented power-on state
// and reloads the last program image. This is the only teardown
// operation a session has.
func (m *Machine) Reset() {
	m.frameMutex.Lock()
	defer m.frameMutex.Unlock()

	m.mem.Reset()
	m.display.Clear()
	m.keypad.Reset()
	m.cpu.Reset()
	m.cycleDebt = 0
	m.timerDebt = 0
	m.fault = nil
	if m.program != nil {
		// Image fitted when first loaded, it still fits now.
		_ = m.mem.LoadProgram(m.program)
	}
}

// Err returns the fault that halted the session, if any.
func (m *Machine) Err() error {
	m.frameMutex.Lock()
	defer m.frameMutex.Unlock()
	return m.fault
}

// RunFrame advances the session by the wall-clock time since the last
// frame: N instruction steps at the configured cycle rate, exactly one
// timer tick per elapsed 1/60 s, then beeper gating and a framebuffer
// push to the video backend. A CPU fault halts stepping permanently and
// is reported once; the window stays up so the diagnostic is readable.
func (m *Machine) RunFrame(now time.Time) error {
	m.frameMutex.Lock()
	defer m.frameMutex.Unlock()

	if m.lastFrame.IsZero() {
		m.lastFrame = now
	}
	elapsed := now.Sub(m.lastFrame)
	m.lastFrame = now
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > MAX_FRAME_DELTA {
		elapsed = MAX_FRAME_DELTA
	}

	if m.fault == nil {
		m.cycleDebt += elapsed.Seconds() * float64(m.cfg.CycleRate)
		for m.cycleDebt >= 1 {
			m.cycleDebt--
			if err := m.cpu.Step(); err != nil {
				m.fault = err
				fmt.Fprintf(os.Stderr, "cobalt8: halted: %v\n", err)
				break
			}
			if m.cpu.WaitingForKey {
				// Waiting costs nothing; drop the rest of this frame's
				// budget instead of spinning through it.
				m.cycleDebt = 0
				break
			}
		}

		m.timerDebt += elapsed
		for m.timerDebt >= TIMER_INTERVAL {
			m.timerDebt -= TIMER_INTERVAL
			m.cpu.TickTimers()
		}
	}

	if m.beeper != nil {
		m.beeper.SetActive(m.fault == nil && m.cpu.SoundActive())
	}

	m.display.RenderRGBA(m.frameBuf, m.cfg.FgColor, m.cfg.BgColor)
	if err := m.video.UpdateFrame(m.frameBuf); err != nil {
		return err
	}
	return m.fault
}

// Run drives frames at FRAME_RATE until Stop is called or the video
// backend goes away. It blocks, so callers that need the current
// goroutine run it last.
func (m *Machine) Run() {
	m.running.Store(true)

	// Backends whose presentation loop can end on its own (window close)
	// expose a done channel; stop the session when it fires so Run never
	// ticks against a dead display.
	if notifier, ok := m.video.(interface{ Done() <-chan struct{} }); ok {
		go func() {
			<-notifier.Done()
			m.Stop()
		}()
	}

	ticker := time.NewTicker(FRAME_INTERVAL)
	defer ticker.Stop()

	for m.running.Load() {
		now := <-ticker.C
		if err := m.RunFrame(now); err != nil {
			if _, isVideo := err.(*VideoError); isVideo {
				fmt.Fprintf(os.Stderr, "cobalt8: %v\n", err)
				return
			}
			// CPU fault: keep presenting frames, stepping has halted.
		}
	}
}

func (m *Machine) Stop() {
	m.running.Store(false)
}

func (m *Machine) IsRunning() bool {
	return m.running.Load()
}
