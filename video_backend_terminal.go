// video_backend_terminal.go - ANSI terminal video backend

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unicode"

	"golang.org/x/term"
)

const (
	// Terminals deliver no key-up events, so a pressed key decays back
	// to released after this long without a repeat byte.
	terminalKeyHold   = 150 * time.Millisecond
	terminalKeySweep  = 25 * time.Millisecond
	terminalPollDelay = 5 * time.Millisecond
)

// TerminalOutput renders the framebuffer as 24-bit ANSI half-block rows
// on stdout and reads raw nonblocking stdin for keypad input. Each text
// row carries two pixel rows: the upper-half-block glyph takes its
// foreground from the top pixel and its background from the bottom one.
type TerminalOutput struct {
	started     bool
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64

	keyMap      map[rune]byte
	keyHandler  func(byte, bool)
	resetFn     func()
	keyMutex    sync.Mutex
	keyDown     [NUM_KEYS]bool
	keyDeadline [NUM_KEYS]time.Time

	out          *bufio.Writer
	fd           int
	oldTermState *term.State
	nonblockSet  bool
	stopCh       chan struct{}
	done         chan struct{}
	stopped      sync.Once
}

func NewTerminalOutput(keyMap map[rune]byte) (VideoOutput, error) {
	return &TerminalOutput{
		frameBuffer: make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		keyMap:      keyMap,
		out:         bufio.NewWriterSize(os.Stdout, 64*1024),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}, nil
}

// Start switches the terminal to raw mode, enters the alternate screen
// and begins reading stdin in a goroutine. Escape stops the session.
func (to *TerminalOutput) Start() error {
	if to.started {
		return nil
	}
	to.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(to.fd)
	if err != nil {
		return &VideoError{Operation: "terminal start", Details: "failed to set raw mode", Err: err}
	}
	to.oldTermState = oldState

	if err := syscall.SetNonblock(to.fd, true); err != nil {
		_ = term.Restore(to.fd, to.oldTermState)
		to.oldTermState = nil
		return &VideoError{Operation: "terminal start", Details: "failed to set nonblocking stdin", Err: err}
	}
	to.nonblockSet = true

	// Alternate screen, hidden cursor.
	fmt.Fprint(to.out, "\x1b[?1049h\x1b[?25l\x1b[2J")
	to.out.Flush()

	to.started = true
	go to.readInput()
	go to.decayKeys()
	return nil
}

func (to *TerminalOutput) readInput() {
	defer close(to.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-to.stopCh:
			return
		default:
		}

		n, err := syscall.Read(to.fd, buf)
		if n > 0 {
			to.routeByte(buf[0])
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(terminalPollDelay)
			continue
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(terminalPollDelay)
		}
	}
}

func (to *TerminalOutput) routeByte(b byte) {
	if b == 0x1B { // Escape quits the session
		if activeMachine != nil {
			activeMachine.Stop()
		}
		return
	}
	if b == 0x12 { // Ctrl-R hard reset
		to.bufferMutex.RLock()
		fn := to.resetFn
		to.bufferMutex.RUnlock()
		if fn != nil {
			fn()
		}
		return
	}

	chip, ok := to.keyMap[unicode.ToLower(rune(b))]
	if !ok {
		return
	}

	to.keyMutex.Lock()
	wasDown := to.keyDown[chip]
	to.keyDown[chip] = true
	to.keyDeadline[chip] = time.Now().Add(terminalKeyHold)
	to.keyMutex.Unlock()

	if !wasDown {
		to.emitKey(chip, true)
	}
}

// decayKeys releases keys whose hold window expired.
func (to *TerminalOutput) decayKeys() {
	ticker := time.NewTicker(terminalKeySweep)
	defer ticker.Stop()
	for {
		select {
		case <-to.stopCh:
			return
		case now := <-ticker.C:
			var released []byte
			to.keyMutex.Lock()
			for i := range to.keyDown {
				if to.keyDown[i] && now.After(to.keyDeadline[i]) {
					to.keyDown[i] = false
					released = append(released, byte(i))
				}
			}
			to.keyMutex.Unlock()
			for _, chip := range released {
				to.emitKey(chip, false)
			}
		}
	}
}

func (to *TerminalOutput) emitKey(chip byte, down bool) {
	to.bufferMutex.RLock()
	handler := to.keyHandler
	to.bufferMutex.RUnlock()
	if handler != nil {
		handler(chip, down)
	}
}

func (to *TerminalOutput) Stop() error {
	to.stopped.Do(func() {
		close(to.stopCh)
		to.started = false

		fmt.Fprint(to.out, "\x1b[0m\x1b[?25h\x1b[?1049l")
		to.out.Flush()

		if to.nonblockSet {
			_ = syscall.SetNonblock(to.fd, false)
			to.nonblockSet = false
		}
		if to.oldTermState != nil {
			_ = term.Restore(to.fd, to.oldTermState)
			to.oldTermState = nil
		}
	})
	return nil
}

func (to *TerminalOutput) Close() error {
	return to.Stop()
}

func (to *TerminalOutput) IsStarted() bool {
	return to.started
}

func (to *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	// Cell size is fixed by the terminal font; scale does not apply.
	return nil
}

func (to *TerminalOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       DISPLAY_WIDTH,
		Height:      DISPLAY_HEIGHT,
		Scale:       1,
		RefreshRate: FRAME_RATE,
	}
}

func (to *TerminalOutput) UpdateFrame(buffer []byte) error {
	to.bufferMutex.Lock()
	copy(to.frameBuffer, buffer)
	to.bufferMutex.Unlock()
	atomic.AddUint64(&to.frameCount, 1)
	return to.render()
}

// render repaints the whole grid from the cursor home position. Color
// escape sequences are only emitted when the color pair changes, which
// keeps a full 64x32 frame under a few kilobytes.
func (to *TerminalOutput) render() error {
	to.bufferMutex.RLock()
	defer to.bufferMutex.RUnlock()

	fmt.Fprint(to.out, "\x1b[H")
	var lastFg, lastBg uint32 = 1 << 24, 1 << 24

	for y := 0; y < DISPLAY_HEIGHT; y += 2 {
		for x := 0; x < DISPLAY_WIDTH; x++ {
			top := to.pixelColor(x, y)
			bottom := to.pixelColor(x, y+1)
			if top != lastFg {
				fmt.Fprintf(to.out, "\x1b[38;2;%d;%d;%dm", top>>16&0xFF, top>>8&0xFF, top&0xFF)
				lastFg = top
			}
			if bottom != lastBg {
				fmt.Fprintf(to.out, "\x1b[48;2;%d;%d;%dm", bottom>>16&0xFF, bottom>>8&0xFF, bottom&0xFF)
				lastBg = bottom
			}
			to.out.WriteString("▀")
		}
		to.out.WriteString("\x1b[0m\r\n")
		lastFg, lastBg = 1<<24, 1<<24
	}
	return to.out.Flush()
}

func (to *TerminalOutput) pixelColor(x, y int) uint32 {
	i := (y*DISPLAY_WIDTH + x) * 4
	return uint32(to.frameBuffer[i])<<16 | uint32(to.frameBuffer[i+1])<<8 | uint32(to.frameBuffer[i+2])
}

func (to *TerminalOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&to.frameCount)
}

func (to *TerminalOutput) GetRefreshRate() int {
	return FRAME_RATE
}

func (to *TerminalOutput) SetKeyHandler(fn func(byte, bool)) {
	to.bufferMutex.Lock()
	to.keyHandler = fn
	to.bufferMutex.Unlock()
}

func (to *TerminalOutput) SetHardResetHandler(fn func()) {
	to.bufferMutex.Lock()
	to.resetFn = fn
	to.bufferMutex.Unlock()
}
