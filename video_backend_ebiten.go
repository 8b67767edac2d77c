// video_backend_ebiten.go - Ebiten video backend for Cobalt8

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type EbitenOutput struct {
	running     atomic.Bool
	window      *ebiten.Image
	width       int
	height      int
	scale       int
	fullscreen  bool
	title       string
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  uint64
	refreshRate int
	vsyncChan   chan struct{}
	done        chan struct{}

	keyMap     map[rune]byte
	keyPolls   []ebitenKeyBinding
	keyStates  [NUM_KEYS]bool
	keyHandler func(byte, bool)

	showStatusBar bool

	hardResetHandler func()
	resetInProgress  atomic.Bool
}

// ebitenKeyBinding pairs one host key with the keypad index it drives.
type ebitenKeyBinding struct {
	key  ebiten.Key
	chip byte
}

func NewEbitenOutput(keyMap map[rune]byte) (VideoOutput, error) {
	eo := &EbitenOutput{
		width:         DISPLAY_WIDTH,
		height:        DISPLAY_HEIGHT,
		scale:         DEFAULT_SCALE,
		title:         "Cobalt8",
		frameBuffer:   make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4),
		refreshRate:   FRAME_RATE,
		vsyncChan:     make(chan struct{}, 1),
		done:          make(chan struct{}),
		keyMap:        keyMap,
		showStatusBar: true,
	}
	eo.buildKeyBindings()
	return eo, nil
}

func (eo *EbitenOutput) buildKeyBindings() {
	eo.keyPolls = eo.keyPolls[:0]
	for r, chip := range eo.keyMap {
		if key, ok := ebitenKeyForRune(r); ok {
			eo.keyPolls = append(eo.keyPolls, ebitenKeyBinding{key: key, chip: chip})
		}
	}
}

// ebitenKeyForRune maps a layout rune to the corresponding host key.
func ebitenKeyForRune(r rune) (ebiten.Key, bool) {
	switch {
	case r >= '0' && r <= '9':
		return ebiten.KeyDigit0 + ebiten.Key(r-'0'), true
	case r >= 'a' && r <= 'z':
		return ebiten.KeyA + ebiten.Key(r-'a'), true
	}
	return 0, false
}

func (eo *EbitenOutput) Start() error {
	if eo.running.Load() {
		return nil
	}
	eo.bufferMutex.Lock()
	eo.done = make(chan struct{})
	eo.bufferMutex.Unlock()
	eo.running.Store(true)
	ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
	ebiten.SetWindowTitle(eo.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	// Without this, IsWindowBeingClosed never reports true and the close
	// button would tear the window down behind the machine's back.
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		defer func() {
			eo.running.Store(false)
			eo.bufferMutex.RLock()
			done := eo.done
			eo.bufferMutex.RUnlock()
			select {
			case <-done:
			default:
				close(done)
			}
		}()
		if err := ebiten.RunGame(eo); err != nil && err != ebiten.Termination {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	<-eo.vsyncChan
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.running.Store(false)
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) Done() <-chan struct{} {
	eo.bufferMutex.RLock()
	done := eo.done
	eo.bufferMutex.RUnlock()
	return done
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running.Load()
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	copy(eo.frameBuffer, data)
	eo.bufferMutex.Unlock()
	return nil
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	if config.Scale > 0 {
		eo.scale = config.Scale
	}
	if config.Title != "" {
		eo.title = config.Title
	}
	if !eo.fullscreen {
		ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:       eo.width,
		Height:      eo.height,
		Scale:       eo.scale,
		RefreshRate: eo.refreshRate,
		Title:       eo.title,
		VSync:       true,
	}
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&eo.frameCount)
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return eo.refreshRate
}

func (eo *EbitenOutput) SetKeyHandler(fn func(byte, bool)) {
	eo.bufferMutex.Lock()
	eo.keyHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) SetHardResetHandler(fn func()) {
	eo.bufferMutex.Lock()
	eo.hardResetHandler = fn
	eo.bufferMutex.Unlock()
}

func (eo *EbitenOutput) Update() error {
	// Check if the window was closed using Ebiten's built-in detection
	if ebiten.IsWindowBeingClosed() {
		if activeMachine != nil {
			activeMachine.Stop()
		}
		return ebiten.Termination
	}

	// Normal update path when window is open
	if !eo.running.Load() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.width*eo.scale, eo.height*eo.scale)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		if eo.resetInProgress.CompareAndSwap(false, true) {
			eo.bufferMutex.RLock()
			handler := eo.hardResetHandler
			eo.bufferMutex.RUnlock()
			if handler != nil {
				go func() {
					defer eo.resetInProgress.Store(false)
					handler()
				}()
			} else {
				eo.resetInProgress.Store(false)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}
	eo.pollKeypad()
	return nil
}

// pollKeypad samples every bound host key and forwards edges to the key
// handler, which feeds the machine's keypad.
func (eo *EbitenOutput) pollKeypad() {
	eo.bufferMutex.RLock()
	handler := eo.keyHandler
	eo.bufferMutex.RUnlock()
	if handler == nil {
		return
	}

	for _, binding := range eo.keyPolls {
		down := ebiten.IsKeyPressed(binding.key)
		if down != eo.keyStates[binding.chip] {
			eo.keyStates[binding.chip] = down
			handler(binding.chip, down)
		}
	}
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	showStatusBar := eo.showStatusBar
	eo.bufferMutex.RUnlock()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(eo.scale), float64(eo.scale))
	screen.DrawImage(eo.window, op)
	if showStatusBar {
		eo.drawStatusBar(screen)
	}

	atomic.AddUint64(&eo.frameCount, 1)
	select {
	case eo.vsyncChan <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width * eo.scale, eo.height * eo.scale
}

type statusToken struct {
	name    string
	enabled bool
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func (eo *EbitenOutput) drawStatusBar(screen *ebiten.Image) {
	running := false
	sound := false
	halted := false
	if activeMachine != nil {
		running = activeMachine.IsRunning()
		sound = activeMachine.cpu.SoundActive()
		halted = activeMachine.Err() != nil
	}

	barHeight := 18
	screenH := eo.height * eo.scale
	if barHeight >= screenH {
		return
	}
	y := screenH - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(eo.width*eo.scale), float64(barHeight), color.RGBA{0, 0, 0, 180})

	drawStatusLine(screen, 6, y+13, "CPU", []statusToken{
		{name: "RUN", enabled: running && !halted},
		{name: "|", enabled: false},
		{name: "HALT", enabled: halted},
		{name: "|", enabled: false},
		{name: "SND", enabled: sound},
	})

	legendColor := color.RGBA{160, 160, 160, 255}
	legend := fmt.Sprintf("%.0f FPS  F10 Reset  F11 Fullscreen  F12 Status Bar", ebiten.ActualFPS())
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := eo.width*eo.scale - legendW - 6
	if legendX < 6 {
		legendX = 6
	}
	text.Draw(screen, legend, basicfont.Face7x13, legendX, y+13, legendColor)
}
