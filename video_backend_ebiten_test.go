package main

import (
	"sync"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestEbitenKeyForRune(t *testing.T) {
	cases := []struct {
		r    rune
		want ebiten.Key
		ok   bool
	}{
		{'1', ebiten.KeyDigit1, true},
		{'0', ebiten.KeyDigit0, true},
		{'q', ebiten.KeyQ, true},
		{'v', ebiten.KeyV, true},
		{'%', 0, false},
		{'é', 0, false},
	}
	for _, tc := range cases {
		got, ok := ebitenKeyForRune(tc.r)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ebitenKeyForRune(%q) = (%v, %v), want (%v, %v)", tc.r, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEbitenBindsFullDefaultLayout(t *testing.T) {
	keyMap, err := ParseKeyLayout(DEFAULT_KEY_LAYOUT)
	if err != nil {
		t.Fatalf("ParseKeyLayout: %v", err)
	}
	out, err := NewEbitenOutput(keyMap)
	if err != nil {
		t.Fatalf("NewEbitenOutput: %v", err)
	}
	eo := out.(*EbitenOutput)
	if len(eo.keyPolls) != NUM_KEYS {
		t.Errorf("bound %d keys, want %d", len(eo.keyPolls), NUM_KEYS)
	}
}

// TestEbitenCountersSafeUnderConcurrency hammers the accessors the
// machine goroutine shares with the render goroutine. Run with the race
// detector this pins down the atomic frame counter and started flag.
func TestEbitenCountersSafeUnderConcurrency(t *testing.T) {
	out, err := NewEbitenOutput(nil)
	if err != nil {
		t.Fatalf("NewEbitenOutput: %v", err)
	}
	eo := out.(*EbitenOutput)
	frame := make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				eo.UpdateFrame(frame)
				eo.GetFrameCount()
				eo.IsStarted()
				eo.Stop()
			}
		}()
	}
	wg.Wait()

	if eo.IsStarted() {
		t.Error("backend should be stopped")
	}
}
