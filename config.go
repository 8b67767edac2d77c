// config.go - runtime configuration surface

package main

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DEFAULT_CYCLE_RATE = 700
	DEFAULT_SCALE      = 16
	DEFAULT_FG_COLOR   = 0xFFFFFF
	DEFAULT_BG_COLOR   = 0x121212
	DEFAULT_KEY_LAYOUT = "1234qwerasdfzxcv"
)

// Quirks reproduces historically ambiguous behavior differences between
// CHIP-8 interpreters. Test ROM suites disagree on these, so they are
// exposed as toggles instead of being picked silently.
type Quirks struct {
	// ShiftSourceVY makes 8xy6/8xyE shift Vy into Vx (COSMAC VIP
	// behavior, the default). When false the shifts operate on Vx in
	// place, as later interpreters and most modern test ROMs expect.
	ShiftSourceVY bool

	// IndexOverflowSetsVF makes Fx1E set VF when I passes 0xFFF, the
	// Amiga-interpreter behavior some ROMs (notably Spacefight 2091)
	// depend on. Off by default.
	IndexOverflowSetsVF bool
}

// Config is the externalized configuration surface: instruction rate,
// palette, key mapping and backend selection. Everything has a default
// so the zero-argument path just runs.
type Config struct {
	CycleRate int // instructions per second
	Scale     int // integer upscale of the 64x32 grid

	FgColor uint32 // 0xRRGGBB
	BgColor uint32 // 0xRRGGBB

	// KeyMap translates host key runes to logical keypad indices 0x0-0xF.
	KeyMap map[rune]byte

	Quirks Quirks

	VideoBackend int
	Mute         bool
}

func DefaultConfig() Config {
	keyMap, _ := ParseKeyLayout(DEFAULT_KEY_LAYOUT)
	return Config{
		CycleRate:    DEFAULT_CYCLE_RATE,
		Scale:        DEFAULT_SCALE,
		FgColor:      DEFAULT_FG_COLOR,
		BgColor:      DEFAULT_BG_COLOR,
		KeyMap:       keyMap,
		Quirks:       Quirks{ShiftSourceVY: true},
		VideoBackend: VIDEO_BACKEND_EBITEN,
	}
}

// ParseColor accepts "#RRGGBB" or "RRGGBB" and returns the packed
// 0xRRGGBB value.
func ParseColor(value string) (uint32, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want RRGGBB", value)
	}
	parsed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %v", value, err)
	}
	return uint32(parsed), nil
}

// keypadOrder lists the logical key each layout position maps to. The
// physical pad reads 1 2 3 C / 4 5 6 D / 7 8 9 E / A 0 B F row by row.
var keypadOrder = [NUM_KEYS]byte{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

// ParseKeyLayout turns a 16-rune host layout string (read row by row,
// e.g. "1234qwerasdfzxcv") into a rune-to-keypad-index map.
func ParseKeyLayout(layout string) (map[rune]byte, error) {
	runes := []rune(strings.ToLower(layout))
	if len(runes) != NUM_KEYS {
		return nil, fmt.Errorf("key layout %q: want %d keys, got %d", layout, NUM_KEYS, len(runes))
	}
	keyMap := make(map[rune]byte, NUM_KEYS)
	for i, r := range runes {
		if _, dup := keyMap[r]; dup {
			return nil, fmt.Errorf("key layout %q: duplicate key %q", layout, r)
		}
		keyMap[r] = keypadOrder[i]
	}
	return keyMap, nil
}
