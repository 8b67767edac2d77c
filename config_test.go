package main

import "testing"

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
		ok   bool
	}{
		{"#FFFFFF", 0xFFFFFF, true},
		{"121212", 0x121212, true},
		{"#00ff00", 0x00FF00, true},
		{"#FFF", 0, false},
		{"#GGGGGG", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseColor(%q) error = %v, ok = %v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseColor(%q) = 0x%06X, want 0x%06X", tc.in, got, tc.want)
		}
	}
}

func TestParseKeyLayoutDefault(t *testing.T) {
	keyMap, err := ParseKeyLayout(DEFAULT_KEY_LAYOUT)
	if err != nil {
		t.Fatalf("ParseKeyLayout: %v", err)
	}
	if len(keyMap) != NUM_KEYS {
		t.Fatalf("map has %d entries, want %d", len(keyMap), NUM_KEYS)
	}

	// Spot-check the classic QWERTY positions.
	checks := map[rune]byte{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
	for r, want := range checks {
		if got := keyMap[r]; got != want {
			t.Errorf("key %q maps to 0x%X, want 0x%X", r, got, want)
		}
	}
}

func TestParseKeyLayoutValidation(t *testing.T) {
	if _, err := ParseKeyLayout("1234"); err == nil {
		t.Error("short layout should fail")
	}
	if _, err := ParseKeyLayout("1134qwerasdfzxcv"); err == nil {
		t.Error("duplicate key should fail")
	}
	// Case is folded before the duplicate check.
	if _, err := ParseKeyLayout("1234QWERasdfzxcv"); err != nil {
		t.Errorf("mixed case layout should parse: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CycleRate != DEFAULT_CYCLE_RATE {
		t.Errorf("CycleRate = %d, want %d", cfg.CycleRate, DEFAULT_CYCLE_RATE)
	}
	if !cfg.Quirks.ShiftSourceVY {
		t.Error("ShiftSourceVY should default on")
	}
	if cfg.Quirks.IndexOverflowSetsVF {
		t.Error("IndexOverflowSetsVF should default off")
	}
	if cfg.KeyMap['x'] != 0x0 {
		t.Error("default key map missing")
	}
}
