package main

import "testing"

func TestParseVideoBackend(t *testing.T) {
	cases := []struct {
		name string
		want int
		ok   bool
	}{
		{"ebiten", VIDEO_BACKEND_EBITEN, true},
		{"", VIDEO_BACKEND_EBITEN, true},
		{"terminal", VIDEO_BACKEND_TERMINAL, true},
		{"headless", VIDEO_BACKEND_HEADLESS, true},
		{"sdl", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseVideoBackend(tc.name)
		if tc.ok != (err == nil) {
			t.Errorf("ParseVideoBackend(%q) error = %v, ok = %v", tc.name, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseVideoBackend(%q) = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestNewVideoOutputRejectsUnknownBackend(t *testing.T) {
	_, err := NewVideoOutput(99, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
	if _, ok := err.(*VideoError); !ok {
		t.Errorf("expected *VideoError, got %T", err)
	}
}

func TestHeadlessOutputLifecycle(t *testing.T) {
	out, err := NewVideoOutput(VIDEO_BACKEND_HEADLESS, nil)
	if err != nil {
		t.Fatalf("NewVideoOutput: %v", err)
	}

	if out.IsStarted() {
		t.Error("backend should start stopped")
	}
	if err := out.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !out.IsStarted() {
		t.Error("backend should report started")
	}

	frame := make([]byte, DISPLAY_WIDTH*DISPLAY_HEIGHT*4)
	frame[0] = 0xAB
	if err := out.UpdateFrame(frame); err != nil {
		t.Fatalf("UpdateFrame: %v", err)
	}
	if out.GetFrameCount() != 1 {
		t.Errorf("frame count = %d, want 1", out.GetFrameCount())
	}

	headless := out.(*HeadlessOutput)
	last := headless.LastFrame()
	if len(last) != len(frame) || last[0] != 0xAB {
		t.Error("LastFrame does not match the delivered buffer")
	}

	if err := out.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if out.IsStarted() {
		t.Error("backend should report stopped")
	}
}

func TestHeadlessKeyInjectionReachesHandler(t *testing.T) {
	out := NewHeadlessOutput()

	var gotKey byte
	var gotDown bool
	out.SetKeyHandler(func(key byte, down bool) {
		gotKey, gotDown = key, down
	})

	out.PressKey(0xA, true)
	if gotKey != 0xA || !gotDown {
		t.Errorf("handler saw (0x%X, %v), want (0xA, true)", gotKey, gotDown)
	}
}
