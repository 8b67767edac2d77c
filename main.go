// main.go - Main entry point for the Cobalt8 virtual machine

/*
Cobalt8 - a CHIP-8 virtual machine
https://github.com/cobaltvm/cobalt8
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func boilerPlate() {
	fmt.Println("Cobalt8 - a CHIP-8 virtual machine")
	fmt.Println("https://github.com/cobaltvm/cobalt8")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	boilerPlate()

	var (
		videoName string
		cycleRate int
		scale     int
		fgName    string
		bgName    string
		keyLayout string
		shiftVX   bool
		indexVF   bool
		mute      bool
	)

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&videoName, "video", "ebiten", "Video backend: ebiten, terminal or headless")
	flagSet.IntVar(&cycleRate, "cycle-rate", DEFAULT_CYCLE_RATE, "Instructions per second")
	flagSet.IntVar(&scale, "scale", DEFAULT_SCALE, "Window upscale factor (ebiten backend)")
	flagSet.StringVar(&fgName, "fg", "", "Foreground color as RRGGBB hex")
	flagSet.StringVar(&bgName, "bg", "", "Background color as RRGGBB hex")
	flagSet.StringVar(&keyLayout, "keys", DEFAULT_KEY_LAYOUT, "16-key host layout, rows of the 123C/456D/789E/A0BF pad")
	flagSet.BoolVar(&shiftVX, "shift-vx", false, "Quirk: 8xy6/8xyE shift Vx in place instead of Vy")
	flagSet.BoolVar(&indexVF, "index-vf", false, "Quirk: Fx1E sets VF when I overflows past 0xFFF")
	flagSet.BoolVar(&mute, "mute", false, "Disable the buzzer")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./cobalt8 [options] rom.ch8")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			flagSet.Usage()
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	romPath := flagSet.Arg(0)
	if romPath == "" {
		flagSet.Usage()
		os.Exit(1)
	}

	cfg := DefaultConfig()
	cfg.Scale = scale
	cfg.Mute = mute
	cfg.Quirks = Quirks{
		ShiftSourceVY:       !shiftVX,
		IndexOverflowSetsVF: indexVF,
	}
	if cycleRate > 0 {
		cfg.CycleRate = cycleRate
	}

	backend, err := ParseVideoBackend(videoName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	cfg.VideoBackend = backend

	if fgName != "" {
		if cfg.FgColor, err = ParseColor(fgName); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	if bgName != "" {
		if cfg.BgColor, err = ParseColor(bgName); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	if keyLayout != DEFAULT_KEY_LAYOUT {
		if cfg.KeyMap, err = ParseKeyLayout(keyLayout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	machine, err := NewMachine(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}
	activeMachine = machine

	image, err := os.ReadFile(romPath)
	if err != nil {
		fmt.Printf("Error reading ROM: %v\n", err)
		os.Exit(1)
	}
	if err := machine.LoadProgram(image); err != nil {
		fmt.Printf("Error loading ROM: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d bytes from %s\n", len(image), romPath)

	machine.video.SetDisplayConfig(DisplayConfig{
		Scale: cfg.Scale,
		Title: fmt.Sprintf("Cobalt8 - %s", romPath),
	})

	// Audio is optional: a missing audio device should not keep a ROM
	// from running.
	var audio *OtoPlayer
	if beeper := machine.Beeper(); beeper != nil {
		audio, err = NewOtoPlayer(SAMPLE_RATE)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Audio unavailable, continuing muted: %v\n", err)
		} else {
			audio.SetupPlayer(beeper)
			audio.Start()
		}
	}

	if err := machine.video.Start(); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}

	machine.Run()

	machine.video.Close()
	if audio != nil {
		audio.Close()
	}
	if err := machine.Err(); err != nil {
		os.Exit(1)
	}
}
