/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Command cadmium-run is a headless exerciser for the chip8 engine: it
// loads a ROM, runs it for a fixed number of frames against a KeyHost
// with no keys pressed, and prints the resulting screen as
// ASCII art plus the final cpuState. It has no rendering, no assembler,
// and no networking, per the engine's own Non-goals; it exists only to
// drive the Host contract from outside a GUI, the way
// massung-CHIP-8/main.go drives its SDL host but without SDL.
package main

import (
	"flag"
	"fmt"
	"os"

	"cadmium/chip8"
)

var variantFlag = map[string]chip8.VariantID{
	"chip8":        chip8.VariantCHIP8,
	"chip10":       chip8.VariantCHIP10,
	"chip8e":       chip8.VariantCHIP8E,
	"chip8x":       chip8.VariantCHIP8X,
	"chip48":       chip8.VariantCHIP48,
	"schip10":      chip8.VariantSCHIP10,
	"schip11":      chip8.VariantSCHIP11,
	"schipc":       chip8.VariantSCHIPC,
	"schip-modern": chip8.VariantSCHIPModern,
	"megachip":     chip8.VariantMegaChip,
	"xochip":       chip8.VariantXOChip,
}

func main() {
	variant := flag.String("variant", "chip8", "behavior base preset to run the ROM under")
	frames := flag.Int("frames", 60, "number of frames to execute before printing the screen")
	trace := flag.Bool("trace", false, "print the last 20 dispatched instructions before exiting")
	flag.Parse()

	id, ok := variantFlag[*variant]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown variant %q\n", *variant)
		os.Exit(1)
	}

	path := flag.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: cadmium-run [flags] rom-file")
		flag.PrintDefaults()
		os.Exit(1)
	}

	program, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	host := chip8.NewKeyHost()
	m := chip8.NewMachine(id, host)
	if *trace {
		m.EnableTrace(20)
	}
	if err := m.LoadROM(program, -1); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i := 0; i < *frames; i++ {
		m.ExecuteFrame()
		if m.CPUState() == chip8.StateError {
			break
		}
	}

	printScreen(m)
	fmt.Printf("cycles=%d frames=%d cpuState=%s execMode=%s\n", m.Cycles(), m.Frames(), m.CPUState(), m.ExecMode())
	if m.CPUState() == chip8.StateError {
		fmt.Println(m.ErrorMessage())
	}

	if *trace {
		for _, line := range m.TraceWindow(20) {
			fmt.Println(line)
		}
	}
}

// printScreen renders the screen plane as ASCII art: '#' for a lit
// pixel (any plane set), '.' for blank.
func printScreen(m *chip8.Machine) {
	w, h := m.ScreenSize()
	for y := 0; y < h; y++ {
		row := make([]byte, w)
		for x := 0; x < w; x++ {
			if m.ScreenPixel(x, y) != 0 {
				row[x] = '#'
			} else {
				row[x] = '.'
			}
		}
		fmt.Println(string(row))
	}
}
