// cmd/waveform/main.go
// Scenario runner with trace capture: steps the core through a loopback
// transfer, dumps a VCD of the interesting 1-bit signals and optionally
// renders them to a PNG.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/jangala-dev/uartsim/uartsim"
)

var (
	divisor = flag.Uint("divisor", 2, "baud divisor")
	data    = flag.String("data", "55,a5", "comma-separated hex bytes to send")
	vcdPath = flag.String("vcd", "uartsim.vcd", "VCD output path")
	pngPath = flag.String("png", "", "optional PNG render path")
)

var signalNames = []string{
	"tx_out", "rx_in", "baud_tick",
	"int_tx_empty", "int_rx_ready", "int_overrun",
}

func parseBytes(s string) ([]byte, error) {
	var out []byte
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad byte %q: %v", f, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func main() {
	flag.Parse()
	div := int(*divisor)

	payload, err := parseBytes(*data)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Create(*vcdPath)
	if err != nil {
		log.Fatalf("create vcd: %v", err)
	}
	defer f.Close()
	vcd, err := newVCDWriter(f, signalNames)
	if err != nil {
		log.Fatal(err)
	}

	// trace keeps the per-cycle levels for the PNG render; the VCD is
	// written as the scenario runs.
	var trace [][]bool
	u := uartsim.New()
	u.Trace = func(s uartsim.Snapshot) {
		levels := []bool{
			s.TxLine, s.RxLine, s.Tick,
			s.IntTxEmpty, s.IntRxReady, s.IntOverrun,
		}
		vcd.sample(s.Cycle, levels)
		trace = append(trace, levels)
	}

	u.WriteReg(uartsim.RegBaudDiv, uint32(div))
	u.WriteReg(uartsim.RegCtrl, uartsim.CtrlEnable|uartsim.CtrlLoopback)
	u.WriteReg(uartsim.RegIntEnable, uartsim.IntTxEmpty|uartsim.IntRxReady)

	limit := 4 * uartsim.FrameCycles(div)
	for _, b := range payload {
		u.WriteReg(uartsim.RegTxData, uint32(b))
		ok := u.RunUntil(limit, func() bool {
			return u.ReadReg(uartsim.RegStatus)&uartsim.StatusRxFifoEmpty == 0
		})
		if !ok {
			log.Fatalf("timeout waiting for 0x%02x", b)
		}
		got := byte(u.ReadReg(uartsim.RegRxData))
		if got != b {
			log.Fatalf("loopback mismatch: got 0x%02x want 0x%02x", got, b)
		}
	}
	u.Run(4 * 16 * div) // a few idle bit times of tail

	if err := vcd.close(u.Cycle()); err != nil {
		log.Fatalf("write vcd: %v", err)
	}
	fmt.Printf("wrote %s (%d cycles, %d bytes looped)\n", *vcdPath, u.Cycle(), len(payload))

	if *pngPath != "" {
		if err := renderPNG(*pngPath, trace); err != nil {
			log.Fatalf("render png: %v", err)
		}
		fmt.Printf("wrote %s\n", *pngPath)
	}
}

// renderPNG draws each recorded signal as a step waveform, one row per
// signal.
func renderPNG(path string, trace [][]bool) error {
	const (
		rowH   = 48
		margin = 80
		high   = 10
		low    = rowH - 14
	)
	if len(trace) == 0 {
		return fmt.Errorf("empty trace")
	}
	width := 1600
	scale := float64(width-margin) / float64(len(trace))
	height := rowH * len(signalNames)

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for row, name := range signalNames {
		y0 := float64(row * rowH)
		dc.SetRGB(0.4, 0.4, 0.4)
		dc.DrawString(name, 4, y0+float64(rowH)/2)

		dc.SetRGB(0, 0.2, 0.6)
		dc.SetLineWidth(1.2)
		level := func(v bool) float64 {
			if v {
				return y0 + high
			}
			return y0 + low
		}
		prev := trace[0][row]
		segStart := 0
		for c := 1; c <= len(trace); c++ {
			if c < len(trace) && trace[c][row] == prev {
				continue
			}
			x0 := float64(margin) + float64(segStart)*scale
			x1 := float64(margin) + float64(c)*scale
			dc.DrawLine(x0, level(prev), x1, level(prev))
			if c < len(trace) {
				dc.DrawLine(x1, level(prev), x1, level(trace[c][row]))
				prev = trace[c][row]
				segStart = c
			}
		}
		dc.Stroke()
	}
	return dc.SavePNG(path)
}
