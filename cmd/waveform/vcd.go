// cmd/waveform/vcd.go
// Minimal value-change-dump writer, enough for the handful of 1-bit
// signals the scenario runner records.

package main

import (
	"bufio"
	"fmt"
	"io"
)

type vcdSignal struct {
	name string
	code byte
	prev bool
	init bool
}

type vcdWriter struct {
	w       *bufio.Writer
	signals []*vcdSignal
}

func newVCDWriter(w io.Writer, names []string) (*vcdWriter, error) {
	vw := &vcdWriter{w: bufio.NewWriter(w)}
	fmt.Fprintln(vw.w, "$timescale 1ns $end")
	fmt.Fprintln(vw.w, "$scope module uartsim $end")
	for i, name := range names {
		s := &vcdSignal{name: name, code: byte('!' + i)}
		vw.signals = append(vw.signals, s)
		fmt.Fprintf(vw.w, "$var wire 1 %c %s $end\n", s.code, s.name)
	}
	fmt.Fprintln(vw.w, "$upscope $end")
	fmt.Fprintln(vw.w, "$enddefinitions $end")
	return vw, nil
}

// sample records one cycle's worth of levels, emitting only changes.
func (vw *vcdWriter) sample(cycle uint64, levels []bool) {
	wroteTime := false
	for i, s := range vw.signals {
		if s.init && s.prev == levels[i] {
			continue
		}
		if !wroteTime {
			fmt.Fprintf(vw.w, "#%d\n", cycle)
			wroteTime = true
		}
		v := '0'
		if levels[i] {
			v = '1'
		}
		fmt.Fprintf(vw.w, "%c%c\n", v, s.code)
		s.prev = levels[i]
		s.init = true
	}
}

func (vw *vcdWriter) close(lastCycle uint64) error {
	fmt.Fprintf(vw.w, "#%d\n", lastCycle)
	return vw.w.Flush()
}
