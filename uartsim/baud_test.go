package uartsim

import "testing"

func countTicks(g *BaudGenerator, enable bool, divisor uint16, cycles int) int {
	n := 0
	for i := 0; i < cycles; i++ {
		g.Clock(enable, divisor)
		if g.Tick() {
			n++
		}
	}
	return n
}

func TestBaudTickSpacing(t *testing.T) {
	var g BaudGenerator
	const divisor = 4
	const cycles = 1000
	got := countTicks(&g, true, divisor, cycles)
	want := cycles / divisor
	if got < want-1 || got > want+1 {
		t.Fatalf("ticks over %d cycles: got %d want %d±1", cycles, got, want)
	}
}

func TestBaudTickIsOneCyclePulse(t *testing.T) {
	var g BaudGenerator
	prev := false
	for i := 0; i < 64; i++ {
		g.Clock(true, 3)
		if g.Tick() && prev {
			t.Fatalf("tick held for more than one cycle at %d", i)
		}
		prev = g.Tick()
	}
}

func TestBaudDisabledHoldsCounter(t *testing.T) {
	var g BaudGenerator
	if n := countTicks(&g, false, 4, 100); n != 0 {
		t.Fatalf("got %d ticks while disabled; want 0", n)
	}
	// Counter held at zero: first tick comes a full divisor after
	// enabling, regardless of how long the generator sat disabled.
	for i := 0; i < 3; i++ {
		g.Clock(true, 4)
		if g.Tick() {
			t.Fatalf("tick after %d enabled cycles; want first at 4", i+1)
		}
	}
	g.Clock(true, 4)
	if !g.Tick() {
		t.Fatalf("no tick on the 4th enabled cycle")
	}
}

func TestBaudDivisorOne(t *testing.T) {
	var g BaudGenerator
	if n := countTicks(&g, true, 1, 50); n != 50 {
		t.Fatalf("divisor 1: got %d ticks in 50 cycles; want 50", n)
	}
}

func TestBaudZeroDivisorNeverTicks(t *testing.T) {
	var g BaudGenerator
	if n := countTicks(&g, true, 0, 500); n != 0 {
		t.Fatalf("divisor 0: got %d ticks; want none", n)
	}
}

func TestBaudResetClears(t *testing.T) {
	var g BaudGenerator
	g.Clock(true, 8)
	g.Clock(true, 8)
	g.Reset()
	if g.Tick() {
		t.Fatalf("tick asserted after reset")
	}
	// Full divisor again before the next tick.
	for i := 0; i < 7; i++ {
		g.Clock(true, 8)
		if g.Tick() {
			t.Fatalf("tick %d cycles after reset; want first at 8", i+1)
		}
	}
	g.Clock(true, 8)
	if !g.Tick() {
		t.Fatalf("no tick a full divisor after reset")
	}
}
