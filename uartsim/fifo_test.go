package uartsim

import "testing"

func TestFifoLevelInvariants(t *testing.T) {
	f := NewFifo[uint8](16)
	check := func(step string) {
		t.Helper()
		if f.Level() > f.Depth() {
			t.Fatalf("%s: level %d exceeds depth %d", step, f.Level(), f.Depth())
		}
		if (f.Level() == 0) != f.Empty() {
			t.Fatalf("%s: empty=%v with level=%d", step, f.Empty(), f.Level())
		}
		if (f.Level() == f.Depth()) != f.Full() {
			t.Fatalf("%s: full=%v with level=%d", step, f.Full(), f.Level())
		}
	}
	check("initial")

	// A long mixed push/pop sequence, including attempts past both
	// ends.
	for i := 0; i < 200; i++ {
		push := i%3 != 0
		pop := i%5 == 0
		f.Clock(push, uint8(i), pop)
		check("mixed")
	}
	for i := 0; i < 40; i++ {
		f.Clock(false, 0, true)
		check("drain")
	}
	if !f.Empty() {
		t.Fatalf("drain: level=%d want empty", f.Level())
	}
}

func TestFifoOrderAndFullPushDrop(t *testing.T) {
	f := NewFifo[uint8](16)
	for i := 0; i < 16; i++ {
		f.Clock(true, byte(0x40+i), false)
	}
	if !f.Full() {
		t.Fatalf("full=%v after 16 pushes; want true", f.Full())
	}

	// Push into a full FIFO: silent no-op, contents and level
	// untouched.
	f.Clock(true, 0xEE, false)
	if f.Level() != 16 {
		t.Fatalf("level=%d after push-while-full; want 16", f.Level())
	}
	for i := 0; i < 16; i++ {
		f.Clock(false, 0, true)
		if got, want := f.Out(), byte(0x40+i); got != want {
			t.Fatalf("pop %d: got %#02x want %#02x", i, got, want)
		}
	}

	// Pop while empty holds the output port.
	f.Clock(false, 0, true)
	if got := f.Out(); got != 0x4F {
		t.Fatalf("pop-while-empty changed out to %#02x; want %#02x", got, 0x4F)
	}
}

func TestFifoSimultaneousPushPop(t *testing.T) {
	f := NewFifo[uint8](16)
	f.Clock(true, 0x11, false)
	f.Clock(true, 0x22, false)

	// Push and pop on the same edge: level unchanged, data moves.
	f.Clock(true, 0x33, true)
	if f.Level() != 2 {
		t.Fatalf("level=%d after push+pop; want 2", f.Level())
	}
	if f.Out() != 0x11 {
		t.Fatalf("out=%#02x after push+pop; want 0x11", f.Out())
	}
	f.Clock(false, 0, true)
	f.Clock(false, 0, true)
	if f.Out() != 0x33 {
		t.Fatalf("out=%#02x; want the byte pushed alongside the pop", f.Out())
	}
}

func TestFifoThresholdEdge(t *testing.T) {
	f := NewFifo[uint8](16)
	const threshold = 4
	for i := 0; i < 3; i++ {
		f.Clock(true, byte(i), false)
	}
	if f.ThresholdReached(threshold) {
		t.Fatalf("threshold reached at level 3; want false below %d", threshold)
	}
	f.Clock(true, 3, false)
	if !f.ThresholdReached(threshold) {
		t.Fatalf("threshold not reached on the cycle the 4th push commits")
	}
}

func TestFifoResetClearsIndices(t *testing.T) {
	f := NewFifo[uint8](16)
	for i := 0; i < 7; i++ {
		f.Clock(true, byte(i), false)
	}
	f.Clock(false, 0, true)
	f.Reset()
	if !f.Empty() || f.Level() != 0 || f.Full() {
		t.Fatalf("after reset: level=%d empty=%v full=%v", f.Level(), f.Empty(), f.Full())
	}
}

func TestFifoWrapAround(t *testing.T) {
	f := NewFifo[uint8](16)
	// Cycle well past the index width to exercise pointer wrapping.
	for round := 0; round < 10; round++ {
		for i := 0; i < 16; i++ {
			f.Clock(true, byte(round*16+i), false)
		}
		for i := 0; i < 16; i++ {
			f.Clock(false, 0, true)
			if got, want := f.Out(), byte(round*16+i); got != want {
				t.Fatalf("round %d pop %d: got %#02x want %#02x", round, i, got, want)
			}
		}
	}
}
