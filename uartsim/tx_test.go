package uartsim

import "testing"

// tickN clocks the transmitter n times with a tick every cycle
// (equivalent to divisor 1).
func tickN(tx *Transmitter, n int, data uint8) {
	for i := 0; i < n; i++ {
		tx.Clock(true, false, data, true)
	}
}

func TestTransmitFrameShape(t *testing.T) {
	tx := NewTransmitter()
	const data = 0xA5

	if !tx.Line() || tx.Busy() {
		t.Fatalf("idle: line=%v busy=%v; want high, not busy", tx.Line(), tx.Busy())
	}

	// Start pulse while idle.
	tx.Clock(true, true, data, true)
	if tx.Line() {
		t.Fatalf("line high during start bit")
	}
	if !tx.Busy() {
		t.Fatalf("not busy after start")
	}

	// One bit interval of start, then each data bit LSB first.
	tickN(tx, ticksPerBit, data)
	for bit := 0; bit < 8; bit++ {
		want := data>>bit&1 != 0
		if tx.Line() != want {
			t.Fatalf("data bit %d: line=%v want %v", bit, tx.Line(), want)
		}
		tickN(tx, ticksPerBit, data)
	}

	// Stop bit high, then a one-cycle done pulse.
	if !tx.Line() {
		t.Fatalf("line low during stop bit")
	}
	tickN(tx, ticksPerBit-1, data)
	tx.Clock(true, false, data, true)
	if !tx.Done() {
		t.Fatalf("done not asserted after stop bit")
	}
	tx.Clock(true, false, data, true)
	if tx.Done() {
		t.Fatalf("done held longer than one cycle")
	}
	if tx.Busy() || !tx.Line() {
		t.Fatalf("after frame: busy=%v line=%v; want idle high", tx.Busy(), tx.Line())
	}
}

func TestTransmitterDisableMidFrame(t *testing.T) {
	tx := NewTransmitter()
	tx.Clock(true, true, 0x00, true)
	tickN(tx, 2*ticksPerBit, 0x00) // two bit intervals in

	if tx.Line() {
		t.Fatalf("expected line low mid-frame for data 0x00")
	}
	tx.Clock(false, false, 0x00, true)
	if tx.Busy() || !tx.Line() {
		t.Fatalf("after disable: busy=%v line=%v; want idle high within one cycle", tx.Busy(), tx.Line())
	}
	if tx.Done() {
		t.Fatalf("done asserted on abandoned frame")
	}
}

func TestTransmitterIgnoresStartWhileBusy(t *testing.T) {
	tx := NewTransmitter()
	tx.Clock(true, true, 0xFF, true)
	// A second start mid-frame must not restart the framing counters.
	tickN(tx, ticksPerBit/2, 0xFF)
	tx.Clock(true, true, 0xFF, true)
	tickN(tx, ticksPerBit/2-1, 0xFF)
	// Exactly one bit interval after the first start the data section
	// begins: 0xFF drives the line high.
	if !tx.Line() {
		t.Fatalf("line low where data bit 0 of 0xFF should be; start was not ignored")
	}
	if tx.State() != TxDataBits {
		t.Fatalf("state=%d want TxDataBits", tx.State())
	}
}

func TestTransmitterHoldsWithoutTicks(t *testing.T) {
	tx := NewTransmitter()
	tx.Clock(true, true, 0x55, false)
	for i := 0; i < 100; i++ {
		tx.Clock(true, false, 0x55, false)
	}
	if tx.State() != TxStartBit || tx.Line() {
		t.Fatalf("state=%d line=%v after 100 tickless cycles; want held in start bit", tx.State(), tx.Line())
	}
}
