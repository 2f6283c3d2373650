// uartsim/tx.go

package uartsim

// TxState enumerates the transmitter framing states.
type TxState uint8

const (
	TxIdle TxState = iota
	TxStartBit
	TxDataBits
	TxStopBits
	TxDone
)

// Fixed 8N1 framing.
const (
	frameDataBits = 8
	frameStopBits = 1
	ticksPerBit   = 16 // oversample ticks per bit interval
)

// Transmitter serialises one byte at a time onto the line: one low
// start bit, eight data bits LSB first, one high stop bit. The line
// idles high. Each bit interval lasts ticksPerBit oversample ticks, so
// the bit period is divisor*16 clock cycles and matches the receiver's
// oversampled timing through loopback.
type Transmitter struct {
	state TxState
	shift uint8 // remaining data bits, LSB next onto the line
	bit   uint8 // bit position within the data/stop section
	sub   uint8 // oversample tick count within the current bit
	line  bool  // registered serial output
	done  bool  // one-cycle completion pulse
}

// NewTransmitter returns a transmitter with the line at idle level.
func NewTransmitter() *Transmitter {
	return &Transmitter{line: true}
}

// Line returns the registered serial output.
func (t *Transmitter) Line() bool { return t.line }

// Busy holds whenever the transmitter is not idle.
func (t *Transmitter) Busy() bool { return t.state != TxIdle }

// Done reports the one-cycle pulse asserted after the stop bit
// completes.
func (t *Transmitter) Done() bool { return t.done }

// State returns the current framing state.
func (t *Transmitter) State() TxState { return t.state }

// Clock commits one edge. start is sampled only while idle; a start
// pulse arriving mid-frame is ignored. dataIn is latched when the start
// bit interval completes, by which point the TX FIFO's popped byte is
// stable on its output port. Deasserting enable abandons any frame in
// flight: the line returns to idle high on the same edge.
func (t *Transmitter) Clock(enable, start bool, dataIn uint8, tick bool) {
	t.done = false
	if !enable {
		t.state = TxIdle
		t.line = true
		return
	}
	switch t.state {
	case TxIdle:
		t.line = true
		if start {
			t.state = TxStartBit
			t.sub = 0
			t.line = false
		}
	case TxStartBit:
		if tick {
			t.sub++
			if t.sub == ticksPerBit {
				t.state = TxDataBits
				t.shift = dataIn
				t.bit = 0
				t.sub = 0
				t.line = t.shift&1 != 0
			}
		}
	case TxDataBits:
		if tick {
			t.sub++
			if t.sub == ticksPerBit {
				t.sub = 0
				t.bit++
				if t.bit == frameDataBits {
					t.state = TxStopBits
					t.bit = 0
					t.line = true
				} else {
					t.shift >>= 1
					t.line = t.shift&1 != 0
				}
			}
		}
	case TxStopBits:
		t.line = true
		if tick {
			t.sub++
			if t.sub == ticksPerBit {
				t.sub = 0
				t.bit++
				if t.bit == frameStopBits {
					t.state = TxDone
					t.done = true
				}
			}
		}
	case TxDone:
		t.state = TxIdle
		t.line = true
	}
}

// Reset forces the transmitter back to idle with the line high.
func (t *Transmitter) Reset() {
	*t = Transmitter{line: true}
}
