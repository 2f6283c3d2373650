// uartsim/rx.go

package uartsim

// RxState enumerates the receiver framing states.
type RxState uint8

const (
	RxIdle RxState = iota
	RxStartBit
	RxDataBits
	RxStopBits
	RxWaitIdle
)

// Receiver deserialises the line using a 3-sample majority synchroniser
// and 16x oversampling. The synchroniser shifts every clock cycle and
// rejects single-cycle glitches; the framing state machine advances
// only on oversample ticks and samples each bit at its mid-point.
type Receiver struct {
	state RxState
	sync  [3]bool // raw line history, sync[0] newest
	filt  bool    // majority-filtered line

	shift uint8 // data bits assembled LSB first
	bit   uint8 // bit position within the data/stop section
	sub   uint8 // oversample tick count within the current bit

	data    uint8
	ready   bool // one-cycle pulse when a byte completes
	pending bool // completed byte not yet consumed downstream

	frameErr bool // stop bit sampled low; cleared on the next start bit
	overrun  bool // sticky: byte completed while the previous one was pending
}

// NewReceiver returns a receiver with the synchroniser primed to the
// idle-high line level.
func NewReceiver() *Receiver {
	return &Receiver{sync: [3]bool{true, true, true}, filt: true}
}

// Data returns the last completed byte.
func (r *Receiver) Data() uint8 { return r.data }

// Ready reports the one-cycle pulse asserted when a byte completes.
func (r *Receiver) Ready() bool { return r.ready }

// FrameError holds from a low stop-bit sample until the next start bit
// is detected.
func (r *Receiver) FrameError() bool { return r.frameErr }

// Overrun is sticky: once set it stays asserted until reset.
func (r *Receiver) Overrun() bool { return r.overrun }

// State returns the current framing state.
func (r *Receiver) State() RxState { return r.state }

// ClearOverrun drops the sticky overrun flag. The register file issues
// this on an RX FIFO reset pulse.
func (r *Receiver) ClearOverrun() { r.overrun = false }

// Clock commits one edge. line is the raw serial input for this cycle,
// tick the oversample pulse, and consume the strobe fed back when the
// completed byte is read out downstream. Disabling aborts any frame in
// flight and discards partial data; the sticky overrun flag survives a
// disable.
func (r *Receiver) Clock(enable, line, tick, consume bool) {
	r.ready = false
	if consume {
		r.pending = false
	}

	// Synchroniser runs every clock regardless of ticks.
	r.sync[2], r.sync[1], r.sync[0] = r.sync[1], r.sync[0], line
	r.filt = majority3(r.sync[0], r.sync[1], r.sync[2])

	if !enable {
		r.state = RxIdle
		return
	}
	if !tick {
		return
	}

	switch r.state {
	case RxIdle:
		if !r.filt {
			// Start edge: begin a new frame, previous frame error is
			// re-evaluated per frame.
			r.state = RxStartBit
			r.sub = 0
			r.frameErr = false
		}
	case RxStartBit:
		r.sub++
		if r.sub == ticksPerBit/2 {
			if r.filt {
				// Line bounced back high before mid-bit: false start.
				r.state = RxIdle
			} else {
				r.state = RxDataBits
				r.sub = 0
				r.bit = 0
				r.shift = 0
			}
		}
	case RxDataBits:
		r.sub++
		if r.sub == ticksPerBit {
			// Mid-point of the data bit window.
			r.sub = 0
			r.shift >>= 1
			if r.filt {
				r.shift |= 1 << (frameDataBits - 1)
			}
			r.bit++
			if r.bit == frameDataBits {
				r.state = RxStopBits
				r.bit = 0
			}
		}
	case RxStopBits:
		r.sub++
		if r.sub == ticksPerBit {
			r.sub = 0
			if !r.filt {
				r.frameErr = true
			}
			r.bit++
			if r.bit == frameStopBits {
				r.data = r.shift
				r.ready = true
				if r.pending {
					r.overrun = true
				}
				r.pending = true
				r.state = RxWaitIdle
			}
		}
	case RxWaitIdle:
		// Hold until the line is back at idle level so noise after the
		// stop bit cannot retrigger a start edge.
		if r.filt {
			r.state = RxIdle
		}
	}
}

// Reset clears the state machine and every flag, including the sticky
// overrun.
func (r *Receiver) Reset() {
	*r = Receiver{sync: [3]bool{true, true, true}, filt: true}
}

// majority3 is a 3-input majority vote.
func majority3(a, b, c bool) bool {
	return (a && b) || (b && c) || (a && c)
}
