// uartsim/uart.go

// Package uartsim is a clock-stepped model of an asynchronous serial
// transceiver with a memory-mapped control interface. An external
// harness drives it one clock edge at a time through Step, presenting a
// bus transaction and the serial input level, and reads back the serial
// output, bus read data and three level-sensitive interrupt lines.
//
// Every component computes its next state from the pre-edge snapshot of
// all signals and commits at the edge, so results never depend on the
// order sub-blocks happen to be updated in.
package uartsim

// Inputs is the input vector sampled at one clock edge.
type Inputs struct {
	RxIn        bool // external serial input, idle high
	Addr        uint32
	WriteData   uint32
	WriteEnable bool
	ReadEnable  bool
}

// Outputs is the output vector valid after the edge.
type Outputs struct {
	TxOut      bool // serial output, idle high
	ReadData   uint32
	IntTxEmpty bool // TX FIFO empty, masked by INT_ENABLE[0]
	IntRxReady bool // RX FIFO non-empty, masked by INT_ENABLE[1]
	IntOverrun bool // sticky RX overrun, masked by INT_ENABLE[2]
}

// FifoDepth is the capacity of both the TX and RX FIFOs.
const FifoDepth = 16

// triggerState sequences TX starts: issue one pop-and-start pulse, then
// wait for the transmitter to go busy and return to idle before
// re-arming, so a slow FIFO flag can never retrigger a frame.
type triggerState uint8

const (
	triggerArmed triggerState = iota
	triggerLaunch
	triggerDrain
)

// UART is the top-level composite: register file, baud generator,
// transmitter, receiver and the two FIFOs, wired per edge by Step. The
// harness owns exactly one of these and steps it; there is no global
// state.
type UART struct {
	regs   RegisterFile
	baud   BaudGenerator
	tx     *Transmitter
	rx     *Receiver
	txFifo *Fifo[uint8]
	rxFifo *Fifo[uint8]

	trig       triggerState
	loopSample bool // registered TX line sample feeding loopback
	cycle      uint64
	out        Outputs

	// Trace, when non-nil, is called with a snapshot after every edge.
	Trace TraceFunc
}

// New returns a UART in its reset state: disabled, FIFOs empty, both
// serial lines at idle level.
func New() *UART {
	return &UART{
		tx:         NewTransmitter(),
		rx:         NewReceiver(),
		txFifo:     NewFifo[uint8](FifoDepth),
		rxFifo:     NewFifo[uint8](FifoDepth),
		loopSample: true,
		out:        Outputs{TxOut: true},
	}
}

// Reset synchronously forces every state machine and register to its
// initial state, abandoning any frame in flight. It is the only
// cancellation mechanism the core has.
func (u *UART) Reset() {
	u.regs.Reset()
	u.baud.Reset()
	u.tx.Reset()
	u.rx.Reset()
	u.txFifo.Reset()
	u.rxFifo.Reset()
	u.trig = triggerArmed
	u.loopSample = true
	u.out = Outputs{TxOut: true}
}

// Step advances the model by one clock edge.
func (u *UART) Step(in Inputs) Outputs {
	// Pre-edge snapshot of every cross-component signal. The clocked
	// updates below read only these values (combinational fan-out), so
	// no component observes another's post-edge state within the edge.
	sig := signals{
		txEmpty:  u.txFifo.Empty(),
		txFull:   u.txFifo.Full(),
		rxEmpty:  u.rxFifo.Empty(),
		rxFull:   u.rxFifo.Full(),
		txThresh: u.txFifo.ThresholdReached(uint16(u.regs.txThreshold)),
		rxThresh: u.rxFifo.ThresholdReached(uint16(u.regs.rxThreshold)),
		frameErr: u.rx.FrameError(),
		overrun:  u.rx.Overrun(),
		txLevel:  u.txFifo.Level(),
		rxLevel:  u.rxFifo.Level(),
		rxHead:   u.rxFifo.Peek(),
	}
	var (
		enable   = u.regs.enable
		loopback = u.regs.loopback
		divisor  = u.regs.divisor
		intMask  = u.regs.intEnable
		txBusy   = u.tx.Busy()
		txLine   = u.tx.Line()
		rxReady  = u.rx.Ready()
		rxByte   = u.rx.Data()
	)

	// Bus decode: latched control writes commit now, strobes and read
	// data apply to this cycle.
	acc := u.regs.Clock(busRequest{
		addr:      in.Addr,
		writeData: in.WriteData,
		write:     in.WriteEnable,
		read:      in.ReadEnable,
	}, sig)

	// TX trigger: pop-and-start when a byte is waiting and the
	// transmitter is idle.
	txStart, txPop := false, false
	switch u.trig {
	case triggerArmed:
		if enable && !sig.txEmpty && !txBusy {
			txStart, txPop = true, true
			u.trig = triggerLaunch
		}
	case triggerLaunch:
		if txBusy {
			u.trig = triggerDrain
		}
	case triggerDrain:
		if !txBusy {
			u.trig = triggerArmed
		}
	}
	if !enable {
		u.trig = triggerArmed
	}

	u.baud.Clock(enable, divisor)
	tick := u.baud.Tick()

	// Transmitter reads the TX FIFO's registered output port; the pop
	// issued with txStart commits this edge, one full bit interval
	// before the transmitter latches the byte.
	u.tx.Clock(enable, txStart, u.txFifo.Out(), tick)

	// Loopback sources the receiver from the registered TX line sample
	// instead of the pin; the external output still carries the
	// transmitter either way.
	rxLine := in.RxIn
	if loopback {
		rxLine = u.loopSample
	}
	u.rx.Clock(enable, rxLine, tick, acc.rxPop)

	// FIFO edges: bus strobes plus the receiver completion pulse. A
	// received byte arriving while the RX FIFO is full is dropped.
	u.txFifo.Clock(acc.txPush, acc.txPushData, txPop)
	u.rxFifo.Clock(rxReady && !sig.rxFull, rxByte, acc.rxPop)
	if acc.txFifoReset {
		u.txFifo.Reset()
	}
	if acc.rxFifoReset {
		u.rxFifo.Reset()
		u.rx.ClearOverrun()
	}

	u.loopSample = txLine
	u.cycle++

	conds := sig.conditions()
	u.out = Outputs{
		TxOut:      u.tx.Line(),
		ReadData:   acc.readData,
		IntTxEmpty: conds&intMask&IntTxEmpty != 0,
		IntRxReady: conds&intMask&IntRxReady != 0,
		IntOverrun: conds&intMask&IntOverrun != 0,
	}
	if u.Trace != nil {
		u.Trace(u.snapshot(tick, rxLine))
	}
	return u.out
}

// Cycle returns the number of edges stepped since construction. Reset
// does not clear it; it is a free-running timestamp for traces.
func (u *UART) Cycle() uint64 { return u.cycle }
