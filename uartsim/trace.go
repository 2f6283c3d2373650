// uartsim/trace.go

package uartsim

// TraceFunc receives a Snapshot after every edge when installed on
// UART.Trace. The hook is nil-checked per step and costs nothing when
// unset.
type TraceFunc func(Snapshot)

// Snapshot is the per-cycle probe view of the core, for waveform
// capture and diagnostics. All fields are post-edge values.
type Snapshot struct {
	Cycle uint64
	Tick  bool

	TxLine bool
	RxLine bool // after the loopback mux

	TxState TxState
	RxState RxState
	TxBusy  bool

	TxLevel uint16
	RxLevel uint16

	FrameError bool
	Overrun    bool

	IntTxEmpty bool
	IntRxReady bool
	IntOverrun bool
}

func (u *UART) snapshot(tick bool, rxLine bool) Snapshot {
	return Snapshot{
		Cycle:      u.cycle,
		Tick:       tick,
		TxLine:     u.tx.Line(),
		RxLine:     rxLine,
		TxState:    u.tx.State(),
		RxState:    u.rx.State(),
		TxBusy:     u.tx.Busy(),
		TxLevel:    u.txFifo.Level(),
		RxLevel:    u.rxFifo.Level(),
		FrameError: u.rx.FrameError(),
		Overrun:    u.rx.Overrun(),
		IntTxEmpty: u.out.IntTxEmpty,
		IntRxReady: u.out.IntRxReady,
		IntOverrun: u.out.IntOverrun,
	}
}
