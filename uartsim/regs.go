// uartsim/regs.go

package uartsim

// Register byte offsets on the bus.
const (
	RegCtrl      = 0x00
	RegStatus    = 0x04
	RegBaudDiv   = 0x08
	RegTxData    = 0x0C
	RegRxData    = 0x10
	RegIntEnable = 0x14
	RegIntStatus = 0x18
)

// CTRL register bits.
const (
	CtrlEnable      = 1 << 0
	CtrlTxFifoReset = 1 << 1 // write-one pulse
	CtrlRxFifoReset = 1 << 2 // write-one pulse
	CtrlLoopback    = 1 << 3

	ctrlTxThresholdShift = 8
	ctrlRxThresholdShift = 16
)

// STATUS register bits.
const (
	StatusTxFifoEmpty  = 1 << 0
	StatusTxFifoFull   = 1 << 1
	StatusRxFifoEmpty  = 1 << 2
	StatusRxFifoFull   = 1 << 3
	StatusTxThreshold  = 1 << 4
	StatusRxThreshold  = 1 << 5
	StatusFrameError   = 1 << 6
	StatusRxOverrun    = 1 << 7
	statusTxLevelShift = 8
	statusRxLevelShift = 16
)

// INT_ENABLE / INT_STATUS bits. The same positions serve as the raw
// condition vector.
const (
	IntTxEmpty = 1 << 0
	IntRxReady = 1 << 1
	IntOverrun = 1 << 2

	intMaskAll = IntTxEmpty | IntRxReady | IntOverrun
)

// busRequest is the bus input vector for one cycle.
type busRequest struct {
	addr      uint32
	writeData uint32
	write     bool
	read      bool
}

// regAccess is the register file's combinational output for one cycle:
// decoded side-effect strobes and the bus read data.
type regAccess struct {
	txPush      bool
	txPushData  uint8
	rxPop       bool
	txFifoReset bool
	rxFifoReset bool
	readData    uint32
}

// RegisterFile owns all control and configuration state: enable,
// loopback, thresholds, baud divisor and the interrupt enable mask. It
// decodes one bus transaction per cycle into latched state updates and
// single-cycle strobes. Reading RX_DATA is the only read with a side
// effect (a pop of the RX FIFO); reading any unmapped address returns
// zero.
type RegisterFile struct {
	enable      bool
	loopback    bool
	txThreshold uint8
	rxThreshold uint8
	divisor     uint16
	intEnable   uint8
}

// signals is the pre-edge snapshot of FIFO and receiver outputs the
// register file composes STATUS and the interrupt conditions from.
type signals struct {
	txEmpty, txFull    bool
	rxEmpty, rxFull    bool
	txThresh, rxThresh bool
	frameErr, overrun  bool
	txLevel, rxLevel   uint16
	rxHead             uint8
}

func (s signals) status() uint32 {
	v := uint32(s.txLevel&0xFF)<<statusTxLevelShift |
		uint32(s.rxLevel&0xFF)<<statusRxLevelShift
	if s.txEmpty {
		v |= StatusTxFifoEmpty
	}
	if s.txFull {
		v |= StatusTxFifoFull
	}
	if s.rxEmpty {
		v |= StatusRxFifoEmpty
	}
	if s.rxFull {
		v |= StatusRxFifoFull
	}
	if s.txThresh {
		v |= StatusTxThreshold
	}
	if s.rxThresh {
		v |= StatusRxThreshold
	}
	if s.frameErr {
		v |= StatusFrameError
	}
	if s.overrun {
		v |= StatusRxOverrun
	}
	return v
}

// conditions returns the raw interrupt condition vector in INT_ENABLE
// bit positions.
func (s signals) conditions() uint8 {
	var c uint8
	if s.txEmpty {
		c |= IntTxEmpty
	}
	if !s.rxEmpty {
		c |= IntRxReady
	}
	if s.overrun {
		c |= IntOverrun
	}
	return c
}

// Clock decodes one bus transaction against the pre-edge signal
// snapshot, committing register writes and returning the strobes and
// read data for this cycle.
func (rf *RegisterFile) Clock(req busRequest, sig signals) regAccess {
	var out regAccess
	if req.write {
		switch req.addr {
		case RegCtrl:
			rf.enable = req.writeData&CtrlEnable != 0
			rf.loopback = req.writeData&CtrlLoopback != 0
			rf.txThreshold = uint8(req.writeData >> ctrlTxThresholdShift)
			rf.rxThreshold = uint8(req.writeData >> ctrlRxThresholdShift)
			out.txFifoReset = req.writeData&CtrlTxFifoReset != 0
			out.rxFifoReset = req.writeData&CtrlRxFifoReset != 0
		case RegBaudDiv:
			rf.divisor = uint16(req.writeData)
		case RegTxData:
			// The FIFO drops the push if full; nothing is reported.
			out.txPush = true
			out.txPushData = uint8(req.writeData)
		case RegIntEnable:
			rf.intEnable = uint8(req.writeData) & intMaskAll
		}
	}
	if req.read {
		switch req.addr {
		case RegCtrl:
			// Reset pulse bits read back as zero.
			v := uint32(rf.txThreshold)<<ctrlTxThresholdShift |
				uint32(rf.rxThreshold)<<ctrlRxThresholdShift
			if rf.enable {
				v |= CtrlEnable
			}
			if rf.loopback {
				v |= CtrlLoopback
			}
			out.readData = v
		case RegStatus:
			out.readData = sig.status()
		case RegBaudDiv:
			out.readData = uint32(rf.divisor)
		case RegRxData:
			// Read pops as a side effect; read-while-empty returns
			// zero and does not pop.
			if !sig.rxEmpty {
				out.readData = uint32(sig.rxHead)
				out.rxPop = true
			}
		case RegIntEnable:
			out.readData = uint32(rf.intEnable)
		case RegIntStatus:
			out.readData = uint32(sig.conditions() & rf.intEnable)
		}
	}
	return out
}

// Reset returns every latched field to its power-on value.
func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{}
}
