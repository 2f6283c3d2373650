// uartsim/harness.go

package uartsim

// Harness convenience wrappers. Each call below issues whole bus cycles
// with the external serial input held at idle level; harnesses that
// drive the line directly call Step themselves.

// WriteReg performs one bus write cycle.
func (u *UART) WriteReg(addr, value uint32) {
	u.Step(Inputs{RxIn: true, Addr: addr, WriteData: value, WriteEnable: true})
}

// ReadReg performs one bus read cycle and returns the read data.
func (u *UART) ReadReg(addr uint32) uint32 {
	return u.Step(Inputs{RxIn: true, Addr: addr, ReadEnable: true}).ReadData
}

// Run steps the model for n quiet cycles (no bus activity, line idle).
func (u *UART) Run(n int) {
	for i := 0; i < n; i++ {
		u.Step(Inputs{RxIn: true})
	}
}

// RunUntil steps quiet cycles until cond returns true or limit cycles
// have elapsed. It reports whether cond was met.
func (u *UART) RunUntil(limit int, cond func() bool) bool {
	for i := 0; i < limit; i++ {
		if cond() {
			return true
		}
		u.Step(Inputs{RxIn: true})
	}
	return cond()
}

// DriveFrame clocks one 8N1 frame onto the external serial input, LSB
// first, holding each bit for divisor*16 cycles. The bus stays quiet
// for the duration.
func (u *UART) DriveFrame(b byte, divisor int) {
	bitCycles := divisor * ticksPerBit
	level := func(high bool, n int) {
		for i := 0; i < n; i++ {
			u.Step(Inputs{RxIn: high})
		}
	}
	level(false, bitCycles) // start bit
	for i := 0; i < frameDataBits; i++ {
		level(b>>i&1 != 0, bitCycles)
	}
	level(true, bitCycles*frameStopBits) // stop bit
}

// FrameCycles returns the number of clock cycles one 8N1 frame occupies
// at the given divisor, including a one-bit margin for trigger and
// synchroniser latency. Harnesses use it to size polling windows.
func FrameCycles(divisor int) int {
	bits := 1 + frameDataBits + frameStopBits + 1
	return bits * ticksPerBit * divisor
}
