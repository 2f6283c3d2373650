// cmd/bridge/main.go
// Hardware bring-up fixture: bridges the simulated UART to a physical
// serial port. Bytes arriving on the port are framed onto the model's
// serial input; everything the model receives is echoed back through
// its transmitter, whose line is deserialised and written to the port.

package main

import (
	"flag"
	"io"
	"log"
	"time"

	"github.com/tarm/serial"

	"github.com/jangala-dev/uartsim/uartsim"
)

var (
	portName = flag.String("port", "/dev/ttyUSB0", "serial port device")
	baud     = flag.Int("baud", 115200, "physical port baud rate")
	divisor  = flag.Uint("divisor", 4, "model baud divisor")
)

// lineDecoder deserialises the model's TX line, one sample per clock
// cycle, picking each bit at its mid-point.
type lineDecoder struct {
	bitCycles int
	active    bool
	count     int
	idx       int // 0 = start bit, 1..8 = data, 9 = stop
	shift     uint8
}

func (d *lineDecoder) feed(level bool) (byte, bool) {
	if !d.active {
		if !level {
			d.active = true
			d.count = 0
			d.idx = 0
			d.shift = 0
		}
		return 0, false
	}
	d.count++
	if d.count != d.bitCycles/2+d.idx*d.bitCycles {
		return 0, false
	}
	switch {
	case d.idx == 0:
		if level {
			d.active = false // line bounced back high: not a start bit
			return 0, false
		}
		d.idx++
	case d.idx <= 8:
		d.shift >>= 1
		if level {
			d.shift |= 0x80
		}
		d.idx++
	default:
		d.active = false
		if level {
			return d.shift, true
		}
		// Bad stop bit on our own transmitter would be a model bug;
		// drop the byte rather than forward garbage.
	}
	return 0, false
}

func main() {
	flag.Parse()
	div := int(*divisor)

	port, err := serial.OpenPort(&serial.Config{
		Name:        *portName,
		Baud:        *baud,
		Parity:      serial.ParityNone,
		ReadTimeout: 20 * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("open port: %v", err)
	}
	defer port.Close()
	port.Flush()

	u := uartsim.New()
	u.WriteReg(uartsim.RegBaudDiv, uint32(div))
	u.WriteReg(uartsim.RegCtrl, uartsim.CtrlEnable)

	// Every model step passes through the trace hook, so TX line
	// decoding sees each cycle exactly once no matter which helper
	// stepped the core.
	dec := &lineDecoder{bitCycles: div * 16}
	var outbound []byte
	u.Trace = func(s uartsim.Snapshot) {
		if b, ok := dec.feed(s.TxLine); ok {
			outbound = append(outbound, b)
		}
	}

	log.Printf("bridging %s (%d baud) <-> uartsim (divisor %d)", *portName, *baud, div)

	buf := make([]byte, 64)
	for {
		n, err := port.Read(buf)
		if err != nil && err != io.EOF {
			log.Fatalf("port read: %v", err)
		}
		for _, b := range buf[:n] {
			u.DriveFrame(b, div)
		}

		// Echo everything the model received back through its TX path.
		for u.ReadReg(uartsim.RegStatus)&uartsim.StatusRxFifoEmpty == 0 {
			b := byte(u.ReadReg(uartsim.RegRxData))
			u.WriteReg(uartsim.RegTxData, uint32(b))
			u.Run(uartsim.FrameCycles(div))
		}
		u.Run(64) // keep the clock moving while the port is quiet

		if len(outbound) > 0 {
			if _, err := port.Write(outbound); err != nil {
				log.Fatalf("port write: %v", err)
			}
			outbound = outbound[:0]
		}
	}
}
