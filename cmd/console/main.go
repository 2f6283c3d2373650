// cmd/console/main.go
// Interactive console on the simulated UART: each key is pushed into
// the TX FIFO, travels the full loopback path and is echoed from
// RX_DATA. Ctrl-C exits.

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/mattn/go-tty"

	"github.com/jangala-dev/uartsim/uartsim"
)

var divisor = flag.Uint("divisor", 4, "baud divisor")

func main() {
	flag.Parse()
	div := uint32(*divisor)

	u := uartsim.New()
	u.WriteReg(uartsim.RegBaudDiv, div)
	u.WriteReg(uartsim.RegCtrl, uartsim.CtrlEnable|uartsim.CtrlLoopback)

	t, err := tty.Open()
	if err != nil {
		log.Fatalf("open tty: %v", err)
	}
	defer t.Close()

	fmt.Printf("uartsim console: divisor=%d, loopback echo, Ctrl-C to exit\r\n", div)

	limit := 4 * uartsim.FrameCycles(int(div))
	for {
		r, err := t.ReadRune()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		if r == 3 { // Ctrl-C
			fmt.Print("\r\n")
			return
		}
		if r > 0xFF {
			continue // the serial line carries bytes only
		}

		u.WriteReg(uartsim.RegTxData, uint32(r))
		ok := u.RunUntil(limit, func() bool {
			return u.ReadReg(uartsim.RegStatus)&uartsim.StatusRxFifoEmpty == 0
		})
		if !ok {
			fmt.Print("\r\n[timeout]\r\n")
			continue
		}
		b := byte(u.ReadReg(uartsim.RegRxData))
		if b == '\r' {
			fmt.Print("\r\n")
		} else {
			fmt.Printf("%c", b)
		}
	}
}
