// uartsim/baud.go

package uartsim

// BaudGenerator divides the core clock into single-cycle tick pulses at
// 16x the configured baud rate: one tick every divisor clock cycles
// while enabled. A divisor of zero is a misconfiguration; the specified
// behaviour is a generator that never ticks, and nothing here clamps or
// reports it.
type BaudGenerator struct {
	count uint16
	tick  bool
}

// Tick reports whether a tick fired on the most recent edge. The pulse
// lasts exactly one cycle.
func (g *BaudGenerator) Tick() bool { return g.tick }

// Clock commits one edge. While disabled the counter holds at zero and
// no tick fires.
func (g *BaudGenerator) Clock(enable bool, divisor uint16) {
	g.tick = false
	if !enable || divisor == 0 {
		g.count = 0
		return
	}
	if g.count >= divisor-1 {
		g.count = 0
		g.tick = true
		return
	}
	g.count++
}

// Reset clears the counter and the tick output.
func (g *BaudGenerator) Reset() {
	g.count = 0
	g.tick = false
}
