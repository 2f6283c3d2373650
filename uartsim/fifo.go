// uartsim/fifo.go

package uartsim

// Fifo is a fixed-depth synchronous circular buffer with the flag
// outputs of a hardware FIFO: level, empty, full, and a configurable
// fill threshold. Depth must be a power of two. The read and write
// indices are kept one bit wider than the address space, so level and
// the full/empty flags fall out of plain wrapping-index arithmetic
// (used = write - read, same idiom as a ring buffer with free-running
// counters).
//
// A push while full and a pop while empty are silent no-ops; the core
// never raises overflow or underflow errors.
type Fifo[T any] struct {
	mem []T
	wr  uint16 // k+1-bit write index, maintained mod 2*depth
	rd  uint16 // k+1-bit read index
	out T      // registered output port, loaded on pop
}

// NewFifo returns a FIFO holding depth elements. depth must be a power
// of two.
func NewFifo[T any](depth int) *Fifo[T] {
	if depth <= 0 || depth&(depth-1) != 0 {
		panic("uartsim: fifo depth must be a power of two")
	}
	return &Fifo[T]{mem: make([]T, depth)}
}

// Depth returns the capacity in elements.
func (f *Fifo[T]) Depth() uint16 { return uint16(len(f.mem)) }

func (f *Fifo[T]) idxMask() uint16 { return uint16(len(f.mem)) - 1 }
func (f *Fifo[T]) ptrMask() uint16 { return uint16(2*len(f.mem)) - 1 }

// Level returns the number of stored elements, always in [0, depth].
func (f *Fifo[T]) Level() uint16 { return (f.wr - f.rd) & f.ptrMask() }

// Empty reports whether the FIFO holds no elements.
func (f *Fifo[T]) Empty() bool { return f.wr == f.rd }

// Full holds when the low k index bits match while the wrap bits
// differ.
func (f *Fifo[T]) Full() bool {
	return f.wr&f.idxMask() == f.rd&f.idxMask() && f.wr != f.rd
}

// ThresholdReached reports level >= threshold, valid the same cycle as
// the push that crossed it.
func (f *Fifo[T]) ThresholdReached(threshold uint16) bool {
	return f.Level() >= threshold
}

// Out returns the registered output port: the element exposed by the
// most recent pop. It holds its value between pops.
func (f *Fifo[T]) Out() T { return f.out }

// Peek returns the element at the read index without popping. This is
// the pre-edge value a read-with-pop observes.
func (f *Fifo[T]) Peek() T { return f.mem[f.rd&f.idxMask()] }

// Clock commits one edge. push and pop are both evaluated against the
// pre-edge flags, so a push while full and a pop while empty stay
// no-ops even when the other side fires the same cycle. Simultaneous
// push and pop is legal: the level is unchanged and data still moves.
func (f *Fifo[T]) Clock(push bool, pushData T, pop bool) {
	doPush := push && !f.Full()
	doPop := pop && !f.Empty()
	if doPush {
		f.mem[f.wr&f.idxMask()] = pushData
		f.wr = (f.wr + 1) & f.ptrMask()
	}
	if doPop {
		f.out = f.mem[f.rd&f.idxMask()]
		f.rd = (f.rd + 1) & f.ptrMask()
	}
}

// Reset clears both indices. Storage contents are left as-is.
func (f *Fifo[T]) Reset() {
	f.wr, f.rd = 0, 0
}
