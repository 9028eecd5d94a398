package pio

// FIFO is the contract consumed by the engine for one state machine's TX and
// RX queues. Depth doubles on join; pushing to a full
// RX FIFO (or pulling from an empty TX FIFO) is a programming error the
// caller is expected to avoid by checking FSTAT first -- the engine never
// does so itself, it always checks before pushing/pulling (see exec.go).
type FIFO interface {
	FSTATRxFull() bool
	FSTATTxEmpty() bool
	RxPush(word uint32)
	TxPull() uint32
	RXLevel() int
	TXLevel() int
	SetJoinRX(join bool)
	SetJoinTX(join bool)
}

// fifoDepth is the unjoined depth of each direction, matching the RP-family
// PIO's 4-word FIFOs; joining merges both directions into one 8-deep queue.
const fifoDepth = 4

// RingFIFO is a minimal, host-side TX/RX FIFO pair implementing FIFO. It
// stands in for the out-of-scope "FIFO ring storage" component: the engine
// only ever talks to the FIFO interface, and RingFIFO is the reference
// collaborator that makes the engine runnable and testable without a real
// DMA channel attached.
type RingFIFO struct {
	tx, rx []uint32
	joinRX bool
	joinTX bool
}

// NewRingFIFO returns an empty TX/RX FIFO pair at the default, unjoined depth.
func NewRingFIFO() *RingFIFO {
	return &RingFIFO{
		tx: make([]uint32, 0, fifoDepth),
		rx: make([]uint32, 0, fifoDepth),
	}
}

func (f *RingFIFO) depth() int {
	if f.joinRX {
		return 2 * fifoDepth
	}
	return fifoDepth
}

// FSTATRxFull reports whether the RX FIFO cannot accept another word.
func (f *RingFIFO) FSTATRxFull() bool { return len(f.rx) >= f.depth() }

// FSTATTxEmpty reports whether the TX FIFO has no word available to pull.
func (f *RingFIFO) FSTATTxEmpty() bool { return len(f.tx) == 0 }

// RxPush enqueues word onto the RX FIFO. Pushing to a full FIFO is a
// programming error; callers must check
// FSTATRxFull first.
func (f *RingFIFO) RxPush(word uint32) {
	if f.FSTATRxFull() {
		panic("pio: RxPush on full RX FIFO")
	}
	f.rx = append(f.rx, word)
}

// TxPull dequeues and returns the oldest word from the TX FIFO. Pulling from
// an empty FIFO is a programming error; callers must check FSTATTxEmpty first.
func (f *RingFIFO) TxPull() uint32 {
	if f.FSTATTxEmpty() {
		panic("pio: TxPull on empty TX FIFO")
	}
	word := f.tx[0]
	f.tx = append(f.tx[:0], f.tx[1:]...)
	return word
}

// RXLevel returns the number of words currently queued in RX.
func (f *RingFIFO) RXLevel() int { return len(f.rx) }

// TXLevel returns the number of words currently queued in TX.
func (f *RingFIFO) TXLevel() int { return len(f.tx) }

// SetJoinRX merges the TX capacity into RX, doubling RX's effective depth.
func (f *RingFIFO) SetJoinRX(join bool) { f.joinRX = join }

// SetJoinTX records the TX join flag. RingFIFO places no depth limit on TX
// (HostPush never refuses a word), so the flag does not change TX behaviour.
func (f *RingFIFO) SetJoinTX(join bool) { f.joinTX = join }

// HostPush lets an external DMA-equivalent enqueue a word for the state
// machine to PULL while it is stalled on a blocking pull.
func (f *RingFIFO) HostPush(word uint32) {
	f.tx = append(f.tx, word)
}

// HostPop lets an external DMA-equivalent dequeue a word the state machine
// has PUSHed.
func (f *RingFIFO) HostPop() uint32 {
	word := f.rx[0]
	f.rx = append(f.rx[:0], f.rx[1:]...)
	return word
}
