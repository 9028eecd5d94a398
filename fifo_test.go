package pio

import "testing"

func TestRingFIFOPushPull(t *testing.T) {
	f := NewRingFIFO()
	if !f.FSTATTxEmpty() {
		t.Fatal("fresh FIFO should have empty TX")
	}
	f.HostPush(0x11)
	f.HostPush(0x22)
	if f.FSTATTxEmpty() {
		t.Fatal("TX should not be empty after HostPush")
	}
	if got := f.TxPull(); got != 0x11 {
		t.Fatalf("TxPull = %#x, want 0x11 (FIFO order)", got)
	}
	if got := f.TxPull(); got != 0x22 {
		t.Fatalf("TxPull = %#x, want 0x22", got)
	}
	if !f.FSTATTxEmpty() {
		t.Fatal("TX should be empty after draining")
	}
}

func TestRingFIFORxFull(t *testing.T) {
	f := NewRingFIFO()
	for i := 0; i < fifoDepth; i++ {
		if f.FSTATRxFull() {
			t.Fatalf("RX reported full early at %d", i)
		}
		f.RxPush(uint32(i))
	}
	if !f.FSTATRxFull() {
		t.Fatal("RX should be full at depth")
	}
}

func TestRingFIFORxPushPanicsWhenFull(t *testing.T) {
	f := NewRingFIFO()
	for i := 0; i < fifoDepth; i++ {
		f.RxPush(uint32(i))
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic pushing to a full RX FIFO")
		}
	}()
	f.RxPush(99)
}

func TestRingFIFOTxPullPanicsWhenEmpty(t *testing.T) {
	f := NewRingFIFO()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic pulling from an empty TX FIFO")
		}
	}()
	f.TxPull()
}

func TestRingFIFOJoinDoublesDepth(t *testing.T) {
	f := NewRingFIFO()
	f.SetJoinRX(true)
	for i := 0; i < 2*fifoDepth; i++ {
		if f.FSTATRxFull() {
			t.Fatalf("RX reported full early at %d with join", i)
		}
		f.RxPush(uint32(i))
	}
	if !f.FSTATRxFull() {
		t.Fatal("RX should be full at 2x depth when joined")
	}
}

func TestRingFIFOHostPop(t *testing.T) {
	f := NewRingFIFO()
	f.RxPush(0xAA)
	f.RxPush(0xBB)
	if got := f.HostPop(); got != 0xAA {
		t.Fatalf("HostPop = %#x, want 0xAA", got)
	}
	if f.RXLevel() != 1 {
		t.Fatalf("RXLevel = %d, want 1", f.RXLevel())
	}
}
