package pio

import "testing"

func TestExecCtrlPackUnpackRoundTrip(t *testing.T) {
	c := ExecCtrl{
		SideEn:     true,
		SidePinDir: SideSetsPinDirs,
		JmpPin:     17,
		WrapTop:    31,
		WrapBottom: 4,
		StatusSel:  true,
		StatusN:    9,
	}
	got := UnpackExecCtrl(c.Pack())
	if got != c {
		t.Fatalf("round trip = %+v, want %+v", got, c)
	}
}

func TestShiftCtrlPackUnpackRoundTrip(t *testing.T) {
	c := ShiftCtrl{
		JoinRX:      true,
		JoinTX:      false,
		PullThresh:  18,
		PushThresh:  7,
		OutShiftDir: ShiftRight,
		InShiftDir:  ShiftLeft,
		AutoPull:    true,
		AutoPush:    false,
	}
	got := UnpackShiftCtrl(c.Pack())
	if got != c {
		t.Fatalf("round trip = %+v, want %+v", got, c)
	}
}

func TestPinCtrlPackUnpackRoundTrip(t *testing.T) {
	c := PinCtrl{
		SidesetCount: 3,
		SetCount:     5,
		OutCount:     29,
		InBase:       1,
		SidesetBase:  2,
		SetBase:      3,
		OutBase:      4,
	}
	got := UnpackPinCtrl(c.Pack())
	if got != c {
		t.Fatalf("round trip = %+v, want %+v", got, c)
	}
}

func TestSetEXECCTRLAndGetRoundTrip(t *testing.T) {
	sm := newTestStateMachine()
	word := ExecCtrl{JmpPin: 5, WrapTop: 10, WrapBottom: 2, StatusN: 3}.Pack()
	if err := sm.SetEXECCTRL(word); err != nil {
		t.Fatalf("SetEXECCTRL: %v", err)
	}
	if got := sm.GetEXECCTRL(); got != word {
		t.Fatalf("GetEXECCTRL() = %#x, want %#x", got, word)
	}
}

func TestSetWrapRejectsOutOfRange(t *testing.T) {
	sm := newTestStateMachine()
	bad := ExecCtrl{WrapTop: 40}.Pack() // 40 truncates to 8 in the packed field, still in range
	_ = bad
	if err := sm.SetWrap(0, 40); err == nil {
		t.Fatal("expected error setting WRAP_TOP out of range")
	}
}

func TestSetInShiftRejectsOutOfRangeThreshold(t *testing.T) {
	sm := newTestStateMachine()
	if err := sm.SetInShift(ShiftLeft, true, 40); err == nil {
		t.Fatal("expected error setting PUSH_THRESH out of range")
	}
}

func TestSetSidesetCountRejectsOversized(t *testing.T) {
	sm := newTestStateMachine()
	if err := sm.SetSidesetCount(6, false, false); err == nil {
		t.Fatal("expected error setting SIDESET_COUNT > 5")
	}
}

func TestGranularSettersLeaveOtherFieldsUntouchedOnError(t *testing.T) {
	sm := newTestStateMachine()
	if err := sm.SetJmpPin(3); err != nil {
		t.Fatalf("SetJmpPin(3): %v", err)
	}
	if err := sm.SetJmpPin(200); err == nil {
		t.Fatal("expected error for out-of-range jmp pin")
	}
	ctrl := UnpackExecCtrl(sm.GetEXECCTRL())
	if ctrl.JmpPin != 3 {
		t.Fatalf("JmpPin = %d after failed setter, want unchanged 3", ctrl.JmpPin)
	}
}

func TestSetFIFOJoinPropagatesToFIFO(t *testing.T) {
	sm := newTestStateMachine()
	fifo := sm.fifo.(*RingFIFO)
	sm.SetFIFOJoin(true, false)
	for i := 0; i < 2*fifoDepth; i++ {
		if fifo.FSTATRxFull() {
			t.Fatalf("RX reported full early at %d after join", i)
		}
		fifo.RxPush(uint32(i))
	}
	if !fifo.FSTATRxFull() {
		t.Fatal("RX should be full at doubled depth")
	}
}
