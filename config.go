package pio

import "fmt"

// SidePinDir selects whether side-set drives pin values or pin directions
// (EXECCTRL.SIDE_PINDIR).
type SidePinDir uint8

const (
	SideSetsPins    SidePinDir = 0
	SideSetsPinDirs SidePinDir = 1
)

// ExecCtrl mirrors the packed EXECCTRL register fields.
type ExecCtrl struct {
	SideEn     bool
	SidePinDir SidePinDir
	JmpPin     uint8
	WrapTop    uint8
	WrapBottom uint8
	StatusSel  bool
	StatusN    uint8
}

// Pack encodes the fields into the exact EXECCTRL bit layout. Unused bits are left 0.
func (c ExecCtrl) Pack() uint32 {
	var w uint32
	if c.SideEn {
		w |= 1 << 30
	}
	w |= uint32(c.SidePinDir&1) << 29
	w |= uint32(c.JmpPin&0x1F) << 24
	w |= uint32(c.WrapTop&0x1F) << 12
	w |= uint32(c.WrapBottom&0x1F) << 7
	if c.StatusSel {
		w |= 1 << 4
	}
	w |= uint32(c.StatusN & 0xF)
	return w
}

// UnpackExecCtrl decodes a 32-bit EXECCTRL word into its named fields,
// zeroing reserved bits in the process.
func UnpackExecCtrl(w uint32) ExecCtrl {
	return ExecCtrl{
		SideEn:     w&(1<<30) != 0,
		SidePinDir: SidePinDir((w >> 29) & 1),
		JmpPin:     uint8((w >> 24) & 0x1F),
		WrapTop:    uint8((w >> 12) & 0x1F),
		WrapBottom: uint8((w >> 7) & 0x1F),
		StatusSel:  w&(1<<4) != 0,
		StatusN:    uint8(w & 0xF),
	}
}

// ShiftCtrl mirrors the packed SHIFTCTRL register fields.
type ShiftCtrl struct {
	JoinRX      bool
	JoinTX      bool
	PullThresh  uint8
	PushThresh  uint8
	OutShiftDir ShiftDir
	InShiftDir  ShiftDir
	AutoPull    bool
	AutoPush    bool
}

// Pack encodes the fields into the exact SHIFTCTRL bit layout.
func (c ShiftCtrl) Pack() uint32 {
	var w uint32
	if c.JoinRX {
		w |= 1 << 31
	}
	if c.JoinTX {
		w |= 1 << 30
	}
	w |= uint32(c.PullThresh&0x1F) << 25
	w |= uint32(c.PushThresh&0x1F) << 20
	w |= uint32(c.OutShiftDir&1) << 19
	w |= uint32(c.InShiftDir&1) << 18
	if c.AutoPull {
		w |= 1 << 17
	}
	if c.AutoPush {
		w |= 1 << 16
	}
	return w
}

// UnpackShiftCtrl decodes a 32-bit SHIFTCTRL word into its named fields.
func UnpackShiftCtrl(w uint32) ShiftCtrl {
	return ShiftCtrl{
		JoinRX:      w&(1<<31) != 0,
		JoinTX:      w&(1<<30) != 0,
		PullThresh:  uint8((w >> 25) & 0x1F),
		PushThresh:  uint8((w >> 20) & 0x1F),
		OutShiftDir: ShiftDir((w >> 19) & 1),
		InShiftDir:  ShiftDir((w >> 18) & 1),
		AutoPull:    w&(1<<17) != 0,
		AutoPush:    w&(1<<16) != 0,
	}
}

// PinCtrl mirrors the packed PINCTRL register fields.
type PinCtrl struct {
	SidesetCount uint8
	SetCount     uint8
	OutCount     uint8
	InBase       uint8
	SidesetBase  uint8
	SetBase      uint8
	OutBase      uint8
}

// Pack encodes the fields into the exact PINCTRL bit layout.
func (c PinCtrl) Pack() uint32 {
	var w uint32
	w |= uint32(c.SidesetCount&0x7) << 29
	w |= uint32(c.SetCount&0x7) << 26
	w |= uint32(c.OutCount&0x3F) << 20
	w |= uint32(c.InBase&0x1F) << 15
	w |= uint32(c.SidesetBase&0x1F) << 10
	w |= uint32(c.SetBase&0x1F) << 5
	w |= uint32(c.OutBase & 0x1F)
	return w
}

// UnpackPinCtrl decodes a 32-bit PINCTRL word into its named fields.
func UnpackPinCtrl(w uint32) PinCtrl {
	return PinCtrl{
		SidesetCount: uint8((w >> 29) & 0x7),
		SetCount:     uint8((w >> 26) & 0x7),
		OutCount:     uint8((w >> 20) & 0x3F),
		InBase:       uint8((w >> 15) & 0x1F),
		SidesetBase:  uint8((w >> 10) & 0x1F),
		SetBase:      uint8((w >> 5) & 0x1F),
		OutBase:      uint8(w & 0x1F),
	}
}

// GetEXECCTRL returns the packed EXECCTRL word for the state machine.
func (sm *StateMachine) GetEXECCTRL() uint32 { return sm.execCtrl().Pack() }

// GetSHIFTCTRL returns the packed SHIFTCTRL word for the state machine.
func (sm *StateMachine) GetSHIFTCTRL() uint32 { return sm.shiftCtrl().Pack() }

// GetPINCTRL returns the packed PINCTRL word for the state machine.
func (sm *StateMachine) GetPINCTRL() uint32 { return sm.pinCtrl().Pack() }

// SetEXECCTRL applies a packed EXECCTRL word, validating every field it
// carries.
func (sm *StateMachine) SetEXECCTRL(w uint32) error {
	return sm.applyExecCtrl(UnpackExecCtrl(w))
}

// SetSHIFTCTRL applies a packed SHIFTCTRL word, validating every field it carries.
func (sm *StateMachine) SetSHIFTCTRL(w uint32) error {
	return sm.applyShiftCtrl(UnpackShiftCtrl(w))
}

// SetPINCTRL applies a packed PINCTRL word, validating every field it carries.
func (sm *StateMachine) SetPINCTRL(w uint32) error {
	return sm.applyPinCtrl(UnpackPinCtrl(w))
}

func (sm *StateMachine) execCtrl() ExecCtrl {
	return ExecCtrl{
		SideEn:     sm.sideEn,
		SidePinDir: sm.sidePinDir,
		JmpPin:     sm.jmpPin,
		WrapTop:    sm.wrapTop,
		WrapBottom: sm.wrapBottom,
		StatusSel:  sm.statusSel,
		StatusN:    sm.statusN,
	}
}

func (sm *StateMachine) shiftCtrl() ShiftCtrl {
	return ShiftCtrl{
		JoinRX:      sm.joinRX,
		JoinTX:      sm.joinTX,
		PullThresh:  sm.pullThresh,
		PushThresh:  sm.pushThresh,
		OutShiftDir: sm.outShiftDir,
		InShiftDir:  sm.inShiftDir,
		AutoPull:    sm.autoPull,
		AutoPush:    sm.autoPush,
	}
}

func (sm *StateMachine) pinCtrl() PinCtrl {
	return PinCtrl{
		SidesetCount: sm.sidesetCount,
		SetCount:     sm.setCount,
		OutCount:     sm.outCount,
		InBase:       sm.inBase,
		SidesetBase:  sm.sidesetBase,
		SetBase:      sm.setBase,
		OutBase:      sm.outBase,
	}
}

func (sm *StateMachine) applyExecCtrl(c ExecCtrl) error {
	if c.JmpPin > 0x1F {
		return fmt.Errorf("%w: JMP_PIN %d out of range 0..31", ErrInvalidArgument, c.JmpPin)
	}
	if c.WrapTop > 0x1F {
		return fmt.Errorf("%w: WRAP_TOP %d out of range 0..31", ErrInvalidArgument, c.WrapTop)
	}
	if c.WrapBottom > 0x1F {
		return fmt.Errorf("%w: WRAP_BOTTOM %d out of range 0..31", ErrInvalidArgument, c.WrapBottom)
	}
	if c.StatusN > 0xF {
		return fmt.Errorf("%w: STATUS_N %d out of range 0..15", ErrInvalidArgument, c.StatusN)
	}
	sm.sideEn = c.SideEn
	sm.sidePinDir = c.SidePinDir
	sm.jmpPin = c.JmpPin
	sm.wrapTop = c.WrapTop
	sm.wrapBottom = c.WrapBottom
	sm.statusSel = c.StatusSel
	sm.statusN = c.StatusN
	return nil
}

func (sm *StateMachine) applyShiftCtrl(c ShiftCtrl) error {
	if c.PullThresh > 0x1F {
		return fmt.Errorf("%w: PULL_THRESH %d out of range 0..31", ErrInvalidArgument, c.PullThresh)
	}
	if c.PushThresh > 0x1F {
		return fmt.Errorf("%w: PUSH_THRESH %d out of range 0..31", ErrInvalidArgument, c.PushThresh)
	}
	sm.joinRX = c.JoinRX
	sm.joinTX = c.JoinTX
	sm.pullThresh = c.PullThresh
	sm.pushThresh = c.PushThresh
	sm.outShiftDir = c.OutShiftDir
	sm.inShiftDir = c.InShiftDir
	sm.autoPull = c.AutoPull
	sm.autoPush = c.AutoPush
	sm.fifo.SetJoinRX(c.JoinRX)
	sm.fifo.SetJoinTX(c.JoinTX)
	return nil
}

func (sm *StateMachine) applyPinCtrl(c PinCtrl) error {
	if c.SidesetCount > 5 {
		return fmt.Errorf("%w: SIDESET_COUNT %d exceeds 5", ErrInvalidArgument, c.SidesetCount)
	}
	if c.SetCount > 5 {
		return fmt.Errorf("%w: SET_COUNT %d exceeds 5", ErrInvalidArgument, c.SetCount)
	}
	if c.OutCount > 31 {
		return fmt.Errorf("%w: OUT_COUNT %d exceeds 31", ErrInvalidArgument, c.OutCount)
	}
	sm.sidesetCount = c.SidesetCount
	sm.setCount = c.SetCount
	sm.outCount = c.OutCount
	sm.inBase = c.InBase
	sm.sidesetBase = c.SidesetBase
	sm.setBase = c.SetBase
	sm.outBase = c.OutBase
	return nil
}

// Granular setters. Each validates its own argument and leaves all other
// configuration untouched on failure.

func (sm *StateMachine) SetSideEn(enabled bool) { sm.sideEn = enabled }

func (sm *StateMachine) SetSidePinDir(d SidePinDir) { sm.sidePinDir = d }

func (sm *StateMachine) SetJmpPin(pin uint8) error {
	if pin > 0x1F {
		return fmt.Errorf("%w: JMP_PIN %d out of range 0..31", ErrInvalidArgument, pin)
	}
	sm.jmpPin = pin
	return nil
}

func (sm *StateMachine) SetWrap(bottom, top uint8) error {
	if bottom > 0x1F || top > 0x1F {
		return fmt.Errorf("%w: wrap bounds must be 0..31", ErrInvalidArgument)
	}
	sm.wrapBottom, sm.wrapTop = bottom, top
	return nil
}

func (sm *StateMachine) SetStatus(sel bool, n uint8) error {
	if n > 0xF {
		return fmt.Errorf("%w: STATUS_N %d out of range 0..15", ErrInvalidArgument, n)
	}
	sm.statusSel, sm.statusN = sel, n
	return nil
}

func (sm *StateMachine) SetInShift(dir ShiftDir, autoPush bool, threshold uint8) error {
	if threshold > 0x1F {
		return fmt.Errorf("%w: PUSH_THRESH %d out of range 0..31", ErrInvalidArgument, threshold)
	}
	sm.inShiftDir, sm.autoPush, sm.pushThresh = dir, autoPush, threshold
	return nil
}

func (sm *StateMachine) SetOutShift(dir ShiftDir, autoPull bool, threshold uint8) error {
	if threshold > 0x1F {
		return fmt.Errorf("%w: PULL_THRESH %d out of range 0..31", ErrInvalidArgument, threshold)
	}
	sm.outShiftDir, sm.autoPull, sm.pullThresh = dir, autoPull, threshold
	return nil
}

func (sm *StateMachine) SetFIFOJoin(joinRX, joinTX bool) {
	sm.joinRX, sm.joinTX = joinRX, joinTX
	sm.fifo.SetJoinRX(joinRX)
	sm.fifo.SetJoinTX(joinTX)
}

func (sm *StateMachine) SetSidesetCount(count uint8, optional bool, pindirs bool) error {
	if count > 5 {
		return fmt.Errorf("%w: SIDESET_COUNT %d exceeds 5", ErrInvalidArgument, count)
	}
	sm.sidesetCount = count
	sm.sideEn = optional
	if pindirs {
		sm.sidePinDir = SideSetsPinDirs
	} else {
		sm.sidePinDir = SideSetsPins
	}
	return nil
}

func (sm *StateMachine) SetSidesetBase(base uint8) error {
	if base > 0x1F {
		return fmt.Errorf("%w: SIDESET_BASE %d out of range 0..31", ErrInvalidArgument, base)
	}
	sm.sidesetBase = base
	return nil
}

func (sm *StateMachine) SetOutPins(base, count uint8) error {
	if base > 0x1F {
		return fmt.Errorf("%w: OUT_BASE %d out of range 0..31", ErrInvalidArgument, base)
	}
	if count > 31 {
		return fmt.Errorf("%w: OUT_COUNT %d exceeds 31", ErrInvalidArgument, count)
	}
	sm.outBase, sm.outCount = base, count
	return nil
}

func (sm *StateMachine) SetSetPins(base, count uint8) error {
	if base > 0x1F {
		return fmt.Errorf("%w: SET_BASE %d out of range 0..31", ErrInvalidArgument, base)
	}
	if count > 5 {
		return fmt.Errorf("%w: SET_COUNT %d exceeds 5", ErrInvalidArgument, count)
	}
	sm.setBase, sm.setCount = base, count
	return nil
}

func (sm *StateMachine) SetInBase(base uint8) error {
	if base > 0x1F {
		return fmt.Errorf("%w: IN_BASE %d out of range 0..31", ErrInvalidArgument, base)
	}
	sm.inBase = base
	return nil
}
