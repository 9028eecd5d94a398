package pio

import "fmt"

// ResultState is what executing one instruction returns to the engine,
// deciding how PC and the delay counter are updated.
type ResultState uint8

const (
	// Complete: normal retirement. The engine advances PC (with wrap) and
	// arms the instruction's delay.
	Complete ResultState = iota
	// Stall: instruction not yet retired. PC is unchanged and no delay is
	// armed; the engine reruns the same instruction next cycle.
	Stall
	// Jump: the instruction updated PC itself. The engine must not also
	// advance PC, but delay is still armed.
	Jump
)

// StateMachine is one of up to four independent cycle engines sharing a PIO
// block's code memory. The zero value is not usable;
// construct with NewStateMachine.
type StateMachine struct {
	num uint8

	x, y uint32
	isr  shiftRegister
	osr  shiftRegister
	pc   uint8

	enabled      bool
	clockEnabled bool
	pendingDelay uint8

	hasPending         bool
	pendingInstruction uint16

	claimed bool
	fault   error

	// PINCTRL
	sidesetCount uint8
	setCount     uint8
	outCount     uint8
	inBase       uint8
	sidesetBase  uint8
	setBase      uint8
	outBase      uint8

	// EXECCTRL
	sideEn     bool
	sidePinDir SidePinDir
	jmpPin     uint8
	wrapTop    uint8
	wrapBottom uint8
	statusSel  bool
	statusN    uint8

	// SHIFTCTRL
	inShiftDir  ShiftDir
	outShiftDir ShiftDir
	pullThresh  uint8
	pushThresh  uint8
	autoPull    bool
	autoPush    bool
	joinRX      bool
	joinTX      bool

	memory Memory
	gpio   PinBank
	irq    IRQBank
	fifo   FIFO
	clock  ClockDivider
}

// NewStateMachine constructs a state machine with identity num (0..3, used
// for relative IRQ addressing) and the given shared collaborators. The
// returned machine is disabled and in its reset state; call Restart to
// re-apply reset semantics after reconfiguring.
func NewStateMachine(num uint8, memory Memory, gpio PinBank, irq IRQBank, fifo FIFO, clock ClockDivider) *StateMachine {
	sm := &StateMachine{
		num:    num & 0x3,
		memory: memory,
		gpio:   gpio,
		irq:    irq,
		fifo:   fifo,
		clock:  clock,
	}
	sm.Restart()
	return sm
}

// Num returns the state machine's identity (0..3).
func (sm *StateMachine) Num() uint8 { return sm.num }

// Fault returns the decode error that halted this state machine's progress,
// if any. A non-nil fault stays latched: ClockRaisingEdge does nothing until
// Restart clears it.
func (sm *StateMachine) Fault() error { return sm.fault }

// Claim marks the state machine as in use, returning false if already
// claimed.
func (sm *StateMachine) Claim() bool {
	if sm.claimed {
		return false
	}
	sm.claimed = true
	return true
}

// Unclaim releases a previous Claim.
func (sm *StateMachine) Unclaim() { sm.claimed = false }

// IsClaimed reports whether the state machine is currently claimed.
func (sm *StateMachine) IsClaimed() bool { return sm.claimed }

// Restart resets PC, the shift registers, and the pending-delay and
// pending-instruction state to their power-on values. X, Y and the
// configuration registers are left untouched, matching the RP-family
// device's SM_RESTART behaviour.
func (sm *StateMachine) Restart() {
	sm.pc = 0
	sm.isr.reset(0, 0)
	sm.osr.reset(0, 32)
	sm.pendingDelay = 0
	sm.hasPending = false
	sm.fault = nil
}

// Enable turns the state machine on. It will begin executing on the next
// ClockRaisingEdge.
func (sm *StateMachine) Enable() { sm.enabled = true; sm.clockEnabled = true }

// Disable turns the state machine off; ClockRaisingEdge becomes a no-op.
func (sm *StateMachine) Disable() { sm.enabled = false }

// IsEnabled reports whether the state machine is running.
func (sm *StateMachine) IsEnabled() bool { return sm.enabled }

// SetPC sets the program counter, which must be in 0..31.
func (sm *StateMachine) SetPC(pc uint8) error {
	if pc > 0x1F {
		return fmt.Errorf("%w: PC %d out of range 0..31", ErrInvalidArgument, pc)
	}
	sm.pc = pc
	return nil
}

// PC returns the program counter.
func (sm *StateMachine) PC() uint8 { return sm.pc }

// SetX sets the X scratch register.
func (sm *StateMachine) SetX(v uint32) { sm.x = v }

// X returns the X scratch register.
func (sm *StateMachine) X() uint32 { return sm.x }

// SetY sets the Y scratch register.
func (sm *StateMachine) SetY(v uint32) { sm.y = v }

// Y returns the Y scratch register.
func (sm *StateMachine) Y() uint32 { return sm.y }

// SetISRValue sets the ISR's value and shift count directly, bypassing the
// shift logic. Intended for test setup and host-side debug inspection.
func (sm *StateMachine) SetISRValue(v uint32, shiftCount uint8) error {
	if shiftCount > 32 {
		return fmt.Errorf("%w: ISR shift count %d exceeds 32", ErrInvalidArgument, shiftCount)
	}
	sm.isr.reset(v, shiftCount)
	return nil
}

// ISR returns the ISR's current value and shift count.
func (sm *StateMachine) ISR() (value uint32, shiftCount uint8) { return sm.isr.value, sm.isr.count }

// SetOSRValue sets the OSR's value and shift count directly.
func (sm *StateMachine) SetOSRValue(v uint32, shiftCount uint8) error {
	if shiftCount > 32 {
		return fmt.Errorf("%w: OSR shift count %d exceeds 32", ErrInvalidArgument, shiftCount)
	}
	sm.osr.reset(v, shiftCount)
	return nil
}

// OSR returns the OSR's current value and shift count.
func (sm *StateMachine) OSR() (value uint32, shiftCount uint8) { return sm.osr.value, sm.osr.count }

// InsertInstruction queues word to run on the next ClockRaisingEdge in place
// of the instruction at PC, without consuming a memory slot. Queuing a
// second instruction before the first has run is an internal invariant
// violation.
func (sm *StateMachine) InsertInstruction(word uint16) {
	if sm.hasPending {
		panic(ErrPendingInstructionFull.Error())
	}
	sm.pendingInstruction = word
	sm.hasPending = true
}

// DumpMemory returns a snapshot of the shared code memory.
func (sm *StateMachine) DumpMemory() [MemorySize]uint16 {
	if cm, ok := sm.memory.(*CodeMemory); ok {
		return cm.Dump()
	}
	var words [MemorySize]uint16
	for i := range words {
		words[i] = sm.memory.Get(uint8(i))
	}
	return words
}

// SetCLKDIV sets the state machine's clock divisor.
func (sm *StateMachine) SetCLKDIV(whole uint16, frac uint8) { sm.clock.SetCLKDIV(whole, frac) }

// CLKDIV returns the state machine's clock divisor.
func (sm *StateMachine) CLKDIV() (whole uint16, frac uint8) { return sm.clock.CLKDIV() }

// SystemTick advances the state machine's clock divider by one system-clock
// cycle and, if that produced a rising edge, runs one engine cycle. It
// returns the edges that fired, for callers that want to observe falling
// edges too (e.g. side-set pin-release timing, which this core does not model).
func (sm *StateMachine) SystemTick() Edge {
	edge := sm.clock.Tick()
	if edge&RisingEdge != 0 {
		sm.ClockRaisingEdge()
	}
	return edge
}

// ClockRaisingEdge runs exactly one engine cycle as if a state-machine clock
// rising edge had just occurred. It is a
// no-op unless the state machine is enabled and its clock is enabled.
func (sm *StateMachine) ClockRaisingEdge() {
	if !sm.enabled || !sm.clockEnabled {
		return
	}
	if sm.fault != nil {
		return
	}

	if sm.pendingDelay > 0 {
		sm.pendingDelay--
		return
	}

	var word uint16
	if sm.hasPending {
		word = sm.pendingInstruction
		sm.hasPending = false
	} else {
		word = sm.memory.Get(sm.pc)
	}

	instr, err := Decode(word, sm.sidesetCount, sm.sideEn)
	if err != nil {
		sm.fault = err
		return
	}

	if instr.HasSide {
		sm.applySideSet(instr.SideSet)
	}

	state := instr.execute(sm)

	switch state {
	case Complete:
		sm.advancePC()
		sm.pendingDelay = instr.Delay
	case Jump:
		sm.pendingDelay = instr.Delay
	case Stall:
		// PC unchanged, no delay armed; instruction reruns next edge.
	}
}

// advancePC applies the wrap rule: from WRAP_TOP, PC goes to WRAP_BOTTOM
// regardless of their relative order; otherwise PC increments mod 32.
func (sm *StateMachine) advancePC() {
	if sm.pc == sm.wrapTop {
		sm.pc = sm.wrapBottom
		return
	}
	sm.pc = (sm.pc + 1) & 0x1F
}

// applySideSet drives the configured side-set window of pins or pindirs with
// value.
func (sm *StateMachine) applySideSet(value uint8) {
	data := uint32(value)
	if sm.sidePinDir == SideSetsPinDirs {
		sm.gpio.SetPinDirs(data, sm.sidesetBase, sm.sidesetCount)
	} else {
		sm.gpio.SetPins(data, sm.sidesetBase, sm.sidesetCount)
	}
}
