package pio

// thresholdOrFull resolves a 0..31 PUSH/PULL_THRESH field to its effective
// bit count, where 0 denotes a full 32-bit threshold.
func thresholdOrFull(t uint8) uint8 {
	if t == 0 {
		return 32
	}
	return t
}

// rxPush shifts the ISR into the RX FIFO when full (or unconditionally when
// ifFull is false), returning whether the caller should stall.
func (sm *StateMachine) rxPush(ifFull, block bool) bool {
	isrFull := sm.isr.count >= thresholdOrFull(sm.pushThresh)
	if !ifFull || (isrFull && sm.autoPush) {
		if sm.fifo.FSTATRxFull() {
			return block
		}
		sm.fifo.RxPush(sm.isr.value)
		sm.isr.reset(0, 0)
		return false
	}
	return false
}

// txPull refills the OSR from the TX FIFO when empty (or unconditionally
// when ifEmpty is false). A non-blocking pull against an empty FIFO
// substitutes X into the OSR, a documented device behaviour.
func (sm *StateMachine) txPull(ifEmpty, block bool) bool {
	osrEmpty := sm.osr.count >= thresholdOrFull(sm.pullThresh)
	if !ifEmpty || (osrEmpty && sm.autoPull) {
		if sm.fifo.FSTATTxEmpty() {
			if !block {
				sm.osr.reset(sm.x, 0)
			}
			return block
		}
		sm.osr.reset(sm.fifo.TxPull(), 0)
		return false
	}
	return false
}

// execute runs instr against sm and returns the resulting engine state.
func (instr *Instruction) execute(sm *StateMachine) ResultState {
	switch instr.Op {
	case OpJMP:
		return instr.execJMP(sm)
	case OpWAIT:
		return instr.execWAIT(sm)
	case OpIN:
		return instr.execIN(sm)
	case OpOUT:
		return instr.execOUT(sm)
	case OpPUSH:
		if sm.rxPush(instr.IfFullOrEmpty, instr.Block) {
			return Stall
		}
		return Complete
	case OpPULL:
		if sm.txPull(instr.IfFullOrEmpty, instr.Block) {
			return Stall
		}
		return Complete
	case OpMOV:
		return instr.execMOV(sm)
	case OpIRQ:
		return instr.execIRQ(sm)
	case OpSET:
		return instr.execSET(sm)
	default:
		panic("pio: execute called on undecoded instruction")
	}
}

func (instr *Instruction) execJMP(sm *StateMachine) ResultState {
	var take bool
	switch instr.JmpCond {
	case JmpAlways:
		take = true
	case JmpXIsZero:
		take = sm.x == 0
	case JmpXNZeroDec:
		take = sm.x != 0
		sm.x--
	case JmpYIsZero:
		take = sm.y == 0
	case JmpYNZeroDec:
		take = sm.y != 0
		sm.y--
	case JmpXNotEqualY:
		take = sm.x != sm.y
	case JmpPinHigh:
		take = sm.gpio.GetBit(sm.jmpPin) == High
	case JmpOSRNotEmpty:
		take = sm.osr.count < thresholdOrFull(sm.pullThresh)
	}
	if take {
		sm.pc = instr.JmpAddr & 0x1F
		return Jump
	}
	return Complete
}

func (instr *Instruction) execWAIT(sm *StateMachine) ResultState {
	var bit PinLevel
	var irqIdx uint8
	switch instr.WaitSource {
	case WaitSourceGPIO:
		bit = sm.gpio.GetBit(instr.WaitIndex)
	case WaitSourcePin:
		bit = sm.gpio.GetBit((sm.inBase + instr.WaitIndex) & 0x1F)
	case WaitSourceIRQ:
		irqIdx = effectiveIRQIndex(sm.num, instr.WaitIndex)
		bit = sm.irq.Get(irqIdx)
	}
	observedHigh := bit == High
	if observedHigh != instr.WaitPolarity {
		return Stall
	}
	if instr.WaitSource == WaitSourceIRQ && instr.WaitPolarity && observedHigh {
		sm.irq.Clear(irqIdx)
	}
	return Complete
}

func (instr *Instruction) execIN(sm *StateMachine) ResultState {
	var data uint32
	switch instr.InSource {
	case InSourcePins:
		data = sm.gpio.GetPins(sm.inBase, instr.BitCount)
	case InSourceX:
		data = sm.x
	case InSourceY:
		data = sm.y
	case InSourceNull:
		data = 0
	case InSourceISR:
		data = sm.isr.value
	case InSourceOSR:
		data = sm.osr.value
	}
	sm.isr.shiftIn(sm.inShiftDir, data, uint(instr.BitCount))
	if sm.rxPush(true, true) {
		return Stall
	}
	return Complete
}

func (instr *Instruction) execOUT(sm *StateMachine) ResultState {
	data := sm.osr.shiftOut(sm.outShiftDir, uint(instr.BitCount))

	switch instr.OutDest {
	case OutDestPins:
		sm.gpio.SetPins(data, sm.outBase, instr.BitCount)
	case OutDestX:
		sm.x = data
	case OutDestY:
		sm.y = data
	case OutDestNull:
		// discard
	case OutDestPinDirs:
		sm.gpio.SetPinDirs(data, sm.outBase, instr.BitCount)
	case OutDestISR:
		sm.isr.reset(data, 0)
	case OutDestPC:
		stalled := sm.txPull(true, true)
		_ = stalled
		sm.pc = uint8(data) & 0x1F
		return Jump
	case OutDestExec:
		stalled := sm.txPull(true, true)
		_ = stalled
		sm.pendingInstruction = uint16(data)
		sm.hasPending = true
		return Stall
	}

	if sm.txPull(true, true) {
		return Stall
	}
	return Complete
}

func (instr *Instruction) execMOV(sm *StateMachine) ResultState {
	var data uint32
	switch instr.MovSrc {
	case MovSrcPins:
		data = sm.gpio.GetPins(sm.inBase, 32)
	case MovSrcX:
		data = sm.x
	case MovSrcY:
		data = sm.y
	case MovSrcNull:
		data = 0
	case MovSrcStatus:
		data = sm.movStatus()
	case MovSrcISR:
		data = sm.isr.value
	case MovSrcOSR:
		data = sm.osr.value
	}

	switch instr.MovOp {
	case MovOpInvert:
		data = ^data
	case MovOpReverse:
		data = reverse32(data)
	}

	switch instr.MovDest {
	case MovDestPins:
		sm.gpio.SetPins(data, sm.outBase, 32)
	case MovDestX:
		sm.x = data
	case MovDestY:
		sm.y = data
	case MovDestExec:
		sm.pendingInstruction = uint16(data)
		sm.hasPending = true
		return Stall
	case MovDestPC:
		sm.pc = uint8(data) & 0x1F
		return Jump
	case MovDestISR:
		sm.isr.reset(data, 0)
	case MovDestOSR:
		sm.osr.reset(data, 0)
	}
	return Complete
}

// movStatus computes the value MOV x, STATUS reads: all-ones when the
// selected FIFO level is below STATUS_N, else all-zeros.
func (sm *StateMachine) movStatus() uint32 {
	level := sm.fifo.TXLevel()
	if sm.statusSel {
		level = sm.fifo.RXLevel()
	}
	if uint8(level) < sm.statusN {
		return ^uint32(0)
	}
	return 0
}

func (instr *Instruction) execIRQ(sm *StateMachine) ResultState {
	idx := effectiveIRQIndex(sm.num, instr.IRQIndex)
	if instr.IRQClear {
		sm.irq.Clear(idx)
		return Complete
	}
	sm.irq.Set(idx)
	if instr.IRQWait && sm.irq.Get(idx) == High {
		return Stall
	}
	return Complete
}

func (instr *Instruction) execSET(sm *StateMachine) ResultState {
	data := uint32(instr.SetData)
	switch instr.SetDest {
	case SetDestPins:
		sm.gpio.SetPins(data, sm.setBase, sm.setCount)
	case SetDestX:
		sm.x = data
	case SetDestY:
		sm.y = data
	case SetDestPinDirs:
		sm.gpio.SetPinDirs(data, sm.setBase, sm.setCount)
	}
	return Complete
}
