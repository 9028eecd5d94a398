package pio

// Opcode is the 9-member instruction class identified by the top 3 bits of
// an instruction word.
type Opcode uint8

const (
	OpJMP Opcode = iota
	OpWAIT
	OpIN
	OpOUT
	OpPUSH
	OpPULL
	OpMOV
	OpIRQ
	OpSET
)

const (
	opcodeJMP  uint16 = 0x0000
	opcodeWAIT uint16 = 0x2000
	opcodeIN   uint16 = 0x4000
	opcodeOUT  uint16 = 0x6000
	opcodePUSH uint16 = 0x8000
	opcodePULL uint16 = 0x8080
	opcodeMOV  uint16 = 0xA000
	opcodeIRQ  uint16 = 0xC000
	opcodeSET  uint16 = 0xE000

	opcodeMask     uint16 = 0xE000
	pushPullBit    uint16 = 0x0080
	delaySideField uint16 = 0x1F00
)

// JmpCond selects the condition tested by a JMP instruction.
type JmpCond uint8

const (
	JmpAlways      JmpCond = iota // always
	JmpXIsZero                    // !X
	JmpXNZeroDec                  // X--
	JmpYIsZero                    // !Y
	JmpYNZeroDec                  // Y--
	JmpXNotEqualY                 // X != Y
	JmpPinHigh                    // PIN
	JmpOSRNotEmpty                // !OSRE
)

// WaitSource selects what a WAIT instruction samples.
type WaitSource uint8

const (
	WaitSourceGPIO WaitSource = iota
	WaitSourcePin
	WaitSourceIRQ
)

// InSource selects the data source of an IN instruction.
type InSource uint8

const (
	InSourcePins InSource = iota
	InSourceX
	InSourceY
	InSourceNull
	_reservedIn4
	_reservedIn5
	InSourceISR
	InSourceOSR
)

// OutDest selects the destination of an OUT instruction.
type OutDest uint8

const (
	OutDestPins OutDest = iota
	OutDestX
	OutDestY
	OutDestNull
	OutDestPinDirs
	OutDestPC
	OutDestISR
	OutDestExec
)

// MovDest selects the destination of a MOV instruction.
type MovDest uint8

const (
	MovDestPins MovDest = iota
	MovDestX
	MovDestY
	_reservedMovDest3
	MovDestExec
	MovDestPC
	MovDestISR
	MovDestOSR
)

// MovOp selects the transform a MOV instruction applies to its source value.
type MovOp uint8

const (
	MovOpNone MovOp = iota
	MovOpInvert
	MovOpReverse
	_reservedMovOp3
)

// MovSrc selects the source of a MOV instruction.
type MovSrc uint8

const (
	MovSrcPins MovSrc = iota
	MovSrcX
	MovSrcY
	MovSrcNull
	_reservedMovSrc4
	MovSrcStatus
	MovSrcISR
	MovSrcOSR
)

// SetDest selects the destination of a SET instruction.
type SetDest uint8

const (
	SetDestPins SetDest = iota
	SetDestX
	SetDestY
	_reservedSetDest3
	SetDestPinDirs
)

// Instruction is a decoded PIO instruction: the 9-member tagged variant the
// engine executes. Fields outside the variant selected by Op are zero and
// unused.
type Instruction struct {
	Op      Opcode
	Delay   uint8
	SideSet uint8
	HasSide bool

	// JMP
	JmpCond JmpCond
	JmpAddr uint8

	// WAIT
	WaitPolarity bool
	WaitSource   WaitSource
	WaitIndex    uint8

	// IN
	InSource InSource
	BitCount uint8

	// OUT
	OutDest OutDest

	// PUSH / PULL
	IfFullOrEmpty bool
	Block         bool

	// MOV
	MovDest MovDest
	MovOp   MovOp
	MovSrc  MovSrc

	// IRQ
	IRQClear bool
	IRQWait  bool
	IRQIndex uint8

	// SET
	SetDest SetDest
	SetData uint8
}

var delayMaskByCount = [6]uint8{0x1F, 0x0F, 0x07, 0x03, 0x01, 0x00}

// decodeDelaySideSet splits the 5-bit delay/side-set field, given the state
// machine's configured SIDESET_COUNT and SIDE_EN.
func decodeDelaySideSet(df uint8, sidesetCount uint8, sideEn bool) (delay, sideSet uint8, hasSide bool) {
	delay = df & delayMaskByCount[sidesetCount]
	if sidesetCount == 0 {
		return delay, 0, false
	}
	if sideEn {
		if df&0x10 == 0 {
			return delay, 0, false
		}
		return delay, (df & 0x0F) >> (5 - sidesetCount), true
	}
	return delay, df >> (5 - sidesetCount), true
}

// Decode materializes an Instruction from a raw 16-bit word, given the
// owning state machine's SIDESET_COUNT and SIDE_EN. Reserved encodings
// produce a *DecodeError.
func Decode(word uint16, sidesetCount uint8, sideEn bool) (*Instruction, error) {
	df := uint8((word & delaySideField) >> 8)
	delay, sideSet, hasSide := decodeDelaySideSet(df, sidesetCount, sideEn)
	lsb := uint8(word)

	instr := &Instruction{Delay: delay, SideSet: sideSet, HasSide: hasSide}

	switch word & opcodeMask {
	case opcodeJMP:
		instr.Op = OpJMP
		instr.JmpCond = JmpCond((lsb >> 5) & 0x7)
		instr.JmpAddr = lsb & 0x1F

	case opcodeWAIT:
		instr.Op = OpWAIT
		instr.WaitPolarity = (lsb>>7)&1 != 0
		src := (lsb >> 5) & 0x3
		if src == 0x3 {
			return nil, decodeErrorf(word, "WAIT: reserved source")
		}
		instr.WaitSource = WaitSource(src)
		index := lsb & 0x1F
		if instr.WaitSource == WaitSourceIRQ {
			if err := validateIRQIndex(word, index); err != nil {
				return nil, err
			}
		}
		instr.WaitIndex = index

	case opcodeIN:
		instr.Op = OpIN
		src := (lsb >> 5) & 0x7
		if src == 4 || src == 5 {
			return nil, decodeErrorf(word, "IN: reserved source")
		}
		instr.InSource = InSource(src)
		instr.BitCount = bitCountOf(lsb)

	case opcodeOUT:
		instr.Op = OpOUT
		instr.OutDest = OutDest((lsb >> 5) & 0x7)
		instr.BitCount = bitCountOf(lsb)

	case opcodePUSH, opcodePULL:
		if word&pushPullBit != 0 {
			instr.Op = OpPULL
		} else {
			instr.Op = OpPUSH
		}
		if lsb&0x1F != 0 {
			return nil, decodeErrorf(word, "PUSH/PULL: reserved low bits must be 0")
		}
		instr.IfFullOrEmpty = lsb&0x40 != 0
		instr.Block = lsb&0x20 != 0

	case opcodeMOV:
		instr.Op = OpMOV
		dest := (lsb >> 5) & 0x7
		if dest == 3 {
			return nil, decodeErrorf(word, "MOV: reserved destination")
		}
		op := (lsb >> 3) & 0x3
		if op == 3 {
			return nil, decodeErrorf(word, "MOV: reserved op")
		}
		src := lsb & 0x7
		if src == 4 {
			return nil, decodeErrorf(word, "MOV: reserved source")
		}
		instr.MovDest = MovDest(dest)
		instr.MovOp = MovOp(op)
		instr.MovSrc = MovSrc(src)

	case opcodeIRQ:
		instr.Op = OpIRQ
		if lsb&0x80 != 0 {
			return nil, decodeErrorf(word, "IRQ: reserved top bit must be 0")
		}
		instr.IRQClear = lsb&0x40 != 0
		instr.IRQWait = lsb&0x20 != 0
		if instr.IRQClear {
			instr.IRQWait = false
		}
		index := lsb & 0x1F
		if err := validateIRQIndex(word, index); err != nil {
			return nil, err
		}
		instr.IRQIndex = index

	case opcodeSET:
		instr.Op = OpSET
		dest := (lsb >> 5) & 0x7
		if dest > uint8(SetDestPinDirs) || dest == uint8(_reservedSetDest3) {
			return nil, decodeErrorf(word, "SET: reserved destination")
		}
		instr.SetDest = SetDest(dest)
		instr.SetData = lsb & 0x1F

	default:
		return nil, decodeErrorf(word, "unreachable opcode class")
	}

	return instr, nil
}

func bitCountOf(lsb uint8) uint8 {
	n := lsb & 0x1F
	if n == 0 {
		return 32
	}
	return n
}

// validateIRQIndex enforces IRQ index constraint:
// index&0x08 must be 0, and index may not set both the relative (0x10) and
// the "+4" (0x04) bits simultaneously.
func validateIRQIndex(word uint16, index uint8) error {
	if index&0x08 != 0 {
		return decodeErrorf(word, "IRQ index: bit 3 must be 0")
	}
	if index&0x10 != 0 && index&0x04 != 0 {
		return decodeErrorf(word, "IRQ index: relative and +4 bits both set")
	}
	return nil
}

// effectiveIRQIndex resolves the IRQ flag number addressed by a WAIT/IRQ
// instruction's index field, applying relative addressing when index&0x10 is
// set.
func effectiveIRQIndex(smNum uint8, index uint8) uint8 {
	if index&0x10 != 0 {
		r := index & 0x7
		return (smNum + r) & 0x3
	}
	return index & 0x7
}
