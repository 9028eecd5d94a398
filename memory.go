package pio

// MemorySize is the number of 16-bit instruction slots shared by all state
// machines in one PIO block.
const MemorySize = 32

// Memory is the shared code RAM contract consumed by the engine. Reads are
// idempotent and non-conflicting across state machines; writes are the
// concern of an external loader, out of scope for the core.
type Memory interface {
	// Get returns the 16-bit instruction word at addr, addr in 0..31.
	Get(addr uint8) uint16
}

// CodeMemory is the reference implementation of Memory: a flat array of 32
// instruction words, shared by value-less pointer among every state machine
// in a block. It stands in for the out-of-scope "top-level PIO block
// aggregating four state machines" component's memory arbitration, offering
// only the read/write surface the engine needs.
type CodeMemory struct {
	words [MemorySize]uint16
}

// Get implements Memory.
func (m *CodeMemory) Get(addr uint8) uint16 {
	return m.words[addr&0x1F]
}

// Set writes a single instruction word at addr, addr in 0..31. This is the
// external loader path; the engine itself never calls it.
func (m *CodeMemory) Set(addr uint8, word uint16) {
	m.words[addr&0x1F] = word
}

// LoadAt copies instructions into memory starting at offset, relocating any
// JMP instruction's target address by offset, so a hand-assembled program
// can be loaded at an arbitrary base address.
func (m *CodeMemory) LoadAt(offset uint8, instructions []uint16) {
	for i, word := range instructions {
		if word&opcodeMask == opcodeJMP {
			addr := uint8(word) & 0x1F
			word = word&^uint16(0x1F) | uint16((addr+offset)&0x1F)
		}
		m.words[(offset+uint8(i))&0x1F] = word
	}
}

// Dump returns a snapshot of all 32 instruction words for host-side
// inspection.
func (m *CodeMemory) Dump() [MemorySize]uint16 {
	return m.words
}
