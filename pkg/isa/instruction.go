// Package isa defines the PIM instruction word: its opcodes, the bit-field
// codec, and the on-disk program format.
package isa

import "fmt"

// Instruction is a 32-bit word of which only the low 19 bits are used.
//
// Layout:
// ┌────────┬──────────┬────┬────┬──────────┐
// │ opcode │ core_ptr │ rd │ wr │ row_addr │
// │ 18-17  │  16-11   │ 10 │ 9  │   8-0    │
// └────────┴──────────┴────┴────┴──────────┘
//
// Bits 31-19 are always zero.
type Instruction uint32

// Field positions and widths.
const (
	OpcodeShift = 17
	OpcodeMask  = 0x3 // 2 bits

	CorePtrShift = 11
	CorePtrMask  = 0x3F // 6 bits

	RdFlagShift = 10
	RdFlagMask  = 0x1

	WrFlagShift = 9
	WrFlagMask  = 0x1

	RowAddrShift = 0
	RowAddrMask  = 0x1FF // 9 bits

	// WordBits is the number of meaningful bits in an instruction word.
	WordBits = 19

	// AddressSpace is the number of addressable rows.
	AddressSpace = RowAddrMask + 1
)

// Fields is the unpacked form of an instruction word.
type Fields struct {
	Opcode  Opcode
	CorePtr uint32
	Rd      bool
	Wr      bool
	RowAddr uint32
}

// Pack builds an instruction word. Each field is masked to its width, so
// values that do not fit are truncated rather than rejected.
func Pack(op Opcode, corePtr uint32, rd, wr bool, rowAddr uint32) Instruction {
	var inst uint32

	inst |= (uint32(op) & OpcodeMask) << OpcodeShift
	inst |= (corePtr & CorePtrMask) << CorePtrShift
	if rd {
		inst |= 1 << RdFlagShift
	}
	if wr {
		inst |= 1 << WrFlagShift
	}
	inst |= (rowAddr & RowAddrMask) << RowAddrShift

	return Instruction(inst)
}

// Unpack splits an instruction word into its fields.
func Unpack(i Instruction) Fields {
	return Fields{
		Opcode:  i.Opcode(),
		CorePtr: i.CorePtr(),
		Rd:      i.Rd(),
		Wr:      i.Wr(),
		RowAddr: i.RowAddr(),
	}
}

// Pack re-encodes the fields into a word.
func (f Fields) Pack() Instruction {
	return Pack(f.Opcode, f.CorePtr, f.Rd, f.Wr, f.RowAddr)
}

// Opcode returns the opcode (bits 18-17).
func (i Instruction) Opcode() Opcode {
	return Opcode((uint32(i) >> OpcodeShift) & OpcodeMask)
}

// CorePtr returns the buffer/unit selector (bits 16-11).
func (i Instruction) CorePtr() uint32 {
	return (uint32(i) >> CorePtrShift) & CorePtrMask
}

// Rd returns the read-enable flag (bit 10).
func (i Instruction) Rd() bool {
	return (uint32(i)>>RdFlagShift)&RdFlagMask != 0
}

// Wr returns the write-enable flag (bit 9).
func (i Instruction) Wr() bool {
	return (uint32(i)>>WrFlagShift)&WrFlagMask != 0
}

// RowAddr returns the linear memory address (bits 8-0).
func (i Instruction) RowAddr() uint32 {
	return (uint32(i) >> RowAddrShift) & RowAddrMask
}

// Hex returns the raw word as 8 zero-padded hex digits.
func (i Instruction) Hex() string {
	return fmt.Sprintf("%08x", uint32(i))
}

// String returns a human-readable representation of the instruction.
func (i Instruction) String() string {
	return fmt.Sprintf("%s core=%d rd=%d wr=%d addr=%d",
		i.Opcode(), i.CorePtr(), flagBit(i.Rd()), flagBit(i.Wr()), i.RowAddr())
}

func flagBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
